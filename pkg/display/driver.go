// Package display provides the display driver registry and the
// drivers that present the emulated LCD.
package display

import (
	"github.com/thelolagemann/gomeboy-advance/internal/io"
	"github.com/thelolagemann/gomeboy-advance/pkg/emulator"
	"github.com/thelolagemann/gomeboy-advance/pkg/log"
)

// Init ensures at least one display driver has been installed.
func Init() {
	if len(InstalledDrivers) == 0 {
		log.Fatal("No display drivers installed. Please compile with at least one display driver")
	}
}

// Driver is the interface that wraps the basic methods for a
// display driver.
type Driver interface {
	// Start the display driver. Blocks until the driver stops.
	Start(c emulator.Controller, pressed, released chan<- io.Button) error
	// Stop the display driver.
	Stop() error
}

// InstalledDriver is a driver that has been installed. This is
// used to allow drivers to register their name.
type InstalledDriver struct {
	Name string
	Driver
}

// InstalledDrivers is a list of all the installed drivers.
// Drivers call display.Install in their init() function.
var InstalledDrivers []*InstalledDriver

// GetDriver returns the driver with the given name, or nil if
// no driver with that name is installed.
func GetDriver(name string) Driver {
	if name == "auto" {
		return InstalledDrivers[0].Driver
	}
	for _, driver := range InstalledDrivers {
		if driver.Name == name {
			return driver.Driver
		}
	}

	return nil
}

// Install registers a display driver with the given name.
func Install(name string, driver Driver) {
	InstalledDrivers = append(InstalledDrivers, &InstalledDriver{
		Name:   name,
		Driver: driver,
	})
}
