// Package emulator defines the boundary between the emulation
// core and the display drivers.
package emulator

import (
	"image"
)

// Controller is the surface a display driver drives the
// emulator through.
type Controller interface {
	// RunFrame advances the emulation to the next VBlank.
	RunFrame()
	// Frame returns the most recently completed frame.
	Frame() *image.RGBA

	// Paused reports whether emulation is paused.
	Paused() bool
	Pause()
	Unpause()

	// Save flushes persistent cartridge state to disk.
	Save() error
}
