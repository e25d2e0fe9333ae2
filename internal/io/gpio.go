package io

import "github.com/thelolagemann/gomeboy-advance/internal/types"

// The cartridge GPIO port sits inside the ROM address space.
// Three 16-bit ports control up to four general purpose pins;
// in practice the port drives the RTC chip of the games that
// carry one. The port reads as zero until the control register
// makes it readable.

// GPIODevice is an in-cart peripheral wired to the GPIO pins.
type GPIODevice interface {
	// Read returns the current pin state driven by the device.
	Read() uint8
	// Write drives the pins from the CPU side. direction masks
	// which pins the CPU owns.
	Write(pins, direction uint8)
}

// GPIO is the cartridge general purpose port.
type GPIO struct {
	readable  bool
	pins      uint8
	direction uint8
	device    GPIODevice
}

// NewGPIO creates a GPIO port driving the given device, which
// may be nil for a cartridge with pins unconnected.
func NewGPIO(device GPIODevice) *GPIO {
	return &GPIO{device: device}
}

// owns reports whether the port decodes the given ROM-region
// address.
func (g *GPIO) owns(addr uint32) bool {
	return addr >= types.GPIOData && addr < types.GPIOControl+2
}

// Read8 reads one byte of the port registers. The port returns
// zero until the control latch makes it readable.
func (g *GPIO) Read8(addr uint32) uint8 {
	if !g.readable || addr&1 == 1 {
		return 0
	}
	switch addr &^ 1 {
	case types.GPIOData:
		if g.device != nil {
			return g.device.Read() &^ g.direction
		}
		return 0
	case types.GPIODirection:
		return g.direction & 0x0F
	case types.GPIOControl:
		return 1
	}
	return 0
}

// Write8 writes one byte of the port registers.
func (g *GPIO) Write8(addr uint32, value uint8) {
	if addr&1 == 1 {
		return
	}
	switch addr &^ 1 {
	case types.GPIOData:
		g.pins = value & 0x0F
		if g.device != nil {
			g.device.Write(g.pins, g.direction)
		}
	case types.GPIODirection:
		g.direction = value & 0x0F
	case types.GPIOControl:
		g.readable = value&1 != 0
	}
}
