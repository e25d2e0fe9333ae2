package gba

import (
	"fmt"
	"strings"

	"github.com/thelolagemann/gomeboy-advance/internal/cpu"
)

// Dump is a structured snapshot of the CPU and the key MMIO
// registers, the view a debugger front end renders.
type Dump struct {
	Registers [16]uint32
	CPSR      uint32
	SPSR      uint32
	Mode      cpu.Mode
	Thumb     bool
	Prefetch  uint32

	Halted     bool
	HaltReason string
	Cycles     uint64

	DISPCNT  uint16
	DISPSTAT uint16
	VCOUNT   uint16
	IE       uint16
	IF       uint16
	IME      bool
}

// Dump captures the current state of the system.
func (g *GBA) Dump() Dump {
	d := Dump{
		CPSR:     uint32(g.CPU.CPSR),
		SPSR:     g.CPU.SPSR(),
		Mode:     g.CPU.CPSR.Mode(),
		Thumb:    g.CPU.CPSR.Thumb(),
		Prefetch: g.CPU.Prefetch(),
		Cycles:   g.CPU.Cycles(),

		DISPCNT:  uint16(g.Bus.Dispcnt()),
		DISPSTAT: uint16(g.Bus.Dispstat()),
		VCOUNT:   g.Bus.VCount(),
		IE:       g.Bus.IE(),
		IF:       g.Bus.IF(),
		IME:      g.Bus.IME(),
	}
	for i := uint8(0); i < 16; i++ {
		d.Registers[i] = g.CPU.Get(i)
	}
	d.Halted, d.HaltReason = g.CPU.Halted()
	return d
}

// String renders the dump the way the debugger prints it.
func (d Dump) String() string {
	var b strings.Builder
	for i := 0; i < 16; i += 4 {
		fmt.Fprintf(&b, "R%-2d=%08X  R%-2d=%08X  R%-2d=%08X  R%-2d=%08X\n",
			i, d.Registers[i], i+1, d.Registers[i+1], i+2, d.Registers[i+2], i+3, d.Registers[i+3])
	}
	state := "ARM"
	if d.Thumb {
		state = "THUMB"
	}
	fmt.Fprintf(&b, "CPSR=%08X (%s %s)  SPSR=%08X  prefetch=%08X\n", d.CPSR, d.Mode, state, d.SPSR, d.Prefetch)
	fmt.Fprintf(&b, "DISPCNT=%04X DISPSTAT=%04X VCOUNT=%3d IE=%04X IF=%04X IME=%t\n",
		d.DISPCNT, d.DISPSTAT, d.VCOUNT, d.IE, d.IF, d.IME)
	if d.Halted {
		fmt.Fprintf(&b, "halted: %s\n", d.HaltReason)
	}
	return b.String()
}
