package io

import "github.com/thelolagemann/gomeboy-advance/internal/types"

// The hardware registers overlay 16-bit words with bitfields.
// The raw word is the portable contract: each register gets a
// typed view with accessors for its fields, and the dispatcher
// reads and writes the raw bytes.

// Dispcnt is a view of the DISPCNT register.
type Dispcnt uint16

func (d Dispcnt) BGMode() uint8 { return uint8(d & 0x7) }
func (d Dispcnt) CGBMode() bool { return types.Test(uint32(d), 3) }
func (d Dispcnt) Frame() uint8 { return uint8(d>>4) & 1 }
func (d Dispcnt) HBlankIntFree() bool { return types.Test(uint32(d), 5) }
func (d Dispcnt) OBJOneDim() bool { return types.Test(uint32(d), 6) }
func (d Dispcnt) ForcedBlank() bool { return types.Test(uint32(d), 7) }

// Enabled reports whether the given layer is displayed. Layers
// 0..3 are the backgrounds, 4 the objects, 5 and 6 the windows
// and 7 the object window.
func (d Dispcnt) Enabled(layer uint) bool { return types.Test(uint32(d), 8+layer) }

// Dispstat is a view of the DISPSTAT register. Bits 0..2 are
// read-only status flags; writes only land on the interrupt
// enables and the VCount setting.
type Dispstat uint16

func (d Dispstat) VBlank() bool { return types.Test(uint32(d), 0) }
func (d Dispstat) HBlank() bool { return types.Test(uint32(d), 1) }
func (d Dispstat) VCountMatch() bool { return types.Test(uint32(d), 2) }
func (d Dispstat) VBlankIRQ() bool { return types.Test(uint32(d), 3) }
func (d Dispstat) HBlankIRQ() bool { return types.Test(uint32(d), 4) }
func (d Dispstat) VCountIRQ() bool { return types.Test(uint32(d), 5) }
func (d Dispstat) VCountSetting() uint8 { return uint8(d >> 8) }

func (d *Dispstat) setFlag(bit uint, set bool) {
	if set {
		*d |= 1 << bit
	} else {
		*d &^= 1 << bit
	}
}

// write applies a CPU write to the register, preserving the
// read-only status flags.
func (d *Dispstat) write(v uint16) {
	*d = Dispstat(v&0xFFB8) | (*d & 0x0007)
}

// registers is the raw backing state of the non-DMA I/O
// registers. The DMA channels keep their own registers.
type registers struct {
	dispcnt  Dispcnt
	greenswp uint16
	dispstat Dispstat
	vcount   uint16

	soundcntH uint16

	keycnt  uint16
	waitcnt uint16
}

func (r *registers) reset() {
	*r = registers{
		// forced blank is set out of reset until the BIOS (or
		// the game) turns the display on
		dispcnt: Dispcnt(0x0080),
	}
}
