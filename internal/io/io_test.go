package io

import (
	"testing"

	"github.com/thelolagemann/gomeboy-advance/internal/types"
)

func TestDISPCNT(t *testing.T) {
	b := newTestBus()
	b.Write16(types.DISPCNT, 0x0403) // mode 3, BG2 on

	d := b.Dispcnt()
	if d.BGMode() != 3 {
		t.Errorf("bg mode = %d, want 3", d.BGMode())
	}
	if !d.Enabled(2) {
		t.Error("BG2 should be enabled")
	}
	if d.Enabled(0) {
		t.Error("BG0 should be disabled")
	}
	if got := b.Read16(types.DISPCNT); got != 0x0403 {
		t.Errorf("readback = %04X, want 0403", got)
	}
}

func TestDISPSTATStatusBitsReadOnly(t *testing.T) {
	b := newTestBus()

	// writing the status bits must not set them
	b.Write16(types.DISPSTAT, 0x0007)
	if b.Dispstat().VBlank() || b.Dispstat().HBlank() || b.Dispstat().VCountMatch() {
		t.Error("status flags are read-only")
	}

	// the interrupt enables and the VCount setting stick
	b.Write16(types.DISPSTAT, 0x0038|40<<8)
	d := b.Dispstat()
	if !d.VBlankIRQ() || !d.HBlankIRQ() || !d.VCountIRQ() {
		t.Error("interrupt enables did not stick")
	}
	if d.VCountSetting() != 40 {
		t.Errorf("vcount setting = %d, want 40", d.VCountSetting())
	}
}

func TestVCOUNTReadOnly(t *testing.T) {
	b := newTestBus()
	b.Write16(types.VCOUNT, 0x00FF)
	if got := b.Read16(types.VCOUNT); got != 0 {
		t.Errorf("VCOUNT = %04X, want 0 (read-only)", got)
	}
}

func TestVideoTiming(t *testing.T) {
	b := newTestBus()
	s := b.s

	t.Run("VCOUNT advances per line", func(t *testing.T) {
		s.Tick(CyclesPerLine)
		if got := b.VCount(); got != 1 {
			t.Errorf("VCOUNT = %d, want 1", got)
		}
	})

	t.Run("HBlank flag sets inside the line", func(t *testing.T) {
		s.Tick(hblankCycle + 4)
		if !b.Dispstat().HBlank() {
			t.Error("HBlank flag should be set")
		}
		s.Tick(CyclesPerLine - hblankCycle - 4)
		if b.Dispstat().HBlank() {
			t.Error("HBlank flag should clear at the end of the line")
		}
	})

	t.Run("VBlank begins at line 160 and raises its IRQ", func(t *testing.T) {
		b.Write16(types.DISPSTAT, 1<<3) // VBlank IRQ enable
		for b.VCount() != ScreenHeight {
			s.Tick(CyclesPerLine)
		}
		if !b.Dispstat().VBlank() {
			t.Error("VBlank flag should be set")
		}
		if !b.FrameReady() {
			t.Error("frame flag should be set at VBlank entry")
		}
		if b.IF()&uint16(IntVBlank) == 0 {
			t.Error("VBlank IRQ should be requested")
		}
	})

	t.Run("VCOUNT wraps at 228", func(t *testing.T) {
		for b.VCount() != 0 {
			s.Tick(CyclesPerLine)
		}
		if b.Dispstat().VBlank() {
			t.Error("VBlank flag should clear before the wrap")
		}
	})

	t.Run("VCount match", func(t *testing.T) {
		b.Write16(types.DISPSTAT, 1<<5|3<<8) // match on line 3 with IRQ
		for b.VCount() != 3 {
			s.Tick(CyclesPerLine)
		}
		if !b.Dispstat().VCountMatch() {
			t.Error("match flag should be set on line 3")
		}
		if b.IF()&uint16(IntVCount) == 0 {
			t.Error("VCount IRQ should be requested")
		}
		s.Tick(CyclesPerLine)
		if b.Dispstat().VCountMatch() {
			t.Error("match flag should clear on line 4")
		}
	})
}

func TestInterruptRegisters(t *testing.T) {
	b := newTestBus()

	t.Run("IME gates pending", func(t *testing.T) {
		b.Write16(types.IE, uint16(IntVBlank))
		b.RequestInterrupt(IntVBlank)
		if b.Pending() {
			t.Error("nothing pending while IME is clear")
		}
		b.Write32(types.IME, 1)
		if !b.Pending() {
			t.Error("expected a pending interrupt")
		}
	})

	t.Run("IF acknowledges write-1-to-clear", func(t *testing.T) {
		if b.IF()&uint16(IntVBlank) == 0 {
			t.Fatal("expected the request from the previous subtest")
		}
		b.Write16(types.IF, uint16(IntVBlank))
		if b.IF()&uint16(IntVBlank) != 0 {
			t.Error("acknowledge did not clear the request")
		}
		if b.Pending() {
			t.Error("nothing should be pending after the acknowledge")
		}
	})
}

func TestKeypad(t *testing.T) {
	b := newTestBus()

	if got := b.Read16(types.KEYINPUT); got != 0x03FF {
		t.Fatalf("KEYINPUT = %04X, want 03FF (all released, active low)", got)
	}

	b.Press(ButtonA)
	b.Press(ButtonStart)
	got := b.Read16(types.KEYINPUT)
	if got&(1<<ButtonA) != 0 || got&(1<<ButtonStart) != 0 {
		t.Errorf("KEYINPUT = %04X, pressed bits should be clear", got)
	}

	b.Release(ButtonA)
	if got := b.Read16(types.KEYINPUT); got&(1<<ButtonA) == 0 {
		t.Errorf("KEYINPUT = %04X, released bit should be set", got)
	}

	// writes to the read-only key state are dropped
	b.Write16(types.KEYINPUT, 0)
	if got := b.Read16(types.KEYINPUT); got == 0 {
		t.Error("KEYINPUT must be read-only")
	}

	t.Run("keypad IRQ in OR mode", func(t *testing.T) {
		b.Write16(types.KEYCNT, 1<<14|1<<ButtonB)
		b.Press(ButtonB)
		if b.IF()&uint16(IntKeypad) == 0 {
			t.Error("keypad IRQ should be requested")
		}
	})
}

func TestMMIOWordDecomposition(t *testing.T) {
	b := newTestBus()

	// a 32-bit write decomposes into byte lanes across the
	// adjacent registers
	b.Write32(types.IE, 0x0000_3F00)
	if got := b.Read16(types.IE); got != 0x3F00 {
		t.Errorf("IE = %04X, want 3F00", got)
	}

	// unmapped I/O reads as zero
	if got := b.Read32(0x0400_02F0); got != 0 {
		t.Errorf("unmapped I/O = %08X, want 0", got)
	}
}

func TestGPIO(t *testing.T) {
	b := newTestBus()
	b.GPIO = NewGPIO(NewRTC())

	t.Run("invisible until enabled", func(t *testing.T) {
		if got := b.Read8(types.GPIOControl); got != 0 {
			t.Errorf("control reads %02X before enable", got)
		}
	})

	t.Run("control latch makes the port readable", func(t *testing.T) {
		b.Write16(types.GPIOControl, 1)
		if got := b.Read8(types.GPIOControl); got != 1 {
			t.Errorf("control = %02X, want 1", got)
		}
	})

	t.Run("direction register", func(t *testing.T) {
		b.Write16(types.GPIODirection, 0x7)
		if got := b.Read8(types.GPIODirection); got != 0x7 {
			t.Errorf("direction = %02X, want 7", got)
		}
	})
}
