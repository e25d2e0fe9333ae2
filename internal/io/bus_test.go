package io

import (
	"testing"

	"github.com/thelolagemann/gomeboy-advance/internal/cartridge"
	"github.com/thelolagemann/gomeboy-advance/internal/scheduler"
)

func newTestBus() *Bus {
	b := NewBus(scheduler.NewScheduler(), nil)
	b.Reset()
	return b
}

// testROM builds a zero-filled ROM image of the given size with
// a valid header.
func testROM(size int) []byte {
	rom := make([]byte, size)
	copy(rom[0xA0:], "BUSTEST")
	copy(rom[0xAC:], "ATSTE0")
	chk := uint8(0)
	for _, v := range rom[0xA0:0xBD] {
		chk -= v
	}
	rom[0xBD] = chk - 0x19
	return rom
}

func TestRAMRoundTrip(t *testing.T) {
	b := newTestBus()

	regions := []struct {
		name string
		addr uint32
	}{
		{"EWRAM", 0x0200_0000},
		{"IWRAM", 0x0300_0000},
		{"PALRAM", 0x0500_0000},
		{"VRAM", 0x0600_0000},
		{"OAM", 0x0700_0000},
	}

	for _, r := range regions {
		t.Run(r.name, func(t *testing.T) {
			b.Write8(r.addr+0x10, 0xAB)
			if got := b.Read8(r.addr + 0x10); got != 0xAB {
				t.Errorf("read8 = %02X, want AB", got)
			}
			b.Write32(r.addr+0x20, 0xDEAD_BEEF)
			if got := b.Read32(r.addr + 0x20); got != 0xDEAD_BEEF {
				t.Errorf("read32 = %08X, want DEADBEEF", got)
			}
		})
	}
}

func TestLittleEndian(t *testing.T) {
	b := newTestBus()
	b.Write16(0x0200_0100, 0x1234)

	if got := b.Read8(0x0200_0100); got != 0x34 {
		t.Errorf("low byte = %02X, want 34", got)
	}
	if got := b.Read8(0x0200_0101); got != 0x12 {
		t.Errorf("high byte = %02X, want 12", got)
	}
	if got := uint16(b.Read8(0x0200_0101))<<8 | uint16(b.Read8(0x0200_0100)); got != b.Read16(0x0200_0100) {
		t.Error("read16 is not the little-endian composition of its bytes")
	}
}

func TestBIOSReadOnly(t *testing.T) {
	b := newTestBus()
	bios := make([]byte, BIOSSize)
	bios[0x100] = 0x42
	if err := b.LoadBIOS(bios); err != nil {
		t.Fatal(err)
	}

	b.Write8(0x0000_0100, 0xFF)
	if got := b.Read8(0x0000_0100); got != 0x42 {
		t.Errorf("BIOS byte = %02X, want 42 unchanged", got)
	}
}

func TestBIOSSizeRejected(t *testing.T) {
	b := newTestBus()
	if err := b.LoadBIOS(make([]byte, 0x2000)); err == nil {
		t.Error("expected an error for a short BIOS image")
	}
	if err := b.LoadBIOS(make([]byte, 0x8000)); err == nil {
		t.Error("expected an error for a long BIOS image")
	}
}

func TestRegionMirrors(t *testing.T) {
	b := newTestBus()

	t.Run("EWRAM wraps at 256K", func(t *testing.T) {
		b.Write8(0x0200_0000, 0x11)
		if got := b.Read8(0x0204_0000); got != 0x11 {
			t.Errorf("mirror read = %02X, want 11", got)
		}
	})

	t.Run("IWRAM wraps at 32K", func(t *testing.T) {
		b.Write8(0x0300_0000, 0x22)
		if got := b.Read8(0x0300_8000); got != 0x22 {
			t.Errorf("mirror read = %02X, want 22", got)
		}
	})

	t.Run("VRAM mirrors the last 32K twice", func(t *testing.T) {
		// 0x06010000..0x06017FFF appears again at 0x06018000
		b.Write8(0x0601_0000, 0x33)
		if got := b.Read8(0x0601_8000); got != 0x33 {
			t.Errorf("mirror read = %02X, want 33", got)
		}
		// and the whole 128K block wraps
		b.Write8(0x0600_0000, 0x44)
		if got := b.Read8(0x0602_0000); got != 0x44 {
			t.Errorf("wrap read = %02X, want 44", got)
		}
	})
}

func TestMisalignedWordReadRotates(t *testing.T) {
	b := newTestBus()
	b.Write32(0x0300_0000, 0x1122_3344)

	if got := b.Read32(0x0300_0001); got != 0x4411_2233 {
		t.Errorf("read32(+1) = %08X, want 44112233", got)
	}
	if got := b.Read32(0x0300_0002); got != 0x3344_1122 {
		t.Errorf("read32(+2) = %08X, want 33441122", got)
	}
}

func TestHalfwordAlignment(t *testing.T) {
	b := newTestBus()
	b.Write16(0x0300_0000, 0xBEEF)
	if got := b.Read16(0x0300_0001); got != 0xBEEF {
		t.Errorf("read16 at odd address = %04X, want BEEF (bit 0 masked)", got)
	}
}

func TestUnmappedRegion(t *testing.T) {
	b := newTestBus()
	if got := b.Read8(0x0100_0000); got != 0 {
		t.Errorf("unmapped read = %02X, want 0", got)
	}
	// a dropped write must not crash
	b.Write8(0x0100_0000, 0xFF)
	b.Write32(0xF000_0000, 0xFFFF_FFFF)
}

func TestROMMirrorsAndOpenBus(t *testing.T) {
	rom := testROM(0x1000)
	rom[0x200] = 0x5A
	cart, err := cartridge.NewCartridge(rom, nil)
	if err != nil {
		t.Fatal(err)
	}

	b := newTestBus()
	b.Cart = cart

	t.Run("waitstate mirrors", func(t *testing.T) {
		for _, base := range []uint32{0x0800_0000, 0x0A00_0000, 0x0C00_0000} {
			if got := b.Read8(base + 0x200); got != 0x5A {
				t.Errorf("read at %08X = %02X, want 5A", base+0x200, got)
			}
		}
	})

	t.Run("writes are dropped", func(t *testing.T) {
		b.Write8(0x0800_0200, 0xFF)
		if got := b.Read8(0x0800_0200); got != 0x5A {
			t.Errorf("ROM byte = %02X, want 5A unchanged", got)
		}
	})

	t.Run("open bus past the image", func(t *testing.T) {
		addr := uint32(0x0800_2000)
		want := uint16(addr>>1) & 0xFFFF
		if got := b.Read16(addr); got != want {
			t.Errorf("open bus read16 = %04X, want %04X", got, want)
		}
	})
}

func TestSRAM(t *testing.T) {
	cart, err := cartridge.NewCartridge(testROM(0x1000), nil)
	if err != nil {
		t.Fatal(err)
	}
	b := newTestBus()
	b.Cart = cart

	b.Write8(0x0E00_0010, 0x77)
	if got := b.Read8(0x0E00_0010); got != 0x77 {
		t.Errorf("SRAM read = %02X, want 77", got)
	}
}
