// Package io provides the memory bus of the Game Boy Advance:
// region decoding, the memory mapped I/O registers and the DMA
// engine that other components plug into.
package io

import (
	"fmt"

	"github.com/thelolagemann/gomeboy-advance/internal/cartridge"
	"github.com/thelolagemann/gomeboy-advance/internal/scheduler"
	"github.com/thelolagemann/gomeboy-advance/internal/types"
	"github.com/thelolagemann/gomeboy-advance/pkg/log"
)

// Memory region sizes. The address space is decoded on the top
// byte of the address; each RAM backed region mirrors across
// its 16 MiB block.
const (
	BIOSSize   = 0x4000
	EWRAMSize  = 0x40000
	IWRAMSize  = 0x8000
	IOSize     = 0x400
	PALRAMSize = 0x400
	VRAMSize   = 0x18000
	OAMSize    = 0x400
)

// region numbers, addr >> 24
const (
	regionBIOS   = 0x00
	regionEWRAM  = 0x02
	regionIWRAM  = 0x03
	regionIO     = 0x04
	regionPALRAM = 0x05
	regionVRAM   = 0x06
	regionOAM    = 0x07
	regionROM0   = 0x08
	regionROM0H  = 0x09
	regionROM1   = 0x0A
	regionROM1H  = 0x0B
	regionROM2   = 0x0C
	regionROM2H  = 0x0D
	regionSRAM   = 0x0E
)

// Bus connects the CPU to the memories, the Game Pak and the
// I/O registers. All accesses are little-endian; 16-bit
// accesses ignore address bit 0 and 32-bit accesses ignore
// bits 1:0, with misaligned word reads rotated as the
// ARM7TDMI does.
type Bus struct {
	bios   [BIOSSize]byte
	ewram  [EWRAMSize]byte
	iwram  [IWRAMSize]byte
	palram [PALRAMSize]byte
	vram   [VRAMSize]byte
	oam    [OAMSize]byte

	Cart *cartridge.Cartridge
	GPIO *GPIO

	reg  registers
	dma  [4]*Channel
	pad  Keypad
	irq  irqLines
	fifo [2][]byte

	s   *scheduler.Scheduler
	log log.Logger

	// vcount match and blanking state live in reg.dispstat;
	// the scanline dot clock is driven by the scheduler.
	frameReady bool

	// fifoDrain, when set, is invoked with each word pushed
	// into a sound FIFO so a front end can consume samples.
	fifoDrain func(fifo int, sample uint32)
}

// NewBus creates a bus with the given scheduler and logger and
// wires up the DMA channels and video timing events.
func NewBus(s *scheduler.Scheduler, logger log.Logger) *Bus {
	b := &Bus{
		s:   s,
		log: logger,
	}
	for i := range b.dma {
		b.dma[i] = newChannel(b, i)
	}
	b.pad.reset()
	b.reg.reset()

	s.RegisterEvent(scheduler.PPUHBlank, b.enterHBlank)
	s.RegisterEvent(scheduler.PPUEndLine, b.endLine)

	return b
}

// LoadBIOS copies the BIOS image into the bus. The image must
// be exactly 16 KiB.
func (b *Bus) LoadBIOS(data []byte) error {
	if len(data) != BIOSSize {
		return errBIOSSize(len(data))
	}
	copy(b.bios[:], data)
	return nil
}

// Reset clears the RAM regions and returns the registers to
// their power-on values. The BIOS and cartridge survive.
func (b *Bus) Reset() {
	b.ewram = [EWRAMSize]byte{}
	b.iwram = [IWRAMSize]byte{}
	b.palram = [PALRAMSize]byte{}
	b.vram = [VRAMSize]byte{}
	b.oam = [OAMSize]byte{}
	b.reg.reset()
	b.pad.reset()
	for i := range b.dma {
		b.dma[i] = newChannel(b, i)
	}
	b.frameReady = false
	b.scheduleLine()
}

// vramOffset folds a VRAM address onto the 96 KiB backing
// store. VRAM is not a power of two: the first 64 KiB mirror
// straight, the next 32 KiB mirror once more.
func vramOffset(addr uint32) uint32 {
	offset := addr & 0x1FFFF
	if offset >= 0x18000 {
		offset -= 0x8000
	}
	return offset
}

// Read8 reads a byte from the memory map.
func (b *Bus) Read8(addr uint32) uint8 {
	switch addr >> 24 {
	case regionBIOS:
		return b.bios[addr&(BIOSSize-1)]
	case regionEWRAM:
		return b.ewram[addr&(EWRAMSize-1)]
	case regionIWRAM:
		return b.iwram[addr&(IWRAMSize-1)]
	case regionIO:
		return b.ioRead8(addr & (IOSize - 1))
	case regionPALRAM:
		return b.palram[addr&(PALRAMSize-1)]
	case regionVRAM:
		return b.vram[vramOffset(addr)]
	case regionOAM:
		return b.oam[addr&(OAMSize-1)]
	case regionROM0, regionROM0H, regionROM1, regionROM1H, regionROM2, regionROM2H:
		if b.GPIO != nil && b.GPIO.owns(addr) {
			return b.GPIO.Read8(addr)
		}
		if b.Cart == nil {
			return 0
		}
		return b.Cart.ReadROM(addr)
	case regionSRAM:
		if b.Cart == nil {
			return 0
		}
		return b.Cart.ReadSRAM(addr)
	}
	return 0
}

// Write8 writes a byte to the memory map. Writes to read-only
// regions are dropped.
func (b *Bus) Write8(addr uint32, value uint8) {
	switch addr >> 24 {
	case regionEWRAM:
		b.ewram[addr&(EWRAMSize-1)] = value
	case regionIWRAM:
		b.iwram[addr&(IWRAMSize-1)] = value
	case regionIO:
		b.ioWrite8(addr&(IOSize-1), value)
	case regionPALRAM:
		b.palram[addr&(PALRAMSize-1)] = value
	case regionVRAM:
		b.vram[vramOffset(addr)] = value
	case regionOAM:
		b.oam[addr&(OAMSize-1)] = value
	case regionROM0, regionROM0H, regionROM1, regionROM1H, regionROM2, regionROM2H:
		if b.GPIO != nil && b.GPIO.owns(addr) {
			b.GPIO.Write8(addr, value)
		}
	case regionSRAM:
		if b.Cart != nil {
			b.Cart.WriteSRAM(addr, value)
		}
	}
}

// Read16 reads a halfword. Address bit 0 is ignored.
func (b *Bus) Read16(addr uint32) uint16 {
	addr &^= 1
	return uint16(b.Read8(addr)) | uint16(b.Read8(addr+1))<<8
}

// Write16 writes a halfword. Address bit 0 is ignored.
func (b *Bus) Write16(addr uint32, value uint16) {
	addr &^= 1
	b.Write8(addr, uint8(value))
	b.Write8(addr+1, uint8(value>>8))
}

// Read32 reads a word. Address bits 1:0 are ignored for the
// access itself, but a misaligned address rotates the result
// right by 8*(addr&3) bits, matching the ARM7TDMI bus.
func (b *Bus) Read32(addr uint32) uint32 {
	base := addr &^ 3
	v := uint32(b.Read8(base)) |
		uint32(b.Read8(base+1))<<8 |
		uint32(b.Read8(base+2))<<16 |
		uint32(b.Read8(base+3))<<24
	return types.RotateRight(v, uint(addr&3)*8)
}

// Write32 writes a word. Address bits 1:0 are ignored.
func (b *Bus) Write32(addr uint32, value uint32) {
	addr &^= 3
	b.Write8(addr, uint8(value))
	b.Write8(addr+1, uint8(value>>8))
	b.Write8(addr+2, uint8(value>>16))
	b.Write8(addr+3, uint8(value>>24))
}

// OnFIFODrain installs a callback invoked with every sample
// word pushed into one of the sound FIFOs.
func (b *Bus) OnFIFODrain(fn func(fifo int, sample uint32)) {
	b.fifoDrain = fn
}

func errBIOSSize(size int) error {
	return fmt.Errorf("bios image must be exactly %d bytes, got %d", BIOSSize, size)
}
