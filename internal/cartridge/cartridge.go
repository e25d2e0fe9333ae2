// Package cartridge provides the Game Pak side of the memory
// bus: the ROM image, the persistent backing store and the
// GPIO port used by in-cart peripherals.
package cartridge

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash"
	"github.com/thelolagemann/gomeboy-advance/pkg/log"
)

const (
	// MaxROMSize is the largest ROM image a Game Pak can
	// address: 32 MiB across the three waitstate mirrors.
	MaxROMSize = 0x0200_0000
	// romMask folds the three waitstate mirrors of the ROM
	// address space onto the single backing image.
	romMask = 0x01FF_FFFF
	// sramMask folds the SRAM mirrors onto the 64 KiB window.
	sramMask = 0xFFFF
)

// Cartridge represents an inserted Game Pak: the ROM image,
// its header, and whatever backing store the game carries.
type Cartridge struct {
	ROM []byte

	header  Header
	backing BackingType
	sram    []byte
	save    *Save

	digest uint64
}

// NewCartridge parses the given ROM image into a Cartridge.
// The image is rejected when it is larger than the Game Pak
// address space or too small to carry a header.
func NewCartridge(rom []byte, logger log.Logger) (*Cartridge, error) {
	if len(rom) > MaxROMSize {
		return nil, fmt.Errorf("rom of %d bytes exceeds the 32MiB game pak address space", len(rom))
	}
	header, err := parseHeader(rom)
	if err != nil {
		return nil, err
	}

	c := &Cartridge{
		ROM:     rom,
		header:  header,
		backing: detectBacking(rom),
		digest:  xxhash.Sum64(rom),
	}
	c.sram = make([]byte, backingSize(c.backing))

	if logger != nil {
		logger.Infof("loaded %q (%s-%s) rev %d, %s backing, digest %016x",
			header.Title, header.GameCode, header.MakerCode, header.Version, c.backing, c.digest)
		if !header.ChecksumValid {
			logger.Errorf("header complement check failed for %q", header.Title)
		}
	}

	return c, nil
}

// Header returns the parsed Game Pak header.
func (c *Cartridge) Header() Header {
	return c.header
}

// Backing returns the detected backing store type.
func (c *Cartridge) Backing() BackingType {
	return c.backing
}

// Digest returns the xxhash digest of the ROM image, used to
// identify the game independently of its file name.
func (c *Cartridge) Digest() uint64 {
	return c.digest
}

// ReadROM reads a byte from the ROM address space. addr is a
// full bus address within 0x08000000..0x0DFFFFFF; the three
// waitstate mirrors fold onto the same image. Reads past the
// end of the image see the open bus, which carries an address
// derived pattern: each halfword holds (addr >> 1) & 0xFFFF.
func (c *Cartridge) ReadROM(addr uint32) uint8 {
	offset := addr & romMask
	if int(offset) < len(c.ROM) {
		return c.ROM[offset]
	}

	// open bus
	half := uint16(addr>>1) & 0xFFFF
	if addr&1 == 0 {
		return uint8(half)
	}
	return uint8(half >> 8)
}

// ReadSRAM reads a byte from the backing store window.
func (c *Cartridge) ReadSRAM(addr uint32) uint8 {
	offset := addr & sramMask
	if int(offset) < len(c.sram) {
		return c.sram[offset]
	}
	return 0xFF
}

// WriteSRAM writes a byte to the backing store window.
func (c *Cartridge) WriteSRAM(addr uint32, value uint8) {
	offset := addr & sramMask
	if int(offset) < len(c.sram) {
		c.sram[offset] = value
	}
}

// AttachSave attaches a save file for the backing store. Any
// existing contents of the file are copied into the store.
func (c *Cartridge) AttachSave(path string) error {
	if c.backing == BackingNone {
		return nil
	}
	save, err := NewSave(path, len(c.sram))
	if err != nil {
		return err
	}
	c.save = save
	copy(c.sram, save.Bytes())
	return nil
}

// SavePath derives the save file path from the ROM path, e.g.
// "games/metroid.gba" becomes "games/metroid.sav".
func SavePath(romPath string) string {
	if i := strings.LastIndexByte(romPath, '.'); i > strings.LastIndexByte(romPath, '/') {
		return romPath[:i] + ".sav"
	}
	return romPath + ".sav"
}

// FlushSave writes the backing store out to the attached save
// file, if any.
func (c *Cartridge) FlushSave() error {
	if c.save == nil {
		return nil
	}
	c.save.SetBytes(c.sram)
	return c.save.Close()
}
