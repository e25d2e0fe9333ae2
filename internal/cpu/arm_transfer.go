package cpu

import (
	"math/bits"

	"github.com/thelolagemann/gomeboy-advance/internal/types"
)

// armSingleDataTransfer executes LDR, STR, LDRB and STRB with
// pre/post indexing, up/down offsets and base write-back.
func (c *CPU) armSingleDataTransfer(op uint32) {
	pre := types.Test(op, 24)
	up := types.Test(op, 23)
	byteWide := types.Test(op, 22)
	writeback := types.Test(op, 21)
	load := types.Test(op, 20)
	rn := uint8(types.Bits(op, 16, 19))
	rd := uint8(types.Bits(op, 12, 15))

	var offset uint32
	if types.Test(op, 25) {
		// shifted register offset, shift amount always an
		// immediate
		value := c.Get(uint8(op & 0xF))
		offset, _ = barrelShift(types.Bits(op, 5, 6), value, types.Bits(op, 7, 11), true, c.CPSR.Carry())
	} else {
		offset = op & 0xFFF
	}

	base := c.Get(rn)
	indexed := base
	if up {
		indexed += offset
	} else {
		indexed -= offset
	}

	addr := base
	if pre {
		addr = indexed
	}

	if load {
		var value uint32
		if byteWide {
			value = uint32(c.read8(addr))
		} else {
			// the bus rotates misaligned word reads
			value = c.read32(addr)
		}

		// post-indexing always writes the base back; a load
		// into the base register wins over the write-back
		if (!pre || writeback) && rn != rd {
			c.Set(rn, indexed)
		}

		c.Set(rd, value)
		if rd == 15 {
			c.ReloadPipeline()
		}
	} else {
		value := c.Get(rd)
		if rd == 15 {
			// a stored R15 reads one fetch further ahead
			value += 4
		}
		if byteWide {
			c.write8(addr, uint8(value))
		} else {
			c.write32(addr, value)
		}

		if !pre || writeback {
			c.Set(rn, indexed)
		}
	}
}

// armHalfwordTransfer executes LDRH, STRH, LDRSB and LDRSH,
// the extended transfer forms with the split 8-bit immediate
// or register offset.
func (c *CPU) armHalfwordTransfer(op uint32) {
	pre := types.Test(op, 24)
	up := types.Test(op, 23)
	immediate := types.Test(op, 22)
	writeback := types.Test(op, 21)
	load := types.Test(op, 20)
	rn := uint8(types.Bits(op, 16, 19))
	rd := uint8(types.Bits(op, 12, 15))
	sh := types.Bits(op, 5, 6)

	var offset uint32
	if immediate {
		offset = types.Bits(op, 8, 11)<<4 | op&0xF
	} else {
		offset = c.Get(uint8(op & 0xF))
	}

	base := c.Get(rn)
	indexed := base
	if up {
		indexed += offset
	} else {
		indexed -= offset
	}

	addr := base
	if pre {
		addr = indexed
	}

	if load {
		var value uint32
		switch sh {
		case 0b01: // unsigned halfword
			value = uint32(c.read16(addr))
		case 0b10: // signed byte
			value = types.SignExtend(uint32(c.read8(addr)), 8)
		case 0b11: // signed halfword
			value = types.SignExtend(uint32(c.read16(addr)), 16)
		}

		if (!pre || writeback) && rn != rd {
			c.Set(rn, indexed)
		}

		c.Set(rd, value)
		if rd == 15 {
			c.ReloadPipeline()
		}
	} else {
		// only STRH exists on the store side
		value := c.Get(rd)
		if rd == 15 {
			value += 4
		}
		c.write16(addr, uint16(value))

		if !pre || writeback {
			c.Set(rn, indexed)
		}
	}
}

// armBlockTransfer executes LDM and STM with the pre/post,
// up/down and write-back variants. The S bit selects the User
// bank for the transfer, or an SPSR restore when LDM loads
// R15.
func (c *CPU) armBlockTransfer(op uint32) {
	pre := types.Test(op, 24)
	up := types.Test(op, 23)
	sBit := types.Test(op, 22)
	writeback := types.Test(op, 21)
	load := types.Test(op, 20)
	rn := uint8(types.Bits(op, 16, 19))
	list := uint16(op & 0xFFFF)

	base := c.Get(rn)
	n := uint32(bits.OnesCount16(list))

	// the lowest register always transfers from the lowest
	// address, whatever the direction
	addr := base
	final := base
	if up {
		final = base + 4*n
		if pre {
			addr += 4
		}
	} else {
		final = base - 4*n
		addr = final
		if !pre {
			addr += 4
		}
	}

	loadsPC := load && list&0x8000 != 0
	userBank := sBit && !loadsPC

	for i := uint8(0); i < 16; i++ {
		if list&(1<<i) == 0 {
			continue
		}

		if load {
			value := c.read32(addr)
			if userBank {
				c.SetUser(i, value)
			} else {
				c.Set(i, value)
			}
		} else {
			var value uint32
			if userBank {
				value = c.GetUser(i)
			} else {
				value = c.Get(i)
			}
			if i == 15 {
				value += 4
			}
			if i == rn {
				// the base stores its original value
				value = base
			}
			c.write32(addr, value)
		}
		addr += 4
	}

	if writeback && !(load && list&(1<<rn) != 0) {
		c.Set(rn, final)
	}

	if loadsPC {
		if sBit {
			c.SetCPSR(c.SPSR())
		}
		c.ReloadPipeline()
	}
}

// armSwap executes SWP and SWPB: an atomic read-then-write of
// the address in Rn.
func (c *CPU) armSwap(op uint32) {
	rn := uint8(types.Bits(op, 16, 19))
	rd := uint8(types.Bits(op, 12, 15))
	rm := uint8(op & 0xF)
	addr := c.Get(rn)

	if types.Test(op, 22) {
		old := uint32(c.read8(addr))
		c.write8(addr, uint8(c.Get(rm)))
		c.Set(rd, old)
	} else {
		old := c.read32(addr)
		c.write32(addr, c.Get(rm))
		c.Set(rd, old)
	}
}
