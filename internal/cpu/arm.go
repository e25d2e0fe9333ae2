package cpu

import "github.com/thelolagemann/gomeboy-advance/internal/types"

// stepARM decodes and executes a 32-bit ARM instruction. The
// top four bits are the condition; a failed condition skips
// the instruction entirely. Dispatch is on bits 27:25 with the
// extended patterns of the data sheet discriminating the
// crowded 000/001 space.
func (c *CPU) stepARM(op uint32) {
	if !c.checkCondition(op >> 28) {
		return
	}

	switch types.Bits(op, 25, 27) {
	case 0b000, 0b001:
		switch {
		case op&0x0FFF_FFF0 == 0x012F_FF10:
			c.armBranchExchange(op)
		case op&0x0FBF_0FFF == 0x010F_0000:
			c.armMRS(op)
		case op&0x0FBF_FFF0 == 0x0129_F000:
			c.armMSR(op, false)
		case op&0x0DBF_F000 == 0x0128_F000:
			c.armMSR(op, true)
		case op&0x0FC0_00F0 == 0x0000_0090:
			c.armMultiply(op)
		case op&0x0F80_00F0 == 0x0080_0090:
			c.armMultiplyLong(op)
		case op&0x0FB0_0FF0 == 0x0100_0090:
			c.armSwap(op)
		case op&0x0E00_0090 == 0x0000_0090 && op&0x60 != 0:
			c.armHalfwordTransfer(op)
		default:
			c.armDataProcessing(op)
		}
	case 0b010, 0b011:
		// a register offset with bit 4 set is the undefined
		// instruction space
		if types.Test(op, 25) && types.Test(op, 4) {
			c.undefined(op)
			return
		}
		c.armSingleDataTransfer(op)
	case 0b100:
		c.armBlockTransfer(op)
	case 0b101:
		c.armBranch(op)
	case 0b110:
		// coprocessor data transfer: no coprocessor exists on
		// this platform
		c.halt("coprocessor transfer %08X at %08X", op, c.PC()-8)
	case 0b111:
		if types.Test(op, 24) {
			c.exception(VectorSWI, ModeSupervisor)
			return
		}
		c.halt("coprocessor operation %08X at %08X", op, c.PC()-8)
	}
}

// data processing opcodes, bits 24:21
const (
	opAND = iota
	opEOR
	opSUB
	opRSB
	opADD
	opADC
	opSBC
	opRSC
	opTST
	opTEQ
	opCMP
	opCMN
	opORR
	opMOV
	opBIC
	opMVN
)

// armOperand2 computes the second operand of a data processing
// instruction: a rotated 8-bit immediate when I is set, a
// barrel shifted register otherwise. It returns the operand,
// the shifter carry-out and whether the shift amount came from
// a register, which delays the visible R15 by one fetch.
func (c *CPU) armOperand2(op uint32) (uint32, bool, bool) {
	if types.Test(op, 25) {
		imm := op & 0xFF
		rot := types.Bits(op, 8, 11) * 2
		value := types.RotateRight(imm, uint(rot))
		carry := c.CPSR.Carry()
		if rot != 0 {
			carry = value>>31 != 0
		}
		return value, carry, false
	}

	rm := uint8(op & 0xF)
	typ := types.Bits(op, 5, 6)
	value := c.Get(rm)

	if types.Test(op, 4) {
		// shift amount in the low byte of a register; R15
		// reads one fetch later here
		if rm == 15 {
			value += 4
		}
		amount := c.Get(uint8(types.Bits(op, 8, 11))) & 0xFF
		shifted, carry := barrelShift(typ, value, amount, false, c.CPSR.Carry())
		return shifted, carry, true
	}

	amount := types.Bits(op, 7, 11)
	shifted, carry := barrelShift(typ, value, amount, true, c.CPSR.Carry())
	return shifted, carry, false
}

// armDataProcessing executes the sixteen ALU operations.
func (c *CPU) armDataProcessing(op uint32) {
	opcode := types.Bits(op, 21, 24)
	setFlags := types.Test(op, 20)
	rn := uint8(types.Bits(op, 16, 19))
	rd := uint8(types.Bits(op, 12, 15))

	op2, shiftCarry, regShift := c.armOperand2(op)
	a := c.Get(rn)
	if rn == 15 && regShift {
		a += 4
	}

	carryIn := uint32(0)
	if c.CPSR.Carry() {
		carryIn = 1
	}

	var result uint32
	logical := false
	writeback := true

	switch opcode {
	case opAND:
		result = a & op2
		logical = true
	case opEOR:
		result = a ^ op2
		logical = true
	case opSUB:
		result = a - op2
		if setFlags {
			c.setSubFlags(a, op2, result)
		}
	case opRSB:
		result = op2 - a
		if setFlags {
			c.setSubFlags(op2, a, result)
		}
	case opADD:
		result = a + op2
		if setFlags {
			c.setAddFlags(a, op2, result)
		}
	case opADC:
		result = a + op2 + carryIn
		if setFlags {
			c.CPSR.SetCarry(uint64(a)+uint64(op2)+uint64(carryIn) > 0xFFFF_FFFF)
			c.CPSR.SetOverflow((a^result)&(op2^result)>>31 != 0)
		}
	case opSBC:
		result = a - op2 - (1 - carryIn)
		if setFlags {
			c.CPSR.SetCarry(uint64(a) >= uint64(op2)+uint64(1-carryIn))
			c.CPSR.SetOverflow((a^op2)&(a^result)>>31 != 0)
		}
	case opRSC:
		result = op2 - a - (1 - carryIn)
		if setFlags {
			c.CPSR.SetCarry(uint64(op2) >= uint64(a)+uint64(1-carryIn))
			c.CPSR.SetOverflow((op2^a)&(op2^result)>>31 != 0)
		}
	case opTST:
		result = a & op2
		logical = true
		writeback = false
	case opTEQ:
		result = a ^ op2
		logical = true
		writeback = false
	case opCMP:
		result = a - op2
		c.setSubFlags(a, op2, result)
		writeback = false
	case opCMN:
		result = a + op2
		c.setAddFlags(a, op2, result)
		writeback = false
	case opORR:
		result = a | op2
		logical = true
	case opMOV:
		result = op2
		logical = true
	case opBIC:
		result = a &^ op2
		logical = true
	case opMVN:
		result = ^op2
		logical = true
	}

	if setFlags {
		if logical {
			c.CPSR.SetCarry(shiftCarry)
		}
		c.CPSR.SetNegative(result>>31 != 0)
		c.CPSR.SetZero(result == 0)
	}

	if writeback {
		c.Set(rd, result)
		if rd == 15 {
			if setFlags {
				// S with R15 as destination restores the SPSR
				c.SetCPSR(c.SPSR())
			}
			c.ReloadPipeline()
		}
	} else if rd == 15 && setFlags {
		// TSTP and friends: flags-only form restoring the SPSR
		c.SetCPSR(c.SPSR())
	}
}

func (c *CPU) setAddFlags(a, b, result uint32) {
	c.CPSR.SetCarry(uint64(a)+uint64(b) > 0xFFFF_FFFF)
	c.CPSR.SetOverflow((a^result)&(b^result)>>31 != 0)
	c.CPSR.SetNegative(result>>31 != 0)
	c.CPSR.SetZero(result == 0)
}

func (c *CPU) setSubFlags(a, b, result uint32) {
	c.CPSR.SetCarry(a >= b)
	c.CPSR.SetOverflow((a^b)&(a^result)>>31 != 0)
	c.CPSR.SetNegative(result>>31 != 0)
	c.CPSR.SetZero(result == 0)
}

// armBranchExchange switches to the address in Rm, entering
// Thumb state when its bit 0 is set.
func (c *CPU) armBranchExchange(op uint32) {
	target := c.Get(uint8(op & 0xF))
	c.CPSR.SetThumb(target&1 != 0)
	c.SetPC(target)
	c.ReloadPipeline()
}

// armBranch executes B and BL: a signed 24-bit word offset
// relative to the visible R15.
func (c *CPU) armBranch(op uint32) {
	offset := types.SignExtend(op&0x00FF_FFFF, 24) << 2
	if types.Test(op, 24) {
		c.Set(14, c.PC()-4)
	}
	c.SetPC(c.PC() + offset)
	c.ReloadPipeline()
}

// armMRS moves the CPSR, or the current mode's SPSR, into a
// register.
func (c *CPU) armMRS(op uint32) {
	rd := uint8(types.Bits(op, 12, 15))
	if types.Test(op, 22) {
		c.Set(rd, c.SPSR())
	} else {
		c.Set(rd, uint32(c.CPSR))
	}
}

// armMSR moves a register (or, for the flag-only form, a
// rotated immediate) into the CPSR or SPSR. User mode can only
// touch the flag bits.
func (c *CPU) armMSR(op uint32, flagsOnly bool) {
	var value uint32
	if flagsOnly && types.Test(op, 25) {
		imm := op & 0xFF
		value = types.RotateRight(imm, uint(types.Bits(op, 8, 11)*2))
	} else {
		value = c.Get(uint8(op & 0xF))
	}

	mask := uint32(0xF000_0000)
	if !flagsOnly && c.CPSR.Mode() != ModeUser {
		mask = 0xF000_00FF
	}

	if types.Test(op, 22) {
		c.SetSPSR(c.SPSR()&^mask | value&mask)
		return
	}

	newCPSR := uint32(c.CPSR)&^mask | value&mask
	c.SetCPSR(newCPSR)
}

// armMultiply executes MUL and MLA.
func (c *CPU) armMultiply(op uint32) {
	rd := uint8(types.Bits(op, 16, 19))
	rn := uint8(types.Bits(op, 12, 15))
	rs := uint8(types.Bits(op, 8, 11))
	rm := uint8(op & 0xF)

	result := c.Get(rm) * c.Get(rs)
	if types.Test(op, 21) {
		result += c.Get(rn)
	}
	c.Set(rd, result)

	if types.Test(op, 20) {
		c.CPSR.SetNegative(result>>31 != 0)
		c.CPSR.SetZero(result == 0)
	}
}

// armMultiplyLong executes UMULL, UMLAL, SMULL and SMLAL.
func (c *CPU) armMultiplyLong(op uint32) {
	rdHi := uint8(types.Bits(op, 16, 19))
	rdLo := uint8(types.Bits(op, 12, 15))
	rs := uint8(types.Bits(op, 8, 11))
	rm := uint8(op & 0xF)

	var result uint64
	if types.Test(op, 22) {
		result = uint64(int64(int32(c.Get(rm))) * int64(int32(c.Get(rs))))
	} else {
		result = uint64(c.Get(rm)) * uint64(c.Get(rs))
	}
	if types.Test(op, 21) {
		acc := uint64(c.Get(rdHi))<<32 | uint64(c.Get(rdLo))
		result += acc
	}

	c.Set(rdLo, uint32(result))
	c.Set(rdHi, uint32(result>>32))

	if types.Test(op, 20) {
		c.CPSR.SetNegative(result>>63 != 0)
		c.CPSR.SetZero(result == 0)
	}
}
