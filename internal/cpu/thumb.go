package cpu

import (
	"math/bits"

	"github.com/thelolagemann/gomeboy-advance/internal/types"
)

// stepThumb decodes and executes a 16-bit Thumb instruction.
// Every format has an equivalent ARM effect, but the formats
// are executed directly rather than re-expanded. The visible
// R15 is the executing instruction plus 4.
func (c *CPU) stepThumb(op uint16) {
	switch {
	case op&0xF800 == 0x1800:
		c.thumbAddSub(op)
	case op&0xE000 == 0x0000:
		c.thumbMoveShifted(op)
	case op&0xE000 == 0x2000:
		c.thumbImmediate(op)
	case op&0xFC00 == 0x4000:
		c.thumbALU(op)
	case op&0xFC00 == 0x4400:
		c.thumbHiRegister(op)
	case op&0xF800 == 0x4800:
		c.thumbPCRelativeLoad(op)
	case op&0xF200 == 0x5000:
		c.thumbLoadStoreRegister(op)
	case op&0xF200 == 0x5200:
		c.thumbLoadStoreSignExtended(op)
	case op&0xE000 == 0x6000:
		c.thumbLoadStoreImmediate(op)
	case op&0xF000 == 0x8000:
		c.thumbLoadStoreHalfword(op)
	case op&0xF000 == 0x9000:
		c.thumbSPRelative(op)
	case op&0xF000 == 0xA000:
		c.thumbLoadAddress(op)
	case op&0xFF00 == 0xB000:
		c.thumbAdjustSP(op)
	case op&0xF600 == 0xB400:
		c.thumbPushPop(op)
	case op&0xF000 == 0xC000:
		c.thumbMultiple(op)
	case op&0xFF00 == 0xDF00:
		c.exception(VectorSWI, ModeSupervisor)
	case op&0xF000 == 0xD000:
		c.thumbConditionalBranch(op)
	case op&0xF800 == 0xE000:
		c.thumbBranch(op)
	case op&0xF000 == 0xF000:
		c.thumbLongBranchLink(op)
	default:
		c.undefined(uint32(op))
	}
}

// thumbSetNZ updates N and Z from a result, which every Thumb
// ALU form does.
func (c *CPU) thumbSetNZ(result uint32) {
	c.CPSR.SetNegative(result>>31 != 0)
	c.CPSR.SetZero(result == 0)
}

// thumbMoveShifted: LSL/LSR/ASR with a 5-bit immediate.
func (c *CPU) thumbMoveShifted(op uint16) {
	typ := uint32(op>>11) & 3
	amount := uint32(op>>6) & 0x1F
	rs := uint8(op>>3) & 7
	rd := uint8(op) & 7

	result, carry := barrelShift(typ, c.Get(rs), amount, true, c.CPSR.Carry())
	c.Set(rd, result)
	c.CPSR.SetCarry(carry)
	c.thumbSetNZ(result)
}

// thumbAddSub: three register or register plus 3-bit immediate
// add and subtract.
func (c *CPU) thumbAddSub(op uint16) {
	rd := uint8(op) & 7
	rs := uint8(op>>3) & 7
	a := c.Get(rs)

	var b uint32
	if op&0x0400 != 0 {
		b = uint32(op>>6) & 7
	} else {
		b = c.Get(uint8(op>>6) & 7)
	}

	var result uint32
	if op&0x0200 != 0 {
		result = a - b
		c.setSubFlags(a, b, result)
	} else {
		result = a + b
		c.setAddFlags(a, b, result)
	}
	c.Set(rd, result)
}

// thumbImmediate: MOV, CMP, ADD and SUB with an 8-bit
// immediate.
func (c *CPU) thumbImmediate(op uint16) {
	rd := uint8(op>>8) & 7
	imm := uint32(op & 0xFF)
	a := c.Get(rd)

	switch op >> 11 & 3 {
	case 0: // MOV
		c.Set(rd, imm)
		c.thumbSetNZ(imm)
	case 1: // CMP
		c.setSubFlags(a, imm, a-imm)
	case 2: // ADD
		result := a + imm
		c.setAddFlags(a, imm, result)
		c.Set(rd, result)
	case 3: // SUB
		result := a - imm
		c.setSubFlags(a, imm, result)
		c.Set(rd, result)
	}
}

// thumbALU: the sixteen two-register ALU operations.
func (c *CPU) thumbALU(op uint16) {
	rs := uint8(op>>3) & 7
	rd := uint8(op) & 7
	a := c.Get(rd)
	b := c.Get(rs)

	carryIn := uint32(0)
	if c.CPSR.Carry() {
		carryIn = 1
	}

	switch op >> 6 & 0xF {
	case 0x0: // AND
		result := a & b
		c.Set(rd, result)
		c.thumbSetNZ(result)
	case 0x1: // EOR
		result := a ^ b
		c.Set(rd, result)
		c.thumbSetNZ(result)
	case 0x2: // LSL
		result, carry := barrelShift(shiftLSL, a, b&0xFF, false, c.CPSR.Carry())
		c.Set(rd, result)
		c.CPSR.SetCarry(carry)
		c.thumbSetNZ(result)
	case 0x3: // LSR
		result, carry := barrelShift(shiftLSR, a, b&0xFF, false, c.CPSR.Carry())
		c.Set(rd, result)
		c.CPSR.SetCarry(carry)
		c.thumbSetNZ(result)
	case 0x4: // ASR
		result, carry := barrelShift(shiftASR, a, b&0xFF, false, c.CPSR.Carry())
		c.Set(rd, result)
		c.CPSR.SetCarry(carry)
		c.thumbSetNZ(result)
	case 0x5: // ADC
		result := a + b + carryIn
		c.CPSR.SetCarry(uint64(a)+uint64(b)+uint64(carryIn) > 0xFFFF_FFFF)
		c.CPSR.SetOverflow((a^result)&(b^result)>>31 != 0)
		c.Set(rd, result)
		c.thumbSetNZ(result)
	case 0x6: // SBC
		result := a - b - (1 - carryIn)
		c.CPSR.SetCarry(uint64(a) >= uint64(b)+uint64(1-carryIn))
		c.CPSR.SetOverflow((a^b)&(a^result)>>31 != 0)
		c.Set(rd, result)
		c.thumbSetNZ(result)
	case 0x7: // ROR
		result, carry := barrelShift(shiftROR, a, b&0xFF, false, c.CPSR.Carry())
		c.Set(rd, result)
		c.CPSR.SetCarry(carry)
		c.thumbSetNZ(result)
	case 0x8: // TST
		c.thumbSetNZ(a & b)
	case 0x9: // NEG
		result := -b
		c.setSubFlags(0, b, result)
		c.Set(rd, result)
	case 0xA: // CMP
		c.setSubFlags(a, b, a-b)
	case 0xB: // CMN
		c.setAddFlags(a, b, a+b)
	case 0xC: // ORR
		result := a | b
		c.Set(rd, result)
		c.thumbSetNZ(result)
	case 0xD: // MUL
		result := a * b
		c.Set(rd, result)
		c.thumbSetNZ(result)
	case 0xE: // BIC
		result := a &^ b
		c.Set(rd, result)
		c.thumbSetNZ(result)
	case 0xF: // MVN
		result := ^b
		c.Set(rd, result)
		c.thumbSetNZ(result)
	}
}

// thumbHiRegister: ADD, CMP and MOV reaching the high
// registers, plus BX.
func (c *CPU) thumbHiRegister(op uint16) {
	rd := uint8(op)&7 | uint8(op>>4)&8
	rs := uint8(op>>3) & 0xF

	switch op >> 8 & 3 {
	case 0: // ADD, flags untouched
		c.Set(rd, c.Get(rd)+c.Get(rs))
		if rd == 15 {
			c.ReloadPipeline()
		}
	case 1: // CMP
		a, b := c.Get(rd), c.Get(rs)
		c.setSubFlags(a, b, a-b)
	case 2: // MOV, flags untouched
		c.Set(rd, c.Get(rs))
		if rd == 15 {
			c.ReloadPipeline()
		}
	case 3: // BX
		target := c.Get(rs)
		c.CPSR.SetThumb(target&1 != 0)
		c.SetPC(target)
		c.ReloadPipeline()
	}
}

// thumbPCRelativeLoad: LDR Rd, [PC, #imm]. The PC operand
// reads with bit 1 forced clear.
func (c *CPU) thumbPCRelativeLoad(op uint16) {
	rd := uint8(op>>8) & 7
	offset := uint32(op&0xFF) * 4
	c.Set(rd, c.read32((c.PC()&^2)+offset))
}

// thumbLoadStoreRegister: LDR/STR/LDRB/STRB with a register
// offset.
func (c *CPU) thumbLoadStoreRegister(op uint16) {
	ro := uint8(op>>6) & 7
	rb := uint8(op>>3) & 7
	rd := uint8(op) & 7
	addr := c.Get(rb) + c.Get(ro)

	switch op >> 10 & 3 {
	case 0: // STR
		c.write32(addr, c.Get(rd))
	case 1: // STRB
		c.write8(addr, uint8(c.Get(rd)))
	case 2: // LDR
		c.Set(rd, c.read32(addr))
	case 3: // LDRB
		c.Set(rd, uint32(c.read8(addr)))
	}
}

// thumbLoadStoreSignExtended: STRH, LDRH, LDSB and LDSH with a
// register offset.
func (c *CPU) thumbLoadStoreSignExtended(op uint16) {
	ro := uint8(op>>6) & 7
	rb := uint8(op>>3) & 7
	rd := uint8(op) & 7
	addr := c.Get(rb) + c.Get(ro)

	switch op >> 10 & 3 {
	case 0: // STRH
		c.write16(addr, uint16(c.Get(rd)))
	case 1: // LDSB
		c.Set(rd, types.SignExtend(uint32(c.read8(addr)), 8))
	case 2: // LDRH
		c.Set(rd, uint32(c.read16(addr)))
	case 3: // LDSH
		c.Set(rd, types.SignExtend(uint32(c.read16(addr)), 16))
	}
}

// thumbLoadStoreImmediate: LDR/STR/LDRB/STRB with a 5-bit
// immediate offset, scaled by the transfer width.
func (c *CPU) thumbLoadStoreImmediate(op uint16) {
	offset := uint32(op>>6) & 0x1F
	rb := uint8(op>>3) & 7
	rd := uint8(op) & 7

	switch op >> 11 & 3 {
	case 0: // STR
		c.write32(c.Get(rb)+offset*4, c.Get(rd))
	case 1: // LDR
		c.Set(rd, c.read32(c.Get(rb)+offset*4))
	case 2: // STRB
		c.write8(c.Get(rb)+offset, uint8(c.Get(rd)))
	case 3: // LDRB
		c.Set(rd, uint32(c.read8(c.Get(rb)+offset)))
	}
}

// thumbLoadStoreHalfword: LDRH/STRH with a 5-bit immediate
// offset.
func (c *CPU) thumbLoadStoreHalfword(op uint16) {
	offset := (uint32(op>>6) & 0x1F) * 2
	rb := uint8(op>>3) & 7
	rd := uint8(op) & 7
	addr := c.Get(rb) + offset

	if op&0x0800 != 0 {
		c.Set(rd, uint32(c.read16(addr)))
	} else {
		c.write16(addr, uint16(c.Get(rd)))
	}
}

// thumbSPRelative: LDR/STR relative to the stack pointer.
func (c *CPU) thumbSPRelative(op uint16) {
	rd := uint8(op>>8) & 7
	addr := c.Get(13) + uint32(op&0xFF)*4

	if op&0x0800 != 0 {
		c.Set(rd, c.read32(addr))
	} else {
		c.write32(addr, c.Get(rd))
	}
}

// thumbLoadAddress: ADD Rd, PC/SP, #imm. The PC operand reads
// with bit 1 forced clear.
func (c *CPU) thumbLoadAddress(op uint16) {
	rd := uint8(op>>8) & 7
	offset := uint32(op&0xFF) * 4

	if op&0x0800 != 0 {
		c.Set(rd, c.Get(13)+offset)
	} else {
		c.Set(rd, (c.PC()&^2)+offset)
	}
}

// thumbAdjustSP: ADD SP, #±imm.
func (c *CPU) thumbAdjustSP(op uint16) {
	offset := uint32(op&0x7F) * 4
	if op&0x80 != 0 {
		c.Set(13, c.Get(13)-offset)
	} else {
		c.Set(13, c.Get(13)+offset)
	}
}

// thumbPushPop: PUSH/POP of the low registers, optionally with
// LR (push) or PC (pop).
func (c *CPU) thumbPushPop(op uint16) {
	list := uint32(op & 0xFF)
	r := op&0x0100 != 0
	pop := op&0x0800 != 0

	if pop {
		addr := c.Get(13)
		for i := uint8(0); i < 8; i++ {
			if list&(1<<i) != 0 {
				c.Set(i, c.read32(addr))
				addr += 4
			}
		}
		if r {
			c.SetPC(c.read32(addr) &^ 1)
			addr += 4
		}
		c.Set(13, addr)
		if r {
			c.ReloadPipeline()
		}
	} else {
		n := uint32(bits.OnesCount32(list))
		if r {
			n++
		}
		addr := c.Get(13) - 4*n
		c.Set(13, addr)
		for i := uint8(0); i < 8; i++ {
			if list&(1<<i) != 0 {
				c.write32(addr, c.Get(i))
				addr += 4
			}
		}
		if r {
			c.write32(addr, c.Get(14))
		}
	}
}

// thumbMultiple: LDMIA/STMIA with base write-back.
func (c *CPU) thumbMultiple(op uint16) {
	rb := uint8(op>>8) & 7
	list := uint32(op & 0xFF)
	addr := c.Get(rb)
	load := op&0x0800 != 0

	for i := uint8(0); i < 8; i++ {
		if list&(1<<i) == 0 {
			continue
		}
		if load {
			c.Set(i, c.read32(addr))
		} else {
			c.write32(addr, c.Get(i))
		}
		addr += 4
	}

	// an LDMIA whose list contains the base keeps the loaded
	// value instead of the write-back
	if !(load && list&(1<<rb) != 0) {
		c.Set(rb, addr)
	}
}

// thumbConditionalBranch: a signed 8-bit halfword offset taken
// when the condition holds.
func (c *CPU) thumbConditionalBranch(op uint16) {
	if !c.checkCondition(uint32(op>>8) & 0xF) {
		return
	}
	offset := types.SignExtend(uint32(op&0xFF), 8) << 1
	c.SetPC(c.PC() + offset)
	c.ReloadPipeline()
}

// thumbBranch: the unconditional 11-bit halfword offset.
func (c *CPU) thumbBranch(op uint16) {
	offset := types.SignExtend(uint32(op&0x7FF), 11) << 1
	c.SetPC(c.PC() + offset)
	c.ReloadPipeline()
}

// thumbLongBranchLink: the two halves of BL. The first half
// stages the upper offset in LR; the second half branches and
// leaves the return address, with bit 0 set, in LR.
func (c *CPU) thumbLongBranchLink(op uint16) {
	offset := uint32(op & 0x7FF)
	if op&0x0800 == 0 {
		c.Set(14, c.PC()+(types.SignExtend(offset, 11)<<12))
	} else {
		ret := c.PC() - 2
		c.SetPC(c.Get(14) + offset<<1)
		c.Set(14, ret|1)
		c.ReloadPipeline()
	}
}
