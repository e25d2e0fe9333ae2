// Package cpu implements the ARM7TDMI: the banked register
// file, the barrel shifter, the ARM and Thumb interpreters and
// the exception model.
package cpu

import (
	"fmt"

	"github.com/thelolagemann/gomeboy-advance/pkg/log"
)

// Bus is the memory the CPU executes against. Reads return
// zero extended values; sign extension is the CPU's job.
type Bus interface {
	Read8(addr uint32) uint8
	Read16(addr uint32) uint16
	Read32(addr uint32) uint32
	Write8(addr uint32, value uint8)
	Write16(addr uint32, value uint16)
	Write32(addr uint32, value uint32)

	// Pending reports whether an enabled interrupt request is
	// asserted. The CPU still honours its own I flag.
	Pending() bool
}

// exception vectors
const (
	VectorReset     = 0x00
	VectorUndefined = 0x04
	VectorSWI       = 0x08
	VectorIRQ       = 0x18
	VectorFIQ       = 0x1C
)

// CPU is an ARM7TDMI core. The single prefetch latch models
// the architecturally visible part of the three stage
// pipeline: R15 reads as the executing instruction plus 8 in
// ARM state, plus 4 in Thumb state.
type CPU struct {
	Registers

	bus Bus
	log log.Logger

	// Debug halts the core on undefined encodings for
	// inspection instead of taking the exception vector.
	Debug bool

	prefetch uint32

	halted     bool
	haltReason string

	cycles uint64
}

// NewCPU creates a CPU attached to the given bus.
func NewCPU(bus Bus, logger log.Logger) *CPU {
	c := &CPU{
		bus: bus,
		log: logger,
	}
	c.Registers.reset()
	return c
}

// Reset returns the core to its state out of the BIOS: every
// register cleared, System mode, ARM state, and execution
// about to begin at the cartridge entry point.
func (c *CPU) Reset() {
	c.Registers.reset()
	c.SetPC(0x0800_0000)
	c.halted = false
	c.haltReason = ""
	c.ReloadPipeline()
}

// Cycles returns the number of cycles consumed so far.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// Halted reports whether the core has stopped on an
// unrecoverable decode and, if so, why.
func (c *CPU) Halted() (bool, string) {
	return c.halted, c.haltReason
}

// Prefetch returns the contents of the prefetch latch, the
// instruction already fetched ahead of the one executing.
func (c *CPU) Prefetch() uint32 {
	return c.prefetch
}

// halt stops the core with a diagnostic. Every later Step is a
// no-op until the next Reset.
func (c *CPU) halt(format string, args ...interface{}) {
	c.halted = true
	c.haltReason = fmt.Sprintf(format, args...)
	if c.log != nil {
		c.log.Errorf("cpu halted: %s", c.haltReason)
	}
}

// ReloadPipeline refills the prefetch latch from the current
// R15 and advances R15 by one instruction width. It must run
// after anything writes R15.
func (c *CPU) ReloadPipeline() {
	if c.CPSR.Thumb() {
		c.SetPC(c.PC() &^ 1)
		c.prefetch = uint32(c.read16(c.PC()))
		c.SetPC(c.PC() + 2)
	} else {
		c.SetPC(c.PC() &^ 3)
		c.prefetch = c.read32(c.PC())
		c.SetPC(c.PC() + 4)
	}
}

func (c *CPU) read8(addr uint32) uint8 {
	c.cycles++
	return c.bus.Read8(addr)
}

func (c *CPU) read16(addr uint32) uint16 {
	c.cycles++
	return c.bus.Read16(addr)
}

func (c *CPU) read32(addr uint32) uint32 {
	c.cycles++
	return c.bus.Read32(addr)
}

func (c *CPU) write8(addr uint32, v uint8) {
	c.cycles++
	c.bus.Write8(addr, v)
}

func (c *CPU) write16(addr uint32, v uint16) {
	c.cycles++
	c.bus.Write16(addr, v)
}

func (c *CPU) write32(addr uint32, v uint32) {
	c.cycles++
	c.bus.Write32(addr, v)
}

// Step executes one instruction and returns the number of
// cycles it consumed. A halted core consumes one idle cycle.
func (c *CPU) Step() uint64 {
	start := c.cycles

	if c.halted {
		c.cycles++
		return c.cycles - start
	}

	if c.bus.Pending() && !c.CPSR.IRQDisabled() {
		c.exception(VectorIRQ, ModeIRQ)
		return c.cycles - start
	}

	if c.CPSR.Thumb() {
		op := uint16(c.prefetch)
		c.prefetch = uint32(c.read16(c.PC()))
		c.SetPC(c.PC() + 2)
		c.stepThumb(op)
	} else {
		op := c.prefetch
		c.prefetch = c.read32(c.PC())
		c.SetPC(c.PC() + 4)
		c.stepARM(op)
	}
	c.cycles++

	return c.cycles - start
}

// checkCondition evaluates a condition code against the
// current flags. Code 15 (NV) never executes on the ARM7TDMI.
func (c *CPU) checkCondition(cond uint32) bool {
	n, z := c.CPSR.Negative(), c.CPSR.Zero()
	cf, v := c.CPSR.Carry(), c.CPSR.Overflow()

	switch cond {
	case 0x0: // EQ
		return z
	case 0x1: // NE
		return !z
	case 0x2: // CS/HS
		return cf
	case 0x3: // CC/LO
		return !cf
	case 0x4: // MI
		return n
	case 0x5: // PL
		return !n
	case 0x6: // VS
		return v
	case 0x7: // VC
		return !v
	case 0x8: // HI
		return cf && !z
	case 0x9: // LS
		return !cf || z
	case 0xA: // GE
		return n == v
	case 0xB: // LT
		return n != v
	case 0xC: // GT
		return !z && n == v
	case 0xD: // LE
		return z || n != v
	case 0xE: // AL
		return true
	}
	return false
}

// undefined handles an instruction matching no known form: the
// undefined-instruction exception, or a halt for inspection
// when debugging.
func (c *CPU) undefined(op uint32) {
	if c.Debug {
		pc := c.PC() - 8
		if c.CPSR.Thumb() {
			pc = c.PC() - 4
		}
		c.halt("undefined instruction %08X at %08X", op, pc)
		return
	}
	c.exception(VectorUndefined, ModeUndefined)
}

// exception enters the given exception: the CPSR is banked
// into the target mode's SPSR, the mode switches, Thumb state
// clears, IRQs are disabled (FIQs too where applicable), R14
// of the target mode receives the return address and execution
// resumes at the vector.
func (c *CPU) exception(vector uint32, mode Mode) {
	// The return address the handler expects in R14 depends on
	// the exception and the state it was raised from. SWI and
	// undefined are taken mid-instruction, when R15 is two
	// fetches ahead; IRQ and FIQ are taken between
	// instructions, when R15 is one fetch ahead and the
	// handler returns with SUBS PC, R14, #4.
	ret := c.PC()
	if c.CPSR.Thumb() {
		switch vector {
		case VectorSWI, VectorUndefined:
			ret -= 2
		case VectorIRQ, VectorFIQ:
			ret += 2
		}
	} else {
		switch vector {
		case VectorSWI, VectorUndefined:
			ret -= 4
		}
	}

	old := uint32(c.CPSR)
	c.SetMode(mode)
	c.SetSPSR(old)
	c.CPSR.SetThumb(false)
	c.CPSR.SetIRQDisabled(true)
	if vector == VectorFIQ || vector == VectorReset {
		c.CPSR.SetFIQDisabled(true)
	}
	c.Set(14, ret)
	c.SetPC(vector)
	c.ReloadPipeline()
}
