package cpu

import "fmt"

// Mode is one of the seven ARM7TDMI processor modes, as held
// in the low five bits of the CPSR.
type Mode uint8

const (
	ModeUser       Mode = 0b10000
	ModeFIQ        Mode = 0b10001
	ModeIRQ        Mode = 0b10010
	ModeSupervisor Mode = 0b10011
	ModeAbort      Mode = 0b10111
	ModeUndefined  Mode = 0b11011
	ModeSystem     Mode = 0b11111
)

func (m Mode) String() string {
	switch m {
	case ModeUser:
		return "usr"
	case ModeFIQ:
		return "fiq"
	case ModeIRQ:
		return "irq"
	case ModeSupervisor:
		return "svc"
	case ModeAbort:
		return "abt"
	case ModeUndefined:
		return "und"
	case ModeSystem:
		return "sys"
	}
	return fmt.Sprintf("?%02X?", uint8(m))
}

// valid reports whether m names one of the seven modes.
func (m Mode) valid() bool {
	switch m {
	case ModeUser, ModeFIQ, ModeIRQ, ModeSupervisor, ModeAbort, ModeUndefined, ModeSystem:
		return true
	}
	return false
}

// PSR is a program status register: the four condition flags,
// the IRQ/FIQ disables, the Thumb bit and the mode field.
type PSR uint32

const (
	flagN = 1 << 31
	flagZ = 1 << 30
	flagC = 1 << 29
	flagV = 1 << 28
	flagI = 1 << 7
	flagF = 1 << 6
	flagT = 1 << 5
)

func (p PSR) Negative() bool { return p&flagN != 0 }
func (p PSR) Zero() bool { return p&flagZ != 0 }
func (p PSR) Carry() bool { return p&flagC != 0 }
func (p PSR) Overflow() bool { return p&flagV != 0 }
func (p PSR) IRQDisabled() bool { return p&flagI != 0 }
func (p PSR) FIQDisabled() bool { return p&flagF != 0 }
func (p PSR) Thumb() bool { return p&flagT != 0 }
func (p PSR) Mode() Mode { return Mode(p & 0x1F) }

func (p *PSR) set(mask uint32, on bool) {
	if on {
		*p |= PSR(mask)
	} else {
		*p &^= PSR(mask)
	}
}

func (p *PSR) SetNegative(on bool) { p.set(flagN, on) }
func (p *PSR) SetZero(on bool) { p.set(flagZ, on) }
func (p *PSR) SetCarry(on bool) { p.set(flagC, on) }
func (p *PSR) SetOverflow(on bool) { p.set(flagV, on) }
func (p *PSR) SetIRQDisabled(on bool) { p.set(flagI, on) }
func (p *PSR) SetFIQDisabled(on bool) { p.set(flagF, on) }
func (p *PSR) SetThumb(on bool) { p.set(flagT, on) }

// Physical register slots. The sixteen logical registers of
// each mode map onto this flat array through a mode indexed
// table; a mode switch rewrites the table, never the values.
const (
	physR0 = iota // R0..R7, shared by every mode
	physR1
	physR2
	physR3
	physR4
	physR5
	physR6
	physR7
	physR8 // R8..R12, shared by every mode but FIQ
	physR9
	physR10
	physR11
	physR12
	physR8FIQ
	physR9FIQ
	physR10FIQ
	physR11FIQ
	physR12FIQ
	physR13 // R13/R14 banked per mode
	physR14
	physR13FIQ
	physR14FIQ
	physR13IRQ
	physR14IRQ
	physR13SVC
	physR14SVC
	physR13ABT
	physR14ABT
	physR13UND
	physR14UND
	physR15

	physRegisters
)

// spsr bank indices
const (
	bankFIQ = iota
	bankIRQ
	bankSVC
	bankABT
	bankUND
	spsrBanks
)

// Registers is the ARM7TDMI register file: the flat array of
// physical registers, the mode indexed lookup table mapping
// the sixteen logical names onto it, the CPSR and the banked
// SPSRs.
type Registers struct {
	phys  [physRegisters]uint32
	table [16]uint8

	CPSR PSR
	spsr [spsrBanks]uint32
}

// userTable is the logical to physical mapping of the User and
// System modes; every other mode patches R13/R14 (and, for
// FIQ, R8..R12) on top of it.
var userTable = [16]uint8{
	physR0, physR1, physR2, physR3, physR4, physR5, physR6, physR7,
	physR8, physR9, physR10, physR11, physR12,
	physR13, physR14, physR15,
}

// spsrIndex maps an exception mode to its SPSR slot, or -1 for
// User and System which have none.
func spsrIndex(m Mode) int {
	switch m {
	case ModeFIQ:
		return bankFIQ
	case ModeIRQ:
		return bankIRQ
	case ModeSupervisor:
		return bankSVC
	case ModeAbort:
		return bankABT
	case ModeUndefined:
		return bankUND
	}
	return -1
}

// rebuildTable rewrites the logical to physical mapping for
// the given mode.
func (r *Registers) rebuildTable(m Mode) {
	r.table = userTable
	switch m {
	case ModeFIQ:
		r.table[8] = physR8FIQ
		r.table[9] = physR9FIQ
		r.table[10] = physR10FIQ
		r.table[11] = physR11FIQ
		r.table[12] = physR12FIQ
		r.table[13] = physR13FIQ
		r.table[14] = physR14FIQ
	case ModeIRQ:
		r.table[13] = physR13IRQ
		r.table[14] = physR14IRQ
	case ModeSupervisor:
		r.table[13] = physR13SVC
		r.table[14] = physR14SVC
	case ModeAbort:
		r.table[13] = physR13ABT
		r.table[14] = physR14ABT
	case ModeUndefined:
		r.table[13] = physR13UND
		r.table[14] = physR14UND
	}
}

// SetMode switches the processor mode: the CPSR mode field is
// rewritten and the register bank visible through R8..R14
// changes atomically for subsequent accesses.
func (r *Registers) SetMode(m Mode) {
	if !m.valid() {
		panic(fmt.Sprintf("cpu: switch to invalid mode %05b", uint8(m)))
	}
	r.CPSR = r.CPSR&^0x1F | PSR(m)
	r.rebuildTable(m)
}

// SetCPSR replaces the whole CPSR, switching banks when the
// mode field changed.
func (r *Registers) SetCPSR(v uint32) {
	r.CPSR = PSR(v)
	if Mode(v & 0x1F).valid() {
		r.rebuildTable(Mode(v & 0x1F))
	}
}

// Get returns the value of logical register i in the current
// mode.
func (r *Registers) Get(i uint8) uint32 {
	return r.phys[r.table[i&0xF]]
}

// Set writes logical register i in the current mode.
func (r *Registers) Set(i uint8, v uint32) {
	r.phys[r.table[i&0xF]] = v
}

// GetUser returns logical register i as seen from the User
// bank, regardless of the current mode. Used by LDM/STM with
// the S bit.
func (r *Registers) GetUser(i uint8) uint32 {
	return r.phys[userTable[i&0xF]]
}

// SetUser writes logical register i in the User bank.
func (r *Registers) SetUser(i uint8, v uint32) {
	r.phys[userTable[i&0xF]] = v
}

// PC returns R15.
func (r *Registers) PC() uint32 {
	return r.phys[physR15]
}

// SetPC writes R15 without reloading the pipeline; callers
// that change the flow of execution reload it themselves.
func (r *Registers) SetPC(v uint32) {
	r.phys[physR15] = v
}

// SPSR returns the saved status register of the current mode.
// User and System have no SPSR; reading it returns the CPSR,
// which is what the hardware leaks there.
func (r *Registers) SPSR() uint32 {
	if i := spsrIndex(r.CPSR.Mode()); i >= 0 {
		return r.spsr[i]
	}
	return uint32(r.CPSR)
}

// SetSPSR writes the saved status register of the current
// mode. Writes from User and System are dropped.
func (r *Registers) SetSPSR(v uint32) {
	if i := spsrIndex(r.CPSR.Mode()); i >= 0 {
		r.spsr[i] = v
	}
}

// reset returns the file to its power-on state: every register
// zero, System mode, ARM state, IRQ and FIQ enabled.
func (r *Registers) reset() {
	r.phys = [physRegisters]uint32{}
	r.spsr = [spsrBanks]uint32{}
	r.CPSR = 0
	r.SetMode(ModeSystem)
}
