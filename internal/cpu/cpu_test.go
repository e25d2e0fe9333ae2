package cpu

import (
	"testing"

	"github.com/thelolagemann/gomeboy-advance/internal/types"
)

// testBus is a flat little-endian memory with the same
// alignment behaviour as the real bus.
type testBus struct {
	mem     map[uint32]uint8
	pending bool
}

func newTestBus() *testBus {
	return &testBus{mem: make(map[uint32]uint8)}
}

func (b *testBus) Read8(addr uint32) uint8 { return b.mem[addr] }

func (b *testBus) Read16(addr uint32) uint16 {
	addr &^= 1
	return uint16(b.mem[addr]) | uint16(b.mem[addr+1])<<8
}

func (b *testBus) Read32(addr uint32) uint32 {
	base := addr &^ 3
	v := uint32(b.mem[base]) | uint32(b.mem[base+1])<<8 | uint32(b.mem[base+2])<<16 | uint32(b.mem[base+3])<<24
	return types.RotateRight(v, uint(addr&3)*8)
}

func (b *testBus) Write8(addr uint32, v uint8) { b.mem[addr] = v }

func (b *testBus) Write16(addr uint32, v uint16) {
	addr &^= 1
	b.mem[addr] = uint8(v)
	b.mem[addr+1] = uint8(v >> 8)
}

func (b *testBus) Write32(addr uint32, v uint32) {
	addr &^= 3
	b.mem[addr] = uint8(v)
	b.mem[addr+1] = uint8(v >> 8)
	b.mem[addr+2] = uint8(v >> 16)
	b.mem[addr+3] = uint8(v >> 24)
}

func (b *testBus) Pending() bool { return b.pending }

// newTestCPU loads the given words at the cartridge entry
// point and resets the core so the first Step executes the
// first word.
func newTestCPU(program ...uint32) (*CPU, *testBus) {
	bus := newTestBus()
	for i, op := range program {
		bus.Write32(0x0800_0000+uint32(i)*4, op)
	}
	c := NewCPU(bus, nil)
	c.Reset()
	return c, bus
}

const nop = 0xE1A0_0000 // MOV R0, R0

func TestReset(t *testing.T) {
	c, _ := newTestCPU(nop)

	if c.CPSR.Mode() != ModeSystem {
		t.Errorf("mode = %s, want sys", c.CPSR.Mode())
	}
	if c.CPSR.Thumb() {
		t.Error("expected ARM state")
	}
	// the pipeline has already fetched one word ahead
	if c.PC() != 0x0800_0004 {
		t.Errorf("PC = %08X, want 08000004", c.PC())
	}
	for i := uint8(0); i < 15; i++ {
		if c.Get(i) != 0 {
			t.Errorf("R%d = %08X, want 0", i, c.Get(i))
		}
	}
	if c.Prefetch() != nop {
		t.Errorf("prefetch = %08X, want the first instruction", c.Prefetch())
	}
}

func TestConditionCodes(t *testing.T) {
	tests := []struct {
		name string
		cond uint32
		n, z, cf, v bool
		want bool
	}{
		{"EQ taken", 0x0, false, true, false, false, true},
		{"EQ skipped", 0x0, false, false, false, false, false},
		{"NE taken", 0x1, false, false, false, false, true},
		{"NE skipped", 0x1, false, true, false, false, false},
		{"CS taken", 0x2, false, false, true, false, true},
		{"CC taken", 0x3, false, false, false, false, true},
		{"MI taken", 0x4, true, false, false, false, true},
		{"PL taken", 0x5, false, false, false, false, true},
		{"VS taken", 0x6, false, false, false, true, true},
		{"VC taken", 0x7, false, false, false, false, true},
		{"HI taken", 0x8, false, false, true, false, true},
		{"HI skipped on Z", 0x8, false, true, true, false, false},
		{"LS taken", 0x9, false, true, true, false, true},
		{"GE taken on N=V", 0xA, true, false, false, true, true},
		{"LT taken on N!=V", 0xB, true, false, false, false, true},
		{"GT taken", 0xC, false, false, false, false, true},
		{"GT skipped on Z", 0xC, false, true, false, false, false},
		{"LE taken on Z", 0xD, false, true, false, false, true},
		{"AL always", 0xE, true, true, true, true, true},
		{"NV never", 0xF, true, true, true, true, false},
	}

	c, _ := newTestCPU(nop)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.CPSR.SetNegative(tt.n)
			c.CPSR.SetZero(tt.z)
			c.CPSR.SetCarry(tt.cf)
			c.CPSR.SetOverflow(tt.v)
			if got := c.checkCondition(tt.cond); got != tt.want {
				t.Errorf("checkCondition(%X) = %t, want %t", tt.cond, got, tt.want)
			}
		})
	}
}

func TestFailedConditionSkips(t *testing.T) {
	// MOVNES R1, #1 with Z set: skipped entirely
	c, _ := newTestCPU(0x13B0_1001, nop)
	c.CPSR.SetZero(true)

	before := c.Get(1)
	c.Step()
	if c.Get(1) != before {
		t.Error("skipped instruction changed R1")
	}
	if c.PC() != 0x0800_0008 {
		t.Errorf("PC = %08X, want 08000008 (advanced by exactly 4)", c.PC())
	}
	if !c.CPSR.Zero() {
		t.Error("skipped instruction changed the flags")
	}
}

func TestIRQEntry(t *testing.T) {
	c, bus := newTestCPU(nop, nop)
	c.Step() // execute the first instruction at 08000000

	bus.pending = true
	c.Step()

	if c.CPSR.Mode() != ModeIRQ {
		t.Fatalf("mode = %s, want irq", c.CPSR.Mode())
	}
	if !c.CPSR.IRQDisabled() {
		t.Error("IRQ entry should disable IRQs")
	}
	if c.CPSR.Thumb() {
		t.Error("IRQ entry should clear Thumb state")
	}
	// SPSR_irq holds the pre-exception CPSR
	if Mode(c.SPSR()&0x1F) != ModeSystem {
		t.Errorf("SPSR mode = %05b, want sys", c.SPSR()&0x1F)
	}
	// the handler returns with SUBS PC, R14, #4 to the
	// interrupted instruction at 08000004
	if got := c.Get(14); got != 0x0800_0008 {
		t.Errorf("LR = %08X, want 08000008", got)
	}
	// executing at the IRQ vector
	if c.PC() != VectorIRQ+4 {
		t.Errorf("PC = %08X, want %08X", c.PC(), VectorIRQ+4)
	}

	// the I flag blocks further entries
	bus.pending = true
	c.Step()
	if c.CPSR.Mode() != ModeIRQ {
		t.Error("masked IRQ must not re-enter")
	}
}

func TestHaltOnCoprocessor(t *testing.T) {
	// CDP: coprocessor data operation
	c, _ := newTestCPU(0xEE00_0000, nop)
	c.Step()

	halted, reason := c.Halted()
	if !halted {
		t.Fatal("expected the core to halt on a coprocessor op")
	}
	if reason == "" {
		t.Error("expected a diagnostic")
	}

	// a halted core no longer executes
	pc := c.PC()
	c.Step()
	if c.PC() != pc {
		t.Error("halted core advanced PC")
	}
}

func TestUndefinedInstruction(t *testing.T) {
	// register offset with bit 4 set in the single transfer
	// space is the undefined instruction extension space
	c, _ := newTestCPU(0xE7F0_0010, nop)
	c.Step()

	if c.CPSR.Mode() != ModeUndefined {
		t.Fatalf("mode = %s, want und", c.CPSR.Mode())
	}
	if c.PC() != VectorUndefined+4 {
		t.Errorf("PC = %08X, want vector 04", c.PC())
	}
	// R14_und points past the undefined instruction
	if got := c.Get(14); got != 0x0800_0004 {
		t.Errorf("LR = %08X, want 08000004", got)
	}
}

func TestSWI(t *testing.T) {
	c, _ := newTestCPU(0xEF00_0000, nop)
	c.Step()

	if c.CPSR.Mode() != ModeSupervisor {
		t.Fatalf("mode = %s, want svc", c.CPSR.Mode())
	}
	if c.PC() != VectorSWI+4 {
		t.Errorf("PC = %08X, want vector 08", c.PC())
	}
	if got := c.Get(14); got != 0x0800_0004 {
		t.Errorf("LR = %08X, want 08000004", got)
	}
}
