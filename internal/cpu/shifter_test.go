package cpu

import "testing"

func TestBarrelShift(t *testing.T) {
	tests := []struct {
		name      string
		typ       uint32
		value     uint32
		amount    uint32
		immediate bool
		carryIn   bool
		want      uint32
		wantCarry bool
	}{
		{"LSL#0 is identity with carry preserved", shiftLSL, 0xDEAD_BEEF, 0, true, true, 0xDEAD_BEEF, true},
		{"LSL#0 is identity with carry clear", shiftLSL, 0xDEAD_BEEF, 0, true, false, 0xDEAD_BEEF, false},
		{"LSL#1", shiftLSL, 0x8000_0001, 1, true, false, 0x0000_0002, true},
		{"LSL#4", shiftLSL, 0x0000_00FF, 4, true, false, 0x0000_0FF0, false},
		{"LSR#0 encodes LSR#32", shiftLSR, 0x8000_0000, 0, true, false, 0, true},
		{"LSR#0 encodes LSR#32, bit 31 clear", shiftLSR, 0x7FFF_FFFF, 0, true, true, 0, false},
		{"LSR#4", shiftLSR, 0x0000_00F8, 4, true, false, 0x0000_000F, true},
		{"ASR#0 encodes ASR#32, negative", shiftASR, 0x8000_0000, 0, true, false, 0xFFFF_FFFF, true},
		{"ASR#0 encodes ASR#32, positive", shiftASR, 0x7FFF_FFFF, 0, true, false, 0, false},
		{"ASR#4 replicates the sign", shiftASR, 0xF000_0008, 4, true, false, 0xFF00_0000, true},
		{"ROR#0 encodes RRX with carry in", shiftROR, 0x0000_0002, 0, true, true, 0x8000_0001, false},
		{"ROR#0 encodes RRX with carry out", shiftROR, 0x0000_0001, 0, true, false, 0x0000_0000, true},
		{"ROR#8", shiftROR, 0x1122_3344, 8, true, false, 0x4411_2233, false},

		{"register amount 0 leaves value and carry", shiftLSL, 0xCAFE_F00D, 0, false, true, 0xCAFE_F00D, true},
		{"register LSL#32 zeroes with carry from bit 0", shiftLSL, 0x0000_0001, 32, false, false, 0, true},
		{"register LSL#33 saturates", shiftLSL, 0xFFFF_FFFF, 33, false, true, 0, false},
		{"register LSR#32 zeroes with carry from bit 31", shiftLSR, 0x8000_0000, 32, false, false, 0, true},
		{"register LSR#33 saturates", shiftLSR, 0xFFFF_FFFF, 33, false, true, 0, false},
		{"register ASR#40 floods the sign bit", shiftASR, 0x8000_0000, 40, false, false, 0xFFFF_FFFF, true},
		{"register ASR#40 positive", shiftASR, 0x7FFF_FFFF, 40, false, false, 0, false},
		{"register ROR#32 is identity with carry from bit 31", shiftROR, 0x8000_0001, 32, false, false, 0x8000_0001, true},
		{"register ROR#33 rotates by 1", shiftROR, 0x0000_0003, 33, false, false, 0x8000_0001, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, carry := barrelShift(tt.typ, tt.value, tt.amount, tt.immediate, tt.carryIn)
			if got != tt.want {
				t.Errorf("value = %08X, want %08X", got, tt.want)
			}
			if carry != tt.wantCarry {
				t.Errorf("carry = %t, want %t", carry, tt.wantCarry)
			}
		})
	}
}
