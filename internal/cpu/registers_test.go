package cpu

import "testing"

func TestRegisterBanking(t *testing.T) {
	var r Registers
	r.reset()

	t.Run("reset state", func(t *testing.T) {
		if r.CPSR.Mode() != ModeSystem {
			t.Errorf("mode = %s, want sys", r.CPSR.Mode())
		}
		if r.CPSR.Thumb() {
			t.Error("expected ARM state after reset")
		}
		for i := uint8(0); i < 16; i++ {
			if r.Get(i) != 0 {
				t.Errorf("R%d = %08X, want 0", i, r.Get(i))
			}
		}
	})

	t.Run("R13/R14 bank per mode", func(t *testing.T) {
		r.Set(13, 0x0300_7F00)
		r.Set(14, 0x0800_1234)

		r.SetMode(ModeIRQ)
		if r.Get(13) == 0x0300_7F00 {
			t.Error("IRQ mode should see its own R13")
		}
		r.Set(13, 0x0300_7FA0)

		r.SetMode(ModeSystem)
		if got := r.Get(13); got != 0x0300_7F00 {
			t.Errorf("system R13 = %08X, want 03007F00", got)
		}

		r.SetMode(ModeIRQ)
		if got := r.Get(13); got != 0x0300_7FA0 {
			t.Errorf("IRQ R13 = %08X, want 03007FA0", got)
		}
		r.SetMode(ModeSystem)
	})

	t.Run("FIQ banks R8-R12", func(t *testing.T) {
		r.Set(8, 0x1111)
		r.Set(12, 0x2222)

		r.SetMode(ModeFIQ)
		r.Set(8, 0x3333)
		r.Set(12, 0x4444)

		r.SetMode(ModeSystem)
		if r.Get(8) != 0x1111 || r.Get(12) != 0x2222 {
			t.Errorf("system R8/R12 = %X/%X, want 1111/2222", r.Get(8), r.Get(12))
		}

		r.SetMode(ModeFIQ)
		if r.Get(8) != 0x3333 || r.Get(12) != 0x4444 {
			t.Errorf("FIQ R8/R12 = %X/%X, want 3333/4444", r.Get(8), r.Get(12))
		}
		r.SetMode(ModeSystem)
	})

	t.Run("R0-R7 and R15 are shared", func(t *testing.T) {
		r.Set(0, 0xAAAA)
		r.Set(7, 0xBBBB)
		r.SetPC(0x0800_0000)

		for _, m := range []Mode{ModeFIQ, ModeIRQ, ModeSupervisor, ModeAbort, ModeUndefined, ModeUser} {
			r.SetMode(m)
			if r.Get(0) != 0xAAAA || r.Get(7) != 0xBBBB || r.Get(15) != 0x0800_0000 {
				t.Errorf("%s does not share the low registers", m)
			}
		}
		r.SetMode(ModeSystem)
	})

	t.Run("user bank access ignores the current mode", func(t *testing.T) {
		r.SetMode(ModeFIQ)
		r.SetUser(8, 0x5555)
		if r.Get(8) == 0x5555 {
			t.Error("SetUser should not write the FIQ bank")
		}
		r.SetMode(ModeSystem)
		if r.Get(8) != 0x5555 {
			t.Errorf("system R8 = %X, want 5555", r.Get(8))
		}
	})

	t.Run("SPSR banks per mode", func(t *testing.T) {
		r.SetMode(ModeSupervisor)
		r.SetSPSR(0x1F)
		r.SetMode(ModeIRQ)
		r.SetSPSR(0x13)
		if r.SPSR() != 0x13 {
			t.Errorf("IRQ SPSR = %X, want 13", r.SPSR())
		}
		r.SetMode(ModeSupervisor)
		if r.SPSR() != 0x1F {
			t.Errorf("SVC SPSR = %X, want 1F", r.SPSR())
		}

		// user and system have no SPSR: reads leak the CPSR
		r.SetMode(ModeSystem)
		if r.SPSR() != uint32(r.CPSR) {
			t.Error("system SPSR read should leak the CPSR")
		}
	})
}

func TestPSR(t *testing.T) {
	var p PSR
	p.SetNegative(true)
	p.SetCarry(true)
	p.SetThumb(true)
	if !p.Negative() || p.Zero() || !p.Carry() || p.Overflow() {
		t.Errorf("flags = %08X", uint32(p))
	}
	if !p.Thumb() {
		t.Error("expected T set")
	}
	p.SetNegative(false)
	if p.Negative() {
		t.Error("expected N clear")
	}
}
