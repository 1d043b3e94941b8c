package emu

import "testing"

func TestPIADataDirection(t *testing.T) {
	p := newPIA("test")
	p.A.Input = func() uint8 { return 0x0F }

	// After reset control bit 2 is clear: address 0 is the direction
	// register.
	p.WriteREGS(0, 0xF0)
	if p.A.ddr != 0xF0 {
		t.Fatalf("ddr = %02X", p.A.ddr)
	}
	p.WriteREGS(1, 0x04) // select the data register
	p.WriteREGS(0, 0xA5)

	// Output bits come from the output register, input bits from the pins.
	if got := p.ReadREGS(0); got != 0xAF {
		t.Errorf("port read = %02X, want AF", got)
	}

	p.WriteREGS(1, 0x00)
	if got := p.ReadREGS(0); got != 0xF0 {
		t.Errorf("ddr readback = %02X, want F0", got)
	}
}

func TestPIAUnconnectedPinsFloatHigh(t *testing.T) {
	p := newPIA("test")
	p.WriteREGS(1, 0x04)
	if got := p.ReadREGS(0); got != 0xFF {
		t.Errorf("port read = %02X, want FF", got)
	}
}

func TestPIAInterruptFlag(t *testing.T) {
	p := newPIA("test")
	p.WriteREGS(1, 0x04) // data reg selected, falling edge, irq disabled

	// Rising edge with falling-edge select: no flag.
	p.A.setCx1(true)
	if p.ReadREGS(1)&0x80 != 0 {
		t.Fatal("flag set on the wrong edge")
	}
	p.A.setCx1(false)
	if p.ReadREGS(1)&0x80 == 0 {
		t.Fatal("flag not set on the falling edge")
	}

	// Flag set but the enable bit is off: no chip interrupt.
	if p.IRQ() {
		t.Error("IRQ asserted with enable clear")
	}
	p.WriteREGS(1, 0x05)
	if !p.IRQ() {
		t.Error("IRQ not asserted with enable set")
	}

	// Reading the data register acknowledges.
	p.ReadREGS(0)
	if p.ReadREGS(1)&0x80 != 0 || p.IRQ() {
		t.Error("flag survived the data read")
	}
}

func TestPIARisingEdgeSelect(t *testing.T) {
	p := newPIA("test")
	p.WriteREGS(1, 0x06) // rising edge
	p.A.setCx1(true)
	if p.ReadREGS(1)&0x80 == 0 {
		t.Error("flag not set on the rising edge")
	}
}

func TestPIAFlagBitsReadOnly(t *testing.T) {
	p := newPIA("test")
	p.WriteREGS(1, 0xFF)
	if p.ReadREGS(1)&0xC0 != 0 {
		t.Errorf("cr = %02X, flag bits writable from the bus", p.ReadREGS(1))
	}

	// And a bus write cannot clear a pending flag either.
	p.A.setCx1(true)
	p.A.setCx1(false)
	p.WriteREGS(1, 0x04)
	if p.ReadREGS(1)&0x80 == 0 {
		t.Error("bus write cleared the flag")
	}
}

func TestPIAPeekDoesNotAck(t *testing.T) {
	p := newPIA("test")
	p.WriteREGS(1, 0x05)
	p.A.setCx1(true)
	p.A.setCx1(false)

	p.PeekREGS(0)
	if !p.IRQ() {
		t.Error("peek acknowledged the interrupt")
	}
	p.ReadREGS(0)
	if p.IRQ() {
		t.Error("read did not acknowledge")
	}
}

func TestPIARegisterMirroring(t *testing.T) {
	p := newPIA("test")
	p.WriteREGS(0x1F, 0x04) // control B through a mirror
	if p.B.cr != 0x04 {
		t.Errorf("cr = %02X", p.B.cr)
	}
}

func TestSAMLatches(t *testing.T) {
	s := newSAM()
	changes := 0
	s.Changed = func() { changes++ }

	s.WriteCTL(0x01, 0) // V0
	s.WriteCTL(0x03, 0) // V1
	if s.VDGMode() != 3 {
		t.Errorf("vdg mode = %d, want 3", s.VDGMode())
	}
	s.WriteCTL(0x02, 0) // clear V1
	if s.VDGMode() != 1 {
		t.Errorf("vdg mode = %d, want 1", s.VDGMode())
	}

	s.WriteCTL(0x07, 0) // F0: display offset bit 0
	if s.DisplayOffset() != 1 {
		t.Errorf("display offset = %d", s.DisplayOffset())
	}

	s.WriteCTL(0x1F, 0) // TY: map type
	if !s.MapTypeRAM() {
		t.Error("map type not set")
	}
	s.WriteCTL(0x17, 0) // R0
	if s.MPURate() != 1 {
		t.Errorf("mpu rate = %d", s.MPURate())
	}

	if changes != 6 {
		t.Errorf("change callback ran %d times, want 6", changes)
	}

	s.Reset()
	if s.VDGMode() != 0 || s.MapTypeRAM() {
		t.Error("reset did not clear the latches")
	}
}
