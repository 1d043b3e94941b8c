package hw

import "testing"

func TestTrapOnIllegal(t *testing.T) {
	c, bus := newTestCPU(t, Model6309, 0x41)
	bus.setVec(TrapVector, 0x0600)
	c.S = 0x0200
	c.CC = 0

	stepInstr(t, c, bus)
	stepTo(t, c, StateNextInstruction)
	if c.PC != 0x0600 {
		t.Fatalf("PC = %04X, want the trap handler", c.PC)
	}
	if c.MD&mdIL == 0 {
		t.Error("IL cause bit not set")
	}
	if !c.CC.I() || !c.CC.F() {
		t.Error("trap did not mask interrupts")
	}
	if c.S != 0x0200-12 {
		t.Errorf("S = %04X", c.S)
	}
}

func TestBitMD(t *testing.T) {
	c, bus := newTestCPU(t, Model6309,
		0x41,             // trap, sets IL
		0x11, 0x3C, 0x40, // BITMD #$40
		0x11, 0x3C, 0x40, // BITMD #$40 again
	)
	bus.setVec(TrapVector, 0x0600)
	bus.mem[0x0600] = 0x3B // RTI
	c.S = 0x0200

	stepInstr(t, c, bus) // trap entry
	stepTo(t, c, StateNextInstruction)
	stepInstr(t, c, bus) // RTI back

	stepInstr(t, c, bus) // first BITMD sees IL and clears it
	if c.CC.Z() {
		t.Error("first BITMD: Z set with IL pending")
	}
	stepInstr(t, c, bus)
	if !c.CC.Z() {
		t.Error("second BITMD: IL not cleared by the first")
	}
}

func TestSEXW(t *testing.T) {
	c, bus := newTestCPU(t, Model6309, 0x14)
	c.SetW(0x8001)
	cycles := stepInstr(t, c, bus)
	if cycles != 4 {
		t.Errorf("took %d cycles, want 4", cycles)
	}
	if c.D() != 0xFFFF {
		t.Errorf("D = %04X, want FFFF", c.D())
	}
	if !c.CC.N() || c.CC.Z() {
		t.Errorf("cc = %v", c.CC)
	}

	c, bus = newTestCPU(t, Model6309, 0x14)
	c.SetW(0)
	stepInstr(t, c, bus)
	if c.D() != 0 || !c.CC.Z() {
		t.Errorf("D = %04X cc = %v", c.D(), c.CC)
	}
}

func TestInMemoryImmediate(t *testing.T) {
	t.Run("OIM direct", func(t *testing.T) {
		c, bus := newTestCPU(t, Model6309, 0x01, 0x0F, 0x10) // OIM #$0F,<$10
		bus.mem[0x0010] = 0xF0
		if got := stepInstr(t, c, bus); got != 6 {
			t.Errorf("took %d cycles, want 6", got)
		}
		if bus.mem[0x0010] != 0xFF {
			t.Errorf("mem = %02X, want FF", bus.mem[0x0010])
		}
	})

	t.Run("AIM indexed", func(t *testing.T) {
		c, bus := newTestCPU(t, Model6309, 0x62, 0x0F, 0x84) // AIM #$0F,,X
		c.X = 0x0100
		bus.mem[0x0100] = 0x3C
		stepInstr(t, c, bus)
		if bus.mem[0x0100] != 0x0C {
			t.Errorf("mem = %02X, want 0C", bus.mem[0x0100])
		}
	})

	t.Run("EIM extended", func(t *testing.T) {
		c, bus := newTestCPU(t, Model6309, 0x75, 0xFF, 0x01, 0x00) // EIM #$FF,$0100
		bus.mem[0x0100] = 0x55
		stepInstr(t, c, bus)
		if bus.mem[0x0100] != 0xAA {
			t.Errorf("mem = %02X, want AA", bus.mem[0x0100])
		}
	})

	t.Run("TIM leaves memory alone", func(t *testing.T) {
		c, bus := newTestCPU(t, Model6309, 0x0B, 0x80, 0x10) // TIM #$80,<$10
		bus.mem[0x0010] = 0x80
		stepInstr(t, c, bus)
		if bus.mem[0x0010] != 0x80 {
			t.Errorf("mem = %02X, modified", bus.mem[0x0010])
		}
		if !c.CC.N() || c.CC.Z() {
			t.Errorf("cc = %v", c.CC)
		}
	})
}

func TestWAccumulator(t *testing.T) {
	c, bus := newTestCPU(t, Model6309,
		0x10, 0x86, 0x12, 0x34, // LDW #$1234
		0x10, 0x8B, 0x00, 0x01, // ADDW #$0001
		0x10, 0xB7, 0x02, 0x00, // STW $0200
		0x10, 0x81, 0x12, 0x35, // CMPW #$1235
	)
	stepInstr(t, c, bus)
	if c.W() != 0x1234 || c.E != 0x12 || c.F != 0x34 {
		t.Fatalf("W = %04X E = %02X F = %02X", c.W(), c.E, c.F)
	}
	stepInstr(t, c, bus)
	if c.W() != 0x1235 {
		t.Fatalf("W = %04X", c.W())
	}
	stepInstr(t, c, bus)
	if bus.mem[0x0200] != 0x12 || bus.mem[0x0201] != 0x35 {
		t.Fatalf("stored %02X%02X", bus.mem[0x0200], bus.mem[0x0201])
	}
	stepInstr(t, c, bus)
	if !c.CC.Z() {
		t.Errorf("cc = %v after equal compare", c.CC)
	}
}

// On a 6809 the page-2 W opcodes decode as their page-0 form.
func TestWOpFallbackOn6809(t *testing.T) {
	c, bus := newTestCPU(t, Model6809, 0x10, 0x86, 0x42)
	stepInstr(t, c, bus)
	if c.A != 0x42 {
		t.Errorf("A = %02X, want LDA behavior", c.A)
	}
	if c.PC != testOrg+3 {
		t.Errorf("PC = %04X", c.PC)
	}
}

func TestTransferW(t *testing.T) {
	c, bus := newTestCPU(t, Model6309,
		0x1F, 0x16, // TFR X,W
		0x1E, 0x67, // EXG W,V
	)
	c.X = 0xBEEF
	stepInstr(t, c, bus)
	if c.W() != 0xBEEF {
		t.Fatalf("W = %04X", c.W())
	}
	c.V = 0x1111
	stepInstr(t, c, bus)
	if c.W() != 0x1111 || c.V != 0xBEEF {
		t.Errorf("W = %04X V = %04X", c.W(), c.V)
	}
}

func TestNativeModeStacking(t *testing.T) {
	c, bus := newTestCPU(t, Model6309,
		0x11, 0x3D, 0x01, // LDMD #$01: native mode
		0x3F, // SWI
	)
	bus.setVec(SWIVector, 0x0600)
	bus.mem[0x0600] = 0x3B // RTI
	c.S = 0x0200

	stepInstr(t, c, bus)
	if c.MD&mdNM == 0 {
		t.Fatal("native mode not set")
	}
	c.SetW(0xCAFE)
	c.A, c.B = 0x11, 0x22

	stepInstr(t, c, bus)
	stepTo(t, c, StateNextInstruction)
	if c.S != 0x0200-14 {
		t.Fatalf("S = %04X, want a 14-byte native frame", c.S)
	}

	c.SetW(0)
	c.A, c.B = 0, 0
	stepInstr(t, c, bus) // RTI
	if c.W() != 0xCAFE || c.A != 0x11 || c.B != 0x22 {
		t.Errorf("not restored: W = %04X A = %02X B = %02X", c.W(), c.A, c.B)
	}
	if c.PC != testOrg+4 {
		t.Errorf("PC = %04X", c.PC)
	}
}

func TestFIRQFullFrameMode(t *testing.T) {
	c, bus := newTestCPU(t, Model6309,
		0x11, 0x3D, 0x02, // LDMD #$02: FIRQ stacks everything
		0x12, // NOP
	)
	bus.setVec(FIRQVector, 0x0600)
	c.S = 0x0200
	c.CC = 0

	stepInstr(t, c, bus)
	c.FIRQ = true
	stepInstr(t, c, bus)
	stepTo(t, c, StateNextInstruction)
	if c.PC != 0x0600 {
		t.Fatalf("PC = %04X", c.PC)
	}
	if c.S != 0x0200-12 {
		t.Errorf("S = %04X, want a full frame", c.S)
	}
	if !c.CC.E() {
		t.Error("E not set")
	}
}

func TestLDMDPreservesCauseBits(t *testing.T) {
	c, bus := newTestCPU(t, Model6309, 0x41, 0x11, 0x3D, 0x01)
	bus.setVec(TrapVector, 0x0600)
	bus.mem[0x0600] = 0x3B
	c.S = 0x0200

	stepInstr(t, c, bus)
	stepTo(t, c, StateNextInstruction)
	stepInstr(t, c, bus) // RTI
	stepInstr(t, c, bus) // LDMD
	if c.MD&mdIL == 0 {
		t.Error("LDMD cleared the IL cause bit")
	}
	if c.MD&mdNM == 0 {
		t.Error("LDMD did not set native mode")
	}
}

// 6309-only index modes resolve E, F and W offsets.
func TestIndexedWOffset(t *testing.T) {
	c, bus := newTestCPU(t, Model6309, 0xA6, 0x8E) // LDA W,X
	c.X = 0x0100
	c.SetW(0x0010)
	bus.mem[0x0110] = 0x66
	stepInstr(t, c, bus)
	if c.A != 0x66 {
		t.Errorf("A = %02X, want 66", c.A)
	}
}
