package hw

/*
Instruction execution. Opcodes from pages 2 and 3 (0x10/0x11 prefixes) carry
0x0200/0x0300 in the high byte. Every path consumes its documented bus-cycle
sequence through fetch/store/nvma; there is no separate cycle table.

Undocumented opcodes are not errors: the ones with behavior measured on real
silicon (the NEG/LSR/DEC aliases, the carry-dependent NEG/COM at 0x02 and
friends, the carry-preserving CLR at 0x4E/0x5E, XRES, the 0x38 ANDCC alias,
and HCF at 0x14/0x15/0xCD) reproduce that behavior. 0x18 and 0x1B have no
confirmed measurement and execute as two-cycle no-ops; see DESIGN.md. The
6309 instead traps every opcode it does not assign.
*/

func (c *MC6809) execute(op uint16) {
	switch {
	case op < 0x100:
		c.executePage0(uint8(op))
	case op < 0x300:
		c.executePage2(uint8(op))
	default:
		c.executePage3(uint8(op))
	}
}

func (c *MC6809) executePage0(op uint8) {
	switch op {
	// 0x00-0x0F: direct-mode memory ops.
	case 0x00, 0x03, 0x04, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0C, 0x0D, 0x0E, 0x0F:
		c.memOp(op&0x0F, c.eaDirect())
	case 0x01, 0x02, 0x05, 0x0B:
		// 6309: OIM/AIM/EIM/TIM. 6809: aliases of NEG/NEG-COM/LSR/DEC.
		if c.Model == Model6309 {
			c.imOp(op)
		} else {
			c.memOp(op&0x0F, c.eaDirect())
		}

	case 0x12: // NOP
		c.nvma()

	case 0x13: // SYNC
		c.nvma()
		c.state = StateSync
		return

	case 0x14:
		if c.Model == Model6309 { // SEXW
			c.sexw()
			break
		}
		c.hcf(uint16(op))
		return
	case 0x15:
		if c.trapIllegal() {
			return
		}
		c.hcf(uint16(op))
		return

	case 0x16: // LBRA
		off := c.fetchPC16()
		c.nvma()
		c.nvma()
		c.PC += off

	case 0x17: // LBSR
		off := c.fetchPC16()
		c.nvma()
		c.nvma()
		c.nvma()
		c.nvma()
		c.push16(&c.S, c.PC)
		c.PC += off

	case 0x18, 0x1B: // unverified on real hardware; two-cycle no-op
		if c.trapIllegal() {
			return
		}
		c.nvma()

	case 0x19: // DAA
		c.A, c.CC = Daa(c.CC, c.A)
		c.nvma()

	case 0x1A: // ORCC
		v := c.fetchPC()
		c.CC |= CC(v)
		c.nvma()

	case 0x1C: // ANDCC
		v := c.fetchPC()
		c.CC &= CC(v)
		c.nvma()

	case 0x1D: // SEX
		r, cc := Sex8(c.CC, c.B)
		c.SetD(r)
		c.CC = cc
		c.nvma()

	case 0x1E: // EXG
		post := c.fetchPC()
		t1 := c.readReg(post >> 4)
		t2 := c.readReg(post & 0x0F)
		c.writeReg(post>>4, t2)
		c.writeReg(post&0x0F, t1)
		for i := 0; i < 6; i++ {
			c.nvma()
		}

	case 0x1F: // TFR
		post := c.fetchPC()
		c.writeReg(post&0x0F, c.readReg(post>>4))
		for i := 0; i < 4; i++ {
			c.nvma()
		}

	// 0x20-0x2F: short branches.
	case 0x20, 0x21, 0x22, 0x23, 0x24, 0x25, 0x26, 0x27,
		0x28, 0x29, 0x2A, 0x2B, 0x2C, 0x2D, 0x2E, 0x2F:
		off := sext8(c.fetchPC())
		c.nvma()
		if c.branchTaken(op) {
			c.PC += off
		}

	case 0x30: // LEAX
		c.X = c.eaIndexed()
		c.nvma()
		c.CC = c.CC.SetZ(c.X == 0)
	case 0x31: // LEAY
		c.Y = c.eaIndexed()
		c.nvma()
		c.CC = c.CC.SetZ(c.Y == 0)
	case 0x32: // LEAS
		c.setS(c.eaIndexed())
		c.nvma()
	case 0x33: // LEAU
		c.U = c.eaIndexed()
		c.nvma()

	case 0x34: // PSHS
		c.psh(&c.S, c.U, c.fetchPC())
	case 0x35: // PULS
		post := c.fetchPC()
		c.pul(&c.S, &c.U, post)
	case 0x36: // PSHU
		c.psh(&c.U, c.S, c.fetchPC())
	case 0x37: // PULU
		post := c.fetchPC()
		c.pul(&c.U, &c.S, post)
		if post&0x40 != 0 {
			c.nmiArmed = true
		}

	case 0x38: // undocumented ANDCC alias with one extra dead cycle
		if c.trapIllegal() {
			return
		}
		v := c.fetchPC()
		c.CC &= CC(v)
		c.nvma()
		c.nvma()

	case 0x39: // RTS
		c.nvma()
		c.PC = c.pull16(&c.S)
		c.nvma()

	case 0x3A: // ABX
		c.nvma()
		c.nvma()
		c.X += uint16(c.B)

	case 0x3B: // RTI
		c.rti()

	case 0x3C: // CWAI: mask CC, stack everything, wait for an interrupt
		mask := c.fetchPC()
		c.CC &= CC(mask)
		c.nvma()
		c.stackAll()
		c.InstructionPosthook(c)
		c.state = StateCWAICheckHalt
		return

	case 0x3D: // MUL
		r, cc := Mul8(c.CC, c.A, c.B)
		c.SetD(r)
		c.CC = cc
		for i := 0; i < 10; i++ {
			c.nvma()
		}

	case 0x3E: // XRES: undocumented interrupt through the reset vector
		if c.trapIllegal() {
			return
		}
		c.swi(ResetVector, false)

	case 0x3F: // SWI
		c.swi(SWIVector, true)

	// 0x40-0x5F: inherent ops on A and B.
	case 0x40, 0x43, 0x44, 0x46, 0x47, 0x48, 0x49, 0x4A, 0x4C, 0x4D, 0x4F,
		0x50, 0x53, 0x54, 0x56, 0x57, 0x58, 0x59, 0x5A, 0x5C, 0x5D, 0x5F:
		c.accOp(op)
	case 0x41, 0x42, 0x45, 0x4B, 0x4E,
		0x51, 0x52, 0x55, 0x5B, 0x5E:
		if c.trapIllegal() {
			return
		}
		c.accOp(op)

	// 0x60-0x7F: indexed then extended memory ops.
	case 0x60, 0x63, 0x64, 0x66, 0x67, 0x68, 0x69, 0x6A, 0x6C, 0x6D, 0x6E, 0x6F:
		c.memOp(op&0x0F, c.eaIndexed())
	case 0x61, 0x62, 0x65, 0x6B:
		if c.Model == Model6309 {
			c.imOp(op)
		} else {
			c.memOp(op&0x0F, c.eaIndexed())
		}
	case 0x70, 0x73, 0x74, 0x76, 0x77, 0x78, 0x79, 0x7A, 0x7C, 0x7D, 0x7E, 0x7F:
		c.memOp(op&0x0F, c.eaExtended())
	case 0x71, 0x72, 0x75, 0x7B:
		if c.Model == Model6309 {
			c.imOp(op)
		} else {
			c.memOp(op&0x0F, c.eaExtended())
		}

	case 0x8D: // BSR
		off := sext8(c.fetchPC())
		c.nvma()
		c.nvma()
		c.nvma()
		c.push16(&c.S, c.PC)
		c.PC += off

	case 0x9D, 0xAD, 0xBD: // JSR
		addr := c.eaByMode(op)
		c.nvma()
		c.nvma()
		c.push16(&c.S, c.PC)
		c.PC = addr

	case 0x83, 0x93, 0xA3, 0xB3: // SUBD
		v := c.operand16(op)
		var d uint16
		d, c.CC = Sub16(c.CC, c.D(), v)
		c.SetD(d)
		c.nvma()

	case 0xC3, 0xD3, 0xE3, 0xF3: // ADDD
		v := c.operand16(op)
		var d uint16
		d, c.CC = Add16(c.CC, c.D(), v)
		c.SetD(d)
		c.nvma()

	case 0x8C, 0x9C, 0xAC, 0xBC: // CMPX
		v := c.operand16(op)
		c.CC = Cmp16(c.CC, c.X, v)
		c.nvma()

	case 0x8E, 0x9E, 0xAE, 0xBE: // LDX
		c.X = c.operand16(op)
		c.CC = Ld16(c.CC, c.X)
	case 0x9F, 0xAF, 0xBF: // STX
		c.st16(op, c.X)

	case 0xCC, 0xDC, 0xEC, 0xFC: // LDD
		d := c.operand16(op)
		c.SetD(d)
		c.CC = Ld16(c.CC, d)
	case 0xDD, 0xED, 0xFD: // STD
		c.st16(op, c.D())

	case 0xCE, 0xDE, 0xEE, 0xFE: // LDU
		c.U = c.operand16(op)
		c.CC = Ld16(c.CC, c.U)
	case 0xDF, 0xEF, 0xFF: // STU
		c.st16(op, c.U)

	case 0x97, 0xA7, 0xB7: // STA
		addr := c.eaByMode(op)
		c.store(addr, c.A)
		c.CC = Ld8(c.CC, c.A)
	case 0xD7, 0xE7, 0xF7: // STB
		addr := c.eaByMode(op)
		c.store(addr, c.B)
		c.CC = Ld8(c.CC, c.B)

	case 0x87, 0xC7: // undocumented: immediate operand fetched and dropped
		if c.trapIllegal() {
			return
		}
		c.fetchPC()
	case 0x8F, 0xCF: // undocumented: 16-bit immediate fetched and dropped
		if c.trapIllegal() {
			return
		}
		c.fetchPC16()

	case 0xCD: // HCF
		if c.trapIllegal() {
			return
		}
		c.hcf(uint16(op))
		return

	default:
		// Remaining 0x80-0xFF: 8-bit ALU ops on A or B.
		c.alu8(op)
	}

	c.endInstruction()
}

func (c *MC6809) executePage2(op uint8) {
	switch op {
	// 0x(10)20-0x(10)2F: long branches.
	case 0x20, 0x21, 0x22, 0x23, 0x24, 0x25, 0x26, 0x27,
		0x28, 0x29, 0x2A, 0x2B, 0x2C, 0x2D, 0x2E, 0x2F:
		off := c.fetchPC16()
		c.nvma()
		if c.branchTaken(op) {
			c.nvma()
			c.PC += off
		}

	case 0x3F: // SWI2: does not mask interrupts
		c.swi(SWI2Vector, false)

	case 0x83, 0x93, 0xA3, 0xB3: // CMPD
		v := c.operand16(op)
		c.CC = Cmp16(c.CC, c.D(), v)
		c.nvma()

	case 0x8C, 0x9C, 0xAC, 0xBC: // CMPY
		v := c.operand16(op)
		c.CC = Cmp16(c.CC, c.Y, v)
		c.nvma()

	case 0x8E, 0x9E, 0xAE, 0xBE: // LDY
		c.Y = c.operand16(op)
		c.CC = Ld16(c.CC, c.Y)
	case 0x9F, 0xAF, 0xBF: // STY
		c.st16(op, c.Y)

	case 0xCE, 0xDE, 0xEE, 0xFE: // LDS
		c.setS(c.operand16(op))
		c.CC = Ld16(c.CC, c.S)
	case 0xDF, 0xEF, 0xFF: // STS
		c.st16(op, c.S)

	// 6309 W-accumulator ops. A 6809 falls through to the page-0 opcode.
	case 0x80, 0x90, 0xA0, 0xB0: // SUBW
		if c.Model != Model6309 {
			c.executePage0(op)
			return
		}
		v := c.operand16(op)
		var w uint16
		w, c.CC = Sub16(c.CC, c.W(), v)
		c.SetW(w)
		c.nvma()
	case 0x81, 0x91, 0xA1, 0xB1: // CMPW
		if c.Model != Model6309 {
			c.executePage0(op)
			return
		}
		v := c.operand16(op)
		c.CC = Cmp16(c.CC, c.W(), v)
		c.nvma()
	case 0x8B, 0x9B, 0xAB, 0xBB: // ADDW
		if c.Model != Model6309 {
			c.executePage0(op)
			return
		}
		v := c.operand16(op)
		var w uint16
		w, c.CC = Add16(c.CC, c.W(), v)
		c.SetW(w)
		c.nvma()
	case 0x86, 0x96, 0xA6, 0xB6: // LDW
		if c.Model != Model6309 {
			c.executePage0(op)
			return
		}
		w := c.operand16(op)
		c.SetW(w)
		c.CC = Ld16(c.CC, w)
	case 0x97, 0xA7, 0xB7: // STW
		if c.Model != Model6309 {
			c.executePage0(op)
			return
		}
		c.st16(op, c.W())

	default:
		// Undocumented page-2 opcodes execute as their page-0 form.
		c.executePage0(op)
		return
	}

	c.endInstruction()
}

func (c *MC6809) executePage3(op uint8) {
	switch op {
	case 0x3C: // BITMD: test and clear the 6309 trap-cause bits
		if c.Model != Model6309 {
			c.executePage0(op)
			return
		}
		v := c.fetchPC() & (mdIL | mdZD)
		c.CC = c.CC.SetZ(c.MD&v == 0)
		c.MD &^= v
		c.nvma()

	case 0x3D: // LDMD: only the mode bits are writable
		if c.Model != Model6309 {
			c.executePage0(op)
			return
		}
		v := c.fetchPC()
		c.MD = (c.MD & (mdIL | mdZD)) | (v & (mdNM | mdFM))
		c.nvma()
		c.nvma()

	case 0x3F: // SWI3: does not mask interrupts
		c.swi(SWI3Vector, false)

	case 0x83, 0x93, 0xA3, 0xB3: // CMPU
		v := c.operand16(op)
		c.CC = Cmp16(c.CC, c.U, v)
		c.nvma()

	case 0x8C, 0x9C, 0xAC, 0xBC: // CMPS
		v := c.operand16(op)
		c.CC = Cmp16(c.CC, c.S, v)
		c.nvma()

	default:
		// Undocumented page-3 opcodes execute as their page-0 form.
		c.executePage0(op)
		return
	}

	c.endInstruction()
}

// branchTaken evaluates a branch opcode against the condition codes. The low
// four bits select one of eight conditions, with bit 0 inverting the sense.
func (c *MC6809) branchTaken(op uint8) bool {
	cc := c.CC
	var cond bool
	switch (op >> 1) & 7 {
	case 0: // BRA
		cond = true
	case 1: // BHI
		cond = !(cc.Z() || cc.C())
	case 2: // BCC
		cond = !cc.C()
	case 3: // BNE
		cond = !cc.Z()
	case 4: // BVC
		cond = !cc.V()
	case 5: // BPL
		cond = !cc.N()
	case 6: // BGE
		cond = cc.N() == cc.V()
	case 7: // BGT
		cond = !cc.Z() && cc.N() == cc.V()
	}
	if op&1 != 0 {
		cond = !cond
	}
	return cond
}

// memOp executes a read-modify-write class operation (low nibble of the
// 0x00/0x60/0x70 columns) against a resolved effective address.
func (c *MC6809) memOp(nib uint8, addr uint16) {
	if nib == 0x0E { // JMP
		c.PC = addr
		return
	}

	v := c.fetch(addr)
	c.nvma()
	cc := c.CC
	var r uint8

	switch nib {
	case 0x0, 0x1: // NEG (0x1 is an undocumented alias)
		r, cc = Neg8(cc, v)
	case 0x2: // undocumented: NEG with carry clear, COM with carry set
		if cc.C() {
			r, cc = Com8(cc, v)
		} else {
			r, cc = Neg8(cc, v)
		}
	case 0x3: // COM
		r, cc = Com8(cc, v)
	case 0x4, 0x5: // LSR (0x5 is an undocumented alias)
		r, cc = Lsr8(cc, v)
	case 0x6: // ROR
		r, cc = Ror8(cc, v)
	case 0x7: // ASR
		r, cc = Asr8(cc, v)
	case 0x8: // ASL
		r, cc = Asl8(cc, v)
	case 0x9: // ROL
		r, cc = Rol8(cc, v)
	case 0xA, 0xB: // DEC (0xB is an undocumented alias)
		r, cc = Dec8(cc, v)
	case 0xC: // INC
		r, cc = Inc8(cc, v)
	case 0xD: // TST: flags only, no write-back
		c.CC = Tst8(cc, v)
		c.nvma()
		return
	case 0xF: // CLR
		r, cc = Clr8(cc)
	}

	c.CC = cc
	c.store(addr, r)
}

// accOp executes the inherent form of the memOp class on A (0x40 column) or
// B (0x50 column).
func (c *MC6809) accOp(op uint8) {
	reg := &c.A
	if op&0x10 != 0 {
		reg = &c.B
	}
	v := *reg
	cc := c.CC
	r := v

	switch op & 0x0F {
	case 0x0, 0x1:
		r, cc = Neg8(cc, v)
	case 0x2:
		if cc.C() {
			r, cc = Com8(cc, v)
		} else {
			r, cc = Neg8(cc, v)
		}
	case 0x3:
		r, cc = Com8(cc, v)
	case 0x4, 0x5:
		r, cc = Lsr8(cc, v)
	case 0x6:
		r, cc = Ror8(cc, v)
	case 0x7:
		r, cc = Asr8(cc, v)
	case 0x8:
		r, cc = Asl8(cc, v)
	case 0x9:
		r, cc = Rol8(cc, v)
	case 0xA, 0xB:
		r, cc = Dec8(cc, v)
	case 0xC:
		r, cc = Inc8(cc, v)
	case 0xD: // TST
		cc = Tst8(cc, v)
	case 0xE: // undocumented CLR that preserves the carry
		r, cc = Clr8KeepC(cc)
	case 0xF: // CLR
		r, cc = Clr8(cc)
	}

	*reg = r
	c.CC = cc
	c.nvma()
}

// alu8 executes an 8-bit ALU op on A (0x80 column) or B (0xC0 column), with
// the operand resolved by addressing mode.
func (c *MC6809) alu8(op uint8) {
	reg := &c.A
	if op&0x40 != 0 {
		reg = &c.B
	}
	v := c.operand8(op)
	cc := c.CC

	switch op & 0x0F {
	case 0x0: // SUB
		*reg, cc = Sub8(cc, *reg, v, 0)
	case 0x1: // CMP
		cc = Cmp8(cc, *reg, v)
	case 0x2: // SBC
		*reg, cc = Sub8(cc, *reg, v, carryIn(cc))
	case 0x4: // AND
		*reg, cc = And8(cc, *reg, v)
	case 0x5: // BIT
		_, cc = And8(cc, *reg, v)
	case 0x6: // LD
		*reg = v
		cc = Ld8(cc, v)
	case 0x8: // EOR
		*reg, cc = Eor8(cc, *reg, v)
	case 0x9: // ADC
		*reg, cc = Add8(cc, *reg, v, carryIn(cc))
	case 0xA: // OR
		*reg, cc = Or8(cc, *reg, v)
	case 0xB: // ADD
		*reg, cc = Add8(cc, *reg, v, 0)
	}

	c.CC = cc
}

func carryIn(cc CC) uint8 {
	if cc.C() {
		return 1
	}
	return 0
}

// eaByMode resolves the effective address for the direct (0x1), indexed
// (0x2) or extended (0x3) column of an ALU-class opcode.
func (c *MC6809) eaByMode(op uint8) uint16 {
	switch (op >> 4) & 3 {
	case 1:
		return c.eaDirect()
	case 2:
		return c.eaIndexed()
	default:
		return c.eaExtended()
	}
}

func (c *MC6809) operand8(op uint8) uint8 {
	if (op>>4)&3 == 0 {
		return c.fetchPC()
	}
	return c.fetch(c.eaByMode(op))
}

func (c *MC6809) operand16(op uint8) uint16 {
	if (op>>4)&3 == 0 {
		return c.fetchPC16()
	}
	return c.read16(c.eaByMode(op))
}

func (c *MC6809) st16(op uint8, v uint16) {
	addr := c.eaByMode(op)
	c.store16(addr, v)
	c.CC = Ld16(c.CC, v)
}

// psh implements PSHS/PSHU: registers named by the postbyte are pushed from
// PC down to CC. other is the "other" stack pointer (U for PSHS, S for PSHU).
func (c *MC6809) psh(sp *uint16, other uint16, post uint8) {
	c.nvma()
	c.nvma()
	c.nvma()
	if post&0x80 != 0 {
		c.push16(sp, c.PC)
	}
	if post&0x40 != 0 {
		c.push16(sp, other)
	}
	if post&0x20 != 0 {
		c.push16(sp, c.Y)
	}
	if post&0x10 != 0 {
		c.push16(sp, c.X)
	}
	if post&0x08 != 0 {
		c.push8(sp, c.DP)
	}
	if post&0x04 != 0 {
		c.push8(sp, c.B)
	}
	if post&0x02 != 0 {
		c.push8(sp, c.A)
	}
	if post&0x01 != 0 {
		c.push8(sp, uint8(c.CC))
	}
}

// pul implements PULS/PULU, the reverse order of psh.
func (c *MC6809) pul(sp *uint16, other *uint16, post uint8) {
	c.nvma()
	c.nvma()
	if post&0x01 != 0 {
		c.CC = CC(c.pull8(sp))
	}
	if post&0x02 != 0 {
		c.A = c.pull8(sp)
	}
	if post&0x04 != 0 {
		c.B = c.pull8(sp)
	}
	if post&0x08 != 0 {
		c.DP = c.pull8(sp)
	}
	if post&0x10 != 0 {
		c.X = c.pull16(sp)
	}
	if post&0x20 != 0 {
		c.Y = c.pull16(sp)
	}
	if post&0x40 != 0 {
		*other = c.pull16(sp)
	}
	if post&0x80 != 0 {
		c.PC = c.pull16(sp)
	}
	c.nvma()
}

func (c *MC6809) rti() {
	c.nvma()
	c.CC = CC(c.pull8(&c.S))
	if c.CC.E() {
		c.A = c.pull8(&c.S)
		c.B = c.pull8(&c.S)
		if c.Model == Model6309 && c.MD&mdNM != 0 {
			c.E = c.pull8(&c.S)
			c.F = c.pull8(&c.S)
		}
		c.DP = c.pull8(&c.S)
		c.X = c.pull16(&c.S)
		c.Y = c.pull16(&c.S)
		c.U = c.pull16(&c.S)
	}
	c.PC = c.pull16(&c.S)
	c.nvma()
}

// swi is the common software-interrupt sequence: stack everything, then take
// the vector. Only plain SWI masks FIRQ and IRQ.
func (c *MC6809) swi(vec uint16, mask bool) {
	c.nvma()
	c.nvma()
	c.nvma()
	c.stackAll()
	if mask {
		c.CC = c.CC.SetF(true).SetI(true)
	}
	c.PC = c.fetchVector(vec)
}

// trapIllegal takes the 6309 illegal-instruction trap and reports true, or
// reports false on a 6809 which has no such trap.
func (c *MC6809) trapIllegal() bool {
	if c.Model != Model6309 {
		return false
	}
	c.MD = (c.MD &^ mdZD) | mdIL
	c.swi(TrapVector, true)
	c.endInstruction()
	return true
}

// sexw sign-extends W into D (6309).
func (c *MC6809) sexw() {
	if c.E&0x80 != 0 {
		c.SetD(0xFFFF)
	} else {
		c.SetD(0)
	}
	c.CC = c.CC.set(ccN, c.E&0x80 != 0).set(ccZ, c.D() == 0 && c.W() == 0)
	c.nvma()
	c.nvma()
	c.nvma()
}

// imOp executes the 6309 in-memory immediate logic ops OIM/AIM/EIM/TIM. The
// immediate byte precedes the address operand.
func (c *MC6809) imOp(op uint8) {
	imm := c.fetchPC()
	var addr uint16
	switch op >> 4 {
	case 0x0:
		addr = c.eaDirect()
	case 0x6:
		addr = c.eaIndexed()
	default:
		addr = c.eaExtended()
	}

	v := c.fetch(addr)
	cc := c.CC
	var r uint8

	switch op & 0x0F {
	case 0x1: // OIM
		r, cc = Or8(cc, v, imm)
	case 0x2: // AIM
		r, cc = And8(cc, v, imm)
	case 0x5: // EIM
		r, cc = Eor8(cc, v, imm)
	case 0xB: // TIM: flags only
		_, cc = And8(cc, v, imm)
		c.CC = cc
		c.nvma()
		return
	}

	c.CC = cc
	c.store(addr, r)
}
