package hw

/*
ALU and flag helpers shared by every CPU of the 6809 family. All of them are
pure: they take operands plus the current condition codes and return the
result with the updated codes. Nothing here touches the bus or the clock.

Overflow on add/sub uses the usual trick: in a^b^r^(r>>1) computed over the
widened result, bit 7 (or 15) holds carry-in XOR carry-out of the top bit,
which is exactly the signed overflow.
*/

// Add8 computes a+b+c where c is 0 or 1. Sets H, N, Z, V, C.
func Add8(cc CC, a, b, c uint8) (uint8, CC) {
	r := uint16(a) + uint16(b) + uint16(c)
	cc = cc.set(ccH, (uint16(a)^uint16(b)^r)&0x10 != 0)
	cc = cc.set(ccV, (uint16(a)^uint16(b)^r^(r>>1))&0x80 != 0)
	cc = cc.set(ccC, r&0x100 != 0)
	return uint8(r), cc.checkNZ8(uint8(r))
}

// Sub8 computes a-b-c where c is 0 or 1. Sets N, Z, V, C; H is unaffected.
func Sub8(cc CC, a, b, c uint8) (uint8, CC) {
	r := uint16(a) - uint16(b) - uint16(c)
	cc = cc.set(ccV, (uint16(a)^uint16(b)^r^(r>>1))&0x80 != 0)
	cc = cc.set(ccC, r&0x100 != 0)
	return uint8(r), cc.checkNZ8(uint8(r))
}

// Cmp8 is Sub8 with the result discarded.
func Cmp8(cc CC, a, b uint8) CC {
	_, cc = Sub8(cc, a, b, 0)
	return cc
}

// Add16 sets N, Z, V, C from a 16-bit addition. H is unaffected.
func Add16(cc CC, a, b uint16) (uint16, CC) {
	r := uint32(a) + uint32(b)
	cc = cc.set(ccV, (uint32(a)^uint32(b)^r^(r>>1))&0x8000 != 0)
	cc = cc.set(ccC, r&0x10000 != 0)
	return uint16(r), cc.checkNZ16(uint16(r))
}

// Sub16 sets N, Z, V, C from a 16-bit subtraction. H is unaffected.
func Sub16(cc CC, a, b uint16) (uint16, CC) {
	r := uint32(a) - uint32(b)
	cc = cc.set(ccV, (uint32(a)^uint32(b)^r^(r>>1))&0x8000 != 0)
	cc = cc.set(ccC, r&0x10000 != 0)
	return uint16(r), cc.checkNZ16(uint16(r))
}

// Cmp16 is Sub16 with the result discarded.
func Cmp16(cc CC, a, b uint16) CC {
	_, cc = Sub16(cc, a, b)
	return cc
}

// And8, Or8 and Eor8 set N and Z and clear V.
func And8(cc CC, a, b uint8) (uint8, CC) {
	r := a & b
	return r, cc.set(ccV, false).checkNZ8(r)
}

func Or8(cc CC, a, b uint8) (uint8, CC) {
	r := a | b
	return r, cc.set(ccV, false).checkNZ8(r)
}

func Eor8(cc CC, a, b uint8) (uint8, CC) {
	r := a ^ b
	return r, cc.set(ccV, false).checkNZ8(r)
}

// Ld8 sets N and Z and clears V, for load/store style transfers.
func Ld8(cc CC, v uint8) CC {
	return cc.set(ccV, false).checkNZ8(v)
}

// Ld16 is the 16-bit counterpart of Ld8.
func Ld16(cc CC, v uint16) CC {
	return cc.set(ccV, false).checkNZ16(v)
}

// Lsr8 shifts right one bit, bit 0 into C. N is cleared.
func Lsr8(cc CC, a uint8) (uint8, CC) {
	cc = cc.set(ccC, a&1 != 0)
	r := a >> 1
	return r, cc.checkNZ8(r)
}

// Lsr8KeepC is the family variant of Lsr8 that leaves the carry untouched.
func Lsr8KeepC(cc CC, a uint8) (uint8, CC) {
	r := a >> 1
	return r, cc.checkNZ8(r)
}

// Ror8 rotates right through carry.
func Ror8(cc CC, a uint8) (uint8, CC) {
	r := a >> 1
	if cc.C() {
		r |= 0x80
	}
	cc = cc.set(ccC, a&1 != 0)
	return r, cc.checkNZ8(r)
}

// Asr8 shifts right arithmetically, preserving the sign bit, bit 0 into C.
func Asr8(cc CC, a uint8) (uint8, CC) {
	cc = cc.set(ccC, a&1 != 0)
	r := (a >> 1) | (a & 0x80)
	return r, cc.checkNZ8(r)
}

// Asl8 shifts left one bit, bit 7 into C. V is carry-in XOR carry-out of the
// top bit, same as an add of a to itself: the a^b term of the add formula
// cancels, leaving r^(r>>1).
func Asl8(cc CC, a uint8) (uint8, CC) {
	r := uint16(a) << 1
	cc = cc.set(ccV, (r^(r>>1))&0x80 != 0)
	cc = cc.set(ccC, r&0x100 != 0)
	return uint8(r), cc.checkNZ8(uint8(r))
}

// Rol8 rotates left through carry.
func Rol8(cc CC, a uint8) (uint8, CC) {
	r := uint16(a) << 1
	if cc.C() {
		r |= 1
	}
	cc = cc.set(ccV, (r^(r>>1))&0x80 != 0)
	cc = cc.set(ccC, r&0x100 != 0)
	return uint8(r), cc.checkNZ8(uint8(r))
}

// Inc8 increments. V is set only on the 0x7F to 0x80 transition; C unaffected.
func Inc8(cc CC, a uint8) (uint8, CC) {
	r := a + 1
	cc = cc.set(ccV, a == 0x7F)
	return r, cc.checkNZ8(r)
}

// Dec8 decrements. V is set only on the 0x80 to 0x7F transition; C unaffected.
func Dec8(cc CC, a uint8) (uint8, CC) {
	r := a - 1
	cc = cc.set(ccV, a == 0x80)
	return r, cc.checkNZ8(r)
}

// Dec8ClrC is the family variant of Dec8 that also clears the carry.
func Dec8ClrC(cc CC, a uint8) (uint8, CC) {
	r, cc := Dec8(cc, a)
	return r, cc.set(ccC, false)
}

// Neg8 is two's complement negation, expressed as 0-a.
func Neg8(cc CC, a uint8) (uint8, CC) {
	return Sub8(cc, 0, a, 0)
}

// Com8 is one's complement. C is always set, V always cleared.
func Com8(cc CC, a uint8) (uint8, CC) {
	r := ^a
	cc = cc.set(ccV, false).set(ccC, true)
	return r, cc.checkNZ8(r)
}

// Tst8 sets N and Z from the operand and clears V. C is unaffected.
func Tst8(cc CC, a uint8) CC {
	return cc.set(ccV, false).checkNZ8(a)
}

// Tst8ClrC is the family variant of Tst8 that also clears the carry.
func Tst8ClrC(cc CC, a uint8) CC {
	return Tst8(cc, a).set(ccC, false)
}

// Clr8 returns zero with N=0, Z=1, V=0, C=0.
func Clr8(cc CC) (uint8, CC) {
	return 0, cc.set(ccN, false).set(ccZ, true).set(ccV, false).set(ccC, false)
}

// Clr8KeepC is the carry-preserving clear: flags come out as for Clr8 except
// that the carry keeps its previous value.
func Clr8KeepC(cc CC) (uint8, CC) {
	return 0, cc.set(ccN, false).set(ccZ, true).set(ccV, false)
}

// Mul8 computes the unsigned 8x8 product. Z from the 16-bit result, C is a
// copy of bit 7 of the low byte (used for rounding).
func Mul8(cc CC, a, b uint8) (uint16, CC) {
	r := uint16(a) * uint16(b)
	cc = cc.set(ccZ, r == 0)
	return r, cc.set(ccC, r&0x80 != 0)
}

// Sex8 sign-extends b into a 16-bit value, with N and Z from the result.
func Sex8(cc CC, b uint8) (uint16, CC) {
	r := uint16(int16(int8(b)))
	return r, cc.checkNZ16(r)
}

// Daa adjusts the result of a BCD addition. The low nibble gets +6 when it is
// ten or more or when half-carry is set; the high nibble gets +6 when the
// byte is 0x90 or more with a low nibble of ten or more, when carry is set,
// or when the byte is 0xA0 or more. Carry is sticky: a set carry stays set.
func Daa(cc CC, a uint8) (uint8, CC) {
	var adjust uint8
	lo := a & 0x0F

	if lo >= 0x0A || cc.H() {
		adjust |= 0x06
	}
	if (a >= 0x90 && lo >= 0x0A) || a >= 0xA0 || cc.C() {
		adjust |= 0x60
	}

	r := uint16(a) + uint16(adjust)
	cc = cc.set(ccC, cc.C() || r&0x100 != 0)
	cc = cc.set(ccV, false)
	return uint8(r), cc.checkNZ8(uint8(r))
}
