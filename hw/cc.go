package hw

// CC is the 6809 condition-code register.
//
// bit 7: E  entire register state stacked
// bit 6: F  FIRQ mask
// bit 5: H  half carry
// bit 4: I  IRQ mask
// bit 3: N  negative
// bit 2: Z  zero
// bit 1: V  signed overflow
// bit 0: C  carry
type CC uint8

const (
	ccC CC = 1 << iota
	ccV
	ccZ
	ccN
	ccI
	ccH
	ccF
	ccE
)

func (cc CC) E() bool { return cc&ccE != 0 }
func (cc CC) F() bool { return cc&ccF != 0 }
func (cc CC) H() bool { return cc&ccH != 0 }
func (cc CC) I() bool { return cc&ccI != 0 }
func (cc CC) N() bool { return cc&ccN != 0 }
func (cc CC) Z() bool { return cc&ccZ != 0 }
func (cc CC) V() bool { return cc&ccV != 0 }
func (cc CC) C() bool { return cc&ccC != 0 }

func (cc CC) set(bit CC, v bool) CC {
	if v {
		return cc | bit
	}
	return cc &^ bit
}

func (cc CC) SetE(v bool) CC { return cc.set(ccE, v) }
func (cc CC) SetF(v bool) CC { return cc.set(ccF, v) }
func (cc CC) SetH(v bool) CC { return cc.set(ccH, v) }
func (cc CC) SetI(v bool) CC { return cc.set(ccI, v) }
func (cc CC) SetN(v bool) CC { return cc.set(ccN, v) }
func (cc CC) SetZ(v bool) CC { return cc.set(ccZ, v) }
func (cc CC) SetV(v bool) CC { return cc.set(ccV, v) }
func (cc CC) SetC(v bool) CC { return cc.set(ccC, v) }

// checkNZ8 sets N and Z from an 8-bit result.
func (cc CC) checkNZ8(v uint8) CC {
	cc = cc.set(ccN, v&0x80 != 0)
	return cc.set(ccZ, v == 0)
}

// checkNZ16 sets N and Z from a 16-bit result.
func (cc CC) checkNZ16(v uint16) CC {
	cc = cc.set(ccN, v&0x8000 != 0)
	return cc.set(ccZ, v == 0)
}

func (cc CC) String() string {
	const bits = "efhinzvcEFHINZVC"

	s := make([]byte, 8)
	for i := 0; i < 8; i++ {
		ibit := (uint8(cc) & (1 << (7 - i))) >> (7 - i)
		s[i] = bits[i+int(8*ibit)]
	}
	return string(s)
}
