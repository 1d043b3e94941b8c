package hw

/*
Effective-address resolution. Each resolver consumes the documented number of
bus cycles for its mode, dead cycles included, so instruction timing falls
out of the access sequence rather than a cycle table.
*/

func (c *MC6809) eaDirect() uint16 {
	lo := c.fetchPC()
	c.nvma()
	return uint16(c.DP)<<8 | uint16(lo)
}

func (c *MC6809) eaExtended() uint16 {
	ea := c.fetchPC16()
	c.nvma()
	return ea
}

func (c *MC6809) idxBase(post uint8) *uint16 {
	switch (post >> 5) & 3 {
	case 0:
		return &c.X
	case 1:
		return &c.Y
	case 2:
		return &c.U
	default:
		return &c.S
	}
}

func sext8(v uint8) uint16 {
	return uint16(int16(int8(v)))
}

// eaIndexed decodes an indexed-mode postbyte. With bit 7 clear the low five
// bits are a signed offset from the base register. Otherwise the low nibble
// selects the mode, and bit 4 requests one further indirection where the
// mode allows it.
func (c *MC6809) eaIndexed() uint16 {
	post := c.fetchPC()
	base := c.idxBase(post)

	if post&0x80 == 0 {
		off := uint16(post & 0x1F)
		if off&0x10 != 0 {
			off |= 0xFFE0
		}
		c.nvma()
		c.nvma()
		return *base + off
	}

	indirect := post&0x10 != 0
	var ea uint16

	switch post & 0x0F {
	case 0x00: // ,R+
		ea = *base
		*base += 1
		c.nvma()
		c.nvma()
		c.nvma()
		indirect = false
	case 0x01: // ,R++
		ea = *base
		*base += 2
		c.nvma()
		c.nvma()
		c.nvma()
		c.nvma()
	case 0x02: // ,-R
		*base -= 1
		ea = *base
		c.nvma()
		c.nvma()
		c.nvma()
		indirect = false
	case 0x03: // ,--R
		*base -= 2
		ea = *base
		c.nvma()
		c.nvma()
		c.nvma()
		c.nvma()
	case 0x04: // ,R
		ea = *base
		c.nvma()
	case 0x05: // B,R
		ea = *base + sext8(c.B)
		c.nvma()
		c.nvma()
	case 0x06: // A,R
		ea = *base + sext8(c.A)
		c.nvma()
		c.nvma()
	case 0x07: // E,R on the 6309; reserved on the 6809
		if c.Model == Model6309 {
			ea = *base + sext8(c.E)
		} else {
			ea = *base
		}
		c.nvma()
		c.nvma()
	case 0x08: // n8,R
		ea = *base + sext8(c.fetchPC())
		c.nvma()
	case 0x09: // n16,R
		ea = *base + c.fetchPC16()
		c.nvma()
		c.nvma()
		c.nvma()
	case 0x0A: // F,R on the 6309; reserved on the 6809
		if c.Model == Model6309 {
			ea = *base + sext8(c.F)
		} else {
			ea = *base
		}
		c.nvma()
		c.nvma()
	case 0x0B: // D,R
		ea = *base + c.D()
		c.nvma()
		c.nvma()
		c.nvma()
		c.nvma()
		c.nvma()
	case 0x0C: // n8,PCR: offset is relative to PC after the operand fetch
		off := sext8(c.fetchPC())
		c.nvma()
		ea = c.PC + off
	case 0x0D: // n16,PCR
		off := c.fetchPC16()
		c.nvma()
		c.nvma()
		c.nvma()
		c.nvma()
		ea = c.PC + off
	case 0x0E: // W,R on the 6309; reserved on the 6809
		if c.Model == Model6309 {
			ea = *base + c.W()
		} else {
			ea = *base
		}
		c.nvma()
		c.nvma()
	case 0x0F: // [n16]: a 16-bit address fetched verbatim, base ignored
		ea = c.fetchPC16()
		c.nvma()
	}

	if indirect {
		ea = c.read16(ea)
		c.nvma()
	}
	return ea
}
