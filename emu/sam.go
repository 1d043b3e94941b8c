package emu

import "tano/hw/hwio"

/*
sam models the MC6883 synchronous address multiplexer control interface. The
SAM has no readable registers: its 16-bit configuration is a row of
set/clear latch pairs at $FFC0-$FFDF, where writing any value to an even
address clears the corresponding bit and writing to an odd address sets it.
*/

type sam struct {
	bits uint16

	// Changed, when set, runs after every latch write so the machine can
	// react to map-type flips.
	Changed func()

	Ctl hwio.Device `hwio:"offset=0,size=0x20,wcb,writeonly"`
}

func newSAM() *sam {
	s := new(sam)
	hwio.MustInitRegs(s)
	return s
}

func (s *sam) Reset() { s.bits = 0 }

func (s *sam) WriteCTL(addr uint16, val uint8) {
	bit := uint(addr>>1) & 15
	if addr&1 != 0 {
		hwio.SetBit16(&s.bits, bit)
	} else {
		hwio.ClearBit16(&s.bits, bit)
	}
	if s.Changed != nil {
		s.Changed()
	}
}

// Register fields, per the 6883 datasheet bit layout.

func (s *sam) VDGMode() uint8        { return uint8(s.bits & 7) }
func (s *sam) DisplayOffset() uint16 { return (s.bits >> 3) & 0x7F }
func (s *sam) PageBit() bool         { return hwio.GetBit16(s.bits, 10) }
func (s *sam) MPURate() uint8        { return uint8(s.bits>>11) & 3 }
func (s *sam) MemorySize() uint8     { return uint8(s.bits>>13) & 3 }
func (s *sam) MapTypeRAM() bool      { return hwio.GetBit16(s.bits, 15) }
