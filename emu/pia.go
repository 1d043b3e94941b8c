package emu

import (
	"tano/hw/hwio"
)

/*
pia models an MC6821 peripheral interface adapter, the chip pair the Dragon
uses for keyboard scanning, sync interrupts and the cartridge line.

Each side (A and B) exposes two bus addresses: the data/direction register
(control bit 2 selects which) and the control register. Control bit 7 is the
C*1 interrupt flag, set on the selected C*1 edge and cleared by reading the
data register; bit 0 gates it onto the chip's interrupt output.
*/

const (
	crIRQEnable = 0 // bit 0: C*1 interrupt enabled
	crEdgeSel   = 1 // bit 1: interrupt on rising (1) or falling (0) edge
	crDDRSel    = 2 // bit 2: data register (1) or direction register (0)
	crIRQFlag   = 7 // bit 7: C*1 interrupt flag
)

type piaSide struct {
	or   uint8 // output register
	ddr  uint8 // data direction register, 1 bits are outputs
	cr   uint8 // control register
	cx1  bool  // current C*1 line level

	// Input returns the level of the side's input pins. Unconnected pins
	// float high on the Dragon.
	Input func() uint8
}

func (s *piaSide) reset() {
	s.or, s.ddr, s.cr = 0, 0, 0
	s.cx1 = false
}

// pins merges the output register with the sampled inputs according to the
// direction register.
func (s *piaSide) pins() uint8 {
	in := uint8(0xFF)
	if s.Input != nil {
		in = s.Input()
	}
	return (s.or & s.ddr) | (in &^ s.ddr)
}

func (s *piaSide) readData() uint8 {
	if !hwio.GetBit8(s.cr, crDDRSel) {
		return s.ddr
	}
	// Reading the data register acknowledges the interrupt.
	hwio.ClearBit8(&s.cr, crIRQFlag)
	return s.pins()
}

func (s *piaSide) peekData() uint8 {
	if !hwio.GetBit8(s.cr, crDDRSel) {
		return s.ddr
	}
	return s.pins()
}

func (s *piaSide) writeData(val uint8) {
	if hwio.GetBit8(s.cr, crDDRSel) {
		s.or = val
	} else {
		s.ddr = val
	}
}

func (s *piaSide) writeControl(val uint8) {
	// The flag bits are read-only from the bus.
	s.cr = (s.cr & 0xC0) | (val & 0x3F)
}

// setCx1 drives the side's C*1 line. The interrupt flag is set on the edge
// selected by control bit 1.
func (s *piaSide) setCx1(level bool) {
	if level != s.cx1 {
		rising := hwio.GetBit8(s.cr, crEdgeSel)
		if level == rising {
			hwio.SetBit8(&s.cr, crIRQFlag)
		}
	}
	s.cx1 = level
}

func (s *piaSide) irq() bool {
	return hwio.GetBit8(s.cr, crIRQFlag) && hwio.GetBit8(s.cr, crIRQEnable)
}

type pia struct {
	Name string
	A, B piaSide

	Regs hwio.Device `hwio:"offset=0,size=0x20,rcb,wcb,pcb"`
}

func newPIA(name string) *pia {
	p := &pia{Name: name}
	hwio.MustInitRegs(p)
	return p
}

func (p *pia) Reset() {
	p.A.reset()
	p.B.reset()
}

// The four registers mirror across the whole mapped window, as on the
// Dragon where the PIA address decode is partial.

func (p *pia) ReadREGS(addr uint16) uint8 {
	switch addr & 3 {
	case 0:
		return p.A.readData()
	case 1:
		return p.A.cr
	case 2:
		return p.B.readData()
	default:
		return p.B.cr
	}
}

func (p *pia) PeekREGS(addr uint16) uint8 {
	switch addr & 3 {
	case 0:
		return p.A.peekData()
	case 1:
		return p.A.cr
	case 2:
		return p.B.peekData()
	default:
		return p.B.cr
	}
}

func (p *pia) WriteREGS(addr uint16, val uint8) {
	switch addr & 3 {
	case 0:
		p.A.writeData(val)
	case 1:
		p.A.writeControl(val)
	case 2:
		p.B.writeData(val)
	default:
		p.B.writeControl(val)
	}
}

// IRQ reports the chip interrupt output: the OR of both sides.
func (p *pia) IRQ() bool {
	return p.A.irq() || p.B.irq()
}
