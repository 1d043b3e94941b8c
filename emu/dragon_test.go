package emu

import (
	"testing"

	"tano/hw"
	"tano/rom"
)

// testROM builds a 16K BASIC ROM image with a tiny program: set up the
// stack, enable the field-sync interrupt on PIA0 side B, unmask IRQ and
// idle. The IRQ handler acknowledges the PIA and bumps a counter at $0010.
func testROM() *rom.Rom {
	img := make([]byte, 16*1024)
	code := []byte{
		0x10, 0xCE, 0x7F, 0xFF, // LDS   #$7FFF
		0x86, 0x05, //             LDA   #$05
		0xB7, 0xFF, 0x03, //       STA   $FF03
		0x1C, 0xEF, //             ANDCC #$EF
		0x20, 0xFE, //             BRA   *
	}
	handler := []byte{
		0xB6, 0xFF, 0x02, // LDA $FF02 (ack)
		0x7C, 0x00, 0x10, // INC $0010
		0x3B, // RTI
	}
	copy(img, code)
	copy(img[0x0100:], handler)

	// IRQ and reset vectors, mirrored into $FFF0-$FFFF by the machine.
	img[0x3FF8], img[0x3FF9] = 0x81, 0x00
	img[0x3FFE], img[0x3FFF] = 0x80, 0x00
	return &rom.Rom{Data: img}
}

func TestPowerUpAndReset(t *testing.T) {
	m, err := PowerUp(hw.Model6809, testROM(), nil)
	if err != nil {
		t.Fatal(err)
	}

	m.RunTicks(20)
	if pc := m.CPU.GetPC(); pc < 0x8000 {
		t.Errorf("PC = %04X, not executing from ROM", pc)
	}
	if m.Now() == 0 {
		t.Error("clock did not advance")
	}
}

func TestVectorsMirrorROMTop(t *testing.T) {
	m, err := PowerUp(hw.Model6809, testROM(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Bus.Read8(0xFFFE); got != 0x80 {
		t.Errorf("reset vector hi = %02X, want 80", got)
	}
	if got := m.Bus.Read8(0xFFFF); got != 0x00 {
		t.Errorf("reset vector lo = %02X, want 00", got)
	}
}

func TestRAMThroughBus(t *testing.T) {
	m, err := PowerUp(hw.Model6809, testROM(), nil)
	if err != nil {
		t.Fatal(err)
	}
	m.Bus.Write8(0x1234, 0xA5)
	if got := m.Bus.Read8(0x1234); got != 0xA5 {
		t.Errorf("read back %02X", got)
	}
	// The BASIC ROM is not writable.
	before := m.Bus.Read8(0x8000)
	m.Bus.Write8(0x8000, ^before)
	if got := m.Bus.Read8(0x8000); got != before {
		t.Errorf("ROM write stuck: %02X", got)
	}
}

func TestFieldInterrupt(t *testing.T) {
	m, err := PowerUp(hw.Model6809, testROM(), nil)
	if err != nil {
		t.Fatal(err)
	}

	// Three fields plus slack: the first field-sync edge pair completes at
	// one full field, so three interrupts should have landed.
	m.RunTicks(3*TicksPerField + 200)
	if got := m.Bus.Read8(0x0010); got != 3 {
		t.Errorf("counter = %d, want 3", got)
	}
}

func TestHsyncFlagWithoutInterrupt(t *testing.T) {
	m, err := PowerUp(hw.Model6809, testROM(), nil)
	if err != nil {
		t.Fatal(err)
	}

	// The ROM never enables the horizontal-sync interrupt, but the flag
	// still accumulates in PIA0's A-side control register.
	m.RunTicks(3 * TicksPerLine)
	if m.PIA0.A.cr&0x80 == 0 {
		t.Error("hsync flag never set")
	}
	if m.CPU.IRQ {
		t.Error("IRQ line asserted with the enable bit clear")
	}
}

func TestKeyboardMatrix(t *testing.T) {
	m, err := PowerUp(hw.Model6809, testROM(), nil)
	if err != nil {
		t.Fatal(err)
	}
	m.Keyboard.Press(2, 4)

	// Port B all outputs, driving every column except 2 high; port A reads
	// the row lines.
	m.Bus.Write8(0xFF02, 0xFF) // DDRB
	m.Bus.Write8(0xFF03, 0x04)
	m.Bus.Write8(0xFF02, 0xFB) // column 2 low
	m.Bus.Write8(0xFF01, 0x04)

	if got := m.Bus.Read8(0xFF00); got != 0xEF {
		t.Errorf("rows = %02X, want EF", got)
	}

	m.Keyboard.Release(2, 4)
	if got := m.Bus.Read8(0xFF00); got != 0xFF {
		t.Errorf("rows = %02X after release, want FF", got)
	}

	// With every column driven high the pressed key is invisible.
	m.Keyboard.Press(2, 4)
	m.Bus.Write8(0xFF02, 0xFF)
	if got := m.Bus.Read8(0xFF00); got != 0xFF {
		t.Errorf("rows = %02X with columns high, want FF", got)
	}
}

func TestSAMThroughBus(t *testing.T) {
	m, err := PowerUp(hw.Model6809, testROM(), nil)
	if err != nil {
		t.Fatal(err)
	}
	m.Bus.Write8(0xFFC1, 0) // set V0
	m.Bus.Write8(0xFFDF, 0) // set TY
	if m.SAM.VDGMode() != 1 {
		t.Errorf("vdg mode = %d", m.SAM.VDGMode())
	}
	if !m.SAM.MapTypeRAM() {
		t.Error("map type not set")
	}
	m.Bus.Write8(0xFFDE, 0) // clear TY
	if m.SAM.MapTypeRAM() {
		t.Error("map type not cleared")
	}
}

func TestCartridgeAutostart(t *testing.T) {
	cart := &rom.Rom{Data: make([]byte, 2*1024)}
	cart.Data[0], cart.Data[1] = 'D', 'K'
	m, err := PowerUp(hw.Model6809, testROM(), cart)
	if err != nil {
		t.Fatal(err)
	}

	// The cartridge line pulses into PIA1 CB1: after a full period the
	// interrupt flag is pending.
	m.RunTicks(TicksPerField + 100)
	if m.PIA1.B.cr&0x80 == 0 {
		t.Error("cartridge flag not set")
	}
	if got := m.Bus.Read8(0xC000); got != 'D' {
		t.Errorf("cart read = %02X", got)
	}

	// A plain data cartridge does not pulse the line.
	plain := &rom.Rom{Data: make([]byte, 2*1024)}
	m, err = PowerUp(hw.Model6809, testROM(), plain)
	if err != nil {
		t.Fatal(err)
	}
	m.RunTicks(TicksPerField + 100)
	if m.PIA1.B.cr&0x80 != 0 {
		t.Error("cartridge flag set without autostart")
	}
}

func TestRunTicksAdvancesClock(t *testing.T) {
	m, err := PowerUp(hw.Model6809, testROM(), nil)
	if err != nil {
		t.Fatal(err)
	}
	before := m.Now()
	consumed := m.RunTicks(1000)
	if consumed < 1000 {
		t.Errorf("consumed %d ticks, want at least 1000", consumed)
	}
	if int64(m.Now()-before) != consumed {
		t.Errorf("clock moved %d, consumed %d", m.Now()-before, consumed)
	}
}

func TestResetReturnsToROM(t *testing.T) {
	m, err := PowerUp(hw.Model6809, testROM(), nil)
	if err != nil {
		t.Fatal(err)
	}
	m.RunTicks(TicksPerField)
	m.Reset()
	m.RunTicks(20)
	if pc := m.CPU.GetPC(); pc < 0x8000 {
		t.Errorf("PC = %04X after reset", pc)
	}
	// Field interrupts keep coming after a reset.
	m.RunTicks(2 * TicksPerField)
	if got := m.Bus.Read8(0x0010); got == 0 {
		t.Error("no field interrupt after reset")
	}
}
