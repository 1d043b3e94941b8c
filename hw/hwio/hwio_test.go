package hwio_test

import (
	"testing"

	"tano/hw/hwio"
)

// open bus: unmapped reads float to a known value in tests
type openbus struct{}

func (ob *openbus) Read8(addr uint16) uint8       { return 0xD3 }
func (ob *openbus) Peek8(addr uint16) uint8       { return 0xD4 }
func (ob *openbus) Write8(addr uint16, val uint8) {}

type testBank struct {
	t   testing.TB
	Bus *hwio.Table

	// mapped at $0000-$3FFF, 16K buffer mirrored across 32K
	RAM hwio.Mem `hwio:"bank=0,offset=0x0,size=0x4000,vsize=0x8000"`

	// $FF00
	Reg0 hwio.Reg8 `hwio:"bank=1,offset=0x0,reset=0x77"`
	// $FF01: only the high nibble is writable
	Reg1 hwio.Reg8 `hwio:"bank=1,offset=0x1,rwmask=0xF0,rcb,reset=0x99"`
	// $FF02
	Reg2 hwio.Reg8 `hwio:"bank=1,offset=0x2,readonly,pcb=PeekReg2"`

	// $FF20-$FF3F
	Dev hwio.Device `hwio:"bank=2,offset=0x0,size=0x20,rcb,wcb"`

	devval uint8
}

func newTestBank(tb testing.TB) *testBank {
	bank := &testBank{t: tb}
	hwio.MustInitRegs(bank)

	bank.Bus = hwio.NewTable("test")
	bank.Bus.MapBank(0x0000, bank, 0)
	bank.Bus.MapBank(0xFF00, bank, 1)
	bank.Bus.MapBank(0xFF20, bank, 2)
	return bank
}

func (b *testBank) ReadREG1(val uint8) uint8 { return val + 1 }

func (b *testBank) PeekReg2(val uint8) uint8 { return 0x12 }

func (b *testBank) ReadDEV(addr uint16) uint8 { return b.devval }

func (b *testBank) WriteDEV(addr uint16, val uint8) { b.devval = val }

func TestMemMirroring(t *testing.T) {
	bank := newTestBank(t)

	bank.Bus.Write8(0x0123, 0xAB)
	for _, addr := range []uint16{0x0123, 0x4123} {
		if got := bank.Bus.Read8(addr); got != 0xAB {
			t.Errorf("Read8(%04X) = %02X, want AB", addr, got)
		}
	}
}

func TestRegReset(t *testing.T) {
	bank := newTestBank(t)
	if got := bank.Bus.Read8(0xFF00); got != 0x77 {
		t.Errorf("Reg0 reset = %02X, want 77", got)
	}
}

func TestRegReadCb(t *testing.T) {
	bank := newTestBank(t)
	if got := bank.Bus.Read8(0xFF01); got != 0x9A {
		t.Errorf("Reg1 read = %02X, want 9A", got)
	}
	// peek bypasses the read callback
	if got := bank.Bus.Peek8(0xFF01); got != 0x99 {
		t.Errorf("Reg1 peek = %02X, want 99", got)
	}
}

func TestRegRoMask(t *testing.T) {
	bank := newTestBank(t)
	bank.Bus.Write8(0xFF01, 0xFF)
	if got := bank.Reg1.Value; got != 0xF9 {
		t.Errorf("Reg1 after write = %02X, want F9", got)
	}
}

func TestRegReadOnly(t *testing.T) {
	bank := newTestBank(t)
	bank.Reg2.Value = 0x42
	bank.Bus.Write8(0xFF02, 0xFF)
	if got := bank.Reg2.Value; got != 0x42 {
		t.Errorf("Reg2 after rejected write = %02X, want 42", got)
	}
	if got := bank.Bus.Peek8(0xFF02); got != 0x12 {
		t.Errorf("Reg2 peek = %02X, want 12 from callback", got)
	}
}

func TestDeviceCallbacks(t *testing.T) {
	bank := newTestBank(t)
	bank.Bus.Write8(0xFF2A, 0x5C)
	if got := bank.Bus.Read8(0xFF3F); got != 0x5C {
		t.Errorf("device read = %02X, want 5C", got)
	}
}

func TestOpenBus(t *testing.T) {
	bank := newTestBank(t)
	if got := bank.Bus.Read8(0xC000); got != 0 {
		t.Errorf("unmapped read = %02X, want 0", got)
	}

	bank.Bus.Unmapped = &openbus{}
	if got := bank.Bus.Read8(0xC000); got != 0xD3 {
		t.Errorf("open-bus read = %02X, want D3", got)
	}
	if got := bank.Bus.Peek8(0xC000); got != 0xD4 {
		t.Errorf("open-bus peek = %02X, want D4", got)
	}
}

func TestUnmapBank(t *testing.T) {
	bank := newTestBank(t)
	bank.Bus.UnmapBank(0xFF00, bank, 1)
	if got := bank.Bus.Read8(0xFF00); got != 0 {
		t.Errorf("read after unmap = %02X, want 0", got)
	}
	// bank 2 is still there
	bank.Bus.Write8(0xFF20, 0x11)
	if got := bank.Bus.Read8(0xFF20); got != 0x11 {
		t.Errorf("device read after unrelated unmap = %02X, want 11", got)
	}
}

func TestReadWrite16(t *testing.T) {
	bank := newTestBank(t)
	hwio.Write16(bank.Bus, 0x0200, 0xBEEF)
	if got := bank.Bus.Read8(0x0200); got != 0xBE {
		t.Errorf("high byte = %02X, want BE", got)
	}
	if got := hwio.Read16(bank.Bus, 0x0200); got != 0xBEEF {
		t.Errorf("Read16 = %04X, want BEEF", got)
	}
}

func TestFetchPointer(t *testing.T) {
	bank := newTestBank(t)
	bank.Bus.Write8(0x0300, 0x99)
	p := bank.Bus.FetchPointer(0x0300)
	if p == nil || p[0] != 0x99 {
		t.Fatalf("FetchPointer did not alias RAM")
	}
	if p := bank.Bus.FetchPointer(0xFF00); p != nil {
		t.Errorf("FetchPointer on a register returned %v, want nil", p)
	}
}
