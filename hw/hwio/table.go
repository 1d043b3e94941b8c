package hwio

import (
	"fmt"

	"tano/emu/log"
)

// log unmapped accesses. Verbose on a stock Dragon, where the BASIC ROM
// happily scans unpopulated address space during startup.
const logUnmapped = false

type BankIO8 interface {
	Read8(addr uint16) uint8
	// Peek8 is a side-effect-free read, for debugging and tracing.
	Peek8(addr uint16) uint8
	Write8(addr uint16, val uint8)
}

func Write16(b BankIO8, addr uint16, val uint16) {
	// 6809 order: high byte first.
	b.Write8(addr, uint8(val>>8))
	b.Write8(addr+1, uint8(val))
}

func Read16(b BankIO8, addr uint16) uint16 {
	hi := b.Read8(addr)
	lo := b.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// Table is an address-decoding table: a set of non-overlapping address
// ranges, each backed by a BankIO8 handler.
type Table struct {
	Name string

	// Unmapped, when set, handles accesses that hit no mapped range
	// (open-bus emulation). When nil, unmapped reads return 0.
	Unmapped BankIO8

	table8 rangeTable
}

func NewTable(name string) *Table {
	t := new(Table)
	t.Name = name
	t.Reset()
	return t
}

func (t *Table) Reset() {
	t.table8 = rangeTable{}
}

// MapBank maps a register bank (a structure containing multiple hwio-tagged
// fields) at the given base address. Registers must carry a "hwio" struct
// tag with the following fields:
//
//	offset=0x12     Byte-offset within the register bank at which this
//	                register is mapped. There is no default value: if this
//	                option is missing, the register is assumed not to be
//	                part of the bank, and is ignored by this call.
//
//	bank=NN         Ordinal bank number (if not specified, default to zero).
//	                This option allows for a structure to expose multiple
//	                banks, as regs can be grouped by bank by specifying the
//	                bank number.
func (t *Table) MapBank(addr uint16, bank any, bankNum int) {
	regs, err := bankGetRegs(bank, bankNum)
	if err != nil {
		panic(err)
	}

	for _, reg := range regs {
		switch r := reg.regPtr.(type) {
		case *Mem:
			t.MapMem(addr+reg.offset, r)
		case *Reg8:
			t.MapReg8(addr+reg.offset, r)
		case *Device:
			t.MapDevice(addr+reg.offset, r)
		default:
			panic(fmt.Errorf("invalid reg type: %T", r))
		}
	}
}

func (t *Table) UnmapBank(addr uint16, bank any, bankNum int) {
	regs, err := bankGetRegs(bank, bankNum)
	if err != nil {
		panic(err)
	}

	for _, reg := range regs {
		switch r := reg.regPtr.(type) {
		case *Mem:
			t.Unmap(addr+reg.offset, addr+reg.offset+uint16(r.VSize)-1)
		case *Reg8:
			t.Unmap(addr+reg.offset, addr+reg.offset)
		case *Device:
			t.Unmap(addr+reg.offset, addr+reg.offset+uint16(r.Size)-1)
		default:
			panic(fmt.Errorf("invalid reg type: %T", r))
		}
	}
}

func (t *Table) mapBus8(addr, size uint16, io BankIO8) {
	if err := t.table8.InsertRange(addr, addr+size-1, io); err != nil {
		panic(err)
	}
}

func (t *Table) MapReg8(addr uint16, io *Reg8) {
	t.mapBus8(addr, 1, io)
}

func (t *Table) MapDevice(addr uint16, io *Device) {
	t.mapBus8(addr, uint16(io.Size), io)
}

func (t *Table) MapMem(addr uint16, mem *Mem) {
	log.ModHwIo.DebugZ("mapping mem").
		Hex16("addr", addr).
		Hex16("size", uint16(mem.VSize)).
		String("area", mem.Name).
		String("bus", t.Name).
		End()

	if len(mem.Data)&(len(mem.Data)-1) != 0 {
		panic("memory buffer size is not pow2")
	}

	t.mapBus8(addr, uint16(mem.VSize), mem.bankIO8())
}

func (t *Table) MapMemorySlice(addr, end uint16, mem []uint8, readonly bool) {
	log.ModHwIo.DebugZ("mapping slice").
		Hex16("addr", addr).
		Hex16("end", end).
		String("bus", t.Name).
		Bool("ro", readonly).
		End()

	var flags MemFlags
	if readonly {
		flags |= MemFlag8ReadOnly
	}
	t.MapMem(addr, &Mem{
		Data:  mem,
		Flags: flags,
		VSize: int(end-addr) + 1,
	})
}

func (t *Table) Unmap(begin, end uint16) {
	t.table8.RemoveRange(begin, end)
}

// Read8 searches the table for the device mapped at the given address and
// forwards the read to it.
func (t *Table) Read8(addr uint16) uint8 {
	io := t.table8.Search(addr)
	if io == nil {
		if t.Unmapped != nil {
			return t.Unmapped.Read8(addr)
		}
		if logUnmapped {
			log.ModHwIo.ErrorZ("unmapped Read8").
				String("name", t.Name).
				Hex16("addr", addr).
				End()
		}
		return 0
	}
	return io.Read8(addr)
}

func (t *Table) Peek8(addr uint16) uint8 {
	io := t.table8.Search(addr)
	if io == nil {
		if t.Unmapped != nil {
			return t.Unmapped.Peek8(addr)
		}
		return 0
	}
	return io.Peek8(addr)
}

func (t *Table) Write8(addr uint16, val uint8) {
	io := t.table8.Search(addr)
	if io == nil {
		if t.Unmapped != nil {
			t.Unmapped.Write8(addr, val)
			return
		}
		if logUnmapped {
			log.ModHwIo.ErrorZ("unmapped Write8").
				String("name", t.Name).
				Hex16("addr", addr).
				Hex8("val", val).
				End()
		}
		return
	}
	if mem, ok := io.(*mem); ok {
		// NOTE: we use the CheckRO form so that the success codepath (that
		// is, when the memory is read-write) is fully inlined and requires
		// no function call.
		ok := mem.Write8CheckRO(addr, val)
		if !ok {
			log.ModHwIo.ErrorZ("Write8 to read-only address").
				String("name", t.Name).
				Hex16("addr", addr).
				Hex8("val", val).
				End()
		}
		return
	}
	io.Write8(addr, val)
}

// FetchPointer returns a slice aliasing the memory behind addr up to the end
// of its bank, or nil if addr is not backed by linear memory.
func (t *Table) FetchPointer(addr uint16) []uint8 {
	io := t.table8.Search(addr)
	if mem, ok := io.(*mem); ok {
		return mem.FetchPointer(addr)
	}
	return nil
}
