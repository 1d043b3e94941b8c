package hwio

import "tano/emu/log"

// mem is the main structure used for linear memory access.
//
// We use this structure by pointer rather than by value because it is stored
// as a BankIO8 interface within Table, and checking if a concrete pointer
// type is behind the interface is faster than checking a non-pointer type.
type mem struct {
	buf  []byte
	mask uint16
	wcb  func(uint16, uint8)
	ro   MemFlags
}

func newMem(buf []byte, wcb func(uint16, uint8), flags MemFlags) *mem {
	if len(buf)&(len(buf)-1) != 0 {
		panic("memory buffer size is not pow2")
	}
	return &mem{
		buf:  buf,
		mask: uint16(len(buf) - 1),
		wcb:  wcb,
		ro:   flags,
	}
}

func (m *mem) FetchPointer(addr uint16) []uint8 {
	return m.buf[addr&m.mask:]
}

func (m *mem) Read8(addr uint16) uint8 {
	return m.buf[addr&m.mask]
}

func (m *mem) Peek8(addr uint16) uint8 {
	return m.buf[addr&m.mask]
}

// Write8CheckRO performs the write and reports whether it was legal. A
// read-only bank with MemFlagNoROLog reports success without writing.
func (m *mem) Write8CheckRO(addr uint16, val uint8) bool {
	if m.ro&MemFlag8ReadOnly == 0 {
		m.buf[addr&m.mask] = val
		if m.wcb != nil {
			m.wcb(addr, val)
		}
		return true
	}
	return m.ro&MemFlagNoROLog != 0
}

func (m *mem) Write8(addr uint16, val uint8) {
	if !m.Write8CheckRO(addr, val) {
		log.ModHwIo.ErrorZ("Write8 to readonly memory").
			Hex8("val", val).
			Hex16("addr", addr).
			End()
	}
}

type MemFlags int

const (
	MemFlagReadWrite MemFlags = 0
	MemFlag8ReadOnly MemFlags = 1 << iota // reject writes
	MemFlagNoROLog                        // rejected writes are silent
)

// Mem is a linear memory area that can be mapped into a Table. VSize may be
// bigger than the physical buffer, in which case the buffer is mirrored
// across the virtual range (the 16K Dragon models mirror their RAM this
// way).
type Mem struct {
	Name    string
	Data    []byte
	VSize   int
	Flags   MemFlags
	WriteCb func(uint16, uint8) // optional, invoked after a successful write
}

func (m *Mem) bankIO8() BankIO8 {
	return newMem(m.Data, m.WriteCb, m.Flags)
}
