package emu

import (
	"tano/emu/log"
	"tano/emu/sched"
	"tano/hw"
	"tano/hw/hwio"
	"tano/rom"
)

// Dragon bus timing. The CPU runs at 14.31818MHz/16 and the video timebase
// divides down from the same crystal.
const (
	CPUClock      = 894886 // Hz
	TicksPerLine  = 57     // horizontal sync period, ~15.7kHz
	TicksPerField = 17898  // vertical sync period, 50Hz
)

// Dragon is the whole machine: CPU, address decoding, both PIAs, the SAM
// and the sync interrupt sources. It is the CPU's bus delegate, so it owns
// the clock: every CPU bus cycle advances the tick counter and drains the
// event queue before the memory access happens.
type Dragon struct {
	CPU   *hw.MC6809
	Bus   *hwio.Table
	Sched *sched.List
	PIA0  *pia
	PIA1  *pia
	SAM   *sam

	Keyboard keyboard

	RAM hwio.Mem `hwio:"bank=0,offset=0x0,size=0x8000"`

	basic *rom.Rom
	cart  *rom.Rom

	now       sched.Tick
	remaining int64

	hsyncEv sched.Event
	fieldEv sched.Event
	cartEv  sched.Event
	hsyncHi bool
	fieldHi bool
	cartHi  bool
}

// PowerUp builds a Dragon 32 around the given BASIC ROM, with an optional
// cartridge. The machine comes up in the reset state; Run starts it.
func PowerUp(model hw.Model, basic, cart *rom.Rom) (*Dragon, error) {
	m := &Dragon{
		Sched: new(sched.List),
		PIA0:  newPIA("PIA0"),
		PIA1:  newPIA("PIA1"),
		SAM:   newSAM(),
		basic: basic,
		cart:  cart,
	}
	hwio.MustInitRegs(m)
	m.CPU = hw.NewMC6809(model, m)

	m.Bus = hwio.NewTable("dragon")
	m.Bus.MapBank(0x0000, m, 0)
	m.Bus.MapMemorySlice(0x8000, 0xBFFF, basic.Data, true)
	if cart != nil {
		// The cartridge window stops short of the I/O page.
		end := 0xC000 + len(cart.Data) - 1
		if end > 0xFEFF {
			end = 0xFEFF
		}
		m.Bus.MapMemorySlice(0xC000, uint16(end), cart.Data, true)
	}
	m.Bus.MapBank(0xFF00, m.PIA0, 0)
	m.Bus.MapBank(0xFF20, m.PIA1, 0)
	m.Bus.MapBank(0xFFC0, m.SAM, 0)
	// The interrupt vectors mirror the top of the BASIC ROM.
	m.Bus.MapMemorySlice(0xFFF0, 0xFFFF, basic.Data[len(basic.Data)-16:], true)

	m.PIA0.A.Input = func() uint8 { return m.Keyboard.rows(m.PIA0.B.pins()) }

	m.hsyncEv.Do = func() {
		m.hsyncHi = !m.hsyncHi
		m.PIA0.A.setCx1(m.hsyncHi)
		m.hsyncEv.Due += TicksPerLine / 2
		m.Sched.Enqueue(&m.hsyncEv)
	}
	m.fieldEv.Do = func() {
		m.fieldHi = !m.fieldHi
		m.PIA0.B.setCx1(m.fieldHi)
		m.fieldEv.Due += TicksPerField / 2
		m.Sched.Enqueue(&m.fieldEv)
	}
	m.cartEv.Do = func() {
		m.cartHi = !m.cartHi
		m.PIA1.B.setCx1(m.cartHi)
		m.cartEv.Due += TicksPerField / 2
		m.Sched.Enqueue(&m.cartEv)
	}

	m.SAM.Changed = m.samChanged

	m.Reset()
	log.ModEmu.InfoZ("machine powered up").
		String("model", model.String()).
		Bool("cartridge", cart != nil).
		End()
	return m, nil
}

// Reset pulls the hardware reset line: CPU back to the reset state,
// peripherals to their power-on defaults. RAM is preserved.
func (m *Dragon) Reset() {
	m.CPU.Reset()
	m.PIA0.Reset()
	m.PIA1.Reset()
	m.SAM.Reset()

	m.hsyncEv.Dequeue()
	m.fieldEv.Dequeue()
	m.cartEv.Dequeue()
	m.hsyncEv.Due = m.now + TicksPerLine/2
	m.fieldEv.Due = m.now + TicksPerField/2
	m.Sched.Enqueue(&m.hsyncEv)
	m.Sched.Enqueue(&m.fieldEv)

	if m.cart != nil && m.cart.Autostart() {
		// Autostart carts boot by pulsing the cartridge line, which the
		// Dragon wires into FIRQ through PIA1.
		m.cartEv.Due = m.now + TicksPerField/2
		m.Sched.Enqueue(&m.cartEv)
	}
}

// MemCycle implements hw.BusCycler: advance the clock, fire whatever came
// due, do the access, then resample the interrupt lines.
func (m *Dragon) MemCycle(ncycles uint32, read bool, addr uint16) {
	for i := uint32(0); i < ncycles; i++ {
		m.now++
		if m.Sched.Pending(m.now) {
			m.Sched.RunQueue(m.now)
		}
	}

	if read {
		m.CPU.Data = m.Bus.Read8(addr)
	} else {
		m.Bus.Write8(addr, m.CPU.Data)
	}

	m.CPU.IRQ = m.PIA0.IRQ()
	m.CPU.FIRQ = m.PIA1.IRQ()

	m.remaining -= int64(ncycles)
	if m.remaining <= 0 {
		m.CPU.Running = false
	}
}

// Now returns the current tick.
func (m *Dragon) Now() sched.Tick { return m.now }

// RunTicks runs the machine for (at least) n ticks and returns the number
// actually consumed; the last instruction may overshoot by a few.
func (m *Dragon) RunTicks(n int64) int64 {
	m.remaining = n
	m.CPU.Run()
	return n - m.remaining
}

// RunOneField runs the machine for one video field, the natural pacing unit
// for a host loop.
func (m *Dragon) RunOneField() {
	m.RunTicks(TicksPerField)
}

func (m *Dragon) samChanged() {
	// The map-type bit swaps the ROM area for RAM (the "all-RAM" mode used
	// by 64K machines). A stock Dragon 32 has nothing to map there, so the
	// flip only logs.
	log.ModEmu.DebugZ("sam latch change").
		Bool("allram", m.SAM.MapTypeRAM()).
		Int("mpurate", int64(m.SAM.MPURate())).
		End()
}

// keyboard is the Dragon key matrix: PIA0 port B drives the column lines
// low, pressed keys pull their row line low on port A.
type keyboard struct {
	matrix [8]uint8 // bit set = key down at (column, row)
}

func (k *keyboard) Press(col, row uint)   { hwio.SetBit8(&k.matrix[col&7], row) }
func (k *keyboard) Release(col, row uint) { hwio.ClearBit8(&k.matrix[col&7], row) }

func (k *keyboard) rows(cols uint8) uint8 {
	out := uint8(0x7F)
	for c := uint(0); c < 8; c++ {
		if !hwio.GetBit8(cols, c) {
			out &^= k.matrix[c]
		}
	}
	return out | 0x80
}
