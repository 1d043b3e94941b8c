package hw

import (
	"tano/emu/log"
)

// Locations reserved for vector pointers.
const (
	TrapVector  = uint16(0xFFF0) // 6309 illegal instruction / division by zero
	SWI3Vector  = uint16(0xFFF2)
	SWI2Vector  = uint16(0xFFF4)
	FIRQVector  = uint16(0xFFF6) // Fast Interrupt Request
	IRQVector   = uint16(0xFFF8) // Interrupt Request
	SWIVector   = uint16(0xFFFA)
	NMIVector   = uint16(0xFFFC) // Non-Maskable Interrupt
	ResetVector = uint16(0xFFFE)
)

// BusCycler is the delegate through which the CPU touches everything outside
// itself. MemCycle is invoked once per bus cycle and must:
//   - advance the global tick counter by ncycles and drain due events;
//   - on a read, place the fetched byte in the CPU Data register before
//     returning; on a write, commit the Data register to memory;
//   - recompute the IRQ and FIRQ input lines for the next sampling;
//   - clear the CPU Running flag when the host wants Run to return.
//
// Dead internal cycles are issued as reads of 0xFFFF.
type BusCycler interface {
	MemCycle(ncycles uint32, read bool, addr uint16)
}

// Model selects the CPU variant.
type Model int

const (
	Model6809 Model = iota
	Model6309
)

func (m Model) String() string {
	if m == Model6309 {
		return "6309"
	}
	return "6809"
}

// Regs is the 6809 register file. A and B are the two halves of the D
// accumulator, which is never stored separately.
type Regs struct {
	CC         CC
	A, B       uint8
	DP         uint8
	X, Y, U, S uint16
	PC         uint16
}

// D returns the A:B accumulator pair as one 16-bit value.
func (r *Regs) D() uint16 { return uint16(r.A)<<8 | uint16(r.B) }

func (r *Regs) SetD(v uint16) {
	r.A = uint8(v >> 8)
	r.B = uint8(v)
}

// XRegs is the register file extension of the 6309: the E:F accumulator pair
// (jointly W), the V inter-register and the mode register MD. Present on
// every CPU value, meaningful only when Model is Model6309.
type XRegs struct {
	E, F uint8
	V    uint16
	MD   uint8
}

// W returns the E:F accumulator pair as one 16-bit value.
func (r *XRegs) W() uint16 { return uint16(r.E)<<8 | uint16(r.F) }

func (r *XRegs) SetW(v uint16) {
	r.E = uint8(v >> 8)
	r.F = uint8(v)
}

// MD register bits.
const (
	mdNM uint8 = 1 << 0 // native mode: W is part of the stacked state
	mdFM uint8 = 1 << 1 // FIRQ stacks the entire state, like IRQ
	mdIL uint8 = 1 << 6 // last trap was an illegal instruction
	mdZD uint8 = 1 << 7 // last trap was a division by zero
)

type MC6809 struct {
	Model Model
	Regs
	XRegs

	// Bus owns the clock; the core never advances time itself.
	Bus BusCycler

	// Data is the shared bus data register. The delegate fills it before
	// returning from a read cycle and commits it during a write cycle.
	Data uint8

	// Running makes Run return when cleared. Only the bus delegate (or the
	// host between calls) should clear it.
	Running bool

	// Input lines, owned by the host.
	Halt bool
	NMI  bool
	FIRQ bool
	IRQ  bool

	// Debug hook points. Never nil: no-op defaults are installed at
	// construction. InstructionHook runs immediately before each opcode
	// fetch, InstructionPosthook after an instruction (or CWAI/SWI entry,
	// or a SYNC wake) completes and the interrupt latches have been copied.
	InstructionHook     func(*MC6809)
	InstructionPosthook func(*MC6809)

	state State

	// Lines are sampled into the latches during every bus cycle, and the
	// latches are copied to the active bits once per instruction boundary.
	// Dispatch only ever looks at the active bits, so a line asserted
	// partway through an instruction cannot interrupt that instruction.
	nmiLatch, firqLatch, irqLatch    bool
	nmiActive, firqActive, irqActive bool

	// NMI is ignored until the S stack pointer has been loaded once.
	nmiArmed bool
	nmiPrev  bool
}

// NewMC6809 creates a CPU in the reset state. The bus delegate must be in
// place before the first call to Run.
func NewMC6809(model Model, bus BusCycler) *MC6809 {
	return &MC6809{
		Model:               model,
		Bus:                 bus,
		state:               StateReset,
		InstructionHook:     func(*MC6809) {},
		InstructionPosthook: func(*MC6809) {},
	}
}

// Reset forces the reset state, as if the hardware line had been pulled. It
// is the only way out of HCF.
func (c *MC6809) Reset() {
	c.state = StateReset
}

// State returns the current run-loop state.
func (c *MC6809) State() State { return c.state }

// GetPC and SetPC let a debug layer inspect and redirect execution without
// otherwise perturbing CPU state. SetPC forces the next-instruction state so
// that execution resumes cleanly at the new address.
func (c *MC6809) GetPC() uint16 { return c.PC }

func (c *MC6809) SetPC(v uint16) {
	c.PC = v
	c.state = StateNextInstruction
}

// Run executes bus cycles until the delegate clears Running. There is no
// internal suspension point: within one call, bus cycles and event dispatch
// happen in strict program order.
func (c *MC6809) Run() {
	c.Running = true
	for c.Running {
		c.step()
	}
}

func (c *MC6809) step() {
	switch c.state {
	case StateReset:
		c.DP = 0
		c.CC = c.CC.SetF(true).SetI(true)
		c.MD = 0
		c.nmiLatch, c.firqLatch, c.irqLatch = false, false, false
		c.nmiActive, c.firqActive, c.irqActive = false, false, false
		c.nmiArmed = false
		c.nmiPrev = false
		c.state = StateResetCheckHalt

	case StateResetCheckHalt:
		if c.Halt {
			c.nvma()
			return
		}
		c.PC = c.fetchVector(ResetVector)
		c.state = StateLabelA

	case StateLabelA:
		if c.Halt {
			c.nvma()
			return
		}
		c.state = StateLabelB

	case StateLabelB:
		switch {
		case c.Halt:
			c.nvma()
		case c.nmiArmed && c.nmiActive:
			c.nvma()
			c.nvma()
			c.stackAll()
			c.state = StateDispatchIRQ
		case c.firqActive && !c.CC.F():
			c.nvma()
			c.nvma()
			c.stackFIRQ()
			c.state = StateDispatchIRQ
		case c.irqActive && !c.CC.I():
			c.nvma()
			c.nvma()
			c.stackAll()
			c.state = StateDispatchIRQ
		default:
			c.state = StateNextInstruction
		}

	case StateDispatchIRQ:
		// Priority: NMI over FIRQ over IRQ. The mask bits are applied here,
		// after the pre-interrupt CC has been stacked: the active bits cannot
		// change between the stacking states and this one, so the same arm
		// that stacked the frame picks the vector.
		switch {
		case c.nmiArmed && c.nmiActive:
			c.nmiLatch, c.nmiActive = false, false
			c.CC = c.CC.SetF(true).SetI(true)
			c.PC = c.fetchVector(NMIVector)
			c.state = StateLabelA
		case c.firqActive && !c.CC.F():
			c.firqActive = false
			c.CC = c.CC.SetF(true).SetI(true)
			c.PC = c.fetchVector(FIRQVector)
			c.state = StateLabelA
		case c.irqActive && !c.CC.I():
			c.irqActive = false
			c.CC = c.CC.SetI(true)
			c.PC = c.fetchVector(IRQVector)
			c.state = StateLabelA
		default:
			c.nvma()
		}

	case StateCWAICheckHalt:
		// The active bits follow the latches on every wait iteration.
		c.latchToActive()
		switch {
		case c.Halt:
			c.nvma()
		case (c.nmiArmed && c.nmiActive) || (c.firqActive && !c.CC.F()) || (c.irqActive && !c.CC.I()):
			c.state = StateDispatchIRQ
		default:
			c.nvma()
		}

	case StateSync:
		if c.nmiLatch || c.firqLatch || c.irqLatch {
			c.latchToActive()
			// SYNC completes when a line wakes it, so the posthook runs
			// here rather than at entry.
			c.InstructionPosthook(c)
			c.state = StateLabelB
			return
		}
		if c.Halt {
			c.state = StateSyncCheckHalt
			return
		}
		c.nvma()

	case StateSyncCheckHalt:
		if c.Halt {
			c.nvma()
			return
		}
		c.state = StateSync

	case StateNextInstruction:
		c.InstructionHook(c)
		op := c.fetchPC()
		switch op {
		case 0x10:
			c.state = StatePage2
		case 0x11:
			c.state = StatePage3
		default:
			c.execute(uint16(op))
		}

	case StatePage2:
		op := c.fetchPC()
		switch op {
		case 0x10: // repeated prefix
		case 0x11:
			c.state = StatePage3
		default:
			c.execute(0x0200 | uint16(op))
		}

	case StatePage3:
		op := c.fetchPC()
		switch op {
		case 0x10:
			c.state = StatePage2
		case 0x11: // repeated prefix
		default:
			c.execute(0x0300 | uint16(op))
		}

	case StateHCF:
		c.nvma()
	}
}

// endInstruction is the per-instruction boundary: the interrupt latches
// become the active bits, the posthook runs, and control goes back to the
// halt/interrupt checks.
func (c *MC6809) endInstruction() {
	c.latchToActive()
	c.InstructionPosthook(c)
	c.state = StateLabelA
}

func (c *MC6809) latchToActive() {
	c.nmiActive = c.nmiLatch
	c.firqActive = c.firqLatch
	c.irqActive = c.irqLatch
}

// latchInterrupts samples the input lines. NMI is edge-triggered and sticky
// until dispatched; FIRQ and IRQ are level-sensitive.
func (c *MC6809) latchInterrupts() {
	if c.nmiArmed && c.NMI && !c.nmiPrev {
		c.nmiLatch = true
	}
	c.nmiPrev = c.NMI
	c.firqLatch = c.FIRQ
	c.irqLatch = c.IRQ
}

func (c *MC6809) hcf(op uint16) {
	log.ModCPU.WarnZ("halt and catch fire").
		Hex16("PC", c.PC).
		Hex16("opcode", op).
		End()
	c.state = StateHCF
}

/* bus cycles */

func (c *MC6809) cycle(read bool, addr uint16) {
	c.Bus.MemCycle(1, read, addr)
	c.latchInterrupts()
}

func (c *MC6809) fetch(addr uint16) uint8 {
	c.cycle(true, addr)
	return c.Data
}

func (c *MC6809) store(addr uint16, v uint8) {
	c.Data = v
	c.cycle(false, addr)
}

// nvma consumes one dead bus cycle (no valid memory address).
func (c *MC6809) nvma() {
	c.cycle(true, 0xFFFF)
}

func (c *MC6809) fetchPC() uint8 {
	v := c.fetch(c.PC)
	c.PC++
	return v
}

func (c *MC6809) fetchPC16() uint16 {
	hi := c.fetchPC()
	lo := c.fetchPC()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *MC6809) read16(addr uint16) uint16 {
	hi := c.fetch(addr)
	lo := c.fetch(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *MC6809) store16(addr uint16, v uint16) {
	c.store(addr, uint8(v>>8))
	c.store(addr+1, uint8(v))
}

func (c *MC6809) fetchVector(vec uint16) uint16 {
	v := c.read16(vec)
	c.nvma()
	return v
}

/* stack operations */

func (c *MC6809) push8(sp *uint16, v uint8) {
	*sp--
	c.store(*sp, v)
}

func (c *MC6809) push16(sp *uint16, v uint16) {
	c.push8(sp, uint8(v))
	c.push8(sp, uint8(v>>8))
}

func (c *MC6809) pull8(sp *uint16) uint8 {
	v := c.fetch(*sp)
	*sp++
	return v
}

func (c *MC6809) pull16(sp *uint16) uint16 {
	hi := c.pull8(sp)
	lo := c.pull8(sp)
	return uint16(hi)<<8 | uint16(lo)
}

// stackAll pushes the entire register state onto S with E set, as for NMI,
// IRQ, SWI and CWAI. In 6309 native mode W goes with it.
func (c *MC6809) stackAll() {
	c.CC = c.CC.SetE(true)
	c.push16(&c.S, c.PC)
	c.push16(&c.S, c.U)
	c.push16(&c.S, c.Y)
	c.push16(&c.S, c.X)
	c.push8(&c.S, c.DP)
	if c.Model == Model6309 && c.MD&mdNM != 0 {
		c.push8(&c.S, c.F)
		c.push8(&c.S, c.E)
	}
	c.push8(&c.S, c.B)
	c.push8(&c.S, c.A)
	c.push8(&c.S, uint8(c.CC))
}

// stackFIRQ pushes PC and CC only, with E clear. A 6309 with the FM mode bit
// set stacks the entire state instead.
func (c *MC6809) stackFIRQ() {
	if c.Model == Model6309 && c.MD&mdFM != 0 {
		c.stackAll()
		return
	}
	c.CC = c.CC.SetE(false)
	c.push16(&c.S, c.PC)
	c.push8(&c.S, uint8(c.CC))
}

// setS loads the S stack pointer. The first load is what arms NMI.
func (c *MC6809) setS(v uint16) {
	c.S = v
	c.nmiArmed = true
}

/* inter-register transfers */

// readReg reads the register selected by a TFR/EXG postbyte nibble. Invalid
// codes read as 0xFFFF, and 8-bit registers carry 0xFF in the high byte, as
// measured on real parts.
func (c *MC6809) readReg(code uint8) uint16 {
	switch code {
	case 0x0:
		return c.D()
	case 0x1:
		return c.X
	case 0x2:
		return c.Y
	case 0x3:
		return c.U
	case 0x4:
		return c.S
	case 0x5:
		return c.PC
	case 0x6:
		if c.Model == Model6309 {
			return c.W()
		}
	case 0x7:
		if c.Model == Model6309 {
			return c.V
		}
	case 0x8:
		return 0xFF00 | uint16(c.A)
	case 0x9:
		return 0xFF00 | uint16(c.B)
	case 0xA:
		return 0xFF00 | uint16(uint8(c.CC))
	case 0xB:
		return 0xFF00 | uint16(c.DP)
	case 0xE:
		if c.Model == Model6309 {
			return 0xFF00 | uint16(c.E)
		}
	case 0xF:
		if c.Model == Model6309 {
			return 0xFF00 | uint16(c.F)
		}
	}
	return 0xFFFF
}

// writeReg writes to the register selected by a TFR/EXG postbyte nibble.
// 8-bit destinations take the low byte; invalid codes drop the value.
func (c *MC6809) writeReg(code uint8, v uint16) {
	switch code {
	case 0x0:
		c.SetD(v)
	case 0x1:
		c.X = v
	case 0x2:
		c.Y = v
	case 0x3:
		c.U = v
	case 0x4:
		c.setS(v)
	case 0x5:
		c.PC = v
	case 0x6:
		if c.Model == Model6309 {
			c.SetW(v)
		}
	case 0x7:
		if c.Model == Model6309 {
			c.V = v
		}
	case 0x8:
		c.A = uint8(v)
	case 0x9:
		c.B = uint8(v)
	case 0xA:
		c.CC = CC(v)
	case 0xB:
		c.DP = uint8(v)
	case 0xE:
		if c.Model == Model6309 {
			c.E = uint8(v)
		}
	case 0xF:
		if c.Model == Model6309 {
			c.F = uint8(v)
		}
	}
}
