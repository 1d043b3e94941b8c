package hw

import (
	"io"

	"github.com/go-faster/jx"
)

// cpuState is a snapshot of the register file taken at an instruction
// boundary, before the opcode fetch.
type cpuState struct {
	CC   CC
	A, B uint8
	DP   uint8
	X, Y uint16
	U, S uint16
	PC   uint16

	Tick uint32
}

// Tracer writes one line per executed instruction. With JSON set, each line
// is a JSON object instead of the fixed-width text row.
type Tracer struct {
	Mem   Peeker
	W     io.Writer
	JSON  bool
	Model Model

	// Ticks reports the current scheduler tick for the T column. Optional.
	Ticks func() uint32

	enc jx.Encoder
}

func hexEncode(dst []byte, v byte) {
	const hextable = "0123456789ABCDEF"
	dst[0] = hextable[v>>4]
	dst[1] = hextable[v&0x0f]
}

// Attach installs the tracer on the CPU instruction hook.
func (t *Tracer) Attach(c *MC6809) {
	c.InstructionHook = func(c *MC6809) {
		t.write(cpuState{
			CC: c.CC, A: c.A, B: c.B, DP: c.DP,
			X: c.X, Y: c.Y, U: c.U, S: c.S, PC: c.PC,
			Tick: t.tickNow(),
		})
	}
}

func (t *Tracer) write(state cpuState) {
	dis := DisasmModel(t.Mem, state.PC, t.Model)
	if t.JSON {
		t.writeJSON(state, dis)
		return
	}

	const disLen = 44
	buf := make([]byte, 0, 96)
	buf = append(buf, dis.String()...)
	for len(buf) < disLen {
		buf = append(buf, ' ')
	}

	reg8 := func(name byte, v uint8) {
		buf = append(buf, name, ':')
		buf = buf[:len(buf)+2]
		hexEncode(buf[len(buf)-2:], v)
		buf = append(buf, ' ')
	}
	reg16 := func(name byte, v uint16) {
		buf = append(buf, name, ':')
		buf = buf[:len(buf)+4]
		hexEncode(buf[len(buf)-4:], byte(v>>8))
		hexEncode(buf[len(buf)-2:], byte(v))
		buf = append(buf, ' ')
	}

	reg8('A', state.A)
	reg8('B', state.B)
	reg16('X', state.X)
	reg16('Y', state.Y)
	reg16('U', state.U)
	reg16('S', state.S)
	buf = append(buf, "CC:"...)
	buf = append(buf, state.CC.String()...)
	buf = append(buf, " T:"...)
	buf = appendUint(buf, state.Tick)
	buf = append(buf, '\n')
	t.W.Write(buf)
}

func (t *Tracer) writeJSON(state cpuState, dis DisasmOp) {
	e := &t.enc
	e.Reset()
	e.Obj(func(e *jx.Encoder) {
		e.Field("pc", func(e *jx.Encoder) { e.UInt16(state.PC) })
		e.Field("op", func(e *jx.Encoder) { e.Str(dis.Opcode) })
		if dis.Oper != "" {
			e.Field("oper", func(e *jx.Encoder) { e.Str(dis.Oper) })
		}
		e.Field("a", func(e *jx.Encoder) { e.UInt8(state.A) })
		e.Field("b", func(e *jx.Encoder) { e.UInt8(state.B) })
		e.Field("dp", func(e *jx.Encoder) { e.UInt8(state.DP) })
		e.Field("x", func(e *jx.Encoder) { e.UInt16(state.X) })
		e.Field("y", func(e *jx.Encoder) { e.UInt16(state.Y) })
		e.Field("u", func(e *jx.Encoder) { e.UInt16(state.U) })
		e.Field("s", func(e *jx.Encoder) { e.UInt16(state.S) })
		e.Field("cc", func(e *jx.Encoder) { e.UInt8(uint8(state.CC)) })
		e.Field("tick", func(e *jx.Encoder) { e.UInt32(state.Tick) })
	})
	t.W.Write(append(e.Bytes(), '\n'))
}

func (t *Tracer) tickNow() uint32 {
	if t.Ticks != nil {
		return t.Ticks()
	}
	return 0
}

func appendUint(buf []byte, v uint32) []byte {
	if v == 0 {
		return append(buf, '0')
	}
	var tmp [10]byte
	i := len(tmp)
	for v > 0 {
		i--
		tmp[i] = byte('0' + v%10)
		v /= 10
	}
	return append(buf, tmp[i:]...)
}
