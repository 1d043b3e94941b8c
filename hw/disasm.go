package hw

import (
	"fmt"
	"strings"
)

// Peeker reads memory without bus side effects, for disassembly and
// debugging. Peeks do not advance the clock.
type Peeker interface {
	Peek8(addr uint16) uint8
}

// Addressing modes as they appear in the opcode grid. The im* modes are the
// 6309 immediate-to-memory forms where an immediate byte precedes the
// address operand.
type addrMode uint8

const (
	amInh addrMode = iota
	amImm8
	amImm16
	amDir
	amIdx
	amExt
	amRel8
	amRel16
	amStackS // PSHS/PULS register list
	amStackU // PSHU/PULU register list
	amPair   // EXG/TFR register pair
	amImDir
	amImIdx
	amImExt
)

type opdef struct {
	name string
	mode addrMode
}

var colNames = [16]string{
	"NEG", "NEG", "NEG", "COM", "LSR", "LSR", "ROR", "ASR",
	"ASL", "ROL", "DEC", "DEC", "INC", "TST", "JMP", "CLR",
}

var branchNames = [16]string{
	"BRA", "BRN", "BHI", "BLS", "BCC", "BCS", "BNE", "BEQ",
	"BVC", "BVS", "BPL", "BMI", "BGE", "BLT", "BGT", "BLE",
}

var aluNames = [16]string{
	"SUB", "CMP", "SBC", "", "AND", "BIT", "LD", "ST",
	"EOR", "ADC", "OR", "ADD", "", "", "", "",
}

// page0 is built at init from the regular grid, then patched with the
// irregular rows.
var page0 [256]opdef

var page2 = map[uint8]opdef{
	0x3F: {"SWI2", amInh},
	0x83: {"CMPD", amImm16}, 0x93: {"CMPD", amDir}, 0xA3: {"CMPD", amIdx}, 0xB3: {"CMPD", amExt},
	0x8C: {"CMPY", amImm16}, 0x9C: {"CMPY", amDir}, 0xAC: {"CMPY", amIdx}, 0xBC: {"CMPY", amExt},
	0x8E: {"LDY", amImm16}, 0x9E: {"LDY", amDir}, 0xAE: {"LDY", amIdx}, 0xBE: {"LDY", amExt},
	0x9F: {"STY", amDir}, 0xAF: {"STY", amIdx}, 0xBF: {"STY", amExt},
	0xCE: {"LDS", amImm16}, 0xDE: {"LDS", amDir}, 0xEE: {"LDS", amIdx}, 0xFE: {"LDS", amExt},
	0xDF: {"STS", amDir}, 0xEF: {"STS", amIdx}, 0xFF: {"STS", amExt},

	0x80: {"SUBW", amImm16}, 0x90: {"SUBW", amDir}, 0xA0: {"SUBW", amIdx}, 0xB0: {"SUBW", amExt},
	0x81: {"CMPW", amImm16}, 0x91: {"CMPW", amDir}, 0xA1: {"CMPW", amIdx}, 0xB1: {"CMPW", amExt},
	0x8B: {"ADDW", amImm16}, 0x9B: {"ADDW", amDir}, 0xAB: {"ADDW", amIdx}, 0xBB: {"ADDW", amExt},
	0x86: {"LDW", amImm16}, 0x96: {"LDW", amDir}, 0xA6: {"LDW", amIdx}, 0xB6: {"LDW", amExt},
	0x97: {"STW", amDir}, 0xA7: {"STW", amIdx}, 0xB7: {"STW", amExt},
}

var page3 = map[uint8]opdef{
	0x3F: {"SWI3", amInh},
	0x83: {"CMPU", amImm16}, 0x93: {"CMPU", amDir}, 0xA3: {"CMPU", amIdx}, 0xB3: {"CMPU", amExt},
	0x8C: {"CMPS", amImm16}, 0x9C: {"CMPS", amDir}, 0xAC: {"CMPS", amIdx}, 0xBC: {"CMPS", amExt},
}

// Opcodes that decode differently on a 6309: the in-memory immediate ops
// take over the NEG/LSR/DEC alias slots, and 0x14 is SEXW instead of HCF.
var page0On6309 = map[uint8]opdef{
	0x01: {"OIM", amImDir}, 0x02: {"AIM", amImDir}, 0x05: {"EIM", amImDir}, 0x0B: {"TIM", amImDir},
	0x14: {"SEXW", amInh},
	0x61: {"OIM", amImIdx}, 0x62: {"AIM", amImIdx}, 0x65: {"EIM", amImIdx}, 0x6B: {"TIM", amImIdx},
	0x71: {"OIM", amImExt}, 0x72: {"AIM", amImExt}, 0x75: {"EIM", amImExt}, 0x7B: {"TIM", amImExt},
}

var page3On6309 = map[uint8]opdef{
	0x3C: {"BITMD", amImm8},
	0x3D: {"LDMD", amImm8},
}

func init() {
	// Memory op columns: 0x00 direct, 0x60 indexed, 0x70 extended.
	for i := 0; i < 16; i++ {
		page0[0x00+i] = opdef{colNames[i], amDir}
		page0[0x60+i] = opdef{colNames[i], amIdx}
		page0[0x70+i] = opdef{colNames[i], amExt}
	}
	// Inherent accumulator columns.
	for i := 0; i < 16; i++ {
		page0[0x40+i] = opdef{colNames[i] + "A", amInh}
		page0[0x50+i] = opdef{colNames[i] + "B", amInh}
	}
	page0[0x4E] = opdef{"CLRA", amInh} // carry-preserving alias
	page0[0x5E] = opdef{"CLRB", amInh}

	for i, name := range branchNames {
		page0[0x20+i] = opdef{name, amRel8}
	}
	// Long branches live on page 2, except LBRA which has its own page-0
	// encoding at 0x16.
	for i := 1; i < 16; i++ {
		page2[uint8(0x20+i)] = opdef{"L" + branchNames[i], amRel16}
	}

	// ALU columns for A and B, mode from bits 4-5.
	modes := [4]addrMode{amImm8, amDir, amIdx, amExt}
	for m := 0; m < 4; m++ {
		for i := 0; i < 16; i++ {
			if aluNames[i] == "" {
				continue
			}
			page0[0x80+m*16+i] = opdef{aluNames[i] + "A", modes[m]}
			page0[0xC0+m*16+i] = opdef{aluNames[i] + "B", modes[m]}
		}
	}

	for i, def := range []opdef{
		{"NOP", amInh}, {"SYNC", amInh}, {"HCF", amInh}, {"HCF", amInh},
		{"LBRA", amRel16}, {"LBSR", amRel16}, {"NOP", amInh}, {"DAA", amInh},
		{"ORCC", amImm8}, {"NOP", amInh}, {"ANDCC", amImm8}, {"SEX", amInh},
		{"EXG", amPair}, {"TFR", amPair},
	} {
		page0[0x12+i] = def
	}

	for i, def := range []opdef{
		{"LEAX", amIdx}, {"LEAY", amIdx}, {"LEAS", amIdx}, {"LEAU", amIdx},
		{"PSHS", amStackS}, {"PULS", amStackS}, {"PSHU", amStackU}, {"PULU", amStackU},
		{"ANDCC", amImm8}, {"RTS", amInh}, {"ABX", amInh}, {"RTI", amInh},
		{"CWAI", amImm8}, {"MUL", amInh}, {"XRES", amInh}, {"SWI", amInh},
	} {
		page0[0x30+i] = def
	}

	page0[0x83] = opdef{"SUBD", amImm16}
	page0[0x93] = opdef{"SUBD", amDir}
	page0[0xA3] = opdef{"SUBD", amIdx}
	page0[0xB3] = opdef{"SUBD", amExt}
	page0[0xC3] = opdef{"ADDD", amImm16}
	page0[0xD3] = opdef{"ADDD", amDir}
	page0[0xE3] = opdef{"ADDD", amIdx}
	page0[0xF3] = opdef{"ADDD", amExt}
	page0[0x8C] = opdef{"CMPX", amImm16}
	page0[0x9C] = opdef{"CMPX", amDir}
	page0[0xAC] = opdef{"CMPX", amIdx}
	page0[0xBC] = opdef{"CMPX", amExt}
	page0[0x8D] = opdef{"BSR", amRel8}
	page0[0x9D] = opdef{"JSR", amDir}
	page0[0xAD] = opdef{"JSR", amIdx}
	page0[0xBD] = opdef{"JSR", amExt}
	page0[0x8E] = opdef{"LDX", amImm16}
	page0[0x9E] = opdef{"LDX", amDir}
	page0[0xAE] = opdef{"LDX", amIdx}
	page0[0xBE] = opdef{"LDX", amExt}
	page0[0x9F] = opdef{"STX", amDir}
	page0[0xAF] = opdef{"STX", amIdx}
	page0[0xBF] = opdef{"STX", amExt}
	page0[0xCC] = opdef{"LDD", amImm16}
	page0[0xDC] = opdef{"LDD", amDir}
	page0[0xEC] = opdef{"LDD", amIdx}
	page0[0xFC] = opdef{"LDD", amExt}
	page0[0xDD] = opdef{"STD", amDir}
	page0[0xED] = opdef{"STD", amIdx}
	page0[0xFD] = opdef{"STD", amExt}
	page0[0xCE] = opdef{"LDU", amImm16}
	page0[0xDE] = opdef{"LDU", amDir}
	page0[0xEE] = opdef{"LDU", amIdx}
	page0[0xFE] = opdef{"LDU", amExt}
	page0[0xDF] = opdef{"STU", amDir}
	page0[0xEF] = opdef{"STU", amIdx}
	page0[0xFF] = opdef{"STU", amExt}
	page0[0x97] = opdef{"STA", amDir}
	page0[0xA7] = opdef{"STA", amIdx}
	page0[0xB7] = opdef{"STA", amExt}
	page0[0xD7] = opdef{"STB", amDir}
	page0[0xE7] = opdef{"STB", amIdx}
	page0[0xF7] = opdef{"STB", amExt}

	page0[0x87] = opdef{"???", amImm8}
	page0[0xC7] = opdef{"???", amImm8}
	page0[0x8F] = opdef{"???", amImm16}
	page0[0xCF] = opdef{"???", amImm16}
	page0[0xCD] = opdef{"HCF", amInh}
}

// DisasmOp is one decoded instruction: the mnemonic, the formatted operand,
// the raw bytes and the address they were read from.
type DisasmOp struct {
	Opcode string
	Oper   string
	Buf    []byte
	PC     uint16
}

func (d DisasmOp) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%04X  ", d.PC)
	for _, b := range d.Buf {
		fmt.Fprintf(&sb, "%02X ", b)
	}
	for sb.Len() < 21 {
		sb.WriteByte(' ')
	}
	sb.WriteString(d.Opcode)
	if d.Oper != "" {
		sb.WriteByte(' ')
		sb.WriteString(d.Oper)
	}
	return sb.String()
}

var pairNames = [16]string{
	"D", "X", "Y", "U", "S", "PC", "W", "V",
	"A", "B", "CC", "DP", "?", "?", "E", "F",
}

var stackNamesS = [8]string{"CC", "A", "B", "DP", "X", "Y", "U", "PC"}
var stackNamesU = [8]string{"CC", "A", "B", "DP", "X", "Y", "S", "PC"}

// Disasm decodes the instruction at pc using side-effect-free reads, with
// 6809 opcode assignments.
func Disasm(mem Peeker, pc uint16) DisasmOp {
	return DisasmModel(mem, pc, Model6809)
}

// DisasmModel is Disasm with the model's opcode assignments.
func DisasmModel(mem Peeker, pc uint16, model Model) DisasmOp {
	d := DisasmOp{PC: pc}
	addr := pc

	next8 := func() uint8 {
		v := mem.Peek8(addr)
		d.Buf = append(d.Buf, v)
		addr++
		return v
	}
	next16 := func() uint16 {
		hi := next8()
		lo := next8()
		return uint16(hi)<<8 | uint16(lo)
	}

	op := next8()
	var def opdef
	var ok bool
	switch op {
	case 0x10:
		op2 := next8()
		if def, ok = page2[op2]; !ok {
			def = page0[op2]
		}
	case 0x11:
		op2 := next8()
		if model == Model6309 {
			def, ok = page3On6309[op2]
		}
		if !ok {
			if def, ok = page3[op2]; !ok {
				def = page0[op2]
			}
		}
	default:
		if model == Model6309 {
			def, ok = page0On6309[op]
		}
		if !ok {
			def = page0[op]
		}
	}

	d.Opcode = def.name
	switch def.mode {
	case amInh:
	case amImm8, amImDir, amImIdx, amImExt:
		d.Oper = fmt.Sprintf("#$%02X", next8())
		switch def.mode {
		case amImDir:
			d.Oper += fmt.Sprintf(",<$%02X", next8())
		case amImIdx:
			d.Oper += "," + disasmIndexed(next8, next16)
		case amImExt:
			d.Oper += fmt.Sprintf(",$%04X", next16())
		}
	case amImm16:
		d.Oper = fmt.Sprintf("#$%04X", next16())
	case amDir:
		d.Oper = fmt.Sprintf("<$%02X", next8())
	case amExt:
		d.Oper = fmt.Sprintf("$%04X", next16())
	case amIdx:
		d.Oper = disasmIndexed(next8, next16)
	case amRel8:
		off := sext8(next8())
		d.Oper = fmt.Sprintf("$%04X", addr+off)
	case amRel16:
		off := next16()
		d.Oper = fmt.Sprintf("$%04X", addr+off)
	case amStackS, amStackU:
		names := &stackNamesS
		if def.mode == amStackU {
			names = &stackNamesU
		}
		post := next8()
		var regs []string
		for i := 0; i < 8; i++ {
			if post&(1<<i) != 0 {
				regs = append(regs, names[i])
			}
		}
		d.Oper = strings.Join(regs, ",")
	case amPair:
		post := next8()
		d.Oper = pairNames[post>>4] + "," + pairNames[post&0x0F]
	}

	return d
}

func disasmIndexed(next8 func() uint8, next16 func() uint16) string {
	post := next8()
	base := [4]string{"X", "Y", "U", "S"}[(post>>5)&3]

	if post&0x80 == 0 {
		off := int8(post<<3) >> 3
		return fmt.Sprintf("%d,%s", off, base)
	}

	var s string
	switch post & 0x0F {
	case 0x00:
		s = "," + base + "+"
	case 0x01:
		s = "," + base + "++"
	case 0x02:
		s = ",-" + base
	case 0x03:
		s = ",--" + base
	case 0x04:
		s = "," + base
	case 0x05:
		s = "B," + base
	case 0x06:
		s = "A," + base
	case 0x07:
		s = "E," + base
	case 0x08:
		s = fmt.Sprintf("%d,%s", int8(next8()), base)
	case 0x09:
		s = fmt.Sprintf("%d,%s", int16(next16()), base)
	case 0x0A:
		s = "F," + base
	case 0x0B:
		s = "D," + base
	case 0x0C:
		s = fmt.Sprintf("%d,PCR", int8(next8()))
	case 0x0D:
		s = fmt.Sprintf("%d,PCR", int16(next16()))
	case 0x0E:
		s = "W," + base
	case 0x0F:
		s = fmt.Sprintf("$%04X", next16())
	}

	if post&0x10 != 0 {
		return "[" + s + "]"
	}
	return s
}
