package hwio

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

/*
Register banks are plain structs whose Reg8/Mem/Device fields carry a "hwio"
struct tag. InitRegs fills in names, reset values, flags and callbacks from
the tag; Table.MapBank then maps the fields at their offsets.

Recognized options:

	bank=N          ordinal bank number (default 0)
	offset=0xNN     byte offset within the bank (required to be mapped)
	size=0xNN       buffer size (Mem: allocated; Device: range size)
	vsize=0xNN      virtual size (Mem only, mirrors the buffer)
	reset=0xNN      reset value (Reg8 only)
	rwmask=0xNN     writable bits (Reg8 only, the rest are read-only)
	readonly        reject writes
	writeonly       reject reads
	rcb[=Name]      read callback, default method Read<FIELD>
	wcb[=Name]      write callback, default method Write<FIELD>
	pcb[=Name]      peek callback, default method Peek<FIELD>
*/

type tagOpts struct {
	bank    int
	offset  uint16
	hasOff  bool
	size    int
	vsize   int
	reset   uint8
	rwmask  uint8
	hasMask bool
	ro, wo  bool
	rcb     string
	wcb     string
	pcb     string
}

func parseTag(fieldName, tag string) (tagOpts, error) {
	var o tagOpts
	for _, part := range strings.Split(tag, ",") {
		key, val, hasVal := strings.Cut(part, "=")
		num := func() (uint64, error) {
			if !hasVal {
				return 0, fmt.Errorf("hwio tag %q: %s requires a value", tag, key)
			}
			return strconv.ParseUint(val, 0, 32)
		}
		switch key {
		case "bank":
			n, err := num()
			if err != nil {
				return o, err
			}
			o.bank = int(n)
		case "offset":
			n, err := num()
			if err != nil {
				return o, err
			}
			o.offset = uint16(n)
			o.hasOff = true
		case "size":
			n, err := num()
			if err != nil {
				return o, err
			}
			o.size = int(n)
		case "vsize":
			n, err := num()
			if err != nil {
				return o, err
			}
			o.vsize = int(n)
		case "reset":
			n, err := num()
			if err != nil {
				return o, err
			}
			o.reset = uint8(n)
		case "rwmask":
			n, err := num()
			if err != nil {
				return o, err
			}
			o.rwmask = uint8(n)
			o.hasMask = true
		case "readonly":
			o.ro = true
		case "writeonly":
			o.wo = true
		case "rcb":
			o.rcb = "Read" + strings.ToUpper(fieldName)
			if hasVal {
				o.rcb = val
			}
		case "wcb":
			o.wcb = "Write" + strings.ToUpper(fieldName)
			if hasVal {
				o.wcb = val
			}
		case "pcb":
			o.pcb = "Peek" + strings.ToUpper(fieldName)
			if hasVal {
				o.pcb = val
			}
		default:
			return o, fmt.Errorf("hwio tag %q: unknown option %q", tag, key)
		}
	}
	return o, nil
}

func method[T any](bank reflect.Value, name string) (T, error) {
	var zero T
	m := bank.MethodByName(name)
	if !m.IsValid() {
		return zero, fmt.Errorf("hwio: missing callback method %s", name)
	}
	fn, ok := m.Interface().(T)
	if !ok {
		return zero, fmt.Errorf("hwio: callback %s has type %T, want %T", name, m.Interface(), zero)
	}
	return fn, nil
}

func rwFlags(o tagOpts) RWFlags {
	var f RWFlags
	if o.ro {
		f |= ReadOnlyFlag
	}
	if o.wo {
		f |= WriteOnlyFlag
	}
	return f
}

// InitRegs initializes every hwio-tagged field of the bank struct pointed to
// by bank.
func InitRegs(bank any) error {
	bv := reflect.ValueOf(bank)
	if bv.Kind() != reflect.Pointer || bv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("hwio: bank must be a pointer to struct, got %T", bank)
	}
	sv := bv.Elem()
	st := sv.Type()

	for i := 0; i < st.NumField(); i++ {
		tag, hasTag := st.Field(i).Tag.Lookup("hwio")
		if !hasTag {
			continue
		}
		name := st.Field(i).Name
		o, err := parseTag(name, tag)
		if err != nil {
			return err
		}

		switch reg := sv.Field(i).Addr().Interface().(type) {
		case *Reg8:
			reg.Name = name
			reg.Value = o.reset
			reg.Flags = rwFlags(o)
			if o.hasMask {
				reg.RoMask = ^o.rwmask
			}
			if o.rcb != "" {
				if reg.ReadCb, err = method[func(uint8) uint8](bv, o.rcb); err != nil {
					return err
				}
			}
			if o.pcb != "" {
				if reg.PeekCb, err = method[func(uint8) uint8](bv, o.pcb); err != nil {
					return err
				}
			}
			if o.wcb != "" {
				if reg.WriteCb, err = method[func(uint8, uint8)](bv, o.wcb); err != nil {
					return err
				}
			}

		case *Mem:
			reg.Name = name
			if o.size == 0 {
				return fmt.Errorf("hwio: mem %s needs a size", name)
			}
			reg.Data = make([]byte, o.size)
			reg.VSize = o.size
			if o.vsize != 0 {
				reg.VSize = o.vsize
			}
			if o.ro {
				reg.Flags |= MemFlag8ReadOnly
			}
			if o.wcb != "" {
				if reg.WriteCb, err = method[func(uint16, uint8)](bv, o.wcb); err != nil {
					return err
				}
			}

		case *Device:
			reg.Name = name
			if o.size == 0 {
				return fmt.Errorf("hwio: device %s needs a size", name)
			}
			reg.Size = o.size
			reg.Flags = rwFlags(o)
			if o.rcb != "" {
				if reg.ReadCb, err = method[func(uint16) uint8](bv, o.rcb); err != nil {
					return err
				}
			}
			if o.pcb != "" {
				if reg.PeekCb, err = method[func(uint16) uint8](bv, o.pcb); err != nil {
					return err
				}
			}
			if o.wcb != "" {
				if reg.WriteCb, err = method[func(uint16, uint8)](bv, o.wcb); err != nil {
					return err
				}
			}

		default:
			return fmt.Errorf("hwio: field %s has unsupported type %T", name, reg)
		}
	}
	return nil
}

// MustInitRegs is InitRegs, panicking on error.
func MustInitRegs(bank any) {
	if err := InitRegs(bank); err != nil {
		panic(err)
	}
}

type bankReg struct {
	offset uint16
	regPtr any
}

// bankGetRegs collects the tagged fields of bank belonging to bankNum, in
// offset order.
func bankGetRegs(bank any, bankNum int) ([]bankReg, error) {
	bv := reflect.ValueOf(bank)
	if bv.Kind() != reflect.Pointer || bv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("hwio: bank must be a pointer to struct, got %T", bank)
	}
	sv := bv.Elem()
	st := sv.Type()

	var regs []bankReg
	for i := 0; i < st.NumField(); i++ {
		tag, hasTag := st.Field(i).Tag.Lookup("hwio")
		if !hasTag {
			continue
		}
		o, err := parseTag(st.Field(i).Name, tag)
		if err != nil {
			return nil, err
		}
		if !o.hasOff || o.bank != bankNum {
			continue
		}
		regs = append(regs, bankReg{o.offset, sv.Field(i).Addr().Interface()})
	}
	return regs, nil
}
