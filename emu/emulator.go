package emu

import (
	"fmt"
	"sync/atomic"
	"time"

	"tano/emu/log"
	"tano/hw"
	"tano/rom"
)

// Emulator drives a Dragon at real-time speed, one video field at a time.
type Emulator struct {
	Machine *Dragon

	// These are accessed concurrently by the emulator loop and the host.
	quit   atomic.Bool
	paused atomic.Bool
	reset  atomic.Bool
}

// Launch builds the machine described by cfg. It doesn't start the emulation
// loop, call Run() for that.
func Launch(cfg Config, basic, cart *rom.Rom) (*Emulator, error) {
	var model hw.Model
	switch cfg.Machine.Model {
	case "", "6809":
		model = hw.Model6809
	case "6309":
		model = hw.Model6309
	default:
		return nil, fmt.Errorf("unknown cpu model %q", cfg.Machine.Model)
	}

	m, err := PowerUp(model, basic, cart)
	if err != nil {
		return nil, fmt.Errorf("power up failed: %w", err)
	}

	if cfg.TraceOut != nil {
		tracer := &hw.Tracer{
			Mem:   m.Bus,
			W:     cfg.TraceOut,
			JSON:  cfg.TraceJSON,
			Model: model,
			Ticks: func() uint32 {
				return uint32(m.Now())
			},
		}
		tracer.Attach(m.CPU)
	}

	return &Emulator{Machine: m}, nil
}

// Run is the emulation loop. It paces the machine against the wall clock at
// one field per 20ms and returns when Stop is called or the CPU halts for
// good.
func (e *Emulator) Run() {
	ticker := time.NewTicker(time.Second / 50)
	defer ticker.Stop()

	for !e.quit.Load() {
		<-ticker.C
		if e.paused.Load() {
			continue
		}
		if e.reset.CompareAndSwap(true, false) {
			log.ModEmu.InfoZ("performing reset").End()
			e.Machine.Reset()
		}

		e.Machine.RunOneField()

		if e.Machine.CPU.State() == hw.StateHCF {
			log.ModEmu.WarnZ("cpu halted, stopping").End()
			break
		}
	}
	log.ModEmu.InfoZ("emulation loop exited").End()
}

// SetPause, Stop and Reset control the emulator loop in a concurrent-safe
// way.

func (e *Emulator) SetPause(pause bool) { e.paused.Store(pause) }
func (e *Emulator) Reset()              { e.reset.Store(true) }
func (e *Emulator) Stop()               { e.quit.Store(true) }
