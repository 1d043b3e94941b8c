package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"

	"tano/emu"
	"tano/rom"
)

var version = "devel"

func main() {
	cli, command := parseArgs(os.Args[1:])

	switch command {
	case "version":
		fmt.Println("tano", version)
	default:
		emuMain(cli.Run)
	}
}

// emuMain runs the emulator with the configured ROMs.
func emuMain(args Run) {
	cfg := emu.LoadConfigOrDefault()
	if args.Model != "" {
		cfg.Machine.Model = args.Model
	}
	if args.Basic != "" {
		cfg.Machine.BasicROM = args.Basic
	}
	if cfg.Machine.BasicROM == "" {
		fatalf("no BASIC ROM configured, use --basic or set basic_rom in the config file")
	}

	basic, err := rom.Open(cfg.Machine.BasicROM)
	checkf(err, "failed to open BASIC ROM")

	var cart *rom.Rom
	if args.CartPath != "" {
		cart, err = rom.Open(args.CartPath)
		checkf(err, "failed to open cartridge")
	}

	if args.Trace != nil {
		cfg.TraceOut = args.Trace
		cfg.TraceJSON = args.TraceJSON
		defer args.Trace.Close()
	}

	emulator, err := emu.Launch(cfg, basic, cart)
	checkf(err, "failed to start emulator")

	if args.CPUProfile != "" {
		f, err := os.Create(args.CPUProfile)
		checkf(err, "failed to create cpu profile file")
		checkf(pprof.StartCPUProfile(f), "failed to start cpu profile")
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
			fmt.Println("CPU profile written to", args.CPUProfile)
		}()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		emulator.Stop()
	}()

	emulator.Run()
}
