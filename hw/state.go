package hw

//go:generate go tool stringer -type=State -trimprefix=State

// State enumerates the positions of the CPU run loop. Exactly one is active
// at a time; the loop is a pure function of (state, registers, latched
// interrupts) plus the byte the bus delegate returns each cycle.
type State int

const (
	StateReset State = iota
	StateResetCheckHalt
	StateLabelA
	StateLabelB
	StateDispatchIRQ
	StateCWAICheckHalt
	StateSync
	StateSyncCheckHalt
	StateNextInstruction
	StatePage2
	StatePage3

	// StateHCF is a sink: no transition leaves it except Reset.
	StateHCF
)
