// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log"

	"github.com/ezrec/gr16/asm"
	"github.com/ezrec/gr16/cpu"
	"github.com/ezrec/gr16/internal"
	"github.com/ezrec/gr16/isa"
)

// Emulator state. CPU + program listing.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *asm.Program // Reference to the currently running program listing.

	Trace io.Writer // If set, receives a state dump before each instruction.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &asm.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(
		emu.Cpu.Defines(),
		isa.Defines(),
	)
}

// Reset loads the program into the CPU and resets it.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	err = emu.Cpu.Load(emu.Program.Binary())
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: reset, %d statements", len(emu.Program.Statements))
	}

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() int {
	return int(emu.Cpu.Pc)
}

// LineNo returns the current line number for the executing opcode, or 0
// if the program counter is outside the listing.
func (emu *Emulator) LineNo() int {
	st := emu.Program.Debug(emu.Cpu.Pc)
	if st == nil {
		return 0
	}

	return st.LineNo
}

// Tick performs a single tick of the emulator. done is set once the
// program has halted.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	ip := emu.Cpu.Pc
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Ip: ip, Err: err}
		}
	}()

	if emu.Trace != nil && emu.Cpu.State == cpu.STATE_RUNNING {
		_, err = fmt.Fprint(emu.Trace, emu.Cpu.Snapshot().String())
		if err != nil {
			return
		}
	}

	err = emu.Cpu.Tick()
	if errors.Is(err, cpu.ErrHalt) {
		err = nil
		done = true
	}

	return
}

// Run ticks the emulator until the program halts, faults, the context is
// cancelled or, if maxSteps is positive, maxSteps instructions have run
// without halting.
func (emu *Emulator) Run(ctx context.Context, maxSteps int) (err error) {
	for steps := 0; ; steps++ {
		if err = ctx.Err(); err != nil {
			return
		}

		if maxSteps > 0 && steps >= maxSteps {
			err = &ErrRuntime{LineNo: emu.LineNo(), Ip: emu.Cpu.Pc, Err: ErrStepLimit}
			return
		}

		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}
}
