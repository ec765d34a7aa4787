// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"

	"github.com/ezrec/gr16/isa"
	"github.com/ezrec/gr16/translate"
)

var f = translate.From

var (
	// ErrHalt is returned once the HALT instruction has executed.
	ErrHalt = errors.New(f("halted"))

	// Faults
	ErrUnknownOpcode   = errors.New(f("unknown opcode"))
	ErrAddressRange    = errors.New(f("address out of range"))
	ErrRegisterInvalid = errors.New(f("register invalid"))

	// Load errors
	ErrProgramTooLarge = errors.New(f("program too large"))
)

// ErrInstruction identifies the instruction that faulted.
type ErrInstruction struct {
	Pc   uint16
	Word isa.Word
}

func (ei ErrInstruction) Error() string {
	return f("pc 0x%04x: instruction 0x%04x %v", ei.Pc, uint16(ei.Word), ei.Word.String())
}

// ErrFetch identifies a program counter outside instruction memory.
type ErrFetch uint16

func (ef ErrFetch) Error() string {
	return f("pc 0x%04x: fetch", uint16(ef))
}
