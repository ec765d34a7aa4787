// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"errors"

	"github.com/ezrec/gr16/translate"
)

var f = translate.From

var (
	// Line format errors
	ErrMalformedLine = errors.New(f("malformed line"))
	ErrOperandCount  = errors.New(f("wrong number of operands"))
	ErrLineTooLong   = errors.New(f("line too long"))
	ErrTokenTooLong  = errors.New(f("token too long"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrLabelInvalid    = errors.New(f("label invalid"))
	ErrProgramTooLarge = errors.New(f("program too large"))

	// Macro errors
	ErrMacroSyntax     = errors.New(f(".macro syntax"))
	ErrMacroNesting    = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate  = errors.New(f(".macro duplicated"))
	ErrMacroLonely     = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm = errors.New(f(".endm without .macro"))
	ErrMacroDepth      = errors.New(f(".macro expansion too deep"))

	// Image errors
	ErrImageTruncated = errors.New(f("image truncated"))
)

// ErrUnknownMnemonic is returned for an instruction name that is not in the
// instruction table.
type ErrUnknownMnemonic string

func (err ErrUnknownMnemonic) Error() string {
	return f("unknown instruction '%v'", string(err))
}

// ErrUnresolvedRegister is returned for a register operand that is not one
// of gr0 to gr7.
type ErrUnresolvedRegister string

func (err ErrUnresolvedRegister) Error() string {
	return f("'%v' is not a register", string(err))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrOperand locates an error within the operands of an instruction.
type ErrOperand struct {
	Index int // Operand position, starting at 1.
	Err   error
}

func (err *ErrOperand) Error() string {
	return f("operand %d %v", err.Index, err.Err)
}

func (err *ErrOperand) Unwrap() error {
	return err.Err
}

// ErrSyntax locates an error in the assembly source.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrMacro locates an error within the body of a macro.
type ErrMacro struct {
	Macro  string
	LineNo int    // Line of the macro body.
	Line   string // Body line after argument substitution.
	Err    error
}

func (err *ErrMacro) Error() string {
	return f("macro %v line %d '%v' %v", err.Macro, err.LineNo, err.Line, err.Err)
}

func (err *ErrMacro) Unwrap() error {
	return err.Err
}

// ErrFile reports a file that could not be opened or created.
type ErrFile struct {
	Path string
	Err  error
}

func (err *ErrFile) Error() string {
	return f("%v: %v", err.Path, err.Err)
}

func (err *ErrFile) Unwrap() error {
	return err.Err
}
