// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"io"
	"iter"

	"github.com/ezrec/gr16/isa"
)

// Statement is a line of assembled code with its source location.
type Statement struct {
	LineNo int      // Source line, starting at 1.
	Ip     int      // Instruction memory address.
	Words  []string // Mnemonic and operands after substitution.
	Word   isa.Word // Encoded instruction.
}

// Program is an assembled program.
type Program struct {
	Statements []Statement
}

// Debug returns the statement at an instruction address, or nil.
func (prog *Program) Debug(ip uint16) *Statement {
	for n, st := range prog.Statements {
		if int(ip) == st.Ip {
			return &prog.Statements[n]
		}
	}

	return nil
}

// Codes iterates over the instruction addresses and words of the program.
func (prog *Program) Codes() iter.Seq2[uint16, isa.Word] {
	return func(yield func(ip uint16, word isa.Word) bool) {
		for _, st := range prog.Statements {
			if !yield(uint16(st.Ip), st.Word) {
				return
			}
		}
	}
}

// Binary returns the program image.
func (prog *Program) Binary() (words []isa.Word) {
	for _, word := range prog.Codes() {
		words = append(words, word)
	}

	return
}

// WriteTo writes the program image.
func (prog *Program) WriteTo(w io.Writer) (n int64, err error) {
	return WriteImage(w, prog.Binary())
}

// ImageProgram wraps a program image with no source information. Each
// statement has LineNo 0 and its disassembly as Words.
func ImageProgram(words []isa.Word) (prog *Program) {
	prog = &Program{
		Statements: make([]Statement, len(words)),
	}

	for ip, word := range words {
		prog.Statements[ip] = Statement{
			Ip:    ip,
			Words: []string{Decode(word)},
			Word:  word,
		}
	}

	return
}
