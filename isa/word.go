// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package isa

import (
	"fmt"
	"strings"
)

// Word is a single encoded instruction.
type Word uint16

// Field positions and widths.
const (
	OPCODE_SHIFT   = 11
	OPCODE_MASK    = 0x1f
	OPERAND1_SHIFT = 8
	OPERAND1_MASK  = 0x7
	OPERAND2_SHIFT = 4
	OPERAND2_MASK  = 0xf
	OPERAND3_SHIFT = 0
	OPERAND3_MASK  = 0xf
)

const (
	NUM_REGISTERS = 8   // General purpose registers, gr0-gr7.
	MEMORY_SIZE   = 256 // Words in each of instruction and data memory.
)

// MakeWord packs an opcode and its three operand fields. Operands wider
// than their field are truncated.
func MakeWord(op Opcode, op1, op2, op3 uint8) Word {
	return Word((uint16(op)&OPCODE_MASK)<<OPCODE_SHIFT |
		(uint16(op1)&OPERAND1_MASK)<<OPERAND1_SHIFT |
		(uint16(op2)&OPERAND2_MASK)<<OPERAND2_SHIFT |
		(uint16(op3)&OPERAND3_MASK)<<OPERAND3_SHIFT)
}

// Opcode returns bits 15-11.
func (w Word) Opcode() Opcode {
	return Opcode((uint16(w) >> OPCODE_SHIFT) & OPCODE_MASK)
}

// Operands returns the three operand fields.
func (w Word) Operands() (op1, op2, op3 uint8) {
	word := uint16(w)
	op1 = uint8((word >> OPERAND1_SHIFT) & OPERAND1_MASK)
	op2 = uint8((word >> OPERAND2_SHIFT) & OPERAND2_MASK)
	op3 = uint8((word >> OPERAND3_SHIFT) & OPERAND3_MASK)
	return
}

// Immediate returns operand2 and operand3 joined as an unsigned byte.
func (w Word) Immediate() uint8 {
	_, op2, op3 := w.Operands()
	return op2<<4 | op3
}

// Bits renders the word in binary, grouped by nibble.
func (w Word) Bits() string {
	var sb strings.Builder
	for n := 15; n >= 0; n-- {
		if (w>>n)&1 != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
		if n%4 == 0 && n != 0 {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// String returns the raw field view of the word.
func (w Word) String() string {
	op1, op2, op3 := w.Operands()
	return fmt.Sprintf("%v.%d.%d.%d", w.Opcode(), op1, op2, op3)
}

var registerNames = [NUM_REGISTERS]string{
	"gr0", "gr1", "gr2", "gr3", "gr4", "gr5", "gr6", "gr7",
}

// RegisterName returns the assembler name of a register index. Indices
// beyond the register bank are rendered the same way so that malformed
// words can still be displayed.
func RegisterName(index uint8) string {
	if int(index) < len(registerNames) {
		return registerNames[index]
	}
	return fmt.Sprintf("gr%d", index)
}

// LookupRegister resolves a register name to its index.
func LookupRegister(name string) (index uint8, ok bool) {
	for n, reg := range registerNames {
		if reg == name {
			return uint8(n), true
		}
	}
	return
}
