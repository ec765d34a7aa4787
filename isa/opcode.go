// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package isa

import (
	"fmt"
	"iter"
	"maps"
	"slices"
)

// Shape is the operand layout of an instruction.
type Shape int

//go:generate go tool stringer -linecomment -type=Shape
const (
	SHAPE_NONE = Shape(0) // NONE
	SHAPE_R    = Shape(1) // R
	SHAPE_I    = Shape(2) // I
	SHAPE_RI   = Shape(3) // RI
)

// Opcode is the 5-bit instruction selector.
type Opcode uint8

const (
	OP_NOP   = Opcode(0b00000)
	OP_HALT  = Opcode(0b00001)
	OP_LOAD  = Opcode(0b00010)
	OP_STORE = Opcode(0b00011)
	OP_SLL   = Opcode(0b00100)
	OP_SLA   = Opcode(0b00101)
	OP_SRL   = Opcode(0b00110)
	OP_SRA   = Opcode(0b00111)
	OP_ADD   = Opcode(0b01000)
	OP_ADDI  = Opcode(0b01001)
	OP_SUB   = Opcode(0b01010)
	OP_SUBI  = Opcode(0b01011)
	OP_CMP   = Opcode(0b01100)
	OP_AND   = Opcode(0b01101)
	OP_OR    = Opcode(0b01110)
	OP_XOR   = Opcode(0b01111)
	OP_LDIH  = Opcode(0b10000)
	OP_ADDC  = Opcode(0b10001)
	OP_SUBC  = Opcode(0b10010)
	OP_JUMP  = Opcode(0b11000)
	OP_JMPR  = Opcode(0b11001)
	OP_BZ    = Opcode(0b11010)
	OP_BNZ   = Opcode(0b11011)
	OP_BN    = Opcode(0b11100)
	OP_BNN   = Opcode(0b11101)
	OP_BC    = Opcode(0b11110)
	OP_BNC   = Opcode(0b11111)

	OPCODE_COUNT = 1 << 5 // Size of the opcode space.
)

// Instruction is an entry of the instruction table.
type Instruction struct {
	Mnemonic string // Upper case assembler name.
	Opcode   Opcode // Opcode, bits 15-11 of the word.
	Shape    Shape  // Operand layout.
}

// instructionTable is ordered as it is documented. Opcodes 0b10011 to
// 0b10111 are reserved.
var instructionTable = [...]Instruction{
	{"NOP", OP_NOP, SHAPE_NONE},
	{"HALT", OP_HALT, SHAPE_NONE},
	{"LOAD", OP_LOAD, SHAPE_RI},
	{"STORE", OP_STORE, SHAPE_RI},
	{"LDIH", OP_LDIH, SHAPE_I},
	{"ADD", OP_ADD, SHAPE_R},
	{"ADDI", OP_ADDI, SHAPE_I},
	{"ADDC", OP_ADDC, SHAPE_R},
	{"SUB", OP_SUB, SHAPE_R},
	{"SUBI", OP_SUBI, SHAPE_I},
	{"SUBC", OP_SUBC, SHAPE_R},
	{"CMP", OP_CMP, SHAPE_R},
	{"AND", OP_AND, SHAPE_R},
	{"OR", OP_OR, SHAPE_R},
	{"XOR", OP_XOR, SHAPE_R},
	{"SLL", OP_SLL, SHAPE_RI},
	{"SRL", OP_SRL, SHAPE_RI},
	{"SLA", OP_SLA, SHAPE_RI},
	{"SRA", OP_SRA, SHAPE_RI},
	{"JUMP", OP_JUMP, SHAPE_I},
	{"JMPR", OP_JMPR, SHAPE_I},
	{"BZ", OP_BZ, SHAPE_I},
	{"BNZ", OP_BNZ, SHAPE_I},
	{"BN", OP_BN, SHAPE_I},
	{"BNN", OP_BNN, SHAPE_I},
	{"BC", OP_BC, SHAPE_I},
	{"BNC", OP_BNC, SHAPE_I},
}

var (
	byMnemonic = make(map[string]Instruction, len(instructionTable))
	byOpcode   [OPCODE_COUNT]*Instruction

	_isa_defines = map[string]string{}
)

func init() {
	for n := range instructionTable {
		inst := &instructionTable[n]
		if int(inst.Opcode) >= OPCODE_COUNT {
			panic(fmt.Sprintf("isa: %v: opcode %#x out of range", inst.Mnemonic, inst.Opcode))
		}
		if _, ok := byMnemonic[inst.Mnemonic]; ok {
			panic(fmt.Sprintf("isa: %v: duplicate mnemonic", inst.Mnemonic))
		}
		if prior := byOpcode[inst.Opcode]; prior != nil {
			panic(fmt.Sprintf("isa: %v: opcode %#x already used by %v", inst.Mnemonic, inst.Opcode, prior.Mnemonic))
		}
		byMnemonic[inst.Mnemonic] = *inst
		byOpcode[inst.Opcode] = inst

		_isa_defines["OP_"+inst.Mnemonic] = fmt.Sprintf("%d", inst.Opcode)
	}
}

// LookupMnemonic finds the instruction with the given upper case mnemonic.
func LookupMnemonic(name string) (inst Instruction, ok bool) {
	inst, ok = byMnemonic[name]
	return
}

// LookupOpcode finds the instruction assigned to an opcode.
// Reserved opcodes are not found.
func LookupOpcode(op Opcode) (inst Instruction, ok bool) {
	if int(op) >= OPCODE_COUNT || byOpcode[op] == nil {
		return
	}

	return *byOpcode[op], true
}

// Instructions iterates over the instruction table in its documented order.
func Instructions() iter.Seq[Instruction] {
	return slices.Values(instructionTable[:])
}

// Defines returns the assembler equates for the instruction set.
func Defines() iter.Seq2[string, string] {
	return maps.All(_isa_defines)
}

// String returns the mnemonic, or a numeric form for reserved opcodes.
func (op Opcode) String() string {
	inst, ok := LookupOpcode(op)
	if !ok {
		return fmt.Sprintf("OP(%#02x)", uint8(op))
	}
	return inst.Mnemonic
}
