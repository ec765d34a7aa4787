// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ezrec/gr16/isa"
)

type operandKind int

const (
	operandRegister = operandKind(iota)
	operandImmediate
)

// operandKinds maps a shape to the kind of each of its three fields.
var operandKinds = map[isa.Shape][3]operandKind{
	isa.SHAPE_R:  {operandRegister, operandRegister, operandRegister},
	isa.SHAPE_I:  {operandRegister, operandImmediate, operandImmediate},
	isa.SHAPE_RI: {operandRegister, operandRegister, operandImmediate},
}

// integerBase returns 0 for 0x, 0o or 0b prefixed integers, and 10
// otherwise.
func integerBase(word string) int {
	digits := strings.TrimLeft(word, "+-")
	if len(digits) > 1 && digits[0] == '0' && strings.ContainsRune("xXoObB", rune(digits[1])) {
		return 0
	}
	return 10
}

// parseInteger parses a decimal integer, or a 0x, 0o or 0b prefixed one.
func parseInteger(word string) (value int64, err error) {
	value, err = strconv.ParseInt(word, integerBase(word), 64)
	if err != nil {
		err = ErrParseNumber(word)
	}

	return
}

// register resolves a register name.
func register(word string) (index uint8, err error) {
	index, ok := isa.LookupRegister(word)
	if !ok {
		err = ErrUnresolvedRegister(word)
	}
	return
}

// immediate parses an integer of any width and masks it to a 4-bit field.
// Negative values are masked in two's complement.
func immediate(word string) (nibble uint8, err error) {
	value, ok := new(big.Int).SetString(word, integerBase(word))
	if !ok {
		err = ErrParseNumber(word)
		return
	}

	nibble = uint8(value.And(value, big.NewInt(isa.OPERAND3_MASK)).Uint64())
	return
}

// Encode assembles a single instruction.
//
// Instructions with operands take either all three fields, or two fields
// with the leading register field omitted and encoded as zero. The latter is
// the form Decode uses for CMP and JUMP. Immediates of any size are masked
// to their 4-bit field.
func Encode(mnemonic string, operands ...string) (word isa.Word, err error) {
	inst, ok := isa.LookupMnemonic(mnemonic)
	if !ok {
		err = ErrUnknownMnemonic(mnemonic)
		return
	}

	var fields [3]uint8

	if inst.Shape == isa.SHAPE_NONE {
		if len(operands) != 0 {
			err = errors.Join(ErrMalformedLine, ErrOperandCount)
			return
		}
		word = isa.MakeWord(inst.Opcode, 0, 0, 0)
		return
	}

	kinds := operandKinds[inst.Shape]
	first := 0
	switch len(operands) {
	case 3:
	case 2:
		first = 1
	default:
		err = errors.Join(ErrMalformedLine, ErrOperandCount)
		return
	}

	for n, operand := range operands {
		field := first + n
		switch kinds[field] {
		case operandRegister:
			fields[field], err = register(operand)
		case operandImmediate:
			fields[field], err = immediate(operand)
		}
		if err != nil {
			err = &ErrOperand{Index: n + 1, Err: err}
			return
		}
	}

	word = isa.MakeWord(inst.Opcode, fields[0], fields[1], fields[2])
	return
}

// Decode disassembles a single word. Reserved opcodes produce an
// "Unknown instruction" line holding the raw word.
func Decode(word isa.Word) string {
	inst, ok := isa.LookupOpcode(word.Opcode())
	if !ok {
		return fmt.Sprintf("Unknown instruction: 0x%04X", uint16(word))
	}

	op1, op2, op3 := word.Operands()
	reg := isa.RegisterName

	switch inst.Shape {
	case isa.SHAPE_R:
		// CMP only sets flags; its destination field is unused.
		if inst.Opcode == isa.OP_CMP {
			return fmt.Sprintf("%s %s, %s", inst.Mnemonic, reg(op2), reg(op3))
		}
		return fmt.Sprintf("%s %s, %s, %s", inst.Mnemonic, reg(op1), reg(op2), reg(op3))
	case isa.SHAPE_I:
		// JUMP is absolute; its register field is unused.
		if inst.Opcode == isa.OP_JUMP {
			return fmt.Sprintf("%s %d, %d", inst.Mnemonic, op2, op3)
		}
		return fmt.Sprintf("%s %s, %d, %d", inst.Mnemonic, reg(op1), op2, op3)
	case isa.SHAPE_RI:
		return fmt.Sprintf("%s %s, %s, %d", inst.Mnemonic, reg(op1), reg(op2), op3)
	}

	return inst.Mnemonic
}

// IsKnown returns true if the word's opcode is assigned.
func IsKnown(word isa.Word) bool {
	_, ok := isa.LookupOpcode(word.Opcode())
	return ok
}
