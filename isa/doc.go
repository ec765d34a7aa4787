// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package isa defines the gr16 instruction set.
//
// Every instruction is a single 16-bit word. The top five bits select the
// opcode; the remaining eleven bits are split into three operand fields whose
// meaning (register index or immediate nibble) is fixed per opcode by its
// Shape:
//
//	15      11 10   8 7     4 3     0
//	+---------+------+-------+-------+
//	| opcode  | op1  |  op2  |  op3  |
//	+---------+------+-------+-------+
//
// The instruction table in this package is the single source of truth for
// both the assembler and the CPU.
package isa
