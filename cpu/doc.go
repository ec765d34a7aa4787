// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package cpu implements the gr16 processor.
//
// The CPU consists of a 16-bit program counter (PC), eight 16-bit
// general-purpose registers (gr0-gr7), the negative, zero and carry flags,
// and two disjoint memories of 256 words each: one for instructions, one for
// data. Each Tick fetches, decodes and executes a single instruction.
//
// A run ends when HALT executes, or when the CPU faults on a reserved opcode
// or an out of range address. Both are terminal: the CPU keeps returning the
// same error until it is Reset.
package cpu
