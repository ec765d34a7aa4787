// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package asm translates between gr16 assembly text and machine words.
//
// Encode and Decode handle single instructions. The Assembler handles whole
// source files, adding comments, labels, equates, macros, 'x' character
// literals and $(...) compile-time expressions on top of the plain
// one-instruction-per-line format:
//
//	        .equ STEP 3
//	.macro  JMP target
//	        JUMP $(target >> 4), $(target & 15)
//	.endm
//	start:  ADDI gr0, 0, 5        ; gr0 += 5
//	        ADDI gr0, 0, STEP
//	        JMP done
//	done:   HALT
//
// LINENO is predefined as the number of the line being assembled.
//
// Program images are flat sequences of 16-bit words in host byte order.
package asm
