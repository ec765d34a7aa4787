// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"strings"

	"github.com/ezrec/gr16/isa"
)

// Snapshot is a read-only view of the CPU taken before an instruction
// executes.
type Snapshot struct {
	Pc       uint16
	Fetched  bool     // Set if Pc is inside instruction memory.
	Word     isa.Word // Instruction at Pc.
	Register [isa.NUM_REGISTERS]uint16
	NF       bool
	ZF       bool
	CF       bool

	HasData   bool   // Set for LOAD and STORE with a valid address.
	DataAddr  uint16 // Data memory cell the instruction touches.
	DataValue uint16 // Current value of that cell.
}

// Snapshot captures the current state and instruction.
func (cpu *Cpu) Snapshot() (snap Snapshot) {
	snap = Snapshot{
		Pc:       cpu.Pc,
		Register: cpu.Register,
		NF:       cpu.NF,
		ZF:       cpu.ZF,
		CF:       cpu.CF,
	}

	word, err := cpu.Fetch()
	if err != nil {
		return
	}
	snap.Fetched = true
	snap.Word = word

	switch word.Opcode() {
	case isa.OP_LOAD, isa.OP_STORE:
		_, op2, op3 := word.Operands()
		if int(op2) >= len(cpu.Register) {
			break
		}
		addr := int(cpu.Register[op2]) + int(op3)
		if addr < len(cpu.Data) {
			snap.HasData = true
			snap.DataAddr = uint16(addr)
			snap.DataValue = cpu.Data[addr]
		}
	}

	return
}

func bit(flag bool) int {
	if flag {
		return 1
	}
	return 0
}

// String renders the snapshot as a multi-line state dump.
func (snap Snapshot) String() string {
	var sb strings.Builder

	if snap.Fetched {
		op1, op2, op3 := snap.Word.Operands()
		op := snap.Word.Opcode()
		fmt.Fprintf(&sb, "PC: 0x%04X -> %s | Opcode: %v (%d), Op1: %d, Op2: %d, Op3: %d\n",
			snap.Pc, snap.Word.Bits(), op, op, op1, op2, op3)
	} else {
		fmt.Fprintf(&sb, "PC: 0x%04X -> (out of range)\n", snap.Pc)
	}

	sb.WriteString("    Regs(R0-7): ")
	for _, val := range snap.Register {
		fmt.Fprintf(&sb, "0x%04X ", val)
	}
	fmt.Fprintf(&sb, "NF: %d, ZF: %d, CF: %d\n", bit(snap.NF), bit(snap.ZF), bit(snap.CF))

	if snap.HasData {
		fmt.Fprintf(&sb, "    Data Memory: 0x%04X: 0x%04X\n", snap.DataAddr, snap.DataValue)
	}

	return sb.String()
}
