// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/gr16/isa"
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":   fmt.Sprintf("%d", isa.MEMORY_SIZE),
	"NUM_REGISTERS": fmt.Sprintf("%d", isa.NUM_REGISTERS),
}

// State is the execution state of the CPU.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_RUNNING = State(0) // running
	STATE_HALTED  = State(1) // halted
	STATE_FAULTED = State(2) // faulted
)

// Cpu is the simulation context for the gr16 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Pc       uint16                    // Program counter, in words.
	Register [isa.NUM_REGISTERS]uint16 // Register bank.
	NF       bool                      // Negative flag.
	ZF       bool                      // Zero flag.
	CF       bool                      // Carry flag.
	Inst     [isa.MEMORY_SIZE]isa.Word // Instruction memory.
	Data     [isa.MEMORY_SIZE]uint16   // Data memory.

	State State // Execution state.
	Fault error // Reason for STATE_FAULTED.
	Ticks int   // Instructions executed since reset.
}

// NewCpu creates a new CPU with all state zeroed.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears the registers, flags and data memory.
// - Zeros the program counter and tick counter.
// - Keeps the loaded program.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Pc = 0
	clear(cpu.Register[:])
	cpu.NF = false
	cpu.ZF = false
	cpu.CF = false
	clear(cpu.Data[:])

	cpu.State = STATE_RUNNING
	cpu.Fault = nil
	cpu.Ticks = 0
}

// Load copies a program into instruction memory, starting at address 0,
// and resets the CPU.
func (cpu *Cpu) Load(words []isa.Word) (err error) {
	if len(words) > len(cpu.Inst) {
		err = ErrProgramTooLarge
		return
	}

	clear(cpu.Inst[:])
	copy(cpu.Inst[:], words)

	if cpu.Verbose {
		log.Printf("cpu: loaded %d words", len(words))
	}

	cpu.Reset()

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %04X\n", "pc", cpu.Pc)
	for n, val := range cpu.Register {
		text += fmt.Sprintf("% 5s: %04X\n", isa.RegisterName(uint8(n)), val)
	}

	flags := []byte("---")
	if cpu.NF {
		flags[0] = 'N'
	}
	if cpu.ZF {
		flags[1] = 'Z'
	}
	if cpu.CF {
		flags[2] = 'C'
	}
	text += fmt.Sprintf("% 5s: %s\n", "flags", string(flags))
	text += fmt.Sprintf("% 5s: %v\n", "state", cpu.State)

	return
}

// Fetch reads the instruction at the program counter.
func (cpu *Cpu) Fetch() (word isa.Word, err error) {
	if int(cpu.Pc) >= len(cpu.Inst) {
		err = errors.Join(ErrFetch(cpu.Pc), ErrAddressRange)
		return
	}

	word = cpu.Inst[cpu.Pc]
	return
}

// Tick executes a single CPU instruction cycle.
//
// Returns ErrHalt after HALT, and the fault after any fault. Once stopped,
// further ticks return the same error without changing state.
func (cpu *Cpu) Tick() (err error) {
	switch cpu.State {
	case STATE_HALTED:
		return ErrHalt
	case STATE_FAULTED:
		return cpu.Fault
	}

	word, err := cpu.Fetch()
	if err == nil {
		err = cpu.Execute(word)
	}

	switch {
	case err == nil:
		cpu.Ticks += 1
	case errors.Is(err, ErrHalt):
		cpu.Ticks += 1
		cpu.State = STATE_HALTED
	default:
		cpu.State = STATE_FAULTED
		cpu.Fault = err
		if cpu.Verbose {
			log.Printf("cpu: fault: %v", err)
		}
	}

	return
}

// Execute executes a single instruction at the current program counter.
//
// Faults leave the registers, flags, memory and program counter untouched.
func (cpu *Cpu) Execute(word isa.Word) (err error) {
	defer func() {
		if err != nil && err != ErrHalt {
			err = errors.Join(ErrInstruction{Pc: cpu.Pc, Word: word}, err)
		}
	}()

	if cpu.Verbose {
		log.Printf("%04x: %v", cpu.Pc, word)
	}

	op := word.Opcode()
	op1, op2, op3 := word.Operands()
	imm := uint16(word.Immediate())

	// Work on copies, committed only on success.
	reg := cpu.Register
	nf, zf, cf := cpu.NF, cpu.ZF, cpu.CF
	next_pc := cpu.Pc + 1

	store_addr := -1
	var store_value uint16

	read := func(index uint8) (value uint16) {
		if int(index) >= len(reg) {
			err = ErrRegisterInvalid
			return
		}
		return reg[index]
	}

	address := func(base uint16, offset uint8) (addr int) {
		addr = int(base) + int(offset)
		if addr >= len(cpu.Data) {
			err = ErrAddressRange
		}
		return
	}

	branch := func(taken bool) {
		if taken {
			next_pc = reg[op1] + imm
		}
	}

	switch op {
	case isa.OP_NOP:
		// pass
	case isa.OP_HALT:
		return ErrHalt
	case isa.OP_LOAD:
		addr := address(read(op2), op3)
		if err != nil {
			return
		}
		reg[op1] = cpu.Data[addr]
	case isa.OP_STORE:
		addr := address(read(op2), op3)
		if err != nil {
			return
		}
		store_addr = addr
		store_value = reg[op1]
	case isa.OP_LDIH:
		reg[op1] += (uint16(op2)<<12 | uint16(op3)<<8) & 0xff00
	case isa.OP_ADD:
		reg[op1] = read(op2) + read(op3)
	case isa.OP_ADDI:
		reg[op1] += imm
	case isa.OP_ADDC:
		sum := uint32(read(op2)) + uint32(read(op3))
		if cf {
			sum++
		}
		reg[op1] = uint16(sum)
		cf = sum > 0xffff
	case isa.OP_SUB:
		reg[op1] = read(op2) - read(op3)
	case isa.OP_SUBI:
		reg[op1] -= imm
	case isa.OP_SUBC:
		diff := uint32(read(op2)) - uint32(read(op3))
		if cf {
			diff--
		}
		reg[op1] = uint16(diff)
		cf = diff > 0xffff
	case isa.OP_CMP:
		result := read(op2) - read(op3)
		zf = result == 0
		nf = (result & 0x8000) != 0
	case isa.OP_AND:
		reg[op1] = read(op2) & read(op3)
	case isa.OP_OR:
		reg[op1] = read(op2) | read(op3)
	case isa.OP_XOR:
		reg[op1] = read(op2) ^ read(op3)
	case isa.OP_SLL, isa.OP_SLA:
		reg[op1] = read(op2) << op3
	case isa.OP_SRL:
		reg[op1] = read(op2) >> op3
	case isa.OP_SRA:
		reg[op1] = uint16(int16(read(op2)) >> op3)
	case isa.OP_JUMP:
		next_pc = imm
	case isa.OP_JMPR:
		branch(true)
	case isa.OP_BZ:
		branch(zf)
	case isa.OP_BNZ:
		branch(!zf)
	case isa.OP_BN:
		branch(nf)
	case isa.OP_BNN:
		branch(!nf)
	case isa.OP_BC:
		branch(cf)
	case isa.OP_BNC:
		branch(!cf)
	default:
		err = ErrUnknownOpcode
		return
	}

	if err != nil {
		return
	}

	cpu.Register = reg
	cpu.NF, cpu.ZF, cpu.CF = nf, zf, cf
	if store_addr >= 0 {
		cpu.Data[store_addr] = store_value
	}
	cpu.Pc = next_pc

	return
}
