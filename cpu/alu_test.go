package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/gr16/isa"
)

type flags struct {
	n, z, c bool
}

func TestExecute(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		word     isa.Word
		register [isa.NUM_REGISTERS]uint16
		flags    flags
		expected [isa.NUM_REGISTERS]uint16
		after    flags
	}){
		{"nop", w(isa.OP_NOP, 0, 0, 0), [8]uint16{1, 2}, flags{true, true, true}, [8]uint16{1, 2}, flags{true, true, true}},
		{"add", w(isa.OP_ADD, 1, 2, 3), [8]uint16{0, 0, 0xfff0, 0x20}, flags{}, [8]uint16{0, 0x10, 0xfff0, 0x20}, flags{}},
		{"add self", w(isa.OP_ADD, 2, 2, 2), [8]uint16{0, 0, 0x21}, flags{}, [8]uint16{0, 0, 0x42}, flags{}},
		{"addi", w(isa.OP_ADDI, 3, 0x1, 0x2), [8]uint16{3: 0x100}, flags{}, [8]uint16{3: 0x112}, flags{}},
		{"addi wrap", w(isa.OP_ADDI, 0, 0xf, 0xf), [8]uint16{0xff01}, flags{}, [8]uint16{0x0000}, flags{}},
		{"addc carry out", w(isa.OP_ADDC, 1, 2, 3), [8]uint16{2: 0xffff, 3: 0x0001}, flags{}, [8]uint16{1: 0x0000, 2: 0xffff, 3: 0x0001}, flags{c: true}},
		{"addc carry in", w(isa.OP_ADDC, 1, 2, 3), [8]uint16{2: 0x0010, 3: 0x0001}, flags{c: true}, [8]uint16{1: 0x0012, 2: 0x0010, 3: 0x0001}, flags{}},
		{"addc carry through", w(isa.OP_ADDC, 1, 2, 3), [8]uint16{2: 0xffff, 3: 0x0000}, flags{c: true}, [8]uint16{1: 0x0000, 2: 0xffff}, flags{c: true}},
		{"sub", w(isa.OP_SUB, 0, 1, 2), [8]uint16{0, 5, 7}, flags{}, [8]uint16{0xfffe, 5, 7}, flags{}},
		{"subi", w(isa.OP_SUBI, 4, 0x1, 0x0), [8]uint16{4: 0x20}, flags{}, [8]uint16{4: 0x10}, flags{}},
		{"subc no borrow", w(isa.OP_SUBC, 0, 1, 2), [8]uint16{0, 9, 4}, flags{c: true}, [8]uint16{4, 9, 4}, flags{}},
		{"subc borrow", w(isa.OP_SUBC, 0, 1, 2), [8]uint16{0, 4, 9}, flags{}, [8]uint16{0xfffb, 4, 9}, flags{c: true}},
		{"subc borrow in", w(isa.OP_SUBC, 0, 1, 2), [8]uint16{0, 4, 4}, flags{c: true}, [8]uint16{0xffff, 4, 4}, flags{c: true}},
		{"cmp equal", w(isa.OP_CMP, 0, 1, 2), [8]uint16{0, 6, 6}, flags{n: true}, [8]uint16{0, 6, 6}, flags{z: true}},
		{"cmp less", w(isa.OP_CMP, 0, 1, 2), [8]uint16{0, 5, 6}, flags{c: true}, [8]uint16{0, 5, 6}, flags{n: true, c: true}},
		{"cmp greater", w(isa.OP_CMP, 7, 1, 2), [8]uint16{0, 7, 6}, flags{z: true}, [8]uint16{0, 7, 6}, flags{}},
		{"and", w(isa.OP_AND, 0, 1, 2), [8]uint16{0, 0xf0f0, 0xff00}, flags{}, [8]uint16{0xf000, 0xf0f0, 0xff00}, flags{}},
		{"or", w(isa.OP_OR, 0, 1, 2), [8]uint16{0, 0xf0f0, 0xff00}, flags{}, [8]uint16{0xfff0, 0xf0f0, 0xff00}, flags{}},
		{"xor", w(isa.OP_XOR, 0, 1, 2), [8]uint16{0, 0xf0f0, 0xff00}, flags{}, [8]uint16{0x0ff0, 0xf0f0, 0xff00}, flags{}},
		{"sll", w(isa.OP_SLL, 0, 1, 4), [8]uint16{0, 0x8421}, flags{}, [8]uint16{0x4210, 0x8421}, flags{}},
		{"sla", w(isa.OP_SLA, 0, 1, 4), [8]uint16{0, 0x8421}, flags{}, [8]uint16{0x4210, 0x8421}, flags{}},
		{"srl", w(isa.OP_SRL, 0, 1, 4), [8]uint16{0, 0x8421}, flags{}, [8]uint16{0x0842, 0x8421}, flags{}},
		{"sra negative", w(isa.OP_SRA, 0, 1, 4), [8]uint16{0, 0x8421}, flags{}, [8]uint16{0xf842, 0x8421}, flags{}},
		{"sra positive", w(isa.OP_SRA, 0, 1, 4), [8]uint16{0, 0x4821}, flags{}, [8]uint16{0x0482, 0x4821}, flags{}},
		{"sra zero", w(isa.OP_SRA, 0, 1, 0), [8]uint16{0, 0x8001}, flags{}, [8]uint16{0x8001, 0x8001}, flags{}},
		{"sra fifteen", w(isa.OP_SRA, 0, 1, 15), [8]uint16{0, 0x8000}, flags{}, [8]uint16{0xffff, 0x8000}, flags{}},
		{"ldih", w(isa.OP_LDIH, 5, 0xa, 0xb), [8]uint16{5: 0x0012}, flags{}, [8]uint16{5: 0xab12}, flags{}},
		{"ldih adds", w(isa.OP_LDIH, 5, 0x0, 0x1), [8]uint16{5: 0xff12}, flags{}, [8]uint16{5: 0x0012}, flags{}},
	}

	for _, entry := range table {
		cpu := NewCpu()
		cpu.Register = entry.register
		cpu.NF, cpu.ZF, cpu.CF = entry.flags.n, entry.flags.z, entry.flags.c
		cpu.Pc = 0x10

		err := cpu.Execute(entry.word)
		assert.NoError(err, entry.name)
		assert.Equal(entry.expected, cpu.Register, entry.name)
		assert.Equal(entry.after, flags{cpu.NF, cpu.ZF, cpu.CF}, entry.name)
		assert.Equal(uint16(0x11), cpu.Pc, entry.name)
	}
}

// SUBI subtracts its immediate from its own register, like ADDI adds.
// Reading the minuend from the register numbered by the immediate's high
// nibble is not supported.
func TestExecuteSubiImmediate(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Register = [8]uint16{0: 0x100, 1: 0x500}

	// SUBI gr0, 1, 0: gr0 -= 0x10, gr1 is not read.
	assert.NoError(cpu.Execute(w(isa.OP_SUBI, 0, 1, 0)))
	assert.Equal(uint16(0xf0), cpu.Register[0])
	assert.NotEqual(uint16(0x500-0x10), cpu.Register[0])

	// SUBI undoes ADDI.
	assert.NoError(cpu.Execute(w(isa.OP_ADDI, 0, 0x7, 0x3)))
	assert.NoError(cpu.Execute(w(isa.OP_SUBI, 0, 0x7, 0x3)))
	assert.Equal(uint16(0xf0), cpu.Register[0])
}

func TestExecuteMemory(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Register[1] = 0xcafe
	cpu.Register[2] = 0x40

	assert.NoError(cpu.Execute(w(isa.OP_STORE, 1, 2, 3)))
	assert.Equal(uint16(0xcafe), cpu.Data[0x43])
	assert.Equal(uint16(1), cpu.Pc)

	assert.NoError(cpu.Execute(w(isa.OP_LOAD, 4, 2, 3)))
	assert.Equal(uint16(0xcafe), cpu.Register[4])
	assert.Equal(uint16(2), cpu.Pc)

	// Highest cell.
	cpu.Register[2] = 0xf0
	assert.NoError(cpu.Execute(w(isa.OP_STORE, 1, 2, 15)))
	assert.Equal(uint16(0xcafe), cpu.Data[0xff])
}

func TestExecuteBranch(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name  string
		op    isa.Opcode
		flags flags
		taken bool
	}){
		{"bz taken", isa.OP_BZ, flags{z: true}, true},
		{"bz", isa.OP_BZ, flags{n: true, c: true}, false},
		{"bnz taken", isa.OP_BNZ, flags{}, true},
		{"bnz", isa.OP_BNZ, flags{z: true}, false},
		{"bn taken", isa.OP_BN, flags{n: true}, true},
		{"bn", isa.OP_BN, flags{z: true}, false},
		{"bnn taken", isa.OP_BNN, flags{z: true, c: true}, true},
		{"bnn", isa.OP_BNN, flags{n: true}, false},
		{"bc taken", isa.OP_BC, flags{c: true}, true},
		{"bc", isa.OP_BC, flags{n: true, z: true}, false},
		{"bnc taken", isa.OP_BNC, flags{}, true},
		{"bnc", isa.OP_BNC, flags{c: true}, false},
		{"jmpr", isa.OP_JMPR, flags{}, true},
	}

	for _, entry := range table {
		cpu := NewCpu()
		cpu.Register[0] = 0x0010
		cpu.NF, cpu.ZF, cpu.CF = entry.flags.n, entry.flags.z, entry.flags.c
		cpu.Pc = 0x30

		assert.NoError(cpu.Execute(w(entry.op, 0, 0, 5)), entry.name)
		if entry.taken {
			assert.Equal(uint16(0x0015), cpu.Pc, entry.name)
		} else {
			assert.Equal(uint16(0x0031), cpu.Pc, entry.name)
		}
		assert.Equal(entry.flags, flags{cpu.NF, cpu.ZF, cpu.CF}, entry.name)
	}
}

func TestExecuteJump(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Pc = 0x77
	cpu.Register[3] = 0x1000

	// The register field is ignored.
	assert.NoError(cpu.Execute(w(isa.OP_JUMP, 3, 0xa, 0x5)))
	assert.Equal(uint16(0xa5), cpu.Pc)

	assert.NoError(cpu.Execute(w(isa.OP_JMPR, 3, 0x0, 0x2)))
	assert.Equal(uint16(0x1002), cpu.Pc)
}

func TestExecuteHalt(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Pc = 4
	assert.Equal(ErrHalt, cpu.Execute(w(isa.OP_HALT, 0, 0, 0)))
	assert.Equal(uint16(4), cpu.Pc)
}
