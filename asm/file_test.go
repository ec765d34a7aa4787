package asm

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembleFile(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "prog.asm")
	bin := filepath.Join(dir, "a.bin")
	txt := filepath.Join(dir, "a.asm")

	err := os.WriteFile(src, []byte("ADDI gr0, 0, 5\nCMP gr0, gr1\nJUMP 0, 0\nHALT\n"), 0o644)
	assert.NoError(err)

	asm := &Assembler{}
	prog, err := asm.AssembleFile(src, bin)
	assert.NoError(err)
	assert.Equal(4, len(prog.Statements))

	data, err := os.ReadFile(bin)
	assert.NoError(err)
	assert.Equal(8, len(data))

	words, err := ReadImageFile(bin)
	assert.NoError(err)
	assert.Equal(prog.Binary(), words)

	unknown, err := DisassembleFile(bin, txt)
	assert.NoError(err)
	assert.Equal(0, unknown)

	text, err := os.ReadFile(txt)
	assert.NoError(err)
	assert.Equal("ADDI gr0, 0, 5\nCMP gr0, gr1\nJUMP 0, 0\nHALT\n", string(text))

	// The disassembly assembles back to the same image.
	again, err := asm.AssembleFile(txt, filepath.Join(dir, "b.bin"))
	assert.NoError(err)
	assert.Equal(prog.Binary(), again.Binary())
}

func TestAssembleFileErrors(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.asm")

	asm := &Assembler{}
	_, err := asm.AssembleFile(missing, filepath.Join(dir, "a.bin"))
	var file *ErrFile
	if assert.True(errors.As(err, &file)) {
		assert.Equal(missing, file.Path)
	}
	assert.ErrorIs(err, os.ErrNotExist)

	// No image is written for a source with errors.
	src := filepath.Join(dir, "bad.asm")
	assert.NoError(os.WriteFile(src, []byte("NOP\nBOGUS\n"), 0o644))
	bin := filepath.Join(dir, "bad.bin")
	_, err = asm.AssembleFile(src, bin)
	assert.ErrorIs(err, ErrUnknownMnemonic("BOGUS"))
	_, err = os.Stat(bin)
	assert.ErrorIs(err, os.ErrNotExist)

	_, err = DisassembleFile(missing, filepath.Join(dir, "a.asm"))
	assert.True(errors.As(err, &file))

	odd := filepath.Join(dir, "odd.bin")
	assert.NoError(os.WriteFile(odd, []byte{0}, 0o644))
	_, err = ReadImageFile(odd)
	assert.ErrorIs(err, ErrImageTruncated)
}
