// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"bufio"
	"os"

	"github.com/ezrec/gr16/isa"
)

// AssembleFile assembles the source file in to the image file out. The
// image is only created once the whole source has assembled.
func (asm *Assembler) AssembleFile(in, out string) (prog *Program, err error) {
	inf, err := os.Open(in)
	if err != nil {
		err = &ErrFile{Path: in, Err: err}
		return
	}
	defer inf.Close()

	prog, err = asm.Parse(inf)
	if err != nil {
		return
	}

	ouf, err := os.Create(out)
	if err != nil {
		err = &ErrFile{Path: out, Err: err}
		return
	}

	_, err = prog.WriteTo(ouf)
	if err != nil {
		ouf.Close()
		err = &ErrFile{Path: out, Err: err}
		return
	}

	err = ouf.Close()
	if err != nil {
		err = &ErrFile{Path: out, Err: err}
	}

	return
}

// DisassembleFile disassembles the image file in to the text file out.
func DisassembleFile(in, out string) (unknown int, err error) {
	inf, err := os.Open(in)
	if err != nil {
		err = &ErrFile{Path: in, Err: err}
		return
	}
	defer inf.Close()

	words, err := ReadImage(bufio.NewReader(inf))
	if err != nil {
		err = &ErrFile{Path: in, Err: err}
		return
	}

	ouf, err := os.Create(out)
	if err != nil {
		err = &ErrFile{Path: out, Err: err}
		return
	}

	wr := bufio.NewWriter(ouf)
	unknown, err = Disassemble(wr, words)
	if err == nil {
		err = wr.Flush()
	}
	if cerr := ouf.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		err = &ErrFile{Path: out, Err: err}
	}

	return
}

// ReadImageFile reads a program image from a file.
func ReadImageFile(path string) (words []isa.Word, err error) {
	inf, err := os.Open(path)
	if err != nil {
		err = &ErrFile{Path: path, Err: err}
		return
	}
	defer inf.Close()

	words, err = ReadImage(bufio.NewReader(inf))
	if err != nil {
		err = &ErrFile{Path: path, Err: err}
	}

	return
}
