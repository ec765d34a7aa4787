// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ezrec/gr16/isa"
)

// WriteImage writes words as a flat, headerless image in host byte order.
func WriteImage(w io.Writer, words []isa.Word) (n int64, err error) {
	buf := make([]byte, 2*len(words))
	for i, word := range words {
		binary.NativeEndian.PutUint16(buf[2*i:], uint16(word))
	}

	nn, err := w.Write(buf)
	n = int64(nn)
	return
}

// ReadImage reads a flat image written by WriteImage.
func ReadImage(r io.Reader) (words []isa.Word, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}

	if len(data)%2 != 0 {
		err = ErrImageTruncated
		return
	}

	words = make([]isa.Word, len(data)/2)
	for i := range words {
		words[i] = isa.Word(binary.NativeEndian.Uint16(data[2*i:]))
	}

	return
}

// Disassemble writes one decoded line per word, and returns the number of
// words with reserved opcodes.
func Disassemble(w io.Writer, words []isa.Word) (unknown int, err error) {
	for _, word := range words {
		if !IsKnown(word) {
			unknown++
		}
		_, err = fmt.Fprintln(w, Decode(word))
		if err != nil {
			return
		}
	}

	return
}
