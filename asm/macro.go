// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/ezrec/gr16/isa"
)

// MAX_MACRO_DEPTH limits macros invoking macros.
const MAX_MACRO_DEPTH = 8

// Macro represents a macro definition in the assembly language.
//
//	.macro NAME arg, ...
//	        ...
//	.endm
//
// An invocation `NAME value, ...` is replaced by the body, with each
// argument name replaced by its value and each `@` replaced by a prefix
// unique to the invocation, for local labels.
type Macro struct {
	LineNo int      // Line number of the first body line.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand, comments removed.
}

// expansion locates a source line produced by a macro.
type expansion struct {
	name   string
	lineNo int
	line   string
}

// stripComment removes a trailing comment and surrounding white space.
func stripComment(line string) string {
	text, _, _ := strings.Cut(line, ";")
	return strings.TrimSpace(text)
}

// defineMacro handles the remainder of a ".macro NAME arg..." line.
func (asm *Assembler) defineMacro(rest string, lineNo int) (macro *Macro, err error) {
	words := strings.FieldsFunc(rest, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(words) == 0 {
		err = ErrMacroSyntax
		return
	}

	name := words[0]
	if !validName(name) {
		err = ErrMacroSyntax
		return
	}
	if _, ok := isa.LookupMnemonic(strings.ToUpper(name)); ok {
		err = ErrMacroSyntax
		return
	}
	if _, ok := asm.Macro[name]; ok {
		err = ErrMacroDuplicate
		return
	}

	macro = &Macro{
		LineNo: lineNo,
		Args:   words[1:],
	}
	for n, arg := range macro.Args {
		if !validName(arg) || slices.Contains(macro.Args[:n], arg) {
			err = ErrMacroSyntax
			return
		}
	}

	asm.Macro[name] = macro

	return
}

// expandMacros collects the macro definitions and expands every
// invocation. at is the index of the offending source on error.
func (asm *Assembler) expandMacros(sources []source) (out []source, at int, err error) {
	var macro *Macro
	var start int

	for n, src := range sources {
		at = n
		text := stripComment(src.line)
		word, rest := cutSpace(text)

		switch {
		case word == ".macro":
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			macro, err = asm.defineMacro(rest, src.lineNo+1)
			if err != nil {
				return
			}
			start = n
		case word == ".endm":
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			if len(rest) != 0 {
				err = ErrMacroSyntax
				return
			}
			macro = nil
		case macro != nil:
			macro.Lines = append(macro.Lines, text)
		default:
			out, err = asm.expandLine(out, src, 0)
			if err != nil {
				return
			}
		}
	}

	if macro != nil {
		at = start
		err = ErrMacroLonely
	}

	return
}

// expandLine appends src to out, or the body of the macro it invokes.
func (asm *Assembler) expandLine(out []source, src source, depth int) ([]source, error) {
	text := stripComment(src.code)

	// Labels stay with the invocation.
	var labels []string
	for {
		word, rest := cutSpace(text)
		if !strings.HasSuffix(word, ":") {
			break
		}
		labels = append(labels, word)
		text = rest
	}

	name, rest := cutSpace(text)
	macro, ok := asm.Macro[name]
	if !ok {
		return append(out, src), nil
	}

	if depth >= MAX_MACRO_DEPTH {
		return out, ErrMacroDepth
	}

	var values []string
	if len(rest) != 0 {
		var err error
		values, err = splitOperands(rest)
		if err != nil {
			return out, err
		}
	}
	if len(values) != len(macro.Args) {
		return out, ErrMacroSyntax
	}

	if len(labels) != 0 {
		label := src
		label.code = strings.Join(labels, " ")
		out = append(out, label)
	}

	asm.expansions++
	local := fmt.Sprintf("%v_%v_", name, asm.expansions)

	var reArgs *regexp.Regexp
	if len(macro.Args) != 0 {
		quoted := make([]string, len(macro.Args))
		for n, arg := range macro.Args {
			quoted[n] = regexp.QuoteMeta(arg)
		}
		reArgs = regexp.MustCompile(`\b(` + strings.Join(quoted, "|") + `)\b`)
	}

	for n, body := range macro.Lines {
		if reArgs != nil {
			body = reArgs.ReplaceAllStringFunc(body, func(arg string) string {
				return values[slices.Index(macro.Args, arg)]
			})
		}
		body = strings.ReplaceAll(body, "@", local)

		line := source{
			lineNo: src.lineNo,
			line:   src.line,
			code:   body,
			macro:  &expansion{name: name, lineNo: macro.LineNo + n, line: body},
		}

		var err error
		out, err = asm.expandLine(out, line, depth+1)
		if err != nil {
			return out, &ErrMacro{Macro: name, LineNo: macro.LineNo + n, Line: body, Err: err}
		}
	}

	return out, nil
}
