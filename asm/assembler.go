// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/gr16/isa"
)

const (
	MAX_LINE_LENGTH  = 255 // Longest accepted source line, in bytes.
	MAX_TOKEN_LENGTH = 15  // Longest mnemonic or operand after substitution.
)

var (
	reCharacter  = regexp.MustCompile(`'\\?[^']'`)
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
	reLabel      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a two pass macro assembler for gr16 programs.
//
// Macros are expanded before the first pass. The first pass assigns
// addresses to labels, the second evaluates equates and expressions in
// source order and encodes each instruction.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	predefine  map[string]string   // Predefines
	Label      map[string]int      // Map of labels to instruction addresses.
	Equate     map[string]string   // Map of equates.
	Macro      map[string](*Macro) // Map of macros.
	expansions int                 // Macro invocations so far.
}

// source is a line of the program, after macro expansion.
type source struct {
	lineNo int
	line   string     // Original line text.
	code   string     // Text to assemble; a body line for macro expansions.
	text   string     // code without comment or labels.
	macro  *expansion // Set for lines from a macro body.
}

// wrap locates an error inside the macro body the line came from.
func (src *source) wrap(err error) error {
	if err == nil || src.macro == nil {
		return err
	}

	return &ErrMacro{Macro: src.macro.name, LineNo: src.macro.lineNo, Line: src.macro.line, Err: err}
}

// position is the line number of the text being assembled.
func (src *source) position() int {
	if src.macro != nil {
		return src.macro.lineNo
	}
	return src.lineNo
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// stripLine removes the comment and any labels from a line, recording the
// labels at address ip.
func (asm *Assembler) stripLine(line string, ip int) (text string, err error) {
	text, _, _ = strings.Cut(line, ";")
	text = strings.TrimSpace(text)

	for {
		word, rest := cutSpace(text)
		if !strings.HasSuffix(word, ":") {
			break
		}

		label := word[:len(word)-1]
		if !validName(label) {
			err = ErrLabelInvalid
			return
		}
		if _, ok := asm.Label[label]; ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = ip
		text = strings.TrimSpace(rest)
	}

	return
}

// cutSpace slices text around its first run of white space.
func cutSpace(text string) (word, rest string) {
	n := strings.IndexFunc(text, unicode.IsSpace)
	if n < 0 {
		return text, ""
	}
	return text[:n], strings.TrimSpace(text[n:])
}

// validName returns true if name can be used as a label or equate.
// Register names are reserved.
func validName(name string) bool {
	if _, ok := isa.LookupRegister(name); ok {
		return false
	}
	return reLabel.MatchString(name)
}

// isDirective returns true for lines that do not produce an instruction.
func isDirective(text string) bool {
	return strings.HasPrefix(text, ".")
}

// valueOf returns the integer value of an equate, label or number.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	if ip, ok := asm.Label[word]; ok {
		value = int64(ip)
		return
	}
	if equ, ok := asm.Equate[word]; ok {
		word = equ
	}

	return parseInteger(word)
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key := range asm.Equate {
		var value64 int64
		value64, err = asm.valueOf(key)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(value64)
	}
	for key, ip := range asm.Label {
		pred[key] = starlark.MakeInt(ip)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}

	return
}

// character returns the value of a 'x' character literal, or the literal
// itself if it is not understood.
func character(word string) string {
	str := word[1 : len(word)-1]
	if str[0] == '\\' {
		switch str[1:] {
		case "\\":
			str = "\\"
		case "n":
			str = "\n"
		case "r":
			str = "\r"
		case "t":
			str = "\t"
		case "e":
			str = "\033"
		case "0":
			str = "\000"
		default:
			return word
		}
	} else if len(str) != 1 {
		return word
	}

	return fmt.Sprintf("%d", str[0])
}

// expand replaces every 'x' character literal, then every $(...), in the
// text with its decimal value.
func (asm *Assembler) expand(text string) (out string, err error) {
	out = reCharacter.ReplaceAllStringFunc(text, character)
	out = reExpression.ReplaceAllStringFunc(out, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil && err == nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	return
}

// splitInstruction splits "MNEMONIC a, b, c" into its words.
func splitInstruction(text string) (mnemonic string, operands []string, err error) {
	mnemonic, rest := cutSpace(text)
	mnemonic = strings.ToUpper(mnemonic)

	if len(rest) == 0 {
		return
	}

	operands, err = splitOperands(rest)
	return
}

// splitOperands splits "a, b, c". Operands may not be empty or contain
// white space.
func splitOperands(text string) (operands []string, err error) {
	for _, operand := range strings.Split(text, ",") {
		operand = strings.TrimSpace(operand)
		if len(operand) == 0 || strings.ContainsFunc(operand, unicode.IsSpace) {
			err = ErrMalformedLine
			return
		}
		operands = append(operands, operand)
	}

	return
}

// defineEquate handles ".equ NAME VALUE".
func (asm *Assembler) defineEquate(text string) (err error) {
	words := strings.Fields(text)
	if len(words) != 3 || words[0] != ".equ" {
		err = ErrEquateSyntax
		return
	}

	name := words[1]
	if !validName(name) {
		err = ErrEquateSyntax
		return
	}
	if _, ok := asm.Equate[name]; ok {
		err = ErrEquateDuplicate
		return
	}

	asm.Equate[name] = words[2]
	return
}

// parseWords encodes one instruction line.
func (asm *Assembler) parseWords(text string) (words []string, word isa.Word, err error) {
	mnemonic, operands, err := splitInstruction(text)
	if err != nil {
		return
	}

	for n, operand := range operands {
		if ip, ok := asm.Label[operand]; ok {
			operands[n] = fmt.Sprintf("%d", ip)
		} else if equ, ok := asm.Equate[operand]; ok {
			operands[n] = equ
		}
	}

	words = append([]string{mnemonic}, operands...)
	for _, token := range words {
		if len(token) > MAX_TOKEN_LENGTH {
			err = errors.Join(ErrMalformedLine, ErrTokenTooLong)
			return
		}
	}

	word, err = Encode(mnemonic, operands...)
	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = make(map[string]int, 16)
	asm.Equate = maps.Clone(sysEquate)
	maps.Copy(asm.Equate, asm.predefine)
	asm.Macro = make(map[string](*Macro))
	asm.expansions = 0

	var sources []source
	for scanner.Scan() {
		line = scanner.Text()
		lineno += 1

		if len(line) > MAX_LINE_LENGTH {
			err = errors.Join(ErrMalformedLine, ErrLineTooLong)
			return
		}
		sources = append(sources, source{lineNo: lineno, line: line, code: line})
	}
	if err = scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			lineno += 1
			line = ""
			err = errors.Join(ErrMalformedLine, ErrLineTooLong)
		}
		return
	}

	expanded, at, err := asm.expandMacros(sources)
	if err != nil {
		line, lineno = sources[at].line, sources[at].lineNo
		return
	}
	sources = expanded

	// Pass 1: label addresses. Only instructions occupy an address.
	ip := 0
	for n := range sources {
		src := &sources[n]
		line, lineno = src.line, src.lineNo
		src.text, err = asm.stripLine(src.code, ip)
		if err != nil {
			err = src.wrap(err)
			return
		}
		if len(src.text) != 0 && !isDirective(src.text) {
			ip++
		}
	}

	if ip > isa.MEMORY_SIZE {
		err = ErrProgramTooLarge
		return
	}

	// Pass 2: equates and encoding, in source order.
	prog = &Program{}
	for n := range sources {
		src := &sources[n]
		line, lineno = src.line, src.lineNo
		if len(src.text) == 0 {
			continue
		}

		if asm.Verbose {
			log.Printf("%v: %v", src.position(), src.text)
		}

		var statement *Statement
		statement, err = asm.assemble(src, len(prog.Statements))
		if err != nil {
			err = src.wrap(err)
			return
		}
		if statement != nil {
			prog.Statements = append(prog.Statements, *statement)
		}
	}

	return
}

// assemble handles a single line in the second pass. Directives produce no
// statement.
func (asm *Assembler) assemble(src *source, ip int) (statement *Statement, err error) {
	asm.Equate["LINENO"] = fmt.Sprintf("%d", src.position())

	text, err := asm.expand(src.text)
	if err != nil {
		return
	}

	if isDirective(text) {
		err = asm.defineEquate(text)
		return
	}

	words, word, err := asm.parseWords(text)
	if err != nil {
		return
	}

	statement = &Statement{
		LineNo: src.lineNo,
		Ip:     ip,
		Words:  words,
		Word:   word,
	}

	return
}
