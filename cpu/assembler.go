// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/y86/internal"
)

// DELIMITERS separate assembly tokens in addition to white space.
const DELIMITERS = "$(),%"

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":         "0",
	"REGISTER_COUNT": fmt.Sprintf("%v", REGISTER_COUNT),
}

// Token is one word of assembly source.
type Token struct {
	Text   string // Token text, delimiters removed.
	LineNo int    // Source line number, 1 based.
	Line   string // Source line the token came from.
}

// Assembler is a token driven assembler for the y86 instruction set.
// Addresses and displacements in the source are literal; there are no
// labels and no relocation.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Origin  int32    // Address the program is intended to load at.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// parseNumber parses a decimal or 0x prefixed hex number, optionally
// negative, that fits in 32 bits signed or unsigned.
func parseNumber(word string) (value int32, err error) {
	digits := word
	negative := false
	if strings.HasPrefix(digits, "-") {
		negative = true
		digits = digits[1:]
	} else if strings.HasPrefix(digits, "+") {
		digits = digits[1:]
	}

	base := 10
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		base = 16
		digits = digits[2:]
	}

	u64, perr := strconv.ParseUint(digits, base, 33)
	if perr != nil || u64 > 0xffffffff {
		err = ErrParseNumber(word)
		return
	}

	v64 := int64(u64)
	if negative {
		v64 = -v64
	}
	if v64 < -int64(0x80000000) {
		err = ErrParseNumber(word)
		return
	}

	value = int32(uint32(v64))
	return
}

// parseDest parses a jump or call target of one to eight hex digits.
func parseDest(word string) (value int32, err error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(word, "0x"), "0X")
	if len(digits) == 0 || len(digits) > 8 {
		err = ErrParseNumber(word)
		return
	}

	value, err = internal.HexToInt(digits)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value32 int32
		value32, err = parseNumber(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt(int(value32))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
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

var (
	reComment = regexp.MustCompile(`[#;].*$`)
	reParen   = regexp.MustCompile(`\$\(((?:[^()]|\([^()]*\))*)\)`)
)

// parseLine turns a single line of source into tokens.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#x", value)
	})
	if err != nil {
		return
	}

	words = internal.Tokenize(line, DELIMITERS)
	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var tokens []Token

	asm.Opcode = asm.Opcode[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(reComment.ReplaceAllString(text, ""))

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
			return
		}

		for _, word := range words {
			tokens = append(tokens, Token{Text: word, LineNo: lineno, Line: line})
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	prog, err = asm.Assemble(tokens)
	return
}

// Assemble assembles a token stream. Each mnemonic consumes a fixed number
// of following tokens as its operands. Assembly stops at the first error.
func (asm *Assembler) Assemble(tokens []Token) (prog *Program, err error) {
	asm.Opcode = asm.Opcode[:0]
	ip := asm.Origin

	for pos := 0; pos < len(tokens); {
		token := tokens[pos]
		pos++

		var opcode Opcode
		opcode, pos, err = asm.parseInstruction(token, tokens, pos)
		if err != nil {
			err = &ErrSyntax{LineNo: token.LineNo, Line: token.Line, Err: err}
			return
		}

		opcode.Ip = int(ip)
		asm.Opcode = append(asm.Opcode, opcode)

		inst, _ := LookupOp(opcode.Code.Op)
		ip += int32(inst.Length())
	}

	prog = &Program{
		Origin:  asm.Origin,
		Opcodes: append([]Opcode(nil), asm.Opcode...),
	}

	return
}

// parseInstruction parses the mnemonic token and the operand tokens that
// follow it at tokens[pos:].
func (asm *Assembler) parseInstruction(token Token, tokens []Token, pos_in int) (opcode Opcode, pos int, err error) {
	pos = pos_in

	inst, ok := LookupMnemonic(token.Text)
	if !ok {
		err = ErrMnemonic(token.Text)
		return
	}

	code := Code{Op: inst.Op, RegA: REG_NONE, RegB: REG_NONE}
	words := []string{token.Text}

	for slot, arg := range inst.Args {
		if pos >= len(tokens) {
			err = &ErrOperand{Mnemonic: inst.Mnemonic, Slot: slot}
			return
		}
		word := tokens[pos].Text
		pos++

		var operr error
		switch arg {
		case ARG_REG_A:
			code.RegA, operr = RegisterIndex(word)
		case ARG_REG_B:
			code.RegB, operr = RegisterIndex(word)
		case ARG_IMM, ARG_DISP:
			code.Value, operr = parseNumber(word)
		case ARG_DEST:
			code.Value, operr = parseDest(word)
		}
		if operr != nil {
			err = &ErrOperand{Mnemonic: inst.Mnemonic, Slot: slot, Token: word, Err: operr}
			return
		}

		words = append(words, word)
	}

	if asm.Verbose {
		log.Printf("  %v", code)
	}

	opcode = Opcode{LineNo: token.LineNo, Words: words, Code: code}
	return
}

// AssembleTokens assembles a token stream into a string of hex digit pairs.
func AssembleTokens(words []string) (text string, err error) {
	tokens := make([]Token, len(words))
	for n, word := range words {
		tokens[n] = Token{Text: word, Line: word}
	}

	asm := &Assembler{}
	prog, err := asm.Assemble(tokens)
	if err != nil {
		return
	}

	text, err = prog.Hex()
	return
}
