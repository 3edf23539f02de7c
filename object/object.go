// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package object reads, writes and loads y86 object files.
//
// An object file is a stream of directives, applied to memory in file order:
//
//	.size    <hex size>             memory size, required
//	.text    <hex addr> <hex bytes> machine code, the first is the entry point
//	.byte    <hex addr> <hex byte>  one byte
//	.long    <hex addr> <decimal>   one little-endian 32-bit word
//	.string  <hex addr> "text"      bytes of text, no terminator
//	.bss     <hex addr> <decimal>   zero fill
//
// A '#' starts a comment that runs to the end of the line.
package object

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ezrec/y86/cpu"
	"github.com/ezrec/y86/internal"
)

const (
	DIRECTIVE_SIZE   = ".size"
	DIRECTIVE_TEXT   = ".text"
	DIRECTIVE_BYTE   = ".byte"
	DIRECTIVE_LONG   = ".long"
	DIRECTIVE_STRING = ".string"
	DIRECTIVE_BSS    = ".bss"
)

// Directive is one memory initializing directive.
type Directive struct {
	LineNo int    // Source line, 0 if generated.
	Kind   string // One of the DIRECTIVE_* names, other than DIRECTIVE_SIZE.
	Addr   int32  // Load address.
	Data   []byte // Bytes stored at Addr.
	Count  int    // Bytes cleared at Addr by DIRECTIVE_BSS.
}

// Length returns the number of bytes of memory the directive touches.
func (dir *Directive) Length() int {
	if dir.Kind == DIRECTIVE_BSS {
		return dir.Count
	}
	return len(dir.Data)
}

// String formats the directive in object file syntax.
func (dir *Directive) String() string {
	var value string
	switch dir.Kind {
	case DIRECTIVE_TEXT:
		value = internal.EncodeHex(dir.Data)
	case DIRECTIVE_BYTE:
		value = fmt.Sprintf("%02x", dir.Data[0])
	case DIRECTIVE_LONG:
		value = strconv.Itoa(int(internal.DecodeLE32([4]byte(dir.Data))))
	case DIRECTIVE_STRING:
		value = strconv.Quote(string(dir.Data))
	case DIRECTIVE_BSS:
		value = strconv.Itoa(dir.Count)
	}

	return fmt.Sprintf("%v %x %v", dir.Kind, uint32(dir.Addr), value)
}

// Object is a parsed object file.
type Object struct {
	Size       int         // Memory size.
	Entry      int32       // Address of the first .text directive.
	Directives []Directive // In file order.
}

// FromProgram creates an object holding an assembled program in a memory of
// size bytes.
func FromProgram(prog *cpu.Program, size int) (obj *Object, err error) {
	bins, err := prog.Binary()
	if err != nil {
		return
	}

	obj = &Object{
		Size:  size,
		Entry: prog.Origin,
		Directives: []Directive{
			{Kind: DIRECTIVE_TEXT, Addr: prog.Origin, Data: bins},
		},
	}

	return
}

// Text returns the DIRECTIVE_TEXT directives.
func (obj *Object) Text() (text []Directive) {
	for _, dir := range obj.Directives {
		if dir.Kind == DIRECTIVE_TEXT {
			text = append(text, dir)
		}
	}
	return
}

// Disassemble lists the machine code of every .text directive.
func (obj *Object) Disassemble() (listing []cpu.Listing, err error) {
	for _, dir := range obj.Text() {
		var part []cpu.Listing
		part, err = cpu.Disassemble(internal.EncodeHex(dir.Data), dir.Addr)
		listing = append(listing, part...)
		if err != nil {
			err = &ErrDirective{LineNo: dir.LineNo, Directive: dir.Kind, Err: err}
			return
		}
	}

	return
}

// Marshal writes the object in object file syntax.
func (obj *Object) Marshal(w io.Writer) (err error) {
	_, err = fmt.Fprintf(w, "%v %x\n", DIRECTIVE_SIZE, obj.Size)
	if err != nil {
		return
	}

	for _, dir := range obj.Directives {
		_, err = fmt.Fprintln(w, dir.String())
		if err != nil {
			return
		}
	}

	return
}
