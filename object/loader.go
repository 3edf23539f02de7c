package object

import (
	"io"
	"log"
	"slices"
	"strconv"

	"github.com/ezrec/y86/cpu"
	"github.com/ezrec/y86/internal"
)

// Loader parses object files and applies them to memory.
type Loader struct {
	Verbose bool // If set, warns when a directive overwrites loaded memory.
}

// parseHex parses a hex address or size, with or without 0x.
func parseHex(word string) (value int32, err error) {
	value, err = internal.HexToInt(word)
	if err != nil {
		err = ErrValue
	}
	return
}

// parseDecimal parses a signed 32-bit decimal number.
func parseDecimal(word string) (value int32, err error) {
	i64, err := strconv.ParseInt(word, 10, 32)
	if err != nil {
		err = ErrValue
		return
	}

	value = int32(i64)
	return
}

// directive converts one parsed statement.
func (stmt *statement) directive() (dir Directive, err error) {
	var pair *pairStatement
	switch {
	case stmt.Text != nil:
		dir.Kind, pair = DIRECTIVE_TEXT, stmt.Text
	case stmt.Byte != nil:
		dir.Kind, pair = DIRECTIVE_BYTE, stmt.Byte
	case stmt.Long != nil:
		dir.Kind, pair = DIRECTIVE_LONG, stmt.Long
	case stmt.Bss != nil:
		dir.Kind, pair = DIRECTIVE_BSS, stmt.Bss
	case stmt.String != nil:
		dir.Kind = DIRECTIVE_STRING
		pair = &pairStatement{Addr: stmt.String.Addr, Value: stmt.String.Value}
	}
	dir.LineNo = stmt.Pos.Line

	dir.Addr, err = parseHex(pair.Addr)
	if err != nil {
		return
	}

	switch dir.Kind {
	case DIRECTIVE_TEXT:
		dir.Data, err = internal.DecodeHex(pair.Value)
	case DIRECTIVE_BYTE:
		var value int32
		value, err = parseHex(pair.Value)
		if err == nil && (value < 0 || value > 0xff) {
			err = ErrValue
		}
		dir.Data = []byte{byte(value)}
	case DIRECTIVE_LONG:
		var value int32
		value, err = parseDecimal(pair.Value)
		data := internal.EncodeLE32(value)
		dir.Data = data[:]
	case DIRECTIVE_STRING:
		dir.Data = []byte(pair.Value)
	case DIRECTIVE_BSS:
		var value int32
		value, err = parseDecimal(pair.Value)
		if err == nil && value < 0 {
			err = ErrValue
		}
		dir.Count = int(value)
	}

	return
}

// Parse reads an object file. The .size and at least one .text directive
// are required.
func (ld *Loader) Parse(input io.Reader) (obj *Object, err error) {
	ast, err := objectParser.Parse("", input)
	if err != nil {
		return
	}

	obj = &Object{}
	sized := false
	texts := 0

	for _, stmt := range ast.Directives {
		if stmt.Size != nil {
			if sized {
				err = &ErrDirective{LineNo: stmt.Pos.Line, Directive: DIRECTIVE_SIZE, Err: ErrDirectiveDuplicate}
				return
			}
			var size int32
			size, err = parseHex(stmt.Size.Size)
			if err != nil {
				err = &ErrDirective{LineNo: stmt.Pos.Line, Directive: DIRECTIVE_SIZE, Err: err}
				return
			}
			obj.Size = int(uint32(size))
			sized = true
			continue
		}

		var dir Directive
		dir, err = stmt.directive()
		if err != nil {
			err = &ErrDirective{LineNo: stmt.Pos.Line, Directive: dir.Kind, Err: err}
			return
		}

		if dir.Kind == DIRECTIVE_TEXT {
			if texts == 0 {
				obj.Entry = dir.Addr
			}
			texts++
		}

		obj.Directives = append(obj.Directives, dir)
	}

	if !sized {
		err = ErrMissing(DIRECTIVE_SIZE)
		return
	}

	if texts == 0 {
		err = ErrMissing(DIRECTIVE_TEXT)
		return
	}

	return
}

// Apply stores the directives of obj into mem, in order.
func (ld *Loader) Apply(obj *Object, mem *cpu.Memory) (err error) {
	for _, dir := range obj.Directives {
		if ld.Verbose {
			ld.warnOverwrite(&dir, mem)
		}

		if dir.Kind == DIRECTIVE_BSS {
			err = mem.Zero(dir.Addr, dir.Count)
		} else {
			err = mem.PutBytes(dir.Addr, dir.Data)
		}
		if err != nil {
			err = &ErrDirective{LineNo: dir.LineNo, Directive: dir.Kind, Err: err}
			return
		}
	}

	return
}

// warnOverwrite logs when dir would replace non-zero memory.
func (ld *Loader) warnOverwrite(dir *Directive, mem *cpu.Memory) {
	old, err := mem.GetBytes(dir.Addr, dir.Length())
	if err != nil {
		return
	}

	if slices.ContainsFunc(old, func(b byte) bool { return b != 0 }) {
		log.Printf("object: line %d: %v overwrites memory at 0x%x", dir.LineNo, dir.Kind, uint32(dir.Addr))
	}
}

// Load allocates memory of the object's size and applies obj to it.
func (ld *Loader) Load(obj *Object) (mem *cpu.Memory, err error) {
	mem, err = cpu.NewMemory(obj.Size)
	if err != nil {
		return
	}

	err = ld.Apply(obj, mem)
	if err != nil {
		mem = nil
		return
	}

	return
}
