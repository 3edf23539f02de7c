package cpu

import (
	"iter"

	"github.com/ezrec/y86/internal"
)

// Opcode represents a line of assembled code with its source location and
// generated instruction.
type Opcode struct {
	LineNo int      // Source line of the mnemonic.
	Ip     int      // Address of the instruction.
	Words  []string // Mnemonic and operand tokens.
	Code   Code     // Decoded instruction.
}

// Program is an assembled program.
type Program struct {
	Origin  int32 // Address of the first instruction.
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
}

// Debug returns the opcode whose encoding contains address ip.
func (prog *Program) Debug(ip int32) (dbg Debug) {
	for n, op := range prog.Opcodes {
		inst, ok := LookupOp(op.Code.Op)
		if !ok {
			continue
		}
		if int(ip) >= op.Ip && int(ip) < op.Ip+inst.Length() {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
			}
			break
		}
	}

	return
}

// Binary returns the machine code of the program.
func (prog *Program) Binary() (bins []byte, err error) {
	for _, code := range prog.Codes() {
		var data []byte
		data, err = code.Encode()
		if err != nil {
			return
		}
		bins = append(bins, data...)
	}

	return
}

// Hex returns the machine code as hex digit pairs.
func (prog *Program) Hex() (text string, err error) {
	bins, err := prog.Binary()
	if err != nil {
		return
	}

	text = internal.EncodeHex(bins)
	return
}

// Codes iterates over the address and instruction of each opcode.
func (prog *Program) Codes() iter.Seq2[int32, Code] {
	return func(yield func(ip int32, code Code) bool) {
		for _, op := range prog.Opcodes {
			if !yield(int32(op.Ip), op.Code) {
				return
			}
		}
	}
}
