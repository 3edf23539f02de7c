package cpu

import (
	"fmt"

	"github.com/ezrec/y86/internal"
)

// Listing is one disassembled instruction at its absolute address.
type Listing struct {
	Addr int32
	Code Code
}

func (lst Listing) String() string {
	return fmt.Sprintf("0x%-5X| %v", uint32(lst.Addr), lst.Code)
}

// Disassemble walks a string of hex digit pairs holding machine code loaded
// at start. Decoding stops at the first byte that does not begin a valid
// instruction; the listing up to that point is returned with the error.
func Disassemble(text string, start int32) (listing []Listing, err error) {
	size := len(text) / 2
	if len(text)%2 != 0 {
		size++
	}

	for pos := 0; pos < size; {
		var code Code
		var length int
		code, length, err = decodeHexAt(text, pos)
		if err != nil {
			err = &ErrDecode{Offset: pos, Err: err}
			return
		}

		listing = append(listing, Listing{Addr: start + int32(pos), Code: code})
		pos += length
	}

	return
}

// decodeHexAt decodes the instruction at byte offset pos of hex text.
func decodeHexAt(text string, pos int) (code Code, length int, err error) {
	opText, err := internal.TakeFixedSlice(text, pos*2, 2)
	if err != nil {
		return
	}

	op, err := internal.HexToInt(opText)
	if err != nil {
		return
	}

	length, err = EncodedLength(CodeOp(op))
	if err != nil {
		return
	}

	instText, err := internal.TakeFixedSlice(text, pos*2, length*2)
	if err != nil {
		return
	}

	data, err := internal.DecodeHex(instText)
	if err != nil {
		return
	}

	code, length, err = Decode(data)
	return
}
