package internal

import (
	"errors"

	"github.com/ezrec/y86/translate"
)

var f = translate.From

var (
	ErrHexOdd = errors.New(f("odd length hex string"))
)

// ErrParseHex is a token that is not a hexadecimal number.
type ErrParseHex string

func (err ErrParseHex) Error() string {
	return f("'%v' is not a hex number", string(err))
}

// ErrOutOfRange is a fixed-width slice that runs past the end of its source.
type ErrOutOfRange struct {
	Offset int
	Length int
	Size   int
}

func (err *ErrOutOfRange) Error() string {
	return f("slice [%v:%v] out of range of %v", err.Offset, err.Offset+err.Length, err.Size)
}
