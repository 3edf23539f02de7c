package emulator

import (
	"errors"

	"github.com/ezrec/y86/translate"
)

var f = translate.From

var (
	ErrNotLoaded = errors.New(f("no program loaded"))
	ErrTickLimit = errors.New(f("instruction limit reached"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int   // Source line, 0 if unknown.
	Ip     int32 // Address of the failing instruction.
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("0x%x: %v", uint32(err.Ip), err.Err)
	}
	return f("line %d (0x%x): %v", err.LineNo, uint32(err.Ip), err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
