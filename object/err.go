package object

import (
	"errors"

	"github.com/ezrec/y86/translate"
)

var f = translate.From

var (
	ErrDirectiveMissing   = errors.New(f("directive missing"))
	ErrDirectiveDuplicate = errors.New(f("directive duplicated"))
	ErrValue              = errors.New(f("directive value"))
)

// ErrMissing is a required directive that is absent from the object.
type ErrMissing string

func (err ErrMissing) Error() string {
	return f("no %v directive", string(err))
}

func (err ErrMissing) Is(target error) bool {
	return target == ErrDirectiveMissing
}

// ErrDirective locates a failing directive in the object file.
type ErrDirective struct {
	LineNo    int
	Directive string
	Err       error
}

func (err *ErrDirective) Error() string {
	return f("line %d %v: %v", err.LineNo, err.Directive, err.Err)
}

func (err *ErrDirective) Unwrap() error {
	return err.Err
}
