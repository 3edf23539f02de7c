package io

import (
	"errors"

	"github.com/ezrec/y86/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrNoOutput = errors.New(f("channel has no output"))
)
