// Package io provides the input and output channel used by the y86
// readb, readl, writeb and writel instructions.
package io

// Channel defines the interface between the interpreter and the outside
// world. Reads return io.EOF once the input is exhausted.
type Channel interface {
	// ReadByte reads one raw byte of input.
	ReadByte() (value byte, err error)
	// ReadLong reads one white space separated decimal integer of input.
	ReadLong() (value int32, err error)
	// WriteByte writes one raw byte of output.
	WriteByte(value byte) error
	// WriteLong writes a 32-bit integer as decimal text.
	WriteLong(value int32) error
}
