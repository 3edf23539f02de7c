package io

import (
	"bufio"
	"io"
	"strconv"
	"unicode"
)

// Tape is a Channel reading from an io.Reader and writing to an io.Writer.
// A nil Input reads as empty; a nil Output fails every write.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	source io.Reader
	reader *bufio.Reader

	Written    int  // Bytes written since the last Rewind.
	lastOutput byte // Last byte written.
}

var _ Channel = (*Tape)(nil)

// input returns a buffered reader over the current Input.
func (tc *Tape) input() *bufio.Reader {
	if tc.Input == nil {
		return nil
	}
	if tc.reader == nil || tc.source != tc.Input {
		tc.source = tc.Input
		tc.reader = bufio.NewReader(tc.Input)
	}
	return tc.reader
}

// Rewind forgets any buffered input and the output statistics.
func (tc *Tape) Rewind() {
	tc.source = nil
	tc.reader = nil
	tc.Written = 0
	tc.lastOutput = 0
}

// ReadByte reads one byte from the input.
func (tc *Tape) ReadByte() (value byte, err error) {
	in := tc.input()
	if in == nil {
		err = io.EOF
		return
	}

	value, err = in.ReadByte()
	return
}

// ReadLong skips white space and reads one optionally signed decimal
// integer, as with scanf("%d"). The byte after the number is left unread.
// Input that does not start a number is left unread and reported as io.EOF.
// Values wider than 32 bits are truncated.
func (tc *Tape) ReadLong() (value int32, err error) {
	in := tc.input()
	if in == nil {
		err = io.EOF
		return
	}

	var c byte
	for {
		c, err = in.ReadByte()
		if err != nil {
			return
		}
		if !unicode.IsSpace(rune(c)) {
			break
		}
	}

	text := []byte{}
	if c == '-' || c == '+' {
		text = append(text, c)
		c, err = in.ReadByte()
		if err != nil {
			return
		}
	}

	for c >= '0' && c <= '9' {
		text = append(text, c)
		c, err = in.ReadByte()
		if err != nil {
			break
		}
	}

	switch {
	case err == io.EOF:
		err = nil
	case err != nil:
		return
	default:
		err = in.UnreadByte()
		if err != nil {
			return
		}
	}

	i64, perr := strconv.ParseInt(string(text), 10, 64)
	if perr != nil {
		err = io.EOF
		return
	}

	value = int32(i64)
	return
}

// WriteByte writes one byte to the output.
func (tc *Tape) WriteByte(value byte) (err error) {
	if tc.Output == nil {
		err = ErrNoOutput
		return
	}

	_, err = tc.Output.Write([]byte{value})
	if err != nil {
		return
	}

	tc.Written++
	tc.lastOutput = value
	return
}

// WriteLong writes value in decimal to the output.
func (tc *Tape) WriteLong(value int32) (err error) {
	if tc.Output == nil {
		err = ErrNoOutput
		return
	}

	text := strconv.FormatInt(int64(value), 10)
	_, err = io.WriteString(tc.Output, text)
	if err != nil {
		return
	}

	tc.Written += len(text)
	tc.lastOutput = text[len(text)-1]
	return
}

// AtLineStart returns true if nothing was written, or the last byte
// written was a newline.
func (tc *Tape) AtLineStart() bool {
	return tc.Written == 0 || tc.lastOutput == '\n'
}
