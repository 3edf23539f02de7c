package cpu

import (
	"bufio"
	"io"
	"strings"

	"github.com/ezrec/y86/internal"
)

const (
	MEMORY_LIMIT = 1 << 30 // Largest memory size that will be allocated.
)

// Memory is the byte addressable, zero initialized memory of the machine.
// Every access is bounds checked against [0, Size()).
type Memory struct {
	data []byte
}

// NewMemory allocates size bytes of zeroed memory.
func NewMemory(size int) (mem *Memory, err error) {
	if size < 0 || size > MEMORY_LIMIT {
		err = ErrSize(size)
		return
	}

	mem = &Memory{
		data: make([]byte, size),
	}

	return
}

// Size returns the number of bytes of memory.
func (mem *Memory) Size() int {
	return len(mem.data)
}

// check returns the offset of a width byte access at addr.
func (mem *Memory) check(addr int32, width int) (offset int, err error) {
	start := int64(addr)
	if width < 0 || start < 0 || start+int64(width) > int64(len(mem.data)) {
		err = &ErrOutOfBounds{Addr: start, Width: width, Size: len(mem.data)}
		return
	}

	offset = int(start)
	return
}

// Check returns ErrOutOfBounds unless [addr, addr+width) is in memory.
func (mem *Memory) Check(addr int32, width int) (err error) {
	_, err = mem.check(addr, width)
	return
}

// GetByte reads the byte at addr.
func (mem *Memory) GetByte(addr int32) (value byte, err error) {
	offset, err := mem.check(addr, 1)
	if err != nil {
		return
	}

	value = mem.data[offset]
	return
}

// PutByte writes the byte at addr.
func (mem *Memory) PutByte(addr int32, value byte) (err error) {
	offset, err := mem.check(addr, 1)
	if err != nil {
		return
	}

	mem.data[offset] = value
	return
}

// GetLong reads the little-endian 32-bit word at addr.
func (mem *Memory) GetLong(addr int32) (value int32, err error) {
	offset, err := mem.check(addr, 4)
	if err != nil {
		return
	}

	value = internal.DecodeLE32([4]byte(mem.data[offset : offset+4]))
	return
}

// PutLong writes the little-endian 32-bit word at addr. Nothing is written
// unless all four bytes are in bounds.
func (mem *Memory) PutLong(addr int32, value int32) (err error) {
	offset, err := mem.check(addr, 4)
	if err != nil {
		return
	}

	data := internal.EncodeLE32(value)
	copy(mem.data[offset:], data[:])
	return
}

// PutBytes writes data starting at addr. Nothing is written unless all of
// data fits.
func (mem *Memory) PutBytes(addr int32, data []byte) (err error) {
	offset, err := mem.check(addr, len(data))
	if err != nil {
		return
	}

	copy(mem.data[offset:], data)
	return
}

// GetBytes returns a copy of count bytes starting at addr.
func (mem *Memory) GetBytes(addr int32, count int) (data []byte, err error) {
	offset, err := mem.check(addr, count)
	if err != nil {
		return
	}

	data = make([]byte, count)
	copy(data, mem.data[offset:])
	return
}

// LoadBytes decodes a string of hex digit pairs into memory at addr.
func (mem *Memory) LoadBytes(text string, addr int32) (err error) {
	data, err := internal.DecodeHex(text)
	if err != nil {
		return
	}

	err = mem.PutBytes(addr, data)
	return
}

// Zero clears count bytes starting at addr.
func (mem *Memory) Zero(addr int32, count int) (err error) {
	offset, err := mem.check(addr, count)
	if err != nil {
		return
	}

	clear(mem.data[offset : offset+count])
	return
}

// Dump writes the memory as text, width bytes per line. Zero bytes print as
// '-', other non-printable bytes as '.'.
func (mem *Memory) Dump(w io.Writer, width int) (err error) {
	if width <= 0 {
		width = len(mem.data)
	}

	out := bufio.NewWriter(w)
	var line strings.Builder
	for n, value := range mem.data {
		switch {
		case value == 0:
			line.WriteByte('-')
		case value >= 0x20 && value < 0x7f:
			line.WriteByte(value)
		default:
			line.WriteByte('.')
		}
		if (n+1)%width == 0 || n+1 == len(mem.data) {
			line.WriteByte('\n')
			_, err = out.WriteString(line.String())
			if err != nil {
				return
			}
			line.Reset()
		}
	}

	err = out.Flush()
	return
}
