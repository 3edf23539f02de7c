// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package internal holds the byte and text helpers shared by the y86
// assembler, disassembler, loader and emulator.
package internal

import (
	"encoding/binary"
	"encoding/hex"
	"strconv"
	"strings"
)

// HexToInt parses a hexadecimal string, with an optional 0x prefix, as the
// two's complement bit pattern of a 32-bit integer. Values wider than 32
// bits are truncated.
func HexToInt(text string) (value int32, err error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
	u64, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		err = ErrParseHex(text)
		return
	}

	value = int32(uint32(u64))
	return
}

// EncodeLE32 returns the little-endian bytes of value.
func EncodeLE32(value int32) (data [4]byte) {
	binary.LittleEndian.PutUint32(data[:], uint32(value))
	return
}

// DecodeLE32 is the inverse of EncodeLE32.
func DecodeLE32(data [4]byte) int32 {
	return int32(binary.LittleEndian.Uint32(data[:]))
}

// TakeFixedSlice returns exactly length elements of source starting at offset.
func TakeFixedSlice[S ~string | ~[]byte](source S, offset, length int) (slice S, err error) {
	if offset < 0 || length < 0 || offset+length > len(source) {
		err = &ErrOutOfRange{Offset: offset, Length: length, Size: len(source)}
		return
	}

	slice = source[offset : offset+length]
	return
}

// DecodeHex decodes a string of hex digit pairs into bytes.
func DecodeHex(text string) (data []byte, err error) {
	if len(text)%2 != 0 {
		err = ErrHexOdd
		return
	}

	data, err = hex.DecodeString(text)
	if err != nil {
		err = ErrParseHex(text)
		return
	}

	return
}

// EncodeHex renders bytes as lower-case hex digit pairs.
func EncodeHex(data []byte) string {
	return hex.EncodeToString(data)
}
