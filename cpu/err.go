package cpu

import (
	"errors"

	"github.com/ezrec/y86/translate"
)

var f = translate.From

var (
	// Instruction set errors
	ErrUnknownInstruction = errors.New(f("unknown instruction"))
	ErrInvalidRegister    = errors.New(f("invalid register"))

	// Memory errors
	ErrInvalidAddress = errors.New(f("invalid address"))
	ErrAllocation     = errors.New(f("memory allocation"))

	// Interpreter errors
	ErrChannel = errors.New(f("channel"))

	// Assembler errors
	ErrMalformedOperands = errors.New(f("malformed operands"))
	ErrEquateSyntax      = errors.New(f(".equ syntax"))
	ErrEquateDuplicate   = errors.New(f(".equ duplicated"))
)

// ErrOp is an opcode byte missing from the instruction set.
type ErrOp CodeOp

func (err ErrOp) Error() string {
	return f("unknown opcode 0x%02x", byte(err))
}

func (err ErrOp) Is(target error) bool {
	return target == ErrUnknownInstruction
}

// ErrMnemonic is a token missing from the instruction set.
type ErrMnemonic string

func (err ErrMnemonic) Error() string {
	return f("unknown instruction '%v'", string(err))
}

func (err ErrMnemonic) Is(target error) bool {
	return target == ErrUnknownInstruction
}

// ErrRegister is a register index outside of eax..edi.
type ErrRegister CodeReg

func (err ErrRegister) Error() string {
	return f("invalid register index %v", int(err))
}

func (err ErrRegister) Is(target error) bool {
	return target == ErrInvalidRegister
}

// ErrRegisterName is an unknown register name.
type ErrRegisterName string

func (err ErrRegisterName) Error() string {
	return f("'%v' is not a register", string(err))
}

func (err ErrRegisterName) Is(target error) bool {
	return target == ErrInvalidRegister
}

// ErrParseNumber is a token that is not a number.
type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

// ErrParseExpression is a $(...) expression that did not yield an integer.
type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrOutOfBounds is a memory access outside of [0, size).
type ErrOutOfBounds struct {
	Addr  int64
	Width int
	Size  int
}

func (err *ErrOutOfBounds) Error() string {
	return f("address 0x%x width %v outside memory of 0x%x bytes", err.Addr, err.Width, err.Size)
}

func (err *ErrOutOfBounds) Is(target error) bool {
	return target == ErrInvalidAddress
}

// ErrSize is an unusable memory size.
type ErrSize int64

func (err ErrSize) Error() string {
	return f("cannot allocate 0x%x bytes of memory", int64(err))
}

func (err ErrSize) Is(target error) bool {
	return target == ErrAllocation
}

// ErrOperand identifies the operand slot of a mnemonic that failed to parse.
type ErrOperand struct {
	Mnemonic string
	Slot     int    // Zero based operand index.
	Token    string // Empty when the operand is missing.
	Err      error
}

func (err *ErrOperand) Error() string {
	if err.Err == nil {
		return f("%v: operand %v missing", err.Mnemonic, err.Slot+1)
	}
	return f("%v: operand %v '%v': %v", err.Mnemonic, err.Slot+1, err.Token, err.Err)
}

func (err *ErrOperand) Is(target error) bool {
	return target == ErrMalformedOperands
}

func (err *ErrOperand) Unwrap() error {
	return err.Err
}

// ErrSyntax locates an assembler error in the source.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrDecode locates a disassembler error in the machine code.
type ErrDecode struct {
	Offset int // Byte offset from the start of the code.
	Err    error
}

func (err *ErrDecode) Error() string {
	return f("offset 0x%x: %v", err.Offset, err.Err)
}

func (err *ErrDecode) Unwrap() error {
	return err.Err
}
