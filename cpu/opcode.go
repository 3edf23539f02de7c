package cpu

import (
	"fmt"
	"strings"

	"github.com/ezrec/y86/internal"
)

// CodeOp is an instruction opcode byte.
type CodeOp byte

const (
	OP_NOP    = CodeOp(0x00) // nop
	OP_HALT   = CodeOp(0x10) // halt
	OP_RRMOVL = CodeOp(0x20) // rrmovl
	OP_IRMOVL = CodeOp(0x30) // irmovl
	OP_RMMOVL = CodeOp(0x40) // rmmovl
	OP_MRMOVL = CodeOp(0x50) // mrmovl
	OP_ADDL   = CodeOp(0x60) // addl
	OP_SUBL   = CodeOp(0x61) // subl
	OP_ANDL   = CodeOp(0x62) // andl
	OP_XORL   = CodeOp(0x63) // xorl
	OP_MULL   = CodeOp(0x64) // mull
	OP_CMPL   = CodeOp(0x65) // cmpl
	OP_JMP    = CodeOp(0x70) // jmp
	OP_JLE    = CodeOp(0x71) // jle
	OP_JL     = CodeOp(0x72) // jl
	OP_JE     = CodeOp(0x73) // je
	OP_JNE    = CodeOp(0x74) // jne
	OP_JGE    = CodeOp(0x75) // jge
	OP_JG     = CodeOp(0x76) // jg
	OP_CALL   = CodeOp(0x80) // call
	OP_RET    = CodeOp(0x90) // ret
	OP_PUSHL  = CodeOp(0xa0) // pushl
	OP_POPL   = CodeOp(0xb0) // popl
	OP_READB  = CodeOp(0xc0) // readb
	OP_READL  = CodeOp(0xc1) // readl
	OP_WRITEB = CodeOp(0xd0) // writeb
	OP_WRITEL = CodeOp(0xd1) // writel
	OP_MOVSBL = CodeOp(0xe0) // movsbl
)

// CodeReg is a register index.
type CodeReg byte

const (
	REG_EAX = CodeReg(0) // eax
	REG_ECX = CodeReg(1) // ecx
	REG_EDX = CodeReg(2) // edx
	REG_EBX = CodeReg(3) // ebx
	REG_ESP = CodeReg(4) // esp
	REG_EBP = CodeReg(5) // ebp
	REG_ESI = CodeReg(6) // esi
	REG_EDI = CodeReg(7) // edi

	REG_NONE = CodeReg(0xf) // Filler for an unused register nibble.

	REGISTER_COUNT = 8
)

var registerNames = [REGISTER_COUNT]string{"eax", "ecx", "edx", "ebx", "esp", "ebp", "esi", "edi"}

// Valid returns true if the register is one of the eight general registers.
func (reg CodeReg) Valid() bool {
	return reg < REGISTER_COUNT
}

func (reg CodeReg) String() string {
	if !reg.Valid() {
		return fmt.Sprintf("r%d", int(reg))
	}
	return registerNames[reg]
}

// RegisterIndex returns the register for a name, with or without its '%'.
func RegisterIndex(name string) (reg CodeReg, err error) {
	name = strings.TrimPrefix(name, "%")
	for n, known := range registerNames {
		if known == name {
			reg = CodeReg(n)
			return
		}
	}

	err = ErrRegisterName(name)
	return
}

// PackRegisters packs rA into the high nibble and rB into the low nibble.
// REG_NONE is accepted for a slot the instruction does not use.
func PackRegisters(rA, rB CodeReg) (packed byte, err error) {
	for _, reg := range []CodeReg{rA, rB} {
		if !reg.Valid() && reg != REG_NONE {
			err = ErrRegister(reg)
			return
		}
	}

	packed = (byte(rA) << 4) | byte(rB)
	return
}

// UnpackRegisters is the inverse of PackRegisters. Both nibbles must be
// general registers.
func UnpackRegisters(packed byte) (rA, rB CodeReg, err error) {
	rA = CodeReg(packed >> 4)
	rB = CodeReg(packed & 0xf)
	for _, reg := range []CodeReg{rA, rB} {
		if !reg.Valid() {
			err = ErrRegister(reg)
			return
		}
	}

	return
}

// CodeArg is the kind of one source operand of an instruction.
type CodeArg int

const (
	ARG_REG_A CodeArg = iota // %rA
	ARG_REG_B                // %rB
	ARG_IMM                  // $value
	ARG_DISP                 // value(%reg), the register is the next argument
	ARG_DEST                 // absolute hex address
)

// Instruction describes one entry of the instruction set.
type Instruction struct {
	Mnemonic string
	Op       CodeOp
	Args     []CodeArg // Operands in assembly source order.
}

var (
	argsNone    = []CodeArg{}
	argsRegs    = []CodeArg{ARG_REG_A, ARG_REG_B}
	argsReg     = []CodeArg{ARG_REG_A}
	argsImm     = []CodeArg{ARG_IMM, ARG_REG_B}
	argsStore   = []CodeArg{ARG_REG_A, ARG_DISP, ARG_REG_B}
	argsLoad    = []CodeArg{ARG_DISP, ARG_REG_B, ARG_REG_A}
	argsDest    = []CodeArg{ARG_DEST}
	argsChannel = []CodeArg{ARG_DISP, ARG_REG_A}
)

// InstructionSet is the shared instruction table, in opcode order.
var InstructionSet = []Instruction{
	{"nop", OP_NOP, argsNone},
	{"halt", OP_HALT, argsNone},
	{"rrmovl", OP_RRMOVL, argsRegs},
	{"irmovl", OP_IRMOVL, argsImm},
	{"rmmovl", OP_RMMOVL, argsStore},
	{"mrmovl", OP_MRMOVL, argsLoad},
	{"addl", OP_ADDL, argsRegs},
	{"subl", OP_SUBL, argsRegs},
	{"andl", OP_ANDL, argsRegs},
	{"xorl", OP_XORL, argsRegs},
	{"mull", OP_MULL, argsRegs},
	{"cmpl", OP_CMPL, argsRegs},
	{"jmp", OP_JMP, argsDest},
	{"jle", OP_JLE, argsDest},
	{"jl", OP_JL, argsDest},
	{"je", OP_JE, argsDest},
	{"jne", OP_JNE, argsDest},
	{"jge", OP_JGE, argsDest},
	{"jg", OP_JG, argsDest},
	{"call", OP_CALL, argsDest},
	{"ret", OP_RET, argsNone},
	{"pushl", OP_PUSHL, argsReg},
	{"popl", OP_POPL, argsReg},
	{"readb", OP_READB, argsChannel},
	{"readl", OP_READL, argsChannel},
	{"writeb", OP_WRITEB, argsChannel},
	{"writel", OP_WRITEL, argsChannel},
	{"movsbl", OP_MOVSBL, argsLoad},
}

var (
	byOp       = map[CodeOp]*Instruction{}
	byMnemonic = map[string]*Instruction{}
)

func init() {
	for n := range InstructionSet {
		inst := &InstructionSet[n]
		byOp[inst.Op] = inst
		byMnemonic[inst.Mnemonic] = inst
	}
}

// LookupMnemonic returns the instruction for a mnemonic.
func LookupMnemonic(mnemonic string) (inst *Instruction, ok bool) {
	inst, ok = byMnemonic[mnemonic]
	return
}

// LookupOp returns the instruction for an opcode byte.
func LookupOp(op CodeOp) (inst *Instruction, ok bool) {
	inst, ok = byOp[op]
	return
}

// HasRegisters returns true if the encoding carries a register byte.
func (inst *Instruction) HasRegisters() bool {
	for _, arg := range inst.Args {
		if arg == ARG_REG_A || arg == ARG_REG_B {
			return true
		}
	}
	return false
}

// HasValue returns true if the encoding carries a 4-byte value.
func (inst *Instruction) HasValue() bool {
	for _, arg := range inst.Args {
		if arg == ARG_IMM || arg == ARG_DISP || arg == ARG_DEST {
			return true
		}
	}
	return false
}

// Length returns the encoded length in bytes.
func (inst *Instruction) Length() (length int) {
	length = 1
	if inst.HasRegisters() {
		length += 1
	}
	if inst.HasValue() {
		length += 4
	}
	return
}

// Uses returns true if the instruction reads the given argument kind.
func (inst *Instruction) Uses(kind CodeArg) bool {
	for _, arg := range inst.Args {
		if arg == kind {
			return true
		}
	}
	return false
}

// Mnemonic returns the mnemonic of an opcode, or "" if it is unknown.
func (op CodeOp) Mnemonic() string {
	inst, ok := byOp[op]
	if !ok {
		return ""
	}
	return inst.Mnemonic
}

func (op CodeOp) String() string {
	mnemonic := op.Mnemonic()
	if len(mnemonic) == 0 {
		return fmt.Sprintf("0x%02x", byte(op))
	}
	return mnemonic
}

// EncodedLength returns the encoded length of an opcode.
func EncodedLength(op CodeOp) (length int, err error) {
	inst, ok := byOp[op]
	if !ok {
		err = ErrOp(op)
		return
	}

	length = inst.Length()
	return
}

// Code is a single decoded instruction. A register slot the instruction does
// not use holds the nibble found in the encoding, REG_NONE when assembled.
type Code struct {
	Op    CodeOp
	RegA  CodeReg
	RegB  CodeReg
	Value int32 // Immediate, displacement or destination.
}

// Decode decodes the instruction at the start of data. Trailing bytes are
// ignored. Register nibbles the instruction does not use are not checked,
// and are kept so that Encode reproduces data.
func Decode(data []byte) (code Code, length int, err error) {
	if len(data) == 0 {
		err = &internal.ErrOutOfRange{Offset: 0, Length: 1, Size: 0}
		return
	}

	op := CodeOp(data[0])
	inst, ok := LookupOp(op)
	if !ok {
		err = ErrOp(op)
		return
	}

	length = inst.Length()
	data, err = internal.TakeFixedSlice(data, 0, length)
	if err != nil {
		length = 0
		return
	}

	code = Code{Op: op, RegA: REG_NONE, RegB: REG_NONE}

	pos := 1
	if inst.HasRegisters() {
		code.RegA = CodeReg(data[pos] >> 4)
		code.RegB = CodeReg(data[pos] & 0xf)
		if inst.Uses(ARG_REG_A) && !code.RegA.Valid() {
			err = ErrRegister(code.RegA)
			return
		}
		if inst.Uses(ARG_REG_B) && !code.RegB.Valid() {
			err = ErrRegister(code.RegB)
			return
		}
		pos++
	}

	if inst.HasValue() {
		code.Value = internal.DecodeLE32([4]byte(data[pos : pos+4]))
	}

	return
}

// Encode returns the machine bytes of the instruction.
func (code Code) Encode() (data []byte, err error) {
	inst, ok := LookupOp(code.Op)
	if !ok {
		err = ErrOp(code.Op)
		return
	}

	data = append(data, byte(code.Op))

	if inst.HasRegisters() {
		for _, slot := range [](struct {
			arg CodeArg
			reg CodeReg
		}){{ARG_REG_A, code.RegA}, {ARG_REG_B, code.RegB}} {
			// Unused slots keep any nibble value.
			if (inst.Uses(slot.arg) && !slot.reg.Valid()) || slot.reg > REG_NONE {
				err = ErrRegister(slot.reg)
				return
			}
		}
		data = append(data, (byte(code.RegA)<<4)|byte(code.RegB))
	}

	if inst.HasValue() {
		value := internal.EncodeLE32(code.Value)
		data = append(data, value[:]...)
	}

	return
}

// String returns the canonical assembly text of the instruction.
func (code Code) String() string {
	inst, ok := LookupOp(code.Op)
	if !ok {
		return fmt.Sprintf(".byte 0x%02x", byte(code.Op))
	}

	reg := func(arg CodeArg) string {
		if arg == ARG_REG_A {
			return "%" + code.RegA.String()
		}
		return "%" + code.RegB.String()
	}

	var args []string
	for n := 0; n < len(inst.Args); n++ {
		switch arg := inst.Args[n]; arg {
		case ARG_REG_A, ARG_REG_B:
			args = append(args, reg(arg))
		case ARG_IMM:
			args = append(args, fmt.Sprintf("$%d", code.Value))
		case ARG_DISP:
			n++
			args = append(args, fmt.Sprintf("%d(%s)", code.Value, reg(inst.Args[n])))
		case ARG_DEST:
			args = append(args, fmt.Sprintf("0x%08x", uint32(code.Value)))
		}
	}

	if len(args) == 0 {
		return inst.Mnemonic
	}

	return inst.Mnemonic + " " + strings.Join(args, ", ")
}
