package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstructionSet(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		mnemonic string
		op       CodeOp
		length   int
	}){
		{"nop", 0x00, 1},
		{"halt", 0x10, 1},
		{"rrmovl", 0x20, 2},
		{"irmovl", 0x30, 6},
		{"rmmovl", 0x40, 6},
		{"mrmovl", 0x50, 6},
		{"addl", 0x60, 2},
		{"subl", 0x61, 2},
		{"andl", 0x62, 2},
		{"xorl", 0x63, 2},
		{"mull", 0x64, 2},
		{"cmpl", 0x65, 2},
		{"jmp", 0x70, 5},
		{"jle", 0x71, 5},
		{"jl", 0x72, 5},
		{"je", 0x73, 5},
		{"jne", 0x74, 5},
		{"jge", 0x75, 5},
		{"jg", 0x76, 5},
		{"call", 0x80, 5},
		{"ret", 0x90, 1},
		{"pushl", 0xa0, 2},
		{"popl", 0xb0, 2},
		{"readb", 0xc0, 6},
		{"readl", 0xc1, 6},
		{"writeb", 0xd0, 6},
		{"writel", 0xd1, 6},
		{"movsbl", 0xe0, 6},
	}

	assert.Equal(len(table), len(InstructionSet))

	for _, entry := range table {
		inst, ok := LookupMnemonic(entry.mnemonic)
		assert.True(ok, entry.mnemonic)
		assert.Equal(entry.op, inst.Op, entry.mnemonic)
		assert.Equal(entry.mnemonic, entry.op.Mnemonic())

		length, err := EncodedLength(entry.op)
		assert.NoError(err, entry.mnemonic)
		assert.Equal(entry.length, length, entry.mnemonic)
	}

	_, ok := LookupMnemonic("movl")
	assert.False(ok)

	_, err := EncodedLength(0xff)
	assert.ErrorIs(err, ErrUnknownInstruction)
	assert.Equal("", CodeOp(0x66).Mnemonic())
	assert.Equal("0x66", CodeOp(0x66).String())
}

func TestRegisters(t *testing.T) {
	assert := assert.New(t)

	for n, name := range []string{"eax", "ecx", "edx", "ebx", "esp", "ebp", "esi", "edi"} {
		reg, err := RegisterIndex(name)
		assert.NoError(err)
		assert.Equal(CodeReg(n), reg)
		assert.Equal(name, reg.String())

		reg, err = RegisterIndex("%" + name)
		assert.NoError(err)
		assert.Equal(CodeReg(n), reg)
	}

	_, err := RegisterIndex("rax")
	assert.ErrorIs(err, ErrInvalidRegister)
}

func TestPackRegisters(t *testing.T) {
	assert := assert.New(t)

	packed, err := PackRegisters(REG_ECX, REG_EDI)
	assert.NoError(err)
	assert.Equal(byte(0x17), packed)

	packed, err = PackRegisters(REG_NONE, REG_ESP)
	assert.NoError(err)
	assert.Equal(byte(0xf4), packed)

	_, err = PackRegisters(CodeReg(8), REG_EAX)
	assert.ErrorIs(err, ErrInvalidRegister)

	for rA := range CodeReg(REGISTER_COUNT) {
		for rB := range CodeReg(REGISTER_COUNT) {
			packed, err := PackRegisters(rA, rB)
			assert.NoError(err)
			a, b, err := UnpackRegisters(packed)
			assert.NoError(err)
			assert.Equal(rA, a)
			assert.Equal(rB, b)
		}
	}

	_, _, err = UnpackRegisters(0x8f)
	var bad ErrRegister
	assert.True(errors.As(err, &bad))
	assert.Equal(ErrRegister(8), bad)
}

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		data []byte
		code Code
		text string
	}){
		{[]byte{0x00}, Code{OP_NOP, REG_NONE, REG_NONE, 0}, "nop"},
		{[]byte{0x10}, Code{OP_HALT, REG_NONE, REG_NONE, 0}, "halt"},
		{[]byte{0x20, 0x01}, Code{OP_RRMOVL, REG_EAX, REG_ECX, 0}, "rrmovl %eax, %ecx"},
		{[]byte{0x30, 0xf4, 0x00, 0x01, 0x00, 0x00}, Code{OP_IRMOVL, REG_NONE, REG_ESP, 256}, "irmovl $256, %esp"},
		{[]byte{0x40, 0x35, 0xf8, 0xff, 0xff, 0xff}, Code{OP_RMMOVL, REG_EBX, REG_EBP, -8}, "rmmovl %ebx, -8(%ebp)"},
		{[]byte{0x50, 0x05, 0x0c, 0x00, 0x00, 0x00}, Code{OP_MRMOVL, REG_EAX, REG_EBP, 12}, "mrmovl 12(%ebp), %eax"},
		{[]byte{0x60, 0x10}, Code{OP_ADDL, REG_ECX, REG_EAX, 0}, "addl %ecx, %eax"},
		{[]byte{0x65, 0x67}, Code{OP_CMPL, REG_ESI, REG_EDI, 0}, "cmpl %esi, %edi"},
		{[]byte{0x73, 0x1f, 0x00, 0x00, 0x00}, Code{OP_JE, REG_NONE, REG_NONE, 0x1f}, "je 0x0000001f"},
		{[]byte{0x80, 0x00, 0x01, 0x00, 0x00}, Code{OP_CALL, REG_NONE, REG_NONE, 0x100}, "call 0x00000100"},
		{[]byte{0x90}, Code{OP_RET, REG_NONE, REG_NONE, 0}, "ret"},
		{[]byte{0xa0, 0x6f}, Code{OP_PUSHL, REG_ESI, REG_NONE, 0}, "pushl %esi"},
		{[]byte{0xb0, 0x3f}, Code{OP_POPL, REG_EBX, REG_NONE, 0}, "popl %ebx"},
		{[]byte{0xc0, 0x1f, 0x04, 0x00, 0x00, 0x00}, Code{OP_READB, REG_ECX, REG_NONE, 4}, "readb 4(%ecx)"},
		{[]byte{0xd1, 0x0f, 0x00, 0x00, 0x00, 0x00}, Code{OP_WRITEL, REG_EAX, REG_NONE, 0}, "writel 0(%eax)"},
		{[]byte{0xe0, 0x21, 0xff, 0xff, 0xff, 0xff}, Code{OP_MOVSBL, REG_EDX, REG_ECX, -1}, "movsbl -1(%ecx), %edx"},
	}

	for _, entry := range table {
		code, length, err := Decode(entry.data)
		assert.NoError(err, entry.text)
		assert.Equal(len(entry.data), length, entry.text)
		assert.Equal(entry.code, code, entry.text)
		assert.Equal(entry.text, code.String())

		data, err := code.Encode()
		assert.NoError(err, entry.text)
		assert.Equal(entry.data, data, entry.text)
	}
}

func TestDecodeErrors(t *testing.T) {
	assert := assert.New(t)

	_, _, err := Decode(nil)
	assert.Error(err)

	_, _, err = Decode([]byte{0x66})
	assert.ErrorIs(err, ErrUnknownInstruction)

	_, _, err = Decode([]byte{0x30, 0xf4, 0x00})
	assert.Error(err)

	_, _, err = Decode([]byte{0x20, 0x08})
	assert.ErrorIs(err, ErrInvalidRegister)

	_, err = Code{Op: OP_ADDL, RegA: REG_NONE, RegB: REG_EAX}.Encode()
	assert.ErrorIs(err, ErrInvalidRegister)

	_, err = Code{Op: 0xee}.Encode()
	assert.ErrorIs(err, ErrUnknownInstruction)

	_, err = Code{Op: OP_PUSHL, RegA: REG_EAX, RegB: CodeReg(0x10)}.Encode()
	assert.ErrorIs(err, ErrInvalidRegister)
}

func TestDecodeUnusedNibble(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		data []byte
		text string
	}){
		{[]byte{0xa0, 0x00}, "pushl %eax"},
		{[]byte{0xb0, 0x12}, "popl %ecx"},
		{[]byte{0x30, 0x04, 0x05, 0x00, 0x00, 0x00}, "irmovl $5, %esp"},
		{[]byte{0xc0, 0x10, 0x04, 0x00, 0x00, 0x00}, "readb 4(%ecx)"},
		{[]byte{0xd1, 0x3e, 0x00, 0x00, 0x00, 0x00}, "writel 0(%ebx)"},
	}

	for _, entry := range table {
		code, length, err := Decode(entry.data)
		assert.NoError(err, entry.text)
		assert.Equal(len(entry.data), length, entry.text)
		assert.Equal(entry.text, code.String())

		data, err := code.Encode()
		assert.NoError(err, entry.text)
		assert.Equal(entry.data, data, entry.text)
	}

	// The unused nibble does not change execution.
	cpu, err := NewCpu(0x10)
	assert.NoError(err)
	cpu.Register[REG_ESP] = 0x10
	cpu.Register[REG_ECX] = 9
	code, _, err := Decode([]byte{0xa0, 0x17})
	assert.NoError(err)
	assert.NoError(cpu.Execute(code))
	value, err := cpu.Memory.GetLong(0x0c)
	assert.NoError(err)
	assert.Equal(int32(9), value)
	assert.Equal(int32(0x0c), cpu.Register[REG_ESP])
}

func FuzzDecode(f *testing.F) {
	f.Add([]byte{0x30, 0xf0, 0x05, 0x00, 0x00, 0x00})
	f.Add([]byte{0x40, 0x12, 0xff, 0xff, 0xff, 0xff})
	f.Add([]byte{0x70, 0x01, 0x02, 0x03, 0x04})
	f.Add([]byte{0xb0, 0x4f})

	f.Fuzz(func(t *testing.T, data []byte) {
		code, length, err := Decode(data)
		if err != nil {
			return
		}

		encoded, err := code.Encode()
		assert.NoError(t, err)
		assert.Equal(t, data[:length], encoded)

		again, _, err := Decode(encoded)
		assert.NoError(t, err)
		assert.Equal(t, code, again)
	})
}
