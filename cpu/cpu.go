// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	goio "io"
	"log"

	"github.com/ezrec/y86/io"
)

// Channel is the I/O channel used by the read and write instructions.
type Channel io.Channel

// Cpu is the interpreter: processor state, the memory it owns, and the
// I/O channel for readb/readl/writeb/writel.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	State // Registers, instruction pointer and flags.

	Memory  *Memory // Memory of the machine.
	Status  Status  // Execution status.
	Channel Channel // I/O channel, nil reads as end of input.

	Ticks int // Instructions executed since Reset.
}

// NewCpu creates a new CPU with size bytes of memory.
func NewCpu(size int) (cpu *Cpu, err error) {
	mem, err := NewMemory(size)
	if err != nil {
		return
	}

	cpu = &Cpu{
		Memory: mem,
	}

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() string {
	return cpu.State.String() + f("status: %v\n", cpu.Status)
}

// Reset clears the registers, flags and counters, and starts execution at
// entry. Memory is left as loaded.
func (cpu *Cpu) Reset(entry int32) {
	if cpu.Verbose {
		log.Printf("cpu: reset, entry 0x%x", entry)
	}

	cpu.State = State{Ip: entry}
	cpu.Status = STATUS_RUNNING
	cpu.Ticks = 0
}

// FetchCode fetches and decodes the instruction at the instruction pointer.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	value, err := cpu.Memory.GetByte(cpu.Ip)
	if err != nil {
		return
	}

	length, err := EncodedLength(CodeOp(value))
	if err != nil {
		return
	}

	data, err := cpu.Memory.GetBytes(cpu.Ip, length)
	if err != nil {
		return
	}

	code, _, err = Decode(data)
	return
}

// statusOf maps a program fault to its terminal status.
func statusOf(err error) (status Status, ok bool) {
	switch {
	case errors.Is(err, ErrInvalidAddress):
		return STATUS_INVALID_ADDRESS, true
	case errors.Is(err, ErrUnknownInstruction), errors.Is(err, ErrInvalidRegister):
		return STATUS_INVALID_INSTRUCTION, true
	}

	return
}

// Tick executes a single instruction. Faults caused by the program end
// execution with a terminal Status and are not returned; only failures of
// the I/O channel are.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Status.Terminal() {
		return
	}

	code, err := cpu.FetchCode()
	if err == nil {
		err = cpu.Execute(code)
	}

	if err != nil {
		status, ok := statusOf(err)
		if !ok {
			return
		}
		if cpu.Verbose {
			log.Printf("%04x: %v", uint32(cpu.Ip), err)
		}
		cpu.Status = status
		err = nil
	}

	return
}

// Run ticks until the status is terminal.
func (cpu *Cpu) Run() (status Status, err error) {
	for !cpu.Status.Terminal() {
		err = cpu.Tick()
		if err != nil {
			break
		}
	}

	status = cpu.Status
	return
}

// Execute executes a single decoded instruction. A faulting instruction
// changes neither registers nor memory nor the instruction pointer.
func (cpu *Cpu) Execute(code Code) (err error) {
	inst, ok := LookupOp(code.Op)
	if !ok {
		err = ErrOp(code.Op)
		return
	}
	if inst.Uses(ARG_REG_A) && !code.RegA.Valid() {
		err = ErrRegister(code.RegA)
		return
	}
	if inst.Uses(ARG_REG_B) && !code.RegB.Valid() {
		err = ErrRegister(code.RegB)
		return
	}

	if cpu.Verbose {
		log.Printf("%04x: %v", uint32(cpu.Ip), code)
	}

	reg := &cpu.Register
	next_ip := cpu.Ip + int32(inst.Length())

	switch code.Op {
	case OP_NOP:
		// pass
	case OP_HALT:
		cpu.Status = STATUS_HALTED
	case OP_RRMOVL:
		reg[code.RegB] = reg[code.RegA]
	case OP_IRMOVL:
		reg[code.RegB] = code.Value
	case OP_RMMOVL:
		err = cpu.Memory.PutLong(reg[code.RegB]+code.Value, reg[code.RegA])
	case OP_MRMOVL:
		var value int32
		value, err = cpu.Memory.GetLong(reg[code.RegB] + code.Value)
		if err == nil {
			reg[code.RegA] = value
		}
	case OP_MOVSBL:
		var value byte
		value, err = cpu.Memory.GetByte(reg[code.RegB] + code.Value)
		if err == nil {
			reg[code.RegA] = int32(int8(value))
		}
	case OP_ADDL, OP_SUBL, OP_ANDL, OP_XORL, OP_MULL, OP_CMPL:
		result, overflow := doAlu(code.Op, reg[code.RegA], reg[code.RegB])
		cpu.OF = overflow
		cpu.SF = result < 0
		cpu.ZF = result == 0
		if code.Op != OP_CMPL {
			reg[code.RegB] = result
		}
	case OP_JMP, OP_JLE, OP_JL, OP_JE, OP_JNE, OP_JGE, OP_JG:
		if cpu.Condition(code.Op) {
			err = cpu.Memory.Check(code.Value, 1)
			if err == nil {
				next_ip = code.Value
			}
		}
	case OP_CALL:
		err = cpu.Memory.Check(code.Value, 1)
		if err == nil {
			err = cpu.Push(next_ip)
		}
		if err == nil {
			next_ip = code.Value
		}
	case OP_RET:
		next_ip, err = cpu.Pop()
	case OP_PUSHL:
		err = cpu.Push(reg[code.RegA])
	case OP_POPL:
		var value int32
		value, err = cpu.Pop()
		if err == nil {
			reg[code.RegA] = value
		}
	case OP_READB, OP_READL, OP_WRITEB, OP_WRITEL:
		err = cpu.channelOp(code.Op, reg[code.RegA]+code.Value)
	default:
		err = ErrOp(code.Op)
	}

	if err != nil {
		return
	}

	cpu.Ip = next_ip
	cpu.Ticks++

	return
}

// channelOp performs a read or write instruction against address addr.
// Reads set ZF at end of input and clear it otherwise.
func (cpu *Cpu) channelOp(op CodeOp, addr int32) (err error) {
	width := 1
	if op == OP_READL || op == OP_WRITEL {
		width = 4
	}

	err = cpu.Memory.Check(addr, width)
	if err != nil {
		return
	}

	switch op {
	case OP_READB, OP_READL:
		if cpu.Channel == nil {
			cpu.ZF = true
			return
		}
		var value int32
		if op == OP_READB {
			var b byte
			b, err = cpu.Channel.ReadByte()
			value = int32(b)
		} else {
			value, err = cpu.Channel.ReadLong()
		}
		if errors.Is(err, goio.EOF) {
			cpu.ZF = true
			err = nil
			return
		}
		if err != nil {
			err = errors.Join(ErrChannel, err)
			return
		}
		cpu.ZF = false
		if op == OP_READB {
			err = cpu.Memory.PutByte(addr, byte(value))
		} else {
			err = cpu.Memory.PutLong(addr, value)
		}
	case OP_WRITEB:
		var value byte
		value, err = cpu.Memory.GetByte(addr)
		if err != nil {
			return
		}
		if cpu.Channel == nil {
			err = errors.Join(ErrChannel, io.ErrNoOutput)
			return
		}
		err = cpu.Channel.WriteByte(value)
	case OP_WRITEL:
		var value int32
		value, err = cpu.Memory.GetLong(addr)
		if err != nil {
			return
		}
		if cpu.Channel == nil {
			err = errors.Join(ErrChannel, io.ErrNoOutput)
			return
		}
		err = cpu.Channel.WriteLong(value)
	}

	if err != nil && !errors.Is(err, ErrChannel) && !errors.Is(err, ErrInvalidAddress) {
		err = errors.Join(ErrChannel, err)
	}

	return
}
