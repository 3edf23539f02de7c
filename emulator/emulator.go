// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator runs y86 object files and programs: a CPU, its memory,
// the tape I/O channel, and an optional source listing for diagnostics.
package emulator

import (
	"log"

	"github.com/ezrec/y86/cpu"
	"github.com/ezrec/y86/io"
	"github.com/ezrec/y86/object"
)

// Emulator state. CPU + memory + tape.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Source listing of the loaded program, if known.

	Tape     io.Tape // Tape IO channel.
	MaxTicks int     // Instruction limit per Reset, 0 for no limit.

	entry int32
}

// NewEmulator creates a new emulator with no program loaded.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     &cpu.Cpu{},
		Program: &cpu.Program{},
	}

	emu.Cpu.Channel = &emu.Tape

	return
}

// Load allocates the memory described by obj, applies its directives, and
// resets execution to its entry point.
func (emu *Emulator) Load(obj *object.Object) (err error) {
	ld := &object.Loader{Verbose: emu.Verbose}
	mem, err := ld.Load(obj)
	if err != nil {
		return
	}

	emu.Cpu.Memory = mem
	emu.entry = obj.Entry

	emu.Reset()

	return
}

// LoadProgram loads an assembled program into size bytes of memory, keeping
// its listing for diagnostics.
func (emu *Emulator) LoadProgram(prog *cpu.Program, size int) (err error) {
	obj, err := object.FromProgram(prog, size)
	if err != nil {
		return
	}

	err = emu.Load(obj)
	if err != nil {
		return
	}

	emu.Program = prog

	return
}

// Reset the CPU to the entry point. Memory is left as is.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset(emu.entry)
}

// Entry returns the entry point of the loaded program.
func (emu *Emulator) Entry() int32 {
	return emu.entry
}

// Code returns the instruction at the instruction pointer.
func (emu *Emulator) Code() (code cpu.Code, err error) {
	if emu.Cpu.Memory == nil {
		err = ErrNotLoaded
		return
	}

	code, err = emu.Cpu.FetchCode()
	return
}

// LineNo returns the source line of the executing instruction, or 0 if the
// emulator has no listing for it.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(emu.Cpu.Ip)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator. done is set once the CPU
// reaches a terminal status.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	ip := emu.Cpu.Ip
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Ip: ip, Err: err}
		}
	}()

	if emu.Cpu.Memory == nil {
		err = ErrNotLoaded
		return
	}

	if emu.Cpu.Status.Terminal() {
		done = true
		return
	}

	if emu.MaxTicks > 0 && emu.Cpu.Ticks >= emu.MaxTicks {
		err = ErrTickLimit
		return
	}

	err = emu.Cpu.Tick()
	if err != nil {
		return
	}

	done = emu.Cpu.Status.Terminal()
	if done && emu.Verbose {
		log.Printf("emulator: %v after %d instructions, line %d", emu.Cpu.Status, emu.Cpu.Ticks, lineno)
	}

	return
}

// Run ticks the emulator until the CPU reaches a terminal status.
func (emu *Emulator) Run() (status cpu.Status, err error) {
	for {
		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			break
		}
	}

	status = emu.Cpu.Status
	return
}
