package cpu

import (
	"fmt"
)

// State is the architectural state of the processor.
type State struct {
	Register [REGISTER_COUNT]int32 // General registers, indexed by CodeReg.
	Ip       int32                 // Instruction pointer.
	OF       bool                  // Overflow flag.
	SF       bool                  // Sign flag.
	ZF       bool                  // Zero flag.
}

// String returns the register file and flags, one per line.
func (st *State) String() (text string) {
	for n, value := range st.Register {
		text += fmt.Sprintf("% 4s: %12d  0x%08x\n", CodeReg(n).String(), value, uint32(value))
	}
	text += fmt.Sprintf("% 4s: %12d  0x%08x\n", "ip", st.Ip, uint32(st.Ip))

	flag := func(set bool) int {
		if set {
			return 1
		}
		return 0
	}
	text += fmt.Sprintf("  OF: %d  SF: %d  ZF: %d\n", flag(st.OF), flag(st.SF), flag(st.ZF))

	return
}

// Status is the execution status of the interpreter.
type Status int

const (
	STATUS_RUNNING             = Status(0) // RUNNING
	STATUS_HALTED              = Status(1) // HALTED
	STATUS_INVALID_ADDRESS     = Status(2) // INVALID_ADDRESS
	STATUS_INVALID_INSTRUCTION = Status(3) // INVALID_INSTRUCTION
)

var statusNames = map[Status]string{
	STATUS_RUNNING:             "RUNNING",
	STATUS_HALTED:              "HALTED",
	STATUS_INVALID_ADDRESS:     "INVALID_ADDRESS",
	STATUS_INVALID_INSTRUCTION: "INVALID_INSTRUCTION",
}

func (status Status) String() string {
	name, ok := statusNames[status]
	if !ok {
		return fmt.Sprintf("Status(%d)", int(status))
	}
	return name
}

// Terminal returns true for every status except STATUS_RUNNING.
func (status Status) Terminal() bool {
	return status != STATUS_RUNNING
}
