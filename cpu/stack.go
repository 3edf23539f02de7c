package cpu

// The stack lives in memory and grows down from %esp.

// Push stores value at %esp-4, then updates %esp. Neither changes if the
// store is out of bounds.
func (cpu *Cpu) Push(value int32) (err error) {
	sp := cpu.Register[REG_ESP] - 4
	err = cpu.Memory.PutLong(sp, value)
	if err != nil {
		return
	}

	cpu.Register[REG_ESP] = sp
	return
}

// Pop loads the word at %esp, then updates %esp. %esp does not change if
// the load is out of bounds.
func (cpu *Cpu) Pop() (value int32, err error) {
	sp := cpu.Register[REG_ESP]
	value, err = cpu.Memory.GetLong(sp)
	if err != nil {
		return
	}

	cpu.Register[REG_ESP] = sp + 4
	return
}

// Peek loads the word at %esp.
func (cpu *Cpu) Peek() (value int32, err error) {
	return cpu.Memory.GetLong(cpu.Register[REG_ESP])
}
