package cpu

// doAlu computes rB op rA, returning the result and the overflow flag.
func doAlu(op CodeOp, valA, valB int32) (result int32, overflow bool) {
	switch op {
	case OP_ADDL:
		result = valB + valA
		overflow = (valA < 0) == (valB < 0) && (result < 0) != (valB < 0)
	case OP_SUBL, OP_CMPL:
		result = valB - valA
		overflow = (valB < 0 && valA > 0 && result > 0) || (valB > 0 && valA < 0 && result < 0)
	case OP_ANDL:
		result = valB & valA
	case OP_XORL:
		result = valB ^ valA
	case OP_MULL:
		wide := int64(valB) * int64(valA)
		result = int32(wide)
		overflow = int64(result) != wide
	}

	return
}

// Condition evaluates the branch condition of a jump opcode against the
// current flags. Opcodes other than jumps never branch.
func (st *State) Condition(op CodeOp) bool {
	less := st.SF != st.OF

	switch op {
	case OP_JMP:
		return true
	case OP_JLE:
		return less || st.ZF
	case OP_JL:
		return less
	case OP_JE:
		return st.ZF
	case OP_JNE:
		return !st.ZF
	case OP_JGE:
		return !less
	case OP_JG:
		return !less && !st.ZF
	}

	return false
}
