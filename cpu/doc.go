// Package cpu implements the interpreter, assembler and disassembler for
// the y86 teaching instruction set.
//
// The CPU consists of an instruction pointer, eight signed 32-bit general
// purpose registers (eax, ecx, edx, ebx, esp, ebp, esi, edi), and the
// overflow, sign and zero condition flags. Memory is a fixed size, zero
// initialized byte array with bounds checked byte and little-endian word
// access. %esp is the stack pointer used by pushl, popl, call and ret.
//
// A single instruction table (InstructionSet) drives the assembler, the
// disassembler and the interpreter. The assembler consumes a token stream
// with literal operands and supports .equ constants and $(...) compile-time
// expressions.
package cpu
