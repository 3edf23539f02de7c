package emulator

import (
	"bytes"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ezrec/y86/cpu"
	"github.com/ezrec/y86/object"
)

var _ = Describe("Emulator", func() {
	var (
		emu    *Emulator
		output *bytes.Buffer
	)

	BeforeEach(func() {
		emu = NewEmulator()
		output = &bytes.Buffer{}
		emu.Tape.Output = output
	})

	// Helper to assemble and load a program at address zero.
	load := func(size int, source ...string) {
		asm := &cpu.Assembler{}
		prog, err := asm.Parse(strings.NewReader(strings.Join(source, "\n")))
		Expect(err).NotTo(HaveOccurred())
		Expect(emu.LoadProgram(prog, size)).To(Succeed())
	}

	It("starts unloaded", func() {
		Expect(emu.Verbose).To(BeFalse())
		Expect(emu.LineNo()).To(Equal(0))

		_, err := emu.Tick()
		Expect(err).To(MatchError(ErrNotLoaded))

		_, err = emu.Code()
		Expect(err).To(MatchError(ErrNotLoaded))
	})

	Describe("Scenario 1: addition", func() {
		BeforeEach(func() {
			load(0x100,
				"irmovl $5, %eax",
				"irmovl $3, %ecx",
				"addl %ecx, %eax",
				"halt",
			)
		})

		It("halts with the sum", func() {
			status, err := emu.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(cpu.STATUS_HALTED))
			Expect(emu.Register[cpu.REG_EAX]).To(Equal(int32(8)))
			Expect(emu.ZF).To(BeFalse())
			Expect(emu.SF).To(BeFalse())
			Expect(emu.OF).To(BeFalse())
		})

		It("tracks source lines while ticking", func() {
			for _, lineno := range []int{1, 2, 3, 4} {
				Expect(emu.LineNo()).To(Equal(lineno))
				done, err := emu.Tick()
				Expect(err).NotTo(HaveOccurred())
				Expect(done).To(Equal(lineno == 4))
			}

			done, err := emu.Tick()
			Expect(err).NotTo(HaveOccurred())
			Expect(done).To(BeTrue())
			Expect(emu.Cpu.Ticks).To(Equal(4))
		})

		It("reports the next instruction", func() {
			code, err := emu.Code()
			Expect(err).NotTo(HaveOccurred())
			Expect(code.String()).To(Equal("irmovl $5, %eax"))
		})

		It("can be reset and run again", func() {
			_, err := emu.Run()
			Expect(err).NotTo(HaveOccurred())

			emu.Reset()
			Expect(emu.Status).To(Equal(cpu.STATUS_RUNNING))
			Expect(emu.Ip).To(Equal(int32(0)))
			Expect(emu.Register[cpu.REG_EAX]).To(Equal(int32(0)))

			status, err := emu.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(cpu.STATUS_HALTED))
			Expect(emu.Register[cpu.REG_EAX]).To(Equal(int32(8)))
		})
	})

	Describe("Scenario 2: compare and branch", func() {
		It("jumps when equal", func() {
			// 0x00 irmovl, 0x06 cmpl, 0x08 je, 0x0d irmovl, 0x13 halt
			load(0x100,
				"irmovl $0, %eax",
				"cmpl %eax, %eax",
				"je 13",
				"irmovl $1, %ebx",
				"halt",
			)

			status, err := emu.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(cpu.STATUS_HALTED))
			Expect(emu.ZF).To(BeTrue())
			Expect(emu.Register[cpu.REG_EBX]).To(Equal(int32(0)))
		})
	})

	Describe("Scenario 3: signed overflow", func() {
		It("sets OF and wraps", func() {
			load(0x100,
				"irmovl $2147483647, %eax",
				"irmovl $1, %ecx",
				"addl %ecx, %eax",
				"halt",
			)

			status, err := emu.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(cpu.STATUS_HALTED))
			Expect(emu.OF).To(BeTrue())
			Expect(emu.Register[cpu.REG_EAX]).To(Equal(int32(-2147483648)))
		})
	})

	Describe("Scenario 4: stack", func() {
		It("restores the pushed value and %esp", func() {
			load(0x100,
				"irmovl $256, %esp",
				"irmovl $1234, %eax",
				"pushl %eax",
				"popl %ecx",
				"halt",
			)

			status, err := emu.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(cpu.STATUS_HALTED))
			Expect(emu.Register[cpu.REG_ECX]).To(Equal(int32(1234)))
			Expect(emu.Register[cpu.REG_ESP]).To(Equal(int32(256)))
		})
	})

	Describe("Scenario 5: fetch out of bounds", func() {
		It("stops with INVALID_ADDRESS", func() {
			load(3, "nop", "nop", "nop")

			status, err := emu.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(cpu.STATUS_INVALID_ADDRESS))
			Expect(emu.Cpu.Ticks).To(Equal(3))
			Expect(emu.LineNo()).To(Equal(0))
		})
	})

	Describe("Scenario 6: unknown opcode", func() {
		It("stops with INVALID_INSTRUCTION", func() {
			ld := &object.Loader{}
			obj, err := ld.Parse(strings.NewReader(".size 10\n.text 0 00ff10\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(emu.Load(obj)).To(Succeed())

			status, err := emu.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(cpu.STATUS_INVALID_INSTRUCTION))
			Expect(emu.Ip).To(Equal(int32(1)))
		})
	})

	Describe("Object files", func() {
		It("runs from the first .text address with data directives applied", func() {
			ld := &object.Loader{}
			obj, err := ld.Parse(strings.NewReader(`
.size 100
.text 20 30f380000000d03f000000001000
.string 80 "!"
`))
			Expect(err).NotTo(HaveOccurred())
			Expect(emu.Load(obj)).To(Succeed())
			Expect(emu.Entry()).To(Equal(int32(0x20)))
			Expect(emu.Ip).To(Equal(int32(0x20)))

			status, err := emu.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(cpu.STATUS_HALTED))
			Expect(output.String()).To(Equal("!"))
		})

		It("rejects objects that do not fit", func() {
			ld := &object.Loader{}
			obj, err := ld.Parse(strings.NewReader(".size 4\n.text 2 30f000000000\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(emu.Load(obj)).To(MatchError(cpu.ErrInvalidAddress))
		})
	})

	Describe("Tape I/O", func() {
		It("echoes input until end of input", func() {
			load(0x100,
				"irmovl $128, %esi",
				"readb 0(%esi)",
				"je 1c",
				"writeb 0(%esi)",
				"jmp 6",
				"nop",
				"halt",
			)
			// 0x00 irmovl, 0x06 readb, 0x0c je, 0x11 writeb, 0x17 jmp, 0x1c nop, 0x1d halt
			emu.Tape.Input = strings.NewReader("hello\n")

			status, err := emu.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(cpu.STATUS_HALTED))
			Expect(output.String()).To(Equal("hello\n"))
			Expect(emu.Tape.AtLineStart()).To(BeTrue())
		})

		It("sums decimal input", func() {
			// 0x00 irmovl, 0x06 irmovl, 0x0c readl, 0x12 je, 0x17 mrmovl,
			// 0x1d addl, 0x1f jmp, 0x24 rmmovl, 0x2a writel, 0x30 halt
			load(0x100,
				"irmovl $128, %esi",
				"irmovl $0, %eax",
				"readl 0(%esi)",
				"je 24",
				"mrmovl 0(%esi), %ecx",
				"addl %ecx, %eax",
				"jmp c",
				"rmmovl %eax, 4(%esi)",
				"writel 4(%esi)",
				"halt",
			)
			emu.Tape.Input = strings.NewReader(" 10 20\n-5 ")

			status, err := emu.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(cpu.STATUS_HALTED))
			Expect(output.String()).To(Equal("25"))
			Expect(emu.Tape.AtLineStart()).To(BeFalse())
		})

		It("reports host output failures with the source line", func() {
			load(0x100,
				"nop",
				"writeb 0(%eax)",
			)
			emu.Tape.Output = nil

			status, err := emu.Run()
			Expect(status).To(Equal(cpu.STATUS_RUNNING))
			Expect(err).To(MatchError(cpu.ErrChannel))

			var runtime *ErrRuntime
			Expect(errors.As(err, &runtime)).To(BeTrue())
			Expect(runtime.LineNo).To(Equal(2))
			Expect(runtime.Ip).To(Equal(int32(1)))
		})
	})

	Describe("Instruction limit", func() {
		It("stops a runaway program", func() {
			load(0x10, "jmp 0")
			emu.MaxTicks = 100

			status, err := emu.Run()
			Expect(err).To(MatchError(ErrTickLimit))
			Expect(status).To(Equal(cpu.STATUS_RUNNING))
			Expect(emu.Cpu.Ticks).To(Equal(100))
		})
	})
})
