package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ezrec/y86/emulator"
)

const DUMP_WIDTH = 64 // Memory dump width when not writing to a terminal.

// emulation holds the flags shared by the commands that run programs.
type emulation struct {
	verbose  bool
	dump     bool
	maxTicks int
	input    string
	output   string
}

func (emuFlags *emulation) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&emuFlags.verbose, "verbose", "v", false, "Verbose mode")
	cmd.Flags().BoolVar(&emuFlags.dump, "dump", false, "Dump CPU state and memory when finished")
	cmd.Flags().IntVar(&emuFlags.maxTicks, "max-ticks", 0, "Instruction limit, 0 for none")
	cmd.Flags().StringVarP(&emuFlags.input, "input", "i", "-", "Tape input")
	cmd.Flags().StringVarP(&emuFlags.output, "output", "o", "-", "Tape output")
}

// dumpWidth returns the memory dump width that fits the terminal.
func dumpWidth(file *os.File) int {
	fd := int(file.Fd())
	if !term.IsTerminal(fd) {
		return DUMP_WIDTH
	}

	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return DUMP_WIDTH
	}

	return width
}

// run executes the loaded emulator and reports its final status.
func (emuFlags *emulation) run(emu *emulator.Emulator, stdout io.Writer) (err error) {
	inf, err := openInput(emuFlags.input)
	if err != nil {
		return
	}
	defer inf.Close()

	ouf, err := createOutput(emuFlags.output)
	if err != nil {
		return
	}
	defer closeInto(&err, ouf)

	emu.MaxTicks = emuFlags.maxTicks
	emu.Tape.Input = inf
	emu.Tape.Output = ouf

	status, err := emu.Run()

	if emuFlags.output == "-" && !emu.Tape.AtLineStart() {
		fmt.Fprintln(stdout)
	}
	fmt.Fprintf(stdout, "End Status: %v\n", status)

	if emuFlags.dump {
		fmt.Fprint(stdout, emu.Cpu.String())
		dumpErr := emu.Memory.Dump(stdout, dumpWidth(os.Stdout))
		if err == nil {
			err = dumpErr
		}
	}

	return
}

func emulateCommand() *cobra.Command {
	var emuFlags emulation

	cmd := &cobra.Command{
		Use:   "emulate [flags] <file.yo>",
		Short: "Run an object file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			obj, err := loadObject(args[0], emuFlags.verbose)
			if err != nil {
				return
			}

			emu := emulator.NewEmulator()
			emu.Verbose = emuFlags.verbose

			err = emu.Load(obj)
			if err != nil {
				err = fmt.Errorf("%v: %w", args[0], err)
				return
			}

			err = emuFlags.run(emu, cmd.OutOrStdout())
			return
		},
	}

	emuFlags.register(cmd)

	return cmd
}

func runCommand() *cobra.Command {
	var asmFlags assembly
	var emuFlags emulation

	cmd := &cobra.Command{
		Use:   "run [flags] <file.ys>",
		Short: "Assemble and run source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			asmFlags.verbose = emuFlags.verbose
			prog, size, err := asmFlags.assemble(args[0])
			if err != nil {
				return
			}

			emu := emulator.NewEmulator()
			emu.Verbose = emuFlags.verbose

			err = emu.LoadProgram(prog, size)
			if err != nil {
				err = fmt.Errorf("%v: %w", args[0], err)
				return
			}

			err = emuFlags.run(emu, cmd.OutOrStdout())
			return
		},
	}

	asmFlags.register(cmd)
	emuFlags.register(cmd)

	return cmd
}
