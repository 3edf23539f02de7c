package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezrec/y86/cpu"
	"github.com/ezrec/y86/internal"
	"github.com/ezrec/y86/object"
)

const (
	DEFAULT_SIZE = "1000" // Default memory size, in hex.
	DEFAULT_ADDR = "0"    // Default load address, in hex.
)

// assembly holds the flags shared by the commands that assemble source.
type assembly struct {
	verbose bool
	size    string
	addr    string
	defines []string
}

func (asmFlags *assembly) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&asmFlags.size, "size", DEFAULT_SIZE, "Memory size (hex)")
	cmd.Flags().StringVar(&asmFlags.addr, "addr", DEFAULT_ADDR, "Load address (hex)")
	cmd.Flags().StringArrayVarP(&asmFlags.defines, "define", "D", nil, "Predefine an equate, NAME=VALUE")
}

// assemble parses the named source file.
func (asmFlags *assembly) assemble(name string) (prog *cpu.Program, size int, err error) {
	size32, err := internal.HexToInt(asmFlags.size)
	if err != nil {
		err = fmt.Errorf("--size: %w", err)
		return
	}
	size = int(uint32(size32))

	origin, err := internal.HexToInt(asmFlags.addr)
	if err != nil {
		err = fmt.Errorf("--addr: %w", err)
		return
	}

	asm := &cpu.Assembler{
		Verbose: asmFlags.verbose,
		Origin:  origin,
	}

	for _, define := range asmFlags.defines {
		equ, value, ok := strings.Cut(define, "=")
		if !ok {
			value = "1"
		}
		asm.Predefine(equ, value)
	}

	inf, err := openInput(name)
	if err != nil {
		return
	}
	defer inf.Close()

	prog, err = asm.Parse(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", name, err)
		return
	}

	return
}

func assembleCommand() *cobra.Command {
	var asmFlags assembly
	var output string
	var asObject bool

	cmd := &cobra.Command{
		Use:   "assemble [flags] <file.ys>",
		Short: "Assemble source into hex machine code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			prog, size, err := asmFlags.assemble(args[0])
			if err != nil {
				return
			}

			ouf, err := createOutput(output)
			if err != nil {
				return
			}
			defer closeInto(&err, ouf)

			if asObject {
				var obj *object.Object
				obj, err = object.FromProgram(prog, size)
				if err != nil {
					return
				}
				err = obj.Marshal(ouf)
				return
			}

			text, err := prog.Hex()
			if err != nil {
				return
			}

			_, err = fmt.Fprintln(ouf, text)
			return
		},
	}

	asmFlags.register(cmd)
	cmd.Flags().BoolVarP(&asmFlags.verbose, "verbose", "v", false, "Verbose mode")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file")
	cmd.Flags().BoolVar(&asObject, "object", false, "Write an object file")

	return cmd
}
