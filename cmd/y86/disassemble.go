package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ezrec/y86/object"
)

func disassembleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "disassemble <file.yo>",
		Short: "List the machine code of an object file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			obj, err := loadObject(args[0], false)
			if err != nil {
				return
			}

			listing, err := obj.Disassemble()
			for _, line := range listing {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			if err != nil {
				err = fmt.Errorf("%v: %w", args[0], err)
			}

			return
		},
	}

	return cmd
}

// loadObject parses the named object file.
func loadObject(name string, verbose bool) (obj *object.Object, err error) {
	inf, err := openInput(name)
	if err != nil {
		return
	}
	defer inf.Close()

	ld := &object.Loader{Verbose: verbose}
	obj, err = ld.Parse(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", name, err)
		return
	}

	return
}
