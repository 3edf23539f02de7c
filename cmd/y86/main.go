// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Command y86 assembles, disassembles and emulates y86 programs.
package main

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("y86: ")

	rootCmd := &cobra.Command{
		Use:           "y86",
		Short:         "y86 assembler, disassembler and emulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		assembleCommand(),
		disassembleCommand(),
		emulateCommand(),
		runCommand(),
	)

	err := rootCmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}

// openInput opens a named file, or standard input for "-".
func openInput(name string) (file io.ReadCloser, err error) {
	if name == "-" {
		file = io.NopCloser(os.Stdin)
		return
	}

	file, err = os.Open(name)
	return
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

// createOutput creates a named file, or returns standard output for "-".
func createOutput(name string) (file io.WriteCloser, err error) {
	if name == "-" {
		file = nopWriteCloser{os.Stdout}
		return
	}

	file, err = os.Create(name)
	return
}

// closeInto closes file, keeping its error in *err unless *err is already
// set.
func closeInto(err *error, file io.Closer) {
	closeErr := file.Close()
	if *err == nil {
		*err = closeErr
	}
}
