// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	"golang.org/x/term"

	"github.com/ezrec/rvsim/emulator"
)

// newRootCmd creates the rvsim command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rvsim [flags] [instruction]",
		Short: "A toy RV32I instruction interpreter.",
		Long: `Execute RV32I instructions (add, sub, mul, sll, addi) against a register
file of 32 signed 32-bit registers, and report the register written.

Instructions are given on the command line, read from a script file, or typed
at an interactive prompt:

	rvsim addi x5, x0, 10
	rvsim -f program.s
	rvsim`,
		SilenceUsage: true,
		RunE:         run,
	}

	// Allow negative immediates after the first word of an instruction.
	cmd.Flags().SetInterspersed(false)

	cmd.Flags().StringP("file", "f", "", "script to run, one instruction per line ('-' for stdin)")
	cmd.Flags().BoolP("quiet", "q", false, "only report the register written")
	cmd.Flags().BoolP("zero-wired", "z", false, "hard-wire x0 to zero")
	cmd.Flags().StringArrayP("define", "D", []string{}, "define an expression constant (NAME=VALUE)")
	cmd.Flags().BoolP("verbose", "v", false, "increase logging verbosity")

	return cmd
}

func run(cmd *cobra.Command, args []string) (err error) {
	emu := emulator.NewEmulator()

	// Configure log level
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
		emu.Verbose = true
	}

	emu.Quiet = GetFlag(cmd, "quiet")
	emu.Cpu.ZeroWired = GetFlag(cmd, "zero-wired")

	for _, define := range GetStringArray(cmd, "define") {
		name, value, ok := strings.Cut(define, "=")
		if !ok || len(name) == 0 {
			return fmt.Errorf("invalid define '%v', expected NAME=VALUE", define)
		}
		emu.Define(name, value)
	}

	input := cmd.InOrStdin()
	output := cmd.OutOrStdout()

	file := GetString(cmd, "file")
	switch {
	case len(file) != 0 && len(args) != 0:
		return fmt.Errorf("unexpected arguments with --file: %v", args)
	case len(file) != 0:
		if file != "-" {
			var inf *os.File
			inf, err = os.Open(file)
			if err != nil {
				return
			}
			defer inf.Close()
			input = inf
		}
		log.Debugf("rvsim: running %v", file)
		return emu.Run(input, output)
	case len(args) != 0:
		line := strings.Join(args, " ")
		report, err := emu.Step(line)
		if err != nil {
			return err
		}
		return emu.Print(output, report)
	}

	if fd, ok := terminalFd(input); ok {
		log.Debugf("rvsim: interactive session")
		return repl(emu, fd)
	}

	return emu.Run(input, output)
}

// terminalFd returns the file descriptor of input if it is a terminal.
func terminalFd(input io.Reader) (fd int, ok bool) {
	inf, is_file := input.(*os.File)
	if !is_file {
		return
	}

	fd = int(inf.Fd())
	ok = term.IsTerminal(fd)
	return
}

func main() {
	code := 0
	if err := newRootCmd().Execute(); err != nil {
		code = 1
	}

	atexit.Exit(code)
}
