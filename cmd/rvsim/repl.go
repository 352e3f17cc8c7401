package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tebeka/atexit"
	"golang.org/x/term"

	"github.com/ezrec/rvsim/cpu"
	"github.com/ezrec/rvsim/emulator"
)

const PROMPT = "rvsim> "

// lineTerminal is a line-oriented terminal, such as term.Terminal.
type lineTerminal interface {
	io.Writer
	ReadLine() (line string, err error)
}

// repl runs an interactive session on the terminal fd.
func repl(emu *emulator.Emulator, fd int) (err error) {
	// Move terminal into raw mode
	state, err := term.MakeRaw(fd)
	if err != nil {
		return
	}

	restore := func() {
		if err := term.Restore(fd, state); err != nil {
			log.Warnf("rvsim: restore terminal: %v", err)
		}
	}
	atexit.Register(restore)
	defer restore()

	screen := struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}

	return session(emu, term.NewTerminal(screen, PROMPT))
}

// session reads instructions and commands until ':quit' or end of input.
// Errors in a line are reported, and the session continues.
func session(emu *emulator.Emulator, tty lineTerminal) (err error) {
	for {
		var line string
		line, err = tty.ReadLine()
		if errors.Is(err, io.EOF) {
			err = nil
			return
		}
		if err != nil {
			return
		}

		line = strings.TrimSpace(line)
		switch line {
		case ":quit", ":q":
			return
		case ":help", ":h":
			fmt.Fprintln(tty, "commands: :regs :defines :reset :quit")
			fmt.Fprintln(tty, "instructions: add sub mul sll (xD, xS, xT), addi (xD, xS, imm)")
			continue
		case ":regs", ":r":
			fmt.Fprint(tty, emu.Cpu.String())
			continue
		case ":defines":
			var names []string
			defines := map[string]string{}
			for name, value := range emu.Defines() {
				names = append(names, name)
				defines[name] = value
			}
			slices.Sort(names)
			for _, name := range slices.Compact(names) {
				fmt.Fprintf(tty, "%v = %v\n", name, defines[name])
			}
			continue
		case ":reset":
			emu.Reset()
			fmt.Fprintln(tty, "registers cleared")
			continue
		}

		report, step_err := emu.Step(line)
		if errors.Is(step_err, cpu.ErrEmpty) {
			continue
		}
		if step_err != nil {
			fmt.Fprintf(tty, "error: %v\n", step_err)
			continue
		}

		err = emu.Print(tty, report)
		if err != nil {
			return
		}
	}
}
