// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator runs interpreter sessions: single instructions, or
// scripts of one instruction per line, against a persistent register file.
package emulator

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ezrec/rvsim/cpu"
)

// Emulator state. CPU + instruction parser.
type Emulator struct {
	Verbose  bool       // If set, enables verbose logging.
	Quiet    bool       // If set, reports omit the register dump.
	*cpu.Cpu            // Reference to the CPU simulation.
	Parser   cpu.Parser // Instruction parser, with user defines.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu: cpu.NewCpu(),
	}

	return
}

// Define adds an integer constant for $(...) expressions.
func (emu *Emulator) Define(name string, value string) {
	if emu.Verbose {
		log.Infof("emulator: define %v = %v", name, value)
	}

	emu.Parser.Predefine(name, value)
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return emu.Parser.Defines()
}

// Reset the register state.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
}

// Step parses and executes a single line of instruction text.
// On error the registers are unchanged.
func (emu *Emulator) Step(line string) (report *cpu.Report, err error) {
	emu.Cpu.Verbose = emu.Verbose

	instr, err := emu.Parser.Parse(line)
	if err != nil {
		return
	}

	return emu.Cpu.Execute(instr)
}

// Print writes a report to the output.
func (emu *Emulator) Print(output io.Writer, report *cpu.Report) (err error) {
	if emu.Quiet {
		_, err = fmt.Fprintln(output, report.Message)
	} else {
		_, err = fmt.Fprint(output, cpu.Format(report))
	}

	return
}

// Run executes a script, one instruction per line, printing each report.
//
// Blank and comment-only lines are skipped. A line of the form
// '.equ NAME VALUE' defines an expression constant. Execution stops at the
// first failing line.
func (emu *Emulator) Run(input io.Reader, output io.Writer) (err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Line: line, Err: err}
		}
	}()

	for scanner.Scan() {
		line = scanner.Text()
		lineno += 1

		code := line
		if n := strings.IndexAny(code, ";#"); n >= 0 {
			code = code[:n]
		}

		// .equ NAME VALUE
		words := strings.Fields(code)
		if len(words) > 0 && strings.EqualFold(words[0], ".equ") {
			if len(words) != 3 {
				err = ErrEquateSyntax
				return
			}
			emu.Define(words[1], words[2])
			continue
		}

		var report *cpu.Report
		report, err = emu.Step(line)
		if errors.Is(err, cpu.ErrEmpty) {
			err = nil
			continue
		}
		if err != nil {
			return
		}

		err = emu.Print(output, report)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	return
}
