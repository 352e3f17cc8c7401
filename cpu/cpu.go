// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
	"maps"

	log "github.com/sirupsen/logrus"
)

var _cpu_defines = map[string]string{
	"xlen": "32",
	"nreg": fmt.Sprintf("%d", REGISTER_COUNT),
}

// Cpu is the execution context for the interpreter.
// It is not safe for concurrent use.
type Cpu struct {
	Verbose   bool // Set to enable verbose logging.
	ZeroWired bool // Set to hard-wire x0 to zero, as real RISC-V does.

	Register RegisterFile // Register bank.
	Retired  int          // Instructions successfully executed since reset.
}

// NewCpu creates a new CPU with all registers zero.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Infof("cpu: reset")
	}

	cpu.Register.Reset()
	cpu.Retired = 0
}

// String returns the current register state, four registers per line.
func (cpu *Cpu) String() (text string) {
	for n, value := range cpu.Register.All() {
		text += fmt.Sprintf("%5s: %08X", fmt.Sprintf("x%d", n), uint32(value))
		if n%4 == 3 {
			text += "\n"
		} else {
			text += " "
		}
	}

	return
}

// Step parses and executes one line of instruction text.
func (cpu *Cpu) Step(line string) (report *Report, err error) {
	instr, err := Parse(line)
	if err != nil {
		return
	}

	return cpu.Execute(instr)
}

// Execute executes a decoded instruction against the CPU registers.
func (cpu *Cpu) Execute(instr Instruction) (report *Report, err error) {
	report, err = execute(instr, &cpu.Register, cpu.ZeroWired)
	if err != nil {
		if cpu.Verbose {
			log.Infof("cpu: %v: %v", instr, err)
		}
		return
	}

	cpu.Retired++

	if cpu.Verbose {
		log.WithFields(log.Fields{
			"retired":  cpu.Retired,
			"register": report.Effect.Register,
			"value":    report.Effect.Value,
		}).Infof("cpu: %v", instr)
	}

	return
}

// Execute validates instr and applies it to regs.
//
// All checks happen before the destination is written, so on error regs
// is unchanged.
func Execute(instr Instruction, regs *RegisterFile) (report *Report, err error) {
	return execute(instr, regs, false)
}

func execute(instr Instruction, regs *RegisterFile, zero_wired bool) (report *Report, err error) {
	defer func() {
		if err != nil {
			err = ErrOpcode{Mnemonic: instr.Mnemonic, Err: err}
		}
	}()

	spec, err := Lookup(instr.Mnemonic)
	if err != nil {
		return
	}

	if !spec.Supported() {
		err = ErrUnsupportedOpcode
		return
	}

	if len(instr.Operands) != spec.Arity() {
		err = ErrOperandKindMismatch
		return
	}

	for n, op := range instr.Operands {
		if op.Kind != spec.Kinds[n] {
			err = ErrOperandKindMismatch
			return
		}
	}

	for _, op := range instr.Operands {
		if op.Kind == KIND_REGISTER && !Valid(op.Index()) {
			err = ErrRegisterRange(op.Index())
			return
		}
	}

	dst := instr.Operands[0].Index()
	a := readOperand(regs, instr.Operands[1], zero_wired)
	b := readOperand(regs, instr.Operands[2], zero_wired)

	value := spec.Apply(a, b)
	if zero_wired && dst == 0 {
		value = 0
	}

	regs[dst] = value

	report = &Report{
		Effect:    &WriteEffect{Register: dst, Value: value},
		Registers: *regs,
		Message:   fmt.Sprintf("Register %d set to %d", dst, value),
	}

	return
}

// readOperand gets the value of a validated operand.
func readOperand(regs *RegisterFile, op Operand, zero_wired bool) int32 {
	if op.Kind == KIND_IMMEDIATE {
		return op.Value
	}

	if zero_wired && op.Index() == 0 {
		return 0
	}

	return regs[op.Index()]
}
