package cpu

import (
	"fmt"
	"strings"
)

const (
	REGISTER_PREFIX = 'x' // Prefix of a register operand token.
)

// Operand is a register index or an immediate value.
type Operand struct {
	Kind  Kind
	Value int32
}

// Register creates a register operand.
func Register(index int) Operand {
	return Operand{Kind: KIND_REGISTER, Value: int32(index)}
}

// Immediate creates an immediate operand.
func Immediate(value int32) Operand {
	return Operand{Kind: KIND_IMMEDIATE, Value: value}
}

// Index returns the register index of a register operand.
func (op Operand) Index() int {
	return int(op.Value)
}

// String returns the assembly text of the operand.
func (op Operand) String() string {
	if op.Kind == KIND_REGISTER {
		return fmt.Sprintf("%c%d", REGISTER_PREFIX, op.Value)
	}
	return fmt.Sprintf("%d", op.Value)
}

// Instruction is a decoded, not yet validated, instruction.
type Instruction struct {
	Mnemonic string
	Operands []Operand
}

// String returns the instruction in comma form.
func (instr Instruction) String() string {
	args := make([]string, len(instr.Operands))
	for n, op := range instr.Operands {
		args[n] = op.String()
	}

	if len(args) == 0 {
		return instr.Mnemonic
	}

	return instr.Mnemonic + " " + strings.Join(args, ", ")
}
