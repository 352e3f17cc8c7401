package cpu

import (
	"strings"
)

// Kind is the type of an instruction operand.
type Kind int

//go:generate go tool stringer -linecomment -type=Kind
const (
	KIND_REGISTER  = Kind(0) // register
	KIND_IMMEDIATE = Kind(1) // immediate
)

// Opcode is an RV32I mnemonic known to the interpreter.
type Opcode int

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_ADD  = Opcode(0)  // add
	OP_SUB  = Opcode(1)  // sub
	OP_MUL  = Opcode(2)  // mul
	OP_SLL  = Opcode(3)  // sll
	OP_ADDI = Opcode(4)  // addi
	OP_SLT  = Opcode(5)  // slt
	OP_SLTU = Opcode(6)  // sltu
	OP_XOR  = Opcode(7)  // xor
	OP_SRL  = Opcode(8)  // srl
	OP_SRA  = Opcode(9)  // sra
	OP_OR   = Opcode(10) // or
	OP_AND  = Opcode(11) // and
)

// OpcodeSpec describes the operands and semantics of an opcode.
// The destination register is always the first operand.
type OpcodeSpec struct {
	Opcode Opcode
	Kinds  []Kind                 // Operand kinds, in order.
	Apply  func(a, b int32) int32 // Semantics; nil if not implemented.
}

var (
	kindsR = []Kind{KIND_REGISTER, KIND_REGISTER, KIND_REGISTER}
	kindsI = []Kind{KIND_REGISTER, KIND_REGISTER, KIND_IMMEDIATE}
)

// opcodeTable is indexed by Opcode.
var opcodeTable = [...]OpcodeSpec{
	OP_ADD:  {Opcode: OP_ADD, Kinds: kindsR, Apply: doAdd},
	OP_SUB:  {Opcode: OP_SUB, Kinds: kindsR, Apply: doSub},
	OP_MUL:  {Opcode: OP_MUL, Kinds: kindsR, Apply: doMul},
	OP_SLL:  {Opcode: OP_SLL, Kinds: kindsR, Apply: doSll},
	OP_ADDI: {Opcode: OP_ADDI, Kinds: kindsI, Apply: doAdd},
	OP_SLT:  {Opcode: OP_SLT, Kinds: kindsR},
	OP_SLTU: {Opcode: OP_SLTU, Kinds: kindsR},
	OP_XOR:  {Opcode: OP_XOR, Kinds: kindsR},
	OP_SRL:  {Opcode: OP_SRL, Kinds: kindsR},
	OP_SRA:  {Opcode: OP_SRA, Kinds: kindsR},
	OP_OR:   {Opcode: OP_OR, Kinds: kindsR},
	OP_AND:  {Opcode: OP_AND, Kinds: kindsR},
}

// opcodeMap maps mnemonics to opcodes.
var opcodeMap = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeTable))
	for n := range opcodeTable {
		op := Opcode(n)
		m[op.String()] = op
	}
	return m
}()

// Lookup finds the table entry of a mnemonic.
// Mnemonics are case-insensitive.
func Lookup(mnemonic string) (spec *OpcodeSpec, err error) {
	op, ok := opcodeMap[strings.ToLower(mnemonic)]
	if !ok {
		err = ErrUnknownOpcode
		return
	}

	spec = op.Spec()
	return
}

// Spec returns the table entry of the opcode, or nil if op is out of range.
func (op Opcode) Spec() *OpcodeSpec {
	if op < 0 || int(op) >= len(opcodeTable) {
		return nil
	}

	return &opcodeTable[op]
}

// Arity returns the number of operands.
func (spec *OpcodeSpec) Arity() int {
	return len(spec.Kinds)
}

// Supported returns true if the opcode has semantics wired in.
func (spec *OpcodeSpec) Supported() bool {
	return spec.Apply != nil
}

// The arithmetic wraps at 32 bits; Go defines signed overflow as wrapping.

func doAdd(a, b int32) int32 {
	return a + b
}

func doSub(a, b int32) int32 {
	return a - b
}

func doMul(a, b int32) int32 {
	return a * b
}

func doSll(a, b int32) int32 {
	shamt := uint32(b) & 0x1f // only the low 5 bits count
	return int32(uint32(a) << shamt)
}
