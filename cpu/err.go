package cpu

import (
	"strconv"

	"github.com/ezrec/rvsim/translate"
)

var f = translate.From

var (
	// Parse errors
	ErrEmpty            = translate.Error("empty instruction")
	ErrBadArity         = translate.Error("wrong number of operands")
	ErrBadRegisterToken = translate.Error("bad register")
	ErrBadImmediate     = translate.Error("bad immediate")

	// Execution errors
	ErrUnknownOpcode       = translate.Error("unknown opcode")
	ErrUnsupportedOpcode   = translate.Error("unsupported opcode")
	ErrOperandKindMismatch = translate.Error("operand kind mismatch")
	ErrRegisterOutOfRange  = translate.Error("register out of range")
)

// ErrToken reports the operand or mnemonic text that failed to parse.
type ErrToken struct {
	Token string
	Err   error
}

func (err ErrToken) Error() string {
	return f("'%v' %v", err.Token, err.Err)
}

func (err ErrToken) Unwrap() error {
	return err.Err
}

// ErrOpcode reports the mnemonic of an instruction that failed to execute.
type ErrOpcode struct {
	Mnemonic string
	Err      error
}

func (err ErrOpcode) Error() string {
	return f("%v: %v", err.Mnemonic, err.Err)
}

func (err ErrOpcode) Unwrap() error {
	return err.Err
}

// ErrRegisterRange is the index of a register outside of x0..x31.
type ErrRegisterRange int

func (err ErrRegisterRange) Error() string {
	return f("%v %v", "x"+strconv.Itoa(int(err)), ErrRegisterOutOfRange)
}

func (err ErrRegisterRange) Is(target error) (ok bool) {
	if target == ErrRegisterOutOfRange {
		return true
	}
	_, ok = target.(ErrRegisterRange)
	return
}
