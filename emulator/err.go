package emulator

import (
	"github.com/ezrec/rvsim/translate"
)

var f = translate.From

var (
	ErrEquateSyntax = translate.Error(".equ syntax")
)

// ErrRuntime indicates the location of a script error.
type ErrRuntime struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
