package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/rvsim/cpu"
	"github.com/ezrec/rvsim/emulator"
)

func doCmd(input string, args ...string) (output string, err error) {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(input))

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)

	err = cmd.Execute()
	output = out.String()
	return
}

func TestRootCmd(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		input  string
		args   []string
		output string
	}){
		{"comma", "", []string{"-q", "addi", "x5,", "x0,", "10"}, "Register 5 set to 10\n"},
		{"space", "", []string{"-q", "add", "x1", "x2", "x3"}, "Register 1 set to 0\n"},
		{"negative", "", []string{"-q", "addi", "x5", "x0", "-3"}, "Register 5 set to -3\n"},
		{"define", "", []string{"-q", "-D", "base=7", "addi", "x1,", "x0,", "$(base*2)"}, "Register 1 set to 14\n"},
		{"zero_wired", "", []string{"-q", "-z", "addi", "x0,", "x0,", "5"}, "Register 0 set to 0\n"},
		{"stdin", "addi x1, x0, 2\nsll x2, x1, x1\n", []string{"-q"}, "Register 1 set to 2\nRegister 2 set to 8\n"},
		{"stdin_file", "addi x1, x0, -1\n", []string{"-q", "-f", "-"}, "Register 1 set to -1\n"},
	}

	for _, entry := range table {
		output, err := doCmd(entry.input, entry.args...)
		assert.NoError(err, entry.name)
		assert.Equal(entry.output, output, entry.name)
	}
}

func TestRootCmdDump(t *testing.T) {
	assert := assert.New(t)

	output, err := doCmd("", "addi", "x5,", "x0,", "10")
	assert.NoError(err)
	assert.True(strings.HasPrefix(output, "Register 5 set to 10\n\nRegister State:\n"))
	assert.Contains(output, "\nx5: 10\n")
	assert.Contains(output, "\nx31: 0\n")
}

func TestRootCmdFile(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "program.s")
	script := strings.Join([]string{
		".equ SEVEN 7",
		"addi x2, x0, $(seven)",
		"addi x3, x0, 5",
		"mul x1, x2, x3",
	}, "\n")
	assert.NoError(os.WriteFile(path, []byte(script), 0o644))

	output, err := doCmd("", "-q", "--file", path)
	assert.NoError(err)
	assert.Equal("Register 2 set to 7\nRegister 3 set to 5\nRegister 1 set to 35\n", output)

	_, err = doCmd("", "-q", "--file", filepath.Join(t.TempDir(), "missing.s"))
	assert.Error(err)
}

func TestRootCmdError(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		args []string
		err  error
	}){
		{"arity", []string{"add"}, cpu.ErrBadArity},
		{"range", []string{"add", "x32,", "x1,", "x2"}, cpu.ErrRegisterOutOfRange},
		{"unsupported", []string{"xor", "x1,", "x2,", "x3"}, cpu.ErrUnsupportedOpcode},
	}

	for _, entry := range table {
		_, err := doCmd("", entry.args...)
		assert.True(errors.Is(err, entry.err), "%v: %v", entry.name, err)
	}

	_, err := doCmd("", "-D", "novalue", "add", "x1", "x2", "x3")
	assert.Error(err)

	_, err = doCmd("", "-f", "-", "add", "x1", "x2", "x3")
	assert.Error(err)

	_, err = doCmd("addi x1, x0, 1\nbogus\n", "-q")
	var runtime_err *emulator.ErrRuntime
	assert.True(errors.As(err, &runtime_err))
	assert.Equal(2, runtime_err.LineNo)
}

// fakeTerminal replays lines and collects output.
type fakeTerminal struct {
	bytes.Buffer
	lines []string
}

func (ft *fakeTerminal) ReadLine() (line string, err error) {
	if len(ft.lines) == 0 {
		err = io.EOF
		return
	}

	line = ft.lines[0]
	ft.lines = ft.lines[1:]
	return
}

func TestSession(t *testing.T) {
	assert := assert.New(t)

	emu := emulator.NewEmulator()
	emu.Quiet = true
	emu.Define("four", "4")

	tty := &fakeTerminal{lines: []string{
		"addi x1, x0, $(four)",
		"",
		"add",
		"sll x2 x1 x1",
		":defines",
		":regs",
		":reset",
		"addi x3, x0, 1",
		":quit",
		"addi x4, x0, 1",
	}}

	err := session(emu, tty)
	assert.NoError(err)

	output := tty.String()
	assert.Contains(output, "Register 1 set to 4\n")
	assert.Contains(output, "error: 'add' wrong number of operands\n")
	assert.Contains(output, "Register 2 set to 64\n")
	assert.Contains(output, "four = 4\n")
	assert.Contains(output, "xlen = 32\n")
	assert.Contains(output, "   x2: 00000040")
	assert.Contains(output, "registers cleared\n")
	assert.Contains(output, "Register 3 set to 1\n")
	assert.NotContains(output, "Register 4")

	assert.Equal(int32(0), emu.Cpu.Register[1])
	assert.Equal(int32(1), emu.Cpu.Register[3])
	assert.Equal(int32(0), emu.Cpu.Register[4])
}

func TestSessionEOF(t *testing.T) {
	assert := assert.New(t)

	emu := emulator.NewEmulator()
	emu.Quiet = true

	tty := &fakeTerminal{lines: []string{"addi x1, x0, 1"}}
	assert.NoError(session(emu, tty))
	assert.Equal("Register 1 set to 1\n", tty.String())
}
