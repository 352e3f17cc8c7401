// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"iter"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/rvsim/internal"
)

const (
	OPERAND_COUNT   = 3     // Operands of every instruction in the subset.
	EXPR_STEP_LIMIT = 10000 // Maximum starlark steps for a $(...) expression.
)

// tokenType is the type of a lexical token.
type tokenType int

const (
	TOKEN_WORD  = tokenType(0)
	TOKEN_COMMA = tokenType(1)
)

type token struct {
	Type tokenType
	Text string
}

// lexState is the state of the instruction lexer.
type lexState int

const (
	LEX_SPACE = lexState(0) // Between tokens.
	LEX_WORD  = lexState(1) // Inside a word.
	LEX_EXPR  = lexState(2) // Inside a $(...) expression.
)

// lex splits a line into words and commas.
// Comments start with ';' or '#' and run to the end of the line.
// A $(...) expression is a single word, even if it contains spaces or commas.
func lex(line string) (tokens []token, err error) {
	var word strings.Builder
	var depth int

	state := LEX_SPACE
	emit := func() {
		tokens = append(tokens, token{Type: TOKEN_WORD, Text: word.String()})
		word.Reset()
	}

	runes := []rune(line)
scan:
	for n := 0; n < len(runes); n++ {
		r := runes[n]

		if state == LEX_EXPR {
			word.WriteRune(r)
			switch r {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					state = LEX_WORD
				}
			}
			continue
		}

		switch {
		case r == ';' || r == '#':
			break scan
		case unicode.IsSpace(r):
			if state == LEX_WORD {
				emit()
				state = LEX_SPACE
			}
		case r == ',':
			if state == LEX_WORD {
				emit()
			}
			tokens = append(tokens, token{Type: TOKEN_COMMA, Text: ","})
			state = LEX_SPACE
		case r == '$' && state == LEX_SPACE && n+1 < len(runes) && runes[n+1] == '(':
			word.WriteString("$(")
			n++
			depth = 1
			state = LEX_EXPR
		default:
			word.WriteRune(r)
			state = LEX_WORD
		}
	}

	switch state {
	case LEX_WORD:
		emit()
	case LEX_EXPR:
		err = ErrToken{Token: word.String(), Err: ErrBadImmediate}
	}

	return
}

// Parser decodes instruction text.
//
// Two surface syntaxes are accepted:
//
//	add x1, x2, x3
//	add x1 x2 x3
//
// Immediates may be written as $(expr), which is evaluated as a starlark
// expression over the parser's defines.
type Parser struct {
	predefine map[string]string // Predefines
}

// Predefine defines a new expression constant, or redefines an existing one.
func (p *Parser) Predefine(equ string, value string) {
	equ = strings.ToLower(equ)
	if p.predefine == nil {
		p.predefine = map[string]string{equ: value}
	} else {
		p.predefine[equ] = value
	}
}

// Defines iterates over the system and user expression constants.
func (p *Parser) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_cpu_defines), maps.All(p.predefine))
}

// Parse parses one line of instruction text with no user defines.
func Parse(raw string) (instr Instruction, err error) {
	var p Parser
	return p.Parse(raw)
}

// Parse parses one line of instruction text.
func (p *Parser) Parse(raw string) (instr Instruction, err error) {
	line := strings.ToLower(strings.TrimSpace(raw))

	tokens, err := lex(line)
	if err != nil {
		return
	}

	if len(tokens) == 0 {
		err = ErrEmpty
		return
	}

	if tokens[0].Type != TOKEN_WORD {
		err = ErrToken{Token: line, Err: ErrBadArity}
		return
	}

	mnemonic := tokens[0].Text

	words, ok := operandWords(tokens[1:])
	if !ok {
		err = ErrToken{Token: line, Err: ErrBadArity}
		return
	}

	// The destination and first source are always registers. A known
	// opcode decides the rest.
	expect := []Kind{KIND_REGISTER, KIND_REGISTER}
	spec, lookup_err := Lookup(mnemonic)
	if lookup_err == nil {
		expect = spec.Kinds
	}

	operands := make([]Operand, 0, len(words))
	for n, word := range words {
		expect_register := n < len(expect) && expect[n] == KIND_REGISTER

		var op Operand
		op, err = p.operand(word, expect_register)
		if err != nil {
			return
		}
		operands = append(operands, op)
	}

	instr = Instruction{
		Mnemonic: mnemonic,
		Operands: operands,
	}

	return
}

// operandWords matches the tokens after the mnemonic against the comma
// form and then the whitespace form.
func operandWords(tokens []token) (words []string, ok bool) {
	is_comma := func(tok token) bool { return tok.Type == TOKEN_COMMA }

	if slices.ContainsFunc(tokens, is_comma) {
		// a , b , c
		if len(tokens) != 2*OPERAND_COUNT-1 {
			return
		}
		for n, tok := range tokens {
			want_comma := (n % 2) == 1
			if is_comma(tok) != want_comma {
				return
			}
			if !want_comma {
				words = append(words, tok.Text)
			}
		}
		ok = true
		return
	}

	// a b c
	if len(tokens) != OPERAND_COUNT {
		return
	}
	for _, tok := range tokens {
		words = append(words, tok.Text)
	}
	ok = true

	return
}

// operand classifies a single operand word.
func (p *Parser) operand(word string, expect_register bool) (op Operand, err error) {
	if word[0] == REGISTER_PREFIX {
		var index uint64
		index, err = strconv.ParseUint(word[1:], 10, 31)
		if err != nil {
			err = ErrToken{Token: word, Err: ErrBadRegisterToken}
			return
		}
		op = Register(int(index))
		return
	}

	if expect_register {
		err = ErrToken{Token: word, Err: ErrBadRegisterToken}
		return
	}

	value, err := p.immediate(word)
	if err != nil {
		return
	}

	op = Immediate(value)
	return
}

// immediate returns the value of an immediate word.
// Values from -0x80000000 to 0xffffffff are accepted; the upper half wraps
// to negative.
func (p *Parser) immediate(word string) (value int32, err error) {
	var v64 int64

	if strings.HasPrefix(word, "$(") && strings.HasSuffix(word, ")") {
		v64, err = p.parenEval(word[2 : len(word)-1])
	} else {
		v64, err = strconv.ParseInt(word, 0, 64)
	}

	if err != nil || v64 < -0x80000000 || v64 > 0xffffffff {
		err = ErrToken{Token: word, Err: ErrBadImmediate}
		return
	}

	value = int32(uint32(v64))
	return
}

// parenEval does $(...) evaluations.
func (p *Parser) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{Name: "immediate"}
	thread.SetMaxExecutionSteps(EXPR_STEP_LIMIT)
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range p.Defines() {
		v64, parse_err := strconv.ParseInt(str, 0, 64)
		if parse_err != nil {
			// Ignore non-integer defines.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}

	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrBadImmediate
		return
	}

	value, ok = st_int.Int64()
	if !ok {
		err = ErrBadImmediate
		return
	}

	return
}
