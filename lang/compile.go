package lang

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Compile tokenizes and compiles text into a [Program]. Function calls are
// resolved against funcs immediately, so an unregistered name is a compile
// error rather than a runtime one.
//
// Grammar, lowest to highest precedence:
//
//	expr      := term2 ( ('&&'|'||') term2 )*
//	term2     := term  ( ('+'|'-') term )*
//	term      := comp  ( ('*'|'/'|'%') comp )*
//	comp      := factor [ ('=='|'!='|'<'|'>'|'<='|'>=') factor ]
//	factor    := '(' expr ')' | value
//	value     := ('+'|'-'|'!') factor | value2
//	value2    := string | bool | call | number
//	call      := identifier '(' [ expr (',' expr)* ] ')'
//	number    := digits | '0' ('x'|'X') hexdigits
//
// Expressions are compiled one after another until the tokens run out. A
// pass that cannot start at the cursor fails with [ErrNoProgress]; this is
// how a repeated comparison such as "a < b < c" is rejected.
func Compile(text string, funcs *FuncTable) (*Program, error) {
	c := compiler{
		tokens: Tokenize(text),
		funcs:  funcs,
	}

	for !c.eof() {
		if !startsValue(c.peek()) {
			return nil, ErrNoProgress.With(c.at()...)
		}

		err := c.parseExpr()
		if err != nil {
			return nil, err
		}
	}

	return &Program{source: text, code: c.code}, nil
}

// startsValue reports whether an expression can begin with tok. Every
// symbol other than a prefix operator or '(' leaves the cursor in place.
func startsValue(tok string) bool {
	switch tok {
	case "(", "+", "-", "!":
		return true
	}

	return !isSymbol(tok)
}

// compiler holds the transient state of a single build.
type compiler struct {
	funcs  *FuncTable
	tokens []string
	code   []Instruction
	argc   []int // one counter per call being parsed
	pos    int
}

func (c *compiler) eof() bool { return c.pos >= len(c.tokens) }

func (c *compiler) peek() string {
	if c.eof() {
		return ""
	}

	return c.tokens[c.pos]
}

func (c *compiler) emit(op Op, arg Value) {
	c.code = append(c.code, Instruction{Op: op, Arg: arg})
}

// at returns attributes locating the current token.
func (c *compiler) at() []slog.Attr {
	attrs := []slog.Attr{slog.Int("pos", c.pos)}
	if !c.eof() {
		attrs = append(attrs, slog.String("token", c.peek()))
	}

	return attrs
}

// operand consumes the operator at the cursor, compiles its right-hand side
// with rule, then emits op.
func (c *compiler) operand(rule func() error, op Op) error {
	sym := c.peek()
	c.pos++

	if c.eof() {
		return ErrDanglingOperator.With(slog.String("op", sym))
	}

	err := rule()
	if err != nil {
		return err
	}

	c.emit(op, None)

	return nil
}

// expr := term2 ( ('&&'|'||') term2 )*.
func (c *compiler) parseExpr() error {
	err := c.parseTerm2()
	if err != nil {
		return err
	}

	for !c.eof() {
		switch c.peek() {
		case "&&":
			err = c.operand(c.parseTerm2, OpAnd)
		case "||":
			err = c.operand(c.parseTerm2, OpOr)
		default:
			return nil
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// term2 := term ( ('+'|'-') term )*.
func (c *compiler) parseTerm2() error {
	err := c.parseTerm()
	if err != nil {
		return err
	}

	for !c.eof() {
		switch c.peek() {
		case "+":
			err = c.operand(c.parseTerm, OpAdd)
		case "-":
			err = c.operand(c.parseTerm, OpSub)
		default:
			return nil
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// term := comp ( ('*'|'/'|'%') comp )*.
func (c *compiler) parseTerm() error {
	err := c.parseComp()
	if err != nil {
		return err
	}

	for !c.eof() {
		switch c.peek() {
		case "*":
			err = c.operand(c.parseComp, OpMul)
		case "/":
			err = c.operand(c.parseComp, OpDiv)
		case "%":
			err = c.operand(c.parseComp, OpMod)
		default:
			return nil
		}

		if err != nil {
			return err
		}
	}

	return nil
}

var comparison = map[string]Op{
	"==": OpEQ,
	"!=": OpNE,
	"<":  OpLT,
	">":  OpGT,
	"<=": OpLE,
	">=": OpGE,
}

// comp := factor [ cmp factor ].
func (c *compiler) parseComp() error {
	err := c.parseFactor()
	if err != nil {
		return err
	}

	if op, ok := comparison[c.peek()]; ok {
		return c.operand(c.parseFactor, op)
	}

	return nil
}

// factor := '(' expr ')' | value.
func (c *compiler) parseFactor() error {
	if c.eof() {
		return ErrSyntax.With(
			slog.String("cause", "unexpected end of expression"),
			slog.Int("pos", c.pos),
		)
	}

	if c.peek() != "(" {
		return c.parseValue()
	}

	c.pos++

	err := c.parseExpr()
	if err != nil {
		return err
	}

	if c.peek() != ")" {
		return ErrSyntax.With(
			append([]slog.Attr{slog.String("cause", "unclosed parenthesis")},
				c.at()...)...,
		)
	}

	c.pos++

	return nil
}

// value := ('+'|'-'|'!') factor | value2.
func (c *compiler) parseValue() error {
	var op Op

	switch c.peek() {
	case "+":
		op = OpNop
	case "-":
		op = OpNeg
	case "!":
		op = OpNot
	default:
		return c.parseValue2()
	}

	sym := c.peek()
	c.pos++

	if c.eof() {
		return ErrDanglingOperator.With(slog.String("op", sym))
	}

	err := c.parseFactor()
	if err != nil {
		return err
	}

	// Unary plus is the identity and emits nothing.
	if op != OpNop {
		c.emit(op, None)
	}

	return nil
}

// value2 := string | bool | call | number.
func (c *compiler) parseValue2() error {
	tok := c.peek()

	switch {
	case isStringLiteral(tok):
		c.pos++
		c.emit(OpPush, StrValue(tok[1:len(tok)-1]))

		return nil

	case isBoolLiteral(tok):
		c.pos++
		c.emit(OpPushBool, BoolValue(strings.EqualFold(tok, "true")))

		return nil

	case isIdentifier(tok):
		return c.parseCall()

	default:
		return c.parseNumber()
	}
}

// number := digits | '0' ('x'|'X') hexdigits.
func (c *compiler) parseNumber() error {
	tok := c.peek()

	var (
		n   int32
		err error
	)

	switch {
	case isDecimal(tok):
		var v int64

		v, err = strconv.ParseInt(tok, 10, 32)
		n = int32(v)

	case isHex(tok):
		var v uint64

		v, err = strconv.ParseUint(tok[2:], 16, 32)
		n = int32(uint32(v))

	default:
		return ErrSyntax.With(
			append([]slog.Attr{slog.String("cause", "not a value")}, c.at()...)...,
		)
	}

	if err != nil {
		return ErrSyntax.Wrap(err).With(
			append([]slog.Attr{slog.String("cause", "number out of range")},
				c.at()...)...,
		)
	}

	c.pos++
	c.emit(OpPush, IntValue(n))

	return nil
}

// call := identifier '(' params ')'.
func (c *compiler) parseCall() error {
	name := c.peek()
	c.pos++

	if c.eof() {
		return ErrSyntax.With(
			slog.String("cause", "missing opening parenthesis"),
			slog.String("func", name),
		)
	}

	if c.peek() != "(" {
		return ErrSyntax.With(
			slog.String("cause", "malformed function call"),
			slog.String("func", name),
			slog.String("token", c.peek()),
		)
	}

	c.pos++

	c.argc = append(c.argc, 0)

	err := c.parseParams(name)

	count := c.argc[len(c.argc)-1]
	c.argc = c.argc[:len(c.argc)-1]

	if err != nil {
		return err
	}

	if c.peek() != ")" {
		return ErrSyntax.With(
			slog.String("cause", "unclosed function call"),
			slog.String("func", name),
		)
	}

	c.pos++

	fn, ok := c.funcs.Lookup(name)
	if !ok {
		return ErrUnknownFunction.With(slog.String("func", name))
	}

	c.emit(OpCall, funcValue(name, fn, count))

	return nil
}

// params := empty | expr (',' expr)*.
//
// Each argument increments the counter on top of c.argc.
func (c *compiler) parseParams(name string) error {
	for {
		if c.eof() {
			return ErrSyntax.With(
				slog.String("cause", "unclosed function call"),
				slog.String("func", name),
			)
		}

		if c.peek() == ")" {
			return nil
		}

		err := c.parseExpr()
		if err != nil {
			return err
		}

		c.argc[len(c.argc)-1]++

		if c.peek() != "," {
			return nil
		}

		c.pos++
	}
}

var boolLiterals = map[string]struct{}{
	"true": {}, "True": {}, "TRUE": {},
	"false": {}, "False": {}, "FALSE": {},
}

func isBoolLiteral(tok string) bool {
	_, ok := boolLiterals[tok]

	return ok
}

// isStringLiteral reports whether tok is a double-quoted, non-empty run of
// characters without embedded quotes.
func isStringLiteral(tok string) bool {
	if len(tok) < 3 || tok[0] != '"' || tok[len(tok)-1] != '"' {
		return false
	}

	return !strings.ContainsRune(tok[1:len(tok)-1], '"')
}

// isIdentifier reports whether tok starts with anything but a digit and
// continues with letters, digits, or underscores. Names such as "$f" are
// therefore valid; a lone symbol is not.
func isIdentifier(tok string) bool {
	first, size := utf8.DecodeRuneInString(tok)
	if size == 0 || unicode.IsDigit(first) || unicode.IsSpace(first) || isSymbol(tok) {
		return false
	}

	for _, r := range tok[size:] {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}

	return true
}

func isDecimal(tok string) bool {
	if tok == "" {
		return false
	}

	for i := range len(tok) {
		if tok[i] < '0' || tok[i] > '9' {
			return false
		}
	}

	return true
}

func isHex(tok string) bool {
	if len(tok) < 3 || tok[0] != '0' || (tok[1] != 'x' && tok[1] != 'X') {
		return false
	}

	for i := 2; i < len(tok); i++ {
		switch ch := tok[i]; {
		case ch >= '0' && ch <= '9',
			ch >= 'a' && ch <= 'f',
			ch >= 'A' && ch <= 'F':
		default:
			return false
		}
	}

	return true
}
