package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/xpr/lang"
)

// Dump prints the tokens of an expression and the program it compiles to.
type Dump struct {
	Expr   string `arg:"" help:"Expression to compile" name:"expr"`
	Format string `       help:"Output format"         default:"text" enum:"text,yaml" short:"o"`
}

// dumpReport is the YAML form of a compiled expression.
type dumpReport struct {
	Expr      string   `yaml:"expr"`
	Tokens    []string `yaml:"tokens"`
	Program   []string `yaml:"program"`
	Constants []string `yaml:"constants,omitempty"`
}

// Run executes the dump command.
func (d *Dump) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	p, err := newParser(ctx)
	if err != nil {
		return err
	}

	tokens := lang.Tokenize(d.Expr)

	prog, err := lang.Compile(d.Expr, p.Functions())
	if err != nil {
		return lang.WrapError(err).With(
			slog.String("command", "dump"),
			slog.String("expr", d.Expr),
		)
	}

	out := stdout(ctx)

	if d.Format == formatYAML {
		report := dumpReport{Expr: d.Expr, Tokens: tokens}

		for _, in := range prog.Instructions() {
			report.Program = append(report.Program, in.String())
		}

		for _, c := range prog.Constants() {
			report.Constants = append(report.Constants, c.String())
		}

		return encodeYAML(ctx, out, report)
	}

	quoted := make([]string, len(tokens))
	for i, tok := range tokens {
		quoted[i] = strconv.Quote(tok)
	}

	_, err = fmt.Fprintf(out, "tokens: %s\n", strings.Join(quoted, " "))
	if err != nil {
		return ErrEncode.Wrap(err)
	}

	err = prog.Disassemble(out)
	if err != nil {
		return ErrEncode.Wrap(err)
	}

	return nil
}
