package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/klauspost/readahead"

	"github.com/ardnew/xpr/lang"
	"github.com/ardnew/xpr/log"
)

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// Eval evaluates expressions and prints their values.
type Eval struct {
	Exprs  []string `arg:"" help:"Expressions to evaluate"                                    name:"expr" optional:""`
	File   string   `       help:"Read newline-separated expressions from file or '-' for stdin"                           short:"f"`
	Repeat int      `       help:"Evaluate each expression N times"                                        default:"1"  short:"n"`
	Format string   `       help:"Output format"                                                           default:"text" enum:"text,yaml" short:"o"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	exprs := e.Exprs

	if e.File != "" {
		more, err := readExprs(e.File)
		if err != nil {
			return err
		}

		exprs = append(exprs, more...)
	}

	if len(exprs) == 0 {
		return ErrNoInput.With(slog.String("command", "eval"))
	}

	p, err := newParser(ctx)
	if err != nil {
		return err
	}

	var (
		out     = stdout(ctx)
		results = make([]result, 0, len(exprs))
		errs    []error
	)

	for _, expr := range exprs {
		v, err := e.evaluate(ctx, p, expr)
		if err != nil {
			errs = append(errs, ErrEvaluate.Wrap(err).With(slog.String("expr", expr)))
		}

		if e.Format == formatYAML {
			results = append(results, makeResult(expr, v, err))

			continue
		}

		if err == nil {
			fmt.Fprintln(out, v)
		}
	}

	if e.Format == formatYAML {
		if err := encodeYAML(ctx, out, results); err != nil {
			return err
		}
	}

	return errors.Join(errs...)
}

// evaluate runs expr Repeat times on p and returns the last result. Every run
// after the first reuses the cached program.
func (e *Eval) evaluate(
	ctx context.Context,
	p *lang.Parser,
	expr string,
) (v lang.Value, err error) {
	for i := range max(e.Repeat, 1) {
		v, err = p.Evaluate(ctx, expr)
		if err != nil {
			log.DebugContext(ctx, "evaluation failed",
				slog.String("expr", expr),
				slog.Int("iteration", i),
				slog.Any("error", err),
			)

			return v, err
		}
	}

	return v, nil
}

// readExprs returns the non-blank lines of the named file that do not begin
// with '#'.
func readExprs(path string) ([]string, error) {
	var r io.Reader = os.Stdin

	if path != stdinSource {
		f, err := os.Open(path)
		if err != nil {
			return nil, ErrReadInput.Wrap(err).With(slog.String("path", path))
		}
		defer f.Close()

		r = f
	}

	ra := readahead.NewReader(r)
	defer ra.Close()

	var exprs []string

	scanner := bufio.NewScanner(ra)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		exprs = append(exprs, line)
	}

	err := scanner.Err()
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("path", path))
	}

	return exprs, nil
}
