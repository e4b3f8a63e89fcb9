package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ardnew/xpr/log"
)

// Bench measures how quickly an expression is evaluated once compiled.
type Bench struct {
	Expr    string `arg:"" help:"Expression to evaluate"                       name:"expr"`
	Count   int    `       help:"Evaluations per worker"        default:"1000000" short:"c"`
	Workers int    `       help:"Number of concurrent parsers"  default:"1"       short:"w"`
	Format  string `       help:"Output format"                 default:"text"    enum:"text,yaml" short:"o"`
}

// benchReport is the YAML form of a benchmark run.
type benchReport struct {
	Expr      string        `yaml:"expr"`
	Result    string        `yaml:"result"`
	Workers   int           `yaml:"workers"`
	Count     int           `yaml:"count"`
	Elapsed   time.Duration `yaml:"elapsed"`
	PerOp     time.Duration `yaml:"per_op"`
	OpsPerSec float64       `yaml:"ops_per_sec"`
}

// Run executes the bench command.
//
// Each worker owns its own parser; the expression is compiled on the first
// evaluation and every later one runs the cached program.
func (b *Bench) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	workers := max(b.Workers, 1)
	count := max(b.Count, 1)
	results := make([]string, workers)

	g, gctx := errgroup.WithContext(ctx)

	start := time.Now()

	for w := range workers {
		g.Go(func() error {
			p, err := newParser(gctx)
			if err != nil {
				return err
			}

			for i := range count {
				if i&0xfff == 0 && gctx.Err() != nil {
					return context.Cause(gctx)
				}

				v, err := p.Evaluate(gctx, b.Expr)
				if err != nil {
					return ErrEvaluate.Wrap(err).With(
						slog.String("expr", b.Expr),
						slog.Int("worker", w),
					)
				}

				results[w] = v.String()
			}

			return nil
		})
	}

	err = g.Wait()
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	total := workers * count

	report := benchReport{
		Expr:      b.Expr,
		Result:    results[0],
		Workers:   workers,
		Count:     count,
		Elapsed:   elapsed,
		PerOp:     elapsed / time.Duration(count),
		OpsPerSec: float64(total) / elapsed.Seconds(),
	}

	log.DebugContext(ctx, "benchmark complete",
		slog.String("expr", b.Expr),
		slog.Int("evaluations", total),
		slog.Duration("elapsed", elapsed),
	)

	out := stdout(ctx)

	if b.Format == formatYAML {
		return encodeYAML(ctx, out, report)
	}

	_, err = fmt.Fprintf(out,
		"%s = %s\n%d evaluations x %d workers in %s (%s/op, %.0f ops/s)\n",
		report.Expr, report.Result,
		report.Count, report.Workers, report.Elapsed,
		report.PerOp, report.OpsPerSec,
	)
	if err != nil {
		return ErrEncode.Wrap(err)
	}

	return nil
}
