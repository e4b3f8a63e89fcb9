package lang

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/xpr/log"
)

// Parser compiles and evaluates expressions against its own function table.
//
// The most recently compiled program is cached by source text: evaluating
// the same text again skips compilation entirely, even if the previous build
// failed or functions were registered since.
//
// A Parser is not internally synchronized. Confine each instance to one
// goroutine or protect it externally; independent instances may run in
// parallel.
type Parser struct {
	logger  log.Logger
	funcs   *FuncTable
	program *Program
	err     error // result of the cached build
	source  string
	result  Value
	machine Machine
	built   bool
}

// Option configures a [Parser].
type Option func(*Parser)

// WithLogger sets the structured logger used for failures and trace output.
// If not provided, the package-level [log.Default] logger at the time of
// [New] is used. A zero [log.Logger] silences the parser.
func WithLogger(logger log.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// New returns a Parser with an empty function table.
func New(opts ...Option) *Parser {
	p := &Parser{funcs: NewFuncTable(), logger: log.Default()}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// RegisterFunction adds fn to the parser's function table under name.
// See [FuncTable.Register].
func (p *Parser) RegisterFunction(name string, fn Func) error {
	err := p.funcs.Register(name, fn)
	if err != nil {
		return err
	}

	p.logger.Trace("register function", slog.String("func", name))

	return nil
}

// Functions returns the parser's function table.
func (p *Parser) Functions() *FuncTable { return p.funcs }

// Program returns the cached program. It is nil before the first evaluation
// and empty after a failed build.
func (p *Parser) Program() *Program { return p.program }

// Result returns the value produced by the most recent evaluation.
func (p *Parser) Result() Value { return p.result }

// Parse evaluates text and returns its value. It never fails: any compile or
// evaluation error is logged and yields [None].
func (p *Parser) Parse(text string) Value {
	return p.ParseContext(context.Background(), text)
}

// ParseContext is like [Parser.Parse] but passes ctx to the logger.
func (p *Parser) ParseContext(ctx context.Context, text string) Value {
	v, err := p.Evaluate(ctx, text)
	if err != nil {
		p.logger.WarnContext(ctx, "parse failed",
			slog.String("source", text),
			slog.Any("error", err),
		)
	}

	return v
}

// Evaluate compiles text unless it matches the cached source, runs the
// program, and returns the result. Unlike [Parser.Parse] the error is
// returned to the caller instead of being logged.
//
// The first evaluation of text that fails to compile returns the compile
// error. Later evaluations of the same text run the empty cached program and
// return [ErrMalformedProgram] wrapping that compile error.
func (p *Parser) Evaluate(ctx context.Context, text string) (Value, error) {
	fresh := p.build(ctx, text)

	if p.err != nil {
		p.result = None

		if fresh {
			return None, p.err
		}

		return None, ErrMalformedProgram.Wrap(p.err)
	}

	v, err := p.machine.Run(p.program)
	p.result = v

	if err != nil {
		return None, err
	}

	return v, nil
}

// build compiles text into the cache unless it is already there, and reports
// whether a compile took place.
func (p *Parser) build(ctx context.Context, text string) bool {
	if p.built && p.source == text {
		p.logger.TraceContext(ctx, "cache hit",
			slog.String("source_hash", fingerprint(text)),
		)

		return false
	}

	p.logger.TraceContext(ctx, "cache miss",
		slog.String("source_hash", fingerprint(text)),
		slog.Int("source_length", len(text)),
	)

	prog, err := Compile(text, p.funcs)
	if err != nil {
		prog = &Program{source: text}
	}

	p.source = text
	p.program = prog
	p.err = err
	p.built = true

	p.logger.TraceContext(ctx, "compiled",
		slog.Int("instructions", prog.Len()),
		slog.Bool("ok", err == nil),
	)

	return true
}

// fingerprint identifies source text in log output without repeating it.
func fingerprint(text string) string {
	return strconv.FormatUint(xxh3.HashString(text), 16)
}
