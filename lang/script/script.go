// Package script defines expression functions whose bodies are written in
// expr-lang and loaded from YAML.
//
// A script document maps function names to bodies:
//
//	functions:
//	  double: args[0] * 2
//	  greet: '"hello, " + args[0]'
//	  count: argc
//
// Each body sees two variables: args, the call arguments converted to Go
// values (int, string, or nil), and argc, their number. Results are converted
// back: integers within int32 range become Int, strings become Str, booleans
// become Int(0|1), and anything else yields [lang.None]. Division in expr-lang
// produces floats, which convert only when they hold a whole number.
package script

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"

	"github.com/ardnew/xpr/lang"
	"github.com/ardnew/xpr/log"
)

var (
	ErrRead    = lang.NewError("cannot read function script")
	ErrDecode  = lang.NewError("cannot decode function script")
	ErrBody    = lang.NewError("invalid function body")
	ErrCompile = lang.NewError("cannot compile function body")
)

// Registrar accepts named functions. [*lang.Parser] satisfies it.
type Registrar interface {
	RegisterFunction(name string, fn lang.Func) error
}

// Def is one compiled scripted function.
type Def struct {
	Name    string
	Source  string
	program *vm.Program
}

// Script is an ordered set of scripted functions.
type Script struct {
	Defs   []Def
	logger log.Logger
}

// Option configures a [Script].
type Option func(*Script)

// WithLogger sets the logger that receives runtime failures of function
// bodies. If not provided, failures are silent and yield [lang.None].
func WithLogger(logger log.Logger) Option {
	return func(s *Script) {
		s.logger = logger
	}
}

// env is the expr-lang environment of a function body.
type env struct {
	Args []any `expr:"args"`
	Argc int   `expr:"argc"`
}

type document struct {
	Functions yaml.MapSlice `yaml:"functions"`
}

// LoadFile reads and compiles the script at path.
func LoadFile(ctx context.Context, path string, opts ...Option) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrRead.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	s, err := Load(ctx, f, opts...)
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("path", path))
	}

	return s, nil
}

// Load reads a YAML script document from r and compiles every body.
func Load(ctx context.Context, r io.Reader, opts ...Option) (*Script, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrRead.Wrap(err)
	}

	var doc document

	err = yaml.UnmarshalContext(ctx, data, &doc)
	if err != nil {
		return nil, ErrDecode.Wrap(err)
	}

	s := &Script{Defs: make([]Def, 0, len(doc.Functions))}

	for _, opt := range opts {
		opt(s)
	}

	for _, item := range doc.Functions {
		name, ok := item.Key.(string)
		if !ok {
			return nil, ErrBody.With(slog.Any("key", item.Key))
		}

		var source string

		switch v := item.Value.(type) {
		case string:
			source = v
		case uint64, int64, float64, bool:
			source = fmt.Sprint(v)
		default:
			return nil, ErrBody.With(
				slog.String("func", name),
				slog.String("reason", "body is not a scalar"),
			)
		}

		def, err := Compile(name, source)
		if err != nil {
			return nil, err
		}

		s.Defs = append(s.Defs, def)
	}

	s.logger.TraceContext(ctx, "loaded function script",
		slog.Int("functions", len(s.Defs)),
		slog.Int("bytes", len(data)),
	)

	return s, nil
}

// Compile compiles a single function body.
func Compile(name, source string) (Def, error) {
	if source == "" {
		return Def{}, ErrBody.With(
			slog.String("func", name),
			slog.String("reason", "empty body"),
		)
	}

	program, err := expr.Compile(source, expr.Env(env{}))
	if err != nil {
		return Def{}, ErrCompile.Wrap(err).With(
			slog.String("func", name),
			slog.String("source", source),
		)
	}

	return Def{Name: name, Source: source, program: program}, nil
}

// Register installs every function of s into r, stopping at the first
// failure.
func (s *Script) Register(r Registrar) error {
	for _, def := range s.Defs {
		err := r.RegisterFunction(def.Name, s.handle(def))
		if err != nil {
			return err
		}
	}

	return nil
}

// Func returns the handle for def. Runtime failures yield [lang.None].
func (d Def) Func() lang.Func {
	var s Script

	return s.handle(d)
}

func (s *Script) handle(def Def) lang.Func {
	logger := s.logger

	return func(args []lang.Value, argc int) lang.Value {
		in := env{Args: make([]any, argc), Argc: argc}

		for i, v := range args[:argc] {
			in.Args[i] = toGo(v)
		}

		out, err := expr.Run(def.program, in)
		if err != nil {
			logger.Warn("function failed",
				slog.String("func", def.Name),
				slog.String("error", err.Error()),
			)

			return lang.None
		}

		return fromGo(out)
	}
}

func toGo(v lang.Value) any {
	switch v.Kind() {
	case lang.KindInt:
		return int(v.Int())
	case lang.KindStr:
		return v.Str()
	default:
		return nil
	}
}

func fromGo(v any) lang.Value {
	switch x := v.(type) {
	case string:
		return lang.StrValue(x)
	case bool:
		return lang.BoolValue(x)
	case int:
		return fromInt(int64(x))
	case int8:
		return fromInt(int64(x))
	case int16:
		return fromInt(int64(x))
	case int32:
		return fromInt(int64(x))
	case int64:
		return fromInt(x)
	case uint:
		return fromUint(uint64(x))
	case uint8:
		return fromUint(uint64(x))
	case uint16:
		return fromUint(uint64(x))
	case uint32:
		return fromUint(uint64(x))
	case uint64:
		return fromUint(x)
	case float64:
		if x != math.Trunc(x) {
			return lang.None
		}

		return fromInt(int64(max(min(x, math.MaxInt32+1), math.MinInt32-1)))
	default:
		return lang.None
	}
}

func fromInt(n int64) lang.Value {
	if n < math.MinInt32 || n > math.MaxInt32 {
		return lang.None
	}

	return lang.IntValue(int32(n))
}

func fromUint(n uint64) lang.Value {
	if n > math.MaxInt32 {
		return lang.None
	}

	return lang.IntValue(int32(n))
}
