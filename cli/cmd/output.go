package cmd

import (
	"context"
	"io"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/xpr/lang"
)

const (
	formatText = "text"
	formatYAML = "yaml"
)

// stdout returns the writer commands print results to: the kong application's
// standard output if one is stored in ctx, otherwise [os.Stdout].
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// result is the YAML form of one evaluation.
type result struct {
	Expr  string `yaml:"expr"`
	Kind  string `yaml:"kind"`
	Value any    `yaml:"value"`
	Error string `yaml:"error,omitempty"`
}

func makeResult(expr string, v lang.Value, err error) result {
	r := result{Expr: expr, Kind: v.Kind().String()}

	switch v.Kind() {
	case lang.KindInt:
		r.Value = v.Int()
	case lang.KindStr:
		r.Value = v.Str()
	}

	if err != nil {
		r.Error = err.Error()
	}

	return r
}

// encodeYAML writes v to w as a YAML document.
func encodeYAML(ctx context.Context, w io.Writer, v any) error {
	data, err := yaml.MarshalContext(ctx, v, yaml.Indent(2))
	if err != nil {
		return ErrEncode.Wrap(err)
	}

	_, err = w.Write(data)
	if err != nil {
		return ErrEncode.Wrap(err)
	}

	return nil
}
