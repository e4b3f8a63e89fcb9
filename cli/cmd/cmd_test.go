package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/xpr/lang"
)

// testContext returns a context carrying a kong context whose standard output
// is captured in the returned buffer.
func testContext(t *testing.T, cli any, vars kong.Vars) (context.Context, *bytes.Buffer) {
	t.Helper()

	if cli == nil {
		cli = &struct{}{}
	}

	var out bytes.Buffer

	parser, err := kong.New(cli, kong.Writers(&out, &out), vars)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(t.Context(), ktx), &out
}

// writeScript writes a YAML function script into dir and returns its path.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)

	err := os.WriteFile(path, []byte(body), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	return path
}

func TestUniquePaths(t *testing.T) {
	dir := t.TempDir()

	a := writeScript(t, dir, "a.yaml", "functions: {}\n")
	b := writeScript(t, dir, "b.yaml", "functions: {}\n")

	link := filepath.Join(dir, "link.yaml")
	if err := os.Symlink(a, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	rel, err := filepath.Rel(mustGetwd(t), b)
	if err != nil {
		t.Fatal(err)
	}

	missing := filepath.Join(dir, "missing.yaml")

	got := uniquePaths([]string{a, link, b, rel, a, missing})

	resolvedA, _ := filepath.EvalSymlinks(a)
	resolvedB, _ := filepath.EvalSymlinks(b)

	want := []string{resolvedA, resolvedB, missing}
	if !slices.Equal(got, want) {
		t.Errorf("uniquePaths = %q, want %q", got, want)
	}

	if uniquePaths(nil) != nil {
		t.Error("uniquePaths(nil) != nil")
	}
}

func mustGetwd(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	return wd
}

func TestNewParserDefaults(t *testing.T) {
	p, err := newParser(t.Context())
	if err != nil {
		t.Fatal(err)
	}

	if got := p.Parse("Max(1, 7, 3)"); !got.Equal(lang.IntValue(7)) {
		t.Errorf("builtin Max = %v, want int:7", got)
	}
}

func TestNewParserFunctions(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "f.yaml", "functions:\n  double: args[0] * 2\n")

	tests := []struct {
		name     string
		builtins bool
		expr     string
		want     lang.Value
	}{
		{"script with builtins", true, "double(Sum(1, 2))", lang.IntValue(6)},
		{"script only", false, "double(4)", lang.IntValue(8)},
		{"builtins disabled", false, "Sum(1)", lang.None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := WithFunctions(t.Context(), []string{path, path}, tt.builtins)

			p, err := newParser(ctx)
			if err != nil {
				t.Fatal(err)
			}

			if got := p.Parse(tt.expr); !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestNewParserIndependent(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "f.yaml", "functions:\n  one: 1\n")
	ctx := WithFunctions(t.Context(), []string{path}, true)

	a, err := newParser(ctx)
	if err != nil {
		t.Fatal(err)
	}

	b, err := newParser(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if a == b || a.Functions() == b.Functions() {
		t.Fatal("parsers share state")
	}

	if a.Functions().Len() != b.Functions().Len() {
		t.Errorf("function counts differ: %d vs %d",
			a.Functions().Len(), b.Functions().Len())
	}
}

func TestNewParserErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		body string
		want error
	}{
		{"missing file", "", ErrRegister},
		{"bad body", "functions:\n  bad: 'args[0] +'\n", ErrRegister},
		{"builtin clash", "functions:\n  sum: 1\n", lang.ErrDuplicateFunction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "missing.yaml")
			if tt.body != "" {
				path = writeScript(t, dir, tt.name+".yaml", tt.body)
			}

			_, err := newParser(WithFunctions(t.Context(), []string{path}, true))
			if !errors.Is(err, tt.want) {
				t.Errorf("newParser error = %v, want %v", err, tt.want)
			}
		})
	}
}
