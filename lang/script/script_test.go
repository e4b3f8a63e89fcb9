package script_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/xpr/lang"
	"github.com/ardnew/xpr/lang/script"
	"github.com/ardnew/xpr/log"
)

const doc = `
functions:
  double: args[0] * 2
  greet: '"hello, " + args[0]'
  count: argc
  even: args[0] % 2 == 0
  half: args[0] / 2
  big: 4294967296
  nothing: "nil"
`

func load(t *testing.T, src string, opts ...script.Option) *lang.Parser {
	t.Helper()

	s, err := script.Load(t.Context(), strings.NewReader(src), opts...)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	p := lang.New()

	err = s.Register(p)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	return p
}

func TestLoadOrder(t *testing.T) {
	s, err := script.Load(t.Context(), strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"double", "greet", "count", "even", "half", "big", "nothing"}
	if len(s.Defs) != len(want) {
		t.Fatalf("len(Defs) = %d, want %d", len(s.Defs), len(want))
	}

	for i, name := range want {
		if s.Defs[i].Name != name {
			t.Errorf("Defs[%d].Name = %q, want %q", i, s.Defs[i].Name, name)
		}
	}
}

func TestScriptFunctions(t *testing.T) {
	p := load(t, doc)

	tests := []struct {
		input string
		want  lang.Value
	}{
		{"double(21)", lang.IntValue(42)},
		{"double(21) + 1", lang.IntValue(43)},
		{`greet("bob")`, lang.StrValue("hello, bob")},
		{"count()", lang.IntValue(0)},
		{"count(1, 2, 3)", lang.IntValue(3)},
		{"even(4)", lang.IntValue(1)},
		{"even(3)", lang.IntValue(0)},
		{"half(8)", lang.IntValue(4)},
		{"half(7)", lang.None},
		{"big()", lang.None},
		{"nothing()", lang.None},
		{`double("x")`, lang.None},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := p.Parse(tt.input); !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"not yaml", "functions: [", script.ErrDecode},
		{"empty body", "functions:\n  f: ''\n", script.ErrBody},
		{"mapping body", "functions:\n  f:\n    a: 1\n", script.ErrBody},
		{"bad expr", "functions:\n  f: args[0] +\n", script.ErrCompile},
		{"unknown var", "functions:\n  f: x + 1\n", script.ErrCompile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := script.Load(t.Context(), strings.NewReader(tt.src))
			if !errors.Is(err, tt.want) {
				t.Errorf("Load error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRegisterInvalidName(t *testing.T) {
	s, err := script.Load(t.Context(), strings.NewReader("functions:\n  a-b: 1\n"))
	if err != nil {
		t.Fatal(err)
	}

	err = s.Register(lang.New())
	if !errors.Is(err, lang.ErrInvalidFunction) {
		t.Errorf("Register error = %v, want ErrInvalidFunction", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "funcs.yaml")

	err := os.WriteFile(path, []byte(doc), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	s, err := script.LoadFile(t.Context(), path)
	if err != nil {
		t.Fatal(err)
	}

	if len(s.Defs) == 0 {
		t.Error("no definitions loaded")
	}

	_, err = script.LoadFile(t.Context(), filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, script.ErrRead) {
		t.Errorf("missing file error = %v, want ErrRead", err)
	}
}

func TestRuntimeFailureLogged(t *testing.T) {
	var buf bytes.Buffer

	logger := log.Make(&buf, log.WithPretty(false), log.WithLevel(log.LevelWarn))

	p := load(t, "functions:\n  idx: args[5]\n", script.WithLogger(logger))

	if got := p.Parse("idx(1)"); !got.IsNone() {
		t.Errorf("idx(1) = %v, want None", got)
	}

	if !strings.Contains(buf.String(), "function failed") {
		t.Errorf("missing runtime failure log: %s", buf.String())
	}
}

func TestDefFunc(t *testing.T) {
	def, err := script.Compile("inc", "args[0] + 1")
	if err != nil {
		t.Fatal(err)
	}

	fn := def.Func()

	if got := fn([]lang.Value{lang.IntValue(1)}, 1); !got.Equal(lang.IntValue(2)) {
		t.Errorf("inc(1) = %v, want int:2", got)
	}
}
