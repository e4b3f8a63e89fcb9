package builtin_test

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/ardnew/xpr/lang"
	"github.com/ardnew/xpr/lang/builtin"
)

func newParser(t *testing.T) *lang.Parser {
	t.Helper()

	p := lang.New()

	err := builtin.Register(p)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	return p
}

func TestBuiltins(t *testing.T) {
	tests := []struct {
		input string
		want  lang.Value
	}{
		{"Sum(1, 2) == 3", lang.IntValue(1)},
		{"Sum(1, 2, 3) == 6", lang.IntValue(1)},
		{`Sum(1, "x", 2)`, lang.IntValue(3)},
		{"sum()", lang.IntValue(0)},
		{"Min(4, -2, 9)", lang.IntValue(-2)},
		{"Max(4, -2, 9)", lang.IntValue(9)},
		{"Max()", lang.None},
		{`Min("a")`, lang.None},
		{"Abs(-5)", lang.IntValue(5)},
		{"Abs(5)", lang.IntValue(5)},
		{"Abs(1, 2)", lang.None},
		{"Clamp(15, 0, 10)", lang.IntValue(10)},
		{"Clamp(-3, 0, 10)", lang.IntValue(0)},
		{"Clamp(4, 0, 10)", lang.IntValue(4)},
		{"Clamp(4, 10, 0)", lang.None},
		{`If(1 < 2, "yes", "no")`, lang.StrValue("yes")},
		{`If(0, "yes", "no")`, lang.StrValue("no")},
		{`If("s", 1, 2)`, lang.IntValue(2)},
		{`Len("héllo")`, lang.IntValue(5)},
		{"Len(5)", lang.None},
		{"Str(42)", lang.StrValue("42")},
		{`Str(42) + Str(1)`, lang.StrValue("421")},
		{`Int("42") + 1`, lang.IntValue(43)},
		{`Int("0x10")`, lang.IntValue(16)},
		{`Int("nope")`, lang.None},
		{"Int(7)", lang.IntValue(7)},
		{`Upper("abc")`, lang.StrValue("ABC")},
		{`Lower("ABC")`, lang.StrValue("abc")},
		{`Upper(1)`, lang.None},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := newParser(t)

			v, err := p.Evaluate(t.Context(), tt.input)
			if err != nil && !tt.want.IsNone() {
				t.Fatalf("Evaluate(%q): %v", tt.input, err)
			}

			if !v.Equal(tt.want) {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.input, v, tt.want)
			}
		})
	}
}

func TestPrefix(t *testing.T) {
	p := newParser(t)
	sep := string(os.PathListSeparator)

	v, err := p.Evaluate(t.Context(), `Prefix("bin", "opt")`)
	if err != nil {
		t.Fatal(err)
	}

	if v.Kind() != lang.KindStr {
		t.Fatalf("Prefix = %v, want Str", v)
	}

	got := strings.Split(v.Str(), sep)
	if len(got) == 0 || got[0] != "opt" {
		t.Errorf("Prefix = %q, want opt first", v.Str())
	}

	if !strings.Contains(v.Str(), "bin") {
		t.Errorf("Prefix = %q, lost subject", v.Str())
	}

	if v := p.Parse("Prefix(1)"); !v.IsNone() {
		t.Errorf("Prefix(1) = %v, want None", v)
	}
}

func TestRegisterTwice(t *testing.T) {
	p := newParser(t)

	err := builtin.Register(p)
	if !errors.Is(err, lang.ErrDuplicateFunction) {
		t.Errorf("second Register error = %v, want ErrDuplicateFunction", err)
	}

	n := 0
	for range builtin.All() {
		n++
	}

	if p.Functions().Len() != n {
		t.Errorf("Functions().Len() = %d, want %d", p.Functions().Len(), n)
	}
}

func TestLookup(t *testing.T) {
	f, ok := builtin.Lookup("clamp")
	if !ok || f.Name != "Clamp" || f.Doc == "" {
		t.Errorf("Lookup(clamp) = %+v, %v", f, ok)
	}

	if _, ok := builtin.Lookup("nope"); ok {
		t.Error("Lookup(nope) found")
	}
}
