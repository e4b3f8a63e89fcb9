package cmd

import (
	"errors"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/xpr/lang"
)

func TestDumpRun(t *testing.T) {
	ctx, out := testContext(t, nil, nil)

	d := &Dump{Expr: "2 + 3", Format: formatText}
	if err := d.Run(ctx); err != nil {
		t.Fatal(err)
	}

	want := `tokens: "2" "+" "3"` + "\n" +
		"0000  push int:2\n" +
		"0001  push int:3\n" +
		"0002  add\n"

	if out.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", out.String(), want)
	}
}

func TestDumpRunYAML(t *testing.T) {
	ctx, out := testContext(t, nil, nil)

	d := &Dump{Expr: "Max(1, 2)", Format: formatYAML}
	if err := d.Run(ctx); err != nil {
		t.Fatal(err)
	}

	var report dumpReport
	if err := yaml.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out.String())
	}

	if len(report.Tokens) != 6 {
		t.Errorf("tokens = %q", report.Tokens)
	}

	if len(report.Program) != 3 || len(report.Constants) != 3 {
		t.Errorf("program = %q, constants = %q", report.Program, report.Constants)
	}
}

func TestDumpRunCompileError(t *testing.T) {
	ctx, _ := testContext(t, nil, nil)

	err := (&Dump{Expr: "Nope(1)", Format: formatText}).Run(ctx)
	if !errors.Is(err, lang.ErrUnknownFunction) {
		t.Errorf("error = %v, want ErrUnknownFunction", err)
	}
}
