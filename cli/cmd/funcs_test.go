package cmd

import (
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/xpr/lang/builtin"
)

func TestFuncsRun(t *testing.T) {
	ctx, out := testContext(t, nil, nil)

	if err := (&Funcs{Format: formatText}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")

	var n int
	for range builtin.All() {
		n++
	}

	if len(lines) != n {
		t.Fatalf("listed %d functions, want %d:\n%s", len(lines), n, out.String())
	}

	if !strings.HasPrefix(lines[0], "Sum") || !strings.Contains(lines[0], "builtin") {
		t.Errorf("first line = %q", lines[0])
	}
}

func TestFuncsRunScripts(t *testing.T) {
	path := writeScript(t, t.TempDir(), "f.yaml",
		"functions:\n  double: args[0] * 2\n  greet: '\"hi \" + args[0]'\n")

	ctx, out := testContext(t, nil, nil)
	ctx = WithFunctions(ctx, []string{path}, false)

	if err := (&Funcs{Format: formatYAML}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	var got []funcInfo
	if err := yaml.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out.String())
	}

	want := []funcInfo{
		{Name: "double", Origin: "script", Doc: "args[0] * 2"},
		{Name: "greet", Origin: "script", Doc: `"hi " + args[0]`},
	}

	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
