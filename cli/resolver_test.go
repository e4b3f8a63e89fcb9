package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func loadConfig(t *testing.T, name, text string) config {
	t.Helper()

	res, err := resolve(name)(strings.NewReader(text))
	if err != nil {
		t.Fatalf("resolve() error = %v", err)
	}

	cfg, ok := res.(config)
	if !ok {
		t.Fatalf("resolve() = %T, want config", res)
	}

	return cfg
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		text string
		want config
	}{
		{
			name: "namespaced",
			text: "config:\n  log-level: debug\n  log-pretty: false\n",
			want: config{"log-level": "debug", "log-pretty": false},
		},
		{
			name: "top-level",
			text: "log-level: warn\n",
			want: config{"log-level": "warn"},
		},
		{
			name: "numbers",
			text: "config:\n  count: 42\n  neg: -3\n  ratio: 0.5\n",
			want: config{"count": "42", "neg": "-3", "ratio": "0.5"},
		},
		{
			name: "sequence",
			text: "config:\n  funcs:\n    - a.yaml\n    - b.yaml\n",
			want: config{"funcs": []any{"a.yaml", "b.yaml"}},
		},
		{
			name: "empty",
			text: "",
			want: config{},
		},
		{
			name: "malformed",
			text: "config: [unterminated\n",
			want: config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := loadConfig(t, "config", tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("resolve() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestConfigResolve(t *testing.T) {
	cfg := config{"log-level": "debug", "log_format": "json"}

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log-format", "json"},
		{"log-caller", nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			flag := &kong.Flag{Value: &kong.Value{Name: tt.flag}}

			got, err := cfg.Resolve(nil, nil, flag)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("Resolve(%q) = %v, want %v", tt.flag, got, tt.want)
			}
		})
	}
}

func TestResolveConfiguration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	data := "config:\n  level: debug\n  count: 7\n  quiet: true\n  files:\n    - x\n    - y\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	var cli struct {
		Level string   `default:"info"`
		Count int      `default:"1"`
		Quiet bool
		Files []string
	}

	parser, err := kong.New(&cli,
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
		kong.Configuration(resolve("config"), path),
	)
	if err != nil {
		t.Fatalf("kong.New() error = %v", err)
	}

	if _, err := parser.Parse([]string{"--count=9"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cli.Level != "debug" {
		t.Errorf("Level = %q, want %q", cli.Level, "debug")
	}

	if cli.Count != 9 {
		t.Errorf("Count = %d, want 9 (flag overrides config)", cli.Count)
	}

	if !cli.Quiet {
		t.Error("Quiet = false, want true")
	}

	if want := []string{"x", "y"}; !reflect.DeepEqual(cli.Files, want) {
		t.Errorf("Files = %v, want %v", cli.Files, want)
	}
}
