package log

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"
)

// useDefault points the package-level logger at a buffer for one test.
func useDefault(t *testing.T, opts ...Option) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	Config(append([]Option{WithOutput(&buf), WithPretty(false)}, opts...)...)
	t.Cleanup(func() {
		Config(WithDefaults(os.Stderr))
	})

	return &buf
}

func TestPackageFunctions(t *testing.T) {
	buf := useDefault(t, WithLevel(LevelTrace), WithFormat(FormatJSON))

	tests := []struct {
		fn    func(string, ...slog.Attr)
		level string
	}{
		{Trace, "TRACE"},
		{Debug, "DEBUG"},
		{Info, "INFO"},
		{Warn, "WARN"},
		{Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf.Reset()
			tt.fn("message", slog.String("key", "value"))

			out := buf.String()
			for _, want := range []string{`"level":"` + tt.level + `"`, `"key":"value"`} {
				if !strings.Contains(out, want) {
					t.Errorf("output %q missing %q", out, want)
				}
			}
		})
	}
}

func TestConfigAccumulates(t *testing.T) {
	buf := useDefault(t, WithLevel(LevelWarn))

	Config(WithFormat(FormatText))

	if got := Default().Level(); got != LevelWarn {
		t.Errorf("Default().Level() = %v, want %v", got, LevelWarn)
	}

	if got := Default().Format(); got != FormatText {
		t.Errorf("Default().Format() = %v, want %v", got, FormatText)
	}

	Info("dropped")
	Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") || !strings.Contains(out, "msg=kept") {
		t.Errorf("output = %q", out)
	}
}

func TestDefaultSnapshot(t *testing.T) {
	buf := useDefault(t, WithLevel(LevelInfo))

	snap := Default()

	Config(WithLevel(LevelError))

	snap.Info("from snapshot")
	Info("from default")

	out := buf.String()
	if !strings.Contains(out, "from snapshot") {
		t.Errorf("snapshot logger lost its level: %q", out)
	}

	if strings.Contains(out, "from default") {
		t.Errorf("reconfigured default still logs at info: %q", out)
	}
}
