package profile

import "testing"

func TestConfigOptions(t *testing.T) {
	var cfg Config = func() (string, string, bool) { return "", "", false }

	cfg = WithMode("cpu")(cfg)
	cfg = WithPath("/tmp/p")(cfg)
	cfg = WithQuiet(true)(cfg)

	mode, path, quiet := cfg()
	if mode != "cpu" || path != "/tmp/p" || !quiet {
		t.Errorf("cfg() = %q, %q, %v", mode, path, quiet)
	}

	// Later options override earlier ones without disturbing the rest.
	mode, path, quiet = WithMode("heap")(cfg)()
	if mode != "heap" || path != "/tmp/p" || !quiet {
		t.Errorf("override = %q, %q, %v", mode, path, quiet)
	}
}

func TestConfigStartDisabled(t *testing.T) {
	var cfg Config = func() (string, string, bool) { return "", "", true }

	p := cfg.Start()
	if _, ok := p.(ignore); !ok {
		t.Errorf("Start() with empty mode = %T, want no-op", p)
	}

	p.Stop()
}
