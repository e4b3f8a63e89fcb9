// Package profile provides optional runtime profiling for xpr.
//
// Profiling wraps [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag. Without the tag, [Config.Start] returns a no-op and
// [Modes] is empty.
//
// # Modes
//
//   - allocs:    Memory allocation profiling (all allocations)
//   - block:     Block (synchronization) profiling
//   - clock:     Wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: Goroutine profiling
//   - heap:      Heap memory profiling (live allocations)
//   - mem:       General memory profiling
//   - mutex:     Mutex contention profiling
//   - thread:    Thread creation profiling
//   - trace:     Execution trace profiling
//
// # Usage
//
// A [Config] is built from functional options and started:
//
//	var cfg profile.Config = func() (string, string, bool) { return "", "", false }
//
//	cfg = profile.WithMode("cpu")(cfg)
//	cfg = profile.WithPath("/tmp/profiles")(cfg)
//
//	p := cfg.Start()
//	defer p.Stop()
//
// The xpr command exposes the same settings as flags, which pair naturally
// with the bench command:
//
//	go build -tags pprof -o xpr .
//	./xpr --pprof-mode cpu bench 'Sum(1, 2, 3) * 4' --count 10000000
//	go tool pprof ./xpr ~/.cache/xpr/pprof/cpu.pprof
//
// Profiles are written to $XDG_CACHE_HOME/xpr/pprof by default.
//
// Building with the tag also imports [net/http/pprof], which registers its
// handlers on [net/http.DefaultServeMux] for programs embedding package lang
// that serve HTTP.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
