// Package cli contains the command line interface for xpr.
//
// # Usage
//
// Expressions given as arguments are evaluated by default:
//
//	xpr '2 + 3 * 4' 'Max(1, 7, 3)'
//
// Subcommands:
//
//   - eval:  evaluate expressions from arguments or a file (default)
//   - bench: measure evaluation throughput of one expression
//   - dump:  print the tokens and compiled program of an expression
//   - funcs: list registered functions
//   - repl:  start an interactive session
//   - init:  write the current flag values to the configuration file
//
// # Functions
//
// The builtin function library is registered unless --no-builtins is given.
// Additional functions are defined in YAML scripts loaded with --funcs (-F),
// which may be repeated.
//
// # Configuration
//
// Flag defaults are read from config.yaml (and config.json) in the user
// configuration directory, $XDG_CONFIG_HOME/xpr by default. Keys live under a
// top-level "config" mapping and name flags without their leading dashes. Run
// "xpr init" to generate one.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o xpr .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default ~/.cache/xpr/pprof)
//
// # Examples
//
//	# Debug logging while evaluating a file of expressions
//	xpr --log-level=debug eval -f exprs.txt
//
//	# CPU profile of a benchmark
//	xpr --pprof-mode=cpu bench 'Sum(1, 2, 3)' -c 10000000 -w 4
package cli
