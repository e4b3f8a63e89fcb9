// Package log is the structured logger shared by the xpr command and the
// expression packages. It wraps [log/slog] with a Trace level below Debug,
// colorized handlers, and functional options.
//
// A [Logger] is an immutable value. Its zero value discards all output, so
// types such as lang.Parser can hold one without checking for nil.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"))
//
//	logger.Debug("compiled", slog.Int("instructions", 7))
//
// Only [slog.Attr] values are accepted; there is no key/value variant.
//
// # Package-level logger
//
// [Trace], [Debug], [Info], [Warn], [Error] and their Context variants write
// through the logger returned by [Default], which [Config] replaces. The
// command line reconfigures it from the --log-* flags before any subcommand
// runs.
//
// Calls without a context use [DefaultContextProvider].
//
// # Levels and formats
//
// [Levels] and [Formats] enumerate the names accepted by [ParseLevel] and
// [ParseFormat]. Unknown names fall back to [DefaultLevel] and
// [DefaultFormat].
//
// # Time layouts
//
// [WithTimeLayout] accepts the names of the [time] package layouts in any
// case ("RFC3339", "kitchen"), a few short aliases ("ms", "us", "ns"), or a
// literal layout. An empty layout or "none" omits timestamps.
//
// # Pretty output
//
// With [WithPretty] enabled, text output drops quoting and colors keys and
// levels, and JSON output is indented and colored.
package log
