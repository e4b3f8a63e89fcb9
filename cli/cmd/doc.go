// Package cmd implements the xpr subcommands.
//
// Commands receive their configuration through the context passed to Run:
// [WithContext] stores the parsed kong context, and [WithFunctions] describes
// the host functions (builtins and YAML function scripts) that every parser a
// command creates is loaded with.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
