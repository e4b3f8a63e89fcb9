package cli

import (
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/xpr/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads flag values from a
// YAML document, as written by the init command.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve("config"), "/path/to/config.yaml")
//
// Flag values are read from the mapping under the key name, or from the
// top-level mapping if that key is absent:
//
//	config:
//	  log-level: debug
//	  log-format: json
//	  funcs:
//	    - ~/.config/xpr/math.yaml
//
// Keys may spell flag names with hyphens or underscores. Command-line flags
// override config file values. A document that cannot be decoded resolves
// nothing.
func resolve(name string) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		err := yaml.NewDecoder(r).Decode(&doc)
		if err != nil {
			if err != io.EOF {
				log.Warn("ignoring configuration",
					slog.String("namespace", name),
					slog.Any("error", err),
				)
			}

			return config{}, nil
		}

		if sub, ok := doc[name].(map[string]any); ok {
			doc = sub
		}

		cfg := make(config, len(doc))
		for key, val := range doc {
			cfg[key] = flagValue(val)
		}

		return cfg, nil
	}
}

// config implements [kong.Resolver] for decoded YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

// flagValue converts a decoded YAML value to a form Kong's mappers accept.
// Kong parses numbers from strings, and sequences become []any of strings.
func flagValue(val any) any {
	switch v := val.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = flagValue(e)
		}

		return out
	default:
		return v
	}
}
