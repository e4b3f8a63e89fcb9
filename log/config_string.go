package log

import (
	"log/slog"
	"strconv"
	"strings"
)

// String returns the lower-case name of l, e.g. "trace" or "warn". Levels
// between the named ones are rendered relative to the nearest lower name,
// e.g. "info+2".
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}

	if l < LevelDebug && l > LevelTrace {
		return "trace+" + strconv.Itoa(int(l-LevelTrace))
	}

	if l < LevelTrace {
		return "trace" + strconv.Itoa(int(l-LevelTrace))
	}

	return strings.ToLower(slog.Level(l).String())
}

// String returns the name of f.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "Format(" + strconv.Itoa(int(f)) + ")"
	}
}
