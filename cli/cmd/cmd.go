package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/xpr/lang"
	"github.com/ardnew/xpr/lang/builtin"
	"github.com/ardnew/xpr/lang/script"
	"github.com/ardnew/xpr/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	functionsKey struct{}

	// functions describes the host functions every parser created by a command
	// is loaded with. Scripts are read once, on first use.
	functions struct {
		paths    []string
		builtins bool
		scripts  func() ([]*script.Script, error)
	}
)

// WithFunctions returns a new context.Context describing the functions that
// parsers created by commands should register: the builtin library unless
// builtins is false, followed by each YAML function script in paths.
//
// Paths are deduplicated by resolving symlinks and comparing device/inode
// pairs, so the same script named twice is loaded once.
func WithFunctions(
	ctx context.Context,
	paths []string,
	builtins bool,
) context.Context {
	fn := &functions{paths: uniquePaths(paths), builtins: builtins}

	fn.scripts = sync.OnceValues(func() ([]*script.Script, error) {
		loaded := make([]*script.Script, 0, len(fn.paths))

		for _, path := range fn.paths {
			s, err := script.LoadFile(ctx, path, script.WithLogger(log.Default()))
			if err != nil {
				return nil, err
			}

			log.DebugContext(ctx, "loaded function script",
				slog.String("path", path),
				slog.Int("functions", len(s.Defs)),
			)

			loaded = append(loaded, s)
		}

		return loaded, nil
	})

	return context.WithValue(ctx, functionsKey{}, fn)
}

func functionsFrom(ctx context.Context) *functions {
	fn, ok := ctx.Value(functionsKey{}).(*functions)
	if !ok || fn == nil {
		return &functions{
			builtins: true,
			scripts:  func() ([]*script.Script, error) { return nil, nil },
		}
	}

	return fn
}

// newParser returns a parser with every function described by ctx registered.
// Each call returns an independent parser.
func newParser(ctx context.Context) (*lang.Parser, error) {
	fn := functionsFrom(ctx)

	p := lang.New(lang.WithLogger(log.Default()))

	if fn.builtins {
		err := builtin.Register(p)
		if err != nil {
			return nil, ErrRegister.Wrap(err)
		}
	}

	scripts, err := fn.scripts()
	if err != nil {
		return nil, ErrRegister.Wrap(err)
	}

	for _, s := range scripts {
		err := s.Register(p)
		if err != nil {
			return nil, ErrRegister.Wrap(err)
		}
	}

	return p, nil
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// uniquePaths returns the resolved paths of the distinct files named by paths,
// in order of first appearance. Paths that cannot be resolved are kept
// verbatim so that loading them reports the error.
func uniquePaths(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}

	out := make([]string, 0, len(paths))
	seen := make(map[fileKey]struct{})

	for _, path := range paths {
		resolved, ok := resolveUnique(path, seen)
		if !ok {
			continue
		}

		out = append(out, resolved)
	}

	return out
}

// resolveUnique resolves path and reports whether it names a file not already
// in seen. It resolves symlinks and uses device/inode to detect duplicates.
func resolveUnique(path string, seen map[fileKey]struct{}) (string, bool) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path, true
	}

	// Resolve symlinks to their target.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return path, true
	}

	// Get file info to extract device and inode.
	info, err := os.Stat(resolved)
	if err != nil {
		return path, true
	}

	key, ok := makeFileKey(info)
	if !ok {
		return resolved, true
	}

	if _, exists := seen[key]; exists {
		return "", false
	}

	seen[key] = struct{}{}

	return resolved, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: stat.Dev, ino: stat.Ino}, true
}
