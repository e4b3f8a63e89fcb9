package lang

import (
	"iter"
	"log/slog"
	"strings"
)

// FuncTable maps case-folded function names to handles. Entries cannot be
// replaced or removed once registered.
type FuncTable struct {
	funcs map[string]Func
	names []string // original spelling, registration order
}

// NewFuncTable returns an empty function table.
func NewFuncTable() *FuncTable {
	return &FuncTable{funcs: make(map[string]Func)}
}

// Register adds fn under name. Lookups ignore case, so registering "SUM"
// after "Sum" fails with [ErrDuplicateFunction].
func (t *FuncTable) Register(name string, fn Func) error {
	if !isIdentifier(name) {
		return ErrInvalidFunction.With(
			slog.String("func", name),
			slog.String("reason", "name is not an identifier"),
		)
	}

	if fn == nil {
		return ErrInvalidFunction.With(
			slog.String("func", name),
			slog.String("reason", "nil handle"),
		)
	}

	if t.funcs == nil {
		t.funcs = make(map[string]Func)
	}

	key := strings.ToLower(name)
	if _, exists := t.funcs[key]; exists {
		return ErrDuplicateFunction.With(slog.String("func", name))
	}

	t.funcs[key] = fn
	t.names = append(t.names, name)

	return nil
}

// Lookup returns the handle registered under name, ignoring case.
func (t *FuncTable) Lookup(name string) (Func, bool) {
	if t == nil {
		return nil, false
	}

	fn, ok := t.funcs[strings.ToLower(name)]

	return fn, ok
}

// Len returns the number of registered functions.
func (t *FuncTable) Len() int {
	if t == nil {
		return 0
	}

	return len(t.names)
}

// Names returns an iterator over registered names in registration order.
func (t *FuncTable) Names() iter.Seq[string] {
	return func(yield func(string) bool) {
		if t == nil {
			return
		}

		for _, name := range t.names {
			if !yield(name) {
				return
			}
		}
	}
}
