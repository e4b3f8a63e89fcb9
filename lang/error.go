package lang

import (
	"errors"
	"log/slog"
	"strings"
)

// Compile-time errors. A failed build caches an empty program, so every
// later evaluation of the same source yields [None].
var (
	ErrSyntax            = NewError("syntax error")
	ErrUnknownFunction   = NewError("unknown function")
	ErrDuplicateFunction = NewError("function already registered")
	ErrInvalidFunction   = NewError("invalid function")
	ErrDanglingOperator  = NewError("missing right-hand operand")
	ErrNoProgress        = NewError("parser position did not advance")
)

// Evaluation errors. These affect a single run only; the cached program
// stays in place.
var (
	ErrTypeMismatch     = NewError("cannot evaluate expression")
	ErrDivisionByZero   = NewError("division by zero")
	ErrOverflow         = NewError("integer overflow")
	ErrArgumentCapacity = NewError("too many arguments")
	ErrMalformedProgram = NewError("malformed program")
	ErrFunctionPanic    = NewError("function panicked")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
//
// Errors derived from a sentinel with [Error.With] or [Error.Wrap] still
// match that sentinel with [errors.Is].
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
	base  *Error      // Sentinel this error was derived from
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg> (<attrs>): <err>"
	//   2. "<msg> (<attrs>)"
	//   3. "<err>"
	part := make([]string, 0, 2)

	if e.msg != "" {
		msg := e.msg
		if len(e.attrs) > 0 {
			msg += " (" + formatAttrs(e.attrs) + ")"
		}

		part = append(part, msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e == t || (e.base != nil && e.base == t)
}

// Attr returns the value of the named attribute, if present.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
		base:  e.sentinel(),
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
		base:  e.sentinel(),
	}
}

func (e *Error) sentinel() *Error {
	if e.base != nil {
		return e.base
	}

	return e
}

func formatAttrs(attrs []slog.Attr) string {
	var sb strings.Builder

	for i, a := range attrs {
		if i > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteString(a.Key)
		sb.WriteByte('=')
		sb.WriteString(a.Value.String())
	}

	return sb.String()
}
