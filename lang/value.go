package lang

import (
	"log/slog"
	"strconv"
)

// Kind is the discriminant of a [Value].
type Kind uint8

const (
	// KindNone is the empty value produced by failed evaluations.
	KindNone Kind = iota

	// KindInt is a signed 32-bit integer. Booleans are represented as 0 or 1.
	KindInt

	// KindStr is a string.
	KindStr

	// kindFunc describes a pending call inside a compiled program. It is
	// never the result of an evaluation.
	kindFunc
)

// String returns a string representation of the value kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindInt:
		return "Int"
	case KindStr:
		return "Str"
	case kindFunc:
		return "Func"
	default:
		return "Unknown"
	}
}

// Func is a host-supplied function handle. Args holds exactly argc values,
// with args[0] being the first argument written in the expression.
//
// The args slice aliases the evaluator's scratch buffer and is only valid
// for the duration of the call.
type Func func(args []Value, argc int) Value

// Value is the tagged union manipulated by compiled programs.
//
// The zero Value is [None].
type Value struct {
	fn   Func
	str  string // string payload, or function name for kindFunc
	num  int32  // integer payload, or argument count for kindFunc
	kind Kind
}

// None is the empty value.
var None = Value{}

// IntValue returns an Int value.
func IntValue(n int32) Value { return Value{kind: KindInt, num: n} }

// StrValue returns a Str value.
func StrValue(s string) Value { return Value{kind: KindStr, str: s} }

// BoolValue returns Int(1) for true and Int(0) for false.
func BoolValue(b bool) Value {
	if b {
		return IntValue(1)
	}

	return IntValue(0)
}

// funcValue returns the call descriptor stored in an OpCall instruction.
func funcValue(name string, fn Func, argc int) Value {
	return Value{kind: kindFunc, fn: fn, str: name, num: int32(argc)}
}

// Kind returns the discriminant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNone reports whether v is [None].
func (v Value) IsNone() bool { return v.kind == KindNone }

// Int returns the integer payload of v.
// It panics if v is not an Int; check [Value.Kind] first.
func (v Value) Int() int32 {
	if v.kind != KindInt {
		panic(&Error{msg: "Int called on " + v.kind.String() + " value"})
	}

	return v.num
}

// Str returns the string payload of v.
// It panics if v is not a Str; check [Value.Kind] first.
func (v Value) Str() string {
	if v.kind != KindStr {
		panic(&Error{msg: "Str called on " + v.kind.String() + " value"})
	}

	return v.str
}

// Truth reports whether v is a non-zero Int.
func (v Value) Truth() bool { return v.kind == KindInt && v.num != 0 }

// Equal reports whether v and w hold the same variant and payload.
// Function descriptors compare by name and argument count.
func (v Value) Equal(w Value) bool {
	return v.kind == w.kind && v.num == w.num && v.str == w.str
}

// String renders v for diagnostics, e.g. "int:14" or "string:ab".
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return "int:" + strconv.FormatInt(int64(v.num), 10)
	case KindStr:
		return "string:" + v.str
	case kindFunc:
		return "func:" + v.str + " argc:" + strconv.Itoa(int(v.num))
	case KindNone:
		return "type:None"
	default:
		return "type:" + v.kind.String()
	}
}

// Text renders the payload of v without its kind prefix.
func (v Value) Text() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(int64(v.num), 10)
	case KindStr:
		return v.str
	case kindFunc:
		return v.str
	default:
		return ""
	}
}

// LogValue implements slog.LogValuer.
func (v Value) LogValue() slog.Value {
	switch v.kind {
	case KindInt:
		return slog.GroupValue(
			slog.String("kind", v.kind.String()),
			slog.Int64("value", int64(v.num)),
		)
	case KindStr:
		return slog.GroupValue(
			slog.String("kind", v.kind.String()),
			slog.String("value", v.str),
		)
	case kindFunc:
		return slog.GroupValue(
			slog.String("kind", v.kind.String()),
			slog.String("name", v.str),
			slog.Int("argc", int(v.num)),
		)
	default:
		return slog.GroupValue(slog.String("kind", v.kind.String()))
	}
}
