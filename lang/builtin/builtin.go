// Package builtin provides a standard library of functions for expressions
// compiled by package lang.
//
// All functions follow the lang calling convention: they never fail, and
// return [lang.None] for arguments they cannot use.
package builtin

import (
	"errors"
	"iter"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ardnew/mung"

	"github.com/ardnew/xpr/lang"
)

// Registrar accepts named functions. [*lang.Parser] satisfies it.
type Registrar interface {
	RegisterFunction(name string, fn lang.Func) error
}

// Func describes one builtin.
type Func struct {
	Name string
	Doc  string
	Fn   lang.Func
}

var table = []Func{
	{
		Name: "Sum",
		Doc:  "Sum(ints...) adds its Int arguments, ignoring others",
		Fn:   sum,
	},
	{
		Name: "Min",
		Doc:  "Min(ints...) returns the smallest Int argument",
		Fn:   extremum(func(a, b int32) bool { return a < b }),
	},
	{
		Name: "Max",
		Doc:  "Max(ints...) returns the largest Int argument",
		Fn:   extremum(func(a, b int32) bool { return a > b }),
	},
	{
		Name: "Abs",
		Doc:  "Abs(int) returns the absolute value",
		Fn:   abs,
	},
	{
		Name: "Clamp",
		Doc:  "Clamp(x, lo, hi) limits x to the closed range [lo, hi]",
		Fn:   clamp,
	},
	{
		Name: "If",
		Doc:  "If(cond, a, b) returns a when cond is a non-zero Int, else b",
		Fn:   cond,
	},
	{
		Name: "Len",
		Doc:  "Len(str) returns the number of characters",
		Fn:   length,
	},
	{
		Name: "Str",
		Doc:  "Str(value) converts an Int or Str to Str",
		Fn:   str,
	},
	{
		Name: "Int",
		Doc:  "Int(value) parses a Str as a decimal or 0x-prefixed Int",
		Fn:   toInt,
	},
	{
		Name: "Upper",
		Doc:  "Upper(str) converts to upper case",
		Fn:   mapStr(strings.ToUpper),
	},
	{
		Name: "Lower",
		Doc:  "Lower(str) converts to lower case",
		Fn:   mapStr(strings.ToLower),
	},
	{
		Name: "Prefix",
		Doc:  "Prefix(list, items...) prepends items to a path list",
		Fn:   prefix,
	},
}

// All returns an iterator over the builtin functions in registration order.
func All() iter.Seq[Func] {
	return func(yield func(Func) bool) {
		for _, f := range table {
			if !yield(f) {
				return
			}
		}
	}
}

// Lookup returns the builtin with the given name, ignoring case.
func Lookup(name string) (Func, bool) {
	for _, f := range table {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}

	return Func{}, false
}

// Register installs every builtin into r. Registration continues past
// failures; all errors are joined.
func Register(r Registrar) error {
	var errs []error

	for f := range All() {
		err := r.RegisterFunction(f.Name, f.Fn)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func ints(args []lang.Value) iter.Seq[int32] {
	return func(yield func(int32) bool) {
		for _, v := range args {
			if v.Kind() == lang.KindInt && !yield(v.Int()) {
				return
			}
		}
	}
}

func sum(args []lang.Value, argc int) lang.Value {
	var n int32

	for v := range ints(args[:argc]) {
		n += v
	}

	return lang.IntValue(n)
}

func extremum(better func(a, b int32) bool) lang.Func {
	return func(args []lang.Value, argc int) lang.Value {
		var (
			best  int32
			found bool
		)

		for v := range ints(args[:argc]) {
			if !found || better(v, best) {
				best, found = v, true
			}
		}

		if !found {
			return lang.None
		}

		return lang.IntValue(best)
	}
}

func abs(args []lang.Value, argc int) lang.Value {
	if argc != 1 || args[0].Kind() != lang.KindInt {
		return lang.None
	}

	n := args[0].Int()
	if n < 0 {
		n = -n
	}

	return lang.IntValue(n)
}

func clamp(args []lang.Value, argc int) lang.Value {
	if argc != 3 {
		return lang.None
	}

	for _, v := range args[:3] {
		if v.Kind() != lang.KindInt {
			return lang.None
		}
	}

	x, lo, hi := args[0].Int(), args[1].Int(), args[2].Int()
	if lo > hi {
		return lang.None
	}

	return lang.IntValue(min(max(x, lo), hi))
}

func cond(args []lang.Value, argc int) lang.Value {
	if argc != 3 {
		return lang.None
	}

	if args[0].Truth() {
		return args[1]
	}

	return args[2]
}

func length(args []lang.Value, argc int) lang.Value {
	if argc != 1 || args[0].Kind() != lang.KindStr {
		return lang.None
	}

	return lang.IntValue(int32(utf8.RuneCountInString(args[0].Str())))
}

func str(args []lang.Value, argc int) lang.Value {
	if argc != 1 || args[0].IsNone() {
		return lang.None
	}

	return lang.StrValue(args[0].Text())
}

func toInt(args []lang.Value, argc int) lang.Value {
	if argc != 1 {
		return lang.None
	}

	switch v := args[0]; v.Kind() {
	case lang.KindInt:
		return v

	case lang.KindStr:
		s := strings.TrimSpace(v.Str())

		if h, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
			n, err := strconv.ParseUint(h, 16, 32)
			if err != nil {
				return lang.None
			}

			return lang.IntValue(int32(uint32(n)))
		}

		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return lang.None
		}

		return lang.IntValue(int32(n))

	default:
		return lang.None
	}
}

func mapStr(fn func(string) string) lang.Func {
	return func(args []lang.Value, argc int) lang.Value {
		if argc != 1 || args[0].Kind() != lang.KindStr {
			return lang.None
		}

		return lang.StrValue(fn(args[0].Str()))
	}
}

func prefix(args []lang.Value, argc int) lang.Value {
	if argc < 1 || args[0].Kind() != lang.KindStr {
		return lang.None
	}

	items := make([]string, 0, argc-1)

	for _, v := range args[1:argc] {
		if v.IsNone() {
			return lang.None
		}

		items = append(items, v.Text())
	}

	return lang.StrValue(mung.Make(
		mung.WithSubjectItems(args[0].Str()),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(items...),
	).String())
}
