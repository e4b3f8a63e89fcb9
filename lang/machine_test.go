package lang

import (
	"errors"
	"testing"
)

func sum(args []Value, argc int) Value {
	var n int32

	for _, v := range args[:argc] {
		if v.Kind() == KindInt {
			n += v.Int()
		}
	}

	return IntValue(n)
}

func run(t *testing.T, funcs *FuncTable, text string) (Value, error) {
	t.Helper()

	prog, err := Compile(text, funcs)
	if err != nil {
		t.Fatalf("Compile(%q): %v", text, err)
	}

	var m Machine

	return m.Run(prog)
}

func TestMachineRun(t *testing.T) {
	funcs := NewFuncTable()
	_ = funcs.Register("Sum", sum)
	_ = funcs.Register("first", func(args []Value, argc int) Value {
		if argc == 0 {
			return None
		}

		return args[0]
	})

	tests := []struct {
		input string
		want  Value
	}{
		{"2 + 3 * 4", IntValue(14)},
		{"(2 + 3) * 4", IntValue(20)},
		{"-(2+3)", IntValue(-5)},
		{"10 - 4 - 3", IntValue(3)},
		{"7 / 2", IntValue(3)},
		{"-7 / 2", IntValue(-3)},
		{"7 % 3", IntValue(1)},
		{"-7 % 3", IntValue(-1)},
		{"2147483647 + 1", IntValue(-2147483648)},
		{"0x80000000 / 1", IntValue(-2147483648)},
		{"0x80000001 / -1", IntValue(2147483647)},
		{"7 % -1", IntValue(0)},
		{`"a" + "b"`, StrValue("ab")},
		{`"a" + 1`, StrValue("a1")},
		{`"a" + -1`, StrValue("a-1")},
		{`"n=" + 2 * 3`, StrValue("n=6")},
		{"1 == 1", IntValue(1)},
		{"1 != 1", IntValue(0)},
		{"1 < 2", IntValue(1)},
		{"2 > 1", IntValue(1)},
		{"2 <= 2", IntValue(1)},
		{"1 >= 2", IntValue(0)},
		{"true == 1", IntValue(1)},
		{"FALSE", IntValue(0)},
		{"0xFF", IntValue(255)},
		{"!0", IntValue(1)},
		{"!5", IntValue(0)},
		{"1 && 1", IntValue(1)},
		{"1 && 0", IntValue(0)},
		{"0 && 1", IntValue(0)},
		{"5 && 7", IntValue(1)},
		{"0 || 0", IntValue(0)},
		{"0 || 3", IntValue(1)},
		{"5 || 0", IntValue(5)},
		{"Sum(1, 2) == 3", IntValue(1)},
		{"Sum(1, 2, 3) == 6", IntValue(1)},
		{"Sum()", IntValue(0)},
		{"Sum(1, Sum(2, 3), 4)", IntValue(10)},
		{"Sum(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)", IntValue(55)},
		{`first("x", 2)`, StrValue("x")},
		{`first()`, None},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := run(t, funcs, tt.input)
			if err != nil {
				t.Fatalf("Run(%q) error: %v", tt.input, err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("Run(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestMachineRunErrors(t *testing.T) {
	funcs := NewFuncTable()
	_ = funcs.Register("Sum", sum)
	_ = funcs.Register("boom", func([]Value, int) Value {
		panic("boom")
	})
	_ = funcs.Register("boomErr", func([]Value, int) Value {
		panic(errors.New("boom"))
	})

	tests := []struct {
		input string
		want  error
	}{
		{`1 + "a"`, ErrTypeMismatch},
		{`"a" - 1`, ErrTypeMismatch},
		{`"a" + "b" * 2`, ErrTypeMismatch},
		{`"a" == "a"`, ErrTypeMismatch},
		{`-"a"`, ErrTypeMismatch},
		{`!"a"`, ErrTypeMismatch},
		{`"a" && 1`, ErrTypeMismatch},
		{"1 / 0", ErrDivisionByZero},
		{"1 % 0", ErrDivisionByZero},
		{"0x80000000 / -1", ErrOverflow},
		{"0x80000000 % -1", ErrOverflow},
		{"Sum(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11)", ErrArgumentCapacity},
		{"(1)(2)", ErrMalformedProgram},
		{"", ErrMalformedProgram},
		{"boom()", ErrFunctionPanic},
		{"boomErr()", ErrFunctionPanic},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := run(t, funcs, tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Run(%q) error = %v, want %v", tt.input, err, tt.want)
			}

			if !got.IsNone() {
				t.Errorf("Run(%q) = %v, want None", tt.input, got)
			}
		})
	}
}

func TestMachineArgumentCapacityNamesCapacity(t *testing.T) {
	funcs := NewFuncTable()
	_ = funcs.Register("Sum", sum)

	_, err := run(t, funcs, "Sum(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11)")

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("error %v is not *Error", err)
	}

	got, ok := e.Attr("capacity")
	if !ok || got.Int64() != ArgCapacity {
		t.Errorf("capacity attr = %v, %v; want %d", got, ok, ArgCapacity)
	}
}

func TestMachineArgumentOrder(t *testing.T) {
	var seen []string

	funcs := NewFuncTable()
	_ = funcs.Register("f", func(args []Value, argc int) Value {
		if len(args) != argc {
			t.Errorf("len(args) = %d, argc = %d", len(args), argc)
		}

		for _, v := range args {
			seen = append(seen, v.Text())
		}

		return IntValue(int32(argc))
	})

	got, err := run(t, funcs, `f(1, "two", 3)`)
	if err != nil {
		t.Fatal(err)
	}

	if !got.Equal(IntValue(3)) {
		t.Errorf("result = %v, want int:3", got)
	}

	want := []string{"1", "two", "3"}
	if len(seen) != len(want) {
		t.Fatalf("args = %q, want %q", seen, want)
	}

	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestMachineRecoversAfterFailure(t *testing.T) {
	var m Machine

	bad, err := Compile(`1 + "a"`, nil)
	if err != nil {
		t.Fatal(err)
	}

	good, err := Compile("1 + 2", nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.Run(bad); err == nil {
		t.Fatal("expected error")
	}

	if len(m.stack) != 0 {
		t.Fatalf("stack not cleared: %v", m.stack)
	}

	got, err := m.Run(good)
	if err != nil || !got.Equal(IntValue(3)) {
		t.Errorf("Run = %v, %v; want int:3", got, err)
	}
}

func TestMachineMalformedInstructions(t *testing.T) {
	tests := []struct {
		name string
		code []Instruction
	}{
		{"underflow binary", []Instruction{{Op: OpPush, Arg: IntValue(1)}, {Op: OpAdd}}},
		{"underflow unary", []Instruction{{Op: OpNeg}}},
		{"underflow call", []Instruction{{Op: OpCall, Arg: funcValue("f", sum, 2)}}},
		{"call without handle", []Instruction{{Op: OpCall, Arg: IntValue(0)}}},
		{"unknown op", []Instruction{{Op: Op(200)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Machine

			_, err := m.Run(&Program{code: tt.code})
			if !errors.Is(err, ErrMalformedProgram) {
				t.Errorf("error = %v, want ErrMalformedProgram", err)
			}
		})
	}
}
