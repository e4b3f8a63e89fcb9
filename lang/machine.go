package lang

import (
	"fmt"
	"log/slog"
)

// ArgCapacity is the maximum number of arguments a single call may pass.
const ArgCapacity = 10

// Machine evaluates compiled programs on an operand stack.
//
// The stack and argument buffer are reused across runs, so a Machine is not
// safe for concurrent use and a [Func] must not retain its args slice.
type Machine struct {
	stack []Value
	args  [ArgCapacity]Value
}

// Run executes prog and returns the single value left on the stack.
//
// On failure the stack is cleared and the result is [None] together with an
// error from the evaluation tier. Panics raised by host functions are
// recovered and reported as [ErrFunctionPanic].
func (m *Machine) Run(prog *Program) (result Value, err error) {
	m.stack = m.stack[:0]

	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}

		if err != nil {
			m.reset()

			result = None
		}
	}()

	for pc, in := range prog.Instructions() {
		err = m.step(in)
		if err != nil {
			return None, WrapError(err).With(
				slog.Int("pc", pc),
				slog.String("instruction", in.String()),
			)
		}
	}

	if len(m.stack) != 1 {
		return None, ErrMalformedProgram.With(
			slog.Int("depth", len(m.stack)),
		)
	}

	result = m.stack[0]
	m.stack = m.stack[:0]

	return result, nil
}

func (m *Machine) step(in Instruction) error {
	switch {
	case in.Op == OpPush || in.Op == OpPushBool:
		m.push(in.Arg)

	case in.Op == OpCall:
		return m.call(in.Arg)

	case in.Op.isBinary():
		right, ok := m.pop()
		if !ok {
			return underflow(in.Op)
		}

		left, ok := m.pop()
		if !ok {
			return underflow(in.Op)
		}

		v, err := binary(in.Op, left, right)
		if err != nil {
			return err
		}

		m.push(v)

	case in.Op.isUnary():
		right, ok := m.pop()
		if !ok {
			return underflow(in.Op)
		}

		v, err := unary(in.Op, right)
		if err != nil {
			return err
		}

		m.push(v)

	case in.Op == OpNop:

	default:
		return ErrMalformedProgram.With(slog.String("op", in.Op.String()))
	}

	return nil
}

// call pops the arguments of desc into the scratch buffer, first argument at
// index zero, and pushes the function's result.
func (m *Machine) call(desc Value) error {
	if desc.kind != kindFunc || desc.fn == nil {
		return ErrMalformedProgram.With(slog.String("operand", desc.String()))
	}

	argc := int(desc.num)
	if argc > ArgCapacity {
		return ErrArgumentCapacity.With(
			slog.String("func", desc.str),
			slog.Int("argc", argc),
			slog.Int("capacity", ArgCapacity),
		)
	}

	if argc > len(m.stack) {
		return underflow(OpCall)
	}

	for i := argc - 1; i >= 0; i-- {
		m.args[i], _ = m.pop()
	}

	m.push(desc.fn(m.args[:argc], argc))

	clear(m.args[:argc])

	return nil
}

func (m *Machine) push(v Value) { m.stack = append(m.stack, v) }

func (m *Machine) pop() (Value, bool) {
	n := len(m.stack)
	if n == 0 {
		return None, false
	}

	v := m.stack[n-1]
	m.stack[n-1] = None
	m.stack = m.stack[:n-1]

	return v, true
}

func (m *Machine) reset() {
	clear(m.stack)
	m.stack = m.stack[:0]
	clear(m.args[:])
}

func underflow(op Op) *Error {
	return ErrMalformedProgram.With(
		slog.String("op", op.String()),
		slog.String("cause", "stack underflow"),
	)
}

func panicError(r any) *Error {
	if err, ok := r.(error); ok {
		return ErrFunctionPanic.Wrap(err)
	}

	return ErrFunctionPanic.With(slog.String("panic", fmt.Sprint(r)))
}
