package lang

import (
	"log/slog"
	"math"
	"strconv"
)

// Op is a single instruction opcode.
type Op uint8

const (
	OpNop Op = iota

	OpPush     // push literal payload
	OpPushBool // push boolean literal payload
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg // unary minus

	OpEQ
	OpNE
	OpLT
	OpGT
	OpLE
	OpGE

	OpAnd
	OpOr
	OpNot

	OpCall // invoke function payload
)

// String returns the mnemonic of op.
func (op Op) String() string {
	switch op {
	case OpNop:
		return "nop"
	case OpPush:
		return "push"
	case OpPushBool:
		return "pushb"
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	case OpMod:
		return "mod"
	case OpNeg:
		return "neg"
	case OpEQ:
		return "eq"
	case OpNE:
		return "ne"
	case OpLT:
		return "lt"
	case OpGT:
		return "gt"
	case OpLE:
		return "le"
	case OpGE:
		return "ge"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpNot:
		return "not"
	case OpCall:
		return "call"
	default:
		return "op(" + strconv.Itoa(int(op)) + ")"
	}
}

// Symbol returns the source operator that compiles to op, if any.
func (op Op) Symbol() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub, OpNeg:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpEQ:
		return "=="
	case OpNE:
		return "!="
	case OpLT:
		return "<"
	case OpGT:
		return ">"
	case OpLE:
		return "<="
	case OpGE:
		return ">="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	case OpNot:
		return "!"
	default:
		return ""
	}
}

// hasPayload reports whether instructions with op carry a Value.
func (op Op) hasPayload() bool {
	return op == OpPush || op == OpPushBool || op == OpCall
}

// isBinary reports whether op pops two operands.
func (op Op) isBinary() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod,
		OpEQ, OpNE, OpLT, OpGT, OpLE, OpGE,
		OpAnd, OpOr:
		return true
	default:
		return false
	}
}

// isUnary reports whether op pops one operand.
func (op Op) isUnary() bool { return op == OpNeg || op == OpNot }

// binary applies a binary operator to left and right.
//
// Every operator is defined on (Int, Int). Addition additionally accepts
// (Str, Str) and (Str, Int); (Int, Str) is rejected.
func binary(op Op, left, right Value) (Value, error) {
	switch {
	case left.kind == KindInt && right.kind == KindInt:
		return binaryInt(op, left.num, right.num)

	case op == OpAdd && left.kind == KindStr && right.kind == KindStr:
		return StrValue(left.str + right.str), nil

	case op == OpAdd && left.kind == KindStr && right.kind == KindInt:
		return StrValue(left.str + strconv.FormatInt(int64(right.num), 10)), nil

	default:
		return None, mismatch(op, left, right)
	}
}

func binaryInt(op Op, l, r int32) (Value, error) {
	switch op {
	case OpAdd:
		return IntValue(l + r), nil
	case OpSub:
		return IntValue(l - r), nil
	case OpMul:
		return IntValue(l * r), nil
	case OpDiv:
		if r == 0 {
			return None, ErrDivisionByZero.With(slog.String("op", op.Symbol()))
		}

		if l == math.MinInt32 && r == -1 {
			return None, ErrOverflow.With(slog.String("op", op.Symbol()))
		}

		return IntValue(l / r), nil
	case OpMod:
		if r == 0 {
			return None, ErrDivisionByZero.With(slog.String("op", op.Symbol()))
		}

		// The remainder is defined, but the quotient it derives from is not.
		if l == math.MinInt32 && r == -1 {
			return None, ErrOverflow.With(slog.String("op", op.Symbol()))
		}

		return IntValue(l % r), nil
	case OpEQ:
		return BoolValue(l == r), nil
	case OpNE:
		return BoolValue(l != r), nil
	case OpLT:
		return BoolValue(l < r), nil
	case OpGT:
		return BoolValue(l > r), nil
	case OpLE:
		return BoolValue(l <= r), nil
	case OpGE:
		return BoolValue(l >= r), nil
	case OpAnd:
		// A false left operand is returned unchanged.
		if l == 0 {
			return IntValue(l), nil
		}

		return BoolValue(r != 0), nil
	case OpOr:
		// A true left operand is returned unchanged.
		if l != 0 {
			return IntValue(l), nil
		}

		return BoolValue(r != 0), nil
	default:
		return None, ErrMalformedProgram.With(slog.String("op", op.String()))
	}
}

// unary applies a unary operator to right.
func unary(op Op, right Value) (Value, error) {
	if right.kind != KindInt {
		return None, mismatch(op, None, right)
	}

	switch op {
	case OpNeg:
		return IntValue(-right.num), nil
	case OpNot:
		return BoolValue(right.num == 0), nil
	default:
		return None, ErrMalformedProgram.With(slog.String("op", op.String()))
	}
}

func mismatch(op Op, left, right Value) *Error {
	if left.kind == KindNone && op.isUnary() {
		return ErrTypeMismatch.With(
			slog.String("op", op.Symbol()),
			slog.String("right", right.String()),
		)
	}

	return ErrTypeMismatch.With(
		slog.String("op", op.Symbol()),
		slog.String("left", left.String()),
		slog.String("right", right.String()),
	)
}
