package lang

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

// Instruction is one slot of a compiled program. Push and call instructions
// carry their literal or call descriptor inline, so the instruction stream
// and constant pool can never drift apart.
type Instruction struct {
	Arg Value
	Op  Op
}

// String renders the instruction in assembler form.
func (in Instruction) String() string {
	if !in.Op.hasPayload() {
		return in.Op.String()
	}

	return in.Op.String() + " " + in.Arg.String()
}

// Program is a compiled expression. It is immutable once returned by
// [Compile] and may be run any number of times.
type Program struct {
	source string
	code   []Instruction
}

// Source returns the expression text the program was compiled from.
func (p *Program) Source() string {
	if p == nil {
		return ""
	}

	return p.source
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	if p == nil {
		return 0
	}

	return len(p.code)
}

// Instructions returns an iterator over the instruction stream.
func (p *Program) Instructions() iter.Seq2[int, Instruction] {
	return func(yield func(int, Instruction) bool) {
		if p == nil {
			return
		}

		for i, in := range p.code {
			if !yield(i, in) {
				return
			}
		}
	}
}

// Constants returns the literal values and call descriptors referenced by
// the program, in emission order.
func (p *Program) Constants() []Value {
	if p == nil {
		return nil
	}

	var pool []Value

	for _, in := range p.code {
		if in.Op.hasPayload() {
			pool = append(pool, in.Arg)
		}
	}

	return pool
}

// Disassemble writes one instruction per line to w.
func (p *Program) Disassemble(w io.Writer) error {
	for i, in := range p.Instructions() {
		_, err := fmt.Fprintf(w, "%04d  %s\n", i, in)
		if err != nil {
			return err
		}
	}

	return nil
}

// String returns the disassembly of p.
func (p *Program) String() string {
	var sb strings.Builder

	_ = p.Disassemble(&sb)

	return sb.String()
}
