// Package lang compiles small arithmetic, boolean and string expressions into
// a linear instruction program and evaluates that program on a stack machine.
//
// # Values
//
// Every expression produces a [Value]: an Int (signed 32-bit), a Str, or
// [None] when compilation or evaluation failed. There is no separate boolean
// type; true and false are Int(1) and Int(0).
//
// # Grammar
//
// Lowest to highest precedence:
//
//	expr   → term2 ( ('&&' | '||') term2 )*
//	term2  → term ( ('+' | '-') term )*
//	term   → comp ( ('*' | '/' | '%') comp )*
//	comp   → factor [ ('==' | '!=' | '<' | '>' | '<=' | '>=') factor ]
//	factor → '(' expr ')' | ('+' | '-' | '!') factor | literal | call
//	call   → identifier '(' [ expr (',' expr)* ] ')'
//
// Literals are decimal or 0x-prefixed hexadecimal integers, double-quoted
// strings, and the words true, True, TRUE, false, False, FALSE. Identifiers
// only ever name functions; there are no variables.
//
// Operators require Int operands, except that '+' also concatenates Str+Str
// and Str+Int. Both operands of '&&' and '||' are always evaluated.
//
// # Example
//
//	p := lang.New()
//	_ = builtin.Register(p)
//
//	p.Parse(`2 + 3 * 4`)          // int:14
//	p.Parse(`"id-" + 7`)          // string:id-7
//	p.Parse(`Sum(1, 2) == 3`)     // int:1
//	p.Parse(`1 + "a"`)            // type:None, failure logged by log.Default
//
// # Caching
//
// A [Parser] keeps the last compiled program keyed by its exact source text.
// Evaluating the same text repeatedly, for example once per frame, runs the
// cached program without recompiling. Functions must therefore be registered
// before the first evaluation of any text that calls them.
package lang
