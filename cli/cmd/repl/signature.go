package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// signatureHintStyle styles for parameter hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// signature is the parameter list of a function, parsed from its doc string.
type signature struct {
	name   string
	params []string // variadic parameters end with "..."
	doc    string
}

// parseSignature extracts a signature from doc, which conventionally begins
// with "Name(a, b, rest...)". Docs without that form, such as the body of a
// scripted function, yield a single variadic "args..." parameter.
func parseSignature(name, doc string) signature {
	sig := signature{name: name, doc: doc}

	open := strings.IndexByte(doc, '(')
	end := strings.IndexByte(doc, ')')

	if open < 0 || end < open || !strings.EqualFold(doc[:open], name) {
		sig.params = []string{"args..."}

		return sig
	}

	sig.name = doc[:open]
	sig.doc = strings.TrimSpace(doc[end+1:])

	for p := range strings.SplitSeq(doc[open+1:end], ",") {
		if p = strings.TrimSpace(p); p != "" {
			sig.params = append(sig.params, p)
		}
	}

	return sig
}

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string // function name as typed
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside parameter list
}

// detectFunctionCall analyzes the input to determine if the cursor is inside
// a function call's parameter list. It returns the function name, current
// argument index, and whether we're inside a call. Parentheses and commas
// inside string literals are ignored.
func detectFunctionCall(input string, cursor int) functionCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Record the positions of unclosed '(' preceding the cursor.
	var (
		opens  []int
		commas []int // argument index per open paren
		quoted bool
	)

	for i, r := range input[:cursor] {
		switch {
		case r == '"':
			quoted = !quoted
		case quoted:
		case r == '(':
			opens = append(opens, i)
			commas = append(commas, 0)
		case r == ')':
			if n := len(opens); n > 0 {
				opens, commas = opens[:n-1], commas[:n-1]
			}
		case r == ',':
			if n := len(commas); n > 0 {
				commas[n-1]++
			}
		}
	}

	if len(opens) == 0 {
		return functionCall{}
	}

	open := opens[len(opens)-1]

	// Walk backward from the '(' to the previous word boundary.
	nameEnd := strings.TrimRightFunc(input[:open], unicode.IsSpace)
	nameStart := len(nameEnd)

	for nameStart > 0 {
		r, size := utf8.DecodeLastRuneInString(nameEnd[:nameStart])
		if unicode.IsSpace(r) || isWordBoundary(r) {
			break
		}

		nameStart -= size
	}

	name := nameEnd[nameStart:]
	if name == "" {
		return functionCall{}
	}

	if r, _ := utf8.DecodeRuneInString(name); unicode.IsDigit(r) {
		return functionCall{}
	}

	return functionCall{
		name:     name,
		argIndex: commas[len(commas)-1],
		inCall:   true,
	}
}

// renderSignatureHint renders the function signature with the current
// parameter highlighted.
func renderSignatureHint(sig signature, currentArgIdx int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(sig.name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range sig.params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		// Variadic parameters stay highlighted for every later argument.
		variadic := strings.HasSuffix(param, "...")
		if currentArgIdx == i || (variadic && currentArgIdx > i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	if sig.doc != "" {
		b.WriteString(signatureStyle.Render("  " + sig.doc))
	}

	return b.String()
}
