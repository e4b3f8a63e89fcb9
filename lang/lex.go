package lang

import "strings"

// symbols is the separator alphabet. Two-character symbols come first so
// they match greedily.
var symbols = [...]string{
	"==", "!=", "<=", ">=", "&&", "||",
	"+", "-", "/", "*", "(", ")", "%", "<", ">", "!", ",",
}

// Tokenize splits text into trimmed, non-empty tokens. Symbols separate
// fragments and are themselves kept as tokens; whitespace-only fragments are
// dropped. Tokenize never fails: malformed input yields tokens that the
// compiler rejects.
//
// Quoted strings are not treated specially, so a symbol inside quotes splits
// the literal.
func Tokenize(text string) []string {
	tokens := make([]string, 0, len(text)/2+1)
	start := 0

	emit := func(frag string) {
		if frag = strings.TrimSpace(frag); frag != "" {
			tokens = append(tokens, frag)
		}
	}

	for i := 0; i < len(text); {
		sym := symbolAt(text, i)
		if sym == "" {
			i++

			continue
		}

		emit(text[start:i])
		tokens = append(tokens, sym)

		i += len(sym)
		start = i
	}

	emit(text[start:])

	return tokens
}

func symbolAt(text string, i int) string {
	for _, sym := range symbols {
		if strings.HasPrefix(text[i:], sym) {
			return sym
		}
	}

	return ""
}

// isSymbol reports whether tok is one of the separator symbols.
func isSymbol(tok string) bool {
	for _, sym := range symbols {
		if tok == sym {
			return true
		}
	}

	return false
}
