package repl

import (
	"slices"
	"testing"

	"github.com/ardnew/xpr/lang"
	"github.com/ardnew/xpr/log"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "Sum(fo", 6, "fo", 4, 6},
		{"after_comma", "Max(a, fo", 9, "fo", 7, 9},
		{"after_comparison", "a>=fo", 5, "fo", 3, 5},
		{"after_logical", "a&&fo", 5, "fo", 3, 5},
		{"after_quote", `"fo`, 3, "fo", 1, 3},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"underscore", "is_set", 6, "is_set", 0, 6},
		{"unicode", "a + größe", 11, "größe", 4, 11},
		{"cursor_past_end", "ab", 9, "ab", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestInString(t *testing.T) {
	tests := []struct {
		input  string
		offset int
		want   bool
	}{
		{`"ab`, 1, true},
		{`"ab" + c`, 7, false},
		{`x + "y`, 5, true},
		{`abc`, 1, false},
	}

	for _, tt := range tests {
		if got := inString(tt.input, tt.offset); got != tt.want {
			t.Errorf("inString(%q, %d) = %v, want %v", tt.input, tt.offset, got, tt.want)
		}
	}
}

func testModel(t *testing.T, names ...string) model {
	t.Helper()

	p := lang.New()

	for _, name := range names {
		err := p.RegisterFunction(name, func([]lang.Value, int) lang.Value {
			return lang.None
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	return newModel(t.Context(), p, nil, NewHistory(""), log.Logger{})
}

func TestComputeMatches(t *testing.T) {
	m := testModel(t, "Sum", "Max", "Min", "Upper")

	tests := []struct {
		name  string
		input string
		want  string // best match, "" for none
	}{
		{"prefix", "Su", "Sum"},
		{"fuzzy", "1 + Mx", "Max"},
		{"literal", "tr", "true"},
		{"inside_call", "Max(Upp", "Upper"},
		{"inside_string", `"Su`, ""},
		{"number", "12", ""},
		{"empty", "Sum(", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.input.SetValue(tt.input)
			m.input.SetCursor(len(tt.input))

			matches, _, _, _ := m.computeMatches()

			if tt.want == "" {
				if len(matches) != 0 {
					t.Errorf("matches = %v, want none", matches)
				}

				return
			}

			if len(matches) == 0 || matches[0].Str != tt.want {
				t.Errorf("best match = %v, want %q", matches, tt.want)
			}
		})
	}
}

func TestComputeMatchesCtrlMode(t *testing.T) {
	m := testModel(t, "Sum")
	m, _ = m.switchToMode(modeCtrl)

	m.input.SetValue("fu")
	m.input.SetCursor(2)

	matches, _, _, _ := m.computeMatches()
	if len(matches) == 0 || matches[0].Str != "funcs" {
		t.Errorf("ctrl matches = %v, want funcs first", matches)
	}
}

func TestCycle(t *testing.T) {
	m := testModel(t, "Max", "Min")

	m.input.SetValue("M")
	m.input.SetCursor(1)
	refreshMatches(&m, false)

	if len(m.matches) != 2 {
		t.Fatalf("matches = %v, want 2", m.matches)
	}

	m = m.cycle(1)
	first := m.input.Value()

	m = m.cycle(1)
	second := m.input.Value()

	if first == second || (first != "Max" && first != "Min") {
		t.Errorf("cycle produced %q then %q", first, second)
	}

	m = m.cycle(1)
	if m.input.Value() != first {
		t.Errorf("cycle did not wrap: %q", m.input.Value())
	}
}

func TestCompletionCandidates(t *testing.T) {
	m := testModel(t, "Sum", "Max")

	m.input.SetValue("Su")
	m.input.SetCursor(2)
	refreshMatches(&m, false)

	want := []string{"Sum", "Max", "true", "false"}
	if !slices.Equal(m.candidates, want) {
		t.Errorf("candidates = %v, want %v", m.candidates, want)
	}

	m, _ = m.switchToMode(modeCtrl)
	if got := m.completionCandidates(); !slices.Equal(got, ctrlCommands) {
		t.Errorf("ctrl candidates = %v, want %v", got, ctrlCommands)
	}
}
