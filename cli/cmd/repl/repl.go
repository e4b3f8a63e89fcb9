package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/xpr/lang"
	"github.com/ardnew/xpr/log"
)

// editExprMsg is sent when expression editing completes successfully.
type editExprMsg struct{ expr string }

// editCancelledMsg is sent when the user cleared the editor content or
// declined to re-edit.
type editCancelledMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-compile error.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help     Print this message
  funcs    List registered functions
  dump     Disassemble the last compiled expression
  edit     Edit the current expression in external $EDITOR
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type an expression to evaluate it
  Function names complete as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// formatCommand formats the echo line of an input with its prompt.
func formatCommand(mode inputMode, input string) string {
	if mode == modeCtrl {
		return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
	}

	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// formatValue renders an evaluation result for display.
func formatValue(v lang.Value) string {
	switch v.Kind() {
	case lang.KindInt:
		return strconv.Itoa(int(v.Int()))
	case lang.KindStr:
		return strconv.Quote(v.Str())
	default:
		return v.Kind().String()
	}
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	parser       *lang.Parser
	signatures   map[string]signature // keyed by lower-case function name
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
	mode         inputMode
	evalText     string
	evalCursor   int
	ctrlText     string
	ctrlCursor   int
}

// Run starts the REPL, evaluating every input line with parser. Docs maps
// function names to the descriptions shown as signature hints; names missing
// from docs are shown as taking any arguments.
func Run(
	ctx context.Context,
	parser *lang.Parser,
	docs map[string]string,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cacheDir),
		slog.Bool("has_parser", parser != nil),
	)

	if parser == nil {
		return ErrNoParser
	}

	var historyPath string
	if cacheDir != "" {
		historyPath = filepath.Join(cacheDir, baseHistory)
	}

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("path", historyPath),
			slog.Any("error", err),
		)
	}

	logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, parser, docs, history, logger)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	parser *lang.Parser,
	docs map[string]string,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	signatures := make(map[string]signature)

	for name := range parser.Functions().Names() {
		signatures[strings.ToLower(name)] = parseSignature(name, docs[name])
	}

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		parser:     parser,
		signatures: signatures,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editExprMsg:
		if m.mode != modeEval {
			m, _ = m.switchToMode(modeEval)
		}

		m.input.SetValue(msg.expr)
		m.input.SetCursor(len(msg.expr))
		refreshMatches(&m, false)

		return m, nil

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.hintView())
	b.WriteString("\n")

	return b.String()
}

// hintView returns the line shown below the input.
func (m model) hintView() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		return hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len(),
		))
	}

	if strings.TrimSpace(input) == "" {
		if m.mode == modeEval {
			return hintStyle.Render("Type an expression or press Esc for commands")
		}

		return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") +
			" (press Esc to return)")
	}

	if len(m.matches) > 0 {
		return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width, m.isFunction)
	}

	if m.mode == modeEval {
		call := detectFunctionCall(input, m.input.Position())
		if sig, ok := m.signatures[strings.ToLower(call.name)]; ok && call.inCall {
			return renderSignatureHint(sig, call.argIndex)
		}
	}

	return ""
}

func (m model) isFunction(name string) bool {
	_, ok := m.signatures[strings.ToLower(name)]

	return ok && m.mode == modeEval
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl)
		}

		return m.switchToMode(modeEval)

	case tea.KeyRunes, tea.KeySpace:
		// Space breaks out of tab-cycling, keeping the candidate.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.),
	// update input and recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step, starting a tab cycle if none is
// active. A single candidate is completed and confirmed immediately.
func (m model) cycle(step int) model {
	n := len(m.matches)

	switch {
	case n == 0:
		return m

	case n == 1:
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m

	case m.tabActive:
		m.suggIdx = (m.suggIdx + step + n) % n

	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = 0

		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)

	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also drops the completion bar when exactly one
// candidate remains and the typed word already equals it.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	word := m.input.Value()[m.wordStart:m.wordEnd]

	if strings.EqualFold(word, m.matches[0].Str) {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	mode := m.mode

	if mode == modeEval {
		m.evalText, m.evalCursor = "", 0
	} else {
		m.ctrlText, m.ctrlCursor = "", 0
	}

	m.input.SetValue("")
	m.matches = nil

	_, err := m.history.WriteWithMode(input, mode)
	if err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not write history",
			slog.Any("error", err),
		)
	}

	m.historyIdx = m.history.Len()

	echo := tea.Println(formatCommand(mode, input))

	if mode == modeCtrl {
		return m.executeCommand(echo, input)
	}

	m.logger.TraceContext(m.ctxFunc(), "repl eval", slog.String("input", input))

	v, err := m.parser.Evaluate(m.ctxFunc(), input)
	if err != nil {
		return m, tea.Sequence(echo,
			tea.Println(errorStyle.Render("error: "+err.Error())),
		)
	}

	return m, tea.Sequence(echo, tea.Println(resultStyle.Render(formatValue(v))))
}

func (m model) executeCommand(echo tea.Cmd, input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	cmd := parts[0]

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl exec command",
		slog.String("command", cmd),
		slog.Any("args", parts[1:]),
	)

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "f", "funcs":
		return m, tea.Sequence(echo, tea.Println(m.listFunctions()))

	case "d", "dump":
		return m, tea.Sequence(echo, tea.Println(m.dumpProgram()))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit(strings.Join(parts[1:], " ")))

	default:
		return m, tea.Sequence(echo, tea.Println(
			errorStyle.Render("Unknown command: "+cmd+" (try 'help')"),
		))
	}
}

// edit opens the external editor on expr, or on the most recent expression
// if expr is empty.
func (m model) edit(expr string) tea.Cmd {
	if expr == "" {
		expr = m.evalText
	}

	if expr == "" {
		expr = m.parser.Program().Source()
	}

	cmd := &editExprCommand{
		expr:    expr,
		funcs:   m.parser.Functions(),
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editCancelledMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.result == "":
			return editCancelledMsg{}
		default:
			return editExprMsg{expr: cmd.result}
		}
	})
}

func (m model) listFunctions() string {
	names := slices.Collect(m.parser.Functions().Names())

	var b strings.Builder

	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)

	for _, name := range names {
		sig := m.signatures[strings.ToLower(name)]
		fmt.Fprintf(tw, "  %s(%s)\t%s\n",
			name, strings.Join(sig.params, ", "), hintStyle.Render(sig.doc))
	}

	_ = tw.Flush()

	return b.String()
}

func (m model) dumpProgram() string {
	prog := m.parser.Program()
	if prog == nil {
		return hintStyle.Render("nothing compiled yet")
	}

	if prog.Len() == 0 {
		return hintStyle.Render("empty program: " + strconv.Quote(prog.Source()))
	}

	return hintStyle.Render(strconv.Quote(prog.Source())) + "\n" + prog.String()
}

// historyStep moves through history by step (-1 older, +1 newer). When
// sameMode is set, entries of the other mode are skipped; otherwise the mode
// follows the entry. Stepping past the newest entry clears the input.
func (m model) historyStep(step int, sameMode bool) model {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.GetEntry(i)
		if err != nil || (sameMode && entry.Mode != m.mode) {
			continue
		}

		if m.mode != entry.Mode {
			m, _ = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// switchToMode switches to the specified mode, preserving input state.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	if m.mode == modeEval {
		m.evalText = m.input.Value()
		m.evalCursor = m.input.Position()
	} else {
		m.ctrlText = m.input.Value()
		m.ctrlCursor = m.input.Position()
	}

	m.mode = mode
	m.tabActive = false

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m, nil
}
