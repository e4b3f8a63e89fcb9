package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/xpr/lang"
	"github.com/ardnew/xpr/log"
)

const defaultEditor = "vi"

// editExprCommand implements [tea.ExecCommand] for the edit-compile-retry
// loop. It writes the expression to a temp file, opens the user's editor, and
// compiles the result. On a compile error the user is prompted to re-edit;
// declining abandons the edit.
type editExprCommand struct {
	expr    string
	funcs   *lang.FuncTable
	ctxFunc func() context.Context
	result  string
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editExprCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editExprCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editExprCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-compile-retry loop. An empty file cancels the edit
// and leaves result empty. If the user declines to re-edit, it returns
// [ErrEditDeclined].
func (c *editExprCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp(os.TempDir(), "xpr-repl-*.xpr")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	f.Close()

	content := c.expr + "\n"

	for {
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath); err != nil {
			return err
		}

		data, err := os.ReadFile(tmpPath)
		if err != nil {
			return err
		}

		expr := joinLines(string(data))
		if expr == "" {
			return nil
		}

		_, compileErr := lang.Compile(expr, c.funcs)
		c.logger.TraceContext(
			ctx,
			"editor compile attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", compileErr == nil),
		)

		if compileErr == nil {
			c.result = expr

			return nil
		}

		fmt.Fprintf(c.stderr, "\nCompile error: %s\n", compileErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		content = string(data)
	}
}

// joinLines folds a multi-line expression onto one line, dropping blank lines
// and lines that begin with '#'.
func joinLines(text string) string {
	var parts []string

	for line := range strings.Lines(text) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts = append(parts, line)
	}

	return strings.Join(parts, " ")
}

// runEditor launches the user's editor on the given file path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
