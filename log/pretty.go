package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by the pretty handlers. Styles are bound to
// a renderer for the handler's writer, so color is dropped automatically when
// the output is not a terminal.
type palette struct {
	key, str, num, yes, no, dur, time lipgloss.Style
	trace, debug, info, warn, err     lipgloss.Style
}

func makePalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		yes:   fg("2"),
		no:    fg("1"),
		dur:   fg("5"),
		time:  fg("4"),
		trace: fg("8"),
		debug: fg("4"),
		info:  fg("2"),
		warn:  fg("3").Bold(true),
		err:   fg("1").Bold(true),
	}
}

func (p palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.err
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

// prettyCommon is shared by both pretty handlers.
type prettyCommon struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	style  palette
	attrs  []slog.Attr // from WithAttrs, already qualified
	prefix string      // from WithGroup, dot-terminated
}

func newPrettyCommon(w io.Writer, opts *slog.HandlerOptions) prettyCommon {
	return prettyCommon{
		opts:  *opts,
		mu:    &sync.Mutex{},
		w:     w,
		style: makePalette(w),
	}
}

func (c prettyCommon) enabled(level slog.Level) bool {
	floor := slog.LevelInfo
	if c.opts.Level != nil {
		floor = c.opts.Level.Level()
	}

	return level >= floor
}

func (c prettyCommon) withAttrs(attrs []slog.Attr) prettyCommon {
	qualified := make([]slog.Attr, 0, len(c.attrs)+len(attrs))
	qualified = append(qualified, c.attrs...)

	for _, a := range attrs {
		a.Key = c.prefix + a.Key
		qualified = append(qualified, a)
	}

	c.attrs = qualified

	return c
}

func (c prettyCommon) withGroup(name string) prettyCommon {
	if name != "" {
		c.prefix += name + "."
	}

	return c
}

// header returns the built-in attributes of r. ReplaceAttr applies to all of
// them except the level, which is rendered with its own style.
func (c prettyCommon) header(r slog.Record) []slog.Attr {
	head := make([]slog.Attr, 0, 4)

	if !r.Time.IsZero() {
		head = append(head, slog.Time(slog.TimeKey, r.Time))
	}

	head = append(head, slog.Any(slog.LevelKey, r.Level))

	if c.opts.AddSource {
		if src := r.Source(); src != nil {
			head = append(head, slog.String(
				slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line),
			))
		}
	}

	head = append(head, slog.String(slog.MessageKey, r.Message))

	out := head[:0]

	for _, a := range head {
		if c.opts.ReplaceAttr != nil && a.Key != slog.LevelKey {
			a = c.opts.ReplaceAttr(nil, a)
		}

		if a.Key != "" {
			out = append(out, a)
		}
	}

	return out
}

// flatten resolves a and expands groups into dotted keys.
func (c prettyCommon) flatten(dst []slog.Attr, prefix string, a slog.Attr) []slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() != slog.KindGroup {
		if a.Key == "" {
			return dst
		}

		a.Key = prefix + a.Key

		return append(dst, a)
	}

	if a.Key != "" {
		prefix += a.Key + "."
	}

	for _, g := range a.Value.Group() {
		dst = c.flatten(dst, prefix, g)
	}

	return dst
}

// fields returns every attribute of r, header first.
func (c prettyCommon) fields(r slog.Record) []slog.Attr {
	fields := c.header(r)
	fields = append(fields, c.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = c.flatten(fields, c.prefix, a)

		return true
	})

	return fields
}

func (c prettyCommon) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.w.Write(buf.Bytes())

	return err
}

// render styles a single value.
func (c prettyCommon) render(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return c.style.str.Render(v.String())
	case slog.KindInt64:
		return c.style.num.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return c.style.num.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return c.style.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return c.style.yes.Render("true")
		}

		return c.style.no.Render("false")
	case slog.KindDuration:
		return c.style.dur.Render(v.Duration().String())
	case slog.KindTime:
		return c.style.time.Render(v.Time().String())
	case slog.KindAny:
		if level, ok := v.Any().(slog.Level); ok {
			return c.style.level(level).Render(
				strings.ToUpper(Level(level).String()),
			)
		}

		if v.Any() == nil {
			return c.style.key.Render("null")
		}

		return c.style.str.Render(v.String())
	default:
		return c.style.str.Render(v.String())
	}
}

// prettyTextHandler writes colorized key=value records on one line.
type prettyTextHandler struct {
	prettyCommon
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{newPrettyCommon(w, opts)}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for _, a := range h.fields(r) {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.style.key.Render(a.Key))
		buf.WriteByte('=')
		buf.WriteString(h.render(a.Value))
	}

	return h.write(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

// prettyJSONHandler writes colorized, indented JSON-like records.
type prettyJSONHandler struct {
	prettyCommon
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{newPrettyCommon(w, opts)}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	buf.WriteString("{")

	for i, a := range h.fields(r) {
		if i > 0 {
			buf.WriteByte(',')
		}

		buf.WriteString("\n  ")
		buf.WriteString(h.style.key.Render(a.Key))
		buf.WriteString(": ")
		buf.WriteString(h.render(a.Value))
	}

	buf.WriteString("\n}")

	return h.write(buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}
