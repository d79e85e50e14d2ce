package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Verbosity selects how much log output the CLI produces.
// It maps the -q/-v flags onto slog levels.
type Verbosity int

const (
	// VerbosityNormal logs progress information, warnings and errors.
	VerbosityNormal Verbosity = iota

	// VerbosityQuiet logs only warnings and errors (-q flag).
	VerbosityQuiet

	// VerbosityVerbose logs debug information as well (-v flag).
	VerbosityVerbose
)

// Level returns the slog level threshold for the verbosity.
func (v Verbosity) Level() slog.Level {
	switch v {
	case VerbosityQuiet:
		return slog.LevelWarn
	case VerbosityVerbose:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// ConsoleHandler is a slog.Handler that writes records in a compact
// "[LEVEL] message key=value" form.
//
// Design decision: the default slog.TextHandler prefixes every record with
// a timestamp and renders the message as a msg="..." attribute. For a
// short-lived CLI whose output is read by a human at the terminal, the
// bracketed level prefix is both shorter and easier to scan, so we
// implement slog.Handler directly rather than wrapping TextHandler.
type ConsoleHandler struct {
	// mu serializes writes so concurrent pipeline invocations
	// (fsmstrip batch) do not interleave partial lines.
	mu *sync.Mutex

	// out is the destination, typically os.Stderr.
	out io.Writer

	// level is the minimum level this handler emits.
	level slog.Level

	// attrs holds attributes attached via WithAttrs.
	attrs []slog.Attr

	// groups holds open group names from WithGroup, applied as
	// dot-separated key prefixes.
	groups []string
}

// NewConsoleHandler creates a ConsoleHandler writing to w at the given level.
func NewConsoleHandler(w io.Writer, level slog.Level) *ConsoleHandler {
	return &ConsoleHandler{
		mu:    &sync.Mutex{},
		out:   w,
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle formats and writes a single record.
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(levelName(r.Level))
	sb.WriteString("] ")
	sb.WriteString(r.Message)

	// Attributes from WithAttrs were qualified when added; only record
	// attributes take the currently open group prefix.
	prefix := strings.Join(h.groups, ".")
	for _, a := range h.attrs {
		writeAttr(&sb, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&sb, prefix, a)
		return true
	})
	sb.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, sb.String())
	return err
}

// WithAttrs returns a new handler with the given attributes added.
// Keys are qualified with the open group prefix at the time of the call.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	prefix := strings.Join(h.groups, ".")
	qualified := append([]slog.Attr{}, h.attrs...)
	for _, a := range attrs {
		if prefix != "" && a.Value.Kind() != slog.KindGroup {
			a.Key = prefix + "." + a.Key
		}
		qualified = append(qualified, a)
	}
	clone.attrs = qualified
	return &clone
}

// WithGroup returns a new handler with the given group name opened.
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string{}, h.groups...), name)
	return &clone
}

// levelName renders an slog level as the bracketed console prefix.
func levelName(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "ERROR"
	case l >= slog.LevelWarn:
		return "WARN"
	case l >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// writeAttr appends one attribute as " key=value", recursing into groups.
func writeAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	if a.Value.Kind() == slog.KindGroup {
		key := a.Key
		if prefix != "" {
			key = prefix + "." + key
		}
		for _, ga := range a.Value.Group() {
			writeAttr(sb, key, ga)
		}
		return
	}
	if a.Equal(slog.Attr{}) {
		return
	}
	sb.WriteString(" ")
	if prefix != "" {
		sb.WriteString(prefix)
		sb.WriteString(".")
	}
	sb.WriteString(a.Key)
	sb.WriteString("=")
	fmt.Fprintf(sb, "%v", a.Value.Any())
}

// NewLogger creates a *slog.Logger writing to w at the given verbosity.
//
// The returned logger can be installed globally with slog.SetDefault or
// passed to components that accept *slog.Logger.
func NewLogger(w io.Writer, v Verbosity) *slog.Logger {
	return slog.New(NewConsoleHandler(w, v.Level()))
}
