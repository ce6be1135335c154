package common

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ANSI color codes
const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
	Gray    = "\033[90m"
)

// consoleTimeFormat keeps console lines short; JSON output carries full timestamps.
const consoleTimeFormat = "15:04:05.000"

// attrStyle renders one well-known attribute. ok is false when the value has
// an unexpected kind and should fall back to the generic rendering.
type attrStyle func(h *ColorHandler, v slog.Value) (string, bool)

// graphAttrStyles highlights the attributes graph and httpc log on every call.
var graphAttrStyles = map[string]attrStyle{
	"status":      styleStatus,
	"status_code": styleStatus,
	"verb":        styleVerb,
	"method":      styleVerb,
	"path":        stylePath,
	"url":         stylePath,
	"error":       styleError,
}

// ColorHandler is a console slog handler for interactive Graph sessions. The
// component attribute becomes a line prefix, HTTP statuses are colored by
// class and the verb and path of a call stand out.
type ColorHandler struct {
	opts      *slog.HandlerOptions
	mu        *sync.Mutex
	writer    io.Writer
	component string
	attrs     []groupedAttr
	prefix    string // group prefix for keys, "a.b."
	masker    *Masker
	useColor  bool
}

// groupedAttr is an attribute with the group prefix open when it was added.
// Masking runs at write time on the bare key so toggling it takes effect.
type groupedAttr struct {
	prefix string
	attr   slog.Attr
}

// NewColorHandler creates a new color handler
func NewColorHandler(w io.Writer, opts *slog.HandlerOptions) *ColorHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &ColorHandler{
		opts:     opts,
		mu:       &sync.Mutex{},
		writer:   w,
		useColor: shouldUseColor(w),
		masker:   NewMasker(),
	}
}

// shouldUseColor reports whether w is a terminal that can render ANSI colors
func shouldUseColor(w io.Writer) bool {
	if runtime.GOOS == "windows" {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}

// Enabled reports whether the handler handles records at the given level
func (h *ColorHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle writes one line: time, level, [component], message, then key=value pairs.
func (h *ColorHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder

	if !r.Time.IsZero() {
		sb.WriteString(h.colorize(Gray, r.Time.Format(consoleTimeFormat)))
		sb.WriteByte(' ')
	}
	sb.WriteString(h.formatLevel(r.Level))
	sb.WriteByte(' ')

	component := h.component
	attrs := make([]groupedAttr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		if h.prefix == "" && a.Key == "component" {
			component = a.Value.String()
			return true
		}
		attrs = append(attrs, groupedAttr{prefix: h.prefix, attr: a})
		return true
	})

	if component != "" {
		sb.WriteString(h.colorize(Cyan, "["+component+"]"))
		sb.WriteByte(' ')
	}
	sb.WriteString(h.colorize(Bold, r.Message))

	for _, ga := range attrs {
		if ga.attr.Equal(slog.Attr{}) {
			continue
		}
		a := h.mask(ga.attr)
		sb.WriteByte(' ')
		sb.WriteString(h.colorize(Gray, ga.prefix+a.Key+"="))
		sb.WriteString(h.formatValue(a.Key, a.Value))
	}
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.writer, sb.String())
	return err
}

func (h *ColorHandler) mask(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()
	if h.masker == nil {
		return a
	}
	return h.masker.MaskAttr(a)
}

// formatLevel formats the log level with appropriate colors
func (h *ColorHandler) formatLevel(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return h.colorize(Gray, "DBG")
	case level < slog.LevelWarn:
		return h.colorize(Green, "INF")
	case level < slog.LevelError:
		return h.colorize(Yellow, "WRN")
	default:
		return h.colorize(Red+Bold, "ERR")
	}
}

// formatValue renders v, using the Graph attribute styles where the bare key is known
func (h *ColorHandler) formatValue(key string, v slog.Value) string {
	if style, ok := graphAttrStyles[key]; ok {
		if s, ok := style(h, v); ok {
			return s
		}
	}

	switch v.Kind() {
	case slog.KindString:
		return quoteIfNeeded(v.String())
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return h.colorize(Magenta, v.String())
	case slog.KindBool:
		return h.colorize(Magenta, strconv.FormatBool(v.Bool()))
	case slog.KindDuration:
		return h.colorize(Yellow, v.Duration().String())
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	default:
		return quoteIfNeeded(fmt.Sprint(v.Any()))
	}
}

// statusColor maps an HTTP status to its class color
func statusColor(code int64) string {
	switch {
	case code >= 500:
		return Red + Bold
	case code >= 400:
		return Yellow
	case code >= 300:
		return Cyan
	case code >= 200:
		return Green
	default:
		return White
	}
}

func styleStatus(h *ColorHandler, v slog.Value) (string, bool) {
	var code int64
	switch v.Kind() {
	case slog.KindInt64:
		code = v.Int64()
	case slog.KindUint64:
		code = int64(v.Uint64())
	case slog.KindString:
		n, err := strconv.ParseInt(strings.TrimSpace(v.String()), 10, 64)
		if err != nil {
			return "", false
		}
		code = n
	default:
		return "", false
	}
	return h.colorize(statusColor(code), strconv.FormatInt(code, 10)), true
}

func styleVerb(h *ColorHandler, v slog.Value) (string, bool) {
	if v.Kind() != slog.KindString {
		return "", false
	}
	return h.colorize(Blue+Bold, strings.ToUpper(v.String())), true
}

func stylePath(h *ColorHandler, v slog.Value) (string, bool) {
	if v.Kind() != slog.KindString {
		return "", false
	}
	return h.colorize(Cyan, quoteIfNeeded(v.String())), true
}

func styleError(h *ColorHandler, v slog.Value) (string, bool) {
	return h.colorize(Red, quoteIfNeeded(fmt.Sprint(v.Any()))), true
}

// quoteIfNeeded quotes s the way slog's text handler does: only when it is
// empty or holds spaces, quotes, '=' or control characters.
func quoteIfNeeded(s string) string {
	if s == "" {
		return `""`
	}
	for _, r := range s {
		if r <= ' ' || r == '"' || r == '=' || r == 0x7f || !strconv.IsPrint(r) {
			return strconv.Quote(s)
		}
	}
	return s
}

// colorize applies color to text if colors are enabled
func (h *ColorHandler) colorize(color, text string) string {
	if !h.useColor {
		return text
	}
	return color + text + Reset
}

// WithAttrs returns a handler carrying attrs. A top-level component attribute
// replaces the line prefix instead of being repeated on every line.
func (h *ColorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := h.clone()
	for _, a := range attrs {
		if h.prefix == "" && a.Key == "component" {
			nh.component = a.Value.String()
			continue
		}
		nh.attrs = append(nh.attrs, groupedAttr{prefix: h.prefix, attr: a})
	}
	return nh
}

// WithGroup returns a handler whose subsequent keys are qualified by name
func (h *ColorHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := h.clone()
	nh.prefix = h.prefix + name + "."
	return nh
}

func (h *ColorHandler) clone() *ColorHandler {
	return &ColorHandler{
		opts:      h.opts,
		mu:        h.mu,
		writer:    h.writer,
		component: h.component,
		attrs:     append([]groupedAttr(nil), h.attrs...),
		prefix:    h.prefix,
		masker:    h.masker,
		useColor:  h.useColor,
	}
}

// SetMasker sets the masker for this handler
func (h *ColorHandler) SetMasker(masker *Masker) {
	h.masker = masker
}

// SetColorEnabled enables or disables colors
func (h *ColorHandler) SetColorEnabled(enabled bool) {
	h.useColor = enabled
}
