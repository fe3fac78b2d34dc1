// Package logger provides the slog handler used across the project: a
// human-readable text handler that colors levels on a terminal and highlights
// database persistence messages in green.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// ANSI color codes.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// NewDefaultLogger creates a colored logger writing to stderr at the given
// level.
func NewDefaultLogger(level slog.Level) *slog.Logger {
	return New(os.Stderr, level, isTerminal(os.Stderr))
}

// New creates a logger writing to w. Colors are emitted only when color is
// true.
func New(w io.Writer, level slog.Level, color bool) *slog.Logger {
	return slog.New(&handler{w: w, level: level, color: color})
}

type handler struct {
	mu    sync.Mutex
	w     io.Writer
	level slog.Level
	color bool
	attrs []slog.Attr
	group string
}

func (h *handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *handler) Handle(_ context.Context, record slog.Record) error {
	var sb strings.Builder

	sb.WriteString(record.Time.Format(time.DateTime))
	sb.WriteByte(' ')
	sb.WriteString(h.colorize(record))
	sb.WriteByte(' ')
	sb.WriteString(record.Message)

	appendAttr := func(attr slog.Attr) {
		key := attr.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		fmt.Fprintf(&sb, " %s=%v", key, attr.Value.Any())
	}
	for _, attr := range h.attrs {
		appendAttr(attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		appendAttr(attr)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, sb.String())
	return err
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return clone
}

func (h *handler) WithGroup(name string) slog.Handler {
	clone := h.clone()
	if clone.group != "" {
		clone.group += "." + name
	} else {
		clone.group = name
	}
	return clone
}

// clone copies the handler's fields into a new handler with its own mutex.
func (h *handler) clone() *handler {
	return &handler{
		w:     h.w,
		level: h.level,
		color: h.color,
		attrs: h.attrs,
		group: h.group,
	}
}

// colorize renders the level tag. Info messages about persistence get the
// green treatment so database writes stand out in a scrolling log.
func (h *handler) colorize(record slog.Record) string {
	label := record.Level.String()
	if !h.color {
		return label
	}

	switch {
	case record.Level >= slog.LevelError:
		return colorRed + label + colorReset
	case record.Level >= slog.LevelWarn:
		return colorYellow + label + colorReset
	case record.Level >= slog.LevelInfo:
		lower := strings.ToLower(record.Message)
		if strings.Contains(lower, "persist") {
			return colorGreen + label + colorReset
		}
		return label
	default:
		return colorGray + label + colorReset
	}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
