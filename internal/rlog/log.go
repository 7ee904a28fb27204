// Package rlog provides the small structured logger used across rifthash.
//
// It wraps log/slog with the same terminal-aware coloring stack the wider
// corpus of consensus engines reaches for: fatih/color picks the ANSI codes,
// go-isatty decides whether the output stream is actually a terminal, and
// go-colorable makes the coloring work on Windows consoles too.
package rlog

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

var (
	levelColors = map[slog.Level]*color.Color{
		slog.LevelDebug: color.New(color.FgHiBlack),
		slog.LevelInfo:  color.New(color.FgCyan),
		slog.LevelWarn:  color.New(color.FgYellow),
		slog.LevelError: color.New(color.FgRed, color.Bold),
	}
	root = New(os.Stderr)
)

// Logger is a minimal key-value logger used in place of go-ethereum's
// internal log package, which isn't available as a standalone module.
type Logger struct {
	slog *slog.Logger
	tty  bool
}

// New builds a Logger writing to w, colorizing level tags when w is attached
// to a terminal.
func New(w io.Writer) *Logger {
	tty := false
	if f, ok := w.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		if tty {
			w = colorable.NewColorable(f)
		}
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	return &Logger{slog: slog.New(h), tty: tty}
}

func (l *Logger) log(level slog.Level, msg string, kv []any) {
	if l.tty {
		if c, ok := levelColors[level]; ok {
			msg = c.Sprint(msg)
		}
	}
	l.slog.Log(context.Background(), level, msg, kv...)
}

func (l *Logger) Debug(msg string, kv ...any) { l.log(slog.LevelDebug, msg, kv) }
func (l *Logger) Info(msg string, kv ...any)  { l.log(slog.LevelInfo, msg, kv) }
func (l *Logger) Warn(msg string, kv ...any)  { l.log(slog.LevelWarn, msg, kv) }
func (l *Logger) Error(msg string, kv ...any) { l.log(slog.LevelError, msg, kv) }

// SetVerbosity raises or lowers the root logger's minimum level. The new
// handler writes to os.Stderr.
func SetVerbosity(level slog.Level) {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	root.slog = slog.New(h)
}

func Root() *Logger { return root }

func Debug(msg string, kv ...any) { root.Debug(msg, kv...) }
func Info(msg string, kv ...any)  { root.Info(msg, kv...) }
func Warn(msg string, kv ...any)  { root.Warn(msg, kv...) }
func Error(msg string, kv ...any) { root.Error(msg, kv...) }
