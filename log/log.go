// Copyright 2026 The starcoin-core Authors
// This file is part of the starcoin-core library.
//
// The starcoin-core library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The starcoin-core library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the starcoin-core library. If not, see <http://www.gnu.org/licenses/>.

// Package log is a thin wrapper around log/slog providing the five-level
// (Trace/Debug/Info/Warn/Error) plus Crit logging idiom used throughout this
// codebase, with a colorized terminal handler and a JSON handler for file
// output. Crit additionally terminates the process: per spec.md §7, an
// invariant violation is programmer error and must abort, never propagate.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-stack/stack"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level mirrors slog.Level with the Trace/Crit extensions go-ethereum adds.
const (
	LevelTrace = slog.Level(-8)
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
	LevelCrit  = slog.Level(12)
)

// Logger is the logging interface used across services, components, and
// the scheduler. It matches go-ethereum's log.Logger shape.
type Logger interface {
	Trace(msg string, ctx ...interface{})
	Debug(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})
	Crit(msg string, ctx ...interface{})
	With(ctx ...interface{}) Logger
}

type logger struct {
	inner *slog.Logger
}

// NewLogger wraps an slog.Handler, typically built with NewTerminalHandler
// or JSONHandler, into a Logger.
func NewLogger(h slog.Handler) Logger {
	return &logger{inner: slog.New(h)}
}

func (l *logger) write(level slog.Level, msg string, ctx []interface{}) {
	// The caller is the first frame outside this file, so package-level
	// funcs (log.Info) and direct Logger calls (l.Info) both resolve to the
	// call site.
	calls := stack.Trace()
	callSite := calls[len(calls)-1]
	for _, c := range calls[1:] {
		if c.Frame().File != calls[0].Frame().File {
			callSite = c
			break
		}
	}
	caller := fmt.Sprintf("%+v", callSite)
	ctx = append(append([]interface{}{}, ctx...), "caller", caller)
	l.inner.Log(context.Background(), level, msg, ctx...)
}

func (l *logger) Trace(msg string, ctx ...interface{}) { l.write(LevelTrace, msg, ctx) }
func (l *logger) Debug(msg string, ctx ...interface{}) { l.write(LevelDebug, msg, ctx) }
func (l *logger) Info(msg string, ctx ...interface{})  { l.write(LevelInfo, msg, ctx) }
func (l *logger) Warn(msg string, ctx ...interface{})  { l.write(LevelWarn, msg, ctx) }
func (l *logger) Error(msg string, ctx ...interface{}) { l.write(LevelError, msg, ctx) }

// Crit logs at the critical level and then terminates the process. Use this
// only for starerr.InvariantViolation-class failures, never for recoverable
// or peer-sourced errors.
func (l *logger) Crit(msg string, ctx ...interface{}) {
	l.write(LevelCrit, msg, ctx)
	os.Exit(1)
}

func (l *logger) With(ctx ...interface{}) Logger {
	attrs := make([]any, len(ctx))
	copy(attrs, ctx)
	return &logger{inner: l.inner.With(attrs...)}
}

// NewTerminalHandler returns a human-readable, optionally colorized handler
// writing to w. Color is enabled automatically when w is a terminal.
func NewTerminalHandler(w io.Writer, level slog.Level) slog.Handler {
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd())
		if useColor {
			w = colorable.NewColorable(f)
		}
	}
	return &terminalHandler{out: w, level: level, color: useColor}
}

// JSONHandler returns a handler that writes one JSON object per record,
// suitable for log aggregation or file rotation via lumberjack.
func JSONHandler(w io.Writer) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: LevelTrace})
}

type terminalHandler struct {
	out   io.Writer
	level slog.Level
	color bool
	attrs []slog.Attr
}

func (h *terminalHandler) Enabled(_ context.Context, level slog.Level) bool { return level >= h.level }

func (h *terminalHandler) Handle(_ context.Context, r slog.Record) error {
	lvl := levelString(r.Level)
	line := fmt.Sprintf("%s[%s] %s", lvl, r.Time.Format("01-02|15:04:05.000"), r.Message)
	r.Attrs(func(a slog.Attr) bool {
		line += fmt.Sprintf(" %s=%v", a.Key, a.Value.Any())
		return true
	})
	for _, a := range h.attrs {
		line += fmt.Sprintf(" %s=%v", a.Key, a.Value.Any())
	}
	_, err := fmt.Fprintln(h.out, line)
	return err
}

func (h *terminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	n := *h
	n.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &n
}

func (h *terminalHandler) WithGroup(_ string) slog.Handler { return h }

func levelString(l slog.Level) string {
	switch {
	case l <= LevelTrace:
		return "TRACE"
	case l <= LevelDebug:
		return "DEBUG"
	case l <= LevelInfo:
		return "INFO "
	case l <= LevelWarn:
		return "WARN "
	case l <= LevelError:
		return "ERROR"
	default:
		return "CRIT "
	}
}

// root is the package-level default logger, matching go-ethereum's
// log.Root()/log.Info() package functions.
var root Logger = NewLogger(NewTerminalHandler(os.Stderr, LevelInfo))

// Root returns the default package-level logger.
func Root() Logger { return root }

// SetDefault replaces the package-level default logger.
func SetDefault(l Logger) { root = l }

func Trace(msg string, ctx ...interface{}) { root.Trace(msg, ctx...) }
func Debug(msg string, ctx ...interface{}) { root.Debug(msg, ctx...) }
func Info(msg string, ctx ...interface{})  { root.Info(msg, ctx...) }
func Warn(msg string, ctx ...interface{})  { root.Warn(msg, ctx...) }
func Error(msg string, ctx ...interface{}) { root.Error(msg, ctx...) }
func Crit(msg string, ctx ...interface{})  { root.Crit(msg, ctx...) }

// New creates a child logger of Root with the given context attached.
func New(ctx ...interface{}) Logger { return root.With(ctx...) }

// ParseLevel maps a level name ("trace".."crit") to its slog.Level,
// mirroring go-ethereum's log.LvlFromString for CLI/config-driven verbosity.
func ParseLevel(name string) (slog.Level, error) {
	switch name {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "crit":
		return LevelCrit, nil
	default:
		return 0, fmt.Errorf("log: unknown level %q", name)
	}
}

// elapsed is a small helper used by services reporting request durations.
func elapsed(since time.Time) time.Duration { return time.Since(since) }

// NewRotatingFileHandler returns a JSON handler that writes to a size- and
// age-rotated log file, for long-running node deployments.
func NewRotatingFileHandler(path string, maxSizeMB, maxBackups, maxAgeDays int) slog.Handler {
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}
	return JSONHandler(w)
}
