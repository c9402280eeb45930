// Package logging provides structured logging for the PrimalStep pipeline.
// It wraps Go's log/slog package to produce JSON-formatted logs with
// persistent attributes, so each decomposition run can be traced through
// prompt construction, generation, parsing, and validation.
//
// Loggers are injected into components rather than accessed through package
// state; the core never depends on a global logger for correctness. A Logger
// is safe for concurrent use.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Log levels accepted by NewLogger and the logging.level config key.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// LogFileName is the file created inside the configured log directory.
const LogFileName = "primalstep.log"

// Logger wraps slog with persistent key-value attributes. Child loggers
// share the underlying sink and add attributes without mutating the parent.
type Logger struct {
	logger *slog.Logger
	sink   io.Closer
	attrs  []slog.Attr
}

// NewLogger creates a Logger writing JSON log lines to {dir}/primalstep.log,
// rotating per rotation. If dir is empty the Logger writes to stderr and
// rotation is ignored.
func NewLogger(dir, level string, rotation RotationConfig) (*Logger, error) {
	var writer io.Writer
	var sink io.Closer

	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		rw, err := NewRotatingWriter(filepath.Join(dir, LogFileName), rotation)
		if err != nil {
			return nil, err
		}
		writer = rw
		sink = rw
	} else {
		writer = os.Stderr
	}

	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: parseLevel(level),
	})

	return &Logger{
		logger: slog.New(handler),
		sink:   sink,
		attrs:  make([]slog.Attr, 0),
	}, nil
}

// parseLevel converts a level string to slog.Level, defaulting to info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithComponent returns a child Logger tagging every entry with a component
// name such as "decomposer", "server", or "cli".
func (l *Logger) WithComponent(component string) *Logger {
	return l.withAttr(slog.String("component", component))
}

// WithGoal returns a child Logger tagging every entry with the goal being
// decomposed, so concurrent requests remain distinguishable in the log.
func (l *Logger) WithGoal(goal string) *Logger {
	return l.withAttr(slog.String("goal", goal))
}

// With returns a child Logger with arbitrary alternating key-value
// attributes added to every entry.
func (l *Logger) With(args ...any) *Logger {
	if len(args) == 0 {
		return l
	}

	attrs := make([]slog.Attr, 0, len(l.attrs)+len(args)/2)
	attrs = append(attrs, l.attrs...)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, slog.Any(key, args[i+1]))
	}

	return &Logger{logger: l.logger, sink: l.sink, attrs: attrs}
}

func (l *Logger) withAttr(attr slog.Attr) *Logger {
	attrs := make([]slog.Attr, len(l.attrs)+1)
	copy(attrs, l.attrs)
	attrs[len(l.attrs)] = attr
	return &Logger{logger: l.logger, sink: l.sink, attrs: attrs}
}

// Debug logs a message at debug level with optional key-value pairs.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, msg, args...)
}

// Info logs a message at info level with optional key-value pairs.
func (l *Logger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, msg, args...)
}

// Warn logs a message at warn level with optional key-value pairs.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, msg, args...)
}

// Error logs a message at error level with optional key-value pairs.
func (l *Logger) Error(msg string, args ...any) {
	l.log(slog.LevelError, msg, args...)
}

func (l *Logger) log(level slog.Level, msg string, args ...any) {
	all := make([]any, 0, len(l.attrs)*2+len(args))
	for _, attr := range l.attrs {
		all = append(all, attr.Key, attr.Value.Any())
	}
	all = append(all, args...)

	l.logger.Log(context.Background(), level, msg, all...)
}

// Close flushes and closes the underlying log file. It is a no-op for
// loggers writing to stderr.
func (l *Logger) Close() error {
	if l.sink != nil {
		return l.sink.Close()
	}
	return nil
}

// NopLogger returns a Logger that discards all output. Useful for tests and
// for callers that do not want observability.
func NopLogger() *Logger {
	return &Logger{
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
		attrs:  make([]slog.Attr, 0),
	}
}
