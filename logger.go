package cachetree

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with cachetree-specific context, providing structured
// logging with consistent field names for tree construction and matching events.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler. If handler is nil, uses a
// default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithStep adds a pipeline step index field to the logger.
func (l *Logger) WithStep(index int) *Logger {
	return &Logger{
		Logger: l.Logger.With("step", index),
	}
}

// LogNodeBuilt logs the first materialization of a child node for a fingerprint.
func (l *Logger) LogNodeBuilt(step int, frameSize int) {
	l.Debug("node built",
		"step", step,
		"frame_size", frameSize,
	)
}

// LogFingerprintError logs a fatal absent-fingerprint condition before it is returned
// to the caller of Matches.
func (l *Logger) LogFingerprintError(step int) {
	l.Warn("predicate returned absent fingerprint",
		"step", step,
	)
}

// LogPredicatePanic logs a recovered panic from predicate code before it is wrapped and
// returned to the caller of Matches.
func (l *Logger) LogPredicatePanic(step int, err error) {
	l.Warn("predicate panicked",
		"step", step,
		"error", err,
	)
}
