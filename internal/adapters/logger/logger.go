// Package logger implements the logging adapter on top of log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/muesli/termenv"
	"go.trai.ch/lockmend/internal/core/ports"
	"go.trai.ch/lockmend/internal/ui/output"
)

var _ ports.Logger = (*Logger)(nil)

// Logger implements ports.Logger using log/slog.
type Logger struct {
	mu        sync.RWMutex
	logger    *slog.Logger
	level     *slog.LevelVar
	jsonMode  bool
	output    io.Writer
	profileFn func() termenv.Profile
}

// New creates a Logger writing pretty output to stderr at info level.
func New() *Logger {
	l := &Logger{
		level:     &slog.LevelVar{},
		output:    os.Stderr,
		profileFn: output.ColorProfile,
	}
	l.rebuild()
	return l
}

// SetOutput changes the destination. A nil writer selects stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.rebuild()
}

// SetJSON switches between JSON and pretty output, keeping the destination.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.rebuild()
}

// SetProfile selects the color profile of the pretty output.
func (l *Logger) SetProfile(profileFn func() termenv.Profile) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.profileFn = profileFn
	l.rebuild()
}

// SetLevel sets the minimum level written. It applies to both output modes.
func (l *Logger) SetLevel(level slog.Level) {
	l.level.Set(level)
}

// rebuild must be called with mu held.
func (l *Logger) rebuild() {
	var handler slog.Handler
	if l.jsonMode {
		handler = slog.NewJSONHandler(l.output, &slog.HandlerOptions{Level: l.level})
	} else {
		handler = NewPrettyHandler(l.output, l.profileFn, l.level)
	}
	l.logger = slog.New(handler)
}

// Debug logs a diagnostic message, shown only at debug level.
func (l *Logger) Debug(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Debug(msg)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error with its cause chain.
// In JSON mode the error is attached as a structured attribute instead.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.jsonMode {
		l.logger.Error("operation failed", "error", err)
		return
	}

	l.logger.Error(formatErrorEntries(collectErrorEntries(err)))
}
