// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging sets up the structured JSON log for goalcast. The picker
// runs inside a full-screen terminal UI, so log lines go to a file rather
// than the terminal.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileName is the log file created inside the log directory.
const FileName = "goalcast.log"

// Logger is a slog.Logger bound to the file it writes to.
type Logger struct {
	*slog.Logger

	mu   sync.Mutex
	file *os.File
}

// New opens {dir}/goalcast.log for appending and returns a JSON logger at
// the given level. With an empty dir the logger writes to stderr.
func New(dir, level string) (*Logger, error) {
	var w io.Writer = os.Stderr
	var file *os.File
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		w, file = f, f
	}
	return &Logger{Logger: newJSON(w, level), file: file}, nil
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(io.Discard, nil))}
}

// ToWriter returns a logger writing JSON lines to w. Close is a no-op.
func ToWriter(w io.Writer, level string) *Logger {
	return &Logger{Logger: newJSON(w, level)}
}

func newJSON(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// ParseLevel maps DEBUG, INFO, WARN and ERROR (any case) to a slog level.
// Anything else is INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Close syncs and closes the log file. It is safe to call more than once.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	l.file.Sync()
	err := l.file.Close()
	l.file = nil
	return err
}
