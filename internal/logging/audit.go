package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// AuditLog owns the per-run history file and the logger writing to it.
type AuditLog struct {
	logger *slog.Logger
	file   *os.File
	path   string
}

// Options describes audit log construction parameters.
type Options struct {
	// HistoryPath is the JSON-lines file for this run. Required.
	HistoryPath string
	// Console receives a mirrored text rendering of every event. Optional.
	Console io.Writer
	// Level is the minimum level for the console mirror; the history file
	// always records everything.
	Level string
}

// Open creates the history file and builds the logger. The caller must Close
// the returned log before process exit so buffered lines reach disk.
func Open(opts Options) (*AuditLog, error) {
	if strings.TrimSpace(opts.HistoryPath) == "" {
		return nil, fmt.Errorf("history path is required")
	}
	if err := os.MkdirAll(filepath.Dir(opts.HistoryPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	file, err := os.OpenFile(opts.HistoryPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open history log: %w", err)
	}

	fileLevel := new(slog.LevelVar)
	fileLevel.Set(slog.LevelDebug)
	handlers := []slog.Handler{newJSONHandler(file, fileLevel)}

	if opts.Console != nil {
		consoleLevel := new(slog.LevelVar)
		consoleLevel.Set(ParseLevel(opts.Level))
		handlers = append(handlers, slog.NewTextHandler(opts.Console, &slog.HandlerOptions{
			Level: consoleLevel,
		}))
	}

	return &AuditLog{
		logger: slog.New(newFanoutHandler(handlers...)),
		file:   file,
		path:   opts.HistoryPath,
	}, nil
}

// Logger returns the slog logger backing this audit log.
func (a *AuditLog) Logger() *slog.Logger {
	if a == nil {
		return slog.Default()
	}
	return a.logger
}

// Path returns the history file location for operator reporting.
func (a *AuditLog) Path() string {
	if a == nil {
		return ""
	}
	return a.path
}

// Close flushes and closes the history file.
func (a *AuditLog) Close() error {
	if a == nil || a.file == nil {
		return nil
	}
	if err := a.file.Sync(); err != nil {
		_ = a.file.Close()
		return fmt.Errorf("sync history log: %w", err)
	}
	if err := a.file.Close(); err != nil {
		return fmt.Errorf("close history log: %w", err)
	}
	a.file = nil
	return nil
}

// ParseLevel maps a config level string to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newJSONHandler(w io.Writer, lvl *slog.LevelVar) slog.Handler {
	opts := slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "time"
				if attr.Value.Kind() == slog.KindTime {
					attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339))
				}
			case slog.LevelKey:
				attr.Key = "level"
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			case slog.MessageKey:
				attr.Key = "msg"
			}
			return attr
		},
	}
	return slog.NewJSONHandler(w, &opts)
}
