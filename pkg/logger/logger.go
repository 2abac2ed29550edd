package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ParseLogLevel parses a level name. Unknown names map to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config contains logger configuration.
type Config struct {
	Level    slog.Level // Minimum level to output
	Prefix   string     // Prepended to every message
	Console  bool       // Write to ConsoleWriter (stderr when nil)
	File     bool       // Append to FilePath
	FilePath string
	JSON     bool // JSON records instead of text

	ConsoleWriter io.Writer
}

// Logger is a slog.Logger that owns its log file.
type Logger struct {
	*slog.Logger
	file *os.File
}

// NewLogger creates a logger with the given configuration.
func NewLogger(cfg *Config) (*Logger, error) {
	var writers []io.Writer
	if cfg.Console {
		w := cfg.ConsoleWriter
		if w == nil {
			w = os.Stderr
		}
		writers = append(writers, w)
	}

	l := &Logger{}
	if cfg.File && cfg.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.file = file
		writers = append(writers, file)
	}

	var out io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		out = writers[0]
	default:
		out = io.MultiWriter(writers...)
	}

	opts := &slog.HandlerOptions{
		Level: cfg.Level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				if !cfg.JSON {
					return slog.String(slog.TimeKey, a.Value.Time().Format("15:04:05.000"))
				}
			case slog.MessageKey:
				if cfg.Prefix != "" {
					return slog.String(slog.MessageKey, cfg.Prefix+a.Value.String())
				}
			}
			return a
		},
	}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	l.Logger = slog.New(handler)
	return l, nil
}

// NewDefaultLogger creates an info-level console logger.
func NewDefaultLogger() *Logger {
	l, _ := NewLogger(&Config{
		Level:   slog.LevelInfo,
		Prefix:  "[chatbridge] ",
		Console: true,
	})
	return l
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
