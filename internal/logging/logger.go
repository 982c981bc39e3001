package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// New creates a configured application logger.
// It writes to Stderr so generated output on Stdout stays clean.
// It standardizes common keys (e.g., "error" -> "err").
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, handlerOptions(level)))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Config selects the level, format and an optional rotating log file.
type Config struct {
	Level  slog.Level
	Format string // "text" or "json"
	File   string

	// Rotation of File, in megabytes and days.
	MaxSize    int
	MaxAge     int
	MaxBackups int

	// Output defaults to os.Stderr.
	Output io.Writer
}

// Open builds a logger from cfg. When a file is configured, records go to
// both the output and the file, always as JSON so the file stays parseable.
// The returned closer releases the file.
func Open(cfg Config) (*slog.Logger, io.Closer) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := handlerOptions(cfg.Level)

	if cfg.File == "" {
		if strings.EqualFold(cfg.Format, "json") {
			return slog.New(slog.NewJSONHandler(out, opts)), nopCloser{}
		}
		return slog.New(slog.NewTextHandler(out, opts)), nopCloser{}
	}

	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    orDefault(cfg.MaxSize, 10),
		MaxAge:     orDefault(cfg.MaxAge, 30),
		MaxBackups: orDefault(cfg.MaxBackups, 5),
		Compress:   true,
	}
	w := io.MultiWriter(out, file)
	return slog.New(slog.NewJSONHandler(w, opts)), file
}

// ParseLevel maps debug, info, warn and error to a level. Anything else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func handlerOptions(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Standardize 'error' key to 'err'
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
