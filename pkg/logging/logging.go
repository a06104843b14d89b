// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logger := logging.Setup("debug")  // sets slog.Default and returns it
//
// Levels: debug, info, warn, error (default: info).
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// ParseLevel maps a level name to a slog.Level. An empty name is info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// New returns a tint logger writing to w. Color is disabled unless w is a terminal.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  level <= slog.LevelDebug,
		NoColor:    !isTerminal(w),
	}))
}

// Setup configures the default logger on stderr at the named level. Unknown
// names fall back to info.
func Setup(level string) *slog.Logger {
	lvl, err := ParseLevel(level)
	logger := New(os.Stderr, lvl)
	slog.SetDefault(logger)
	if err != nil {
		logger.Warn("Falling back to info logging", "error", err)
	}
	return logger
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
