// Package logging builds the leveled loggers papyrus writes diagnostics with.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// ParseLevel maps a level name to a slog level. Names are case-insensitive
// and accept the Python spellings WARNING and CRITICAL.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "", "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR", "CRITICAL":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", name)
}

// New returns a text logger writing to w at level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Timed logs op.start at debug level and returns a func that logs op.end with
// the elapsed time, or op.error when passed a non-nil error.
func Timed(log *slog.Logger, op string) func(err error) {
	log.Debug(op + ".start")
	start := time.Now()
	return func(err error) {
		took := time.Since(start)
		if err != nil {
			log.Debug(op+".error", "took", took, "err", err)
			return
		}
		log.Debug(op+".end", "took", took)
	}
}
