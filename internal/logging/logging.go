// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"

	"github.com/dkoosis/mdreport/pkg/testjson"
)

// Levels beyond the slog built-ins.
const (
	LevelTrace = testjson.LevelTrace
	LevelOff   = slog.Level(1 << 20)
)

// Init creates a text logger on w at level and sets it as the slog default.
func Init(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceLevel,
	}
	logger := slog.New(slog.NewTextHandler(w, opts))
	slog.SetDefault(logger)
	return logger
}

// Level maps the command line's quiet flag and verbosity count to a level:
// warnings by default, then info, debug and trace.
func Level(quiet bool, verbosity int) slog.Level {
	switch {
	case quiet:
		return LevelOff
	case verbosity <= 0:
		return slog.LevelWarn
	case verbosity == 1:
		return slog.LevelInfo
	case verbosity == 2:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey || len(groups) > 0 {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl <= LevelTrace {
		a.Value = slog.StringValue("TRACE")
	}
	return a
}
