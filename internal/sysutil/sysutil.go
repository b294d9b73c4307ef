// Package sysutil configures process-wide logging and reads environment
// values that have legacy aliases.
package sysutil

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetLogLevel sets the global zerolog level from a case-insensitive name
// (debug, info, warn/warning, error, fatal, panic) and returns it. Empty or
// unknown names select info.
func SetLogLevel(lvl string) zerolog.Level {
	name := strings.ToLower(strings.TrimSpace(lvl))
	if name == "warning" {
		name = "warn"
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil || name == "" || level == zerolog.NoLevel || level == zerolog.TraceLevel || level == zerolog.Disabled {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	return level
}

// ConfigureLogging installs the global logger: level, RFC3339 timestamps,
// a console writer when pretty is set, and the fallback for log.Ctx on
// contexts that carry no request logger.
func ConfigureLogging(level string, pretty bool, out io.Writer) {
	if out == nil {
		out = os.Stderr
	}
	SetLogLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log.Logger
}

// IsTruthy reports whether v spells true: "1", "true", "yes", "y" or "on",
// ignoring case and surrounding space.
func IsTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// FirstNonEmpty returns the first value that is not blank, untrimmed.
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Getenv returns the first non-blank value among the named variables, so a
// current name can shadow its legacy alias.
func Getenv(names ...string) string {
	vals := make([]string, len(names))
	for i, n := range names {
		vals[i] = os.Getenv(n)
	}
	return FirstNonEmpty(vals...)
}
