package logx

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Log is the shared logger used throughout the project.
var Log = log.Logger

// Configure sets the global log level and output format. When console is
// true, output is a human-readable console writer instead of JSON.
func Configure(level string, console bool) {
	zerolog.SetGlobalLevel(parseLevel(level))
	if console {
		Log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		Log = log.Output(os.Stderr)
	}
	log.Logger = Log
}

// parseLevel converts a string to a zerolog level.
// Accepts: trace, debug, info, warn, warning, error, fatal, none.
// Unknown values default to info.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "all", "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "none", "off", "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
