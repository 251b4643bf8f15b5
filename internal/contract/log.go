package contract

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLogLevel is the log level used when none is configured.
const DefaultLogLevel = "warn"

var logger = newLogger(os.Stderr, zerolog.WarnLevel)

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: os.Getenv("NO_COLOR") != ""}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// ParseLogLevel converts a level name into a zerolog.Level.
func ParseLogLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "", "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("invalid log level '%s'. must be debug, info, warn, error", s)
	}
}

// SetupLogger replaces the process logger. Diagnostics always go to w, never to stdout.
func SetupLogger(w io.Writer, level zerolog.Level) {
	logger = newLogger(w, level)
}

// Logger returns the process logger.
func Logger() *zerolog.Logger {
	return &logger
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	logger.WithLevel(zerolog.FatalLevel).Err(err).Msg(msg)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	logger.Warn().Err(err).Msg(msg)
}
