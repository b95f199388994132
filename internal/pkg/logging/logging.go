package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New builds the process logger. Production output is JSON; everything else
// gets the human-readable text formatter.
func New(env, level string) *log.Logger {
	return newLogger(os.Stderr, env, level)
}

func newLogger(w io.Writer, env, level string) *log.Logger {
	opts := log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           parseLevel(level),
		Prefix:          "relay",
	}
	if strings.EqualFold(env, "production") {
		opts.Formatter = log.JSONFormatter
	}
	return log.NewWithOptions(w, opts)
}

func parseLevel(level string) log.Level {
	l, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return log.InfoLevel
	}
	return l
}
