package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. Development gets human-readable console
// output, every other environment gets JSON lines.
func New(env string) zerolog.Logger {
	return NewWriter(env, os.Stdout)
}

// NewWriter is New with an explicit destination. Command-line tools log to
// stderr so stdout stays usable for output.
func NewWriter(env string, out io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	if strings.EqualFold(env, "development") {
		return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
	}
	return zerolog.New(out).
		Level(zerolog.InfoLevel).
		With().Timestamp().Str("service", "genka-kanri").Logger()
}
