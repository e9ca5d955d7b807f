package cmd

import (
	"os"

	"github.com/rs/zerolog"
)

// newLogger builds the CLI logger. Diagnostics go to stderr so payload
// output on stdout stays machine-readable. LOG_LEVEL overrides the
// default info level.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		if parsed, err := zerolog.ParseLevel(env); err == nil {
			level = parsed
		}
	}

	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
