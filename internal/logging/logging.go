// README: zerolog setup; one service-scoped logger per process component.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns the root logger. pretty switches to the human console writer
// for local runs; production output stays line-delimited JSON.
func New(service string, pretty bool) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var logger zerolog.Logger
	if pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.With().Timestamp().Str("service", service).Logger()
}
