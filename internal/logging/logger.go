package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New builds a console logger at a level derived from the verbose flag.
// The logger is a value threaded explicitly into components; nothing in
// this package mutates process-wide state.
func New(out io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// Component returns a logger tagged with the given component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}

// Measure returns a stop function that logs the elapsed time when called.
func Measure(logger zerolog.Logger, label string) func() {
	start := time.Now()
	return func() {
		logger.Debug().
			Dur("elapsed", time.Since(start).Round(time.Millisecond)).
			Msg(label)
	}
}
