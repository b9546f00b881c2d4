package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds the process logger. Development gets coloured console output,
// every other environment gets JSON lines on stderr.
func New(env, level string) zerolog.Logger {
	var out io.Writer = os.Stderr
	if env == "DEV" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	}
	return NewWithWriter(out, level)
}

// NewWithWriter builds a logger writing to out at the given level.
// Unknown levels fall back to info.
func NewWithWriter(out io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// SetGlobal makes l the logger used by the zerolog/log package helpers
func SetGlobal(l zerolog.Logger) {
	log.Logger = l
	zerolog.SetGlobalLevel(l.GetLevel())
}
