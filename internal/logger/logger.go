// Package logger configures the process-wide zerolog instance.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup installs the global logger. Dev environments get a pretty
// console writer; everything else emits one JSON object per line. The
// level comes from LOG_LEVEL and defaults to info.
func Setup(env string) {
	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var l zerolog.Logger
	if env == "dev" {
		l = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).Level(level).With().Timestamp().Logger()
	} else {
		l = zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	}

	log.Logger = l.With().Str("service", "show-booking").Logger()
}
