// Package logger builds the zerolog loggers of the command line tools.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

const (
	LogLevelFlag = "loglevel"
	LogJSONFlag  = "json-logs"

	consoleTimeFormat = time.RFC3339
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFunc = utcNow
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// Config is the logging configuration.
type Config struct {
	MinLevel string // trace | debug | info | warn | error
	JSON     bool   // one JSON object per event instead of the console format
	NoColor  bool

	// Out defaults to os.Stderr.
	Out io.Writer
}

// DefaultConfig logs at info level to the console.
func DefaultConfig() Config {
	return Config{MinLevel: zerolog.InfoLevel.String()}
}

// Create builds a logger from the configuration. A nil configuration
// selects [DefaultConfig]. An invalid level falls back to info and is
// reported on the returned logger.
func Create(config *Config) *zerolog.Logger {
	if config == nil {
		c := DefaultConfig()
		config = &c
	}

	out := config.Out
	if out == nil {
		out = os.Stderr
	}

	if !config.JSON {
		out = createConsoleWriter(out, config.NoColor)
	}

	// Engines running concurrently share the logger.
	out = zerolog.SyncWriter(out)

	level, levelErr := zerolog.ParseLevel(config.MinLevel)
	if levelErr != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	log := zerolog.New(out).Level(level).With().Timestamp().Logger()
	if levelErr != nil {
		log.Error().Msgf("Failed to parse log level %q, using %q instead", config.MinLevel, level)
	}

	return &log
}

// CreateLoggerFromContext builds a logger from the [LogLevelFlag] and
// [LogJSONFlag] flags of c.
func CreateLoggerFromContext(c *cli.Context) *zerolog.Logger {
	return Create(&Config{
		MinLevel: c.String(LogLevelFlag),
		JSON:     c.Bool(LogJSONFlag),
		Out:      c.App.ErrWriter,
	})
}

func createConsoleWriter(out io.Writer, noColor bool) io.Writer {
	if f, ok := out.(*os.File); ok {
		noColor = noColor || !term.IsTerminal(int(f.Fd()))
		out = colorable.NewColorable(f)
	} else {
		noColor = true
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    noColor,
		TimeFormat: consoleTimeFormat,
	}
}
