package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init routes diagnostics to stderr. Stdout carries only the run report.
func Init(level string) error {
	return InitWithWriter(level, os.Stderr)
}

func InitWithWriter(level string, out io.Writer) error {
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339Nano}).
		With().
		Timestamp().
		Logger()
	return nil
}

func parseLevel(level string) (zerolog.Level, error) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zerolog.DebugLevel, nil
	case "INFO":
		return zerolog.InfoLevel, nil
	case "WARN":
		return zerolog.WarnLevel, nil
	case "ERROR":
		return zerolog.ErrorLevel, nil
	case "DISABLED":
		return zerolog.Disabled, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("incorrect log level %q", level)
	}
}
