// Package logging configures the global zerolog logger: a console writer on
// stdout (colors resolved from config, NO_COLOR and TTY detection) plus an
// optional rotating file sink.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/plateworks/chanmerge/internal/config"
)

// Setup installs the global logger. Call once during startup, before any
// component logger is created.
func Setup(cfg *config.Config) {
	level := zerolog.InfoLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}

	console := zerolog.ConsoleWriter{
		Out:        colorable.NewColorableStdout(),
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    !colorsEnabled(cfg.ColorMode),
	}

	writers := []io.Writer{console}
	if cfg.LogFile != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // MiB
			MaxBackups: 3,
			MaxAge:     30, // days
		})
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()
	zerolog.TimeFieldFormat = time.RFC3339
}

// Component returns a child logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}

// colorsEnabled resolves the configured color mode against TTY detection and
// the NO_COLOR convention (https://no-color.org).
func colorsEnabled(mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default: // ColorAuto
		return isTerminal(os.Stdout) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// isTerminal reports whether f is attached to a TTY (character device).
func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
