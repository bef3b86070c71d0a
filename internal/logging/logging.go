// Package logging configures the global zerolog logger.
//
// The dashboard owns the terminal, so by default events go to a log file.
// With debug enabled they are written to stderr in console format instead.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	appDir   = "skyglass"
	fileName = "skyglass.log"
)

// Options control Setup.
type Options struct {
	// Debug lowers the level to debug and writes to Stderr.
	Debug bool

	// File is the log file path. Empty uses DefaultFile.
	File string

	// Stderr overrides os.Stderr. Intended for testing.
	Stderr io.Writer
}

// DefaultFile returns the default log file location under the user cache
// directory.
func DefaultFile() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("logging: unable to determine cache directory: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

// Setup replaces log.Logger. The returned closer releases the log file and
// must be called on exit.
func Setup(opts Options) (io.Closer, error) {
	zerolog.TimeFieldFormat = time.RFC3339

	if opts.Debug {
		out := opts.Stderr
		if out == nil {
			out = os.Stderr
		}
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly})
		return nopCloser{}, nil
	}

	path := opts.File
	if path == "" {
		var err error
		path, err = DefaultFile()
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logging: failed to create directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: failed to open %s: %w", path, err)
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = zerolog.New(f).With().Timestamp().Str("service", appDir).Logger()
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Discard silences the global logger.
func Discard() {
	log.Logger = zerolog.Nop()
}
