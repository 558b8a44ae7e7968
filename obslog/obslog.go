// Package obslog provides the single process-wide logger used by every
// other package in this module. It never receives cleartext secrets:
// callers are responsible for redacting passwords, tokens, and digests
// before logging (see codec and soapmsg for the scrub points).
package obslog

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
)

// SetOutput redirects the logger, e.g. to a JSON sink when the fabric
// is embedded rather than driven from the CLI.
func SetOutput(w io.Writer, json bool) {
	mu.Lock()
	defer mu.Unlock()
	if json {
		logger = zerolog.New(w).With().Timestamp().Logger()
		return
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
}

// SetLevel adjusts the minimum logged level ("debug", "info", "warn", "error").
func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	logger = logger.Level(lvl)
}

// For returns a child logger scoped to a component name, e.g.
// obslog.For("xmlparser").Warn().Msg("unterminated CDATA section")
func For(component string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger.With().Str("component", component).Logger()
}
