// Package logging configures zerolog for the Moxie services.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	root   zerolog.Logger
	inited bool
)

// Setup initializes the root logger. Output defaults to a console writer on
// stderr; level accepts the usual zerolog names (trace..panic) and falls back
// to info for unknown values.
func Setup(level string, out io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	if out == nil {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}

	root = zerolog.New(out).Level(parsed).With().Timestamp().Logger()
	inited = true
}

// Component returns a logger tagged with a component name.
func Component(name string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	if !inited {
		return zerolog.New(os.Stderr).Level(zerolog.InfoLevel).With().
			Timestamp().Str("component", name).Logger()
	}
	return root.With().Str("component", name).Logger()
}
