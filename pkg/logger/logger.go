// Package logger holds the process-wide zerolog logger.
//
// The CLI installs it from flags and environment with Init before any command
// runs; code that is not handed a logger explicitly takes a tagged child with
// For so lines can be filtered by component (session, gateway, bff, demo-api).
//
// Output goes to stderr unless told otherwise: stdout belongs to the tables
// the commands print.
package logger

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

type Options struct {
	// Level is trace, debug, info, warn, error or off. Anything else is info.
	Level string
	// Pretty switches from JSON lines to zerolog's console writer.
	Pretty bool
	Output io.Writer
	// Service, when set, is stamped on every line.
	Service string
}

var current atomic.Pointer[zerolog.Logger]

// Init builds a logger from opts and installs it, replacing any earlier one.
// Each CLI invocation calls it once with that invocation's stderr.
func Init(opts Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	ctx := zerolog.New(out).Level(parseLevel(opts.Level)).With().Timestamp()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	l := ctx.Logger()
	current.Store(&l)
	return l
}

// Get returns the installed logger. It panics before Init.
func Get() zerolog.Logger {
	l := current.Load()
	if l == nil {
		panic("logger: Get() called before Init()")
	}
	return *l
}

// For returns a child of the installed logger tagged with component=name.
func For(name string) zerolog.Logger {
	return Get().With().Str("component", name).Logger()
}

// Reset uninstalls the logger. Tests only.
func Reset() {
	current.Store(nil)
}

func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return zerolog.InfoLevel
	case "warning":
		return zerolog.WarnLevel
	case "off":
		return zerolog.Disabled
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
