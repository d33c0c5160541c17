// Package logger provides a zerolog wrapper with opinionated defaults and
// run-scoped logging support. Output goes to stderr so stdout stays reserved
// for factor lines
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"factors/internal/core/version"
	"factors/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Options configures the logger
type Options struct {
	Level      string
	Format     string    // console or json
	Service    string
	Writer     io.Writer // nil means stderr
	WithCaller bool
}

// FromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_SERVICE and LOG_CALLER through the
// raw view, which does not log
func FromEnv() Options {
	rc := raw.New().Prefix("LOG_")
	return Options{
		Level:      strings.ToLower(rc.Get("LEVEL", "warn")),
		Format:     strings.ToLower(rc.Get("FORMAT", "console")),
		Service:    rc.Get("SERVICE", ""),
		WithCaller: rc.GetBool("CALLER", false),
	}
}

var (
	once   sync.Once
	root   atomic.Pointer[zerolog.Logger]
	inited atomic.Bool
)

// Logger is the project-wide logging type
type Logger = zerolog.Logger

// Get returns the process-wide logger, building it from the environment on
// first use if Init was never called
func Get() *Logger {
	if !inited.Load() {
		Init(FromEnv())
	}
	return root.Load()
}

// Init builds the process-wide logger. Only the first call has any effect
func Init(opt Options) {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano

		w := opt.Writer
		if w == nil {
			w = os.Stderr
		}
		if opt.Format != "json" {
			w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		}

		zc := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp().
			Str("version", version.Info().Version)
		if opt.Service != "" {
			zc = zc.Str("service", opt.Service)
		}
		if opt.WithCaller {
			zc = zc.Caller()
		}
		l := zc.Logger()

		root.Store(&l)
		inited.Store(true)
	})
}

// parseLevel accepts zerolog level names plus "warning" and "off".
// Anything unrecognised means warn
func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "warning":
		return zerolog.WarnLevel
	case "off":
		return zerolog.Disabled
	}
	if lvl, err := zerolog.ParseLevel(s); err == nil && lvl != zerolog.NoLevel {
		return lvl
	}
	return zerolog.WarnLevel
}

type runKey struct{}

type run struct{ id, input string }

// WithRun annotates ctx with the invocation id and input path
func WithRun(ctx context.Context, runID, input string) context.Context {
	return context.WithValue(ctx, runKey{}, run{id: runID, input: input})
}

// C returns the process logger, carrying run_id and input when ctx came
// through WithRun
func C(ctx context.Context) *Logger {
	r, ok := ctx.Value(runKey{}).(run)
	if !ok {
		return Get()
	}
	b := Get().With()
	if r.id != "" {
		b = b.Str("run_id", r.id)
	}
	if r.input != "" {
		b = b.Str("input", r.input)
	}
	l := b.Logger()
	return &l
}

// Named returns a child logger with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}
