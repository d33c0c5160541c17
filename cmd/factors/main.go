// Command factors prints one factor pair "N=A*B" for every integer in a file
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"factors/internal/core/version"
	"factors/internal/platform/config"
	perr "factors/internal/platform/errors"
	"factors/internal/platform/logger"
	factmod "factors/internal/services/factorize/module"

	"github.com/google/uuid"
)

const (
	usage = "Usage: factors <file>"
	// flag.Parse stops at the first non-flag argument
	flagOrder = "Flags must come before <file>; put -- before a file name that starts with '-'."
)

// openInput is a seam for tests
var openInput = func(path string) (io.ReadCloser, error) { return os.Open(path) }

func main() {
	opt := logger.FromEnv()
	opt.Service = "factors"
	logger.Init(opt)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run is main without the process plumbing; it returns the exit status
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	defaults := factmod.FromConfig(config.New())

	fs := flag.NewFlagSet("factors", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		mode        = fs.String("mode", defaults.Mode, "tokenization: line (first number per line) or scan (every number)")
		workers     = fs.Int("workers", defaults.Workers, "concurrent factoring goroutines (1..256)")
		batch       = fs.Int("batch", defaults.BatchSize, "numbers read per batch (1..1000000)")
		largerFirst = fs.Bool("larger-first", defaults.LargerFirst, "print N=B*A instead of N=A*B")
		showVersion = fs.Bool("version", false, "print version and exit")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(stderr)
			_, _ = fmt.Fprintln(stderr, usage)
			fs.PrintDefaults()
			_, _ = fmt.Fprintln(stderr, flagOrder)
			return 0
		}
		_, _ = fmt.Fprintf(stderr, "Error: %v\n%s\n", err, usage)
		return perr.ExitCodeOf(perr.ErrorCodeUsage)
	}
	if *showVersion {
		_, _ = fmt.Fprintln(stdout, version.Info().String())
		return 0
	}
	if fs.NArg() != 1 {
		_, _ = fmt.Fprintln(stderr, usage)
		return perr.ExitCodeOf(perr.ErrorCodeUsage)
	}
	path := fs.Arg(0)

	mod, err := factmod.New(factmod.Options{
		Mode:        *mode,
		Workers:     *workers,
		BatchSize:   *batch,
		LargerFirst: *largerFirst,
	})
	if err != nil {
		return fail(stderr, err)
	}

	ctx = logger.WithRun(ctx, uuid.NewString(), path)
	log := logger.C(ctx)

	f, err := openInput(path)
	if err != nil {
		log.Debug().Err(err).Msg("open input failed")
		_, _ = fmt.Fprintf(stderr, "Error: can't open %s\n", path)
		return perr.ExitCode(perr.FileOpenf(err, "can't open %s", path))
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Error().Err(cerr).Msg("failed to close input")
		}
	}()

	st, err := mod.Ports().Runner.Run(ctx, mod.Source(f), stdout)
	log.Info().
		Str("mode", mod.Options().Mode).
		Int("workers", mod.Options().Workers).
		Int("read", st.Read).
		Int("emitted", st.Emitted).
		Int("no_factor", st.NoFactor).
		Int("malformed", st.Malformed).
		Msg("run finished")
	if err != nil {
		return fail(stderr, err)
	}
	return 0
}

// fail reports err on stderr and maps it to an exit status
func fail(stderr io.Writer, err error) int {
	ev := logger.Get().Debug().Err(err).Str("code", perr.CodeOf(err).String())
	if e, ok := perr.As(err); ok && e.Field() != "" {
		ev = ev.Str("field", e.Field())
	}
	ev.Msg("run failed")
	_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
	return perr.ExitCode(err)
}
