// Package service implements the factorize runner
package service

import (
	"bufio"
	"context"
	"io"
	"sync"

	"factors/internal/core/factor"
	perr "factors/internal/platform/errors"
	"factors/internal/platform/logger"
	"factors/internal/services/factorize/domain"
)

// Config for the factorize service
type Config struct {
	Workers     int
	BatchSize   int
	LargerFirst bool
}

// Service implements domain.RunnerPort
type Service struct {
	Finder factor.Finder
	Cfg    Config
}

// New constructs a new factorize service; a nil finder means trial division
func New(f factor.Finder, cfg Config) *Service {
	if f == nil {
		f = factor.TrialDivision{}
	}
	w := cfg.Workers
	if w <= 0 {
		w = 1
	}
	bs := cfg.BatchSize
	if bs <= 0 {
		bs = 512
	}
	return &Service{
		Finder: f,
		Cfg: Config{
			Workers:     w,
			BatchSize:   bs,
			LargerFirst: cfg.LargerFirst,
		},
	}
}

// result is one slot of a batch; ok is false when no pair exists
type result struct {
	p  factor.Pair
	ok bool
}

// Run pulls integers from src in batches, factors each batch with up to
// Cfg.Workers goroutines, and writes the found pairs in input order.
// Parse errors are logged and skipped; other source errors, write errors and
// context cancellation stop the run after the current batch is flushed
func (s *Service) Run(ctx context.Context, src domain.SourcePort, w io.Writer) (domain.Stats, error) {
	l := logger.C(ctx).With().Str("component", "factorize").Logger()
	bw := bufio.NewWriter(w)

	var st domain.Stats
	batch := make([]int64, 0, s.Cfg.BatchSize)
	out := make([]result, s.Cfg.BatchSize)

	for {
		if err := ctx.Err(); err != nil {
			return st, s.finish(bw, perr.Wrap(err, perr.ErrorCodeCanceled, "run canceled"))
		}

		batch = batch[:0]
		var stop error
		eof := false
		for len(batch) < s.Cfg.BatchSize {
			n, err := src.Next()
			if err == nil {
				st.Read++
				batch = append(batch, n)
				continue
			}
			if perr.Is(err, io.EOF) {
				eof = true
				break
			}
			if perr.Recoverable(err) {
				st.Malformed++
				ev := l.Warn().Err(err).Str("code", perr.CodeOf(err).String())
				if e, ok := perr.As(err); ok && e.Op() != "" {
					ev = ev.Str("op", e.Op())
				}
				ev.Msg("skipping malformed input")
				continue
			}
			stop = err
			break
		}

		s.factorBatch(batch, out[:len(batch)])

		for i := range batch {
			r := out[i]
			if !r.ok {
				st.NoFactor++
				continue
			}
			if _, err := bw.WriteString(r.p.Format(s.Cfg.LargerFirst)); err != nil {
				return st, perr.IOf(err, "write output")
			}
			if err := bw.WriteByte('\n'); err != nil {
				return st, perr.IOf(err, "write output")
			}
			st.Emitted++
		}

		if stop != nil {
			return st, s.finish(bw, stop)
		}
		if eof {
			l.Debug().
				Int("read", st.Read).
				Int("emitted", st.Emitted).
				Int("no_factor", st.NoFactor).
				Int("malformed", st.Malformed).
				Msg("input drained")
			return st, s.finish(bw, nil)
		}
	}
}

// finish flushes buffered output; a flush failure wins over a nil cause
func (s *Service) finish(bw *bufio.Writer, cause error) error {
	if err := bw.Flush(); err != nil && cause == nil {
		return perr.IOf(err, "flush output")
	}
	return cause
}

// factorBatch fills out[i] for every xs[i]. Workers write disjoint slots so
// the order of out always matches xs
func (s *Service) factorBatch(xs []int64, out []result) {
	if s.Cfg.Workers == 1 || len(xs) < 2 {
		for i, n := range xs {
			p, ok := s.Finder.FindPair(n)
			out[i] = result{p: p, ok: ok}
		}
		return
	}

	sem := make(chan struct{}, s.Cfg.Workers)
	wg := sync.WaitGroup{}
	for i := range xs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer func() { <-sem; wg.Done() }()
			p, ok := s.Finder.FindPair(xs[i])
			out[i] = result{p: p, ok: ok}
		}(i)
	}
	wg.Wait()
}
