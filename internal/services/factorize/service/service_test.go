package service

import (
	"bytes"
	"context"
	stderrs "errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"factors/internal/core/factor"
	"factors/internal/core/supplier"
	perr "factors/internal/platform/errors"
	"factors/internal/platform/logger"
	"factors/internal/services/factorize/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// logs collects the package's log output as JSON lines
var logs bytes.Buffer

func TestMain(m *testing.M) {
	logger.Init(logger.Options{Level: "warn", Format: "json", Writer: &logs})
	os.Exit(m.Run())
}

// scripted is a SourcePort that replays fixed outcomes
type scripted struct {
	vals []int64
	errs map[int]error // index -> error returned instead of vals[i]
	i    int
}

func (s *scripted) Next() (int64, error) {
	if err, ok := s.errs[s.i]; ok {
		s.i++
		return 0, err
	}
	if s.i >= len(s.vals) {
		return 0, io.EOF
	}
	v := s.vals[s.i]
	s.i++
	return v, nil
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, stderrs.New("disk full") }

func TestNew_Defaults(t *testing.T) {
	s := New(nil, Config{})
	assert.Equal(t, 1, s.Cfg.Workers)
	assert.Equal(t, 512, s.Cfg.BatchSize)
	assert.IsType(t, factor.TrialDivision{}, s.Finder)
}

func TestRun_ScenarioOutput(t *testing.T) {
	src := supplier.New(strings.NewReader("12\n7\n1\n100\n9\n-5\n"))
	var out bytes.Buffer

	st, err := New(nil, Config{}).Run(context.Background(), src, &out)
	require.NoError(t, err)
	assert.Equal(t, "12=2*6\n100=2*50\n9=3*3\n", out.String())
	assert.Equal(t, domain.Stats{Read: 6, Emitted: 3, NoFactor: 3}, st)
}

func TestRun_OrderPreservedAcrossWorkers(t *testing.T) {
	vals := make([]int64, 0, 600)
	var want strings.Builder
	for n := int64(-20); n < 580; n++ {
		vals = append(vals, n)
		if p, ok := factor.FindPair(n); ok {
			want.WriteString(p.String() + "\n")
		}
	}

	for _, workers := range []int{1, 2, 7, 64} {
		for _, batch := range []int{1, 3, 100, 1000} {
			t.Run(fmt.Sprintf("w%d_b%d", workers, batch), func(t *testing.T) {
				var out bytes.Buffer
				s := New(nil, Config{Workers: workers, BatchSize: batch})
				st, err := s.Run(context.Background(), &scripted{vals: vals}, &out)
				require.NoError(t, err)
				assert.Equal(t, want.String(), out.String())
				assert.Equal(t, len(vals), st.Read)
				assert.Equal(t, st.Read, st.Emitted+st.NoFactor)
			})
		}
	}
}

func TestRun_SkipsMalformed(t *testing.T) {
	logs.Reset()
	src := supplier.New(strings.NewReader("12\nabc\n\n9\n"))
	var out bytes.Buffer

	st, err := New(nil, Config{BatchSize: 2}).Run(context.Background(), src, &out)
	require.NoError(t, err)
	assert.Equal(t, "12=2*6\n9=3*3\n", out.String())
	assert.Equal(t, 2, st.Malformed)
	assert.Equal(t, 2, st.Read)

	warned := logs.String()
	assert.Equal(t, 2, strings.Count(warned, "skipping malformed input"))
	assert.Contains(t, warned, `"code":"parse"`)
	assert.Contains(t, warned, `"op":"supplier.next"`)
	assert.Contains(t, warned, "line 2: malformed number")
}

func TestRun_LargerFirst(t *testing.T) {
	var out bytes.Buffer
	_, err := New(nil, Config{LargerFirst: true}).Run(context.Background(), &scripted{vals: []int64{12, 9}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "12=6*2\n9=3*3\n", out.String())
}

func TestRun_FatalSourceErrorFlushesBatch(t *testing.T) {
	boom := perr.IOf(stderrs.New("eio"), "read input")
	src := &scripted{vals: []int64{4, 6, 8}, errs: map[int]error{2: boom}}
	var out bytes.Buffer

	st, err := New(nil, Config{BatchSize: 10}).Run(context.Background(), src, &out)
	require.Error(t, err)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeIO))
	assert.Equal(t, "4=2*2\n6=2*3\n", out.String())
	assert.Equal(t, 2, st.Emitted)
}

func TestRun_WriteError(t *testing.T) {
	src := &scripted{vals: []int64{4}}
	_, err := New(nil, Config{}).Run(context.Background(), src, failWriter{})
	require.Error(t, err)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeIO))
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	st, err := New(nil, Config{}).Run(ctx, &scripted{vals: []int64{4}}, &out)
	require.Error(t, err)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeCanceled))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, st.Read)
	assert.Empty(t, out.String())
}

// countingFinder records calls to prove the runner delegates to its Finder
type countingFinder struct {
	calls chan int64
}

func (c countingFinder) FindPair(n int64) (factor.Pair, bool) {
	c.calls <- n
	return factor.Pair{N: n, A: 1, B: n}, true
}

func TestRun_UsesInjectedFinder(t *testing.T) {
	f := countingFinder{calls: make(chan int64, 3)}
	var out bytes.Buffer
	_, err := New(f, Config{Workers: 3}).Run(context.Background(), &scripted{vals: []int64{5, 6, 7}}, &out)
	require.NoError(t, err)
	assert.Len(t, f.calls, 3)
	assert.Equal(t, "5=1*5\n6=1*6\n7=1*7\n", out.String())
}
