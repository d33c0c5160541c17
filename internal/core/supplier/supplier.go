// Package supplier turns a text stream into a lazy sequence of int64 values.
//
// Two tokenizations are supported. ModeLine reads the first whitespace
// delimited token of every line and ignores the rest of the line. ModeScan
// reads every whitespace delimited token in the stream, however the tokens
// are spread over lines.
//
// Malformed tokens surface as recoverable parse errors (perr.ErrorCodeParse);
// the next call to Next continues after the bad token. Read failures are
// sticky perr.ErrorCodeIO errors and the end of input is a sticky io.EOF.
package supplier

import (
	"bufio"
	stderrs "errors"
	"io"
	"strconv"
	"strings"

	perr "factors/internal/platform/errors"
)

// Mode selects how input is tokenized
type Mode string

const (
	// ModeLine takes the first token of each line
	ModeLine Mode = "line"
	// ModeScan takes every token in the stream
	ModeScan Mode = "scan"
)

// ParseMode maps a flag value onto a Mode
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeLine:
		return ModeLine, nil
	case ModeScan:
		return ModeScan, nil
	default:
		return "", perr.Usagef("unknown mode %q (want line or scan)", s)
	}
}

// DefaultMaxToken caps one line in ModeLine and one token in ModeScan
const DefaultMaxToken = 1 << 20

// Option configures a Supplier
type Option func(*Supplier)

// WithMode sets the tokenization mode (default ModeLine)
func WithMode(m Mode) Option { return func(s *Supplier) { s.mode = m } }

// WithMaxToken overrides the buffer cap
func WithMaxToken(n int) Option {
	return func(s *Supplier) {
		if n > 0 {
			s.maxToken = n
		}
	}
}

// Supplier yields integers from an io.Reader. It is not safe for concurrent use
// and cannot be restarted
type Supplier struct {
	sc       *bufio.Scanner
	mode     Mode
	maxToken int

	line int   // 1-based line of the most recent token
	err  error // sticky io.EOF or read failure
}

// New wraps r. The caller keeps ownership of r and closes it
func New(r io.Reader, opts ...Option) *Supplier {
	s := &Supplier{mode: ModeLine, maxToken: DefaultMaxToken}
	for _, o := range opts {
		o(s)
	}
	initial := 4096
	if s.maxToken < initial {
		initial = s.maxToken
	}
	s.sc = bufio.NewScanner(r)
	s.sc.Buffer(make([]byte, 0, initial), s.maxToken)
	if s.mode == ModeScan {
		s.line = 1
		s.sc.Split(s.scanWords)
	}
	return s
}

// Mode reports the tokenization mode in use
func (s *Supplier) Mode() Mode { return s.mode }

// Line reports the 1-based line number of the most recent token
func (s *Supplier) Line() int { return s.line }

// Next returns the next integer, io.EOF at the end of input, a parse error for
// a malformed token, or an I/O error
func (s *Supplier) Next() (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	if !s.sc.Scan() {
		s.err = s.scanErr()
		return 0, s.err
	}
	if s.mode == ModeScan {
		return s.parse(s.sc.Text())
	}

	s.line++
	fields := strings.Fields(s.sc.Text())
	if len(fields) == 0 {
		return 0, s.parseErr(perr.Parsef("line %d: missing number", s.line))
	}
	return s.parse(fields[0])
}

func (s *Supplier) scanErr() error {
	err := s.sc.Err()
	switch {
	case err == nil:
		return io.EOF
	case stderrs.Is(err, bufio.ErrTooLong) && s.mode == ModeScan:
		return perr.IOf(err, "token on line %d exceeds %d bytes", s.line, s.maxToken)
	case stderrs.Is(err, bufio.ErrTooLong):
		return perr.IOf(err, "line %d exceeds %d bytes", s.line+1, s.maxToken)
	default:
		return perr.IOf(err, "read input")
	}
}

func (s *Supplier) parse(tok string) (int64, error) {
	norm, ok := normalizeToken(tok)
	if !ok {
		return 0, s.parseErr(perr.Parsef("line %d: invalid UTF-8 in %q", s.line, tok))
	}
	n, err := strconv.ParseInt(norm, 10, 64)
	if err == nil {
		return n, nil
	}
	var ne *strconv.NumError
	if stderrs.As(err, &ne) && stderrs.Is(ne.Err, strconv.ErrRange) {
		return 0, s.parseErr(perr.Wrapf(ne.Err, perr.ErrorCodeParse, "line %d: %q out of int64 range", s.line, tok))
	}
	return 0, s.parseErr(perr.Wrapf(strconv.ErrSyntax, perr.ErrorCodeParse, "line %d: malformed number %q", s.line, tok))
}

func (s *Supplier) parseErr(err error) error {
	return perr.WithOp(perr.WithField(err, "line"), "supplier.next")
}
