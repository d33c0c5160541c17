// Package factor finds one multiplicative factor pair of a 64-bit integer by
// trial division
package factor

import "strconv"

// Pair is a factorization N = A * B where A is the smallest divisor >= 2
type Pair struct {
	N int64
	A int64
	B int64
}

// String renders the pair as "N=A*B"
func (p Pair) String() string { return p.Format(false) }

// Format renders "N=A*B", or "N=B*A" when largerFirst is set
func (p Pair) Format(largerFirst bool) string {
	a, b := p.A, p.B
	if largerFirst {
		a, b = b, a
	}
	buf := make([]byte, 0, 64)
	buf = strconv.AppendInt(buf, p.N, 10)
	buf = append(buf, '=')
	buf = strconv.AppendInt(buf, a, 10)
	buf = append(buf, '*')
	buf = strconv.AppendInt(buf, b, 10)
	return string(buf)
}

// Finder computes one factor pair for n; ok is false when none exists
type Finder interface {
	FindPair(n int64) (p Pair, ok bool)
}

// TrialDivision scans candidate divisors 2..n/2 in ascending order.
// It holds no state and is safe for concurrent use
type TrialDivision struct{}

// FindPair returns (i, n/i) for the first i in [2, n/2] dividing n.
// n < 2 and primes yield ok == false
func (TrialDivision) FindPair(n int64) (Pair, bool) {
	if n < 2 {
		return Pair{}, false
	}
	// bound is n/2 rather than sqrt(n); half <= MaxInt64/2 so i cannot overflow
	half := n / 2
	for i := int64(2); i <= half; i++ {
		if n%i == 0 {
			return Pair{N: n, A: i, B: n / i}, true
		}
	}
	return Pair{}, false
}

var std Finder = TrialDivision{}

// FindPair is the package-level shortcut for TrialDivision.FindPair
func FindPair(n int64) (Pair, bool) { return std.FindPair(n) }
