// Package domain defines the core types and interfaces for the factorize service
package domain

// Stats summarizes one run
type Stats struct {
	Read      int // integers successfully parsed
	Emitted   int // factor lines written
	NoFactor  int // integers with no pair (primes, < 2)
	Malformed int // tokens skipped as parse errors
}
