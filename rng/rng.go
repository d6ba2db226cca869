// Package rng provides the seeded random context consumed by the evocpu
// virtual CPU. Every random draw of the mutation engine goes through a
// Source so that a run is reproducible from its seed.
package rng

import (
	"math"
	"math/rand/v2"
)

// Source is the random context interface.
type Source interface {
	Float64() float64              // Uniform in [0, 1).
	IntN(n int) int                // Uniform in [0, n).
	P(p float64) bool              // Bernoulli trial.
	NormFloat64() float64          // Standard normal deviate.
	Binomial(n int, p float64) int // Successes in n trials.
}

// Random is a PCG backed Source.
type Random struct {
	rand *rand.Rand
}

// New creates a Random from a seed.
func New(seed uint64) *Random {
	return &Random{
		rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Float64 returns a uniform deviate in [0, 1).
func (r *Random) Float64() float64 {
	return r.rand.Float64()
}

// IntN returns a uniform integer in [0, n). It returns 0 for n <= 0.
func (r *Random) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return r.rand.IntN(n)
}

// P returns true with probability p.
func (r *Random) P(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.rand.Float64() < p
}

// NormFloat64 returns a standard normal deviate.
func (r *Random) NormFloat64() float64 {
	return r.rand.NormFloat64()
}

// Binomial returns the number of successes in n trials of probability p.
// Large expectations use a clamped normal approximation.
func (r *Random) Binomial(n int, p float64) (count int) {
	if n <= 0 || p <= 0 {
		return
	}
	if p >= 1 {
		return n
	}

	mean := float64(n) * p
	if n < 64 || mean < 16 || float64(n)-mean < 16 {
		for range n {
			if r.rand.Float64() < p {
				count++
			}
		}
		return
	}

	sigma := math.Sqrt(mean * (1 - p))
	count = int(math.Round(mean + sigma*r.rand.NormFloat64()))
	count = min(max(count, 0), n)
	return
}
