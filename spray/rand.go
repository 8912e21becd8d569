package spray

import "math/rand/v2"

// Rand is a uniform random source returning values in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
}

// NewRand returns a seeded pseudo random source.
func NewRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// uniform draws a value in [lo, hi].
func uniform(r Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}
