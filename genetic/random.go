package genetic

import (
	"math/rand/v2"
	"sync"
)

// RandomSource is the injected uniform generator every policy draws from
// *rand.Rand from math/rand/v2 satisfies it
type RandomSource interface {
	// IntN returns a value in [0, n), panics if n <= 0
	IntN(n int) int
	// Float64 returns a value in [0, 1)
	Float64() float64
}

// NewSource creates a PCG-backed generator
// seed 0 draws a random seed, any other value is reproducible
func NewSource(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// LockedSource serializes draws so one source can be shared by concurrent runs
// Sharing keeps each draw atomic but interleaving across runs is not reproducible
type LockedSource struct {
	mu  sync.Mutex
	src RandomSource
}

// NewLockedSource wraps src
func NewLockedSource(src RandomSource) *LockedSource {
	return &LockedSource{src: src}
}

func (s *LockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.IntN(n)
}

func (s *LockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Float64()
}
