// Package rng provides the random draws used by the simulation.
package rng

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Source is a seedable random source safe for concurrent use.
type Source struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New creates a Source. A zero seed picks one from the wall clock.
func New(seed int64) *Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Source{r: rand.New(rand.NewSource(seed))}
}

// Float64 returns a uniform value in [0,1).
func (s *Source) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// Intn returns a uniform int in [0,n). n must be positive.
func (s *Source) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Intn(n)
}

// Between returns a uniform value in [lo,hi).
func (s *Source) Between(lo, hi float64) float64 {
	return lo + s.Float64()*(hi-lo)
}

// IntBetween returns a uniform int in [lo,hi] inclusive.
func (s *Source) IntBetween(lo, hi int) int {
	return lo + s.Intn(hi-lo+1)
}

// Normal draws a standard normal value using the Box-Muller transform.
func (s *Source) Normal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, v := 0.0, 0.0
	for u == 0 {
		u = s.r.Float64()
	}
	for v == 0 {
		v = s.r.Float64()
	}
	return math.Sqrt(-2.0*math.Log(u)) * math.Cos(2.0*math.Pi*v)
}
