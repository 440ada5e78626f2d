// Package rng provides the uniform random capability consumed by every
// stochastic operator. Operators draw through Source so tests can replay an
// exact sequence of draws.
package rng

import "math/rand"

// Source yields uniform samples in [0,1).
type Source interface {
	Float64() float64
}

// New returns a seeded math/rand generator.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Intn picks an index in [0,n) from a single draw. n must be > 0.
func Intn(src Source, n int) int {
	idx := int(src.Float64() * float64(n))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// Range maps a single draw onto [lo,hi).
func Range(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Sequence replays a fixed list of draws, wrapping around when exhausted.
type Sequence struct {
	values []float64
	next   int
	drawn  int
}

// NewSequence replays values in order. An empty sequence always yields 0.
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: append([]float64(nil), values...)}
}

// Float64 returns the next scripted value.
func (s *Sequence) Float64() float64 {
	if len(s.values) == 0 {
		s.drawn++
		return 0
	}
	v := s.values[s.next]
	s.next = (s.next + 1) % len(s.values)
	s.drawn++
	return v
}

// Drawn reports how many samples have been consumed.
func (s *Sequence) Drawn() int {
	return s.drawn
}

// Recorder wraps a Source and keeps every value it hands out.
type Recorder struct {
	Source Source
	Values []float64
}

// Float64 draws from the wrapped source and records the value.
func (r *Recorder) Float64() float64 {
	v := r.Source.Float64()
	r.Values = append(r.Values, v)
	return v
}
