// Package rng wraps math/rand/v2's PCG source so that RNG state can travel
// inside a State value and round-trip through the snapshot contract
// bit-exactly (§9: "RNG state is part of the value-level state").
package rng

import "math/rand/v2"

// Source is a seedable PCG64 generator with an explicit step counter. The
// engine's only draw is a single six-sided die, so every step consumes the
// generator identically (one rand.IntN(6) call); that uniformity is what
// lets FromState fast-forward a restored generator to the exact same point
// a snapshot recorded, without PCG64 exposing its internal state directly.
type Source struct {
	seed1, seed2 uint64
	steps        uint64
	r            *rand.Rand
}

// New creates a Source seeded from two 64-bit words (PCG64's native seed
// shape).
func New(seed1, seed2 uint64) *Source {
	return &Source{
		seed1: seed1,
		seed2: seed2,
		r:     rand.New(rand.NewPCG(seed1, seed2)),
	}
}

// FromState reconstructs a Source at the exact point `steps` dice draws
// into the stream started by (seed1, seed2).
func FromState(seed1, seed2, steps uint64) *Source {
	s := New(seed1, seed2)
	for i := uint64(0); i < steps; i++ {
		s.r.IntN(6)
	}
	s.steps = steps
	return s
}

// Seeds returns the two seed words, for snapshotting.
func (s *Source) Seeds() (uint64, uint64) { return s.seed1, s.seed2 }

// Steps returns the number of dice drawn since the seed.
func (s *Source) Steps() uint64 { return s.steps }

// RollDie draws a single die in [1,6].
func (s *Source) RollDie() int {
	s.steps++
	return s.r.IntN(6) + 1
}

// Clone returns an independent copy sharing no mutable state with s.
func (s *Source) Clone() *Source {
	return FromState(s.seed1, s.seed2, s.steps)
}
