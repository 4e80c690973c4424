// Package entropy provides the random source shared by the stochastic subsystems
// (leaks, arrivals, bookings, weather, applicants).
// Seeded sources make a session reproducible; crypto/rand picks a seed when none is given.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
	"sync"
)

// Source is the minimal random interface the simulation consumes.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// Seeded is a deterministic source. Safe for concurrent use so the host can
// share it with background collaborators.
type Seeded struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeeded creates a deterministic source. A zero seed selects a random one.
func NewSeeded(seed int64) *Seeded {
	if seed == 0 {
		seed = int64(cryptoRandFloat() * float64(1<<62))
	}
	return &Seeded{rng: mrand.New(mrand.NewSource(seed))}
}

// Float64 returns a float in [0, 1).
func (s *Seeded) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// Intn returns an int in [0, n). n <= 0 returns 0.
func (s *Seeded) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// Derive returns a child seed for a named subsystem, so adding draws to one
// subsystem does not shift another's sequence.
func Derive(seed int64, label string) int64 {
	h := uint64(seed) ^ 0xcbf29ce484222325
	for i := 0; i < len(label); i++ {
		h ^= uint64(label[i])
		h *= 0x100000001b3
	}
	if h == 0 {
		h = 1
	}
	return int64(h >> 1)
}

// cryptoRandFloat generates a random float64 using crypto/rand.
func cryptoRandFloat() float64 {
	var buf [8]byte
	_, err := rand.Read(buf[:])
	if err != nil {
		return 0.5
	}
	// Use only 53 bits for a uniform float64 in [0, 1).
	n := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(n) / float64(1<<53)
}

// Between returns a float in [lo, hi).
func Between(src Source, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + src.Float64()*(hi-lo)
}

// Chance returns true with probability p.
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Float64() < p
}
