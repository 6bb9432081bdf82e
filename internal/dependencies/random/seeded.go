package random

import (
	mrand "math/rand/v2"
	"sync"
)

// Seeded is a reproducible Random. The same seed always yields the same
// sequence, which makes generated card sets repeatable for tests and for
// offline generation with a fixed seed.
type Seeded struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeeded creates a Seeded source from seed
func NewSeeded(seed uint64) *Seeded {
	return &Seeded{rng: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Intn returns a pseudo-random int in [0, n)
func (s *Seeded) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// String generates a pseudo-random string of the given length from the given alphabet
func (s *Seeded) String(length int, alphabet string) string {
	return randomString(s, length, alphabet)
}
