package recommend

import (
	"math/rand"
	"sync"
	"time"
)

// rngSampler wraps a single PRNG behind a mutex; rand.Rand itself is
// not safe for concurrent callers.
type rngSampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler returns a time-seeded uniform sampler safe for concurrent
// use. Picks are not reproducible across runs.
func NewSampler() Sampler {
	return &rngSampler{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *rngSampler) Pick(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}
