package cards

import (
	"math/rand"
	"time"
)

// Sampler draws random subsets from identifier lists.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler returns a Sampler backed by the given source. A nil source
// seeds from the clock; tests pass a fixed seed for reproducible draws.
func NewSampler(src rand.Source) *Sampler {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Sampler{rng: rand.New(src)}
}

// Sample returns count identifiers drawn uniformly without replacement.
// When count covers the whole list the input is returned as-is in its
// original order. The caller's slice is never mutated.
func (s *Sampler) Sample(ids []int64, count int) []int64 {
	if count <= 0 {
		return nil
	}
	if count >= len(ids) {
		return ids
	}
	shuffled := make([]int64, len(ids))
	copy(shuffled, ids)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:count]
}
