package service

import "dendrite/internal/selector"

// RandomSource supplies the uniform draws the graph and moderation services
// consume: page-number candidates, variant sampling cursors, assignment
// pivots. Injected so tests can pin the sequence.
type RandomSource interface {
	// Float64 returns a uniform draw in [0, 1).
	Float64() float64
}

type cryptoSource struct{}

// NewRandomSource returns the production source backed by crypto/rand.
func NewRandomSource() RandomSource {
	return cryptoSource{}
}

func (cryptoSource) Float64() float64 {
	v, err := selector.Draw()
	if err != nil {
		// crypto/rand does not fail on supported platforms; the midpoint
		// keeps a request alive if it somehow does.
		return 0.5
	}
	return v
}
