// Package selector implements deterministic proportional choice over
// weighted labels. It backs both moderation candidate sampling and the
// reader-facing variant redirect.
package selector

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
)

// Pair is one weighted label.
type Pair struct {
	Label  string
	Weight float64
}

// Select picks a label proportional to its weight given a uniform draw in
// [0, 1). Non-finite and non-positive weights are ignored. Returns ok=false
// only when no valid weight exists; floating-point rounding that lets the
// threshold survive every subtraction falls back to the last valid label.
//
// The draw is taken as an argument so the function stays pure; production
// call sites pass Draw().
func Select(pairs []Pair, draw float64) (string, bool) {
	var total float64
	for _, p := range pairs {
		if !validWeight(p.Weight) {
			continue
		}
		total += p.Weight
	}
	if total <= 0 {
		return "", false
	}

	threshold := draw * total
	last := ""
	for _, p := range pairs {
		if !validWeight(p.Weight) {
			continue
		}
		last = p.Label
		threshold -= p.Weight
		if threshold <= 0 {
			return p.Label, true
		}
	}

	return last, true
}

func validWeight(w float64) bool {
	return !math.IsNaN(w) && !math.IsInf(w, 0) && w > 0
}

// Draw returns a cryptographically strong uniform value in [0, 1).
func Draw() (float64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("read random bytes: %w", err)
	}
	// 53 bits of mantissa, same construction as math/rand's Float64
	u := binary.BigEndian.Uint64(buf[:]) >> 11
	return float64(u) / (1 << 53), nil
}
