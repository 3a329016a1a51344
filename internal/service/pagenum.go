package service

import (
	"context"
	"fmt"

	"dendrite/internal/config"
	"dendrite/internal/domain"
	"dendrite/internal/domain/repositories"
)

// allocatePageNumber picks a free page number by rejection sampling over an
// exponentially growing range: attempt i draws uniformly from [1, 2^(i+1)].
// Early attempts keep numbers short while the corpus is small; later ones
// escape dense regions. The returned number is only reserved once the page
// row commits, so callers must treat a duplicate-number conflict as a lost
// race and retry.
func allocatePageNumber(ctx context.Context, pages repositories.PageRepository, rand RandomSource) (int, error) {
	for attempt := 0; attempt < config.MaxPageNumberAttempts; attempt++ {
		shift := uint(attempt + 1)
		if shift > 62 {
			shift = 62
		}
		upper := int64(1) << shift

		candidate := int(float64(upper)*rand.Float64()) + 1

		exists, err := pages.NumberExists(ctx, candidate)
		if err != nil {
			return 0, fmt.Errorf("probe page number %d: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
	}

	return 0, fmt.Errorf("allocate page number: %w", domain.ErrExhausted)
}
