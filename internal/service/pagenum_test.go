package service

import (
	"context"
	"errors"
	"testing"

	"dendrite/internal/domain"
	"dendrite/internal/domain/models"
)

func TestAllocatePageNumber(t *testing.T) {
	t.Run("empty corpus takes first candidate", func(t *testing.T) {
		store := newFakeStore()
		rand := &seqSource{draws: []float64{0.0}}

		number, err := allocatePageNumber(context.Background(), &fakePageRepo{s: store}, rand)
		if err != nil {
			t.Fatalf("allocatePageNumber() error = %v", err)
		}
		if number != 1 {
			t.Errorf("allocatePageNumber() = %d, want 1", number)
		}
	})

	t.Run("occupied candidate widens the range", func(t *testing.T) {
		store := newFakeStore()
		store.pages["p1"] = &models.Page{ID: "p1", Number: 1}
		// First draw lands on the taken number 1 from [1,2]; the second
		// samples [1,4] and picks 3.
		rand := &seqSource{draws: []float64{0.0, 0.6}}

		number, err := allocatePageNumber(context.Background(), &fakePageRepo{s: store}, rand)
		if err != nil {
			t.Fatalf("allocatePageNumber() error = %v", err)
		}
		if number != 3 {
			t.Errorf("allocatePageNumber() = %d, want 3", number)
		}
	})

	t.Run("range doubles per attempt", func(t *testing.T) {
		store := newFakeStore()
		for i, n := range []int{1, 2, 3, 4} {
			store.pages[string(rune('a'+i))] = &models.Page{ID: string(rune('a' + i)), Number: n}
		}
		// Draw 0.4: candidates 1 (of 2), 2 (of 4), 4 (of 8), 7 (of 16).
		rand := &seqSource{draws: []float64{0.4}}

		number, err := allocatePageNumber(context.Background(), &fakePageRepo{s: store}, rand)
		if err != nil {
			t.Fatalf("allocatePageNumber() error = %v", err)
		}
		if number != 7 {
			t.Errorf("allocatePageNumber() = %d, want 7", number)
		}
	})

	t.Run("exhaustion after bounded attempts", func(t *testing.T) {
		probes := 0
		repo := allTakenPageRepo{probes: &probes}

		_, err := allocatePageNumber(context.Background(), repo, &seqSource{draws: []float64{0.0}})
		if !errors.Is(err, domain.ErrExhausted) {
			t.Fatalf("allocatePageNumber() error = %v, want ErrExhausted", err)
		}
		if probes != 64 {
			t.Errorf("probes = %d, want 64", probes)
		}
	})
}

// allTakenPageRepo reports every number as taken.
type allTakenPageRepo struct {
	probes *int
}

func (allTakenPageRepo) Create(context.Context, *models.Page) error { return nil }
func (allTakenPageRepo) GetByID(context.Context, string) (*models.Page, error) {
	return nil, domain.ErrNotFound
}
func (allTakenPageRepo) GetByNumber(context.Context, int) (*models.Page, error) {
	return nil, domain.ErrNotFound
}
func (r allTakenPageRepo) NumberExists(context.Context, int) (bool, error) {
	*r.probes++
	return true, nil
}
