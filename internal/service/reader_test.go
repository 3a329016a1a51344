package service

import (
	"context"
	"errors"
	"testing"

	"dendrite/internal/domain"
	"dendrite/internal/domain/models"
)

func newTestReader(store *fakeStore, rand RandomSource) *readerService {
	return &readerService{
		pageRepo:    &fakePageRepo{s: store},
		variantRepo: &fakeVariantRepo{s: store},
		rand:        rand,
		logger:      testLogger(),
	}
}

func TestResolveVariant(t *testing.T) {
	store := newFakeStore()
	store.pages["p12"] = &models.Page{ID: "p12", Number: 12}
	store.variants["v12a"] = &models.Variant{ID: "v12a", PageID: "p12", Name: "a", Visibility: 1}
	store.variants["v12b"] = &models.Variant{ID: "v12b", PageID: "p12", Name: "b", Visibility: 3}
	store.variants["v12c"] = &models.Variant{ID: "v12c", PageID: "p12", Name: "c", Visibility: 0.2}

	tests := []struct {
		name string
		draw float64
		want string
	}{
		{"low draw", 0.1, "/p/12a.html"},
		{"high draw", 0.9, "/p/12b.html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestReader(store, &seqSource{draws: []float64{tt.draw}})
			got, err := svc.ResolveVariant(context.Background(), 12)
			if err != nil {
				t.Fatalf("ResolveVariant() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveVariant() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveVariantNotFound(t *testing.T) {
	store := newFakeStore()
	store.pages["p12"] = &models.Page{ID: "p12", Number: 12}
	store.variants["v12a"] = &models.Variant{ID: "v12a", PageID: "p12", Name: "a", Visibility: 0.1}

	svc := newTestReader(store, &seqSource{draws: []float64{0.5}})

	if _, err := svc.ResolveVariant(context.Background(), 99); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown page error = %v, want ErrNotFound", err)
	}
	if _, err := svc.ResolveVariant(context.Background(), 12); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("hidden-only page error = %v, want ErrNotFound", err)
	}
}
