package service

import (
	"context"
	"fmt"
	"log/slog"

	"dendrite/internal/config"
	"dendrite/internal/domain"
	"dendrite/internal/domain/repositories"
	"dendrite/internal/domain/services"
	"dendrite/internal/redirect"
)

// readerService implements the ReaderService interface
type readerService struct {
	pageRepo    repositories.PageRepository
	variantRepo repositories.VariantRepository
	rand        RandomSource
	logger      *slog.Logger
}

// NewReaderService creates a new reader service
func NewReaderService(
	pageRepo repositories.PageRepository,
	variantRepo repositories.VariantRepository,
	rand RandomSource,
	logger *slog.Logger,
) services.ReaderService {
	return &readerService{
		pageRepo:    pageRepo,
		variantRepo: variantRepo,
		rand:        rand,
		logger:      logger,
	}
}

// ResolveVariant samples one visible variant of the page, weighted by
// visibility, and returns its artifact path.
func (s *readerService) ResolveVariant(ctx context.Context, pageNumber int) (string, error) {
	page, err := s.pageRepo.GetByNumber(ctx, pageNumber)
	if err != nil {
		return "", err
	}

	variants, err := s.variantRepo.ListByPage(ctx, page.ID)
	if err != nil {
		return "", err
	}

	var pool []redirect.Variant
	for _, v := range variants {
		if v.Visibility < config.VisibilityThreshold {
			continue
		}
		pool = append(pool, redirect.Variant{
			Slug:   v.Slug(page.Number),
			Weight: v.Visibility,
		})
	}

	slug, ok := redirect.Choose(pool, s.rand.Float64())
	if !ok {
		return "", fmt.Errorf("page %d has no visible variant: %w", pageNumber, domain.ErrNotFound)
	}

	return "/p/" + slug + ".html", nil
}
