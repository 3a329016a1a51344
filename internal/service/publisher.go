package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dendrite/internal/config"
	"dendrite/internal/domain"
	"dendrite/internal/domain/models"
	"dendrite/internal/domain/repositories"
	"dendrite/internal/domain/services"
	"dendrite/internal/objectstore"
	"dendrite/internal/render"
)

// publisherService implements the Publisher interface
type publisherService struct {
	storyRepo   repositories.StoryRepository
	pageRepo    repositories.PageRepository
	variantRepo repositories.VariantRepository
	optionRepo  repositories.OptionRepository
	store       objectstore.Store
	invalidator objectstore.Invalidator
	site        *render.Site
	logger      *slog.Logger
}

// NewPublisher creates a new publisher. The invalidator is optional; nil
// skips CDN invalidation.
func NewPublisher(
	storyRepo repositories.StoryRepository,
	pageRepo repositories.PageRepository,
	variantRepo repositories.VariantRepository,
	optionRepo repositories.OptionRepository,
	store objectstore.Store,
	invalidator objectstore.Invalidator,
	site *render.Site,
	logger *slog.Logger,
) services.Publisher {
	return &publisherService{
		storyRepo:   storyRepo,
		pageRepo:    pageRepo,
		variantRepo: variantRepo,
		optionRepo:  optionRepo,
		store:       store,
		invalidator: invalidator,
		site:        site,
		logger:      logger,
	}
}

// PublishPage reconciles the page's artifacts with its current variant set,
// then refreshes the parent page whose option links point here. The parent
// refresh goes one level up only; link freshness does not require walking
// the whole ancestry.
func (p *publisherService) PublishPage(ctx context.Context, pageID string) error {
	page, err := p.pageRepo.GetByID(ctx, pageID)
	if err != nil {
		return fmt.Errorf("publish page %s: %w", pageID, err)
	}

	paths, err := p.renderPage(ctx, page)
	if err != nil {
		return fmt.Errorf("publish page %d: %w", page.Number, err)
	}

	if page.IncomingOptionID != nil {
		parentPaths, err := p.renderParent(ctx, *page.IncomingOptionID)
		if err != nil {
			p.logger.Error("parent refresh failed",
				"page_number", page.Number, "error", err)
		} else {
			paths = append(paths, parentPaths...)
		}
	}

	p.invalidate(ctx, paths)
	return nil
}

// renderPage writes artifacts for every visible variant, removes artifacts
// of invisible ones and rebuilds the alternatives fragment. Returns the
// touched object paths.
func (p *publisherService) renderPage(ctx context.Context, page *models.Page) ([]string, error) {
	storyTitle := ""
	if page.StoryID != "" {
		story, err := p.storyRepo.GetByID(ctx, page.StoryID)
		if err == nil {
			storyTitle = story.Title
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	variants, err := p.variantRepo.ListByPage(ctx, page.ID)
	if err != nil {
		return nil, err
	}

	var paths []string
	var visible []render.VariantRef
	for i := range variants {
		v := &variants[i]
		key := render.VariantArtifactPath(page.Number, v.Name)

		if v.Visibility < config.VisibilityThreshold {
			if err := p.store.Delete(ctx, key); err != nil {
				return nil, err
			}
			paths = append(paths, "/"+key)
			continue
		}

		view, err := p.buildView(ctx, storyTitle, page, v)
		if err != nil {
			return nil, err
		}
		if err := p.store.Write(ctx, key, []byte(p.site.BuildPage(*view)), "text/html"); err != nil {
			return nil, err
		}
		paths = append(paths, "/"+key)
		visible = append(visible, render.VariantRef{
			Name:    v.Name,
			Content: v.Content,
			Weight:  v.Visibility,
		})
	}

	altsKey := render.AlternativesArtifactPath(page.Number)
	if err := p.store.Write(ctx, altsKey, []byte(p.site.BuildAlternatives(page.Number, visible)), "text/html"); err != nil {
		return nil, err
	}
	paths = append(paths, "/"+altsKey)

	p.logger.Info("page published",
		"page_number", page.Number,
		"visible_variants", len(visible),
		"total_variants", len(variants),
	)
	return paths, nil
}

// renderParent re-renders the page owning the given option so its links
// pick up the current target variants.
func (p *publisherService) renderParent(ctx context.Context, optionID string) ([]string, error) {
	option, err := p.optionRepo.GetByID(ctx, optionID)
	if err != nil {
		return nil, err
	}
	variant, err := p.variantRepo.GetByID(ctx, option.VariantID)
	if err != nil {
		return nil, err
	}
	parent, err := p.pageRepo.GetByID(ctx, variant.PageID)
	if err != nil {
		return nil, err
	}
	return p.renderPage(ctx, parent)
}

// buildView assembles the render-ready projection of one variant.
func (p *publisherService) buildView(ctx context.Context, storyTitle string, page *models.Page, variant *models.Variant) (*render.PageView, error) {
	options, err := p.optionRepo.ListByVariant(ctx, variant.ID)
	if err != nil {
		return nil, err
	}

	views := make([]render.OptionView, 0, len(options))
	for _, opt := range options {
		view := render.OptionView{
			Content:  opt.Content,
			Position: opt.Position,
		}
		if opt.TargetPageID != nil {
			target, err := p.pageRepo.GetByID(ctx, *opt.TargetPageID)
			if err != nil {
				return nil, err
			}
			targetVariants, err := p.variantRepo.ListByPage(ctx, target.ID)
			if err != nil {
				return nil, err
			}
			view.TargetPageNumber = &target.Number
			for _, tv := range targetVariants {
				if tv.Visibility < config.VisibilityThreshold {
					continue
				}
				view.TargetVariants = append(view.TargetVariants, render.VariantRef{
					Name:    tv.Name,
					Content: tv.Content,
					Weight:  tv.Visibility,
				})
			}
		}
		views = append(views, view)
	}

	return &render.PageView{
		StoryTitle:  storyTitle,
		PageNumber:  page.Number,
		VariantName: variant.Name,
		Content:     variant.Content,
		Author:      variant.AuthorName,
		Options:     views,
	}, nil
}

// invalidate fires CDN invalidation for the touched paths. Failures are
// logged and skipped; the store already holds the fresh bytes.
func (p *publisherService) invalidate(ctx context.Context, paths []string) {
	if p.invalidator == nil || len(paths) == 0 {
		return
	}
	if err := p.invalidator.InvalidatePaths(ctx, paths); err != nil {
		p.logger.Error("cdn invalidation failed", "paths", len(paths), "error", err)
	}
}
