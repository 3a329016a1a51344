package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"

	"dendrite/internal/domain"
	"dendrite/internal/domain/models"
	"dendrite/internal/domain/repositories"
	"dendrite/internal/domain/services"
)

var variantSlugPattern = regexp.MustCompile(`^[0-9]+[a-z]+$`)

// moderationService implements the ModerationService interface
type moderationService struct {
	modRepo     repositories.ModerationRepository
	variantRepo repositories.VariantRepository
	pageRepo    repositories.PageRepository
	txManager   repositories.TransactionManager
	publisher   services.Publisher
	rand        RandomSource
	logger      *slog.Logger
}

// NewModerationService creates a new moderation service
func NewModerationService(
	modRepo repositories.ModerationRepository,
	variantRepo repositories.VariantRepository,
	pageRepo repositories.PageRepository,
	txManager repositories.TransactionManager,
	publisher services.Publisher,
	rand RandomSource,
	logger *slog.Logger,
) services.ModerationService {
	return &moderationService{
		modRepo:     modRepo,
		variantRepo: variantRepo,
		pageRepo:    pageRepo,
		txManager:   txManager,
		publisher:   publisher,
		rand:        rand,
		logger:      logger,
	}
}

// NextJob returns the moderator's open job, assigning one when none is open.
// Assignment samples the variant pool at a random pivot on the stored random
// cursor, preferring variants nobody has rated yet: zero-rated at or above
// the pivot, zero-rated below it, then any variant on either side. The
// wrap-around makes every variant reachable from any pivot.
func (s *moderationService) NextJob(ctx context.Context, moderatorID string) (*models.ModerationJob, error) {
	mod, err := s.modRepo.GetModerator(ctx, moderatorID)
	if err != nil {
		return nil, err
	}

	if mod.AssignedVariantID != nil {
		return s.buildJob(ctx, *mod.AssignedVariantID)
	}

	pivot := s.rand.Float64()
	steps := []struct {
		zeroRatedOnly bool
		geq           bool
	}{
		{true, true},
		{true, false},
		{false, true},
		{false, false},
	}

	for _, step := range steps {
		variant, err := s.variantRepo.FindCandidate(ctx, step.zeroRatedOnly, step.geq, pivot)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		if err := s.modRepo.SetAssignment(ctx, moderatorID, &variant.ID); err != nil {
			return nil, err
		}
		s.logger.Info("moderation job assigned",
			"moderator_id", moderatorID,
			"variant_id", variant.ID,
		)
		return s.buildJob(ctx, variant.ID)
	}

	return nil, fmt.Errorf("no variants awaiting moderation: %w", domain.ErrNotFound)
}

// SubmitRating folds the verdict into the variant's cached aggregates and
// clears the assignment. The variant row is locked for the transaction so
// two concurrent verdicts on the same variant serialize instead of losing
// an update.
func (s *moderationService) SubmitRating(ctx context.Context, moderatorID string, isApproved bool) error {
	mod, err := s.modRepo.GetModerator(ctx, moderatorID)
	if err != nil {
		return err
	}
	if mod.AssignedVariantID == nil {
		return fmt.Errorf("moderator %s has no open job: %w", moderatorID, domain.ErrNotFound)
	}
	variantID := *mod.AssignedVariantID

	var pageID string
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		variant, err := s.variantRepo.GetByIDForUpdate(txCtx, variantID)
		if err != nil {
			return err
		}
		pageID = variant.PageID

		rating := &models.ModerationRating{
			ID:          uuid.New().String(),
			ModeratorID: moderatorID,
			VariantID:   variantID,
			IsApproved:  isApproved,
			RatedAt:     time.Now(),
		}
		if err := s.modRepo.CreateRating(txCtx, rating); err != nil {
			return err
		}

		// Reputation-weighted running mean. Every moderator carries unit
		// reputation, so the weight sum tracks the rating count; both are
		// kept so the weighting can diverge later without a backfill.
		verdict := 0.0
		if isApproved {
			verdict = 1.0
		}
		newVisibility := (variant.Visibility*variant.ModeratorReputationSum + verdict) /
			float64(variant.ModerationRatingCount+1)

		if err := s.variantRepo.UpdateAggregates(txCtx, variantID, newVisibility,
			variant.ModerationRatingCount+1, variant.ModeratorReputationSum+1); err != nil {
			return err
		}

		return s.modRepo.SetAssignment(txCtx, moderatorID, nil)
	})
	if err != nil {
		return fmt.Errorf("submit rating: %w", err)
	}

	s.logger.Info("moderation rating recorded",
		"moderator_id", moderatorID,
		"variant_id", variantID,
		"approved", isApproved,
	)

	if err := s.publisher.PublishPage(ctx, pageID); err != nil {
		s.logger.Error("publish after rating failed",
			"variant_id", variantID, "page_id", pageID, "error", err)
	}
	return nil
}

// Report records an anonymous reader report against a variant slug.
func (s *moderationService) Report(ctx context.Context, variantSlug string) error {
	if !variantSlugPattern.MatchString(variantSlug) {
		return fmt.Errorf("%w: invalid variant slug %q", domain.ErrValidation, variantSlug)
	}

	report := &models.ModerationReport{
		ID:          uuid.New().String(),
		VariantSlug: variantSlug,
		CreatedAt:   time.Now(),
	}
	if err := s.modRepo.CreateReport(ctx, report); err != nil {
		return err
	}

	s.logger.Info("reader report recorded", "variant_slug", variantSlug)
	return nil
}

// buildJob projects the assigned variant into the moderator-facing view.
func (s *moderationService) buildJob(ctx context.Context, variantID string) (*models.ModerationJob, error) {
	variant, err := s.variantRepo.GetByID(ctx, variantID)
	if err != nil {
		return nil, err
	}
	page, err := s.pageRepo.GetByID(ctx, variant.PageID)
	if err != nil {
		return nil, err
	}
	return &models.ModerationJob{
		VariantID:  variant.ID,
		PageNumber: page.Number,
		Name:       variant.Name,
		Content:    variant.Content,
		AuthorName: variant.AuthorName,
	}, nil
}
