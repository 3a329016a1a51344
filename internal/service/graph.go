package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"dendrite/internal/config"
	"dendrite/internal/domain"
	"dendrite/internal/domain/models"
	"dendrite/internal/domain/repositories"
	"dendrite/internal/domain/services"
)

// processRetries bounds re-runs of a submission transaction after a lost
// page-number race. Each retry draws fresh candidates.
const processRetries = 3

// graphService implements the GraphService interface
type graphService struct {
	storyRepo   repositories.StoryRepository
	pageRepo    repositories.PageRepository
	variantRepo repositories.VariantRepository
	optionRepo  repositories.OptionRepository
	subRepo     repositories.SubmissionRepository
	txManager   repositories.TransactionManager
	publisher   services.Publisher
	rand        RandomSource
	logger      *slog.Logger
}

// NewGraphService creates a new graph service
func NewGraphService(
	storyRepo repositories.StoryRepository,
	pageRepo repositories.PageRepository,
	variantRepo repositories.VariantRepository,
	optionRepo repositories.OptionRepository,
	subRepo repositories.SubmissionRepository,
	txManager repositories.TransactionManager,
	publisher services.Publisher,
	rand RandomSource,
	logger *slog.Logger,
) services.GraphService {
	return &graphService{
		storyRepo:   storyRepo,
		pageRepo:    pageRepo,
		variantRepo: variantRepo,
		optionRepo:  optionRepo,
		subRepo:     subRepo,
		txManager:   txManager,
		publisher:   publisher,
		rand:        rand,
		logger:      logger,
	}
}

// SubmitStory records a new-story submission and folds it into the graph.
func (s *graphService) SubmitStory(ctx context.Context, req *services.SubmitStoryRequest) (*models.Submission, error) {
	if err := s.validateStoryRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	sub := &models.Submission{
		ID:         uuid.New().String(),
		Kind:       models.SubmissionKindStory,
		Title:      req.Title,
		Content:    req.Content,
		AuthorName: req.AuthorName,
		AuthorID:   req.AuthorID,
		Options:    req.Options,
		CreatedAt:  time.Now(),
	}
	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.process(ctx, sub.ID)
	return sub, nil
}

// SubmitPage records a continuation submission and folds it into the graph.
func (s *graphService) SubmitPage(ctx context.Context, req *services.SubmitPageRequest) (*models.Submission, error) {
	if err := s.validatePageRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	sub := &models.Submission{
		ID:             uuid.New().String(),
		Kind:           models.SubmissionKindPage,
		Content:        req.Content,
		AuthorName:     req.AuthorName,
		AuthorID:       req.AuthorID,
		IncomingOption: req.IncomingOption,
		PageNumber:     req.PageNumber,
		Options:        req.Options,
		CreatedAt:      time.Now(),
	}
	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.process(ctx, sub.ID)
	return sub, nil
}

// process runs ProcessSubmission without failing the accepting request. The
// submission row is already durable; a processing failure leaves it
// unprocessed for a later retry sweep.
func (s *graphService) process(ctx context.Context, submissionID string) {
	if err := s.ProcessSubmission(ctx, submissionID); err != nil {
		s.logger.Error("submission accepted but not processed",
			"submission_id", submissionID,
			"error", err,
		)
	}
}

// ProcessSubmission folds one submission into the story graph. The whole
// mutation runs in a single transaction with the processed flip, so a
// redelivered event either sees the flip and stops or repeats a rolled-back
// attempt. A duplicate page number aborts the transaction and the whole
// attempt is retried with fresh candidates.
func (s *graphService) ProcessSubmission(ctx context.Context, submissionID string) error {
	var pageID string

	for attempt := 0; ; attempt++ {
		pageID = ""
		sub, err := s.subRepo.GetByID(ctx, submissionID)
		if err != nil {
			return err
		}
		if sub.Processed {
			return nil
		}

		err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
			ok, err := s.subRepo.MarkProcessed(txCtx, sub.ID)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}

			switch sub.Kind {
			case models.SubmissionKindStory:
				pageID, err = s.applyStory(txCtx, sub)
			case models.SubmissionKindPage:
				pageID, err = s.applyPage(txCtx, sub)
			default:
				s.logger.Warn("submission with unknown kind marked processed",
					"submission_id", sub.ID, "kind", sub.Kind)
				return nil
			}
			return err
		})
		if errors.Is(err, domain.ErrConflict) && attempt < processRetries {
			s.logger.Info("page number race lost, retrying submission",
				"submission_id", sub.ID, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return fmt.Errorf("process submission %s: %w", submissionID, err)
		}
		break
	}

	if pageID != "" {
		if err := s.publisher.PublishPage(ctx, pageID); err != nil {
			s.logger.Error("publish after submission failed",
				"submission_id", submissionID, "page_id", pageID, "error", err)
		}
	}
	return nil
}

// applyStory creates the story root: story, page, variant "a" and its
// options. Returns the new page ID.
func (s *graphService) applyStory(ctx context.Context, sub *models.Submission) (string, error) {
	number, err := allocatePageNumber(ctx, s.pageRepo, s.rand)
	if err != nil {
		return "", err
	}

	now := time.Now()
	story := &models.Story{
		ID:        uuid.New().String(),
		Title:     sub.Title,
		CreatedAt: now,
	}
	page := &models.Page{
		ID:        uuid.New().String(),
		StoryID:   story.ID,
		Number:    number,
		CreatedAt: now,
	}
	story.RootPageID = page.ID

	if err := s.storyRepo.Create(ctx, story); err != nil {
		return "", err
	}
	if err := s.pageRepo.Create(ctx, page); err != nil {
		return "", err
	}
	if err := s.createVariant(ctx, page.ID, "a", sub); err != nil {
		return "", err
	}

	s.logger.Info("story created",
		"story_id", story.ID,
		"page_number", number,
		"submission_id", sub.ID,
	)
	return page.ID, nil
}

// applyPage folds a continuation into the graph. The target page is the
// incoming option's existing target when already linked, a freshly created
// page linked back to the option otherwise, or the named page for a bare
// competing-variant submission. An unresolvable reference is terminal: the
// submission stays marked processed with no graph effect.
func (s *graphService) applyPage(ctx context.Context, sub *models.Submission) (string, error) {
	if sub.IncomingOption == "" {
		return s.applyCompetingVariant(ctx, sub)
	}

	ref, err := ParseOptionRef(sub.IncomingOption)
	if err != nil {
		s.logger.Warn("submission with malformed option reference marked processed",
			"submission_id", sub.ID, "incoming_option", sub.IncomingOption)
		return "", nil
	}

	option, parent, err := s.resolveOption(ctx, ref)
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("submission with dangling option reference marked processed",
			"submission_id", sub.ID, "incoming_option", sub.IncomingOption)
		return "", nil
	}
	if err != nil {
		return "", err
	}

	var pageID string
	if option.TargetPageID != nil {
		pageID = *option.TargetPageID
	} else {
		number, err := allocatePageNumber(ctx, s.pageRepo, s.rand)
		if err != nil {
			return "", err
		}
		page := &models.Page{
			ID:               uuid.New().String(),
			StoryID:          parent.StoryID,
			Number:           number,
			IncomingOptionID: &option.ID,
			CreatedAt:        time.Now(),
		}
		if err := s.pageRepo.Create(ctx, page); err != nil {
			return "", err
		}
		if err := s.optionRepo.SetTargetPage(ctx, option.ID, page.ID); err != nil {
			return "", err
		}
		pageID = page.ID
	}

	name, err := s.nextVariantName(ctx, pageID)
	if err != nil {
		return "", err
	}
	if err := s.createVariant(ctx, pageID, name, sub); err != nil {
		return "", err
	}

	s.logger.Info("page continuation created",
		"page_id", pageID,
		"variant_name", name,
		"submission_id", sub.ID,
	)
	return pageID, nil
}

// applyCompetingVariant adds a sibling variant to an existing page named by
// number, with no option linkage.
func (s *graphService) applyCompetingVariant(ctx context.Context, sub *models.Submission) (string, error) {
	page, err := s.pageRepo.GetByNumber(ctx, sub.PageNumber)
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("submission for unknown page marked processed",
			"submission_id", sub.ID, "page_number", sub.PageNumber)
		return "", nil
	}
	if err != nil {
		return "", err
	}

	name, err := s.nextVariantName(ctx, page.ID)
	if err != nil {
		return "", err
	}
	if err := s.createVariant(ctx, page.ID, name, sub); err != nil {
		return "", err
	}

	s.logger.Info("competing variant created",
		"page_id", page.ID,
		"variant_name", name,
		"submission_id", sub.ID,
	)
	return page.ID, nil
}

// resolveOption walks page number -> variant name -> option position,
// returning the option together with the page it hangs off.
func (s *graphService) resolveOption(ctx context.Context, ref OptionRef) (*models.Option, *models.Page, error) {
	page, err := s.pageRepo.GetByNumber(ctx, ref.PageNumber)
	if err != nil {
		return nil, nil, err
	}
	variant, err := s.variantRepo.GetByPageAndName(ctx, page.ID, ref.VariantName)
	if err != nil {
		return nil, nil, err
	}
	option, err := s.optionRepo.GetByVariantAndPosition(ctx, variant.ID, ref.OptionNumber)
	if err != nil {
		return nil, nil, err
	}
	return option, page, nil
}

// nextVariantName picks the successor of the page's highest variant name,
// or "a" for an empty page. ListByPage orders by name, so the last entry
// is the highest.
func (s *graphService) nextVariantName(ctx context.Context, pageID string) (string, error) {
	variants, err := s.variantRepo.ListByPage(ctx, pageID)
	if err != nil {
		return "", err
	}
	if len(variants) == 0 {
		return "a", nil
	}
	return IncrementVariantName(variants[len(variants)-1].Name), nil
}

// createVariant writes the variant and its outgoing options. New variants
// start fully visible and unrated; moderation adjusts visibility afterwards.
func (s *graphService) createVariant(ctx context.Context, pageID, name string, sub *models.Submission) error {
	now := time.Now()
	variant := &models.Variant{
		ID:         uuid.New().String(),
		PageID:     pageID,
		Name:       name,
		Content:    sub.Content,
		AuthorID:   sub.AuthorID,
		AuthorName: sub.AuthorName,
		Visibility: 1,
		Rand:       s.rand.Float64(),
		CreatedAt:  now,
	}
	if err := s.variantRepo.Create(ctx, variant); err != nil {
		return err
	}

	for i, content := range sub.Options {
		option := &models.Option{
			ID:        uuid.New().String(),
			VariantID: variant.ID,
			Content:   content,
			Position:  i + 1,
			CreatedAt: now,
		}
		if err := s.optionRepo.Create(ctx, option); err != nil {
			return err
		}
	}
	return nil
}

// validateStoryRequest validates a new-story submission
func (s *graphService) validateStoryRequest(req *services.SubmitStoryRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, config.MaxStoryTitleLength)),
		validation.Field(&req.Content, validation.Required),
		validation.Field(&req.Options, validation.Length(0, config.MaxOptionCount),
			validation.Each(validation.Required)),
	)
}

// validatePageRequest validates a continuation submission
func (s *graphService) validatePageRequest(req *services.SubmitPageRequest) error {
	if req.IncomingOption == "" && req.PageNumber == 0 {
		return fmt.Errorf("either an incoming option or a page number is required")
	}
	if req.IncomingOption != "" && req.PageNumber != 0 {
		return fmt.Errorf("incoming option and page number are mutually exclusive")
	}
	return validation.ValidateStruct(req,
		validation.Field(&req.Content, validation.Required),
		validation.Field(&req.PageNumber, validation.Min(0)),
		validation.Field(&req.Options, validation.Length(0, config.MaxOptionCount),
			validation.Each(validation.Required)),
	)
}
