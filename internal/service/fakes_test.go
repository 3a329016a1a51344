package service

import (
	"context"
	"fmt"
	"sort"

	"dendrite/internal/domain"
	"dendrite/internal/domain/models"
	"dendrite/internal/domain/repositories"
)

// In-memory repositories backing the service tests. They mirror the
// constraints the Postgres schema enforces: unique page numbers, unique
// (page, name) variant pairs, unique (variant, position) options.

type fakeStore struct {
	stories     map[string]*models.Story
	pages       map[string]*models.Page
	variants    map[string]*models.Variant
	options     map[string]*models.Option
	submissions map[string]*models.Submission
	moderators  map[string]*models.Moderator
	ratings     []models.ModerationRating
	reports     []models.ModerationReport
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		stories:     make(map[string]*models.Story),
		pages:       make(map[string]*models.Page),
		variants:    make(map[string]*models.Variant),
		options:     make(map[string]*models.Option),
		submissions: make(map[string]*models.Submission),
		moderators:  make(map[string]*models.Moderator),
	}
}

type fakeStoryRepo struct{ s *fakeStore }

func (r *fakeStoryRepo) Create(_ context.Context, story *models.Story) error {
	copied := *story
	r.s.stories[story.ID] = &copied
	return nil
}

func (r *fakeStoryRepo) GetByID(_ context.Context, id string) (*models.Story, error) {
	story, ok := r.s.stories[id]
	if !ok {
		return nil, fmt.Errorf("story %s: %w", id, domain.ErrNotFound)
	}
	copied := *story
	return &copied, nil
}

type fakePageRepo struct{ s *fakeStore }

func (r *fakePageRepo) Create(_ context.Context, page *models.Page) error {
	for _, existing := range r.s.pages {
		if existing.Number == page.Number {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("page number %d already exists", page.Number),
				ResourceType: "page",
				ResourceID:   page.ID,
			}
		}
	}
	copied := *page
	r.s.pages[page.ID] = &copied
	return nil
}

func (r *fakePageRepo) GetByID(_ context.Context, id string) (*models.Page, error) {
	page, ok := r.s.pages[id]
	if !ok {
		return nil, fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}
	copied := *page
	return &copied, nil
}

func (r *fakePageRepo) GetByNumber(_ context.Context, number int) (*models.Page, error) {
	for _, page := range r.s.pages {
		if page.Number == number {
			copied := *page
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("page %d: %w", number, domain.ErrNotFound)
}

func (r *fakePageRepo) NumberExists(_ context.Context, number int) (bool, error) {
	for _, page := range r.s.pages {
		if page.Number == number {
			return true, nil
		}
	}
	return false, nil
}

type fakeVariantRepo struct{ s *fakeStore }

func (r *fakeVariantRepo) Create(_ context.Context, variant *models.Variant) error {
	for _, existing := range r.s.variants {
		if existing.PageID == variant.PageID && existing.Name == variant.Name {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("variant %q already exists on page %s", variant.Name, variant.PageID),
				ResourceType: "variant",
				ResourceID:   variant.ID,
			}
		}
	}
	copied := *variant
	r.s.variants[variant.ID] = &copied
	return nil
}

func (r *fakeVariantRepo) GetByID(_ context.Context, id string) (*models.Variant, error) {
	variant, ok := r.s.variants[id]
	if !ok {
		return nil, fmt.Errorf("variant %s: %w", id, domain.ErrNotFound)
	}
	copied := *variant
	return &copied, nil
}

func (r *fakeVariantRepo) GetByIDForUpdate(ctx context.Context, id string) (*models.Variant, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeVariantRepo) GetByPageAndName(_ context.Context, pageID, name string) (*models.Variant, error) {
	for _, variant := range r.s.variants {
		if variant.PageID == pageID && variant.Name == name {
			copied := *variant
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("variant %s/%s: %w", pageID, name, domain.ErrNotFound)
}

func (r *fakeVariantRepo) ListByPage(_ context.Context, pageID string) ([]models.Variant, error) {
	var variants []models.Variant
	for _, variant := range r.s.variants {
		if variant.PageID == pageID {
			variants = append(variants, *variant)
		}
	}
	sort.Slice(variants, func(i, j int) bool { return variants[i].Name < variants[j].Name })
	return variants, nil
}

func (r *fakeVariantRepo) UpdateAggregates(_ context.Context, id string, visibility float64, ratingCount int, reputationSum float64) error {
	variant, ok := r.s.variants[id]
	if !ok {
		return fmt.Errorf("variant %s: %w", id, domain.ErrNotFound)
	}
	variant.Visibility = visibility
	variant.ModerationRatingCount = ratingCount
	variant.ModeratorReputationSum = reputationSum
	return nil
}

func (r *fakeVariantRepo) FindCandidate(_ context.Context, zeroRatedOnly, geq bool, pivot float64) (*models.Variant, error) {
	var best *models.Variant
	for _, variant := range r.s.variants {
		if zeroRatedOnly && variant.ModerationRatingCount > 0 {
			continue
		}
		if geq && variant.Rand < pivot {
			continue
		}
		if !geq && variant.Rand >= pivot {
			continue
		}
		if best == nil {
			best = variant
			continue
		}
		if geq && variant.Rand < best.Rand {
			best = variant
		}
		if !geq && variant.Rand > best.Rand {
			best = variant
		}
	}
	if best == nil {
		return nil, fmt.Errorf("variant: %w", domain.ErrNotFound)
	}
	copied := *best
	return &copied, nil
}

type fakeOptionRepo struct{ s *fakeStore }

func (r *fakeOptionRepo) Create(_ context.Context, option *models.Option) error {
	for _, existing := range r.s.options {
		if existing.VariantID == option.VariantID && existing.Position == option.Position {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("option position %d already exists on variant %s", option.Position, option.VariantID),
				ResourceType: "option",
				ResourceID:   option.ID,
			}
		}
	}
	copied := *option
	r.s.options[option.ID] = &copied
	return nil
}

func (r *fakeOptionRepo) GetByID(_ context.Context, id string) (*models.Option, error) {
	option, ok := r.s.options[id]
	if !ok {
		return nil, fmt.Errorf("option %s: %w", id, domain.ErrNotFound)
	}
	copied := *option
	return &copied, nil
}

func (r *fakeOptionRepo) GetByVariantAndPosition(_ context.Context, variantID string, position int) (*models.Option, error) {
	for _, option := range r.s.options {
		if option.VariantID == variantID && option.Position == position {
			copied := *option
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("option %d of variant %s: %w", position, variantID, domain.ErrNotFound)
}

func (r *fakeOptionRepo) ListByVariant(_ context.Context, variantID string) ([]models.Option, error) {
	var options []models.Option
	for _, option := range r.s.options {
		if option.VariantID == variantID {
			options = append(options, *option)
		}
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Position < options[j].Position })
	return options, nil
}

func (r *fakeOptionRepo) SetTargetPage(_ context.Context, optionID, pageID string) error {
	option, ok := r.s.options[optionID]
	if !ok {
		return fmt.Errorf("option %s: %w", optionID, domain.ErrNotFound)
	}
	option.TargetPageID = &pageID
	return nil
}

type fakeSubmissionRepo struct{ s *fakeStore }

func (r *fakeSubmissionRepo) Create(_ context.Context, submission *models.Submission) error {
	copied := *submission
	r.s.submissions[submission.ID] = &copied
	return nil
}

func (r *fakeSubmissionRepo) GetByID(_ context.Context, id string) (*models.Submission, error) {
	submission, ok := r.s.submissions[id]
	if !ok {
		return nil, fmt.Errorf("submission %s: %w", id, domain.ErrNotFound)
	}
	copied := *submission
	return &copied, nil
}

func (r *fakeSubmissionRepo) MarkProcessed(_ context.Context, id string) (bool, error) {
	submission, ok := r.s.submissions[id]
	if !ok {
		return false, fmt.Errorf("submission %s: %w", id, domain.ErrNotFound)
	}
	if submission.Processed {
		return false, nil
	}
	submission.Processed = true
	return true, nil
}

type fakeModerationRepo struct{ s *fakeStore }

func (r *fakeModerationRepo) GetModerator(_ context.Context, id string) (*models.Moderator, error) {
	mod, ok := r.s.moderators[id]
	if !ok {
		mod = &models.Moderator{ID: id}
		r.s.moderators[id] = mod
	}
	copied := *mod
	return &copied, nil
}

func (r *fakeModerationRepo) SetAssignment(_ context.Context, moderatorID string, variantID *string) error {
	mod, ok := r.s.moderators[moderatorID]
	if !ok {
		return fmt.Errorf("moderator %s: %w", moderatorID, domain.ErrNotFound)
	}
	mod.AssignedVariantID = variantID
	return nil
}

func (r *fakeModerationRepo) CreateRating(_ context.Context, rating *models.ModerationRating) error {
	r.s.ratings = append(r.s.ratings, *rating)
	return nil
}

func (r *fakeModerationRepo) CreateReport(_ context.Context, report *models.ModerationReport) error {
	r.s.reports = append(r.s.reports, *report)
	return nil
}

// fakeTxManager runs the closure directly; the fakes have no transactions
// to join. Rollback-on-conflict is exercised against the real manager, not
// here.
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// fakePublisher records which pages were published.
type fakePublisher struct {
	published []string
}

func (p *fakePublisher) PublishPage(_ context.Context, pageID string) error {
	p.published = append(p.published, pageID)
	return nil
}

// seqSource replays a fixed draw sequence, wrapping at the end.
type seqSource struct {
	draws []float64
	next  int
}

func (s *seqSource) Float64() float64 {
	if len(s.draws) == 0 {
		return 0.5
	}
	v := s.draws[s.next%len(s.draws)]
	s.next++
	return v
}
