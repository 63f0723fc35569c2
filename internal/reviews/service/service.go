package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tradesmarket/internal/events"
	"tradesmarket/internal/reviews/ports"
	"tradesmarket/internal/reviews/repository"
	"tradesmarket/internal/reviews/transport"
	"tradesmarket/platform/apperr"
	"tradesmarket/platform/logger"
	"tradesmarket/platform/sanitize"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service provides business logic for reviews.
type Service struct {
	repo          repository.Repository
	projects      ports.ProjectOwnerReader
	professionals ports.ProfessionalOwnerReader
	eventBus      events.Bus
	log           *logger.Logger
	now           func() time.Time
}

// New creates a new reviews service.
func New(
	repo repository.Repository,
	projects ports.ProjectOwnerReader,
	professionals ports.ProfessionalOwnerReader,
	eventBus events.Bus,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:          repo,
		projects:      projects,
		professionals: professionals,
		eventBus:      eventBus,
		log:           log,
		now:           time.Now,
	}
}

// Create stores a client's review and synchronously refreshes the reviewed
// professional's rating and trade score.
func (s *Service) Create(ctx context.Context, clientID uuid.UUID, req transport.CreateReviewRequest) (transport.ReviewResponse, error) {
	ownerID, err := s.projects.ProjectClientID(ctx, req.ProjectID)
	if err != nil {
		return transport.ReviewResponse{}, err
	}
	if ownerID != clientID {
		return transport.ReviewResponse{}, apperr.Forbidden("only the project's client can review it")
	}

	wouldRecommend := true
	if req.WouldRecommend != nil {
		wouldRecommend = *req.WouldRecommend
	}

	review, err := s.repo.Create(ctx, repository.CreateParams{
		ProjectID:      req.ProjectID,
		ProfessionalID: req.ProfessionalID,
		ClientID:       clientID,
		Rating:         req.Rating,
		Detailed: repository.DetailedRatings{
			Quality:         req.DetailedRatings.Quality,
			Communication:   req.DetailedRatings.Communication,
			Timeliness:      req.DetailedRatings.Timeliness,
			Professionalism: req.DetailedRatings.Professionalism,
		},
		Title:          sanitize.TextPtr(req.Title),
		Comment:        sanitize.Text(req.Comment),
		WouldRecommend: wouldRecommend,
	})
	if err != nil {
		return transport.ReviewResponse{}, err
	}

	// The review is committed; a failed rescore is logged and left to the backfill job.
	if err := s.eventBus.PublishSync(ctx, events.ReviewSubmitted{
		BaseEvent:      events.NewBaseEvent(),
		ReviewID:       review.ID,
		ProfessionalID: review.ProfessionalID,
		ProjectID:      review.ProjectID,
		ClientID:       review.ClientID,
		Rating:         review.Rating,
		Timeliness:     review.Detailed.Timeliness,
	}); err != nil {
		s.log.WithContext(ctx).Error("review rescore failed",
			"reviewId", review.ID,
			"professionalId", review.ProfessionalID,
			"error", err,
		)
	}

	return toResponse(review), nil
}

// GetByID retrieves a review.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.ReviewResponse, error) {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ReviewResponse{}, err
	}
	return toResponse(review), nil
}

// List retrieves reviews, newest first.
func (s *Service) List(ctx context.Context, req transport.ListReviewsRequest) (transport.ReviewListResponse, error) {
	page, pageSize := normalizePage(req.Page, req.PageSize)

	items, total, err := s.repo.List(ctx, repository.ListParams{
		ProfessionalID: parseOptionalID(req.ProfessionalID),
		ProjectID:      parseOptionalID(req.ProjectID),
		ClientID:       parseOptionalID(req.ClientID),
		Offset:         (page - 1) * pageSize,
		Limit:          pageSize,
	})
	if err != nil {
		return transport.ReviewListResponse{}, err
	}

	resp := transport.ReviewListResponse{
		Items:    make([]transport.ReviewResponse, 0, len(items)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, toResponse(item))
	}
	return resp, nil
}

// Respond records the reviewed professional's reply.
func (s *Service) Respond(ctx context.Context, id, userID uuid.UUID, req transport.RespondRequest) (transport.ReviewResponse, error) {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ReviewResponse{}, err
	}

	ownerID, err := s.professionals.ProfessionalUserID(ctx, review.ProfessionalID)
	if err != nil {
		return transport.ReviewResponse{}, err
	}
	if ownerID != userID {
		return transport.ReviewResponse{}, apperr.Forbidden("only the reviewed professional can respond")
	}

	updated, err := s.repo.SetResponse(ctx, id, sanitize.Text(req.Text), s.now())
	if err != nil {
		return transport.ReviewResponse{}, err
	}
	return toResponse(updated), nil
}

// MarkHelpful increments the helpful counter.
func (s *Service) MarkHelpful(ctx context.Context, id uuid.UUID) (transport.ReviewResponse, error) {
	review, err := s.repo.IncrementHelpful(ctx, id)
	if err != nil {
		return transport.ReviewResponse{}, err
	}
	return toResponse(review), nil
}

func toResponse(r repository.Review) transport.ReviewResponse {
	resp := transport.ReviewResponse{
		ID:             r.ID,
		ProjectID:      r.ProjectID,
		ProfessionalID: r.ProfessionalID,
		ClientID:       r.ClientID,
		Rating:         r.Rating,
		DetailedRatings: transport.DetailedRatings{
			Quality:         r.Detailed.Quality,
			Communication:   r.Detailed.Communication,
			Timeliness:      r.Detailed.Timeliness,
			Professionalism: r.Detailed.Professionalism,
		},
		Title:          r.Title,
		Comment:        r.Comment,
		WouldRecommend: r.WouldRecommend,
		HelpfulCount:   r.HelpfulCount,
		CreatedAt:      r.CreatedAt,
	}
	if r.ResponseText != nil && r.RespondedAt != nil {
		resp.Response = &transport.ResponseBody{Text: *r.ResponseText, RespondedAt: *r.RespondedAt}
	}
	return resp
}

func parseOptionalID(raw string) *uuid.UUID {
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
