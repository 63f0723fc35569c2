package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DetailedRatings are the optional 1-5 sub-ratings of a review.
type DetailedRatings struct {
	Quality         *int
	Communication   *int
	Timeliness      *int
	Professionalism *int
}

// Review is a client's review of a professional for one project.
type Review struct {
	ID             uuid.UUID
	ProjectID      uuid.UUID
	ProfessionalID uuid.UUID
	ClientID       uuid.UUID
	Rating         int
	Detailed       DetailedRatings
	Title          *string
	Comment        string
	WouldRecommend bool
	ResponseText   *string
	RespondedAt    *time.Time
	HelpfulCount   int
	CreatedAt      time.Time
}

// CreateParams contains parameters for storing a review.
type CreateParams struct {
	ProjectID      uuid.UUID
	ProfessionalID uuid.UUID
	ClientID       uuid.UUID
	Rating         int
	Detailed       DetailedRatings
	Title          *string
	Comment        string
	WouldRecommend bool
}

// ListParams filters reviews. Nil filters are ignored. Newest first.
type ListParams struct {
	ProfessionalID *uuid.UUID
	ProjectID      *uuid.UUID
	ClientID       *uuid.UUID
	Offset         int
	Limit          int
}

// Repository defines persistence for reviews.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Review, error)
	GetByID(ctx context.Context, id uuid.UUID) (Review, error)
	List(ctx context.Context, params ListParams) ([]Review, int, error)
	SetResponse(ctx context.Context, id uuid.UUID, text string, respondedAt time.Time) (Review, error)
	IncrementHelpful(ctx context.Context, id uuid.UUID) (Review, error)
}
