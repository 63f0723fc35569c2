package transport

import (
	"time"

	"github.com/google/uuid"
)

// DetailedRatings are the optional per-aspect ratings.
type DetailedRatings struct {
	Quality         *int `json:"quality,omitempty" validate:"omitempty,min=1,max=5"`
	Communication   *int `json:"communication,omitempty" validate:"omitempty,min=1,max=5"`
	Timeliness      *int `json:"timeliness,omitempty" validate:"omitempty,min=1,max=5"`
	Professionalism *int `json:"professionalism,omitempty" validate:"omitempty,min=1,max=5"`
}

// CreateReviewRequest is a client's review of a finished project.
type CreateReviewRequest struct {
	ProjectID       uuid.UUID       `json:"projectId" validate:"required"`
	ProfessionalID  uuid.UUID       `json:"professionalId" validate:"required"`
	Rating          int             `json:"rating" validate:"required,min=1,max=5"`
	DetailedRatings DetailedRatings `json:"detailedRatings"`
	Title           *string         `json:"title,omitempty" validate:"omitempty,max=200"`
	Comment         string          `json:"comment" validate:"required,min=1,max=1000"`
	WouldRecommend  *bool           `json:"wouldRecommend,omitempty"`
}

// RespondRequest is the professional's public reply.
type RespondRequest struct {
	Text string `json:"text" validate:"required,min=1,max=1000"`
}

// ListReviewsRequest filters the review list.
type ListReviewsRequest struct {
	ProfessionalID string `form:"professionalId" validate:"omitempty,uuid"`
	ProjectID      string `form:"projectId" validate:"omitempty,uuid"`
	ClientID       string `form:"clientId" validate:"omitempty,uuid"`
	Page           int    `form:"page" validate:"omitempty,min=1"`
	PageSize       int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// ResponseBody is the professional's reply as shown on a review.
type ResponseBody struct {
	Text        string    `json:"text"`
	RespondedAt time.Time `json:"respondedAt"`
}

// ReviewResponse represents a review in API responses.
type ReviewResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProjectID       uuid.UUID       `json:"projectId"`
	ProfessionalID  uuid.UUID       `json:"professionalId"`
	ClientID        uuid.UUID       `json:"clientId"`
	Rating          int             `json:"rating"`
	DetailedRatings DetailedRatings `json:"detailedRatings"`
	Title           *string         `json:"title,omitempty"`
	Comment         string          `json:"comment"`
	WouldRecommend  bool            `json:"wouldRecommend"`
	Response        *ResponseBody   `json:"response,omitempty"`
	HelpfulCount    int             `json:"helpfulCount"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ReviewListResponse wraps a page of reviews.
type ReviewListResponse struct {
	Items    []ReviewResponse `json:"items"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
}
