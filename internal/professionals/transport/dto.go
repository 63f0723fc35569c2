package transport

import (
	"time"

	"github.com/google/uuid"

	"tradesmarket/internal/scoring/tradescore"
)

// HourlyRate is a min/max hourly price.
type HourlyRate struct {
	Min float64 `json:"min" validate:"min=0"`
	Max float64 `json:"max" validate:"min=0,gtefield=Min"`
}

// Location is where a professional works.
type Location struct {
	City  string `json:"city" validate:"max=100"`
	State string `json:"state" validate:"max=100"`
}

// CreateProfessionalRequest creates the caller's profile.
type CreateProfessionalRequest struct {
	DisplayName     string     `json:"displayName" validate:"required,min=1,max=120"`
	Trade           string     `json:"trade" validate:"required,max=60,tradename"`
	Specialties     []string   `json:"specialties" validate:"omitempty,max=20,dive,min=1,max=60"`
	YearsExperience float64    `json:"yearsExperience" validate:"min=0,max=80"`
	HourlyRate      HourlyRate `json:"hourlyRate"`
	Availability    string     `json:"availability" validate:"omitempty,oneof=Available Busy Unavailable"`
	Location        Location   `json:"location"`
}

// UpdateProfessionalRequest partially updates a profile. Any change triggers
// a rescore.
type UpdateProfessionalRequest struct {
	DisplayName     *string     `json:"displayName,omitempty" validate:"omitempty,min=1,max=120"`
	Trade           *string     `json:"trade,omitempty" validate:"omitempty,max=60,tradename"`
	Specialties     *[]string   `json:"specialties,omitempty" validate:"omitempty,max=20,dive,min=1,max=60"`
	YearsExperience *float64    `json:"yearsExperience,omitempty" validate:"omitempty,min=0,max=80"`
	HourlyRate      *HourlyRate `json:"hourlyRate,omitempty"`
	Availability    *string     `json:"availability,omitempty" validate:"omitempty,oneof=Available Busy Unavailable"`
	Location        *Location   `json:"location,omitempty"`
}

// VerifyProfessionalRequest records admin-assessed sub-scores.
type VerifyProfessionalRequest struct {
	SkillVerification *float64 `json:"skillVerification,omitempty" validate:"omitempty,min=0,max=10"`
	Safety            *float64 `json:"safety,omitempty" validate:"omitempty,min=0,max=10"`
	Verified          *bool    `json:"verified,omitempty"`
}

// AddCertificationRequest attaches a certification.
type AddCertificationRequest struct {
	Name       string     `json:"name" validate:"required,min=1,max=200"`
	Issuer     *string    `json:"issuer,omitempty" validate:"omitempty,max=200"`
	ObtainedAt *time.Time `json:"obtainedAt,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
}

// ListProfessionalsRequest filters the public professional list.
type ListProfessionalsRequest struct {
	Trade        string   `form:"trade" validate:"omitempty,max=60"`
	Specialty    string   `form:"specialty" validate:"omitempty,max=60"`
	Availability string   `form:"availability" validate:"omitempty,oneof=Available Busy Unavailable"`
	City         string   `form:"city" validate:"omitempty,max=100"`
	MinScore     *float64 `form:"minScore" validate:"omitempty,min=0,max=10"`
	MinRating    *float64 `form:"minRating" validate:"omitempty,min=0,max=5"`
	Page         int      `form:"page" validate:"omitempty,min=1"`
	PageSize     int      `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// RescoreRequest enqueues background rescoring. An empty ID means all.
type RescoreRequest struct {
	ProfessionalID *uuid.UUID `json:"professionalId,omitempty"`
}

// ScoreResponse is the AI trade score with its components.
type ScoreResponse struct {
	SkillVerification float64 `json:"skillVerification"`
	Reliability       float64 `json:"reliability"`
	Quality           float64 `json:"quality"`
	Safety            float64 `json:"safety"`
	Total             float64 `json:"total"`
}

// ProfessionalResponse represents a professional in API responses.
type ProfessionalResponse struct {
	ID                 uuid.UUID     `json:"id"`
	UserID             uuid.UUID     `json:"userId"`
	DisplayName        string        `json:"displayName"`
	Trade              string        `json:"trade"`
	Specialties        []string      `json:"specialties"`
	YearsExperience    float64       `json:"yearsExperience"`
	HourlyRate         HourlyRate    `json:"hourlyRate"`
	Availability       string        `json:"availability"`
	Location           Location      `json:"location"`
	AIScore            ScoreResponse `json:"aiScore"`
	Rating             float64       `json:"rating"`
	ReviewCount        int           `json:"reviewCount"`
	ProjectsCompleted  int           `json:"projectsCompleted"`
	Verified           bool          `json:"verified"`
	CertificationCount int           `json:"certificationCount"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

// ProfessionalListResponse wraps a page of professionals.
type ProfessionalListResponse struct {
	Items    []ProfessionalResponse `json:"items"`
	Total    int                    `json:"total"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"pageSize"`
}

// CertificationResponse represents a certification in API responses.
type CertificationResponse struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Issuer     *string    `json:"issuer,omitempty"`
	ObtainedAt *time.Time `json:"obtainedAt,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// ProfessionalStatsResponse summarizes reputation and score components.
type ProfessionalStatsResponse struct {
	ProfessionalID     uuid.UUID               `json:"professionalId"`
	Rating             float64                 `json:"rating"`
	ReviewCount        int                     `json:"reviewCount"`
	ProjectsCompleted  int                     `json:"projectsCompleted"`
	CertificationCount int                     `json:"certificationCount"`
	RatingBreakdown    map[int]int             `json:"ratingBreakdown"`
	Breakdown          tradescore.Breakdown    `json:"breakdown"`
	Certifications     []CertificationResponse `json:"certifications"`
}

// RescoreAcceptedResponse acknowledges an enqueued rescore.
type RescoreAcceptedResponse struct {
	TaskID string `json:"taskId"`
}
