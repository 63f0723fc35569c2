package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Score holds the persisted AI trade score components.
type Score struct {
	SkillVerification float64
	Reliability       float64
	Quality           float64
	Safety            float64
	Total             float64
}

// Professional is a tradesperson profile.
type Professional struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	DisplayName        string
	Trade              string
	Specialties        []string
	YearsExperience    float64
	HourlyRateMin      float64
	HourlyRateMax      float64
	Availability       string
	City               string
	State              string
	Score              Score
	Rating             float64
	ReviewCount        int
	ProjectsCompleted  int
	Verified           bool
	CertificationCount int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Certification is a credential attached to a professional.
type Certification struct {
	ID             uuid.UUID
	ProfessionalID uuid.UUID
	Name           string
	Issuer         *string
	ObtainedAt     *time.Time
	ExpiresAt      *time.Time
	CreatedAt      time.Time
}

// ReviewStats aggregates the reviews left for one professional.
type ReviewStats struct {
	Average float64
	Count   int
}

// ScorePatch is written back after a recomputation. Nil pointers leave the
// column unchanged.
type ScorePatch struct {
	Score       Score
	Rating      *float64
	ReviewCount *int
}

// ScoreUpdater derives a patch from the locked current row and its review
// aggregate. Returning an error aborts the update.
type ScoreUpdater func(current Professional, reviews ReviewStats) (ScorePatch, error)

// CreateParams contains parameters for creating a profile.
type CreateParams struct {
	UserID          uuid.UUID
	DisplayName     string
	Trade           string
	Specialties     []string
	YearsExperience float64
	HourlyRateMin   float64
	HourlyRateMax   float64
	Availability    string
	City            string
	State           string
	Score           Score
}

// UpdateParams contains parameters for a partial profile update.
type UpdateParams struct {
	ID              uuid.UUID
	DisplayName     *string
	Trade           *string
	Specialties     *[]string
	YearsExperience *float64
	HourlyRateMin   *float64
	HourlyRateMax   *float64
	Availability    *string
	City            *string
	State           *string
}

// VerificationParams contains the admin-assessed sub-scores.
type VerificationParams struct {
	ID                uuid.UUID
	SkillVerification *float64
	Safety            *float64
	Verified          *bool
}

// CertificationParams contains parameters for adding a certification.
type CertificationParams struct {
	ProfessionalID uuid.UUID
	Name           string
	Issuer         *string
	ObtainedAt     *time.Time
	ExpiresAt      *time.Time
}

// ListParams filters and pages the professional list. The list is ordered by
// total score then rating, both descending.
type ListParams struct {
	Trade        string
	Specialty    string
	Availability string
	City         string
	MinScore     *float64
	MinRating    *float64
	Offset       int
	Limit        int
}

// ProfessionalReader provides read operations for professionals.
type ProfessionalReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Professional, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (Professional, error)
	List(ctx context.Context, params ListParams) ([]Professional, int, error)
	ListByTrades(ctx context.Context, trades []string, limit int) ([]Professional, error)
	ListIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error)
	ListCertifications(ctx context.Context, professionalID uuid.UUID) ([]Certification, error)
	RatingBreakdown(ctx context.Context, professionalID uuid.UUID) (map[int]int, error)
}

// ProfessionalWriter provides write operations for professionals.
type ProfessionalWriter interface {
	Create(ctx context.Context, params CreateParams) (Professional, error)
	Update(ctx context.Context, params UpdateParams) (Professional, error)
	SetVerification(ctx context.Context, params VerificationParams) error
	UpdateScore(ctx context.Context, id uuid.UUID, fn ScoreUpdater) (Professional, error)
	AddCertification(ctx context.Context, params CertificationParams) (Certification, error)
	DeleteCertification(ctx context.Context, professionalID, certificationID uuid.UUID) error
}

// Repository combines all professional repository operations.
type Repository interface {
	ProfessionalReader
	ProfessionalWriter
}
