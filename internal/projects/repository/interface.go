package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tradesmarket/internal/scoring/complexity"
)

// Project statuses.
const (
	StatusNew        = "new"
	StatusActive     = "active"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Project is a job posted by a client.
type Project struct {
	ID          uuid.UUID
	ClientID    uuid.UUID
	Title       string
	Description string
	City        string
	State       string
	BudgetMin   float64
	BudgetMax   float64
	TradeTypes  []string
	Status      string
	// Analysis is nil until the project has been analyzed.
	Analysis   *complexity.Analysis
	AnalyzedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CreateParams contains parameters for storing a project with its analysis.
type CreateParams struct {
	ClientID    uuid.UUID
	Title       string
	Description string
	City        string
	State       string
	BudgetMin   float64
	BudgetMax   float64
	TradeTypes  []string
	Analysis    complexity.Analysis
	AnalyzedAt  time.Time
}

// UpdateParams contains parameters for a partial project update.
type UpdateParams struct {
	ID          uuid.UUID
	Title       *string
	Description *string
	City        *string
	State       *string
	BudgetMin   *float64
	BudgetMax   *float64
	TradeTypes  *[]string
	Status      *string
}

// ListParams filters the project list. Newest first.
type ListParams struct {
	Status    string
	TradeType string
	City      string
	ClientID  *uuid.UUID
	Offset    int
	Limit     int
}

// Reader provides read operations for projects.
type Reader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Project, error)
	List(ctx context.Context, params ListParams) ([]Project, int, error)
}

// Writer provides write operations for projects.
type Writer interface {
	Create(ctx context.Context, params CreateParams) (Project, error)
	Update(ctx context.Context, params UpdateParams) (Project, error)
	AttachAnalysis(ctx context.Context, id uuid.UUID, analysis complexity.Analysis, analyzedAt time.Time) (Project, error)
}

// Repository combines all project repository operations.
type Repository interface {
	Reader
	Writer
}
