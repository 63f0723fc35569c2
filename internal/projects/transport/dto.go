package transport

import (
	"time"

	"github.com/google/uuid"

	"tradesmarket/internal/scoring/complexity"
	"tradesmarket/internal/scoring/match"
)

// Budget is the client's min/max budget.
type Budget struct {
	Min float64 `json:"min" validate:"min=0"`
	Max float64 `json:"max" validate:"min=0,gtefield=Min"`
}

// Location is where the work happens.
type Location struct {
	City  string `json:"city" validate:"required,max=100"`
	State string `json:"state" validate:"max=100"`
}

// CreateProjectRequest posts a new project; the response carries its analysis.
type CreateProjectRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=200"`
	Description string   `json:"description" validate:"required,min=1,max=5000"`
	Budget      Budget   `json:"budget"`
	TradeTypes  []string `json:"tradeTypes" validate:"omitempty,max=10,dive,max=60,tradename"`
	Location    Location `json:"location"`
}

// UpdateProjectRequest partially updates a project. Changes to the analyzed
// fields trigger a fresh analysis.
type UpdateProjectRequest struct {
	Title       *string   `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string   `json:"description,omitempty" validate:"omitempty,min=1,max=5000"`
	Budget      *Budget   `json:"budget,omitempty"`
	TradeTypes  *[]string `json:"tradeTypes,omitempty" validate:"omitempty,max=10,dive,max=60,tradename"`
	Location    *Location `json:"location,omitempty"`
	Status      *string   `json:"status,omitempty" validate:"omitempty,oneof=new active in_progress completed cancelled"`
}

// Sort orders for the project list.
const (
	SortNewest = "newest"
	SortMatch  = "match"
)

// ListProjectsRequest filters the project list. With ProfessionalID set each
// item carries that professional's match score.
type ListProjectsRequest struct {
	Status         string `form:"status" validate:"omitempty,oneof=new active in_progress completed cancelled"`
	TradeType      string `form:"tradeType" validate:"omitempty,max=60"`
	City           string `form:"city" validate:"omitempty,max=100"`
	ClientID       string `form:"clientId" validate:"omitempty,uuid"`
	ProfessionalID string `form:"professionalId" validate:"omitempty,uuid"`
	Sort           string `form:"sort" validate:"omitempty,oneof=newest match"`
	Page           int    `form:"page" validate:"omitempty,min=1"`
	PageSize       int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// MatchesRequest limits the ranked professionals for a project.
type MatchesRequest struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}

// ProjectResponse represents a project in API responses.
type ProjectResponse struct {
	ID          uuid.UUID            `json:"id"`
	ClientID    uuid.UUID            `json:"clientId"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Budget      Budget               `json:"budget"`
	TradeTypes  []string             `json:"tradeTypes"`
	Location    Location             `json:"location"`
	Status      string               `json:"status"`
	AIAnalysis  *complexity.Analysis `json:"aiAnalysis,omitempty"`
	AnalyzedAt  *time.Time           `json:"analyzedAt,omitempty"`
	MatchScore  *match.Result        `json:"matchScore,omitempty"`
	MatchError  string               `json:"matchError,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// ProjectListResponse wraps a page of projects.
type ProjectListResponse struct {
	Items    []ProjectResponse `json:"items"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

// ProfessionalMatch is one ranked professional for a project.
type ProfessionalMatch struct {
	ProfessionalID string        `json:"professionalId"`
	MatchScore     *match.Result `json:"matchScore,omitempty"`
	Error          string        `json:"error,omitempty"`
}

// ProjectMatchesResponse lists professionals ranked for a project. Entries
// that could not be scored are listed last.
type ProjectMatchesResponse struct {
	ProjectID uuid.UUID           `json:"projectId"`
	Items     []ProfessionalMatch `json:"items"`
}
