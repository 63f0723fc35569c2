// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"tradesmarket/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Reviews Domain Events
// =============================================================================

// ReviewSubmitted is published after a client review is stored. The
// professionals module consumes it to refresh rating aggregates and rescore.
type ReviewSubmitted struct {
	BaseEvent
	ReviewID       uuid.UUID `json:"reviewId"`
	ProfessionalID uuid.UUID `json:"professionalId"`
	ProjectID      uuid.UUID `json:"projectId"`
	ClientID       uuid.UUID `json:"clientId"`
	Rating         int       `json:"rating"`
	// Timeliness is the optional 1-5 punctuality sub-rating.
	Timeliness *int `json:"timeliness,omitempty"`
}

func (e ReviewSubmitted) EventName() string { return "reviews.review.submitted" }

// =============================================================================
// Projects Domain Events
// =============================================================================

// ProjectAnalyzed is published whenever a project's analysis is attached or
// replaced.
type ProjectAnalyzed struct {
	BaseEvent
	ProjectID       uuid.UUID `json:"projectId"`
	ComplexityScore float64   `json:"complexityScore"`
	RiskLevel       string    `json:"riskLevel"`
}

func (e ProjectAnalyzed) EventName() string { return "projects.project.analyzed" }
