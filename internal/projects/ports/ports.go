// Package ports defines what the projects domain needs from other modules.
package ports

import (
	"context"

	"github.com/google/uuid"

	"tradesmarket/internal/scoring/match"
)

// ProfessionalMatchReader supplies professionals in the shape the match
// engine reads.
type ProfessionalMatchReader interface {
	// MatchProfile loads one professional.
	MatchProfile(ctx context.Context, professionalID uuid.UUID) (match.Professional, error)
	// MatchCandidates loads up to limit professionals working in any of
	// trades, best trade score first. Empty trades means any trade.
	MatchCandidates(ctx context.Context, trades []string, limit int) ([]match.Professional, error)
}
