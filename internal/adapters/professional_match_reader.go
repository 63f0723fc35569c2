package adapters

import (
	"context"

	"tradesmarket/internal/professionals/repository"
	"tradesmarket/internal/projects/ports"
	"tradesmarket/internal/scoring/match"

	"github.com/google/uuid"
)

// ProfessionalMatchReader adapts the professionals repository for the
// projects domain. It implements projects/ports.ProfessionalMatchReader.
type ProfessionalMatchReader struct {
	repo repository.ProfessionalReader
}

// NewProfessionalMatchReader creates a new adapter over the professionals repository.
func NewProfessionalMatchReader(repo repository.ProfessionalReader) *ProfessionalMatchReader {
	return &ProfessionalMatchReader{repo: repo}
}

// MatchProfile loads one professional in match engine form.
func (a *ProfessionalMatchReader) MatchProfile(ctx context.Context, professionalID uuid.UUID) (match.Professional, error) {
	p, err := a.repo.GetByID(ctx, professionalID)
	if err != nil {
		return match.Professional{}, err
	}
	return ToMatchProfessional(p), nil
}

// MatchCandidates loads the best-scored professionals in any of trades.
// Without trades it falls back to the overall best-scored professionals.
func (a *ProfessionalMatchReader) MatchCandidates(ctx context.Context, trades []string, limit int) ([]match.Professional, error) {
	var (
		items []repository.Professional
		err   error
	)
	if len(trades) == 0 {
		items, _, err = a.repo.List(ctx, repository.ListParams{Limit: limit})
	} else {
		items, err = a.repo.ListByTrades(ctx, trades, limit)
	}
	if err != nil {
		return nil, err
	}

	out := make([]match.Professional, len(items))
	for i, p := range items {
		out[i] = ToMatchProfessional(p)
	}
	return out, nil
}

// ToMatchProfessional maps a stored profile onto the fields the match engine reads.
func ToMatchProfessional(p repository.Professional) match.Professional {
	return match.Professional{
		ID:              p.ID.String(),
		Trade:           p.Trade,
		Specialties:     p.Specialties,
		YearsExperience: p.YearsExperience,
		HourlyRate:      match.Range{Min: p.HourlyRateMin, Max: p.HourlyRateMax},
		Rating:          p.Rating,
		Availability:    match.Availability(p.Availability),
		City:            p.City,
	}
}

var _ ports.ProfessionalMatchReader = (*ProfessionalMatchReader)(nil)
