package adapters

import (
	"context"

	"tradesmarket/internal/professionals/repository"
	"tradesmarket/internal/reviews/ports"

	"github.com/google/uuid"
)

// ProfessionalOwnerReader resolves profile ownership for the reviews domain.
// It implements reviews/ports.ProfessionalOwnerReader.
type ProfessionalOwnerReader struct {
	repo repository.ProfessionalReader
}

// NewProfessionalOwnerReader creates a new adapter over the professionals repository.
func NewProfessionalOwnerReader(repo repository.ProfessionalReader) *ProfessionalOwnerReader {
	return &ProfessionalOwnerReader{repo: repo}
}

// ProfessionalUserID returns the user that owns the profile.
func (a *ProfessionalOwnerReader) ProfessionalUserID(ctx context.Context, professionalID uuid.UUID) (uuid.UUID, error) {
	p, err := a.repo.GetByID(ctx, professionalID)
	if err != nil {
		return uuid.Nil, err
	}
	return p.UserID, nil
}

var _ ports.ProfessionalOwnerReader = (*ProfessionalOwnerReader)(nil)
