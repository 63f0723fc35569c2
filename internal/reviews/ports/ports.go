// Package ports defines what the reviews domain needs from other modules.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// ProjectOwnerReader resolves the client that posted a project.
type ProjectOwnerReader interface {
	ProjectClientID(ctx context.Context, projectID uuid.UUID) (uuid.UUID, error)
}

// ProfessionalOwnerReader resolves the user that owns a professional profile.
type ProfessionalOwnerReader interface {
	ProfessionalUserID(ctx context.Context, professionalID uuid.UUID) (uuid.UUID, error)
}
