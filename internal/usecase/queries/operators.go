package queries

import (
	"context"

	"github.com/google/uuid"
)

// OperatorView is the authenticated-operator read model.
type OperatorView struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	Code      string
	Name      string
	Role      string
	IsActive  bool
}

// OperatorReadStore reads operator rows from the local database. FindByCode
// also returns the bcrypt PIN hash for login verification.
type OperatorReadStore interface {
	FindByCode(ctx context.Context, code string) (*OperatorView, string, error)
	FindByID(ctx context.Context, id uuid.UUID) (*OperatorView, error)
}
