package conflict

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, data Conflict) (Conflict, error)
	GetByID(ctx context.Context, id uuid.UUID) (Conflict, error)
	// UnresolvedInRange returns open conflicts for the resource whose date
	// ranges overlap [from, to].
	UnresolvedInRange(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]Conflict, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}
