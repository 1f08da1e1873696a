package allocation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FindParams narrows Overlapping queries. The overlap test is inclusive:
// start_date <= To AND end_date >= From. GHOST rows are excluded unless
// IncludeGhost is set (scenario views only).
type FindParams struct {
	ResourceID   uuid.UUID
	From         time.Time
	To           time.Time
	ExcludeID    uuid.UUID
	IncludeGhost bool
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Allocation, error)
	Overlapping(ctx context.Context, params *FindParams) ([]Allocation, error)
	Create(ctx context.Context, data Allocation) (Allocation, error)
	Update(ctx context.Context, data Allocation) (Allocation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
