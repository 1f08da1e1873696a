package resource

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Resource, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Resource, error)
	GetAll(ctx context.Context) ([]Resource, error)
	Create(ctx context.Context, data Resource) (Resource, error)
	Update(ctx context.Context, data Resource) (Resource, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
