package persistence

import (
	"context"
	"errors"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/aggregates/resource"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/composables"
)

var ErrResourceNotFound = gerrors.New("resource not found")

const resourceColumns = `id, organization_id, name, capacity_hours_per_week, is_active, created_at, updated_at`

type PgResourceRepository struct{}

func NewResourceRepository() resource.Repository {
	return &PgResourceRepository{}
}

func (r *PgResourceRepository) GetByID(ctx context.Context, id uuid.UUID) (resource.Resource, error) {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return resource.Resource{}, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return resource.Resource{}, err
	}

	row := tx.QueryRow(ctx, `
		SELECT `+resourceColumns+`
		FROM resources
		WHERE id = $1 AND organization_id = $2`,
		pgUUIDFromUUID(id), pgTenantID,
	)
	entity, err := scanResource(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return resource.Resource{}, ErrResourceNotFound
		}
		return resource.Resource{}, err
	}
	return entity, nil
}

func (r *PgResourceRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]resource.Resource, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	pgIDs := make([]pgtype.UUID, 0, len(ids))
	for _, id := range ids {
		pgIDs = append(pgIDs, pgUUIDFromUUID(id))
	}
	rows, err := tx.Query(ctx, `
		SELECT `+resourceColumns+`
		FROM resources
		WHERE organization_id = $1 AND id = ANY($2)
		ORDER BY name`,
		pgTenantID, pgIDs,
	)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to query resources by ids")
	}
	defer rows.Close()
	return collectResources(rows)
}

func (r *PgResourceRepository) GetAll(ctx context.Context) ([]resource.Resource, error) {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT `+resourceColumns+`
		FROM resources
		WHERE organization_id = $1
		ORDER BY name`,
		pgTenantID,
	)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to query resources")
	}
	defer rows.Close()
	return collectResources(rows)
}

func (r *PgResourceRepository) Create(ctx context.Context, data resource.Resource) (resource.Resource, error) {
	tenantID, _, err := tenantIDs(ctx)
	if err != nil {
		return resource.Resource{}, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return resource.Resource{}, err
	}

	id := data.ID()
	if id == uuid.Nil {
		id = uuid.New()
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO resources (id, organization_id, name, capacity_hours_per_week, is_active)
		VALUES ($1, $2, $3, $4, $5)`,
		pgUUIDFromUUID(id),
		pgUUIDFromUUID(tenantID),
		data.Name(),
		nullDecimal(data.CapacityHoursPerWeek()),
		data.Active(),
	)
	if err != nil {
		return resource.Resource{}, gerrors.Wrap(err, "failed to create resource")
	}
	return r.GetByID(ctx, id)
}

func (r *PgResourceRepository) Update(ctx context.Context, data resource.Resource) (resource.Resource, error) {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return resource.Resource{}, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return resource.Resource{}, err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE resources SET
			name = $3,
			capacity_hours_per_week = $4,
			is_active = $5,
			updated_at = now()
		WHERE id = $1 AND organization_id = $2`,
		pgUUIDFromUUID(data.ID()),
		pgTenantID,
		data.Name(),
		nullDecimal(data.CapacityHoursPerWeek()),
		data.Active(),
	)
	if err != nil {
		return resource.Resource{}, gerrors.Wrap(err, "failed to update resource")
	}
	if tag.RowsAffected() == 0 {
		return resource.Resource{}, ErrResourceNotFound
	}
	return r.GetByID(ctx, data.ID())
}

func (r *PgResourceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM resources WHERE id = $1 AND organization_id = $2`,
		pgUUIDFromUUID(id), pgTenantID,
	)
	if err != nil {
		return gerrors.Wrap(err, "failed to delete resource")
	}
	if tag.RowsAffected() == 0 {
		return ErrResourceNotFound
	}
	return nil
}

func collectResources(rows pgx.Rows) ([]resource.Resource, error) {
	var out []resource.Resource
	for rows.Next() {
		entity, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}

func scanResource(row pgx.Row) (resource.Resource, error) {
	var (
		id, organizationID   pgtype.UUID
		name                 string
		capacity             decimal.NullDecimal
		active               bool
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &organizationID, &name, &capacity, &active, &createdAt, &updatedAt); err != nil {
		return resource.Resource{}, err
	}
	return resource.Hydrate(
		uuidFromPg(id),
		uuidFromPg(organizationID),
		name,
		decimalPtr(capacity),
		active,
		createdAt,
		updatedAt,
	), nil
}
