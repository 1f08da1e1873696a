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

	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/entities/conflict"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/composables"
)

var ErrConflictNotFound = gerrors.New("conflict record not found")

const conflictColumns = `id, organization_id, resource_id, start_date, end_date,
	total_allocation_percent, severity, status, detected_at, resolved_at`

type PgConflictRepository struct{}

func NewConflictRepository() conflict.Repository {
	return &PgConflictRepository{}
}

func (r *PgConflictRepository) Create(ctx context.Context, data conflict.Conflict) (conflict.Conflict, error) {
	tenantID, _, err := tenantIDs(ctx)
	if err != nil {
		return conflict.Conflict{}, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return conflict.Conflict{}, err
	}

	id := data.ID()
	if id == uuid.Nil {
		id = uuid.New()
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO resource_conflicts (
			id, organization_id, resource_id, start_date, end_date,
			total_allocation_percent, severity, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		pgUUIDFromUUID(id),
		pgUUIDFromUUID(tenantID),
		pgUUIDFromUUID(data.ResourceID()),
		data.StartDate(),
		data.EndDate(),
		data.TotalPercent(),
		string(data.Severity()),
		string(data.Status()),
	)
	if err != nil {
		return conflict.Conflict{}, gerrors.Wrap(err, "failed to create conflict record")
	}
	return r.GetByID(ctx, id)
}

func (r *PgConflictRepository) GetByID(ctx context.Context, id uuid.UUID) (conflict.Conflict, error) {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return conflict.Conflict{}, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return conflict.Conflict{}, err
	}

	row := tx.QueryRow(ctx, `
		SELECT `+conflictColumns+`
		FROM resource_conflicts
		WHERE id = $1 AND organization_id = $2`,
		pgUUIDFromUUID(id), pgTenantID,
	)
	entity, err := scanConflict(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return conflict.Conflict{}, ErrConflictNotFound
		}
		return conflict.Conflict{}, err
	}
	return entity, nil
}

func (r *PgConflictRepository) UnresolvedInRange(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]conflict.Conflict, error) {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT `+conflictColumns+`
		FROM resource_conflicts
		WHERE organization_id = $1
		  AND resource_id = $2
		  AND status = 'open'
		  AND start_date <= $3
		  AND end_date >= $4
		ORDER BY detected_at`,
		pgTenantID, pgUUIDFromUUID(resourceID), to, from,
	)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to query unresolved conflicts")
	}
	defer rows.Close()

	var out []conflict.Conflict
	for rows.Next() {
		entity, err := scanConflict(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}

func (r *PgConflictRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status conflict.Status) error {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE resource_conflicts SET
			status = $3,
			resolved_at = CASE WHEN $3 = 'resolved' THEN now() ELSE resolved_at END
		WHERE id = $1 AND organization_id = $2`,
		pgUUIDFromUUID(id), pgTenantID, string(status),
	)
	if err != nil {
		return gerrors.Wrap(err, "failed to update conflict status")
	}
	if tag.RowsAffected() == 0 {
		return ErrConflictNotFound
	}
	return nil
}

func scanConflict(row pgx.Row) (conflict.Conflict, error) {
	var (
		id, organizationID, resourceID pgtype.UUID
		startDate, endDate, detectedAt time.Time
		resolvedAt                     *time.Time
		totalPercent                   decimal.Decimal
		severity, status               string
	)
	err := row.Scan(
		&id, &organizationID, &resourceID,
		&startDate, &endDate, &totalPercent,
		&severity, &status, &detectedAt, &resolvedAt,
	)
	if err != nil {
		return conflict.Conflict{}, err
	}
	return conflict.Hydrate(
		uuidFromPg(id),
		uuidFromPg(organizationID),
		uuidFromPg(resourceID),
		startDate,
		endDate,
		totalPercent,
		conflict.Severity(severity),
		conflict.Status(status),
		detectedAt,
		resolvedAt,
	), nil
}
