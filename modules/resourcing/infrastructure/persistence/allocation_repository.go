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

	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/aggregates/allocation"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/composables"
)

var ErrAllocationNotFound = gerrors.New("allocation not found")

const allocationColumns = `id, organization_id, resource_id, project_id, task_id, start_date, end_date,
	units_type, allocation_percentage, hours_per_week, hours_per_day, type, justification, created_at, updated_at`

type PgAllocationRepository struct{}

func NewAllocationRepository() allocation.Repository {
	return &PgAllocationRepository{}
}

func (r *PgAllocationRepository) GetByID(ctx context.Context, id uuid.UUID) (allocation.Allocation, error) {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return allocation.Allocation{}, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return allocation.Allocation{}, err
	}

	row := tx.QueryRow(ctx, `
		SELECT `+allocationColumns+`
		FROM allocations
		WHERE id = $1 AND organization_id = $2`,
		pgUUIDFromUUID(id), pgTenantID,
	)
	entity, err := scanAllocation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return allocation.Allocation{}, ErrAllocationNotFound
		}
		return allocation.Allocation{}, err
	}
	return entity, nil
}

func (r *PgAllocationRepository) Overlapping(ctx context.Context, params *allocation.FindParams) ([]allocation.Allocation, error) {
	if params == nil {
		return nil, gerrors.New("overlapping query requires params")
	}
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + allocationColumns + `
		FROM allocations
		WHERE organization_id = $1
		  AND resource_id = $2
		  AND start_date <= $3
		  AND end_date >= $4`
	args := []any{pgTenantID, pgUUIDFromUUID(params.ResourceID), params.To, params.From}

	if !params.IncludeGhost {
		query += ` AND type <> 'GHOST'`
	}
	if params.ExcludeID != uuid.Nil {
		query += ` AND id <> $5`
		args = append(args, pgUUIDFromUUID(params.ExcludeID))
	}
	query += ` ORDER BY start_date, id`

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to query overlapping allocations")
	}
	defer rows.Close()

	var out []allocation.Allocation
	for rows.Next() {
		entity, err := scanAllocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}

func (r *PgAllocationRepository) Create(ctx context.Context, data allocation.Allocation) (allocation.Allocation, error) {
	tenantID, _, err := tenantIDs(ctx)
	if err != nil {
		return allocation.Allocation{}, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return allocation.Allocation{}, err
	}

	id := data.ID()
	if id == uuid.Nil {
		id = uuid.New()
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO allocations (
			id, organization_id, resource_id, project_id, task_id, start_date, end_date,
			units_type, allocation_percentage, hours_per_week, hours_per_day, type, justification
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		pgUUIDFromUUID(id),
		pgUUIDFromUUID(tenantID),
		pgUUIDFromUUID(data.ResourceID()),
		pgUUIDFromUUID(data.ProjectID()),
		pgUUIDFromPtr(data.TaskID()),
		data.StartDate(),
		data.EndDate(),
		string(data.UnitsType()),
		nullDecimal(data.Percentage()),
		nullDecimal(data.HoursPerWeek()),
		nullDecimal(data.HoursPerDay()),
		string(data.Type()),
		data.Justification(),
	)
	if err != nil {
		return allocation.Allocation{}, gerrors.Wrap(err, "failed to create allocation")
	}
	return r.GetByID(ctx, id)
}

func (r *PgAllocationRepository) Update(ctx context.Context, data allocation.Allocation) (allocation.Allocation, error) {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return allocation.Allocation{}, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return allocation.Allocation{}, err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE allocations SET
			start_date = $3,
			end_date = $4,
			units_type = $5,
			allocation_percentage = $6,
			hours_per_week = $7,
			hours_per_day = $8,
			type = $9,
			justification = $10,
			updated_at = now()
		WHERE id = $1 AND organization_id = $2`,
		pgUUIDFromUUID(data.ID()),
		pgTenantID,
		data.StartDate(),
		data.EndDate(),
		string(data.UnitsType()),
		nullDecimal(data.Percentage()),
		nullDecimal(data.HoursPerWeek()),
		nullDecimal(data.HoursPerDay()),
		string(data.Type()),
		data.Justification(),
	)
	if err != nil {
		return allocation.Allocation{}, gerrors.Wrap(err, "failed to update allocation")
	}
	if tag.RowsAffected() == 0 {
		return allocation.Allocation{}, ErrAllocationNotFound
	}
	return r.GetByID(ctx, data.ID())
}

func (r *PgAllocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM allocations WHERE id = $1 AND organization_id = $2`,
		pgUUIDFromUUID(id), pgTenantID,
	)
	if err != nil {
		return gerrors.Wrap(err, "failed to delete allocation")
	}
	if tag.RowsAffected() == 0 {
		return ErrAllocationNotFound
	}
	return nil
}

func scanAllocation(row pgx.Row) (allocation.Allocation, error) {
	var (
		id, organizationID, resourceID, projectID pgtype.UUID
		taskID                                    pgtype.UUID
		startDate, endDate                        time.Time
		unitsType, typ, justification             string
		percentage, hoursPerWeek, hoursPerDay     decimal.NullDecimal
		createdAt, updatedAt                      time.Time
	)
	err := row.Scan(
		&id, &organizationID, &resourceID, &projectID, &taskID,
		&startDate, &endDate, &unitsType,
		&percentage, &hoursPerWeek, &hoursPerDay,
		&typ, &justification, &createdAt, &updatedAt,
	)
	if err != nil {
		return allocation.Allocation{}, err
	}

	return allocation.Hydrate(
		uuidFromPg(id),
		uuidFromPg(organizationID),
		uuidFromPg(resourceID),
		uuidFromPg(projectID),
		uuidPtrFromPg(taskID),
		startDate,
		endDate,
		allocation.UnitsType(unitsType),
		decimalPtr(percentage),
		decimalPtr(hoursPerWeek),
		decimalPtr(hoursPerDay),
		allocation.Type(typ),
		justification,
		createdAt,
		updatedAt,
	), nil
}
