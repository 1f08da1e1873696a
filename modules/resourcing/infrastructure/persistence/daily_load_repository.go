package persistence

import (
	"context"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/aggregates/allocation"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/entities/dailyload"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/governance"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/composables"
)

type PgDailyLoadRepository struct{}

func NewDailyLoadRepository() dailyload.Repository {
	return &PgDailyLoadRepository{}
}

func (r *PgDailyLoadRepository) Upsert(ctx context.Context, rows []dailyload.DailyLoad) error {
	if len(rows) == 0 {
		return nil
	}
	tenantID, _, err := tenantIDs(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	for _, row := range rows {
		settings := row.Settings()
		_, err := tx.Exec(ctx, `
			INSERT INTO daily_loads (
				organization_id, resource_id, date,
				hard_load_percent, soft_load_percent, capacity_percent,
				warning_threshold, critical_threshold, hard_cap, require_justification_above,
				classification, computed_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
			ON CONFLICT (organization_id, resource_id, date) DO UPDATE SET
				hard_load_percent = EXCLUDED.hard_load_percent,
				soft_load_percent = EXCLUDED.soft_load_percent,
				capacity_percent = EXCLUDED.capacity_percent,
				warning_threshold = EXCLUDED.warning_threshold,
				critical_threshold = EXCLUDED.critical_threshold,
				hard_cap = EXCLUDED.hard_cap,
				require_justification_above = EXCLUDED.require_justification_above,
				classification = EXCLUDED.classification,
				computed_at = EXCLUDED.computed_at`,
			pgUUIDFromUUID(tenantID),
			pgUUIDFromUUID(row.ResourceID()),
			row.Date(),
			row.HardLoadPercent(),
			row.SoftLoadPercent(),
			row.CapacityPercent(),
			settings.WarningThreshold,
			settings.CriticalThreshold,
			settings.HardCap,
			settings.RequireJustificationAbove,
			string(row.Classification()),
		)
		if err != nil {
			return gerrors.Wrap(err, "failed to upsert daily load")
		}
	}
	return nil
}

func (r *PgDailyLoadRepository) Range(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]dailyload.DailyLoad, error) {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT organization_id, resource_id, date,
			hard_load_percent, soft_load_percent, capacity_percent,
			warning_threshold, critical_threshold, hard_cap, require_justification_above,
			classification, computed_at
		FROM daily_loads
		WHERE organization_id = $1 AND resource_id = $2 AND date BETWEEN $3 AND $4
		ORDER BY date`,
		pgTenantID, pgUUIDFromUUID(resourceID), from, to,
	)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to query daily loads")
	}
	defer rows.Close()

	var out []dailyload.DailyLoad
	for rows.Next() {
		var (
			organizationID, resID                    pgtype.UUID
			date, computedAt                         time.Time
			hardLoad, softLoad, capacityPercent      decimal.Decimal
			warning, critical, hardCap, justifyAbove decimal.Decimal
			classification                           string
		)
		err := rows.Scan(
			&organizationID, &resID, &date,
			&hardLoad, &softLoad, &capacityPercent,
			&warning, &critical, &hardCap, &justifyAbove,
			&classification, &computedAt,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, dailyload.Hydrate(
			uuidFromPg(organizationID),
			uuidFromPg(resID),
			allocation.DateOnly(date),
			hardLoad, softLoad, capacityPercent,
			governance.Settings{
				WarningThreshold:          warning,
				CriticalThreshold:         critical,
				HardCap:                   hardCap,
				RequireJustificationAbove: justifyAbove,
			},
			dailyload.Classification(classification),
			computedAt,
		))
	}
	return out, rows.Err()
}

func (r *PgDailyLoadRepository) HeatmapRange(ctx context.Context, params *dailyload.HeatmapParams) ([]dailyload.HeatmapRow, error) {
	if params == nil {
		return nil, gerrors.New("heatmap query requires params")
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
		SELECT dl.date, dl.resource_id, res.name, dl.hard_load_percent, dl.soft_load_percent, dl.classification
		FROM daily_loads dl
		JOIN resources res ON res.id = dl.resource_id AND res.organization_id = dl.organization_id
		WHERE dl.organization_id = $1 AND dl.date BETWEEN $2 AND $3`
	args := []any{pgTenantID, params.From, params.To}

	if params.WorkspaceID != nil {
		// Keep only resources allocated to a project in the workspace or to
		// an unscoped project.
		query += `
		  AND EXISTS (
			SELECT 1
			FROM allocations a
			LEFT JOIN projects p ON p.id = a.project_id
			WHERE a.resource_id = dl.resource_id
			  AND a.organization_id = dl.organization_id
			  AND (p.workspace_id = $4 OR p.workspace_id IS NULL)
		  )`
		args = append(args, pgUUIDFromUUID(*params.WorkspaceID))
	}
	query += ` ORDER BY dl.date, res.name`

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to query heatmap")
	}
	defer rows.Close()

	var out []dailyload.HeatmapRow
	for rows.Next() {
		var (
			date               time.Time
			resID              pgtype.UUID
			name               string
			hardLoad, softLoad decimal.Decimal
			classification     string
		)
		if err := rows.Scan(&date, &resID, &name, &hardLoad, &softLoad, &classification); err != nil {
			return nil, err
		}
		out = append(out, dailyload.HeatmapRow{
			Date:           allocation.DateOnly(date),
			ResourceID:     uuidFromPg(resID),
			ResourceName:   name,
			HardLoad:       hardLoad,
			SoftLoad:       softLoad,
			Classification: dailyload.Classification(classification),
		})
	}
	return out, rows.Err()
}

func (r *PgDailyLoadRepository) CapacityOverrides(ctx context.Context, resourceID uuid.UUID, from, to time.Time) (map[time.Time]decimal.Decimal, error) {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT date, total_percent
		FROM capacity_overrides
		WHERE organization_id = $1 AND resource_id = $2 AND date BETWEEN $3 AND $4`,
		pgTenantID, pgUUIDFromUUID(resourceID), from, to,
	)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to query capacity overrides")
	}
	defer rows.Close()

	out := map[time.Time]decimal.Decimal{}
	for rows.Next() {
		var (
			date  time.Time
			total decimal.Decimal
		)
		if err := rows.Scan(&date, &total); err != nil {
			return nil, err
		}
		out[allocation.DateOnly(date)] = total
	}
	return out, rows.Err()
}
