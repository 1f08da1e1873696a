package dailyload

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HeatmapRow is one cell of the org-wide heatmap: a resource's load band on
// one day, joined with the resource name for display.
type HeatmapRow struct {
	Date           time.Time
	ResourceID     uuid.UUID
	ResourceName   string
	HardLoad       decimal.Decimal
	SoftLoad       decimal.Decimal
	Classification Classification
}

// HeatmapParams filters the heatmap query. When WorkspaceID is set, only
// resources with at least one allocation to a project in that workspace (or
// to an unscoped project) are included.
type HeatmapParams struct {
	From        time.Time
	To          time.Time
	WorkspaceID *uuid.UUID
}

type Repository interface {
	// Upsert writes rows keyed by (organization, resource, date); the last
	// write for a given day wins.
	Upsert(ctx context.Context, rows []DailyLoad) error
	Range(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]DailyLoad, error)
	HeatmapRange(ctx context.Context, params *HeatmapParams) ([]HeatmapRow, error)
	// CapacityOverrides returns explicit per-day capacity overrides keyed by
	// midnight-normalized date. Sourced separately from computed loads.
	CapacityOverrides(ctx context.Context, resourceID uuid.UUID, from, to time.Time) (map[time.Time]decimal.Decimal, error)
}
