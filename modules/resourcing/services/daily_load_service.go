package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/aggregates/allocation"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/aggregates/resource"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/entities/dailyload"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/governance"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/composables"
)

// DailyLoadService maintains the per-resource per-day read model and serves
// the timeline and heatmap queries built on it. The read model is a pure
// cache: every row is re-derivable from raw allocations plus current
// governance settings, so losing it only costs recompute latency.
type DailyLoadService struct {
	allocations allocation.Repository
	resources   resource.Repository
	dailyLoads  dailyload.Repository
	configs     governance.ConfigStore
}

func NewDailyLoadService(
	allocations allocation.Repository,
	resources resource.Repository,
	dailyLoads dailyload.Repository,
	configs governance.ConfigStore,
) *DailyLoadService {
	return &DailyLoadService{
		allocations: allocations,
		resources:   resources,
		dailyLoads:  dailyLoads,
		configs:     configs,
	}
}

// Refresh recomputes and upserts one row per day in [from, to] for the
// resource. Idempotent; safe to re-run for overlapping ranges, last write for
// a given day wins.
func (s *DailyLoadService) Refresh(ctx context.Context, resourceID uuid.UUID, from, to time.Time) error {
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		rows, err := s.computeRows(txCtx, resourceID, from, to)
		if err != nil {
			return err
		}
		return s.dailyLoads.Upsert(txCtx, rows)
	})
}

// Timeline returns one row per day in [from, to], preferring persisted read
// model rows and recomputing in memory for days the read model is missing.
func (s *DailyLoadService) Timeline(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]dailyload.DailyLoad, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]dailyload.DailyLoad, error) {
		persisted, err := s.dailyLoads.Range(txCtx, resourceID, from, to)
		if err != nil {
			return nil, err
		}
		byDate := make(map[time.Time]dailyload.DailyLoad, len(persisted))
		for _, row := range persisted {
			byDate[allocation.DateOnly(row.Date())] = row
		}

		computed, err := s.computeRows(txCtx, resourceID, from, to)
		if err != nil {
			return nil, err
		}
		out := make([]dailyload.DailyLoad, 0, len(computed))
		for _, row := range computed {
			if existing, ok := byDate[row.Date()]; ok {
				out = append(out, existing)
				continue
			}
			out = append(out, row)
		}
		return out, nil
	})
}

// Heatmap returns the date → resource-cells matrix for an organization,
// sourced from the read model. Dates are keyed in YYYY-MM-DD form.
func (s *DailyLoadService) Heatmap(ctx context.Context, params *dailyload.HeatmapParams) (map[string][]dailyload.HeatmapRow, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (map[string][]dailyload.HeatmapRow, error) {
		rows, err := s.dailyLoads.HeatmapRange(txCtx, params)
		if err != nil {
			return nil, err
		}
		matrix := make(map[string][]dailyload.HeatmapRow)
		for _, row := range rows {
			key := row.Date.Format("2006-01-02")
			matrix[key] = append(matrix[key], row)
		}
		return matrix, nil
	})
}

// computeRows derives the read-model rows for [from, to] from raw
// allocations: one range query, then per-day aggregation against the
// organization's current governance settings.
func (s *DailyLoadService) computeRows(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]dailyload.DailyLoad, error) {
	from = allocation.DateOnly(from)
	to = allocation.DateOnly(to)
	if from.After(to) {
		return nil, allocation.ErrDateOrder
	}

	res, err := s.resources.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	capacity := res.CapacityHoursPerWeek()

	allocs, err := s.allocations.Overlapping(ctx, &allocation.FindParams{
		ResourceID: resourceID,
		From:       from,
		To:         to,
	})
	if err != nil {
		return nil, err
	}

	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	blob, err := s.configs.OrgSettings(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	settings := governance.Resolve(blob)

	// Normalize each allocation once; the per-day loop only sums.
	type normalized struct {
		alloc   allocation.Allocation
		percent decimal.Decimal
	}
	loads := make([]normalized, 0, len(allocs))
	for _, a := range allocs {
		if a.IsGhost() {
			continue
		}
		percent, err := a.PercentOfWeek(capacity)
		if err != nil {
			return nil, err
		}
		loads = append(loads, normalized{alloc: a, percent: percent})
	}

	rows := make([]dailyload.DailyLoad, 0, int(to.Sub(from).Hours()/24)+1)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		hardLoad := decimal.Zero
		softLoad := decimal.Zero
		for _, l := range loads {
			if !l.alloc.ActiveOn(d) {
				continue
			}
			switch l.alloc.Type() {
			case allocation.Hard:
				hardLoad = hardLoad.Add(l.percent)
			case allocation.Soft:
				softLoad = softLoad.Add(l.percent)
			}
		}
		rows = append(rows, dailyload.New(resourceID, d, hardLoad, softLoad, settings))
	}
	return rows, nil
}
