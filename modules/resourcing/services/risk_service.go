package services

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/aggregates/allocation"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/aggregates/resource"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/entities/conflict"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/entities/dailyload"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/risk"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/composables"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/serrors"
)

var (
	ErrInvalidDateRange = serrors.NewError("INVALID_DATE_RANGE", "date range start must not be after end")
	ErrRangeTooLarge    = serrors.NewError("RANGE_TOO_LARGE", "date range must not exceed 365 days")
)

const (
	maxRiskRangeDays    = 365
	riskWorkerCount     = 8
	defaultSummaryLimit = 10
)

// WorkspaceDirectory is the external access-control collaborator resolving
// which resources a workspace exposes.
type WorkspaceDirectory interface {
	AccessibleResourceIDs(ctx context.Context, workspaceID uuid.UUID) ([]uuid.UUID, error)
}

// RiskMetrics is the aggregated picture a score was computed from, returned
// alongside the score so callers can explain it.
type RiskMetrics struct {
	AverageAllocationPercent float64            `json:"average_allocation_percent"`
	MaxAllocationPercent     float64            `json:"max_allocation_percent"`
	DaysAbove100             int                `json:"days_above_100"`
	DaysAbove120             int                `json:"days_above_120"`
	DaysAbove150             int                `json:"days_above_150"`
	TotalDays                int                `json:"total_days"`
	MaxConcurrentProjects    int                `json:"max_concurrent_projects"`
	ExistingConflictsCount   int                `json:"existing_conflicts_count"`
	MaxConflictSeverity      conflict.Severity  `json:"max_conflict_severity,omitempty"`
}

type ResourceRisk struct {
	ResourceID uuid.UUID         `json:"resource_id"`
	Score      int               `json:"risk_score"`
	Severity   risk.SeverityBand `json:"severity"`
	TopFactors []risk.Factor     `json:"top_factors"`
	Metrics    RiskMetrics       `json:"metrics"`
}

type SummaryOptions struct {
	MinRiskScore int
	Limit        int
}

type WorkspaceRiskSummary struct {
	WorkspaceID    uuid.UUID                 `json:"workspace_id"`
	Resources      []ResourceRisk            `json:"resources"`
	SeverityCounts map[risk.SeverityBand]int `json:"severity_counts"`
	AverageScore   float64                   `json:"average_score"`
	ScoredCount    int                       `json:"scored_count"`
}

// RiskService computes per-resource risk scores and workspace-level ranked
// summaries. Scoring reads raw allocations plus the conflict ledger; it never
// mutates state.
type RiskService struct {
	allocations allocation.Repository
	resources   resource.Repository
	conflicts   conflict.Repository
	dailyLoads  dailyload.Repository
	workspaces  WorkspaceDirectory
}

func NewRiskService(
	allocations allocation.Repository,
	resources resource.Repository,
	conflicts conflict.Repository,
	dailyLoads dailyload.Repository,
	workspaces WorkspaceDirectory,
) *RiskService {
	return &RiskService{
		allocations: allocations,
		resources:   resources,
		conflicts:   conflicts,
		dailyLoads:  dailyLoads,
		workspaces:  workspaces,
	}
}

func (s *RiskService) ScoreResource(ctx context.Context, resourceID uuid.UUID, from, to time.Time) (*ResourceRisk, error) {
	from = allocation.DateOnly(from)
	to = allocation.DateOnly(to)
	if from.After(to) {
		return nil, ErrInvalidDateRange
	}
	totalDays := int(to.Sub(from).Hours()/24) + 1
	if totalDays > maxRiskRangeDays {
		return nil, ErrRangeTooLarge
	}

	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (*ResourceRisk, error) {
		metrics, err := s.collectMetrics(txCtx, resourceID, from, to, totalDays)
		if err != nil {
			return nil, err
		}

		result := risk.ComputeScore(risk.Input{
			AverageAllocationPercent: metrics.AverageAllocationPercent,
			MaxAllocationPercent:     metrics.MaxAllocationPercent,
			DaysAbove100:             metrics.DaysAbove100,
			DaysAbove120:             metrics.DaysAbove120,
			DaysAbove150:             metrics.DaysAbove150,
			TotalDays:                metrics.TotalDays,
			MaxConcurrentProjects:    metrics.MaxConcurrentProjects,
			ExistingConflictsCount:   metrics.ExistingConflictsCount,
			MaxConflictSeverity:      metrics.MaxConflictSeverity,
		})
		riskScorings.Inc()

		return &ResourceRisk{
			ResourceID: resourceID,
			Score:      result.Score,
			Severity:   result.Severity,
			TopFactors: result.Factors,
			Metrics:    *metrics,
		}, nil
	})
}

// WorkspaceSummary fans one scoring call out per accessible resource on a
// bounded worker pool. Resources that fail to score (deleted mid-flight,
// bad data) are skipped rather than failing the whole summary.
func (s *RiskService) WorkspaceSummary(ctx context.Context, workspaceID uuid.UUID, from, to time.Time, opts SummaryOptions) (*WorkspaceRiskSummary, error) {
	if allocation.DateOnly(from).After(allocation.DateOnly(to)) {
		return nil, ErrInvalidDateRange
	}

	resourceIDs, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]uuid.UUID, error) {
		return s.workspaces.AccessibleResourceIDs(txCtx, workspaceID)
	})
	if err != nil {
		return nil, err
	}

	// Workers score independent resources concurrently; each opens its own
	// transaction on a detached context so nothing mutable is shared.
	baseCtx := composables.Detach(ctx)
	log := composables.UseLogger(ctx)

	jobs := make(chan uuid.UUID)
	var mu sync.Mutex
	scored := make([]ResourceRisk, 0, len(resourceIDs))

	var wg sync.WaitGroup
	for i := 0; i < riskWorkerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				result, err := s.ScoreResource(baseCtx, id, from, to)
				if err != nil {
					log.WithError(err).WithField("resource_id", id).Debug("skipping resource in workspace risk summary")
					continue
				}
				mu.Lock()
				scored = append(scored, *result)
				mu.Unlock()
			}
		}()
	}
	for _, id := range resourceIDs {
		jobs <- id
	}
	close(jobs)
	wg.Wait()

	summary := &WorkspaceRiskSummary{
		WorkspaceID:    workspaceID,
		SeverityCounts: map[risk.SeverityBand]int{},
		ScoredCount:    len(scored),
	}

	totalScore := 0
	for _, r := range scored {
		summary.SeverityCounts[r.Severity]++
		totalScore += r.Score
	}
	if len(scored) > 0 {
		summary.AverageScore = math.Round(float64(totalScore)/float64(len(scored))*100) / 100
	}

	ranked := make([]ResourceRisk, 0, len(scored))
	for _, r := range scored {
		if r.Score >= opts.MinRiskScore {
			ranked = append(ranked, r)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ResourceID.String() < ranked[j].ResourceID.String()
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultSummaryLimit
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	summary.Resources = ranked
	return summary, nil
}

// collectMetrics builds the per-day totals for the range, preferring an
// explicit daily capacity override for a day over the computed allocation
// sum.
func (s *RiskService) collectMetrics(ctx context.Context, resourceID uuid.UUID, from, to time.Time, totalDays int) (*RiskMetrics, error) {
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

	overrides, err := s.dailyLoads.CapacityOverrides(ctx, resourceID, from, to)
	if err != nil {
		return nil, err
	}

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

	metrics := &RiskMetrics{TotalDays: totalDays}
	sumTotals := 0.0
	peak := -1.0

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		projects := map[uuid.UUID]struct{}{}
		computed := decimal.Zero
		for _, l := range loads {
			if !l.alloc.ActiveOn(d) {
				continue
			}
			computed = computed.Add(l.percent)
			projects[l.alloc.ProjectID()] = struct{}{}
		}

		total := computed
		if override, ok := overrides[allocation.DateOnly(d)]; ok {
			total = override
		}
		totalF, _ := total.Float64()

		sumTotals += totalF
		if totalF > peak {
			peak = totalF
			metrics.MaxConcurrentProjects = len(projects)
		}
		if totalF > 100 {
			metrics.DaysAbove100++
		}
		if totalF > 120 {
			metrics.DaysAbove120++
		}
		if totalF > 150 {
			metrics.DaysAbove150++
		}
	}

	if peak > 0 {
		metrics.MaxAllocationPercent = peak
	}
	if totalDays > 0 {
		metrics.AverageAllocationPercent = math.Round(sumTotals/float64(totalDays)*100) / 100
	}

	open, err := s.conflicts.UnresolvedInRange(ctx, resourceID, from, to)
	if err != nil {
		return nil, err
	}
	metrics.ExistingConflictsCount = len(open)
	for _, c := range open {
		if c.Severity().Rank() > metrics.MaxConflictSeverity.Rank() {
			metrics.MaxConflictSeverity = c.Severity()
		}
	}
	return metrics, nil
}
