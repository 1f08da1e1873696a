package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/aggregates/allocation"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/aggregates/resource"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/entities/conflict"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/risk"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/services"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/itf"
)

type riskFixture struct {
	service     *services.RiskService
	allocations *memAllocations
	resources   *memResources
	conflicts   *memConflicts
	dailyLoads  *memDailyLoads
	directory   *staticDirectory
}

func newRiskFixture(tb testing.TB) *riskFixture {
	tb.Helper()
	f := &riskFixture{
		allocations: newMemAllocations(),
		resources:   newMemResources(),
		conflicts:   newMemConflicts(),
		dailyLoads:  newMemDailyLoads(),
		directory:   &staticDirectory{},
	}
	f.service = services.NewRiskService(f.allocations, f.resources, f.conflicts, f.dailyLoads, f.directory)
	return f
}

func (f *riskFixture) addResource(name string) uuid.UUID {
	id := uuid.New()
	f.resources.add(resource.Hydrate(id, uuid.Nil, name, nil, true, weekStart, weekStart))
	return id
}

func (f *riskFixture) addAllocation(resourceID uuid.UUID, typ allocation.Type, percent string, from, to time.Time) {
	p := decimal.RequireFromString(percent)
	f.allocations.add(allocation.Hydrate(
		uuid.New(), uuid.Nil, resourceID, uuid.New(), nil,
		from, to,
		allocation.Percent, &p, nil, nil,
		typ, "", time.Now(), time.Now(),
	))
}

func TestRiskService_ScoreResource_RangeValidation(t *testing.T) {
	f := newRiskFixture(t)
	ctx := itf.NewTestContext().Build(t)
	resourceID := f.addResource("Lena Kovac")

	t.Run("StartAfterEnd", func(t *testing.T) {
		_, err := f.service.ScoreResource(ctx, resourceID, weekEnd, weekStart)
		require.ErrorIs(t, err, services.ErrInvalidDateRange)
	})

	t.Run("RangeOverAYear", func(t *testing.T) {
		_, err := f.service.ScoreResource(ctx, resourceID, weekStart, weekStart.AddDate(0, 0, 365))
		require.ErrorIs(t, err, services.ErrRangeTooLarge)
	})

	t.Run("ExactlyAYearAllowed", func(t *testing.T) {
		_, err := f.service.ScoreResource(ctx, resourceID, weekStart, weekStart.AddDate(0, 0, 364))
		require.NoError(t, err)
	})
}

func TestRiskService_ScoreResource_Metrics(t *testing.T) {
	f := newRiskFixture(t)
	ctx := itf.NewTestContext().Build(t)
	resourceID := f.addResource("Lena Kovac")

	from := weekStart
	to := weekStart.AddDate(0, 0, 9)

	// 160% hard over the first two days, 60% over the rest.
	f.addAllocation(resourceID, allocation.Hard, "160", from, from.AddDate(0, 0, 1))
	f.addAllocation(resourceID, allocation.Hard, "60", from.AddDate(0, 0, 2), to)
	f.addAllocation(resourceID, allocation.Ghost, "900", from, to)

	result, err := f.service.ScoreResource(ctx, resourceID, from, to)
	require.NoError(t, err)

	assert.Equal(t, 160.0, result.Metrics.MaxAllocationPercent)
	assert.Equal(t, 2, result.Metrics.DaysAbove100)
	assert.Equal(t, 2, result.Metrics.DaysAbove120)
	assert.Equal(t, 2, result.Metrics.DaysAbove150)
	assert.Equal(t, 10, result.Metrics.TotalDays)
	assert.Equal(t, 1, result.Metrics.MaxConcurrentProjects)
	assert.Equal(t, 80.0, result.Metrics.AverageAllocationPercent)
	assert.Greater(t, result.Score, 40)
	require.NotEmpty(t, result.TopFactors)
	assert.Equal(t, risk.FactorMaxOver150, result.TopFactors[0].Code)
}

func TestRiskService_ScoreResource_CapacityOverrideWins(t *testing.T) {
	f := newRiskFixture(t)
	ctx := itf.NewTestContext().Build(t)
	resourceID := f.addResource("Lena Kovac")

	f.addAllocation(resourceID, allocation.Hard, "60", weekStart, weekEnd)
	f.dailyLoads.setOverride(resourceID, weekStart, decimal.RequireFromString("170"))

	result, err := f.service.ScoreResource(ctx, resourceID, weekStart, weekEnd)
	require.NoError(t, err)
	assert.Equal(t, 170.0, result.Metrics.MaxAllocationPercent)
	assert.Equal(t, 1, result.Metrics.DaysAbove150)
}

func TestRiskService_ScoreResource_ConflictsRaiseScore(t *testing.T) {
	f := newRiskFixture(t)
	ctx := itf.NewTestContext().Build(t)
	resourceID := f.addResource("Lena Kovac")

	f.addAllocation(resourceID, allocation.Hard, "110", weekStart, weekEnd)

	base, err := f.service.ScoreResource(ctx, resourceID, weekStart, weekEnd)
	require.NoError(t, err)

	_, err = f.conflicts.Create(ctx, conflict.New(resourceID, weekStart, weekEnd, decimal.RequireFromString("160")))
	require.NoError(t, err)

	withConflict, err := f.service.ScoreResource(ctx, resourceID, weekStart, weekEnd)
	require.NoError(t, err)

	assert.Equal(t, 1, withConflict.Metrics.ExistingConflictsCount)
	assert.Equal(t, conflict.Critical, withConflict.Metrics.MaxConflictSeverity)
	assert.Greater(t, withConflict.Score, base.Score)
}

func TestRiskService_WorkspaceSummary(t *testing.T) {
	f := newRiskFixture(t)
	ctx := itf.NewTestContext().Build(t)
	workspaceID := uuid.New()

	calm := f.addResource("Calm Resource")
	busy := f.addResource("Busy Resource")
	missing := uuid.New()
	f.directory.ids = []uuid.UUID{calm, busy, missing}

	f.addAllocation(calm, allocation.Hard, "40", weekStart, weekEnd)
	f.addAllocation(busy, allocation.Hard, "170", weekStart, weekEnd)

	summary, err := f.service.WorkspaceSummary(ctx, workspaceID, weekStart, weekEnd, services.SummaryOptions{})
	require.NoError(t, err)

	assert.Equal(t, workspaceID, summary.WorkspaceID)
	assert.Equal(t, 2, summary.ScoredCount, "unknown resources are skipped, not fatal")
	require.Len(t, summary.Resources, 2)
	assert.Equal(t, busy, summary.Resources[0].ResourceID, "ranked by score descending")
	assert.Equal(t, 1, summary.SeverityCounts[risk.High])
	assert.Equal(t, 1, summary.SeverityCounts[risk.Low])
	assert.Greater(t, summary.AverageScore, 0.0)
}

func TestRiskService_WorkspaceSummary_FilterAndLimit(t *testing.T) {
	f := newRiskFixture(t)
	ctx := itf.NewTestContext().Build(t)

	var ids []uuid.UUID
	for i := 0; i < 4; i++ {
		id := f.addResource("Resource")
		f.addAllocation(id, allocation.Hard, "170", weekStart, weekEnd)
		ids = append(ids, id)
	}
	calm := f.addResource("Calm")
	f.addAllocation(calm, allocation.Hard, "30", weekStart, weekEnd)
	f.directory.ids = append(ids, calm)

	summary, err := f.service.WorkspaceSummary(ctx, uuid.New(), weekStart, weekEnd, services.SummaryOptions{
		MinRiskScore: 40,
		Limit:        2,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, summary.ScoredCount, "averages cover every scored resource")
	require.Len(t, summary.Resources, 2, "limit truncates the ranked list")
	for _, r := range summary.Resources {
		assert.GreaterOrEqual(t, r.Score, 40)
	}
}

func TestRiskService_WorkspaceSummary_InvalidRange(t *testing.T) {
	f := newRiskFixture(t)
	ctx := itf.NewTestContext().Build(t)

	_, err := f.service.WorkspaceSummary(ctx, uuid.New(), weekEnd, weekStart, services.SummaryOptions{})
	require.ErrorIs(t, err, services.ErrInvalidDateRange)
}
