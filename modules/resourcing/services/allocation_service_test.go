package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/aggregates/allocation"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/aggregates/resource"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/entities/conflict"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/services"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/eventbus"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/itf"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/serrors"
)

type allocationFixture struct {
	service     *services.AllocationService
	allocations *memAllocations
	resources   *memResources
	conflicts   *memConflicts
	configs     *staticConfigs
	bus         eventbus.EventBus
	resourceID  uuid.UUID
}

func newAllocationFixture(tb testing.TB) *allocationFixture {
	tb.Helper()
	log, _ := test.NewNullLogger()

	f := &allocationFixture{
		allocations: newMemAllocations(),
		resources:   newMemResources(),
		conflicts:   newMemConflicts(),
		configs:     &staticConfigs{},
		bus:         eventbus.NewEventPublisher(log),
		resourceID:  uuid.New(),
	}
	f.resources.add(resource.Hydrate(f.resourceID, uuid.Nil, "Dana Fields", nil, true, weekStart, weekStart))
	f.service = services.NewAllocationService(f.allocations, f.resources, f.conflicts, f.configs, f.bus)
	return f
}

func (f *allocationFixture) createDTO(percent string) *allocation.CreateDTO {
	p := decimal.RequireFromString(percent)
	return &allocation.CreateDTO{
		ResourceID: f.resourceID,
		ProjectID:  uuid.New(),
		StartDate:  weekStart.Format("2006-01-02"),
		EndDate:    weekEnd.Format("2006-01-02"),
		UnitsType:  "PERCENT",
		Percentage: &p,
		Type:       "HARD",
	}
}

func TestAllocationService_Create(t *testing.T) {
	f := newAllocationFixture(t)
	ctx := itf.NewTestContext().Build(t)

	var created []*allocation.CreatedEvent
	f.bus.Subscribe(func(ev *allocation.CreatedEvent) {
		created = append(created, ev)
	})

	entity, err := f.service.Create(ctx, f.createDTO("50"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, entity.ID())
	assert.Equal(t, "50.00", entity.Percentage().StringFixed(2))

	require.Len(t, created, 1)
	assert.Equal(t, entity.ID(), created[0].Result.ID())

	stored, err := f.allocations.GetByID(ctx, entity.ID())
	require.NoError(t, err)
	assert.Equal(t, allocation.Hard, stored.Type())
}

func TestAllocationService_Create_ValidationFailure(t *testing.T) {
	f := newAllocationFixture(t)
	ctx := itf.NewTestContext().Build(t)

	dto := f.createDTO("50")
	dto.EndDate = "2026-03-01"

	_, err := f.service.Create(ctx, dto)
	var fieldErrors serrors.ValidationErrors
	require.ErrorAs(t, err, &fieldErrors)
	assert.Contains(t, fieldErrors, "StartDate")
}

func TestAllocationService_Create_JustificationRequired(t *testing.T) {
	f := newAllocationFixture(t)
	ctx := itf.NewTestContext().Build(t)

	_, err := f.service.Create(ctx, f.createDTO("60"))
	require.NoError(t, err)

	_, err = f.service.Create(ctx, f.createDTO("60"))
	var rejection *services.RejectionError
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, services.ReasonJustificationRequired, rejection.Code)
	assert.Equal(t, "120", rejection.ProjectedTotal.String())

	dto := f.createDTO("60")
	dto.Justification = "parallel delivery streams"
	_, err = f.service.Create(ctx, dto)
	require.NoError(t, err)
}

func TestAllocationService_Create_HardCapExceeded(t *testing.T) {
	f := newAllocationFixture(t)
	ctx := itf.NewTestContext().Build(t)

	_, err := f.service.Create(ctx, f.createDTO("90"))
	require.NoError(t, err)

	dto := f.createDTO("70")
	dto.Justification = "does not matter"
	_, err = f.service.Create(ctx, dto)
	var rejection *services.RejectionError
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, services.ReasonHardCapExceeded, rejection.Code)
	assert.Equal(t, "150", rejection.Limit.String())
}

func TestAllocationService_Create_CustomHardCap(t *testing.T) {
	f := newAllocationFixture(t)
	f.configs.blob = []byte(`{"resourceManagementSettings": {"hardCap": 100, "requireJustificationAbove": 100}}`)
	ctx := itf.NewTestContext().Build(t)

	_, err := f.service.Create(ctx, f.createDTO("80"))
	require.NoError(t, err)

	_, err = f.service.Create(ctx, f.createDTO("30"))
	var rejection *services.RejectionError
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, services.ReasonHardCapExceeded, rejection.Code)
}

func TestAllocationService_Create_SoftOverbookRecordsConflict(t *testing.T) {
	f := newAllocationFixture(t)
	ctx := itf.NewTestContext().Build(t)

	_, err := f.service.Create(ctx, f.createDTO("90"))
	require.NoError(t, err)

	dto := f.createDTO("30")
	dto.Type = "SOFT"
	dto.Justification = "tentative follow-on phase"
	_, err = f.service.Create(ctx, dto)
	require.NoError(t, err)

	require.Equal(t, 1, f.conflicts.count())
	open, err := f.conflicts.UnresolvedInRange(ctx, f.resourceID, weekStart, weekEnd)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, conflict.Medium, open[0].Severity())
	assert.Equal(t, "120", open[0].TotalPercent().String())
}

func TestAllocationService_Create_GhostBypassesGovernance(t *testing.T) {
	f := newAllocationFixture(t)
	ctx := itf.NewTestContext().Build(t)

	committed := f.createDTO("140")
	committed.Justification = "approved crunch period"
	_, err := f.service.Create(ctx, committed)
	require.NoError(t, err)

	dto := f.createDTO("200")
	dto.Type = "GHOST"
	_, err = f.service.Create(ctx, dto)
	require.NoError(t, err)
	assert.Equal(t, 0, f.conflicts.count())
}

func TestAllocationService_Update(t *testing.T) {
	f := newAllocationFixture(t)
	ctx := itf.NewTestContext().Build(t)

	first, err := f.service.Create(ctx, f.createDTO("80"))
	require.NoError(t, err)

	var updates []*allocation.UpdatedEvent
	f.bus.Subscribe(func(ev *allocation.UpdatedEvent) {
		updates = append(updates, ev)
	})

	t.Run("RaisingOwnPercentExcludesSelf", func(t *testing.T) {
		newPercent := decimal.RequireFromString("95")
		updated, err := f.service.Update(ctx, first.ID(), &allocation.UpdateDTO{Percentage: &newPercent})
		require.NoError(t, err)
		assert.Equal(t, "95.00", updated.Percentage().StringFixed(2))
		require.Len(t, updates, 1)
		assert.Equal(t, "80.00", updates[0].Previous.Percentage().StringFixed(2))
	})

	t.Run("UpdateRunsGovernance", func(t *testing.T) {
		second := f.createDTO("50")
		second.Justification = "handover overlap"
		_, err := f.service.Create(ctx, second)
		require.NoError(t, err)

		newPercent := decimal.RequireFromString("110")
		_, err = f.service.Update(ctx, first.ID(), &allocation.UpdateDTO{Percentage: &newPercent})
		var rejection *services.RejectionError
		require.ErrorAs(t, err, &rejection)
		assert.Equal(t, services.ReasonHardCapExceeded, rejection.Code)
	})
}

func TestAllocationService_Delete(t *testing.T) {
	f := newAllocationFixture(t)
	ctx := itf.NewTestContext().Build(t)

	entity, err := f.service.Create(ctx, f.createDTO("50"))
	require.NoError(t, err)

	var deleted []*allocation.DeletedEvent
	f.bus.Subscribe(func(ev *allocation.DeletedEvent) {
		deleted = append(deleted, ev)
	})

	removed, err := f.service.Delete(ctx, entity.ID())
	require.NoError(t, err)
	assert.Equal(t, entity.ID(), removed.ID())
	require.Len(t, deleted, 1)

	_, err = f.allocations.GetByID(ctx, entity.ID())
	require.Error(t, err)
}

func TestAllocationService_Evaluate_DryRun(t *testing.T) {
	f := newAllocationFixture(t)
	ctx := itf.NewTestContext().Build(t)

	verdict, err := f.service.Evaluate(ctx, f.createDTO("170"))
	require.NoError(t, err)
	assert.False(t, verdict.Accepted)
	assert.Equal(t, services.ReasonHardCapExceeded, verdict.Reason)

	overlapping, err := f.allocations.Overlapping(ctx, &allocation.FindParams{
		ResourceID: f.resourceID,
		From:       weekStart,
		To:         weekEnd,
	})
	require.NoError(t, err)
	assert.Empty(t, overlapping, "dry run must not persist")
}
