package services_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/aggregates/allocation"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/aggregates/resource"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/entities/conflict"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/entities/dailyload"
)

var errNotFound = errors.New("not found")

type memAllocations struct {
	mu    sync.Mutex
	items map[uuid.UUID]allocation.Allocation
}

func newMemAllocations() *memAllocations {
	return &memAllocations{items: map[uuid.UUID]allocation.Allocation{}}
}

func (m *memAllocations) add(a allocation.Allocation) allocation.Allocation {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := a.ID()
	if id == uuid.Nil {
		id = uuid.New()
		a = rehydrate(id, a)
	}
	m.items[id] = a
	return a
}

func (m *memAllocations) GetByID(ctx context.Context, id uuid.UUID) (allocation.Allocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return allocation.Allocation{}, errNotFound
	}
	return a, nil
}

func (m *memAllocations) Overlapping(ctx context.Context, params *allocation.FindParams) ([]allocation.Allocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []allocation.Allocation
	for _, a := range m.items {
		if a.ResourceID() != params.ResourceID {
			continue
		}
		if a.IsGhost() && !params.IncludeGhost {
			continue
		}
		if params.ExcludeID != uuid.Nil && a.ID() == params.ExcludeID {
			continue
		}
		if !a.Overlaps(params.From, params.To) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate().Before(out[j].StartDate()) })
	return out, nil
}

func (m *memAllocations) Create(ctx context.Context, data allocation.Allocation) (allocation.Allocation, error) {
	return m.add(data), nil
}

func (m *memAllocations) Update(ctx context.Context, data allocation.Allocation) (allocation.Allocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[data.ID()]; !ok {
		return allocation.Allocation{}, errNotFound
	}
	m.items[data.ID()] = data
	return data, nil
}

func (m *memAllocations) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return errNotFound
	}
	delete(m.items, id)
	return nil
}

func rehydrate(id uuid.UUID, a allocation.Allocation) allocation.Allocation {
	return allocation.Hydrate(
		id,
		a.OrganizationID(),
		a.ResourceID(),
		a.ProjectID(),
		a.TaskID(),
		a.StartDate(),
		a.EndDate(),
		a.UnitsType(),
		a.Percentage(),
		a.HoursPerWeek(),
		a.HoursPerDay(),
		a.Type(),
		a.Justification(),
		time.Now(),
		time.Now(),
	)
}

type memResources struct {
	items map[uuid.UUID]resource.Resource
}

func newMemResources() *memResources {
	return &memResources{items: map[uuid.UUID]resource.Resource{}}
}

func (m *memResources) add(r resource.Resource) { m.items[r.ID()] = r }

func (m *memResources) GetByID(ctx context.Context, id uuid.UUID) (resource.Resource, error) {
	r, ok := m.items[id]
	if !ok {
		return resource.Resource{}, errNotFound
	}
	return r, nil
}

func (m *memResources) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]resource.Resource, error) {
	out := make([]resource.Resource, 0, len(ids))
	for _, id := range ids {
		if r, ok := m.items[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memResources) GetAll(ctx context.Context) ([]resource.Resource, error) {
	out := make([]resource.Resource, 0, len(m.items))
	for _, r := range m.items {
		out = append(out, r)
	}
	return out, nil
}

func (m *memResources) Create(ctx context.Context, data resource.Resource) (resource.Resource, error) {
	m.items[data.ID()] = data
	return data, nil
}

func (m *memResources) Update(ctx context.Context, data resource.Resource) (resource.Resource, error) {
	m.items[data.ID()] = data
	return data, nil
}

func (m *memResources) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

type memConflicts struct {
	mu    sync.Mutex
	items []conflict.Conflict
}

func newMemConflicts() *memConflicts { return &memConflicts{} }

func (m *memConflicts) Create(ctx context.Context, data conflict.Conflict) (conflict.Conflict, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := conflict.Hydrate(
		uuid.New(),
		data.OrganizationID(),
		data.ResourceID(),
		data.StartDate(),
		data.EndDate(),
		data.TotalPercent(),
		data.Severity(),
		data.Status(),
		time.Now(),
		nil,
	)
	m.items = append(m.items, stored)
	return stored, nil
}

func (m *memConflicts) GetByID(ctx context.Context, id uuid.UUID) (conflict.Conflict, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.items {
		if c.ID() == id {
			return c, nil
		}
	}
	return conflict.Conflict{}, errNotFound
}

func (m *memConflicts) UnresolvedInRange(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]conflict.Conflict, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []conflict.Conflict
	for _, c := range m.items {
		if c.ResourceID() != resourceID || !c.IsOpen() {
			continue
		}
		if c.StartDate().After(to) || c.EndDate().Before(from) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *memConflicts) UpdateStatus(ctx context.Context, id uuid.UUID, status conflict.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.items {
		if c.ID() == id {
			var resolvedAt *time.Time
			if status == conflict.Resolved {
				now := time.Now()
				resolvedAt = &now
			}
			m.items[i] = conflict.Hydrate(
				c.ID(), c.OrganizationID(), c.ResourceID(),
				c.StartDate(), c.EndDate(), c.TotalPercent(),
				c.Severity(), status, c.DetectedAt(), resolvedAt,
			)
			return nil
		}
	}
	return errNotFound
}

func (m *memConflicts) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

type dayKey struct {
	resourceID uuid.UUID
	date       time.Time
}

type memDailyLoads struct {
	mu        sync.Mutex
	rows      map[dayKey]dailyload.DailyLoad
	heatmap   []dailyload.HeatmapRow
	overrides map[uuid.UUID]map[time.Time]decimal.Decimal
}

func newMemDailyLoads() *memDailyLoads {
	return &memDailyLoads{
		rows:      map[dayKey]dailyload.DailyLoad{},
		overrides: map[uuid.UUID]map[time.Time]decimal.Decimal{},
	}
}

func (m *memDailyLoads) setOverride(resourceID uuid.UUID, date time.Time, total decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.overrides[resourceID] == nil {
		m.overrides[resourceID] = map[time.Time]decimal.Decimal{}
	}
	m.overrides[resourceID][allocation.DateOnly(date)] = total
}

func (m *memDailyLoads) Upsert(ctx context.Context, rows []dailyload.DailyLoad) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range rows {
		m.rows[dayKey{row.ResourceID(), allocation.DateOnly(row.Date())}] = row
	}
	return nil
}

func (m *memDailyLoads) Range(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]dailyload.DailyLoad, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []dailyload.DailyLoad
	for key, row := range m.rows {
		if key.resourceID != resourceID || key.date.Before(from) || key.date.After(to) {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date().Before(out[j].Date()) })
	return out, nil
}

func (m *memDailyLoads) HeatmapRange(ctx context.Context, params *dailyload.HeatmapParams) ([]dailyload.HeatmapRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []dailyload.HeatmapRow
	for _, row := range m.heatmap {
		if row.Date.Before(params.From) || row.Date.After(params.To) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (m *memDailyLoads) CapacityOverrides(ctx context.Context, resourceID uuid.UUID, from, to time.Time) (map[time.Time]decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[time.Time]decimal.Decimal{}
	for date, total := range m.overrides[resourceID] {
		if date.Before(from) || date.After(to) {
			continue
		}
		out[date] = total
	}
	return out, nil
}

type staticConfigs struct {
	blob []byte
}

func (s *staticConfigs) OrgSettings(ctx context.Context, organizationID uuid.UUID) ([]byte, error) {
	return s.blob, nil
}

type staticDirectory struct {
	ids []uuid.UUID
}

func (s *staticDirectory) AccessibleResourceIDs(ctx context.Context, workspaceID uuid.UUID) ([]uuid.UUID, error) {
	return s.ids, nil
}
