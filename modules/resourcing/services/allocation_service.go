package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/aggregates/allocation"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/aggregates/resource"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/entities/conflict"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/governance"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/composables"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/eventbus"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/serrors"
)

// AllocationService owns the allocation write path: validation, governed
// conflict detection, persistence, advisory conflict records and the domain
// events that drive the read-model refresh. Detection runs inside the same
// transaction as the write, so a rejected allocation is never partially
// persisted. The query-then-decide sequence is not lock-protected; concurrent
// writes to overlapping ranges of one resource can race past the check.
type AllocationService struct {
	allocations allocation.Repository
	resources   resource.Repository
	conflicts   conflict.Repository
	configs     governance.ConfigStore
	publisher   eventbus.EventBus
}

func NewAllocationService(
	allocations allocation.Repository,
	resources resource.Repository,
	conflicts conflict.Repository,
	configs governance.ConfigStore,
	publisher eventbus.EventBus,
) *AllocationService {
	return &AllocationService{
		allocations: allocations,
		resources:   resources,
		conflicts:   conflicts,
		configs:     configs,
		publisher:   publisher,
	}
}

func (s *AllocationService) GetByID(ctx context.Context, id uuid.UUID) (allocation.Allocation, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (allocation.Allocation, error) {
		return s.allocations.GetByID(txCtx, id)
	})
}

func (s *AllocationService) Create(ctx context.Context, data *allocation.CreateDTO) (allocation.Allocation, error) {
	if fieldErrors, ok := data.Ok(); !ok {
		return allocation.Allocation{}, serrors.ValidationErrors(fieldErrors)
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (allocation.Allocation, error) {
		entity, err := data.ToEntity()
		if err != nil {
			return allocation.Allocation{}, err
		}

		verdict, err := s.evaluate(txCtx, entity, uuid.Nil)
		if err != nil {
			return allocation.Allocation{}, err
		}
		if !verdict.Accepted {
			recordVerdict(strings.ToLower(verdict.Reason))
			return allocation.Allocation{}, rejectionFromVerdict(verdict)
		}
		recordVerdict(verdictAccepted)

		created, err := s.allocations.Create(txCtx, entity)
		if err != nil {
			return allocation.Allocation{}, err
		}
		if err := s.recordAdvisoryConflict(txCtx, created, verdict); err != nil {
			return allocation.Allocation{}, err
		}
		s.publisher.Publish(allocation.NewCreatedEvent(created))
		return created, nil
	})
}

func (s *AllocationService) Update(ctx context.Context, id uuid.UUID, data *allocation.UpdateDTO) (allocation.Allocation, error) {
	if fieldErrors, ok := data.Ok(); !ok {
		return allocation.Allocation{}, serrors.ValidationErrors(fieldErrors)
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (allocation.Allocation, error) {
		previous, err := s.allocations.GetByID(txCtx, id)
		if err != nil {
			return allocation.Allocation{}, err
		}
		entity, err := data.Apply(previous)
		if err != nil {
			return allocation.Allocation{}, err
		}

		verdict, err := s.evaluate(txCtx, entity, id)
		if err != nil {
			return allocation.Allocation{}, err
		}
		if !verdict.Accepted {
			recordVerdict(strings.ToLower(verdict.Reason))
			return allocation.Allocation{}, rejectionFromVerdict(verdict)
		}
		recordVerdict(verdictAccepted)

		updated, err := s.allocations.Update(txCtx, entity)
		if err != nil {
			return allocation.Allocation{}, err
		}
		if err := s.recordAdvisoryConflict(txCtx, updated, verdict); err != nil {
			return allocation.Allocation{}, err
		}
		s.publisher.Publish(allocation.NewUpdatedEvent(previous, updated))
		return updated, nil
	})
}

func (s *AllocationService) Delete(ctx context.Context, id uuid.UUID) (allocation.Allocation, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (allocation.Allocation, error) {
		entity, err := s.allocations.GetByID(txCtx, id)
		if err != nil {
			return allocation.Allocation{}, err
		}
		if err := s.allocations.Delete(txCtx, id); err != nil {
			return allocation.Allocation{}, err
		}
		s.publisher.Publish(allocation.NewDeletedEvent(entity))
		return entity, nil
	})
}

// Evaluate is the dry-run surface: it runs the full governed check for a
// candidate without persisting anything.
func (s *AllocationService) Evaluate(ctx context.Context, data *allocation.CreateDTO) (Verdict, error) {
	if fieldErrors, ok := data.Ok(); !ok {
		return Verdict{}, serrors.ValidationErrors(fieldErrors)
	}
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (Verdict, error) {
		entity, err := data.ToEntity()
		if err != nil {
			return Verdict{}, err
		}
		return s.evaluate(txCtx, entity, uuid.Nil)
	})
}

func (s *AllocationService) evaluate(ctx context.Context, entity allocation.Allocation, excludeID uuid.UUID) (Verdict, error) {
	res, err := s.resources.GetByID(ctx, entity.ResourceID())
	if err != nil {
		return Verdict{}, err
	}
	capacity := res.CapacityHoursPerWeek()

	percent, err := entity.PercentOfWeek(capacity)
	if err != nil {
		return Verdict{}, err
	}

	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return Verdict{}, err
	}
	blob, err := s.configs.OrgSettings(ctx, tenantID)
	if err != nil {
		return Verdict{}, err
	}
	settings := governance.Resolve(blob)

	existing, err := s.allocations.Overlapping(ctx, &allocation.FindParams{
		ResourceID: entity.ResourceID(),
		From:       entity.StartDate(),
		To:         entity.EndDate(),
		ExcludeID:  excludeID,
	})
	if err != nil {
		return Verdict{}, err
	}

	return EvaluateCandidate(Candidate{
		ResourceID:    entity.ResourceID(),
		StartDate:     entity.StartDate(),
		EndDate:       entity.EndDate(),
		Percent:       percent,
		Type:          entity.Type(),
		Justification: entity.Justification(),
		ExcludeID:     excludeID,
	}, existing, capacity, settings)
}

func (s *AllocationService) recordAdvisoryConflict(ctx context.Context, entity allocation.Allocation, verdict Verdict) error {
	if !verdict.AdvisoryConflict {
		return nil
	}
	_, err := s.conflicts.Create(ctx, conflict.New(
		entity.ResourceID(),
		entity.StartDate(),
		entity.EndDate(),
		verdict.ProjectedTotal,
	))
	if err != nil {
		return err
	}
	advisoryConflicts.Inc()
	return nil
}
