package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/aggregates/allocation"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/composables"
)

// DailyLoadRefresher subscribes to allocation events and refreshes the read
// model for the affected span. Best-effort by contract: refreshes run in
// their own transaction on a detached context, and any failure is logged and
// swallowed so the triggering allocation write never fails or rolls back.
type DailyLoadRefresher struct {
	service *DailyLoadService
	pool    *pgxpool.Pool
	log     *logrus.Logger
	wg      sync.WaitGroup
}

func NewDailyLoadRefresher(service *DailyLoadService, pool *pgxpool.Pool, log *logrus.Logger) *DailyLoadRefresher {
	return &DailyLoadRefresher{
		service: service,
		pool:    pool,
		log:     log,
	}
}

func (r *DailyLoadRefresher) OnAllocationCreated(ev *allocation.CreatedEvent) {
	r.refresh(ev.Result.OrganizationID(), ev.Result.ResourceID(), ev.Result.StartDate(), ev.Result.EndDate())
}

func (r *DailyLoadRefresher) OnAllocationUpdated(ev *allocation.UpdatedEvent) {
	// Cover both the old and new spans so vacated days are recomputed too.
	from := ev.Previous.StartDate()
	if ev.Result.StartDate().Before(from) {
		from = ev.Result.StartDate()
	}
	to := ev.Previous.EndDate()
	if ev.Result.EndDate().After(to) {
		to = ev.Result.EndDate()
	}
	r.refresh(ev.Result.OrganizationID(), ev.Result.ResourceID(), from, to)
}

func (r *DailyLoadRefresher) OnAllocationDeleted(ev *allocation.DeletedEvent) {
	r.refresh(ev.Result.OrganizationID(), ev.Result.ResourceID(), ev.Result.StartDate(), ev.Result.EndDate())
}

// Wait blocks until all in-flight refreshes finish. Used on shutdown and in
// tests.
func (r *DailyLoadRefresher) Wait() {
	r.wg.Wait()
}

func (r *DailyLoadRefresher) refresh(organizationID, resourceID uuid.UUID, from, to time.Time) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				r.log.WithField("resource_id", resourceID).Errorf("daily load refresh panicked: %v", rec)
			}
		}()

		ctx := composables.WithPool(context.Background(), r.pool)
		ctx = composables.WithTenantID(ctx, organizationID)
		ctx = composables.WithLogger(ctx, logrus.NewEntry(r.log))

		err := r.service.Refresh(ctx, resourceID, from, to)
		recordRefresh(err)
		if err != nil {
			r.log.WithError(err).
				WithField("resource_id", resourceID).
				Error("daily load refresh failed")
		}
	}()
}
