package resource

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Resource is a person or bookable unit. It is the aggregate root for every
// "how loaded is this person" question; allocations reference it by id.
type Resource struct {
	id                   uuid.UUID
	organizationID       uuid.UUID
	name                 string
	capacityHoursPerWeek *decimal.Decimal
	active               bool
	createdAt            time.Time
	updatedAt            time.Time
}

func New(name string) Resource {
	return Resource{
		name:   strings.TrimSpace(name),
		active: true,
	}
}

func Hydrate(
	id uuid.UUID,
	organizationID uuid.UUID,
	name string,
	capacityHoursPerWeek *decimal.Decimal,
	active bool,
	createdAt time.Time,
	updatedAt time.Time,
) Resource {
	return Resource{
		id:                   id,
		organizationID:       organizationID,
		name:                 strings.TrimSpace(name),
		capacityHoursPerWeek: capacityHoursPerWeek,
		active:               active,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
	}
}

func (r Resource) ID() uuid.UUID             { return r.id }
func (r Resource) OrganizationID() uuid.UUID { return r.organizationID }
func (r Resource) Name() string              { return r.name }
func (r Resource) Active() bool              { return r.active }
func (r Resource) CreatedAt() time.Time      { return r.createdAt }
func (r Resource) UpdatedAt() time.Time      { return r.updatedAt }
func (r Resource) IsZero() bool              { return r.id == uuid.Nil && r.name == "" }

// CapacityHoursPerWeek returns the configured weekly capacity, nil when the
// 40h default should apply.
func (r Resource) CapacityHoursPerWeek() *decimal.Decimal { return r.capacityHoursPerWeek }

func (r Resource) WithCapacityHoursPerWeek(hours decimal.Decimal) Resource {
	r.capacityHoursPerWeek = &hours
	return r
}
