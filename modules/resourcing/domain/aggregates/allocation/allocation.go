package allocation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type is the commitment level of an allocation. GHOST allocations are
// scenario-only and excluded from every aggregate, conflict check and risk
// computation.
type Type string

const (
	Hard  Type = "HARD"
	Soft  Type = "SOFT"
	Ghost Type = "GHOST"
)

type UnitsType string

const (
	Percent UnitsType = "PERCENT"
	Hours   UnitsType = "HOURS"
)

// Allocation is a commitment of a resource's time to a project over an
// inclusive calendar-date range. Exactly one magnitude representation is
// populated: a percentage (PERCENT) or weekly/daily hours (HOURS).
type Allocation struct {
	id             uuid.UUID
	organizationID uuid.UUID
	resourceID     uuid.UUID
	projectID      uuid.UUID
	taskID         *uuid.UUID
	startDate      time.Time
	endDate        time.Time
	unitsType      UnitsType
	percentage     *decimal.Decimal
	hoursPerWeek   *decimal.Decimal
	hoursPerDay    *decimal.Decimal
	typ            Type
	justification  string
	createdAt      time.Time
	updatedAt      time.Time
}

func New(resourceID, projectID uuid.UUID, startDate, endDate time.Time, typ Type) Allocation {
	return Allocation{
		resourceID: resourceID,
		projectID:  projectID,
		startDate:  DateOnly(startDate),
		endDate:    DateOnly(endDate),
		unitsType:  Percent,
		typ:        typ,
	}
}

func Hydrate(
	id uuid.UUID,
	organizationID uuid.UUID,
	resourceID uuid.UUID,
	projectID uuid.UUID,
	taskID *uuid.UUID,
	startDate time.Time,
	endDate time.Time,
	unitsType UnitsType,
	percentage *decimal.Decimal,
	hoursPerWeek *decimal.Decimal,
	hoursPerDay *decimal.Decimal,
	typ Type,
	justification string,
	createdAt time.Time,
	updatedAt time.Time,
) Allocation {
	return Allocation{
		id:             id,
		organizationID: organizationID,
		resourceID:     resourceID,
		projectID:      projectID,
		taskID:         taskID,
		startDate:      DateOnly(startDate),
		endDate:        DateOnly(endDate),
		unitsType:      unitsType,
		percentage:     percentage,
		hoursPerWeek:   hoursPerWeek,
		hoursPerDay:    hoursPerDay,
		typ:            typ,
		justification:  justification,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (a Allocation) ID() uuid.UUID                  { return a.id }
func (a Allocation) OrganizationID() uuid.UUID      { return a.organizationID }
func (a Allocation) ResourceID() uuid.UUID          { return a.resourceID }
func (a Allocation) ProjectID() uuid.UUID           { return a.projectID }
func (a Allocation) TaskID() *uuid.UUID             { return a.taskID }
func (a Allocation) StartDate() time.Time           { return a.startDate }
func (a Allocation) EndDate() time.Time             { return a.endDate }
func (a Allocation) UnitsType() UnitsType           { return a.unitsType }
func (a Allocation) Percentage() *decimal.Decimal   { return a.percentage }
func (a Allocation) HoursPerWeek() *decimal.Decimal { return a.hoursPerWeek }
func (a Allocation) HoursPerDay() *decimal.Decimal  { return a.hoursPerDay }
func (a Allocation) Type() Type                     { return a.typ }
func (a Allocation) Justification() string          { return a.justification }
func (a Allocation) CreatedAt() time.Time           { return a.createdAt }
func (a Allocation) UpdatedAt() time.Time           { return a.updatedAt }
func (a Allocation) IsGhost() bool                  { return a.typ == Ghost }
func (a Allocation) IsZero() bool                   { return a.id == uuid.Nil && a.resourceID == uuid.Nil }

func (a Allocation) WithPercentage(p decimal.Decimal) Allocation {
	a.unitsType = Percent
	a.percentage = &p
	a.hoursPerWeek = nil
	a.hoursPerDay = nil
	return a
}

func (a Allocation) WithHours(perWeek, perDay *decimal.Decimal) Allocation {
	a.unitsType = Hours
	a.hoursPerWeek = perWeek
	a.hoursPerDay = perDay
	return a
}

func (a Allocation) WithDates(startDate, endDate time.Time) Allocation {
	a.startDate = DateOnly(startDate)
	a.endDate = DateOnly(endDate)
	return a
}

func (a Allocation) WithType(typ Type) Allocation {
	a.typ = typ
	return a
}

func (a Allocation) WithJustification(justification string) Allocation {
	a.justification = justification
	return a
}

func (a Allocation) WithTask(taskID uuid.UUID) Allocation {
	a.taskID = &taskID
	return a
}

// ActiveOn reports whether the allocation covers calendar day d.
func (a Allocation) ActiveOn(d time.Time) bool {
	day := DateOnly(d)
	return !a.startDate.After(day) && !a.endDate.Before(day)
}

// Overlaps reports whether the allocation's range intersects [from, to]
// (inclusive on both ends).
func (a Allocation) Overlaps(from, to time.Time) bool {
	return !a.startDate.After(DateOnly(to)) && !a.endDate.Before(DateOnly(from))
}

// DateOnly truncates a timestamp to its UTC calendar date. All range and
// activity comparisons happen on midnight-normalized dates.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
