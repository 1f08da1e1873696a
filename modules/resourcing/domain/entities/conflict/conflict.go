package conflict

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Severity grades an over-allocation conflict by how far past capacity the
// resource is booked.
type Severity string

const (
	Low      Severity = "low"
	Medium   Severity = "medium"
	High     Severity = "high"
	Critical Severity = "critical"
)

// Rank orders severities for max comparisons; unknown values rank lowest.
func (s Severity) Rank() int {
	switch s {
	case Critical:
		return 4
	case High:
		return 3
	case Medium:
		return 2
	case Low:
		return 1
	default:
		return 0
	}
}

// SeverityForTotal grades a projected total allocation percentage.
func SeverityForTotal(total decimal.Decimal) Severity {
	switch {
	case total.GreaterThan(decimal.NewFromInt(150)):
		return Critical
	case total.GreaterThan(decimal.NewFromInt(125)):
		return High
	case total.GreaterThan(decimal.NewFromInt(110)):
		return Medium
	default:
		return Low
	}
}

type Status string

const (
	Open     Status = "open"
	Resolved Status = "resolved"
	Ignored  Status = "ignored"
)

// Conflict is an advisory over-allocation record. SOFT over-allocation never
// blocks a write; it is recorded here for review instead.
type Conflict struct {
	id             uuid.UUID
	organizationID uuid.UUID
	resourceID     uuid.UUID
	startDate      time.Time
	endDate        time.Time
	totalPercent   decimal.Decimal
	severity       Severity
	status         Status
	detectedAt     time.Time
	resolvedAt     *time.Time
}

func New(resourceID uuid.UUID, startDate, endDate time.Time, totalPercent decimal.Decimal) Conflict {
	return Conflict{
		resourceID:   resourceID,
		startDate:    startDate,
		endDate:      endDate,
		totalPercent: totalPercent,
		severity:     SeverityForTotal(totalPercent),
		status:       Open,
	}
}

func Hydrate(
	id uuid.UUID,
	organizationID uuid.UUID,
	resourceID uuid.UUID,
	startDate, endDate time.Time,
	totalPercent decimal.Decimal,
	severity Severity,
	status Status,
	detectedAt time.Time,
	resolvedAt *time.Time,
) Conflict {
	return Conflict{
		id:             id,
		organizationID: organizationID,
		resourceID:     resourceID,
		startDate:      startDate,
		endDate:        endDate,
		totalPercent:   totalPercent,
		severity:       severity,
		status:         status,
		detectedAt:     detectedAt,
		resolvedAt:     resolvedAt,
	}
}

func (c Conflict) ID() uuid.UUID                 { return c.id }
func (c Conflict) OrganizationID() uuid.UUID     { return c.organizationID }
func (c Conflict) ResourceID() uuid.UUID         { return c.resourceID }
func (c Conflict) StartDate() time.Time          { return c.startDate }
func (c Conflict) EndDate() time.Time            { return c.endDate }
func (c Conflict) TotalPercent() decimal.Decimal { return c.totalPercent }
func (c Conflict) Severity() Severity            { return c.severity }
func (c Conflict) Status() Status                { return c.status }
func (c Conflict) DetectedAt() time.Time         { return c.detectedAt }
func (c Conflict) ResolvedAt() *time.Time        { return c.resolvedAt }
func (c Conflict) IsOpen() bool                  { return c.status == Open }
