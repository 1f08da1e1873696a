package dailyload

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/governance"
)

// Classification is the display-level load band for a single day.
type Classification string

const (
	None     Classification = "NONE"
	Warning  Classification = "WARNING"
	Critical Classification = "CRITICAL"
)

// Classify derives the day band from aggregated loads and thresholds:
// CRITICAL when hard load alone exceeds the critical threshold, WARNING when
// the combined hard+soft load exceeds the warning threshold.
func Classify(hardLoad, softLoad decimal.Decimal, settings governance.Settings) Classification {
	if hardLoad.GreaterThan(settings.CriticalThreshold) {
		return Critical
	}
	if hardLoad.Add(softLoad).GreaterThan(settings.WarningThreshold) {
		return Warning
	}
	return None
}

// DailyLoad is one read-model row: the aggregated load of one resource on one
// calendar day, plus the thresholds in force when it was computed. It is a
// cache over raw allocations, never a source of truth.
type DailyLoad struct {
	organizationID  uuid.UUID
	resourceID      uuid.UUID
	date            time.Time
	hardLoadPercent decimal.Decimal
	softLoadPercent decimal.Decimal
	capacityPercent decimal.Decimal
	settings        governance.Settings
	classification  Classification
	computedAt      time.Time
}

// DefaultCapacityPercent applies unless an explicit daily capacity override
// exists for the day.
var DefaultCapacityPercent = decimal.NewFromInt(100)

func New(
	resourceID uuid.UUID,
	date time.Time,
	hardLoad, softLoad decimal.Decimal,
	settings governance.Settings,
) DailyLoad {
	return DailyLoad{
		resourceID:      resourceID,
		date:            date,
		hardLoadPercent: hardLoad,
		softLoadPercent: softLoad,
		capacityPercent: DefaultCapacityPercent,
		settings:        settings,
		classification:  Classify(hardLoad, softLoad, settings),
	}
}

func Hydrate(
	organizationID uuid.UUID,
	resourceID uuid.UUID,
	date time.Time,
	hardLoad, softLoad, capacityPercent decimal.Decimal,
	settings governance.Settings,
	classification Classification,
	computedAt time.Time,
) DailyLoad {
	return DailyLoad{
		organizationID:  organizationID,
		resourceID:      resourceID,
		date:            date,
		hardLoadPercent: hardLoad,
		softLoadPercent: softLoad,
		capacityPercent: capacityPercent,
		settings:        settings,
		classification:  classification,
		computedAt:      computedAt,
	}
}

func (d DailyLoad) OrganizationID() uuid.UUID        { return d.organizationID }
func (d DailyLoad) ResourceID() uuid.UUID            { return d.resourceID }
func (d DailyLoad) Date() time.Time                  { return d.date }
func (d DailyLoad) HardLoadPercent() decimal.Decimal { return d.hardLoadPercent }
func (d DailyLoad) SoftLoadPercent() decimal.Decimal { return d.softLoadPercent }
func (d DailyLoad) CapacityPercent() decimal.Decimal { return d.capacityPercent }
func (d DailyLoad) Settings() governance.Settings    { return d.settings }
func (d DailyLoad) Classification() Classification   { return d.classification }
func (d DailyLoad) ComputedAt() time.Time            { return d.computedAt }

func (d DailyLoad) TotalLoadPercent() decimal.Decimal {
	return d.hardLoadPercent.Add(d.softLoadPercent)
}
