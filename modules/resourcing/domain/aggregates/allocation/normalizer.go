package allocation

import (
	"github.com/shopspring/decimal"

	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/serrors"
)

var (
	ErrMissingMagnitude = serrors.NewError("INVALID_INPUT", "allocation has no stored magnitude")
	ErrDateOrder        = serrors.NewError("INVALID_INPUT", "start date must not be after end date")
	ErrUnknownUnitsType = serrors.NewError("UNKNOWN_UNITS_TYPE", "unrecognized allocation units type")
)

// DefaultCapacityHoursPerWeek applies when the resource record is absent or
// carries no weekly capacity.
var DefaultCapacityHoursPerWeek = decimal.NewFromInt(40)

var (
	workDaysPerWeek = decimal.NewFromInt(5)
	hundred         = decimal.NewFromInt(100)
)

// NormalizeInput carries everything the normalizer may consult. Hours
// overrides come from the write DTO; the stored percentage doubles as the
// idempotent fallback on the read path.
type NormalizeInput struct {
	UnitsType            UnitsType
	Percentage           *decimal.Decimal
	HoursPerWeek         *decimal.Decimal
	HoursPerDay          *decimal.Decimal
	CapacityHoursPerWeek *decimal.Decimal
}

// PercentOfWeek converts any magnitude representation into percent of weekly
// capacity, rounded half-up to 2 decimal places.
func PercentOfWeek(in NormalizeInput) (decimal.Decimal, error) {
	switch in.UnitsType {
	case Percent:
		if in.Percentage == nil {
			return decimal.Zero, ErrMissingMagnitude
		}
		return in.Percentage.Round(2), nil
	case Hours:
		var weeklyHours decimal.Decimal
		switch {
		case in.HoursPerWeek != nil:
			weeklyHours = *in.HoursPerWeek
		case in.HoursPerDay != nil:
			weeklyHours = in.HoursPerDay.Mul(workDaysPerWeek)
		case in.Percentage != nil:
			// Already normalized once; reads must return the stored value.
			return in.Percentage.Round(2), nil
		default:
			return decimal.Zero, ErrMissingMagnitude
		}

		capacity := DefaultCapacityHoursPerWeek
		if in.CapacityHoursPerWeek != nil && in.CapacityHoursPerWeek.IsPositive() {
			capacity = *in.CapacityHoursPerWeek
		}
		return weeklyHours.Div(capacity).Mul(hundred).Round(2), nil
	default:
		return decimal.Zero, ErrUnknownUnitsType
	}
}

// PercentOfWeek normalizes the allocation's own magnitude against the given
// resource capacity (nil means the 40h default).
func (a Allocation) PercentOfWeek(capacityHoursPerWeek *decimal.Decimal) (decimal.Decimal, error) {
	return PercentOfWeek(NormalizeInput{
		UnitsType:            a.unitsType,
		Percentage:           a.percentage,
		HoursPerWeek:         a.hoursPerWeek,
		HoursPerDay:          a.hoursPerDay,
		CapacityHoursPerWeek: capacityHoursPerWeek,
	})
}
