package allocation

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/constants"
)

// UpdateDTO carries only the fields being changed; nil fields leave the
// allocation untouched. Date or magnitude changes re-run conflict detection.
type UpdateDTO struct {
	StartDate     *string          `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate       *string          `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	UnitsType     *string          `json:"units_type" validate:"omitempty,oneof=PERCENT HOURS"`
	Percentage    *decimal.Decimal `json:"allocation_percentage"`
	HoursPerWeek  *decimal.Decimal `json:"hours_per_week"`
	HoursPerDay   *decimal.Decimal `json:"hours_per_day"`
	Type          *string          `json:"type" validate:"omitempty,oneof=HARD SOFT GHOST"`
	Justification *string          `json:"justification"`
}

func (d *UpdateDTO) Normalize() {
	if d.UnitsType != nil {
		v := strings.ToUpper(strings.TrimSpace(*d.UnitsType))
		d.UnitsType = &v
	}
	if d.Type != nil {
		v := strings.ToUpper(strings.TrimSpace(*d.Type))
		d.Type = &v
	}
	if d.Justification != nil {
		v := strings.TrimSpace(*d.Justification)
		d.Justification = &v
	}
}

func (d *UpdateDTO) Ok() (map[string]string, bool) {
	d.Normalize()

	fieldErrors := map[string]string{}
	if err := constants.Validate.Struct(d); err != nil {
		for _, fe := range validatorFieldErrors(err) {
			fieldErrors[fe.Field()] = "invalid value"
		}
	}
	if d.Percentage != nil && d.Percentage.IsNegative() {
		fieldErrors["Percentage"] = "allocation percentage must not be negative"
	}
	return fieldErrors, len(fieldErrors) == 0
}

// Apply produces the updated allocation. Date-order violations are reported
// here because they can only be judged against the merged result.
func (d *UpdateDTO) Apply(existing Allocation) (Allocation, error) {
	out := existing

	start, end := existing.StartDate(), existing.EndDate()
	if d.StartDate != nil {
		parsed, err := time.Parse(dateLayout, *d.StartDate)
		if err != nil {
			return Allocation{}, ErrMissingMagnitude
		}
		start = parsed
	}
	if d.EndDate != nil {
		parsed, err := time.Parse(dateLayout, *d.EndDate)
		if err != nil {
			return Allocation{}, ErrMissingMagnitude
		}
		end = parsed
	}
	if DateOnly(start).After(DateOnly(end)) {
		return Allocation{}, ErrDateOrder
	}
	out = out.WithDates(start, end)

	if d.Type != nil {
		out = out.WithType(Type(*d.Type))
	}
	if d.Justification != nil {
		out = out.WithJustification(*d.Justification)
	}

	switch {
	case d.UnitsType != nil && *d.UnitsType == string(Hours):
		if d.HoursPerWeek == nil && d.HoursPerDay == nil {
			return Allocation{}, ErrMissingMagnitude
		}
		out = out.WithHours(d.HoursPerWeek, d.HoursPerDay)
	case d.UnitsType != nil && *d.UnitsType == string(Percent):
		if d.Percentage == nil {
			return Allocation{}, ErrMissingMagnitude
		}
		out = out.WithPercentage(*d.Percentage)
	case d.Percentage != nil:
		out = out.WithPercentage(*d.Percentage)
	case d.HoursPerWeek != nil || d.HoursPerDay != nil:
		out = out.WithHours(d.HoursPerWeek, d.HoursPerDay)
	}
	return out, nil
}

func validatorFieldErrors(err error) validator.ValidationErrors {
	if fes, ok := err.(validator.ValidationErrors); ok {
		return fes
	}
	return nil
}
