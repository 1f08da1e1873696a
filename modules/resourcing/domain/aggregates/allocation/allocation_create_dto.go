package allocation

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/constants"
)

const dateLayout = "2006-01-02"

type CreateDTO struct {
	ResourceID    uuid.UUID        `json:"resource_id" validate:"required"`
	ProjectID     uuid.UUID        `json:"project_id" validate:"required"`
	TaskID        *uuid.UUID       `json:"task_id"`
	StartDate     string           `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string           `json:"end_date" validate:"required,datetime=2006-01-02"`
	UnitsType     string           `json:"units_type" validate:"required,oneof=PERCENT HOURS"`
	Percentage    *decimal.Decimal `json:"allocation_percentage"`
	HoursPerWeek  *decimal.Decimal `json:"hours_per_week"`
	HoursPerDay   *decimal.Decimal `json:"hours_per_day"`
	Type          string           `json:"type" validate:"required,oneof=HARD SOFT GHOST"`
	Justification string           `json:"justification"`
}

func (d *CreateDTO) Normalize() {
	d.UnitsType = strings.ToUpper(strings.TrimSpace(d.UnitsType))
	d.Type = strings.ToUpper(strings.TrimSpace(d.Type))
	d.Justification = strings.TrimSpace(d.Justification)
}

// Ok validates the DTO before any query runs: struct tags first, then date
// order and the mutual exclusivity of the two magnitude representations.
func (d *CreateDTO) Ok() (map[string]string, bool) {
	d.Normalize()

	fieldErrors := map[string]string{}
	if err := constants.Validate.Struct(d); err != nil {
		for _, fe := range validatorFieldErrors(err) {
			fieldErrors[fe.Field()] = "invalid value"
		}
	}

	if _, ok := fieldErrors["StartDate"]; !ok {
		if _, ok := fieldErrors["EndDate"]; !ok {
			start, _ := time.Parse(dateLayout, d.StartDate)
			end, _ := time.Parse(dateLayout, d.EndDate)
			if start.After(end) {
				fieldErrors["StartDate"] = "start date must not be after end date"
			}
		}
	}

	switch d.UnitsType {
	case string(Percent):
		if d.Percentage == nil {
			fieldErrors["Percentage"] = "allocation percentage is required for PERCENT units"
		} else if d.Percentage.IsNegative() {
			fieldErrors["Percentage"] = "allocation percentage must not be negative"
		}
		if d.HoursPerWeek != nil || d.HoursPerDay != nil {
			fieldErrors["HoursPerWeek"] = "hours must not be set for PERCENT units"
		}
	case string(Hours):
		if d.HoursPerWeek == nil && d.HoursPerDay == nil {
			fieldErrors["HoursPerWeek"] = "hours per week or per day is required for HOURS units"
		}
		if d.Percentage != nil {
			fieldErrors["Percentage"] = "percentage must not be set for HOURS units"
		}
	}

	return fieldErrors, len(fieldErrors) == 0
}

func (d *CreateDTO) ToEntity() (Allocation, error) {
	start, err := time.Parse(dateLayout, d.StartDate)
	if err != nil {
		return Allocation{}, ErrMissingMagnitude
	}
	end, err := time.Parse(dateLayout, d.EndDate)
	if err != nil {
		return Allocation{}, ErrMissingMagnitude
	}

	entity := New(d.ResourceID, d.ProjectID, start, end, Type(d.Type)).
		WithJustification(d.Justification)
	if d.TaskID != nil {
		entity = entity.WithTask(*d.TaskID)
	}
	switch UnitsType(d.UnitsType) {
	case Percent:
		entity = entity.WithPercentage(*d.Percentage)
	case Hours:
		entity = entity.WithHours(d.HoursPerWeek, d.HoursPerDay)
	}
	return entity, nil
}
