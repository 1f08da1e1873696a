package mappers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/aggregates/allocation"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/entities/dailyload"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/presentation/viewmodels"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/services"
)

const dateLayout = "2006-01-02"

func AllocationToViewModel(entity allocation.Allocation) *viewmodels.Allocation {
	vm := &viewmodels.Allocation{
		ID:            entity.ID().String(),
		ResourceID:    entity.ResourceID().String(),
		ProjectID:     entity.ProjectID().String(),
		StartDate:     entity.StartDate().Format(dateLayout),
		EndDate:       entity.EndDate().Format(dateLayout),
		UnitsType:     string(entity.UnitsType()),
		Type:          string(entity.Type()),
		Justification: entity.Justification(),
		CreatedAt:     entity.CreatedAt().Format(time.RFC3339),
		UpdatedAt:     entity.UpdatedAt().Format(time.RFC3339),
	}
	if taskID := entity.TaskID(); taskID != nil {
		s := taskID.String()
		vm.TaskID = &s
	}
	vm.Percentage = decimalString(entity.Percentage())
	vm.HoursPerWeek = decimalString(entity.HoursPerWeek())
	vm.HoursPerDay = decimalString(entity.HoursPerDay())
	return vm
}

func VerdictToViewModel(v services.Verdict) *viewmodels.Verdict {
	vm := &viewmodels.Verdict{
		Accepted:         v.Accepted,
		Reason:           v.Reason,
		ProjectedTotal:   v.ProjectedTotal.StringFixed(2),
		HardLoad:         v.HardLoad.StringFixed(2),
		SoftLoad:         v.SoftLoad.StringFixed(2),
		Classification:   string(v.Classification),
		AdvisoryConflict: v.AdvisoryConflict,
	}
	if !v.Accepted {
		vm.Limit = v.Limit.StringFixed(2)
	}
	return vm
}

func DailyLoadToViewModel(row dailyload.DailyLoad) *viewmodels.DailyLoad {
	return &viewmodels.DailyLoad{
		ResourceID:      row.ResourceID().String(),
		Date:            row.Date().Format(dateLayout),
		HardLoadPercent: row.HardLoadPercent().StringFixed(2),
		SoftLoadPercent: row.SoftLoadPercent().StringFixed(2),
		TotalPercent:    row.TotalLoadPercent().StringFixed(2),
		CapacityPercent: row.CapacityPercent().StringFixed(2),
		Classification:  string(row.Classification()),
	}
}

func HeatmapRowToViewModel(row dailyload.HeatmapRow) *viewmodels.HeatmapCell {
	return &viewmodels.HeatmapCell{
		ResourceID:     row.ResourceID.String(),
		ResourceName:   row.ResourceName,
		HardLoad:       row.HardLoad.StringFixed(2),
		SoftLoad:       row.SoftLoad.StringFixed(2),
		Classification: string(row.Classification),
	}
}

func decimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}
