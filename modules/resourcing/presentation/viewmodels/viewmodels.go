package viewmodels

// Allocation is the API shape of an allocation. Dates are YYYY-MM-DD,
// magnitudes are decimal strings so callers never see float noise.
type Allocation struct {
	ID            string  `json:"id"`
	ResourceID    string  `json:"resource_id"`
	ProjectID     string  `json:"project_id"`
	TaskID        *string `json:"task_id,omitempty"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	UnitsType     string  `json:"units_type"`
	Percentage    *string `json:"allocation_percentage,omitempty"`
	HoursPerWeek  *string `json:"hours_per_week,omitempty"`
	HoursPerDay   *string `json:"hours_per_day,omitempty"`
	Type          string  `json:"type"`
	Justification string  `json:"justification,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// Verdict is the dry-run evaluation result.
type Verdict struct {
	Accepted         bool   `json:"accepted"`
	Reason           string `json:"reason,omitempty"`
	Limit            string `json:"limit,omitempty"`
	ProjectedTotal   string `json:"projected_total"`
	HardLoad         string `json:"hard_load"`
	SoftLoad         string `json:"soft_load"`
	Classification   string `json:"classification"`
	AdvisoryConflict bool   `json:"advisory_conflict"`
}

// DailyLoad is one timeline cell.
type DailyLoad struct {
	ResourceID      string `json:"resource_id"`
	Date            string `json:"date"`
	HardLoadPercent string `json:"hard_load_percent"`
	SoftLoadPercent string `json:"soft_load_percent"`
	TotalPercent    string `json:"total_percent"`
	CapacityPercent string `json:"capacity_percent"`
	Classification  string `json:"classification"`
}

// HeatmapCell is one resource's cell in the organization heatmap.
type HeatmapCell struct {
	ResourceID     string `json:"resource_id"`
	ResourceName   string `json:"resource_name"`
	HardLoad       string `json:"hard_load"`
	SoftLoad       string `json:"soft_load"`
	Classification string `json:"classification"`
}
