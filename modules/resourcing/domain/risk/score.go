package risk

import (
	"fmt"
	"math"

	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/entities/conflict"
)

type SeverityBand string

const (
	Low    SeverityBand = "LOW"
	Medium SeverityBand = "MEDIUM"
	High   SeverityBand = "HIGH"
)

// Factor codes, in explanation priority order.
const (
	FactorMaxOver150             = "MAX_OVER_150"
	FactorDaysOver150            = "DAYS_OVER_150"
	FactorDaysOver120            = "DAYS_OVER_120"
	FactorDaysOver100            = "DAYS_OVER_100"
	FactorHighConcurrentProjects = "HIGH_CONCURRENT_PROJECTS"
	FactorExistingConflicts      = "EXISTING_CONFLICTS"
	FactorHighAvgAllocation      = "HIGH_AVG_ALLOCATION"
)

const maxFactors = 3

type Factor struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Input is the aggregated allocation picture for one resource over a period.
// All percentages are percent of weekly capacity.
type Input struct {
	AverageAllocationPercent float64
	MaxAllocationPercent     float64
	DaysAbove100             int
	DaysAbove120             int
	DaysAbove150             int
	TotalDays                int
	MaxConcurrentProjects    int
	ExistingConflictsCount   int
	MaxConflictSeverity      conflict.Severity
}

type Result struct {
	Score    int          `json:"score"`
	Severity SeverityBand `json:"severity"`
	Factors  []Factor     `json:"factors"`
}

// ComputeScore converts aggregated metrics into a 0-100 heuristic risk score,
// a severity band and up to three ranked explanatory factors. Pure and
// deterministic; increasing any over-allocation input never lowers the score.
func ComputeScore(in Input) Result {
	score := peakComponent(in.MaxAllocationPercent)

	if in.TotalDays > 0 {
		score += math.Min(30, float64(in.DaysAbove100)/float64(in.TotalDays)*30)
	}
	score += math.Min(20, float64(in.DaysAbove150)*2)
	score += math.Min(10, float64(in.DaysAbove120)*0.5)

	switch {
	case in.MaxConcurrentProjects >= 5:
		score += 10
	case in.MaxConcurrentProjects >= 3:
		score += 5
	}

	if in.ExistingConflictsCount > 0 {
		score += math.Min(10, float64(in.ExistingConflictsCount)*2)
		switch in.MaxConflictSeverity {
		case conflict.Critical:
			score += 5
		case conflict.High:
			score += 3
		}
	}

	rounded := int(math.Round(math.Max(0, math.Min(100, score))))

	return Result{
		Score:    rounded,
		Severity: severityBand(rounded),
		Factors:  buildFactors(in),
	}
}

func peakComponent(max float64) float64 {
	switch {
	case max > 150:
		return 40
	case max > 120:
		return 30 + (max-120)/3
	case max > 100:
		return 20 + (max-100)/2
	case max > 80:
		return (max - 80) / 2
	default:
		return 0
	}
}

func severityBand(score int) SeverityBand {
	switch {
	case score < 40:
		return Low
	case score < 70:
		return Medium
	default:
		return High
	}
}

func buildFactors(in Input) []Factor {
	factors := make([]Factor, 0, maxFactors)
	add := func(code, message string) {
		if len(factors) < maxFactors {
			factors = append(factors, Factor{Code: code, Message: message})
		}
	}

	if in.MaxAllocationPercent > 150 {
		add(FactorMaxOver150, fmt.Sprintf("Peak allocation reaches %.0f%%, above the 150%% hard threshold", in.MaxAllocationPercent))
	}
	if in.DaysAbove150 > 0 {
		add(FactorDaysOver150, fmt.Sprintf("%d day(s) allocated above 150%%", in.DaysAbove150))
	}
	if in.DaysAbove120 > 0 {
		add(FactorDaysOver120, fmt.Sprintf("%d day(s) allocated above 120%%", in.DaysAbove120))
	}
	if in.DaysAbove100 > 0 {
		add(FactorDaysOver100, fmt.Sprintf("%d of %d day(s) above full capacity", in.DaysAbove100, in.TotalDays))
	}
	if in.MaxConcurrentProjects >= 5 {
		add(FactorHighConcurrentProjects, fmt.Sprintf("Assigned to %d concurrent projects at peak", in.MaxConcurrentProjects))
	}
	if in.ExistingConflictsCount > 0 {
		add(FactorExistingConflicts, fmt.Sprintf("%d unresolved allocation conflict(s) in range", in.ExistingConflictsCount))
	}
	if in.AverageAllocationPercent > 90 {
		add(FactorHighAvgAllocation, fmt.Sprintf("Average allocation of %.1f%% across the period", in.AverageAllocationPercent))
	}
	return factors
}
