package risk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/entities/conflict"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/risk"
)

func TestComputeScore_Empty(t *testing.T) {
	result := risk.ComputeScore(risk.Input{TotalDays: 30})
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, risk.Low, result.Severity)
	assert.Empty(t, result.Factors)
}

func TestComputeScore_SevereOverAllocation(t *testing.T) {
	result := risk.ComputeScore(risk.Input{
		AverageAllocationPercent: 120,
		MaxAllocationPercent:     165,
		DaysAbove100:             10,
		DaysAbove120:             5,
		DaysAbove150:             2,
		TotalDays:                10,
	})

	// 40 (peak over 150) + 30 (every day over 100) + 4 + 2.5 = 76.5
	assert.Equal(t, 77, result.Score)
	assert.Equal(t, risk.High, result.Severity)

	require.Len(t, result.Factors, 3)
	assert.Equal(t, risk.FactorMaxOver150, result.Factors[0].Code)
	assert.Equal(t, risk.FactorDaysOver150, result.Factors[1].Code)
	assert.Equal(t, risk.FactorDaysOver120, result.Factors[2].Code)
}

func TestComputeScore_ModerateOverAllocation(t *testing.T) {
	result := risk.ComputeScore(risk.Input{
		MaxAllocationPercent: 130,
		DaysAbove100:         15,
		DaysAbove120:         10,
		TotalDays:            30,
	})

	// 30+10/3 (peak) + 15 (half the days over 100) + 5 = 53.33
	assert.Equal(t, 53, result.Score)
	assert.Equal(t, risk.Medium, result.Severity)
}

func TestComputeScore_ConflictsAndConcurrency(t *testing.T) {
	base := risk.Input{
		MaxAllocationPercent: 110,
		DaysAbove100:         2,
		TotalDays:            20,
	}

	withLoad := base
	withLoad.MaxConcurrentProjects = 5
	withLoad.ExistingConflictsCount = 3
	withLoad.MaxConflictSeverity = conflict.Critical

	baseScore := risk.ComputeScore(base).Score
	loadedScore := risk.ComputeScore(withLoad).Score
	// 10 (concurrency) + 6 (conflicts) + 5 (critical severity)
	assert.Equal(t, baseScore+21, loadedScore)
}

func TestComputeScore_ClampsAt100(t *testing.T) {
	result := risk.ComputeScore(risk.Input{
		AverageAllocationPercent: 300,
		MaxAllocationPercent:     400,
		DaysAbove100:             365,
		DaysAbove120:             365,
		DaysAbove150:             365,
		TotalDays:                365,
		MaxConcurrentProjects:    9,
		ExistingConflictsCount:   50,
		MaxConflictSeverity:      conflict.Critical,
	})
	assert.Equal(t, 100, result.Score)
	assert.Equal(t, risk.High, result.Severity)
}

func TestComputeScore_Monotonic(t *testing.T) {
	in := risk.Input{
		MaxAllocationPercent: 105,
		DaysAbove100:         3,
		TotalDays:            30,
	}
	base := risk.ComputeScore(in).Score

	in.DaysAbove100 = 6
	assert.GreaterOrEqual(t, risk.ComputeScore(in).Score, base)

	in.MaxAllocationPercent = 155
	in.DaysAbove150 = 1
	assert.GreaterOrEqual(t, risk.ComputeScore(in).Score, base)
}

func TestComputeScore_FactorCapAndPriority(t *testing.T) {
	result := risk.ComputeScore(risk.Input{
		AverageAllocationPercent: 140,
		MaxAllocationPercent:     180,
		DaysAbove100:             20,
		DaysAbove120:             15,
		DaysAbove150:             10,
		TotalDays:                20,
		MaxConcurrentProjects:    6,
		ExistingConflictsCount:   4,
	})

	require.Len(t, result.Factors, 3)
	codes := []string{result.Factors[0].Code, result.Factors[1].Code, result.Factors[2].Code}
	assert.Equal(t, []string{risk.FactorMaxOver150, risk.FactorDaysOver150, risk.FactorDaysOver120}, codes)
}

func TestComputeScore_AverageOnlyFactor(t *testing.T) {
	result := risk.ComputeScore(risk.Input{
		AverageAllocationPercent: 95,
		MaxAllocationPercent:     98,
		TotalDays:                30,
	})
	require.Len(t, result.Factors, 1)
	assert.Equal(t, risk.FactorHighAvgAllocation, result.Factors[0].Code)
}
