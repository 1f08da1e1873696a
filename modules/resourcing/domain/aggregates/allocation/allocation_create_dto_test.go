package allocation_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/aggregates/allocation"
)

func validCreateDTO() *allocation.CreateDTO {
	return &allocation.CreateDTO{
		ResourceID: uuid.New(),
		ProjectID:  uuid.New(),
		StartDate:  "2026-03-02",
		EndDate:    "2026-03-06",
		UnitsType:  "PERCENT",
		Percentage: decPtr("50"),
		Type:       "HARD",
	}
}

func TestCreateDTO_Ok(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		fieldErrors, ok := validCreateDTO().Ok()
		assert.True(t, ok, "unexpected field errors: %v", fieldErrors)
	})

	t.Run("NormalizesCase", func(t *testing.T) {
		dto := validCreateDTO()
		dto.UnitsType = " percent "
		dto.Type = "hard"
		_, ok := dto.Ok()
		require.True(t, ok)
		assert.Equal(t, "PERCENT", dto.UnitsType)
		assert.Equal(t, "HARD", dto.Type)
	})

	t.Run("StartAfterEnd", func(t *testing.T) {
		dto := validCreateDTO()
		dto.StartDate = "2026-03-07"
		fieldErrors, ok := dto.Ok()
		require.False(t, ok)
		assert.Contains(t, fieldErrors, "StartDate")
	})

	t.Run("PercentUnitsRequirePercentage", func(t *testing.T) {
		dto := validCreateDTO()
		dto.Percentage = nil
		fieldErrors, ok := dto.Ok()
		require.False(t, ok)
		assert.Contains(t, fieldErrors, "Percentage")
	})

	t.Run("NegativePercentage", func(t *testing.T) {
		dto := validCreateDTO()
		dto.Percentage = decPtr("-5")
		_, ok := dto.Ok()
		assert.False(t, ok)
	})

	t.Run("HoursUnitsRejectPercentage", func(t *testing.T) {
		dto := validCreateDTO()
		dto.UnitsType = "HOURS"
		dto.HoursPerWeek = decPtr("20")
		fieldErrors, ok := dto.Ok()
		require.False(t, ok)
		assert.Contains(t, fieldErrors, "Percentage")
	})

	t.Run("HoursUnitsRequireSomeHours", func(t *testing.T) {
		dto := validCreateDTO()
		dto.UnitsType = "HOURS"
		dto.Percentage = nil
		fieldErrors, ok := dto.Ok()
		require.False(t, ok)
		assert.Contains(t, fieldErrors, "HoursPerWeek")
	})
}

func TestCreateDTO_ToEntity(t *testing.T) {
	dto := validCreateDTO()
	dto.Justification = "quarter-end crunch"
	_, ok := dto.Ok()
	require.True(t, ok)

	entity, err := dto.ToEntity()
	require.NoError(t, err)
	assert.Equal(t, dto.ResourceID, entity.ResourceID())
	assert.Equal(t, allocation.Hard, entity.Type())
	assert.Equal(t, allocation.Percent, entity.UnitsType())
	assert.Equal(t, "quarter-end crunch", entity.Justification())
	assert.Equal(t, "2026-03-02", entity.StartDate().Format("2006-01-02"))
}

func TestUpdateDTO_Apply(t *testing.T) {
	existing, err := validCreateDTO().ToEntity()
	require.NoError(t, err)

	t.Run("PartialUpdateKeepsOtherFields", func(t *testing.T) {
		justification := "covering leave"
		dto := &allocation.UpdateDTO{Justification: &justification}
		_, ok := dto.Ok()
		require.True(t, ok)

		updated, err := dto.Apply(existing)
		require.NoError(t, err)
		assert.Equal(t, "covering leave", updated.Justification())
		assert.Equal(t, existing.StartDate(), updated.StartDate())
		assert.True(t, existing.Percentage().Equal(*updated.Percentage()))
	})

	t.Run("MergedDateOrderViolation", func(t *testing.T) {
		endDate := "2026-03-01"
		dto := &allocation.UpdateDTO{EndDate: &endDate}
		_, ok := dto.Ok()
		require.True(t, ok)

		_, err := dto.Apply(existing)
		require.ErrorIs(t, err, allocation.ErrDateOrder)
	})

	t.Run("SwitchToHoursNeedsHours", func(t *testing.T) {
		unitsType := "HOURS"
		dto := &allocation.UpdateDTO{UnitsType: &unitsType}
		_, ok := dto.Ok()
		require.True(t, ok)

		_, err := dto.Apply(existing)
		require.ErrorIs(t, err, allocation.ErrMissingMagnitude)
	})
}
