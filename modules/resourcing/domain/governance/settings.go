package governance

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Settings are the per-organization governance thresholds. All values are
// percent of weekly capacity.
type Settings struct {
	WarningThreshold          decimal.Decimal
	CriticalThreshold         decimal.Decimal
	HardCap                   decimal.Decimal
	RequireJustificationAbove decimal.Decimal
}

// Defaults returns the documented fallback thresholds: 80/100/150/100.
func Defaults() Settings {
	return Settings{
		WarningThreshold:          decimal.NewFromInt(80),
		CriticalThreshold:         decimal.NewFromInt(100),
		HardCap:                   decimal.NewFromInt(150),
		RequireJustificationAbove: decimal.NewFromInt(100),
	}
}

// Legacy returns the degenerate preset that reproduces the old ungoverned
// 100%-cap flow: any projected total above 100 is either hard-blocked or
// requires justification.
func Legacy() Settings {
	s := Defaults()
	s.HardCap = decimal.NewFromInt(100)
	s.RequireJustificationAbove = decimal.NewFromInt(100)
	return s
}

// rawSettings mirrors the resourceManagementSettings object inside the
// organization's JSON settings blob. Pointers so each field independently
// null-coalesces to its default; a missing or null field never becomes zero.
type rawSettings struct {
	ResourceManagement *struct {
		WarningThreshold          *float64 `json:"warningThreshold"`
		CriticalThreshold         *float64 `json:"criticalThreshold"`
		HardCap                   *float64 `json:"hardCap"`
		RequireJustificationAbove *float64 `json:"requireJustificationAbove"`
	} `json:"resourceManagementSettings"`
}

// Resolve merges an organization's settings blob over the defaults. It
// tolerates a nil/empty blob, malformed JSON, and an absent or null nested
// object; every unreadable field falls back to its default.
func Resolve(blob []byte) Settings {
	out := Defaults()
	if len(blob) == 0 {
		return out
	}

	var raw rawSettings
	if err := json.Unmarshal(blob, &raw); err != nil || raw.ResourceManagement == nil {
		return out
	}

	rm := raw.ResourceManagement
	if rm.WarningThreshold != nil {
		out.WarningThreshold = decimal.NewFromFloat(*rm.WarningThreshold)
	}
	if rm.CriticalThreshold != nil {
		out.CriticalThreshold = decimal.NewFromFloat(*rm.CriticalThreshold)
	}
	if rm.HardCap != nil {
		out.HardCap = decimal.NewFromFloat(*rm.HardCap)
	}
	if rm.RequireJustificationAbove != nil {
		out.RequireJustificationAbove = decimal.NewFromFloat(*rm.RequireJustificationAbove)
	}
	return out
}

// ConfigStore is the external organization config collaborator. It returns
// the raw JSON settings blob for an organization; nil when none is stored.
type ConfigStore interface {
	OrgSettings(ctx context.Context, organizationID uuid.UUID) ([]byte, error)
}
