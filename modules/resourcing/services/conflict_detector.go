package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/aggregates/allocation"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/entities/dailyload"
	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/governance"
)

// Rejection reason codes surfaced to callers.
const (
	ReasonHardCapExceeded       = "HARD_CAP_EXCEEDED"
	ReasonJustificationRequired = "JUSTIFICATION_REQUIRED"
	verdictAccepted             = "accepted"
)

// Candidate is an allocation write being evaluated: a new allocation, or the
// post-update shape of an existing one (ExcludeID set to its own id).
type Candidate struct {
	ResourceID    uuid.UUID
	StartDate     time.Time
	EndDate       time.Time
	Percent       decimal.Decimal
	Type          allocation.Type
	Justification string
	ExcludeID     uuid.UUID
}

// Verdict is the detector's full answer. Classification is display-level and
// independent of the accept/reject decision; AdvisoryConflict signals that a
// non-blocking conflict record should be written.
type Verdict struct {
	Accepted         bool
	Reason           string
	Limit            decimal.Decimal
	ProjectedTotal   decimal.Decimal
	HardLoad         decimal.Decimal
	SoftLoad         decimal.Decimal
	Classification   dailyload.Classification
	AdvisoryConflict bool
}

// RejectionError is a governance rejection: an expected business outcome
// carrying enough detail for the caller to render an actionable message.
type RejectionError struct {
	Code           string
	ProjectedTotal decimal.Decimal
	Limit          decimal.Decimal
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s: projected total %s%% exceeds limit %s%%", e.Code, e.ProjectedTotal, e.Limit)
}

func rejectionFromVerdict(v Verdict) *RejectionError {
	return &RejectionError{
		Code:           v.Reason,
		ProjectedTotal: v.ProjectedTotal,
		Limit:          v.Limit,
	}
}

// EvaluateCandidate runs the governed conflict check. Pure: existing
// allocations and governance settings are explicit inputs, never fetched
// here. GHOST rows among existing are ignored; a GHOST candidate is accepted
// without affecting any aggregate.
func EvaluateCandidate(
	cand Candidate,
	existing []allocation.Allocation,
	capacityHoursPerWeek *decimal.Decimal,
	settings governance.Settings,
) (Verdict, error) {
	hardLoad := decimal.Zero
	softLoad := decimal.Zero

	for _, a := range existing {
		if a.IsGhost() {
			continue
		}
		if cand.ExcludeID != uuid.Nil && a.ID() == cand.ExcludeID {
			continue
		}
		if !a.Overlaps(cand.StartDate, cand.EndDate) {
			continue
		}
		percent, err := a.PercentOfWeek(capacityHoursPerWeek)
		if err != nil {
			return Verdict{}, err
		}
		switch a.Type() {
		case allocation.Hard:
			hardLoad = hardLoad.Add(percent)
		case allocation.Soft:
			softLoad = softLoad.Add(percent)
		}
	}

	if cand.Type == allocation.Ghost {
		return Verdict{
			Accepted:       true,
			HardLoad:       hardLoad,
			SoftLoad:       softLoad,
			Classification: dailyload.Classify(hardLoad, softLoad, settings),
		}, nil
	}

	// The decisive aggregate follows the candidate's own type: HARD is
	// checked against committed load only, SOFT against everything.
	var projected decimal.Decimal
	if cand.Type == allocation.Hard {
		projected = hardLoad.Add(cand.Percent)
	} else {
		projected = hardLoad.Add(softLoad).Add(cand.Percent)
	}

	hardForClass := hardLoad
	if cand.Type == allocation.Hard {
		hardForClass = hardForClass.Add(cand.Percent)
	}
	softForClass := softLoad
	if cand.Type == allocation.Soft {
		softForClass = softForClass.Add(cand.Percent)
	}

	verdict := Verdict{
		ProjectedTotal: projected,
		HardLoad:       hardLoad,
		SoftLoad:       softLoad,
		Classification: dailyload.Classify(hardForClass, softForClass, settings),
	}

	if projected.GreaterThan(settings.HardCap) {
		// Absolute: justification never bypasses the hard cap.
		verdict.Reason = ReasonHardCapExceeded
		verdict.Limit = settings.HardCap
		return verdict, nil
	}
	if projected.GreaterThan(settings.RequireJustificationAbove) && isBlank(cand.Justification) {
		verdict.Reason = ReasonJustificationRequired
		verdict.Limit = settings.RequireJustificationAbove
		return verdict, nil
	}

	verdict.Accepted = true
	if cand.Type == allocation.Soft && hardLoad.Add(softLoad).Add(cand.Percent).GreaterThan(dailyload.DefaultCapacityPercent) {
		verdict.AdvisoryConflict = true
	}
	return verdict, nil
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
