package scoring

import (
	"fmt"
	"strconv"
)

// Kind tags the variant held by a RoundResult.
type Kind int

const (
	// Unscored means nothing has been recorded for the round yet.
	Unscored Kind = iota
	// Numeric holds a scored value, possibly after a penalty deduction.
	Numeric
	// Outcome holds a non-numeric result code such as a forfeit.
	Outcome
	// Rejump means the previous result was voided and a new jump is owed.
	Rejump
)

func (k Kind) String() string {
	switch k {
	case Unscored:
		return "unscored"
	case Numeric:
		return "numeric"
	case Outcome:
		return "outcome"
	case Rejump:
		return "rejump"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Penalty keeps the pre-penalty value and the amount deducted, for display only.
type Penalty struct {
	PreValue  float64 `json:"preValue"`
	Deduction float64 `json:"deduction"`
}

// RoundResult is what a team has on record for one round.
// Value is set for Numeric, Code for Outcome, Penalty only for penalized Numeric results.
type RoundResult struct {
	Kind    Kind
	Value   float64
	Code    string
	Penalty *Penalty
}

// NumericResult records a scored value.
func NumericResult(v float64) RoundResult {
	return RoundResult{Kind: Numeric, Value: v}
}

// PenalizedResult applies the procedural penalty to the unpenalized value.
func PenalizedResult(original float64) RoundResult {
	effective, deduction := ApplyPenalty(original, true)
	return RoundResult{
		Kind:    Numeric,
		Value:   effective,
		Penalty: &Penalty{PreValue: original, Deduction: deduction},
	}
}

// OutcomeResult records a non-numeric result code.
func OutcomeResult(code string) RoundResult {
	return RoundResult{Kind: Outcome, Code: code}
}

// RejumpResult voids whatever was recorded for the round.
func RejumpResult() RoundResult {
	return RoundResult{Kind: Rejump}
}

// HasOutcome reports whether the attempt was recorded, scored or not.
func (r RoundResult) HasOutcome() bool {
	return r.Kind == Numeric || r.Kind == Outcome
}

// Raw returns the numeric value, or nil when there is none.
func (r RoundResult) Raw() *float64 {
	if r.Kind != Numeric {
		return nil
	}
	v := r.Value
	return &v
}

// PenaltyNote describes the deduction, e.g. "51 - 10 (20%)". Empty without a penalty.
func (r RoundResult) PenaltyNote() string {
	if r.Kind != Numeric || r.Penalty == nil {
		return ""
	}
	return fmt.Sprintf("%s - %s (%d%%)", formatValue(r.Penalty.PreValue), formatValue(r.Penalty.Deduction), PenaltyPercent)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
