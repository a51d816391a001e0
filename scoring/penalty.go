package scoring

import "math"

// PenaltyPercent is the share of the raw value deducted for a procedural infraction.
const PenaltyPercent = 20

// ApplyPenalty returns the value to store and the amount deducted.
// The deduction is floor(raw * 20%). Callers always pass the unpenalized
// value so toggling the penalty never compounds.
func ApplyPenalty(raw float64, penalty bool) (effective, deduction float64) {
	if !penalty || raw <= 0 {
		return raw, 0
	}
	deduction = math.Floor(raw * PenaltyPercent / 100)
	return raw - deduction, deduction
}
