package scoring

import "math"

// speedExponent shapes lower-is-better points: (best/raw)^1.333.
const speedExponent = 1.333

// truncEpsilon absorbs binary representation error so 29.0 stored as
// 28.999999999999996 still truncates to 29.
const truncEpsilon = 1e-9

// Truncate3 truncates x to three decimals without rounding.
func Truncate3(x float64) float64 {
	return math.Floor(x*1000+truncEpsilon) / 1000
}

// NormalizeRound returns the points of each result of one round, in order.
// results must cover every competitor of one class. A nil entry means the
// points are undetermined and must not be shown as zero.
//
// Raw-sum rounds are never withheld: points equal the raw value. Weighted
// rounds stay undetermined for everyone until every competitor has an
// outcome, then score against the best positive value.
func NormalizeRound(f Formula, results []RoundResult) []*float64 {
	points := make([]*float64, len(results))

	if !f.Weighted() {
		for i, r := range results {
			switch r.Kind {
			case Numeric:
				points[i] = ptr(r.Value)
			case Outcome:
				points[i] = ptr(0)
			}
		}
		return points
	}

	if len(results) == 0 {
		return points
	}
	for _, r := range results {
		if !r.HasOutcome() {
			return points
		}
	}

	best, ok := bestValue(f, results)
	for i, r := range results {
		if !ok || r.Kind != Numeric || r.Value <= 0 {
			points[i] = ptr(0)
			continue
		}
		points[i] = ptr(Truncate3(relativePoints(f, r.Value, best)))
	}
	return points
}

func bestValue(f Formula, results []RoundResult) (float64, bool) {
	var best float64
	found := false
	for _, r := range results {
		if r.Kind != Numeric || r.Value <= 0 {
			continue
		}
		switch {
		case !found:
			best = r.Value
		case f == BestRelativeLower && r.Value < best:
			best = r.Value
		case f == BestRelativeHigher && r.Value > best:
			best = r.Value
		}
		found = true
	}
	return best, found
}

func relativePoints(f Formula, raw, best float64) float64 {
	if f == BestRelativeLower {
		return math.Pow(best, speedExponent) / math.Pow(raw, speedExponent) * 100
	}
	return raw * 100 / best
}

func ptr(v float64) *float64 { return &v }
