package scoring

import (
	"cmp"
	"slices"
)

// RoundCell is one round of one competitor as shown in standings.
// Points is nil while the round is undetermined.
type RoundCell struct {
	Round       int      `json:"round"`
	Raw         *float64 `json:"raw"`
	Outcome     string   `json:"outcome,omitempty"`
	Points      *float64 `json:"points"`
	PenaltyNote string   `json:"penaltyNote,omitempty"`
	Rejump      bool     `json:"rejump,omitempty"`
}

// Standing is one ranked line of a class.
type Standing struct {
	Rank       int         `json:"rank"`
	Tied       bool        `json:"tied,omitempty"`
	Competitor Competitor  `json:"competitor"`
	Total      float64     `json:"total"`
	Rounds     []RoundCell `json:"rounds"`
}

// Rank scores and orders the sheets of one class in one discipline.
//
// Raw-sum disciplines total the raw values. Weighted disciplines total the
// determined points and truncate to three decimals. Sorting is stable by
// total, descending, so equal totals keep the order of sheets (insertion
// order). Equal totals share the rank of the first of them.
func Rank(rule Rule, sheets []ScoreSheet) []Standing {
	standings := make([]Standing, len(sheets))
	for i, s := range sheets {
		standings[i] = Standing{
			Competitor: s.Competitor,
			Rounds:     make([]RoundCell, 0, rule.Rounds),
		}
	}

	weighted := rule.Weighted()
	for round := 1; round <= rule.Rounds; round++ {
		formula, ok := rule.FormulaFor(round)
		if !ok {
			continue
		}
		results := make([]RoundResult, len(sheets))
		for i, s := range sheets {
			results[i] = s.Result(round)
		}
		points := NormalizeRound(formula, results)

		for i, r := range results {
			standings[i].Rounds = append(standings[i].Rounds, RoundCell{
				Round:       round,
				Raw:         r.Raw(),
				Outcome:     r.Code,
				Points:      points[i],
				PenaltyNote: r.PenaltyNote(),
				Rejump:      r.Kind == Rejump,
			})
			switch {
			case weighted && points[i] != nil:
				standings[i].Total += *points[i]
			case !weighted && r.Kind == Numeric:
				standings[i].Total += r.Value
			}
		}
	}

	if weighted {
		for i := range standings {
			standings[i].Total = Truncate3(standings[i].Total)
		}
	}

	slices.SortStableFunc(standings, func(a, b Standing) int {
		return cmp.Compare(b.Total, a.Total)
	})

	for i := range standings {
		if i > 0 && standings[i].Total == standings[i-1].Total {
			standings[i].Rank = standings[i-1].Rank
			standings[i].Tied = true
			standings[i-1].Tied = true
			continue
		}
		standings[i].Rank = i + 1
	}
	return standings
}
