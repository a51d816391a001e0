package scoring

import (
	"math"
	"testing"
)

func values(points []*float64) []any {
	out := make([]any, len(points))
	for i, p := range points {
		if p == nil {
			out[i] = nil
			continue
		}
		out[i] = *p
	}
	return out
}

func assertPoints(t *testing.T, got []*float64, want ...any) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d points, want %d", len(got), len(want))
	}
	for i := range want {
		switch w := want[i].(type) {
		case nil:
			if got[i] != nil {
				t.Fatalf("points[%d] = %v, want undetermined (all: %v)", i, *got[i], values(got))
			}
		case float64:
			if got[i] == nil || *got[i] != w {
				t.Fatalf("points[%d] = %v, want %v", i, values(got)[i], w)
			}
		}
	}
}

func TestNormalizeHigherBetter(t *testing.T) {
	got := NormalizeRound(BestRelativeHigher, []RoundResult{
		NumericResult(80), NumericResult(100), NumericResult(60),
	})
	assertPoints(t, got, 80.0, 100.0, 60.0)
}

func TestNormalizeLowerBetter(t *testing.T) {
	got := NormalizeRound(BestRelativeLower, []RoundResult{
		NumericResult(10.0), NumericResult(12.0),
	})
	assertPoints(t, got, 100.0, 78.424)
}

func TestNormalizeTruncatesInsteadOfRounding(t *testing.T) {
	// 2/3*100 = 66.6666... must become 66.666, not 66.667.
	got := NormalizeRound(BestRelativeHigher, []RoundResult{NumericResult(3), NumericResult(2)})
	assertPoints(t, got, 100.0, 66.666)
}

func TestNormalizeIncompleteRoundIsUndetermined(t *testing.T) {
	got := NormalizeRound(BestRelativeHigher, []RoundResult{
		NumericResult(80), {}, NumericResult(60),
	})
	assertPoints(t, got, nil, nil, nil)

	got = NormalizeRound(BestRelativeHigher, []RoundResult{NumericResult(80), RejumpResult()})
	assertPoints(t, got, nil, nil)
}

func TestNormalizeOutcomeCountsButScoresZero(t *testing.T) {
	got := NormalizeRound(BestRelativeHigher, []RoundResult{
		NumericResult(50), OutcomeResult("DNS"), NumericResult(40),
	})
	assertPoints(t, got, 100.0, 0.0, 80.0)
}

func TestNormalizeNonPositiveRawNeverBest(t *testing.T) {
	got := NormalizeRound(BestRelativeLower, []RoundResult{
		NumericResult(0), NumericResult(8), NumericResult(10),
	})
	if got[0] == nil || *got[0] != 0 {
		t.Fatalf("zero raw must score 0, got %v", values(got))
	}
	if got[1] == nil || *got[1] != 100 {
		t.Fatalf("8 must be best, got %v", values(got))
	}

	got = NormalizeRound(BestRelativeHigher, []RoundResult{OutcomeResult("DSQ"), NumericResult(0)})
	assertPoints(t, got, 0.0, 0.0)
}

func TestNormalizeRawSumIsNeverWithheld(t *testing.T) {
	got := NormalizeRound(RawSum, []RoundResult{
		NumericResult(12), {}, OutcomeResult("NJ"), RejumpResult(),
	})
	assertPoints(t, got, 12.0, nil, 0.0, nil)
}

func TestNormalizeBounds(t *testing.T) {
	raws := []float64{0.5, 3.25, 17, 21.37, 25, 99.999, 100, 250.4}
	for _, f := range []Formula{BestRelativeHigher, BestRelativeLower} {
		results := make([]RoundResult, len(raws))
		for i, r := range raws {
			results[i] = NumericResult(r)
		}
		points := NormalizeRound(f, results)
		hundreds := 0
		for i, p := range points {
			if p == nil || *p < 0 || *p > 100 {
				t.Fatalf("%s: points[%d] out of bounds: %v", f, i, values(points)[i])
			}
			if *p == 100 {
				hundreds++
			}
		}
		if hundreds != 1 {
			t.Fatalf("%s: expected exactly one 100.0, got %d (%v)", f, hundreds, values(points))
		}
	}
}

func TestTruncate3(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{78.42443508362487, 78.424},
		{28.999999999999996, 29},
		{1.9999, 1.999},
		{100, 100},
		{0, 0},
	}
	for _, tc := range cases {
		if got := Truncate3(tc.in); math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("Truncate3(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
