package scoring

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultRulesLookup(t *testing.T) {
	cases := []struct {
		id        string
		rounds    int
		weighted  bool
		penalties bool
	}{
		{"fs-4way", 10, false, false},
		{"cf-4way-rotation", 8, false, true},
		{"wingsuit-performance", 9, true, false},
		{"canopy-piloting", 9, true, false},
	}
	for _, tc := range cases {
		rule, err := DefaultRules.Lookup(tc.id)
		if err != nil {
			t.Fatalf("Lookup(%q) failed: %v", tc.id, err)
		}
		if rule.Rounds != tc.rounds || rule.Weighted() != tc.weighted || rule.Penalties != tc.penalties {
			t.Fatalf("unexpected rule for %s: %+v", tc.id, rule)
		}
		for round := 1; round <= rule.Rounds; round++ {
			if !rule.Scored(round) {
				t.Fatalf("%s round %d should be scored", tc.id, round)
			}
		}
		if rule.Scored(0) || rule.Scored(rule.Rounds+1) {
			t.Fatalf("%s scores rounds outside 1-%d", tc.id, rule.Rounds)
		}
	}
}

func TestCanopyPilotingSpeedGroupIsLowerBetter(t *testing.T) {
	rule, err := DefaultRules.Lookup("canopy-piloting")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	want := map[int]Formula{1: BestRelativeHigher, 3: BestRelativeHigher, 4: BestRelativeLower, 6: BestRelativeLower, 7: BestRelativeHigher, 9: BestRelativeHigher}
	for round, f := range want {
		got, ok := rule.FormulaFor(round)
		if !ok || got != f {
			t.Fatalf("round %d: got %q want %q", round, got, f)
		}
	}
}

func TestLookupUnknownDisciplineFailsClosed(t *testing.T) {
	_, err := DefaultRules.Lookup("accuracy-landing")
	if !errors.Is(err, ErrUnknownDiscipline) {
		t.Fatalf("expected ErrUnknownDiscipline, got %v", err)
	}
}

func TestNewRuleTableRejectsBadRules(t *testing.T) {
	cases := []struct {
		name string
		rule Rule
		want string
	}{
		{"no rounds", Rule{ID: "x"}, "rounds must be positive"},
		{"overlap", Rule{ID: "x", Rounds: 4, Groups: []RoundGroup{{1, 3, "", RawSum}, {3, 4, "", RawSum}}}, "more than one group"},
		{"out of range", Rule{ID: "x", Rounds: 2, Groups: []RoundGroup{{1, 3, "", RawSum}}}, "outside rounds"},
		{"bad formula", Rule{ID: "x", Rounds: 1, Groups: []RoundGroup{{1, 1, "", "median"}}}, "unknown formula"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRuleTable(tc.rule)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}

	r := Rule{ID: "dup", Rounds: 1, Groups: rawSum(1)}
	if _, err := NewRuleTable(r, r); err == nil {
		t.Fatal("expected duplicate rule error")
	}
}

func TestRuleTableAllKeepsRegistrationOrder(t *testing.T) {
	table, err := NewRuleTable(
		Rule{ID: "b", Rounds: 1, Groups: rawSum(1)},
		Rule{ID: "a", Rounds: 1, Groups: rawSum(1)},
	)
	if err != nil {
		t.Fatalf("NewRuleTable failed: %v", err)
	}
	all := table.All()
	if len(all) != 2 || all[0].ID != "b" || all[1].ID != "a" {
		t.Fatalf("unexpected order: %+v", all)
	}
}
