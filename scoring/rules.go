// Package scoring turns raw per-round results into official standings.
//
// Data flows one way: raw results are checked for round completeness, rounds
// of weighted disciplines are normalized against the best result of the
// class, and the per-round values are summed and ranked. Nothing computed
// here is persisted; standings are recomputed from the stored results on
// every read.
//
// Disciplines are described by a Rule in a RuleTable. Adding a discipline
// means adding a Rule, never a new branch elsewhere in the package.
package scoring

import (
	"fmt"
	"slices"
)

// Formula selects how a group of rounds is turned into points.
type Formula string

const (
	// RawSum adds raw values directly.
	RawSum Formula = "raw-sum"
	// BestRelativeHigher scores raw/best*100, the largest raw value is best.
	BestRelativeHigher Formula = "best-relative-higher-better"
	// BestRelativeLower scores (best/raw)^1.333*100, the smallest raw value is best.
	BestRelativeLower Formula = "best-relative-lower-better"
)

// Weighted reports whether the formula is relative to the best result of the round.
func (f Formula) Weighted() bool {
	return f == BestRelativeHigher || f == BestRelativeLower
}

// RoundGroup applies one formula to rounds Start..End inclusive.
type RoundGroup struct {
	Start   int     `json:"start"`
	End     int     `json:"end"`
	Label   string  `json:"label,omitempty"`
	Formula Formula `json:"formula"`
}

// Rule describes how a discipline is scored.
type Rule struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Rounds    int          `json:"rounds"`
	Groups    []RoundGroup `json:"groups"`
	Penalties bool         `json:"penalties"`
}

// FormulaFor returns the formula of the group containing round.
func (r Rule) FormulaFor(round int) (Formula, bool) {
	for _, g := range r.Groups {
		if round >= g.Start && round <= g.End {
			return g.Formula, true
		}
	}
	return "", false
}

// Scored reports whether round is scored individually in this discipline.
func (r Rule) Scored(round int) bool {
	if round < 1 || round > r.Rounds {
		return false
	}
	_, ok := r.FormulaFor(round)
	return ok
}

// Weighted reports whether any round group is normalized against the best result.
func (r Rule) Weighted() bool {
	for _, g := range r.Groups {
		if g.Formula.Weighted() {
			return true
		}
	}
	return false
}

func (r Rule) validate() error {
	if r.ID == "" {
		return fmt.Errorf("rule without id")
	}
	if r.Rounds < 1 {
		return fmt.Errorf("rule %s: rounds must be positive", r.ID)
	}
	covered := make([]bool, r.Rounds+1)
	for _, g := range r.Groups {
		switch g.Formula {
		case RawSum, BestRelativeHigher, BestRelativeLower:
		default:
			return fmt.Errorf("rule %s: unknown formula %q", r.ID, g.Formula)
		}
		if g.Start < 1 || g.End > r.Rounds || g.Start > g.End {
			return fmt.Errorf("rule %s: group %d-%d outside rounds 1-%d", r.ID, g.Start, g.End, r.Rounds)
		}
		for round := g.Start; round <= g.End; round++ {
			if covered[round] {
				return fmt.Errorf("rule %s: round %d in more than one group", r.ID, round)
			}
			covered[round] = true
		}
	}
	return nil
}

// RuleTable is an immutable registry of discipline rules.
type RuleTable struct {
	order []string
	rules map[string]Rule
}

// NewRuleTable validates rules and indexes them by id, keeping their order.
func NewRuleTable(rules ...Rule) (*RuleTable, error) {
	t := &RuleTable{rules: make(map[string]Rule, len(rules))}
	for _, r := range rules {
		if err := r.validate(); err != nil {
			return nil, err
		}
		if _, dup := t.rules[r.ID]; dup {
			return nil, fmt.Errorf("duplicate rule %s", r.ID)
		}
		r.Groups = slices.Clone(r.Groups)
		t.rules[r.ID] = r
		t.order = append(t.order, r.ID)
	}
	return t, nil
}

// Lookup returns the rule for a discipline id. Unknown ids fail closed.
func (t *RuleTable) Lookup(id string) (Rule, error) {
	r, ok := t.rules[id]
	if !ok {
		return Rule{}, fmt.Errorf("%w: %q", ErrUnknownDiscipline, id)
	}
	return r, nil
}

// All returns every rule in registration order.
func (t *RuleTable) All() []Rule {
	out := make([]Rule, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rules[id])
	}
	return out
}

// position is used to order disciplines consistently in multi-discipline views.
func (t *RuleTable) position(id string) int {
	return slices.Index(t.order, id)
}

func rawSum(rounds int) []RoundGroup {
	return []RoundGroup{{Start: 1, End: rounds, Formula: RawSum}}
}

// DefaultRules is the rule table used by the server and tools.
var DefaultRules = mustRuleTable(
	Rule{ID: "fs-4way", Name: "Formation Skydiving 4-way", Rounds: 10, Groups: rawSum(10)},
	Rule{ID: "fs-8way", Name: "Formation Skydiving 8-way", Rounds: 10, Groups: rawSum(10)},
	Rule{ID: "vfs-4way", Name: "Vertical Formation Skydiving 4-way", Rounds: 10, Groups: rawSum(10)},
	Rule{ID: "cf-2way-sequential", Name: "Canopy Formation 2-way Sequential", Rounds: 8, Groups: rawSum(8), Penalties: true},
	Rule{ID: "cf-4way-rotation", Name: "Canopy Formation 4-way Rotation", Rounds: 8, Groups: rawSum(8), Penalties: true},
	Rule{ID: "cf-4way-sequence", Name: "Canopy Formation 4-way Sequential", Rounds: 8, Groups: rawSum(8), Penalties: true},
	Rule{ID: "artistic-freefly", Name: "Artistic Freefly", Rounds: 7, Groups: rawSum(7)},
	Rule{ID: "artistic-freestyle", Name: "Artistic Freestyle", Rounds: 7, Groups: rawSum(7)},
	Rule{ID: "wingsuit-performance", Name: "Wingsuit Performance", Rounds: 9, Groups: []RoundGroup{
		{Start: 1, End: 3, Label: "time", Formula: BestRelativeHigher},
		{Start: 4, End: 6, Label: "distance", Formula: BestRelativeHigher},
		{Start: 7, End: 9, Label: "speed", Formula: BestRelativeHigher},
	}},
	Rule{ID: "canopy-piloting", Name: "Canopy Piloting", Rounds: 9, Groups: []RoundGroup{
		{Start: 1, End: 3, Label: "distance", Formula: BestRelativeHigher},
		{Start: 4, End: 6, Label: "speed", Formula: BestRelativeLower},
		{Start: 7, End: 9, Label: "zone accuracy", Formula: BestRelativeHigher},
	}},
)

func mustRuleTable(rules ...Rule) *RuleTable {
	t, err := NewRuleTable(rules...)
	if err != nil {
		panic(err)
	}
	return t
}
