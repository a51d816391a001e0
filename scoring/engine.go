package scoring

import (
	"context"
	"math"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// TeamFilter narrows ListTeams. Empty fields match everything.
type TeamFilter struct {
	Discipline string
	Class      string
}

// Store is the score record store the engine reads from and writes through.
type Store interface {
	GetTeam(ctx context.Context, teamID int) (Competitor, error)
	// ListTeams returns teams in insertion order.
	ListTeams(ctx context.Context, competitionID int, filter TeamFilter) ([]Competitor, error)
	ListScores(ctx context.Context, competitionID, teamID int) (map[int]RoundResult, error)
	// SaveResult upserts the result for (teamID, round) atomically.
	SaveResult(ctx context.Context, team Competitor, round int, result RoundResult, user string) error
	DeleteResult(ctx context.Context, teamID, round int) error
}

// ClassStandings is the ranking of one class.
type ClassStandings struct {
	Class     string     `json:"class"`
	Standings []Standing `json:"standings"`
}

// DisciplineStandings groups the class rankings of one discipline.
type DisciplineStandings struct {
	Discipline string           `json:"discipline"`
	Name       string           `json:"name"`
	Weighted   bool             `json:"weighted"`
	Rounds     int              `json:"rounds"`
	Classes    []ClassStandings `json:"classes"`
}

// Engine computes standings and validates score writes.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	store Store
	rules *RuleTable
	log   *zap.Logger
}

// NewEngine returns an engine over store. A nil rules uses DefaultRules,
// a nil logger discards logs.
func NewEngine(store Store, rules *RuleTable, log *zap.Logger) *Engine {
	if rules == nil {
		rules = DefaultRules
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{store: store, rules: rules, log: log}
}

// Rules exposes the engine's rule table.
func (e *Engine) Rules() *RuleTable { return e.rules }

// ComputeStandings ranks a discipline of a competition. With an empty class
// every class of the discipline is ranked separately, ordered by class name.
func (e *Engine) ComputeStandings(ctx context.Context, competitionID int, discipline, class string) (DisciplineStandings, error) {
	rule, err := e.rules.Lookup(discipline)
	if err != nil {
		return DisciplineStandings{}, err
	}
	teams, err := e.store.ListTeams(ctx, competitionID, TeamFilter{Discipline: discipline, Class: class})
	if err != nil {
		return DisciplineStandings{}, storageErr("list teams", err)
	}
	return e.standingsFor(ctx, rule, competitionID, teams)
}

// ComputeAll ranks every discipline entered in a competition, in rule table order.
// A team entered in a discipline missing from the rule table fails the whole call.
func (e *Engine) ComputeAll(ctx context.Context, competitionID int) ([]DisciplineStandings, error) {
	teams, err := e.store.ListTeams(ctx, competitionID, TeamFilter{})
	if err != nil {
		return nil, storageErr("list teams", err)
	}

	byDiscipline := map[string][]Competitor{}
	var ids []string
	for _, t := range teams {
		if _, ok := byDiscipline[t.Discipline]; !ok {
			if _, err := e.rules.Lookup(t.Discipline); err != nil {
				return nil, err
			}
			ids = append(ids, t.Discipline)
		}
		byDiscipline[t.Discipline] = append(byDiscipline[t.Discipline], t)
	}
	slices.SortFunc(ids, func(a, b string) int {
		return e.rules.position(a) - e.rules.position(b)
	})

	out := make([]DisciplineStandings, 0, len(ids))
	for _, id := range ids {
		rule, _ := e.rules.Lookup(id)
		ds, err := e.standingsFor(ctx, rule, competitionID, byDiscipline[id])
		if err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, nil
}

// IsRoundComplete reports whether every team of class has an outcome for round.
func (e *Engine) IsRoundComplete(ctx context.Context, competitionID int, discipline, class string, round int) (bool, error) {
	rule, err := e.rules.Lookup(discipline)
	if err != nil {
		return false, err
	}
	if !rule.Scored(round) {
		return false, invalidf("round %d outside 1-%d for %s", round, rule.Rounds, rule.ID)
	}
	sheets, err := e.classSheets(ctx, competitionID, discipline, class)
	if err != nil {
		return false, err
	}
	return IsRoundComplete(sheets, round), nil
}

// RoundStatus reports completeness of every round of a class.
func (e *Engine) RoundStatus(ctx context.Context, competitionID int, discipline, class string) ([]RoundState, error) {
	rule, err := e.rules.Lookup(discipline)
	if err != nil {
		return nil, err
	}
	sheets, err := e.classSheets(ctx, competitionID, discipline, class)
	if err != nil {
		return nil, err
	}
	states := make([]RoundState, 0, rule.Rounds)
	for round := 1; round <= rule.Rounds; round++ {
		if rule.Scored(round) {
			states = append(states, EvaluateRound(sheets, round))
		}
	}
	return states, nil
}

// ScoreInput is one judge write. Exactly one of Raw and Outcome must be set.
// Raw is always the unpenalized value.
type ScoreInput struct {
	TeamID  int
	Round   int
	Raw     *float64
	Penalty bool
	Outcome string
	User    string
}

// ScoreRound validates and stores a result, returning the value stored
// after any penalty (0 for outcome codes).
func (e *Engine) ScoreRound(ctx context.Context, in ScoreInput) (float64, error) {
	team, rule, err := e.teamRule(ctx, in.TeamID, in.Round)
	if err != nil {
		return 0, err
	}

	code := strings.TrimSpace(in.Outcome)
	var res RoundResult
	switch {
	case in.Raw != nil && code != "":
		return 0, invalidf("a round takes either a raw value or an outcome code, not both")
	case code != "":
		if in.Penalty {
			return 0, invalidf("penalty needs a raw value")
		}
		res = OutcomeResult(code)
	case in.Raw != nil:
		raw := *in.Raw
		if math.IsNaN(raw) || math.IsInf(raw, 0) || raw < 0 {
			return 0, invalidf("raw value must be a non-negative number")
		}
		if in.Penalty && !rule.Penalties {
			return 0, invalidf("%s does not use procedural penalties", rule.ID)
		}
		if in.Penalty {
			res = PenalizedResult(raw)
		} else {
			res = NumericResult(raw)
		}
	default:
		return 0, invalidf("raw value or outcome code required")
	}

	if err := e.store.SaveResult(ctx, team, in.Round, res, in.User); err != nil {
		return 0, storageErr("save result", err)
	}

	fields := []zap.Field{
		zap.Int("team_id", team.ID),
		zap.Int("round", in.Round),
		zap.String("kind", res.Kind.String()),
		zap.Float64("effective", res.Value),
		zap.String("user", in.User),
	}
	if res.Penalty != nil {
		fields = append(fields, zap.Float64("deduction", res.Penalty.Deduction))
	}
	e.log.Info("round scored", fields...)
	return res.Value, nil
}

// AwardRejump voids the round's result so it no longer counts as recorded.
func (e *Engine) AwardRejump(ctx context.Context, teamID, round int, user string) error {
	team, _, err := e.teamRule(ctx, teamID, round)
	if err != nil {
		return err
	}
	if err := e.store.SaveResult(ctx, team, round, RejumpResult(), user); err != nil {
		return storageErr("save rejump", err)
	}
	e.log.Info("rejump awarded", zap.Int("team_id", teamID), zap.Int("round", round), zap.String("user", user))
	return nil
}

// RemoveScore deletes a round's record entirely (administrative correction).
func (e *Engine) RemoveScore(ctx context.Context, teamID, round int) error {
	if _, _, err := e.teamRule(ctx, teamID, round); err != nil {
		return err
	}
	if err := e.store.DeleteResult(ctx, teamID, round); err != nil {
		return storageErr("delete result", err)
	}
	e.log.Info("score removed", zap.Int("team_id", teamID), zap.Int("round", round))
	return nil
}

func (e *Engine) teamRule(ctx context.Context, teamID, round int) (Competitor, Rule, error) {
	team, err := e.store.GetTeam(ctx, teamID)
	if err != nil {
		return Competitor{}, Rule{}, storageErr("get team", err)
	}
	rule, err := e.rules.Lookup(team.Discipline)
	if err != nil {
		return Competitor{}, Rule{}, err
	}
	if !rule.Scored(round) {
		return Competitor{}, Rule{}, invalidf("round %d outside 1-%d for %s", round, rule.Rounds, rule.ID)
	}
	return team, rule, nil
}

func (e *Engine) classSheets(ctx context.Context, competitionID int, discipline, class string) ([]ScoreSheet, error) {
	if strings.TrimSpace(class) == "" {
		return nil, invalidf("class is required")
	}
	teams, err := e.store.ListTeams(ctx, competitionID, TeamFilter{Discipline: discipline, Class: class})
	if err != nil {
		return nil, storageErr("list teams", err)
	}
	return e.loadSheets(ctx, competitionID, teams)
}

func (e *Engine) loadSheets(ctx context.Context, competitionID int, teams []Competitor) ([]ScoreSheet, error) {
	sheets := make([]ScoreSheet, 0, len(teams))
	for _, t := range teams {
		results, err := e.store.ListScores(ctx, competitionID, t.ID)
		if err != nil {
			return nil, storageErr("list scores", err)
		}
		sheets = append(sheets, ScoreSheet{Competitor: t, Results: results})
	}
	return sheets, nil
}

func (e *Engine) standingsFor(ctx context.Context, rule Rule, competitionID int, teams []Competitor) (DisciplineStandings, error) {
	sheets, err := e.loadSheets(ctx, competitionID, teams)
	if err != nil {
		return DisciplineStandings{}, err
	}

	byClass := map[string][]ScoreSheet{}
	var classes []string
	for _, s := range sheets {
		c := s.Competitor.Class
		if _, ok := byClass[c]; !ok {
			classes = append(classes, c)
		}
		byClass[c] = append(byClass[c], s)
	}
	slices.Sort(classes)

	ds := DisciplineStandings{
		Discipline: rule.ID,
		Name:       rule.Name,
		Weighted:   rule.Weighted(),
		Rounds:     rule.Rounds,
		Classes:    make([]ClassStandings, 0, len(classes)),
	}
	for _, c := range classes {
		ranked := Rank(rule, byClass[c])
		if rule.Weighted() {
			for round := 1; round <= rule.Rounds; round++ {
				f, _ := rule.FormulaFor(round)
				if st := EvaluateRound(byClass[c], round); f.Weighted() && st.Recorded > 0 && !st.Complete {
					e.log.Debug("round points withheld",
						zap.String("discipline", rule.ID), zap.String("class", c),
						zap.Int("round", round), zap.Int("recorded", st.Recorded), zap.Int("total", st.Total))
				}
			}
		}
		ds.Classes = append(ds.Classes, ClassStandings{Class: c, Standings: ranked})
	}
	return ds, nil
}
