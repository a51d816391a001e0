// Package store keeps competitions, teams and round scores in the database
// and serves them to the scoring engine.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/padraicbc/skyscore/models"
	"github.com/padraicbc/skyscore/scoring"
)

// ErrDuplicate is returned when a unique constraint rejects an insert.
var ErrDuplicate = errors.New("already exists")

// Store is the bun-backed score record store.
type Store struct {
	db *bun.DB
}

// New wraps an open database.
func New(db *bun.DB) *Store {
	return &Store{db: db}
}

var _ scoring.Store = (*Store)(nil)

// GetTeam returns a team as a scoring competitor.
func (s *Store) GetTeam(ctx context.Context, teamID int) (scoring.Competitor, error) {
	team := &models.Team{}
	err := s.db.NewSelect().Model(team).Where("t.id = ?", teamID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return scoring.Competitor{}, fmt.Errorf("team %d: %w", teamID, scoring.ErrNotFound)
		}
		return scoring.Competitor{}, err
	}
	return competitor(team), nil
}

// ListTeams returns the teams of a competition in insertion order.
func (s *Store) ListTeams(ctx context.Context, competitionID int, f scoring.TeamFilter) ([]scoring.Competitor, error) {
	teams, err := s.Teams(ctx, competitionID, f)
	if err != nil {
		return nil, err
	}
	out := make([]scoring.Competitor, len(teams))
	for i := range teams {
		out[i] = competitor(&teams[i])
	}
	return out, nil
}

// Teams returns the team rows of a competition in insertion order.
func (s *Store) Teams(ctx context.Context, competitionID int, f scoring.TeamFilter) ([]models.Team, error) {
	var teams []models.Team
	q := s.db.NewSelect().Model(&teams).
		Where("t.competition_id = ?", competitionID).
		OrderExpr("t.id ASC")
	if f.Discipline != "" {
		q = q.Where("t.discipline = ?", f.Discipline)
	}
	if f.Class != "" {
		q = q.Where("t.class = ?", f.Class)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return teams, nil
}

// ListScores returns a team's results keyed by round.
func (s *Store) ListScores(ctx context.Context, competitionID, teamID int) (map[int]scoring.RoundResult, error) {
	rows, err := s.Scores(ctx, competitionID, teamID)
	if err != nil {
		return nil, err
	}
	out := make(map[int]scoring.RoundResult, len(rows))
	for _, row := range rows {
		out[row.RoundNum] = Result(row)
	}
	return out, nil
}

// Scores returns a team's score rows ordered by round.
func (s *Store) Scores(ctx context.Context, competitionID, teamID int) ([]models.Score, error) {
	var rows []models.Score
	err := s.db.NewSelect().Model(&rows).
		Where("s.competition_id = ?", competitionID).
		Where("s.team_id = ?", teamID).
		OrderExpr("s.round_num ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SaveResult upserts the row for (team, round). Every column is replaced in
// the same statement, so a rejump clears the value and the outcome together.
func (s *Store) SaveResult(ctx context.Context, team scoring.Competitor, round int, res scoring.RoundResult, user string) error {
	row := Row(team, round, res)
	row.UpdatedBy = user
	row.UpdatedAt = time.Now().UTC()

	_, err := s.db.NewInsert().Model(row).
		On("CONFLICT (team_id, round_num) DO UPDATE").
		Set("competition_id = EXCLUDED.competition_id").
		Set("raw_value = EXCLUDED.raw_value").
		Set("outcome_code = EXCLUDED.outcome_code").
		Set("penalty_applied = EXCLUDED.penalty_applied").
		Set("pre_penalty_value = EXCLUDED.pre_penalty_value").
		Set("deduction = EXCLUDED.deduction").
		Set("rejump = EXCLUDED.rejump").
		Set("updated_by = EXCLUDED.updated_by").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

// DeleteResult removes the row for (team, round).
func (s *Store) DeleteResult(ctx context.Context, teamID, round int) error {
	res, err := s.db.NewDelete().Model((*models.Score)(nil)).
		Where("team_id = ?", teamID).
		Where("round_num = ?", round).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("team %d round %d: %w", teamID, round, scoring.ErrNotFound)
	}
	return nil
}

// Competitions returns every competition, newest first.
func (s *Store) Competitions(ctx context.Context) ([]models.Competition, error) {
	var comps []models.Competition
	err := s.db.NewSelect().Model(&comps).OrderExpr("cp.start_date DESC, cp.id DESC").Scan(ctx)
	return comps, err
}

// Competition returns one competition.
func (s *Store) Competition(ctx context.Context, id int) (*models.Competition, error) {
	comp := &models.Competition{}
	err := s.db.NewSelect().Model(comp).Where("cp.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("competition %d: %w", id, scoring.ErrNotFound)
		}
		return nil, err
	}
	return comp, nil
}

// CreateCompetition inserts a competition and fills in its id.
func (s *Store) CreateCompetition(ctx context.Context, comp *models.Competition) error {
	_, err := s.db.NewInsert().Model(comp).Exec(ctx)
	return duplicate(err)
}

// CreateTeams inserts teams in order inside one transaction, after checking
// their competition exists. Either every team is stored or none.
func (s *Store) CreateTeams(ctx context.Context, teams ...*models.Team) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, team := range teams {
			exists, err := tx.NewSelect().Model((*models.Competition)(nil)).
				Where("cp.id = ?", team.CompetitionID).
				Exists(ctx)
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf("competition %d: %w", team.CompetitionID, scoring.ErrNotFound)
			}
			if _, err := tx.NewInsert().Model(team).Exec(ctx); err != nil {
				return duplicate(err)
			}
		}
		return nil
	})
}

func duplicate(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "unique constraint failed") {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

func competitor(t *models.Team) scoring.Competitor {
	return scoring.Competitor{
		ID:            t.ID,
		CompetitionID: t.CompetitionID,
		Name:          t.Name,
		Number:        t.Number,
		Class:         t.Class,
		Discipline:    t.Discipline,
	}
}

// Result converts a stored row to the engine's result variant.
func Result(row models.Score) scoring.RoundResult {
	switch {
	case row.Rejump:
		return scoring.RejumpResult()
	case row.RawValue != nil:
		res := scoring.NumericResult(*row.RawValue)
		if row.PenaltyApplied && row.PrePenaltyValue != nil && row.Deduction != nil {
			res.Penalty = &scoring.Penalty{PreValue: *row.PrePenaltyValue, Deduction: *row.Deduction}
		}
		return res
	case row.OutcomeCode != nil:
		return scoring.OutcomeResult(*row.OutcomeCode)
	}
	return scoring.RoundResult{}
}

// Row converts a result to the row stored for (team, round).
func Row(team scoring.Competitor, round int, res scoring.RoundResult) *models.Score {
	row := &models.Score{
		CompetitionID: team.CompetitionID,
		TeamID:        team.ID,
		RoundNum:      round,
	}
	switch res.Kind {
	case scoring.Numeric:
		v := res.Value
		row.RawValue = &v
		if res.Penalty != nil {
			pre, ded := res.Penalty.PreValue, res.Penalty.Deduction
			row.PenaltyApplied = true
			row.PrePenaltyValue = &pre
			row.Deduction = &ded
		}
	case scoring.Outcome:
		code := res.Code
		row.OutcomeCode = &code
	case scoring.Rejump:
		row.Rejump = true
	}
	return row
}
