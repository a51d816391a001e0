// cmd/migrate/main.go
// Copies competitions, teams and round scores from a legacy scoring database
// into the configured store. Re-runs skip rows that already exist.
//
// Usage:
//
//	LEGACY_DRIVER=mysql \
//	LEGACY_DSN="user:pass@tcp(host:3306)/scoring?parseTime=true" \
//	go run ./cmd/migrate
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/padraicbc/skyscore/config"
	bundb "github.com/padraicbc/skyscore/db"
	applog "github.com/padraicbc/skyscore/logger"
	"github.com/padraicbc/skyscore/models"
	"github.com/padraicbc/skyscore/scoring"
)

const batchSize = 500

func main() {
	ctx := context.Background()

	cfg := config.LoadTool()
	logger, err := applog.NewConsole(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.LegacyDSN == "" {
		logger.Fatal("LEGACY_DSN required, e.g.: user:pass@tcp(host:3306)/scoring?parseTime=true")
	}
	if cfg.LegacyDriver != config.DriverMySQL && cfg.LegacyDriver != config.DriverSQLite {
		logger.Fatal("LEGACY_DRIVER must be mysql or sqlite", zap.String("driver", cfg.LegacyDriver))
	}

	src, err := sql.Open(cfg.LegacyDriver, cfg.LegacyDSN)
	if err != nil {
		logger.Fatal("open legacy database", zap.Error(err))
	}
	defer src.Close()
	src.SetMaxOpenConns(4)
	if err := src.PingContext(ctx); err != nil {
		logger.Fatal("ping legacy database", zap.Error(err))
	}
	logger.Info("connected to legacy database", zap.String("driver", cfg.LegacyDriver))

	dst := bundb.Setup(cfg)
	defer dst.Close()

	if err := bundb.CreateTables(ctx, dst); err != nil {
		logger.Fatal("create tables", zap.Error(err))
	}

	if err := migrate(ctx, src, dst, logger); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	logger.Info("migration complete")
}

// migrate copies every legacy table in dependency order. Rows the API would
// reject are skipped with a warning instead of aborting the run.
func migrate(ctx context.Context, src *sql.DB, dst *bun.DB, logger *zap.Logger) error {
	teams := map[int]legacyTeam{}
	steps := []struct {
		name string
		fn   func() (int, error)
	}{
		{"competitions", func() (int, error) { return migrateCompetitions(ctx, src, dst, logger) }},
		{"teams", func() (int, error) { return migrateTeams(ctx, src, dst, logger, teams) }},
		{"scores", func() (int, error) { return migrateScores(ctx, src, dst, logger, teams) }},
	}

	for _, s := range steps {
		n, err := s.fn()
		if err != nil {
			return fmt.Errorf("migrate %s: %w", s.name, err)
		}
		logger.Info("table migrated", zap.String("table", s.name), zap.Int("rows", n))
	}

	if dst.Dialect().Name() == dialect.PG {
		resetSequences(ctx, dst, logger)
	}
	return nil
}

// --- helpers ---

// errSkip marks a legacy row that fails validation.
var errSkip = errors.New("skipped")

func skipf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errSkip, fmt.Sprintf(format, args...))
}

// legacyTeam is what score validation needs to know about an imported team.
type legacyTeam struct {
	competitionID int
	rule          scoring.Rule
}

func nullStr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	return &n.String
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	return &n.Float64
}

// bulkInsert inserts a batch, skipping rows that already exist (idempotent re-runs).
func bulkInsert[T any](ctx context.Context, dst *bun.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := dst.NewInsert().Model(&rows).On("CONFLICT DO NOTHING").Exec(ctx)
	return err
}

// copyRows runs query against the legacy database and inserts every scanned
// row into dst in batches of batchSize. Rows whose scan returns errSkip are
// logged and left out.
func copyRows[T any](ctx context.Context, src *sql.DB, dst *bun.DB, logger *zap.Logger, table, query string, scan func(*sql.Rows) (T, error)) (int, error) {
	rows, err := src.QueryContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	batch := make([]T, 0, batchSize)
	total := 0
	for rows.Next() {
		r, err := scan(rows)
		if errors.Is(err, errSkip) {
			logger.Warn("legacy row skipped", zap.String("table", table), zap.Error(err))
			continue
		}
		if err != nil {
			return total, err
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, dst, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := rows.Err(); err != nil {
		return total, err
	}
	if err := bulkInsert(ctx, dst, batch); err != nil {
		return total, err
	}
	return total + len(batch), nil
}

// --- per-table migrations ---

func migrateCompetitions(ctx context.Context, src *sql.DB, dst *bun.DB, logger *zap.Logger) (int, error) {
	return copyRows(ctx, src, dst, logger, "competitions",
		"SELECT id, name, location, start_date FROM competitions",
		func(rows *sql.Rows) (models.Competition, error) {
			var (
				r        models.Competition
				location sql.NullString
			)
			err := rows.Scan(&r.ID, &r.Name, &location, &r.StartDate)
			r.Location = location.String
			return r, err
		})
}

// migrateTeams normalizes class and discipline the way team registration does
// and records every imported team in teams for score validation.
func migrateTeams(ctx context.Context, src *sql.DB, dst *bun.DB, logger *zap.Logger, teams map[int]legacyTeam) (int, error) {
	return copyRows(ctx, src, dst, logger, "teams",
		"SELECT id, competition_id, name, number, class, discipline FROM teams ORDER BY id",
		func(rows *sql.Rows) (models.Team, error) {
			var r models.Team
			if err := rows.Scan(&r.ID, &r.CompetitionID, &r.Name, &r.Number, &r.Class, &r.Discipline); err != nil {
				return r, err
			}
			r.Name = strings.TrimSpace(r.Name)
			r.Class = strings.ToLower(strings.TrimSpace(r.Class))
			r.Discipline = strings.ToLower(strings.TrimSpace(r.Discipline))
			if r.Class == "" {
				return r, skipf("team %d: empty class", r.ID)
			}
			rule, err := scoring.DefaultRules.Lookup(r.Discipline)
			if err != nil {
				return r, skipf("team %d: %v", r.ID, err)
			}
			teams[r.ID] = legacyTeam{competitionID: r.CompetitionID, rule: rule}
			return r, nil
		})
}

// migrateScores keeps legacy penalized values as stored: the raw value is
// already deducted and the pre-penalty value and deduction are the annotation.
// Rows are checked against the same rules as a judge's write.
func migrateScores(ctx context.Context, src *sql.DB, dst *bun.DB, logger *zap.Logger, teams map[int]legacyTeam) (int, error) {
	return copyRows(ctx, src, dst, logger, "scores",
		`SELECT id, competition_id, team_id, round_num, raw_value, outcome_code,
		        penalty_applied, pre_penalty_value, deduction, rejump, updated_by
		 FROM scores`,
		func(rows *sql.Rows) (models.Score, error) {
			var (
				r         models.Score
				raw       sql.NullFloat64
				outcome   sql.NullString
				pre       sql.NullFloat64
				deduction sql.NullFloat64
				updatedBy sql.NullString
			)
			if err := rows.Scan(&r.ID, &r.CompetitionID, &r.TeamID, &r.RoundNum, &raw, &outcome,
				&r.PenaltyApplied, &pre, &deduction, &r.Rejump, &updatedBy); err != nil {
				return r, err
			}
			outcome.String = strings.TrimSpace(outcome.String)
			outcome.Valid = outcome.Valid && outcome.String != ""
			r.RawValue = nullFloat(raw)
			r.OutcomeCode = nullStr(outcome)
			r.PrePenaltyValue = nullFloat(pre)
			r.Deduction = nullFloat(deduction)
			r.UpdatedBy = updatedBy.String
			if r.Rejump {
				r.RawValue, r.OutcomeCode = nil, nil
				r.PenaltyApplied = false
			}
			if !r.PenaltyApplied {
				r.PrePenaltyValue, r.Deduction = nil, nil
			}
			return r, validateScore(r, teams)
		})
}

func validateScore(r models.Score, teams map[int]legacyTeam) error {
	team, ok := teams[r.TeamID]
	if !ok {
		return skipf("score %d: team %d not imported", r.ID, r.TeamID)
	}
	if team.competitionID != r.CompetitionID {
		return skipf("score %d: team %d belongs to competition %d, not %d", r.ID, r.TeamID, team.competitionID, r.CompetitionID)
	}
	if !team.rule.Scored(r.RoundNum) {
		return skipf("score %d: round %d outside 1-%d for %s", r.ID, r.RoundNum, team.rule.Rounds, team.rule.ID)
	}
	if r.Rejump {
		return nil
	}
	switch {
	case r.RawValue != nil && r.OutcomeCode != nil:
		return skipf("score %d: both raw value and outcome code", r.ID)
	case r.RawValue == nil && r.OutcomeCode == nil:
		return skipf("score %d: neither raw value nor outcome code", r.ID)
	case r.RawValue != nil && (math.IsNaN(*r.RawValue) || math.IsInf(*r.RawValue, 0) || *r.RawValue < 0):
		return skipf("score %d: raw value %v is not a non-negative number", r.ID, *r.RawValue)
	case r.PenaltyApplied && r.RawValue == nil:
		return skipf("score %d: penalty without a raw value", r.ID)
	case r.PenaltyApplied && !team.rule.Penalties:
		return skipf("score %d: %s does not use procedural penalties", r.ID, team.rule.ID)
	}
	return nil
}

// resetSequences advances each PG sequence to MAX(id) so new inserts don't conflict.
func resetSequences(ctx context.Context, dst *bun.DB, logger *zap.Logger) {
	for _, table := range []string{"users", "competitions", "teams", "scores"} {
		q := fmt.Sprintf(
			"SELECT setval('%s_id_seq', COALESCE((SELECT MAX(id) FROM %s), 1))",
			table, table,
		)
		if _, err := dst.ExecContext(ctx, q); err != nil {
			logger.Warn("reset sequence failed", zap.String("table", table), zap.Error(err))
		}
	}
	logger.Info("sequences reset")
}
