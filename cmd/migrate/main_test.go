package main

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/padraicbc/skyscore/models"
	"github.com/padraicbc/skyscore/scoring"
	"github.com/padraicbc/skyscore/store"
	"github.com/padraicbc/skyscore/testsupport"
)

const legacySchema = `
CREATE TABLE competitions (id INTEGER PRIMARY KEY, name TEXT NOT NULL, location TEXT, start_date TEXT NOT NULL);
CREATE TABLE teams (id INTEGER PRIMARY KEY, competition_id INTEGER NOT NULL, name TEXT NOT NULL,
	number INTEGER NOT NULL, class TEXT NOT NULL, discipline TEXT NOT NULL);
CREATE TABLE scores (id INTEGER PRIMARY KEY, competition_id INTEGER NOT NULL, team_id INTEGER NOT NULL,
	round_num INTEGER NOT NULL, raw_value REAL, outcome_code TEXT, penalty_applied INTEGER NOT NULL DEFAULT 0,
	pre_penalty_value REAL, deduction REAL, rejump INTEGER NOT NULL DEFAULT 0, updated_by TEXT);
INSERT INTO competitions VALUES (7, 'Nationals', NULL, '2025-08-01');
INSERT INTO teams VALUES (3, 7, 'Arizona Arsenal', 1, 'Open', 'fs-4way');
INSERT INTO teams VALUES (4, 7, 'Spaceland', 2, ' OPEN ', 'FS-4way');
INSERT INTO teams VALUES (5, 7, 'Hybrid', 9, 'open', 'cf-4way-rotation');
INSERT INTO teams VALUES (6, 7, 'Tunnel Rats', 4, 'open', '4-Way FS');
INSERT INTO scores VALUES (1, 7, 3, 1, 22, NULL, 0, NULL, NULL, 0, 'judge1');
INSERT INTO scores VALUES (2, 7, 4, 1, 19, NULL, 0, NULL, NULL, 0, NULL);
INSERT INTO scores VALUES (3, 7, 5, 1, 41, NULL, 1, 51, 10, 0, 'judge2');
INSERT INTO scores VALUES (4, 7, 5, 2, NULL, 'DNF', 0, NULL, NULL, 0, 'judge2');
INSERT INTO scores VALUES (5, 7, 4, 2, -5, NULL, 0, NULL, NULL, 0, 'judge1');
INSERT INTO scores VALUES (6, 7, 6, 1, 30, NULL, 0, NULL, NULL, 0, 'judge1');
INSERT INTO scores VALUES (7, 7, 3, 11, 20, NULL, 0, NULL, NULL, 0, 'judge1');
`

func openLegacy(t *testing.T) *sql.DB {
	t.Helper()
	src, err := sql.Open("sqlite", "file:legacy-"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open legacy: %v", err)
	}
	src.SetMaxOpenConns(1)
	t.Cleanup(func() { src.Close() })
	if _, err := src.Exec(legacySchema); err != nil {
		t.Fatalf("seed legacy: %v", err)
	}
	return src
}

func TestMigrateCopiesLegacyRows(t *testing.T) {
	ctx := context.Background()
	src := openLegacy(t)
	dst := testsupport.MustOpenDB(t)

	if err := migrate(ctx, src, dst, zap.NewNop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	st := store.New(dst)
	comp, err := st.Competition(ctx, 7)
	if err != nil {
		t.Fatalf("Competition: %v", err)
	}
	if comp.Name != "Nationals" || comp.Location != "" {
		t.Fatalf("competition = %+v", comp)
	}

	teams, err := st.Teams(ctx, 7, scoring.TeamFilter{})
	if err != nil {
		t.Fatalf("Teams: %v", err)
	}
	if len(teams) != 3 || teams[0].ID != 3 || teams[2].Discipline != "cf-4way-rotation" {
		t.Fatalf("teams = %+v", teams)
	}

	results, err := st.ListScores(ctx, 7, 5)
	if err != nil {
		t.Fatalf("ListScores: %v", err)
	}
	pen := results[1]
	if pen.Kind != scoring.Numeric || pen.Value != 41 || pen.PenaltyNote() != "51 - 10 (20%)" {
		t.Fatalf("penalized round = %+v", pen)
	}
	if results[2].Kind != scoring.Outcome || results[2].Code != "DNF" {
		t.Fatalf("outcome round = %+v", results[2])
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	src := openLegacy(t)
	dst := testsupport.MustOpenDB(t)

	for i := 0; i < 2; i++ {
		if err := migrate(ctx, src, dst, zap.NewNop()); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}

	n, err := dst.NewSelect().Model((*models.Score)(nil)).Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 4 {
		t.Fatalf("got %d scores after re-run, want 4", n)
	}
}

func TestCopyRowsBatches(t *testing.T) {
	ctx := context.Background()
	src := openLegacy(t)
	dst := testsupport.MustOpenDB(t)

	if _, err := src.Exec("CREATE TABLE many (n INTEGER)"); err != nil {
		t.Fatal(err)
	}
	tx, err := src.Begin()
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= batchSize+3; i++ {
		if _, err := tx.Exec("INSERT INTO many VALUES (?)", i); err != nil {
			t.Fatal(err)
		}
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}

	n, err := copyRows(ctx, src, dst, zap.NewNop(), "many", "SELECT n FROM many", func(rows *sql.Rows) (models.Competition, error) {
		var r models.Competition
		err := rows.Scan(&r.ID)
		r.Name = fmt.Sprintf("comp-%d", r.ID)
		r.StartDate = "2025-01-01"
		return r, err
	})
	if err != nil {
		t.Fatalf("copyRows: %v", err)
	}
	if n != batchSize+3 {
		t.Fatalf("copied %d rows, want %d", n, batchSize+3)
	}
}


func TestMigrateNormalizesClass(t *testing.T) {
	ctx := context.Background()
	src := openLegacy(t)
	dst := testsupport.MustOpenDB(t)

	if err := migrate(ctx, src, dst, zap.NewNop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	engine := scoring.NewEngine(store.New(dst), nil, nil)
	ds, err := engine.ComputeStandings(ctx, 7, "fs-4way", "open")
	if err != nil {
		t.Fatalf("ComputeStandings: %v", err)
	}
	if len(ds.Classes) != 1 || len(ds.Classes[0].Standings) != 2 {
		t.Fatalf("classes = %+v", ds.Classes)
	}
	top := ds.Classes[0].Standings[0]
	if top.Competitor.Name != "Arizona Arsenal" || top.Total != 22 {
		t.Fatalf("leader = %+v", top)
	}

	complete, err := engine.IsRoundComplete(ctx, 7, "fs-4way", "open", 1)
	if err != nil {
		t.Fatalf("IsRoundComplete: %v", err)
	}
	if !complete {
		t.Fatal("round 1 should be complete for the open class")
	}
}

func TestMigrateSkipsInvalidRows(t *testing.T) {
	ctx := context.Background()
	src := openLegacy(t)
	dst := testsupport.MustOpenDB(t)

	core, logs := observer.New(zapcore.WarnLevel)
	if err := migrate(ctx, src, dst, zap.New(core)); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	st := store.New(dst)
	if _, err := st.GetTeam(ctx, 6); err == nil {
		t.Fatal("team with an unknown discipline was imported")
	}
	for _, id := range []int{5, 6, 7} {
		n, err := dst.NewSelect().Model((*models.Score)(nil)).Where("id = ?", id).Count(ctx)
		if err != nil {
			t.Fatalf("count score %d: %v", id, err)
		}
		if n != 0 {
			t.Fatalf("score %d was imported", id)
		}
	}

	skipped := logs.FilterMessage("legacy row skipped")
	if got := skipped.FilterField(zap.String("table", "teams")).Len(); got != 1 {
		t.Fatalf("skipped teams = %d, want 1", got)
	}
	if got := skipped.FilterField(zap.String("table", "scores")).Len(); got != 3 {
		t.Fatalf("skipped scores = %d, want 3", got)
	}

	all, err := scoring.NewEngine(st, nil, nil).ComputeAll(ctx, 7)
	if err != nil {
		t.Fatalf("ComputeAll: %v", err)
	}
	for _, ds := range all {
		for _, cs := range ds.Classes {
			for _, s := range cs.Standings {
				if s.Total < 0 {
					t.Fatalf("%s total %v went negative", s.Competitor.Name, s.Total)
				}
			}
		}
	}
}
