// Package testsupport opens throwaway databases and seeds fixtures for tests.
package testsupport

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/uptrace/bun"

	"github.com/padraicbc/skyscore/db"
	"github.com/padraicbc/skyscore/models"
)

var dbSeq atomic.Int64

// MustOpenDB opens a private in-memory SQLite database with all tables created
// and registers cleanup.
func MustOpenDB(t testing.TB) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:skyscore-test-%d?mode=memory&cache=shared", dbSeq.Add(1))
	bdb, err := db.OpenSQLite(dsn)
	if err != nil {
		t.Fatalf("db.OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		bdb.Close()
	})
	if err := db.CreateTables(context.Background(), bdb); err != nil {
		t.Fatalf("db.CreateTables: %v", err)
	}
	return bdb
}

// NewCompetition inserts a competition for tests.
func NewCompetition(t testing.TB, bdb *bun.DB, name string) *models.Competition {
	t.Helper()

	comp := &models.Competition{Name: name, Location: "Eloy", StartDate: "2026-10-01"}
	if _, err := bdb.NewInsert().Model(comp).Exec(context.Background()); err != nil {
		t.Fatalf("insert competition: %v", err)
	}
	return comp
}

// NewTeam inserts a team for tests.
func NewTeam(t testing.TB, bdb *bun.DB, competitionID, number int, name, class, discipline string) *models.Team {
	t.Helper()

	team := &models.Team{
		CompetitionID: competitionID,
		Name:          name,
		Number:        number,
		Class:         class,
		Discipline:    discipline,
	}
	if _, err := bdb.NewInsert().Model(team).Exec(context.Background()); err != nil {
		t.Fatalf("insert team: %v", err)
	}
	return team
}
