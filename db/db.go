package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	_ "modernc.org/sqlite"

	"github.com/padraicbc/skyscore/config"
	"github.com/padraicbc/skyscore/models"
)

// Setup opens the configured database and exits if it cannot be reached.
func Setup(cfg *config.Config) *bun.DB {
	db, err := Open(cfg)
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}
	return db
}

// Open connects to PostgreSQL or SQLite depending on cfg.DBDriver and pings it.
func Open(cfg *config.Config) (*bun.DB, error) {
	var db *bun.DB
	switch cfg.DBDriver {
	case config.DriverSQLite:
		var err error
		db, err = OpenSQLite(cfg.SQLiteDSN())
		if err != nil {
			return nil, err
		}
	case config.DriverPostgres:
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.DBDriver)
	}

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenSQLite opens a SQLite database through the pure-Go modernc driver.
// SQLite allows a single writer, so the pool is capped at one connection.
func OpenSQLite(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqldb.SetMaxOpenConns(1)
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// CreateTables creates all tables in dependency order, then their lookup indexes.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.Competition)(nil),
		(*models.Team)(nil),
		(*models.Score)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}

	indexes := []struct {
		model   interface{}
		name    string
		columns []string
	}{
		{(*models.Team)(nil), "teams_competition_discipline_idx", []string{"competition_id", "discipline", "class"}},
		{(*models.Score)(nil), "scores_competition_idx", []string{"competition_id"}},
	}
	for _, ix := range indexes {
		_, err := db.NewCreateIndex().Model(ix.model).Index(ix.name).Column(ix.columns...).IfNotExists().Exec(ctx)
		if err != nil {
			return fmt.Errorf("creating index %s: %w", ix.name, err)
		}
	}

	return nil
}
