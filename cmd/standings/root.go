package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/padraicbc/skyscore/config"
	bundb "github.com/padraicbc/skyscore/db"
	applog "github.com/padraicbc/skyscore/logger"
	"github.com/padraicbc/skyscore/scoring"
	"github.com/padraicbc/skyscore/store"
)

// commandContext opens the database and engine lazily so commands that do
// not need them (disciplines, help) run without configuration.
type commandContext struct {
	open   func() (*bun.DB, *zap.Logger, error)
	db     *bun.DB
	engine *scoring.Engine
}

func newCommandContext() *commandContext {
	return &commandContext{
		open: func() (*bun.DB, *zap.Logger, error) {
			cfg := config.LoadTool()
			logger, err := applog.NewConsole(cfg.Debug)
			if err != nil {
				return nil, nil, err
			}
			db, err := bundb.Open(cfg)
			if err != nil {
				return nil, nil, err
			}
			return db, logger, nil
		},
	}
}

func (c *commandContext) ensureEngine() (*scoring.Engine, error) {
	if c.engine != nil {
		return c.engine, nil
	}
	db, logger, err := c.open()
	if err != nil {
		return nil, err
	}
	c.db = db
	c.engine = scoring.NewEngine(store.New(db), scoring.DefaultRules, logger.Named("scoring"))
	return c.engine, nil
}

func (c *commandContext) close() {
	if c.db != nil {
		_ = c.db.Close()
	}
	c.db, c.engine = nil, nil
}

// execute runs the command tree and releases the database on every path,
// including failed commands.
func execute(cctx context.Context, c *commandContext, cmd *cobra.Command) error {
	defer c.close()
	return cmd.ExecuteContext(cctx)
}

func newRootCommand(ctx *commandContext) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "standings",
		Short:         "Skydiving competition standings",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newDisciplinesCommand())

	return rootCmd
}
