package handlers

import (
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/padraicbc/skyscore/scoring"
	"github.com/padraicbc/skyscore/store"
)

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	store   *store.Store
	engine  *scoring.Engine
	log     *zap.Logger
	JWTKey  []byte
	isAdmin func(username string) bool
}

// New creates a Handler with the given database connection and JWT signing key.
// isAdmin elevates configured usernames to the admin role at sign-in.
func New(db *bun.DB, jwtKey []byte, log *zap.Logger, isAdmin func(string) bool) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if isAdmin == nil {
		isAdmin = func(string) bool { return false }
	}
	st := store.New(db)
	return &Handler{
		store:   st,
		engine:  scoring.NewEngine(st, scoring.DefaultRules, log.Named("scoring")),
		log:     log,
		JWTKey:  jwtKey,
		isAdmin: isAdmin,
	}
}
