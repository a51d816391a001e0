package handlers

import (
	"github.com/labstack/echo/v4"

	mw "github.com/padraicbc/skyscore/middleware"
	"github.com/padraicbc/skyscore/models"
)

// Register mounts the API on e.
func (h *Handler) Register(e *echo.Echo) {
	// Public
	e.POST("/api/signin", h.Signin)

	// Protected – require valid JWT in Authorization header
	api := e.Group("/api", mw.JWT(h.JWTKey))
	api.GET("/disciplines", h.Disciplines)
	api.GET("/competitions", h.Competitions)
	api.GET("/teams", h.Teams)
	api.GET("/scores", h.Scores)
	api.GET("/round-status", h.RoundStatus)
	api.GET("/standings", h.Standings)
	api.GET("/standings/all", h.StandingsAll)

	judge := mw.RequireRole(models.RoleJudge, models.RoleAdmin)
	api.POST("/scores", h.ScoreRound, judge)
	api.POST("/rejump", h.Rejump, judge)

	admin := mw.RequireRole(models.RoleAdmin)
	api.POST("/competitions", h.CreateCompetition, admin)
	api.POST("/teams", h.CreateTeams, admin)
	api.DELETE("/scores", h.RemoveScore, admin)
	api.POST("/users", h.CreateUser, admin)
}
