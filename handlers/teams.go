package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/skyscore/models"
	"github.com/padraicbc/skyscore/scoring"
)

type teamData struct {
	ID            int    `json:"id"`
	CompetitionID int    `json:"competitionID"`
	Name          string `json:"name"`
	Number        int    `json:"number"`
	Class         string `json:"class"`
	Discipline    string `json:"discipline"`
}

type createTeamRequest struct {
	CompetitionID int    `json:"competitionID"`
	Name          string `json:"name"`
	Number        int    `json:"number"`
	Class         string `json:"class"`
	Discipline    string `json:"discipline"`
}

// Teams returns the teams of a competition, optionally filtered by discipline and class.
func (h *Handler) Teams(c echo.Context) error {
	compID, err := intParam(c, "competitionID")
	if err != nil {
		return err
	}
	filter := scoring.TeamFilter{
		Discipline: c.QueryParam("discipline"),
		Class:      strings.ToLower(strings.TrimSpace(c.QueryParam("class"))),
	}

	teams, err := h.store.Teams(c.Request().Context(), compID, filter)
	if err != nil {
		return storeError("list teams", err)
	}

	result := make([]teamData, len(teams))
	for i, t := range teams {
		result[i] = toTeamData(t)
	}
	return c.JSON(http.StatusOK, result)
}

// CreateTeams registers one team, or several in one transaction when given a JSON array.
func (h *Handler) CreateTeams(c echo.Context) error {
	var reqs []createTeamRequest
	if err := bindOneOrMany(c, &reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no teams given")
	}

	teams := make([]*models.Team, len(reqs))
	for i, req := range reqs {
		req.Name = strings.TrimSpace(req.Name)
		req.Class = strings.ToLower(strings.TrimSpace(req.Class))
		req.Discipline = strings.TrimSpace(req.Discipline)

		if req.CompetitionID < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "competitionID is required")
		}
		if req.Name == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "name is required")
		}
		if req.Number < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "number must be positive")
		}
		if req.Class == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "class is required")
		}
		if _, err := h.engine.Rules().Lookup(req.Discipline); err != nil {
			return httpError(err)
		}

		teams[i] = &models.Team{
			CompetitionID: req.CompetitionID,
			Name:          req.Name,
			Number:        req.Number,
			Class:         req.Class,
			Discipline:    req.Discipline,
		}
	}

	if err := h.store.CreateTeams(c.Request().Context(), teams...); err != nil {
		return storeError("create teams", err)
	}

	result := make([]teamData, len(teams))
	for i, t := range teams {
		result[i] = toTeamData(*t)
	}
	return c.JSON(http.StatusCreated, result)
}

func toTeamData(t models.Team) teamData {
	return teamData{
		ID:            t.ID,
		CompetitionID: t.CompetitionID,
		Name:          t.Name,
		Number:        t.Number,
		Class:         t.Class,
		Discipline:    t.Discipline,
	}
}
