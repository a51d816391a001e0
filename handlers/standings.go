package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/skyscore/scoring"
)

type standingJSON struct {
	Rank             int                 `json:"rank"`
	Tied             bool                `json:"tied,omitempty"`
	CompetitorID     int                 `json:"competitorID"`
	CompetitorName   string              `json:"competitorName"`
	CompetitorNumber int                 `json:"competitorNumber"`
	Total            float64             `json:"total"`
	Rounds           []scoring.RoundCell `json:"rounds"`
}

type classJSON struct {
	Class     string         `json:"class"`
	Standings []standingJSON `json:"standings"`
}

type disciplineJSON struct {
	Discipline string      `json:"discipline"`
	Name       string      `json:"name"`
	Weighted   bool        `json:"weighted"`
	Rounds     int         `json:"rounds"`
	Classes    []classJSON `json:"classes"`
}

// Standings ranks one discipline of a competition, per class.
func (h *Handler) Standings(c echo.Context) error {
	compID, err := intParam(c, "competitionID")
	if err != nil {
		return err
	}
	discipline := strings.TrimSpace(c.QueryParam("discipline"))
	if discipline == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing discipline param")
	}

	ds, err := h.engine.ComputeStandings(c.Request().Context(), compID, discipline, strings.ToLower(strings.TrimSpace(c.QueryParam("class"))))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toDisciplineJSON(ds))
}

// StandingsAll ranks every discipline entered in a competition.
func (h *Handler) StandingsAll(c echo.Context) error {
	compID, err := intParam(c, "competitionID")
	if err != nil {
		return err
	}

	all, err := h.engine.ComputeAll(c.Request().Context(), compID)
	if err != nil {
		return httpError(err)
	}

	result := make([]disciplineJSON, len(all))
	for i, ds := range all {
		result[i] = toDisciplineJSON(ds)
	}
	return c.JSON(http.StatusOK, result)
}

// RoundStatus reports per-round completeness for a class, or a single round when round is given.
func (h *Handler) RoundStatus(c echo.Context) error {
	compID, err := intParam(c, "competitionID")
	if err != nil {
		return err
	}
	discipline := strings.TrimSpace(c.QueryParam("discipline"))
	class := strings.ToLower(strings.TrimSpace(c.QueryParam("class")))
	if discipline == "" || class == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing discipline or class param")
	}

	ctx := c.Request().Context()
	if raw := c.QueryParam("round"); raw != "" {
		round, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "round must be an integer")
		}
		complete, err := h.engine.IsRoundComplete(ctx, compID, discipline, class, round)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, map[string]any{"round": round, "complete": complete})
	}

	states, err := h.engine.RoundStatus(ctx, compID, discipline, class)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, states)
}

func toDisciplineJSON(ds scoring.DisciplineStandings) disciplineJSON {
	out := disciplineJSON{
		Discipline: ds.Discipline,
		Name:       ds.Name,
		Weighted:   ds.Weighted,
		Rounds:     ds.Rounds,
		Classes:    make([]classJSON, len(ds.Classes)),
	}
	for i, cs := range ds.Classes {
		rows := make([]standingJSON, len(cs.Standings))
		for j, s := range cs.Standings {
			rows[j] = standingJSON{
				Rank:             s.Rank,
				Tied:             s.Tied,
				CompetitorID:     s.Competitor.ID,
				CompetitorName:   s.Competitor.Name,
				CompetitorNumber: s.Competitor.Number,
				Total:            s.Total,
				Rounds:           s.Rounds,
			}
		}
		out.Classes[i] = classJSON{Class: cs.Class, Standings: rows}
	}
	return out
}
