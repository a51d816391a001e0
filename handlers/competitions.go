package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/skyscore/models"
)

type createCompetitionRequest struct {
	Name      string `json:"name"`
	Location  string `json:"location"`
	StartDate string `json:"startDate"`
}

type disciplineData struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Rounds    int    `json:"rounds"`
	Weighted  bool   `json:"weighted"`
	Penalties bool   `json:"penalties"`
	Groups    any    `json:"groups"`
}

// Disciplines lists the rule table.
func (h *Handler) Disciplines(c echo.Context) error {
	rules := h.engine.Rules().All()
	result := make([]disciplineData, len(rules))
	for i, r := range rules {
		result[i] = disciplineData{
			ID:        r.ID,
			Name:      r.Name,
			Rounds:    r.Rounds,
			Weighted:  r.Weighted(),
			Penalties: r.Penalties,
			Groups:    r.Groups,
		}
	}
	return c.JSON(http.StatusOK, result)
}

// Competitions returns all competitions, newest first.
func (h *Handler) Competitions(c echo.Context) error {
	comps, err := h.store.Competitions(c.Request().Context())
	if err != nil {
		return storeError("list competitions", err)
	}
	if comps == nil {
		comps = []models.Competition{}
	}
	return c.JSON(http.StatusOK, comps)
}

// CreateCompetition inserts a new competition.
func (h *Handler) CreateCompetition(c echo.Context) error {
	var req createCompetitionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Location = strings.TrimSpace(req.Location)
	req.StartDate = strings.TrimSpace(req.StartDate)

	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if _, err := time.Parse("2006-01-02", req.StartDate); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "startDate must be YYYY-MM-DD")
	}

	comp := &models.Competition{
		Name:      req.Name,
		Location:  req.Location,
		StartDate: req.StartDate,
	}
	if err := h.store.CreateCompetition(c.Request().Context(), comp); err != nil {
		return storeError("create competition", err)
	}

	return c.JSON(http.StatusCreated, comp)
}
