package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/skyscore/scoring"
	"github.com/padraicbc/skyscore/store"
)

type scoreRequest struct {
	TeamID  int        `json:"teamID"`
	Round   int        `json:"round"`
	Raw     jsonNumber `json:"raw"`
	Penalty bool       `json:"penalty"`
	Outcome string     `json:"outcome"`
}

type scoreResponse struct {
	TeamID      int     `json:"teamID"`
	Round       int     `json:"round"`
	Effective   float64 `json:"effective"`
	PenaltyNote string  `json:"penaltyNote,omitempty"`
}

type scoreData struct {
	Round       int      `json:"round"`
	Raw         *float64 `json:"raw"`
	Outcome     *string  `json:"outcome,omitempty"`
	Penalty     bool     `json:"penalty"`
	PenaltyNote string   `json:"penaltyNote,omitempty"`
	Rejump      bool     `json:"rejump"`
	UpdatedBy   string   `json:"updatedBy"`
	UpdatedAt   string   `json:"updatedAt"`
}

// Scores returns every recorded round of a team.
func (h *Handler) Scores(c echo.Context) error {
	teamID, err := intParam(c, "teamID")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	team, err := h.store.GetTeam(ctx, teamID)
	if err != nil {
		return storeError("get team", err)
	}
	rows, err := h.store.Scores(ctx, team.CompetitionID, team.ID)
	if err != nil {
		return storeError("list scores", err)
	}

	result := make([]scoreData, len(rows))
	for i, row := range rows {
		result[i] = scoreData{
			Round:       row.RoundNum,
			Raw:         row.RawValue,
			Outcome:     row.OutcomeCode,
			Penalty:     row.PenaltyApplied,
			PenaltyNote: store.Result(row).PenaltyNote(),
			Rejump:      row.Rejump,
			UpdatedBy:   row.UpdatedBy,
			UpdatedAt:   row.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
	}
	return c.JSON(http.StatusOK, result)
}

// ScoreRound records a judge's result for one round. The raw value is always
// the unpenalized value; the stored value has the penalty applied.
func (h *Handler) ScoreRound(c echo.Context) error {
	var req scoreRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	user, _ := c.Get("username").(string)

	effective, err := h.engine.ScoreRound(c.Request().Context(), scoring.ScoreInput{
		TeamID:  req.TeamID,
		Round:   req.Round,
		Raw:     req.Raw.Value,
		Penalty: req.Penalty,
		Outcome: req.Outcome,
		User:    user,
	})
	if err != nil {
		return httpError(err)
	}

	resp := scoreResponse{TeamID: req.TeamID, Round: req.Round, Effective: effective}
	if req.Penalty && req.Raw.Value != nil {
		resp.PenaltyNote = scoring.PenalizedResult(*req.Raw.Value).PenaltyNote()
	}
	return c.JSON(http.StatusOK, resp)
}

// Rejump voids a round so the team jumps it again.
func (h *Handler) Rejump(c echo.Context) error {
	teamID, err := intParam(c, "teamID")
	if err != nil {
		return err
	}
	round, err := intParam(c, "round")
	if err != nil {
		return err
	}
	user, _ := c.Get("username").(string)

	if err := h.engine.AwardRejump(c.Request().Context(), teamID, round, user); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusAccepted)
}

// RemoveScore deletes a round's record. Admin only.
func (h *Handler) RemoveScore(c echo.Context) error {
	teamID, err := intParam(c, "teamID")
	if err != nil {
		return err
	}
	round, err := intParam(c, "round")
	if err != nil {
		return err
	}

	if err := h.engine.RemoveScore(c.Request().Context(), teamID, round); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
