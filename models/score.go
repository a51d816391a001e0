package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Score is the recorded result of one round for one team.
// At most one row exists per (team_id, round_num).
type Score struct {
	bun.BaseModel `bun:"table:scores,alias:s"`

	ID              int       `bun:"id,pk,autoincrement" json:"id"`
	CompetitionID   int       `bun:"competition_id,notnull" json:"competitionID"`
	TeamID          int       `bun:"team_id,notnull,unique:scores_no_dupes" json:"teamID"`
	RoundNum        int       `bun:"round_num,notnull,unique:scores_no_dupes" json:"round"`
	RawValue        *float64  `bun:"raw_value" json:"raw,omitempty"`
	OutcomeCode     *string   `bun:"outcome_code" json:"outcome,omitempty"`
	PenaltyApplied  bool      `bun:"penalty_applied,notnull,default:false" json:"penaltyApplied"`
	PrePenaltyValue *float64  `bun:"pre_penalty_value" json:"prePenaltyValue,omitempty"`
	Deduction       *float64  `bun:"deduction" json:"deduction,omitempty"`
	Rejump          bool      `bun:"rejump,notnull,default:false" json:"rejump"`
	UpdatedBy       string    `bun:"updated_by,notnull,default:''" json:"updatedBy"`
	UpdatedAt       time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}
