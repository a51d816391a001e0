package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Team is a competitor entered in exactly one discipline of one competition.
// Insertion order (ID ascending) is the order ties are listed in.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	ID            int       `bun:"id,pk,autoincrement" json:"id"`
	CompetitionID int       `bun:"competition_id,notnull,unique:teams_no_dupes" json:"competitionID"`
	Name          string    `bun:"name,notnull" json:"name"`
	Number        int       `bun:"number,notnull,unique:teams_no_dupes" json:"number"`
	Class         string    `bun:"class,notnull" json:"class"`
	Discipline    string    `bun:"discipline,notnull" json:"discipline"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`

	Competition *Competition `bun:"rel:belongs-to,join:competition_id=id" json:"-"`
}
