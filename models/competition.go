package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Competition is a meet; teams and scores hang off it.
type Competition struct {
	bun.BaseModel `bun:"table:competitions,alias:cp"`

	ID        int       `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull,unique" json:"name"`
	Location  string    `bun:"location,notnull,default:''" json:"location"`
	StartDate string    `bun:"start_date,notnull" json:"startDate"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}
