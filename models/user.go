package models

import "github.com/uptrace/bun"

// User roles.
const (
	RoleViewer = "viewer"
	RoleJudge  = "judge"
	RoleAdmin  = "admin"
)

// User is an API user with bcrypt-hashed password.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID       int    `bun:"id,pk,autoincrement" json:"id"`
	Username string `bun:"username,notnull,unique" json:"username"`
	Password string `bun:"password,notnull" json:"-"`
	Role     string `bun:"role,notnull,default:'viewer'" json:"role"`
}

// ValidRole reports whether role is one of the known user roles.
func ValidRole(role string) bool {
	switch role {
	case RoleViewer, RoleJudge, RoleAdmin:
		return true
	}
	return false
}
