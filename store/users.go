package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/padraicbc/skyscore/models"
	"github.com/padraicbc/skyscore/scoring"
)

// SaveUser creates a user, or replaces the password and role of an existing one.
func (s *Store) SaveUser(ctx context.Context, user *models.User) error {
	_, err := s.db.NewInsert().Model(user).
		On("CONFLICT (username) DO UPDATE").
		Set("password = EXCLUDED.password").
		Set("role = EXCLUDED.role").
		Exec(ctx)
	return err
}

// User looks up a user by name.
func (s *Store) User(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := s.db.NewSelect().Model(user).Where("username = ?", username).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, scoring.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}
