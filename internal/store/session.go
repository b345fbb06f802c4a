package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/storefront/internal/model"
)

// Session is the persisted authentication state.
type Session struct {
	Token     string
	User      model.User
	UpdatedAt time.Time
}

// SaveSession replaces the stored session.
func (s *Store) SaveSession(ctx context.Context, token string, user model.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (id, token, user_id, user_name, user_email, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			user_id = excluded.user_id,
			user_name = excluded.user_name,
			user_email = excluded.user_email,
			updated_at = excluded.updated_at
	`, token, user.ID, user.Name, user.Email, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// UpdateUser rewrites the cached profile and keeps the token.
// It is a no-op when no session is stored.
func (s *Store) UpdateUser(ctx context.Context, user model.User) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE session SET user_id = ?, user_name = ?, user_email = ?, updated_at = ?
		WHERE id = 1
	`, user.ID, user.Name, user.Email, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("update session user: %w", err)
	}
	return nil
}

// LoadSession returns the stored session and whether one exists.
func (s *Store) LoadSession(ctx context.Context) (Session, bool, error) {
	var (
		sess      Session
		updatedMs int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT token, user_id, user_name, user_email, updated_at
		FROM session WHERE id = 1
	`).Scan(&sess.Token, &sess.User.ID, &sess.User.Name, &sess.User.Email, &updatedMs)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("load session: %w", err)
	}
	sess.UpdatedAt = time.UnixMilli(updatedMs)
	return sess, true, nil
}

// Token returns the stored bearer token, or "" when logged out.
func (s *Store) Token(ctx context.Context) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx, `SELECT token FROM session WHERE id = 1`).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return token, nil
}

// ClearSession removes the stored token and profile.
func (s *Store) ClearSession(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
