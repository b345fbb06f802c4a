package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PushFlash stores a one-time message visible until expiresAt.
func (s *Store) PushFlash(ctx context.Context, message string, now, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO flash (message, created_at, expires_at) VALUES (?, ?, ?)
	`, message, now.UnixMilli(), expiresAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("push flash: %w", err)
	}
	return nil
}

// TakeFlash returns the newest message still live at now and discards every
// stored message, so each message is shown at most once.
func (s *Store) TakeFlash(ctx context.Context, now time.Time) (string, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, fmt.Errorf("take flash: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var message string
	err = tx.QueryRowContext(ctx, `
		SELECT message FROM flash
		WHERE expires_at > ?
		ORDER BY id DESC
		LIMIT 1
	`, now.UnixMilli()).Scan(&message)
	found := true
	if errors.Is(err, sql.ErrNoRows) {
		found = false
	} else if err != nil {
		return "", false, fmt.Errorf("take flash: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM flash`); err != nil {
		return "", false, fmt.Errorf("take flash: delete: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("take flash: commit: %w", err)
	}

	return message, found, nil
}
