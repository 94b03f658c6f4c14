package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

func (s *Store) SaveRefreshToken(ctx context.Context, token, userID string, expiresAt time.Time) error {
	_, err := s.exec(ctx,
		`INSERT INTO refresh_tokens (token, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		token, userID, toMillis(expiresAt), toMillis(s.now()),
	)
	if err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// ConsumeRefreshToken deletes an unexpired token and returns its owner.
// Unknown or expired tokens are ErrNotFound.
func (s *Store) ConsumeRefreshToken(ctx context.Context, token string, now time.Time) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("consume refresh token: %w", err)
	}
	defer tx.Rollback()

	var userID string
	err = tx.QueryRowContext(ctx,
		s.rebind(`SELECT user_id FROM refresh_tokens WHERE token = ? AND expires_at > ?`),
		token, toMillis(now),
	).Scan(&userID)
	if err != nil {
		return "", fmt.Errorf("consume refresh token: %w", mapError(err))
	}

	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM refresh_tokens WHERE token = ?`), token); err != nil {
		return "", fmt.Errorf("consume refresh token: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("consume refresh token: %w", err)
	}
	return userID, nil
}

// RevokeRefreshToken deletes one token owned by userID.
func (s *Store) RevokeRefreshToken(ctx context.Context, token, userID string) error {
	res, err := s.exec(ctx, `DELETE FROM refresh_tokens WHERE token = ? AND user_id = ?`, token, userID)
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return requireAffected(res, "revoke refresh token")
}

func (s *Store) RevokeUserTokens(ctx context.Context, userID string) (int64, error) {
	res, err := s.exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("revoke user tokens: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= ?`, toMillis(now))
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return res.RowsAffected()
}

func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
