package db

import (
	"context"
	"fmt"
	"strings"

	"coursehub_backend/models"

	"github.com/google/uuid"
)

func scanUser(r scanner, u *models.User) error {
	var createdAt int64
	if err := r.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.AvatarURL, &u.IsInstructor, &createdAt); err != nil {
		return err
	}
	u.CreatedAt = fromMillis(createdAt)
	return nil
}

// CreateUser assigns an id and creation time and inserts u. A taken email is ErrConflict.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	u.ID = uuid.NewString()
	u.Email = normalizeEmail(u.Email)
	u.CreatedAt = fromMillis(toMillis(s.now()))

	_, err := s.exec(ctx, `
        INSERT INTO users (id, email, password_hash, full_name, avatar_url, is_instructor, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `, u.ID, u.Email, u.PasswordHash, u.FullName, u.AvatarURL, u.IsInstructor, toMillis(u.CreatedAt))
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := s.selectOne(ctx, Query{Table: "users", Where: []Eq{{"id", id}}}, func(r scanner) error {
		return scanUser(r, &u)
	})
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.selectOne(ctx, Query{Table: "users", Where: []Eq{{"email", normalizeEmail(email)}}}, func(r scanner) error {
		return scanUser(r, &u)
	})
	if err != nil {
		return models.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
