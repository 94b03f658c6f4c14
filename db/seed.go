package db

import (
	"context"
	"fmt"
	"log/slog"

	"coursehub_backend/models"

	"github.com/google/uuid"
)

const DemoInstructorEmail = "instructor@coursehub.local"

type seedLesson struct {
	title       string
	description string
	contentURL  string
	kind        models.LessonKind
}

var demoLessons = []seedLesson{
	{"Welcome", "What the course covers and how to follow along", "https://cdn.coursehub.local/go/welcome.mp4", models.LessonVideo},
	{"Tooling", "Installing the toolchain and editor setup", "https://cdn.coursehub.local/go/tooling.pdf", models.LessonDocument},
	{"Packages", "How packages and modules fit together", "https://cdn.coursehub.local/go/packages.png", models.LessonImage},
}

// SeedData populates the database with a demo instructor, course and lessons.
// It does nothing when the demo instructor already exists.
func (s *Store) SeedData(ctx context.Context, passwordHash string) error {
	exists, err := s.exists(ctx, "users", Eq{"email", DemoInstructorEmail})
	if err != nil {
		return fmt.Errorf("error checking seed state: %w", err)
	}
	if exists {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	now := toMillis(s.now())
	userID := uuid.NewString()
	if _, err := tx.ExecContext(ctx, s.rebind(`
        INSERT INTO users (id, email, password_hash, full_name, avatar_url, is_instructor, created_at)
        VALUES (?, ?, ?, ?, '', ?, ?)
    `), userID, DemoInstructorEmail, passwordHash, "Demo Instructor", true, now); err != nil {
		return fmt.Errorf("error seeding instructor: %w", err)
	}

	courseID := uuid.NewString()
	if _, err := tx.ExecContext(ctx, s.rebind(`
        INSERT INTO courses (id, title, description, price, instructor_id, thumbnail_url, created_at)
        VALUES (?, ?, ?, ?, ?, '', ?)
    `), courseID, "Go for Backend Developers", "Build HTTP services in Go from scratch", int64(4999), userID, now); err != nil {
		return fmt.Errorf("error seeding course: %w", err)
	}

	for i, l := range demoLessons {
		if _, err := tx.ExecContext(ctx, s.rebind(`
            INSERT INTO lessons (id, course_id, title, description, content_url, sort_order, kind, created_at)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        `), uuid.NewString(), courseID, l.title, l.description, l.contentURL, i+1, string(l.kind), now); err != nil {
			return fmt.Errorf("error seeding lessons: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	s.log.Info("seeded demo data", slog.String("instructor", DemoInstructorEmail), slog.String("course_id", courseID))
	return nil
}
