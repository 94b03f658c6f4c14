package db

import (
	"context"
	"fmt"

	"coursehub_backend/models"

	"github.com/google/uuid"
)

// CreateEnrollment enrolls a user in an existing course. Enrolling twice is ErrConflict.
func (s *Store) CreateEnrollment(ctx context.Context, e *models.Enrollment) error {
	ok, err := s.exists(ctx, "courses", Eq{"id", e.CourseID})
	if err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	if !ok {
		return fmt.Errorf("create enrollment: course %s: %w", e.CourseID, ErrNotFound)
	}

	e.ID = uuid.NewString()
	e.CreatedAt = fromMillis(toMillis(s.now()))
	_, err = s.exec(ctx, `
        INSERT INTO enrollments (id, user_id, course_id, created_at)
        VALUES (?, ?, ?, ?)
    `, e.ID, e.UserID, e.CourseID, toMillis(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

func (s *Store) IsEnrolled(ctx context.Context, userID, courseID string) (bool, error) {
	ok, err := s.exists(ctx, "enrollments", Eq{"user_id", userID}, Eq{"course_id", courseID})
	if err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return ok, nil
}

// ListEnrolledCourses joins a user's enrollments to their courses, most
// recently enrolled first.
func (s *Store) ListEnrolledCourses(ctx context.Context, userID string) ([]models.Course, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
        SELECT c.id, c.title, c.description, c.price, c.instructor_id, c.thumbnail_url, c.created_at
        FROM enrollments e
        JOIN courses c ON c.id = e.course_id
        WHERE e.user_id = ?
        ORDER BY e.created_at DESC, c.id ASC
    `), userID)
	if err != nil {
		return nil, fmt.Errorf("list enrolled courses: %w", err)
	}
	defer rows.Close()

	courses := make([]models.Course, 0)
	for rows.Next() {
		var c models.Course
		if err := scanCourse(rows, &c); err != nil {
			return nil, fmt.Errorf("scan enrolled course: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list enrolled courses: %w", err)
	}
	return courses, nil
}
