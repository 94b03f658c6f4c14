package db

import (
	"context"
	"fmt"

	"coursehub_backend/models"

	"github.com/google/uuid"
)

func scanLesson(r scanner, l *models.Lesson) error {
	var createdAt int64
	var kind string
	if err := r.Scan(&l.ID, &l.CourseID, &l.Title, &l.Description, &l.ContentURL, &l.Order, &kind, &createdAt); err != nil {
		return err
	}
	l.Kind = models.LessonKind(kind)
	l.CreatedAt = fromMillis(createdAt)
	return nil
}

// CreateLesson inserts l into an existing course. A missing course is
// ErrNotFound; an order already used in the course is ErrConflict.
func (s *Store) CreateLesson(ctx context.Context, l *models.Lesson) error {
	if !l.Kind.Valid() {
		return fmt.Errorf("create lesson: invalid kind %q", l.Kind)
	}
	ok, err := s.exists(ctx, "courses", Eq{"id", l.CourseID})
	if err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}
	if !ok {
		return fmt.Errorf("create lesson: course %s: %w", l.CourseID, ErrNotFound)
	}

	l.ID = uuid.NewString()
	l.CreatedAt = fromMillis(toMillis(s.now()))
	_, err = s.exec(ctx, `
        INSERT INTO lessons (id, course_id, title, description, content_url, sort_order, kind, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `, l.ID, l.CourseID, l.Title, l.Description, l.ContentURL, l.Order, string(l.Kind), toMillis(l.CreatedAt))
	if err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}
	return nil
}

// ListLessons returns the lessons of a course in ascending order.
func (s *Store) ListLessons(ctx context.Context, courseID string) ([]models.Lesson, error) {
	q := Query{
		Table:   "lessons",
		Where:   []Eq{{"course_id", courseID}},
		OrderBy: []Order{{Column: "sort_order"}},
	}
	lessons := make([]models.Lesson, 0)
	err := s.selectRows(ctx, q, func(r scanner) error {
		var l models.Lesson
		if err := scanLesson(r, &l); err != nil {
			return err
		}
		lessons = append(lessons, l)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return lessons, nil
}

func (s *Store) GetLesson(ctx context.Context, courseID, lessonID string) (models.Lesson, error) {
	var l models.Lesson
	q := Query{Table: "lessons", Where: []Eq{{"id", lessonID}, {"course_id", courseID}}}
	err := s.selectOne(ctx, q, func(r scanner) error {
		return scanLesson(r, &l)
	})
	if err != nil {
		return models.Lesson{}, fmt.Errorf("get lesson: %w", err)
	}
	return l, nil
}
