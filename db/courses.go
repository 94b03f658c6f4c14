package db

import (
	"context"
	"fmt"

	"coursehub_backend/models"

	"github.com/google/uuid"
)

const maxPageSize = 100

// CourseFilter narrows ListCourses. Zero Limit means the default page size.
type CourseFilter struct {
	InstructorID string
	Limit        int
	Offset       int
}

func scanCourse(r scanner, c *models.Course) error {
	var createdAt int64
	if err := r.Scan(&c.ID, &c.Title, &c.Description, &c.Price, &c.InstructorID, &c.ThumbnailURL, &createdAt); err != nil {
		return err
	}
	c.CreatedAt = fromMillis(createdAt)
	return nil
}

// CreateCourse assigns an id and creation time and inserts c.
func (s *Store) CreateCourse(ctx context.Context, c *models.Course) error {
	if c.Price < 0 {
		return fmt.Errorf("create course: negative price %d", c.Price)
	}
	c.ID = uuid.NewString()
	c.CreatedAt = fromMillis(toMillis(s.now()))

	_, err := s.exec(ctx, `
        INSERT INTO courses (id, title, description, price, instructor_id, thumbnail_url, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `, c.ID, c.Title, c.Description, c.Price, c.InstructorID, c.ThumbnailURL, toMillis(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

func (s *Store) GetCourse(ctx context.Context, id string) (models.Course, error) {
	var c models.Course
	err := s.selectOne(ctx, Query{Table: "courses", Where: []Eq{{"id", id}}}, func(r scanner) error {
		return scanCourse(r, &c)
	})
	if err != nil {
		return models.Course{}, fmt.Errorf("get course: %w", err)
	}
	return c, nil
}

// ListCourses returns courses newest first.
func (s *Store) ListCourses(ctx context.Context, f CourseFilter) ([]models.Course, error) {
	q := Query{
		Table:   "courses",
		OrderBy: []Order{{Column: "created_at", Desc: true}, {Column: "id"}},
		Limit:   f.Limit,
		Offset:  f.Offset,
	}
	if q.Limit <= 0 || q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}
	if f.InstructorID != "" {
		q.Where = append(q.Where, Eq{"instructor_id", f.InstructorID})
	}

	courses := make([]models.Course, 0)
	err := s.selectRows(ctx, q, func(r scanner) error {
		var c models.Course
		if err := scanCourse(r, &c); err != nil {
			return err
		}
		courses = append(courses, c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

func (s *Store) ListCoursesByInstructor(ctx context.Context, instructorID string) ([]models.Course, error) {
	return s.ListCourses(ctx, CourseFilter{InstructorID: instructorID})
}
