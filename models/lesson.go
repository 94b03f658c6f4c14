package models

import "time"

// LessonKind tags the content behind a lesson.
type LessonKind string

const (
	LessonVideo    LessonKind = "video"
	LessonDocument LessonKind = "document"
	LessonImage    LessonKind = "image"
)

func (k LessonKind) Valid() bool {
	switch k {
	case LessonVideo, LessonDocument, LessonImage:
		return true
	}
	return false
}

type Lesson struct {
	ID          string     `json:"id"`
	CourseID    string     `json:"course_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ContentURL  string     `json:"content_url"`
	Order       int        `json:"order"`
	Kind        LessonKind `json:"kind"`
	CreatedAt   time.Time  `json:"created_at"`
}

// LessonOutline is the part of a lesson visible without enrollment.
type LessonOutline struct {
	ID          string     `json:"id"`
	CourseID    string     `json:"course_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Order       int        `json:"order"`
	Kind        LessonKind `json:"kind"`
}

func (l Lesson) Outline() LessonOutline {
	return LessonOutline{
		ID:          l.ID,
		CourseID:    l.CourseID,
		Title:       l.Title,
		Description: l.Description,
		Order:       l.Order,
		Kind:        l.Kind,
	}
}

func Outlines(lessons []Lesson) []LessonOutline {
	out := make([]LessonOutline, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, l.Outline())
	}
	return out
}

type CreateLessonRequest struct {
	Title       string `json:"title" form:"title" binding:"required,max=200"`
	Description string `json:"description" form:"description" binding:"required"`
	ContentURL  string `json:"content_url" form:"content_url" binding:"required,url"`
	Order       *int   `json:"order" form:"order" binding:"required,min=1"`
	Kind        string `json:"kind" form:"kind" binding:"required,oneof=video document image"`
}
