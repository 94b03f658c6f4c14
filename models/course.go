package models

import (
	"time"

	"coursehub_backend/money"
)

type Course struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        int64     `json:"price"`
	InstructorID string    `json:"instructor_id"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateCourseRequest carries the course form. Price is in major units.
type CreateCourseRequest struct {
	Title        string   `json:"title" form:"title" binding:"required,max=200"`
	Description  string   `json:"description" form:"description" binding:"required,max=5000"`
	Price        *float64 `json:"price" form:"price" binding:"required"`
	ThumbnailURL string   `json:"thumbnail_url" form:"thumbnail_url" binding:"omitempty,url"`
}

type CourseResponse struct {
	Course
	PriceDisplay string `json:"price_display"`
}

func NewCourseResponse(c Course) CourseResponse {
	return CourseResponse{Course: c, PriceDisplay: money.Format(c.Price)}
}

func NewCourseResponses(courses []Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, NewCourseResponse(c))
	}
	return out
}

// CourseViewer describes what the caller may do with a course.
type CourseViewer struct {
	Authenticated bool `json:"authenticated"`
	Owner         bool `json:"owner"`
	Enrolled      bool `json:"enrolled"`
	CanEnroll     bool `json:"can_enroll"`
	CanAddLesson  bool `json:"can_add_lesson"`
}

type CourseDetailsResponse struct {
	Course  CourseResponse  `json:"course"`
	Lessons []LessonOutline `json:"lessons"`
	Viewer  CourseViewer    `json:"viewer"`
}

type DashboardResponse struct {
	EnrolledCourses []CourseResponse `json:"enrolled_courses"`
	CreatedCourses  []CourseResponse `json:"created_courses"`
}
