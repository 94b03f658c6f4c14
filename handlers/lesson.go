package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"coursehub_backend/loader"
	"coursehub_backend/metrics"
	"coursehub_backend/middleware"
	"coursehub_backend/models"

	"github.com/gin-gonic/gin"
)

type LessonStore interface {
	GetCourse(ctx context.Context, id string) (models.Course, error)
	CreateLesson(ctx context.Context, l *models.Lesson) error
	ListLessons(ctx context.Context, courseID string) ([]models.Lesson, error)
	GetLesson(ctx context.Context, courseID, lessonID string) (models.Lesson, error)
	IsEnrolled(ctx context.Context, userID, courseID string) (bool, error)
}

type LessonHandler struct {
	store LessonStore
	log   *slog.Logger
}

func NewLessonHandler(store LessonStore, log *slog.Logger) *LessonHandler {
	return &LessonHandler{store: store, log: log}
}

// CreateLesson adds a lesson to a course owned by the caller.
func (h *LessonHandler) CreateLesson(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	courseID := c.Param("id")

	course, err := h.store.GetCourse(c.Request.Context(), courseID)
	if err != nil {
		failStore(c, h.log, err, "Course not found", "", "Failed to verify course")
		return
	}
	if course.InstructorID != user.ID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Only the course instructor can add lessons"})
		return
	}

	var req models.CreateLessonRequest
	if err := c.ShouldBind(&req); err != nil {
		failBinding(c, err)
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		failValidation(c, map[string]string{"title": "Title is required"})
		return
	}

	lesson := models.Lesson{
		CourseID:    courseID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		ContentURL:  strings.TrimSpace(req.ContentURL),
		Order:       *req.Order,
		Kind:        models.LessonKind(req.Kind),
	}
	if err := h.store.CreateLesson(c.Request.Context(), &lesson); err != nil {
		failStore(c, h.log, err, "Course not found", "A lesson with this order already exists in the course", "Failed to create lesson")
		return
	}

	metrics.LessonsCreated.Inc()
	h.log.Info("lesson created", slog.String("lesson_id", lesson.ID), slog.String("course_id", courseID))
	created(c, "/courses/"+courseID, "lesson", lesson)
}

// GetLessons returns the lesson outline of a course in display order.
func (h *LessonHandler) GetLessons(c *gin.Context) {
	courseID := c.Param("id")

	var lessons []models.Lesson
	view := loader.Load(c.Request.Context(),
		func() []models.LessonOutline { return models.Outlines(lessons) },
		func(ctx context.Context) error {
			_, err := h.store.GetCourse(ctx, courseID)
			return err
		},
		loader.Into(&lessons, func(ctx context.Context) ([]models.Lesson, error) {
			return h.store.ListLessons(ctx, courseID)
		}),
	)
	if err := view.Err(); err != nil {
		failStore(c, h.log, err, "Course not found", "", "Failed to fetch lessons")
		return
	}
	data, _ := view.Data()
	c.JSON(http.StatusOK, data)
}

// GetLesson returns full lesson content to enrolled users and the course instructor.
func (h *LessonHandler) GetLesson(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	courseID, lessonID := c.Param("id"), c.Param("lessonID")

	var (
		course   models.Course
		lesson   models.Lesson
		enrolled bool
	)
	view := loader.Load(c.Request.Context(),
		func() models.Lesson { return lesson },
		loader.Into(&course, func(ctx context.Context) (models.Course, error) {
			return h.store.GetCourse(ctx, courseID)
		}),
		loader.Into(&lesson, func(ctx context.Context) (models.Lesson, error) {
			return h.store.GetLesson(ctx, courseID, lessonID)
		}),
		loader.Into(&enrolled, func(ctx context.Context) (bool, error) {
			return h.store.IsEnrolled(ctx, user.ID, courseID)
		}),
	)
	if err := view.Err(); err != nil {
		failStore(c, h.log, err, "Lesson not found", "", "Failed to fetch lesson")
		return
	}
	if !enrolled && course.InstructorID != user.ID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Enroll in this course to view its lessons"})
		return
	}
	data, _ := view.Data()
	c.JSON(http.StatusOK, data)
}
