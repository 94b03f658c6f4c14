package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"coursehub_backend/loader"
	"coursehub_backend/metrics"
	"coursehub_backend/middleware"
	"coursehub_backend/models"

	"github.com/gin-gonic/gin"
)

type EnrollmentStore interface {
	CreateEnrollment(ctx context.Context, e *models.Enrollment) error
	ListEnrolledCourses(ctx context.Context, userID string) ([]models.Course, error)
}

type EnrollmentHandler struct {
	store EnrollmentStore
	log   *slog.Logger
}

func NewEnrollmentHandler(store EnrollmentStore, log *slog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{store: store, log: log}
}

func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	enrollment := models.Enrollment{UserID: user.ID, CourseID: c.Param("id")}
	if err := h.store.CreateEnrollment(c.Request.Context(), &enrollment); err != nil {
		failStore(c, h.log, err, "Course not found", "Already enrolled in this course", "Failed to enroll in course")
		return
	}

	metrics.Enrollments.Inc()
	h.log.Info("user enrolled", slog.String("user_id", user.ID), slog.String("course_id", enrollment.CourseID))
	created(c, "/dashboard", "enrollment", enrollment)
}

func (h *EnrollmentHandler) GetEnrollments(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var courses []models.Course
	view := loader.Load(c.Request.Context(),
		func() []models.CourseResponse { return models.NewCourseResponses(courses) },
		loader.Into(&courses, func(ctx context.Context) ([]models.Course, error) {
			return h.store.ListEnrolledCourses(ctx, user.ID)
		}),
	)
	if err := view.Err(); err != nil {
		fail(c, h.log, http.StatusInternalServerError, "Failed to fetch enrollments", err)
		return
	}
	data, _ := view.Data()
	c.JSON(http.StatusOK, data)
}
