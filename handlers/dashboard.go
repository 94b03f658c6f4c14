package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"coursehub_backend/loader"
	"coursehub_backend/middleware"
	"coursehub_backend/models"

	"github.com/gin-gonic/gin"
)

type DashboardStore interface {
	ListEnrolledCourses(ctx context.Context, userID string) ([]models.Course, error)
	ListCoursesByInstructor(ctx context.Context, instructorID string) ([]models.Course, error)
}

type DashboardHandler struct {
	store DashboardStore
	log   *slog.Logger
}

func NewDashboardHandler(store DashboardStore, log *slog.Logger) *DashboardHandler {
	return &DashboardHandler{store: store, log: log}
}

// GetDashboard loads the caller's enrolled and created courses concurrently.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var enrolled, createdCourses []models.Course
	view := loader.Load(c.Request.Context(),
		func() models.DashboardResponse {
			return models.DashboardResponse{
				EnrolledCourses: models.NewCourseResponses(enrolled),
				CreatedCourses:  models.NewCourseResponses(createdCourses),
			}
		},
		loader.Into(&enrolled, func(ctx context.Context) ([]models.Course, error) {
			return h.store.ListEnrolledCourses(ctx, user.ID)
		}),
		loader.Into(&createdCourses, func(ctx context.Context) ([]models.Course, error) {
			return h.store.ListCoursesByInstructor(ctx, user.ID)
		}),
	)
	if err := view.Err(); err != nil {
		fail(c, h.log, http.StatusInternalServerError, "Failed to load dashboard", err)
		return
	}
	data, _ := view.Data()
	c.JSON(http.StatusOK, data)
}
