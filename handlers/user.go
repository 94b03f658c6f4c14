package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"coursehub_backend/db"
	"coursehub_backend/loader"
	"coursehub_backend/models"

	"github.com/gin-gonic/gin"
)

type ProfileStore interface {
	GetUser(ctx context.Context, id string) (models.User, error)
	ListCoursesByInstructor(ctx context.Context, instructorID string) ([]models.Course, error)
}

type UserHandler struct {
	store ProfileStore
	log   *slog.Logger
}

func NewUserHandler(store ProfileStore, log *slog.Logger) *UserHandler {
	return &UserHandler{store: store, log: log}
}

// GetInstructor fetches an instructor's public profile with their courses.
func (h *UserHandler) GetInstructor(c *gin.Context) {
	instructorID := c.Param("id")

	var (
		user    models.User
		courses []models.Course
	)
	view := loader.Load(c.Request.Context(),
		func() models.InstructorProfile { return models.NewInstructorProfile(user, courses) },
		loader.Into(&user, func(ctx context.Context) (models.User, error) {
			u, err := h.store.GetUser(ctx, instructorID)
			if err == nil && !u.IsInstructor {
				return u, fmt.Errorf("user %s is not an instructor: %w", instructorID, db.ErrNotFound)
			}
			return u, err
		}),
		loader.Into(&courses, func(ctx context.Context) ([]models.Course, error) {
			return h.store.ListCoursesByInstructor(ctx, instructorID)
		}),
	)
	if err := view.Err(); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			fail(c, h.log, http.StatusNotFound, "Instructor not found", err)
			return
		}
		fail(c, h.log, http.StatusInternalServerError, "Failed to fetch instructor", err)
		return
	}
	data, _ := view.Data()
	c.JSON(http.StatusOK, data)
}
