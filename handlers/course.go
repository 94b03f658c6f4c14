package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"coursehub_backend/db"
	"coursehub_backend/loader"
	"coursehub_backend/metrics"
	"coursehub_backend/middleware"
	"coursehub_backend/models"
	"coursehub_backend/money"

	"github.com/gin-gonic/gin"
)

type CourseStore interface {
	CreateCourse(ctx context.Context, c *models.Course) error
	GetCourse(ctx context.Context, id string) (models.Course, error)
	ListCourses(ctx context.Context, f db.CourseFilter) ([]models.Course, error)
	ListLessons(ctx context.Context, courseID string) ([]models.Lesson, error)
	IsEnrolled(ctx context.Context, userID, courseID string) (bool, error)
}

type CourseHandler struct {
	store CourseStore
	log   *slog.Logger
}

func NewCourseHandler(store CourseStore, log *slog.Logger) *CourseHandler {
	return &CourseHandler{store: store, log: log}
}

// CreateCourse stores a course owned by the calling instructor. The price is
// submitted in major units and stored in minor units.
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req models.CreateCourseRequest
	if err := c.ShouldBind(&req); err != nil {
		failBinding(c, err)
		return
	}

	fields := map[string]string{}
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" {
		fields["title"] = "Title is required"
	}
	if description == "" {
		fields["description"] = "Description is required"
	}
	var price int64
	if fromForm(c) && strings.TrimSpace(c.PostForm("price")) == "" {
		// the form mapper reads an empty field as 0
		fields["price"] = "Price is required"
	} else if minor, err := money.ToMinor(*req.Price); err != nil {
		fields["price"] = priceMessage(err)
	} else {
		price = minor
	}
	if len(fields) > 0 {
		failValidation(c, fields)
		return
	}

	course := models.Course{
		Title:        title,
		Description:  description,
		Price:        price,
		InstructorID: user.ID,
		ThumbnailURL: strings.TrimSpace(req.ThumbnailURL),
	}
	if err := h.store.CreateCourse(c.Request.Context(), &course); err != nil {
		fail(c, h.log, http.StatusInternalServerError, "Failed to create course", err)
		return
	}

	metrics.CoursesCreated.Inc()
	h.log.Info("course created", slog.String("course_id", course.ID), slog.String("instructor_id", user.ID))
	created(c, "/dashboard", "course", models.NewCourseResponse(course))
}

func priceMessage(err error) string {
	switch err {
	case money.ErrNegative:
		return "Price must not be negative"
	case money.ErrTooLarge:
		return "Price must be at most " + strconv.Itoa(money.MaxMajor)
	}
	return "Price must be a number"
}

// GetCourses lists courses newest first.
func (h *CourseHandler) GetCourses(c *gin.Context) {
	filter := db.CourseFilter{InstructorID: c.Query("instructor_id")}
	fields := map[string]string{}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			fields["limit"] = "Limit must be greater than 0"
		}
		filter.Limit = n
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			fields["offset"] = "Offset must not be negative"
		}
		filter.Offset = n
	}
	if len(fields) > 0 {
		failValidation(c, fields)
		return
	}

	var courses []models.Course
	view := loader.Load(c.Request.Context(),
		func() []models.CourseResponse { return models.NewCourseResponses(courses) },
		loader.Into(&courses, func(ctx context.Context) ([]models.Course, error) {
			return h.store.ListCourses(ctx, filter)
		}),
	)
	if err := view.Err(); err != nil {
		fail(c, h.log, http.StatusInternalServerError, "Failed to fetch courses", err)
		return
	}
	data, _ := view.Data()
	c.JSON(http.StatusOK, data)
}

// GetCourse loads a course, its lesson outline and, for signed-in callers,
// their enrollment, all at once.
func (h *CourseHandler) GetCourse(c *gin.Context) {
	courseID := c.Param("id")
	user, authed := middleware.CurrentUser(c)

	var (
		course   models.Course
		lessons  []models.Lesson
		enrolled bool
	)
	steps := []loader.Step{
		loader.Into(&course, func(ctx context.Context) (models.Course, error) {
			return h.store.GetCourse(ctx, courseID)
		}),
		loader.Into(&lessons, func(ctx context.Context) ([]models.Lesson, error) {
			return h.store.ListLessons(ctx, courseID)
		}),
	}
	if authed {
		steps = append(steps, loader.Into(&enrolled, func(ctx context.Context) (bool, error) {
			return h.store.IsEnrolled(ctx, user.ID, courseID)
		}))
	}

	view := loader.Load(c.Request.Context(), func() models.CourseDetailsResponse {
		owner := authed && user.ID == course.InstructorID
		return models.CourseDetailsResponse{
			Course:  models.NewCourseResponse(course),
			Lessons: models.Outlines(lessons),
			Viewer: models.CourseViewer{
				Authenticated: authed,
				Owner:         owner,
				Enrolled:      enrolled,
				CanEnroll:     authed && !owner && !enrolled,
				CanAddLesson:  owner && user.IsInstructor,
			},
		}
	}, steps...)
	if err := view.Err(); err != nil {
		failStore(c, h.log, err, "Course not found", "", "Failed to fetch course details")
		return
	}
	data, _ := view.Data()
	c.JSON(http.StatusOK, data)
}
