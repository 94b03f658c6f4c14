package routes

import (
	"log/slog"
	"time"

	"coursehub_backend/db"
	"coursehub_backend/handlers"
	"coursehub_backend/metrics"
	"coursehub_backend/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	AllowOrigins []string
}

// NewRouter builds the engine with middleware and every route of the service.
func NewRouter(store *db.Store, tokens *middleware.TokenService, log *slog.Logger, opts Options) *gin.Engine {
	metrics.Register()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(opts.AllowOrigins)))
	r.Use(metrics.Middleware())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Identity(store, tokens, log))

	SetupRoutes(r, store, tokens, log)
	return r
}

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	config.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
	}
	config.AllowMethods = []string{"GET", "POST"}
	config.MaxAge = 12 * time.Hour
	return config
}

// SetupRoutes configures all the routes for the application
func SetupRoutes(r *gin.Engine, store *db.Store, tokens *middleware.TokenService, log *slog.Logger) {
	authHandler := handlers.NewAuthHandler(store, tokens, log)
	courseHandler := handlers.NewCourseHandler(store, log)
	lessonHandler := handlers.NewLessonHandler(store, log)
	enrollmentHandler := handlers.NewEnrollmentHandler(store, log)
	dashboardHandler := handlers.NewDashboardHandler(store, log)
	userHandler := handlers.NewUserHandler(store, log)
	healthHandler := handlers.NewHealthHandler(store, log)

	// Public routes
	r.GET("/health", healthHandler.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.POST("/refresh", authHandler.RefreshToken)
	r.GET("/session", authHandler.Session)
	r.GET("/courses", courseHandler.GetCourses)
	r.GET("/courses/:id", courseHandler.GetCourse)
	r.GET("/courses/:id/lessons", lessonHandler.GetLessons)
	r.GET("/instructors/:id", userHandler.GetInstructor)

	// Signed-in routes
	protected := r.Group("/")
	protected.Use(middleware.RequireUser())
	{
		protected.POST("/logout", authHandler.Logout)
		protected.GET("/me", authHandler.GetUserInfo)
		protected.GET("/dashboard", dashboardHandler.GetDashboard)
		protected.GET("/enrollments", enrollmentHandler.GetEnrollments)
		protected.POST("/courses/:id/enroll", enrollmentHandler.Enroll)
		protected.GET("/courses/:id/lessons/:lessonID", lessonHandler.GetLesson)
	}

	// Instructor routes
	instructor := r.Group("/")
	instructor.Use(middleware.RequireInstructor())
	{
		instructor.POST("/courses", courseHandler.CreateCourse)
		instructor.POST("/courses/:id/lessons", lessonHandler.CreateLesson)
	}
}
