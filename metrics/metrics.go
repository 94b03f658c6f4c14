package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursehub_http_requests_total",
			Help: "Number of handled HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coursehub_http_request_duration_seconds",
			Help:    "Time taken to handle HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	CoursesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coursehub_courses_created_total",
			Help: "Number of courses created",
		},
	)

	LessonsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coursehub_lessons_created_total",
			Help: "Number of lessons created",
		},
	)

	Enrollments = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coursehub_enrollments_total",
			Help: "Number of course enrollments",
		},
	)

	ExpiredTokensPurged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coursehub_expired_refresh_tokens_purged_total",
			Help: "Number of expired refresh tokens removed by the cleanup job",
		},
	)
)

var registerOnce sync.Once

// Register adds the collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequests,
			HTTPRequestDuration,
			CoursesCreated,
			LessonsCreated,
			Enrollments,
			ExpiredTokensPurged,
		)
	})
}

// Middleware records request counts and latency by route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
