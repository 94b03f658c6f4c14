// Package client is a typed HTTP client for the CourseHub API.
package client

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"coursehub_backend/models"

	"github.com/go-resty/resty/v2"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int               `json:"-"`
	Message    string            `json:"error"`
	Fields     map[string]string `json:"fields,omitempty"`
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%d: %s (%s)", e.StatusCode, e.Message, strings.Join(parts, "; "))
}

type Client struct {
	http *resty.Client
}

// New returns a client for the server at baseURL. token may be empty.
func New(baseURL, token string) *Client {
	r := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(15*time.Second).
		SetHeader("Accept", "application/json").
		SetError(&APIError{})
	if token != "" {
		r.SetAuthToken(token)
	}
	return &Client{http: r}
}

// SetToken replaces the bearer token used for later calls.
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

type CourseInput struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	ThumbnailURL string  `json:"thumbnail_url,omitempty"`
}

type LessonInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ContentURL  string `json:"content_url"`
	Order       int    `json:"order"`
	Kind        string `json:"kind"`
}

type ListOptions struct {
	InstructorID string
	Limit        int
	Offset       int
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	var out models.AuthResponse
	err := c.do(ctx, resty.MethodPost, "/register", req, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, email, password string) (models.AuthResponse, error) {
	var out models.AuthResponse
	err := c.do(ctx, resty.MethodPost, "/login", models.LoginRequest{Email: email, Password: password}, &out)
	return out, err
}

func (c *Client) Session(ctx context.Context) (models.SessionResponse, error) {
	var out models.SessionResponse
	err := c.do(ctx, resty.MethodGet, "/session", nil, &out)
	return out, err
}

func (c *Client) ListCourses(ctx context.Context, opts ListOptions) ([]models.CourseResponse, error) {
	q := url.Values{}
	if opts.InstructorID != "" {
		q.Set("instructor_id", opts.InstructorID)
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}
	path := "/courses"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []models.CourseResponse
	err := c.do(ctx, resty.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) GetCourse(ctx context.Context, id string) (models.CourseDetailsResponse, error) {
	var out models.CourseDetailsResponse
	err := c.do(ctx, resty.MethodGet, "/courses/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) GetLesson(ctx context.Context, courseID, lessonID string) (models.Lesson, error) {
	var out models.Lesson
	err := c.do(ctx, resty.MethodGet, "/courses/"+url.PathEscape(courseID)+"/lessons/"+url.PathEscape(lessonID), nil, &out)
	return out, err
}

func (c *Client) CreateCourse(ctx context.Context, in CourseInput) (models.CourseResponse, error) {
	var out struct {
		Course models.CourseResponse `json:"course"`
	}
	err := c.do(ctx, resty.MethodPost, "/courses", in, &out)
	return out.Course, err
}

func (c *Client) CreateLesson(ctx context.Context, courseID string, in LessonInput) (models.Lesson, error) {
	var out struct {
		Lesson models.Lesson `json:"lesson"`
	}
	err := c.do(ctx, resty.MethodPost, "/courses/"+url.PathEscape(courseID)+"/lessons", in, &out)
	return out.Lesson, err
}

func (c *Client) Enroll(ctx context.Context, courseID string) (models.Enrollment, error) {
	var out struct {
		Enrollment models.Enrollment `json:"enrollment"`
	}
	err := c.do(ctx, resty.MethodPost, "/courses/"+url.PathEscape(courseID)+"/enroll", nil, &out)
	return out.Enrollment, err
}

func (c *Client) Dashboard(ctx context.Context) (models.DashboardResponse, error) {
	var out models.DashboardResponse
	err := c.do(ctx, resty.MethodGet, "/dashboard", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	req := c.http.R().SetContext(ctx).SetResult(result)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		apiErr, ok := resp.Error().(*APIError)
		if !ok || apiErr.Message == "" {
			apiErr = &APIError{Message: strings.TrimSpace(resp.Status())}
		}
		apiErr.StatusCode = resp.StatusCode()
		return apiErr
	}
	return nil
}
