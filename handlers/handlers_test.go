package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"coursehub_backend/db"
	"coursehub_backend/middleware"
	"coursehub_backend/models"
	"coursehub_backend/routes"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-0123456789")

type testServer struct {
	t      *testing.T
	router *gin.Engine
	store  *db.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := db.Open(context.Background(), db.Config{
		Driver:          db.DialectSQLite,
		DSN:             filepath.Join(t.TempDir(), "coursehub.db"),
		ConnectAttempts: 1,
	}, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	tokens := middleware.NewTokenService(store, testSecret, time.Hour, 24*time.Hour)
	return &testServer{
		t:      t,
		router: routes.NewRouter(store, tokens, log, routes.Options{}),
		store:  store,
	}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		r = strings.NewReader(string(data))
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) postForm(path, token string, form url.Values) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) register(email string, instructor bool) models.AuthResponse {
	s.t.Helper()
	w := s.do(http.MethodPost, "/register", "", models.RegisterRequest{
		Email:        email,
		Password:     "password123",
		FullName:     "Test User",
		IsInstructor: instructor,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var res models.AuthResponse
	decode(s.t, w, &res)
	return res
}

func (s *testServer) createCourse(token, title string, price float64) models.CourseResponse {
	s.t.Helper()
	w := s.do(http.MethodPost, "/courses", token, gin.H{
		"title":       title,
		"description": "A course about " + title,
		"price":       price,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var res struct {
		Course   models.CourseResponse `json:"course"`
		Redirect string                `json:"redirect"`
	}
	decode(s.t, w, &res)
	assert.Equal(s.t, "/dashboard", res.Redirect)
	return res.Course
}

func (s *testServer) addLesson(token, courseID string, order int) *httptest.ResponseRecorder {
	s.t.Helper()
	return s.do(http.MethodPost, "/courses/"+courseID+"/lessons", token, gin.H{
		"title":       "Lesson",
		"description": "Part of the course",
		"content_url": "https://cdn.example.com/lesson.mp4",
		"order":       order,
		"kind":        "video",
	})
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) (string, map[string]string) {
	t.Helper()
	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	decode(t, w, &body)
	return body.Error, body.Fields
}

func TestSessionHidesInstructorActionsFromAnonymousUsers(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/session", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var anon models.SessionResponse
	decode(t, w, &anon)
	assert.Nil(t, anon.User)
	assert.Equal(t, models.SessionActions{SignIn: true}, anon.Actions)

	student := s.register("student@example.com", false)
	w = s.do(http.MethodGet, "/session", student.AccessToken, nil)
	var sess models.SessionResponse
	decode(t, w, &sess)
	require.NotNil(t, sess.User)
	assert.Equal(t, "student@example.com", sess.User.Email)
	assert.True(t, sess.Actions.SignOut)
	assert.False(t, sess.Actions.CreateCourse)

	teacher := s.register("teacher@example.com", true)
	w = s.do(http.MethodGet, "/session", teacher.AccessToken, nil)
	decode(t, w, &sess)
	assert.True(t, sess.Actions.CreateCourse)
}

func TestStaleTokenBrowsesAnonymously(t *testing.T) {
	s := newTestServer(t)
	teacher := s.register("teacher@example.com", true)
	course := s.createCourse(teacher.AccessToken, "Go", 10)

	expiring := middleware.NewTokenService(s.store, testSecret, -time.Minute, time.Hour)
	stale, err := expiring.GenerateTokens(context.Background(), teacher.User)
	require.NoError(t, err)

	for _, token := range []string{stale.AccessToken, "not-a-jwt"} {
		w := s.do(http.MethodGet, "/courses", token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var courses []models.CourseResponse
		decode(t, w, &courses)
		assert.Len(t, courses, 1)

		w = s.do(http.MethodGet, "/courses/"+course.ID, token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var details models.CourseDetailsResponse
		decode(t, w, &details)
		assert.Equal(t, models.CourseViewer{}, details.Viewer)

		w = s.do(http.MethodGet, "/session", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var sess models.SessionResponse
		decode(t, w, &sess)
		assert.Nil(t, sess.User)
		assert.Equal(t, models.SessionActions{SignIn: true}, sess.Actions)

		w = s.do(http.MethodGet, "/dashboard", token, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = s.do(http.MethodPost, "/courses", token, gin.H{"title": "Go", "description": "x", "price": 1})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestCreateCourseRequiresInstructor(t *testing.T) {
	s := newTestServer(t)
	body := gin.H{"title": "Go", "description": "Learn Go", "price": 10}

	w := s.do(http.MethodPost, "/courses", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	student := s.register("student@example.com", false)
	w = s.do(http.MethodPost, "/courses", student.AccessToken, body)
	assert.Equal(t, http.StatusForbidden, w.Code)
	msg, _ := errorBody(t, w)
	assert.Equal(t, "Only instructors can perform this action", msg)
}

func TestCreateCourseConvertsPrice(t *testing.T) {
	s := newTestServer(t)
	teacher := s.register("teacher@example.com", true)

	course := s.createCourse(teacher.AccessToken, "Go", 19.99)
	assert.Equal(t, int64(1999), course.Price)
	assert.Equal(t, "19.99", course.PriceDisplay)
	assert.Equal(t, teacher.User.ID, course.InstructorID)

	w := s.do(http.MethodGet, "/courses/"+course.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var details models.CourseDetailsResponse
	decode(t, w, &details)
	assert.Equal(t, int64(1999), details.Course.Price)
	assert.Equal(t, "19.99", details.Course.PriceDisplay)
}

func TestCreateCourseValidation(t *testing.T) {
	s := newTestServer(t)
	teacher := s.register("teacher@example.com", true)

	w := s.do(http.MethodPost, "/courses", teacher.AccessToken, gin.H{"description": "x"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	msg, fields := errorBody(t, w)
	assert.Equal(t, "Validation failed", msg)
	assert.Equal(t, "Title is required", fields["title"])
	assert.Equal(t, "Price is required", fields["price"])

	w = s.do(http.MethodPost, "/courses", teacher.AccessToken, gin.H{"title": "Go", "description": "x", "price": -1})
	require.Equal(t, http.StatusBadRequest, w.Code)
	_, fields = errorBody(t, w)
	assert.Equal(t, "Price must not be negative", fields["price"])

	w = s.do(http.MethodPost, "/courses", teacher.AccessToken, gin.H{"title": "   ", "description": "x", "price": 1})
	require.Equal(t, http.StatusBadRequest, w.Code)
	_, fields = errorBody(t, w)
	assert.Equal(t, "Title is required", fields["title"])
}

func TestCreateCourseFromFormRedirects(t *testing.T) {
	s := newTestServer(t)
	teacher := s.register("teacher@example.com", true)

	w := s.postForm("/courses", teacher.AccessToken, url.Values{
		"title":       {"Forms"},
		"description": {"Posted from a form"},
		"price":       {"5.5"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	courses, err := s.store.ListCoursesByInstructor(context.Background(), teacher.User.ID)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, int64(550), courses[0].Price)
}

func TestCreateCourseFromFormRequiresPrice(t *testing.T) {
	s := newTestServer(t)
	teacher := s.register("teacher@example.com", true)

	w := s.postForm("/courses", teacher.AccessToken, url.Values{
		"title":       {"Forms"},
		"description": {"Posted from a form"},
		"price":       {""},
	})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	_, fields := errorBody(t, w)
	assert.Equal(t, "Price is required", fields["price"])

	w = s.postForm("/courses", teacher.AccessToken, url.Values{
		"title":       {"Free"},
		"description": {"Zero is a valid price"},
		"price":       {"0"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())

	courses, err := s.store.ListCoursesByInstructor(context.Background(), teacher.User.ID)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Free", courses[0].Title)
	assert.Equal(t, int64(0), courses[0].Price)
}

func TestListCourses(t *testing.T) {
	s := newTestServer(t)
	a := s.register("a@example.com", true)
	b := s.register("b@example.com", true)
	s.createCourse(a.AccessToken, "A1", 1)
	s.createCourse(b.AccessToken, "B1", 2)

	w := s.do(http.MethodGet, "/courses", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []models.CourseResponse
	decode(t, w, &all)
	assert.Len(t, all, 2)

	w = s.do(http.MethodGet, "/courses?instructor_id="+b.User.ID, "", nil)
	var byB []models.CourseResponse
	decode(t, w, &byB)
	require.Len(t, byB, 1)
	assert.Equal(t, "B1", byB[0].Title)

	w = s.do(http.MethodGet, "/courses?limit=1", "", nil)
	var page []models.CourseResponse
	decode(t, w, &page)
	assert.Len(t, page, 1)

	w = s.do(http.MethodGet, "/courses?limit=zero", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCourseNotFound(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/courses/missing", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	msg, _ := errorBody(t, w)
	assert.Equal(t, "Course not found", msg)
}

func TestLessonsAreReturnedInOrder(t *testing.T) {
	s := newTestServer(t)
	teacher := s.register("teacher@example.com", true)
	course := s.createCourse(teacher.AccessToken, "Go", 10)

	for _, order := range []int{3, 1, 2} {
		w := s.addLesson(teacher.AccessToken, course.ID, order)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var res struct {
			Redirect string `json:"redirect"`
		}
		decode(t, w, &res)
		assert.Equal(t, "/courses/"+course.ID, res.Redirect)
	}

	w := s.do(http.MethodGet, "/courses/"+course.ID+"/lessons", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var outline []models.LessonOutline
	decode(t, w, &outline)
	require.Len(t, outline, 3)
	for i, l := range outline {
		assert.Equal(t, i+1, l.Order)
	}
	assert.NotContains(t, w.Body.String(), "content_url")

	w = s.do(http.MethodGet, "/courses/"+course.ID, "", nil)
	var details models.CourseDetailsResponse
	decode(t, w, &details)
	require.Len(t, details.Lessons, 3)
	assert.Equal(t, 1, details.Lessons[0].Order)
	assert.Equal(t, 3, details.Lessons[2].Order)
}

func TestCreateLessonRules(t *testing.T) {
	s := newTestServer(t)
	owner := s.register("owner@example.com", true)
	other := s.register("other@example.com", true)
	course := s.createCourse(owner.AccessToken, "Go", 10)

	w := s.addLesson(other.AccessToken, course.ID, 1)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.addLesson(owner.AccessToken, "missing", 1)
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.Equal(t, http.StatusCreated, s.addLesson(owner.AccessToken, course.ID, 1).Code)
	w = s.addLesson(owner.AccessToken, course.ID, 1)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/courses/"+course.ID+"/lessons", owner.AccessToken, gin.H{
		"title":       "Bad",
		"content_url": "not a url",
		"order":       0,
		"kind":        "audio",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	_, fields := errorBody(t, w)
	assert.Contains(t, fields, "content_url")
	assert.Contains(t, fields, "order")
	assert.Equal(t, "Kind must be one of: video, document, image", fields["kind"])
}

func TestEnrollment(t *testing.T) {
	s := newTestServer(t)
	teacher := s.register("teacher@example.com", true)
	student := s.register("student@example.com", false)
	course := s.createCourse(teacher.AccessToken, "Go", 10)
	require.Equal(t, http.StatusCreated, s.addLesson(teacher.AccessToken, course.ID, 1).Code)

	w := s.do(http.MethodGet, "/courses/"+course.ID, student.AccessToken, nil)
	var details models.CourseDetailsResponse
	decode(t, w, &details)
	assert.Equal(t, models.CourseViewer{Authenticated: true, CanEnroll: true}, details.Viewer)
	lessonID := details.Lessons[0].ID

	w = s.do(http.MethodGet, "/courses/"+course.ID+"/lessons/"+lessonID, student.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/courses/"+course.ID+"/enroll", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/courses/"+course.ID+"/enroll", student.AccessToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res struct {
		Enrollment models.Enrollment `json:"enrollment"`
		Redirect   string            `json:"redirect"`
	}
	decode(t, w, &res)
	assert.Equal(t, student.User.ID, res.Enrollment.UserID)
	assert.Equal(t, "/dashboard", res.Redirect)

	w = s.do(http.MethodPost, "/courses/"+course.ID+"/enroll", student.AccessToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/courses/missing/enroll", student.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/courses/"+course.ID+"/lessons/"+lessonID, student.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var lesson models.Lesson
	decode(t, w, &lesson)
	assert.Equal(t, "https://cdn.example.com/lesson.mp4", lesson.ContentURL)

	w = s.do(http.MethodGet, "/courses/"+course.ID, student.AccessToken, nil)
	decode(t, w, &details)
	assert.True(t, details.Viewer.Enrolled)
	assert.False(t, details.Viewer.CanEnroll)

	w = s.do(http.MethodGet, "/enrollments", student.AccessToken, nil)
	var enrolled []models.CourseResponse
	decode(t, w, &enrolled)
	require.Len(t, enrolled, 1)
	assert.Equal(t, course.ID, enrolled[0].ID)
}

func TestOwnerSeesLessonContentAndCanAddLessons(t *testing.T) {
	s := newTestServer(t)
	teacher := s.register("teacher@example.com", true)
	course := s.createCourse(teacher.AccessToken, "Go", 10)
	require.Equal(t, http.StatusCreated, s.addLesson(teacher.AccessToken, course.ID, 1).Code)

	w := s.do(http.MethodGet, "/courses/"+course.ID, teacher.AccessToken, nil)
	var details models.CourseDetailsResponse
	decode(t, w, &details)
	assert.True(t, details.Viewer.Owner)
	assert.True(t, details.Viewer.CanAddLesson)
	assert.False(t, details.Viewer.CanEnroll)

	w = s.do(http.MethodGet, "/courses/"+course.ID+"/lessons/"+details.Lessons[0].ID, teacher.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAnonymousCourseViewer(t *testing.T) {
	s := newTestServer(t)
	teacher := s.register("teacher@example.com", true)
	course := s.createCourse(teacher.AccessToken, "Go", 10)

	w := s.do(http.MethodGet, "/courses/"+course.ID, "", nil)
	var details models.CourseDetailsResponse
	decode(t, w, &details)
	assert.Equal(t, models.CourseViewer{}, details.Viewer)
	assert.NotNil(t, details.Lessons)
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t)
	teacher := s.register("teacher@example.com", true)
	other := s.register("other@example.com", true)
	mine := s.createCourse(teacher.AccessToken, "Mine", 10)
	theirs := s.createCourse(other.AccessToken, "Theirs", 20)
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/courses/"+theirs.ID+"/enroll", teacher.AccessToken, nil).Code)

	w := s.do(http.MethodGet, "/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/dashboard", teacher.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dash models.DashboardResponse
	decode(t, w, &dash)
	require.Len(t, dash.CreatedCourses, 1)
	assert.Equal(t, mine.ID, dash.CreatedCourses[0].ID)
	require.Len(t, dash.EnrolledCourses, 1)
	assert.Equal(t, theirs.ID, dash.EnrolledCourses[0].ID)
	assert.Equal(t, "20.00", dash.EnrolledCourses[0].PriceDisplay)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)
	s.register("user@example.com", false)

	w := s.do(http.MethodPost, "/register", "", models.RegisterRequest{Email: "USER@example.com", Password: "password123"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/register", "", gin.H{"email": "bad", "password": "short"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	_, fields := errorBody(t, w)
	assert.Equal(t, "Email must be a valid email address", fields["email"])
	assert.Equal(t, "Password must be at least 8 characters", fields["password"])

	w = s.do(http.MethodPost, "/login", "", models.LoginRequest{Email: "user@example.com", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/login", "", models.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/login", "", models.LoginRequest{Email: "user@example.com", Password: "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	var res models.AuthResponse
	decode(t, w, &res)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotContains(t, w.Body.String(), "password")

	w = s.do(http.MethodGet, "/me", res.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me models.User
	decode(t, w, &me)
	assert.Equal(t, res.User.ID, me.ID)
}

func TestRefreshRotatesTokens(t *testing.T) {
	s := newTestServer(t)
	auth := s.register("user@example.com", false)

	w := s.do(http.MethodPost, "/refresh", "", models.RefreshRequest{RefreshToken: auth.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var rotated models.AuthResponse
	decode(t, w, &rotated)
	assert.NotEqual(t, auth.RefreshToken, rotated.RefreshToken)

	w = s.do(http.MethodPost, "/refresh", "", models.RefreshRequest{RefreshToken: auth.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	s := newTestServer(t)
	auth := s.register("user@example.com", false)

	w := s.do(http.MethodPost, "/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/logout", auth.AccessToken, models.LogoutRequest{RefreshToken: auth.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/refresh", "", models.RefreshRequest{RefreshToken: auth.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChunkedLogoutRevokesOnlyGivenToken(t *testing.T) {
	s := newTestServer(t)
	first := s.register("user@example.com", false)

	w := s.do(http.MethodPost, "/login", "", models.LoginRequest{Email: "user@example.com", Password: "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	var second models.AuthResponse
	decode(t, w, &second)

	body, err := json.Marshal(models.LogoutRequest{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	// a reader of unknown length leaves ContentLength at -1, as with chunked uploads
	req := httptest.NewRequest(http.MethodPost, "/logout", io.MultiReader(strings.NewReader(string(body))))
	req.TransferEncoding = []string{"chunked"}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+first.AccessToken)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, int64(-1), req.ContentLength)

	w = s.do(http.MethodPost, "/refresh", "", models.RefreshRequest{RefreshToken: first.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/refresh", "", models.RefreshRequest{RefreshToken: second.RefreshToken})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestLogoutRejectsMalformedBody(t *testing.T) {
	s := newTestServer(t)
	auth := s.register("user@example.com", false)

	req := httptest.NewRequest(http.MethodPost, "/logout", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+auth.AccessToken)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/refresh", "", models.RefreshRequest{RefreshToken: auth.RefreshToken})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogoutWithoutTokenRevokesAll(t *testing.T) {
	s := newTestServer(t)
	auth := s.register("user@example.com", false)

	w := s.do(http.MethodPost, "/login", "", models.LoginRequest{Email: "user@example.com", Password: "password123"})
	var second models.AuthResponse
	decode(t, w, &second)

	w = s.do(http.MethodPost, "/logout", auth.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	for _, tok := range []string{auth.RefreshToken, second.RefreshToken} {
		w = s.do(http.MethodPost, "/refresh", "", models.RefreshRequest{RefreshToken: tok})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())

	w = s.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "coursehub_http_requests_total")
}

func TestInstructorProfile(t *testing.T) {
	s := newTestServer(t)
	teacher := s.register("teacher@example.com", true)
	student := s.register("student@example.com", false)
	course := s.createCourse(teacher.AccessToken, "Go", 10)

	w := s.do(http.MethodGet, "/instructors/"+teacher.User.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile models.InstructorProfile
	decode(t, w, &profile)
	assert.Equal(t, "Test User", profile.FullName)
	require.Len(t, profile.Courses, 1)
	assert.Equal(t, course.ID, profile.Courses[0].ID)
	assert.NotContains(t, w.Body.String(), "teacher@example.com")

	w = s.do(http.MethodGet, "/instructors/"+student.User.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/instructors/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
