package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskstack/taskstack-be/internal/auth"
	"github.com/taskstack/taskstack-be/internal/config"
	"github.com/taskstack/taskstack-be/internal/models"
	"github.com/taskstack/taskstack-be/internal/websocket"
)

// stubUserService satisfies services.UserServiceProvider with one known
// user so routing can be exercised without a datastore.
type stubUserService struct {
	user models.User
}

func (s *stubUserService) Register(ctx context.Context, username, email, password string) (models.User, error) {
	return s.user, nil
}

func (s *stubUserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	return s.user, nil
}

func (s *stubUserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	return s.user, nil
}

type stubTaskService struct{}

func (s *stubTaskService) ListTasks(ctx context.Context, userID string) ([]models.Task, error) {
	return []models.Task{}, nil
}

func (s *stubTaskService) CreateTask(ctx context.Context, userID, title, description string) (models.Task, error) {
	return models.Task{ID: "t-1", Title: title, Description: description, UserID: userID}, nil
}

func (s *stubTaskService) GetTask(ctx context.Context, userID, id string) (models.Task, error) {
	return models.Task{ID: id, UserID: userID}, nil
}

func (s *stubTaskService) UpdateTask(ctx context.Context, userID, id string, patch models.TaskPatch) (models.Task, error) {
	return models.Task{ID: id, UserID: userID}, nil
}

func (s *stubTaskService) DeleteTask(ctx context.Context, userID, id string) error {
	return nil
}

func newTestRouter(t *testing.T) (http.Handler, *auth.TokenCodec, models.User) {
	t.Helper()
	cfg := &config.Config{AppEnv: "development", JWTMaxAge: 3600}
	codec := auth.NewTokenCodec("router-test-secret", time.Hour)
	user := models.User{ID: "2b1f4c1e-7a3d-4b45-9c1a-8e2f5d6a7b8c", Username: "ada", Email: "ada@example.com"}

	hub := websocket.NewHub()
	go hub.Run()

	router := NewRouter(cfg, codec, hub, &stubUserService{user: user}, &stubTaskService{})
	return router, codec, user
}

func TestHealthcheckerRoute(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/healthchecker", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "success")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _, _ := newTestRouter(t)

	targets := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/users/me"},
		{http.MethodGet, "/api/tasks/"},
		{http.MethodPost, "/api/tasks/"},
		{http.MethodGet, "/api/auth/logout"},
	}
	for _, target := range targets {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(target.method, target.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", target.method, target.path)
	}
}

func TestProtectedRouteWithCookie(t *testing.T) {
	router, codec, user := newTestRouter(t)

	token, err := codec.Issue(user.ID)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), user.Email)
}

func TestProtectedRouteWithBearerHeader(t *testing.T) {
	router, codec, user := newTestRouter(t)

	token, err := codec.Issue(user.ID)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/tasks/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tasks")
}
