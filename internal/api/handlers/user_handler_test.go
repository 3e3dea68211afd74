package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taskstack/taskstack-be/internal/apperr"
	"github.com/taskstack/taskstack-be/internal/auth"
	"github.com/taskstack/taskstack-be/internal/models"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, username, email, password string) (models.User, error) {
	args := m.Called(ctx, username, email, password)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

func newUserHandler(service *MockUserService) *UserHandler {
	codec := auth.NewTokenCodec("handler-test-secret", time.Hour)
	return NewUserHandler(service, codec, 3600, false)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func tokenCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "token" {
			return cookie
		}
	}
	return nil
}

func TestRegisterHandler(t *testing.T) {
	userID := uuid.NewString()
	service := new(MockUserService)
	service.On("Register", mock.Anything, "ada", "ada@example.com", "hunter42").
		Return(models.User{
			ID:       userID,
			Username: "ada",
			Email:    "ada@example.com",
			Password: "$argon2id$...",
		}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"username":"ada","email":"ada@example.com","password":"hunter42"}`))
	newUserHandler(service).Register(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "success", body["status"])
	user := body["data"].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, userID, user["id"])
	assert.Equal(t, "ada", user["username"])
	// The hash never leaves the server.
	assert.NotContains(t, rec.Body.String(), "argon2id")
	assert.NotContains(t, user, "password")

	cookie := tokenCookie(rec)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 3600, cookie.MaxAge)

	service.AssertExpectations(t)
}

func TestRegisterHandlerValidation(t *testing.T) {
	service := new(MockUserService)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"username":"ada","email":"not-an-email","password":"short"}`))
	newUserHandler(service).Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "fail", body["status"])
	fields := body["errors"].(map[string]any)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")

	service.AssertNotCalled(t, "Register")
}

func TestRegisterHandlerConflict(t *testing.T) {
	service := new(MockUserService)
	service.On("Register", mock.Anything, "ada", "ada@example.com", "hunter42").
		Return(models.User{}, apperr.Conflict("User with that email already exists"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"username":"ada","email":"ada@example.com","password":"hunter42"}`))
	newUserHandler(service).Register(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "fail", body["status"])
	assert.Equal(t, "User with that email already exists", body["message"])
	assert.Nil(t, tokenCookie(rec))
}

func TestLoginHandler(t *testing.T) {
	userID := uuid.NewString()
	service := new(MockUserService)
	service.On("Authenticate", mock.Anything, "ada@example.com", "hunter42").
		Return(models.User{ID: userID, Username: "ada", Email: "ada@example.com"}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"ada@example.com","password":"hunter42"}`))
	newUserHandler(service).Login(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	cookie := tokenCookie(rec)
	require.NotNil(t, cookie)

	// The cookie carries a token the codec accepts for this user.
	codec := auth.NewTokenCodec("handler-test-secret", time.Hour)
	claims, err := codec.Verify(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.Subject)
}

func TestLoginHandlerBadCredentials(t *testing.T) {
	service := new(MockUserService)
	service.On("Authenticate", mock.Anything, "ada@example.com", "wrongpass").
		Return(models.User{}, apperr.Validation("Invalid email or password", nil))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"ada@example.com","password":"wrongpass"}`))
	newUserHandler(service).Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Invalid email or password", body["message"])
}

func TestLogoutHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/logout", nil)
	newUserHandler(new(MockUserService)).Logout(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	cookie := tokenCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
}

func TestGetMeHandler(t *testing.T) {
	user := models.User{ID: uuid.NewString(), Username: "ada", Email: "ada@example.com", Password: "hash"}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req = req.WithContext(auth.ContextWithUser(req.Context(), user))
	newUserHandler(new(MockUserService)).GetMe(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	me := body["data"].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, user.ID, me["id"])
	assert.NotContains(t, me, "password")
}
