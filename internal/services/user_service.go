package services

import (
	"context"

	"github.com/taskstack/taskstack-be/internal/apperr"
	"github.com/taskstack/taskstack-be/internal/auth"
	"github.com/taskstack/taskstack-be/internal/models"
	"github.com/taskstack/taskstack-be/internal/rowstore"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, username, email, password string) (models.User, error)
	Authenticate(ctx context.Context, email, password string) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
}

// UserService provides business logic for registration and login
// against the hosted row store.
type UserService struct {
	store *rowstore.Client
}

// NewUserService creates a new UserService.
func NewUserService(store *rowstore.Client) *UserService {
	return &UserService{store: store}
}

// registerRow is the row shape sent to the datastore on registration.
// The id and created_at columns are generated by the store.
type registerRow struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new user with a hashed password. A duplicate email
// is a conflict.
func (s *UserService) Register(ctx context.Context, username, email, password string) (models.User, error) {
	var existing []models.User
	err := s.store.From("users").Select("*").Eq("email", email).Execute(ctx, &existing)
	if err != nil {
		return models.User{}, err
	}
	if len(existing) > 0 {
		return models.User{}, apperr.Conflict("User with that email already exists")
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, apperr.Upstream("Error while hashing password", err)
	}

	var created []models.User
	row := registerRow{Username: username, Email: email, Password: hashed}
	if err := s.store.From("users").Insert(ctx, row, &created); err != nil {
		return models.User{}, err
	}
	if len(created) == 0 {
		return models.User{}, apperr.Upstream("Something went wrong while creating the user", nil)
	}
	return created[0], nil
}

// Authenticate verifies a user's credentials. Unknown emails and wrong
// passwords fail identically.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	var found []models.User
	err := s.store.From("users").Select("*").Eq("email", email).Execute(ctx, &found)
	if err != nil {
		return models.User{}, err
	}
	if len(found) == 0 || !auth.VerifyPassword(password, found[0].Password) {
		return models.User{}, apperr.Validation("Invalid email or password", nil)
	}
	return found[0], nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	var found []models.User
	err := s.store.From("users").Select("*").Eq("id", id).Execute(ctx, &found)
	if err != nil {
		return models.User{}, err
	}
	if len(found) == 0 {
		return models.User{}, apperr.NotFound("User with ID: " + id + " not found")
	}
	return found[0], nil
}
