package services

import (
	"context"
	"errors"

	"recommread/internal/models"
	"recommread/internal/repository"
	"recommread/internal/utils"

	"go.uber.org/zap"
)

// AuthService handles registration, login and identity lookup.
type AuthService struct {
	logs *zap.SugaredLogger
	repo repository.Repository
}

func NewAuthService(logger *zap.SugaredLogger, repo repository.Repository) *AuthService {
	return &AuthService{
		logs: logger,
		repo: repo,
	}
}

// Signup creates a user with a hashed password. Username is checked before
// email, so a request colliding on both reports ErrUsernameTaken.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid("Missing required fields", err)
	}

	taken, err := s.repo.UsernameTaken(ctx, in.Username)
	if err != nil {
		return nil, persistence(s.logs, "register user", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	taken, err = s.repo.EmailTaken(ctx, in.Email)
	if err != nil {
		return nil, persistence(s.logs, "register user", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooLong) {
			return nil, ErrInvalidField.With("Password is too long", err)
		}
		return nil, persistence(s.logs, "register user", err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
	}
	err = s.repo.Transaction(ctx, func(tx repository.Repository) error {
		return tx.CreateUser(ctx, user)
	})
	switch {
	case err == nil:
	case repository.IsDuplicate(err, repository.UsersUsernameKey):
		return nil, ErrUsernameTaken
	case repository.IsDuplicate(err, repository.UsersEmailKey):
		return nil, ErrEmailTaken
	case errors.Is(err, repository.ErrInvalidEntity):
		return nil, ErrMissingField.With("Missing required fields", err)
	default:
		return nil, persistence(s.logs, "register user", err)
	}

	s.logs.Infow("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login verifies credentials. Unknown users and wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid("Missing username or password", err)
	}

	user, err := s.repo.GetUserByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, persistence(s.logs, "log in", err)
	}

	if !utils.CheckPasswordHash(in.Password, user.Password) {
		s.logs.Infow("login rejected", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	s.logs.Infow("user logged in", "user_id", user.ID)
	return user, nil
}

// CurrentUser resolves identity to its user. ErrUserNotFound means the
// identity is dangling and should be cleared by the caller.
func (s *AuthService) CurrentUser(ctx context.Context, identity Identity) (*models.User, error) {
	if !identity.Authenticated() {
		return nil, ErrNotAuthenticated.With("Not authenticated", nil)
	}

	user, err := s.repo.GetUserByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, persistence(s.logs, "load user", err)
	}
	return user, nil
}

// ListUsers returns every registered user ordered by id.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, persistence(s.logs, "list users", err)
	}
	return users, nil
}
