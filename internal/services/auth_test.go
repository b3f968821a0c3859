package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"recommread/internal/repository/fake"
	"recommread/internal/services"
	"recommread/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func (e *env) signup(t *testing.T, username string) services.Identity {
	t.Helper()
	user, err := e.auth.Signup(context.Background(), services.SignupInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "pw-" + username,
	})
	require.NoError(t, err)
	return services.Identity{UserID: user.ID}
}

func TestSignupAndLogin(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	user, err := e.auth.Signup(ctx, services.SignupInput{Username: "alice", Email: "a@x.io", Password: "secret"})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)

	stored, ok := e.repo.StoredUser(user.ID)
	require.True(t, ok)
	assert.NotEqual(t, "secret", stored.Password)
	assert.True(t, utils.CheckPasswordHash("secret", stored.Password))

	got, err := e.auth.Login(ctx, services.LoginInput{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = e.auth.Login(ctx, services.LoginInput{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, err = e.auth.Login(ctx, services.LoginInput{Username: "nobody", Password: "secret"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestSignupValidation(t *testing.T) {
	tests := []struct {
		name string
		in   services.SignupInput
		want error
	}{
		{"missing username", services.SignupInput{Email: "a@x.io", Password: "pw"}, services.ErrMissingField},
		{"blank username", services.SignupInput{Username: "   ", Email: "a@x.io", Password: "pw"}, services.ErrMissingField},
		{"missing email", services.SignupInput{Username: "alice", Password: "pw"}, services.ErrMissingField},
		{"missing password", services.SignupInput{Username: "alice", Email: "a@x.io"}, services.ErrMissingField},
		{"username too long", services.SignupInput{Username: strings.Repeat("a", 65), Email: "a@x.io", Password: "pw"}, services.ErrInvalidField},
		{"password too long", services.SignupInput{Username: "alice", Email: "a@x.io", Password: strings.Repeat("p", 73)}, services.ErrInvalidField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv()
			_, err := e.auth.Signup(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, services.KindValidation, services.KindOf(err))

			users, _, _ := e.repo.Counts()
			assert.Zero(t, users)
		})
	}
}

func TestSignupConflicts(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	_, err := e.auth.Signup(ctx, services.SignupInput{Username: "alice", Email: "a@x.io", Password: "pw"})
	require.NoError(t, err)

	_, err = e.auth.Signup(ctx, services.SignupInput{Username: "alice", Email: "other@x.io", Password: "pw"})
	assert.ErrorIs(t, err, services.ErrUsernameTaken)

	_, err = e.auth.Signup(ctx, services.SignupInput{Username: "bob", Email: "a@x.io", Password: "pw"})
	assert.ErrorIs(t, err, services.ErrEmailTaken)

	// both collide: username is reported
	_, err = e.auth.Signup(ctx, services.SignupInput{Username: "alice", Email: "a@x.io", Password: "pw"})
	assert.ErrorIs(t, err, services.ErrUsernameTaken)
	assert.Equal(t, services.KindConflict, services.KindOf(err))

	users, _, _ := e.repo.Counts()
	assert.Equal(t, 1, users)
}

// blindRepo misses existing rows in the pre-checks, as a concurrent signup would.
type blindRepo struct {
	*fake.Repository
}

func (blindRepo) UsernameTaken(context.Context, string) (bool, error) { return false, nil }
func (blindRepo) EmailTaken(context.Context, string) (bool, error)    { return false, nil }

func TestSignupUniqueKeyRace(t *testing.T) {
	repo := fake.New()
	auth := services.NewAuthService(zap.NewNop().Sugar(), blindRepo{repo})
	ctx := context.Background()

	_, err := auth.Signup(ctx, services.SignupInput{Username: "alice", Email: "a@x.io", Password: "pw"})
	require.NoError(t, err)

	_, err = auth.Signup(ctx, services.SignupInput{Username: "alice", Email: "b@x.io", Password: "pw"})
	assert.ErrorIs(t, err, services.ErrUsernameTaken)

	_, err = auth.Signup(ctx, services.SignupInput{Username: "bob", Email: "a@x.io", Password: "pw"})
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestLoginMissingFields(t *testing.T) {
	e := newEnv()
	_, err := e.auth.Login(context.Background(), services.LoginInput{Username: "alice"})
	require.ErrorIs(t, err, services.ErrMissingField)

	var se *services.Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "Missing username or password", se.Message)
}

func TestCurrentUser(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	_, err := e.auth.CurrentUser(ctx, services.Identity{})
	assert.ErrorIs(t, err, services.ErrNotAuthenticated)

	alice := e.signup(t, "alice")
	user, err := e.auth.CurrentUser(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	e.repo.DeleteUser(alice.UserID)
	_, err = e.auth.CurrentUser(ctx, alice)
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestListUsers(t *testing.T) {
	e := newEnv()
	e.signup(t, "carol")
	e.signup(t, "alice")

	users, err := e.auth.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "carol", users[0].Username)
	assert.Equal(t, "alice", users[1].Username)
}

func TestStorageFailureIsHidden(t *testing.T) {
	e := newEnv()
	e.repo.Intercept = func(method string) error {
		if method == "ListUsers" {
			return errors.New("connection reset")
		}
		return nil
	}

	_, err := e.auth.ListUsers(context.Background())
	require.Error(t, err)
	assert.Equal(t, services.KindPersistence, services.KindOf(err))

	var se *services.Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "Failed to list users", se.Message)
}
