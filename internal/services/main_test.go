package services_test

import (
	"os"
	"testing"

	"recommread/internal/repository/fake"
	"recommread/internal/services"
	"recommread/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	utils.PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type env struct {
	repo      *fake.Repository
	auth      *services.AuthService
	stories   *services.StoryService
	bookmarks *services.BookmarkService
}

func newEnv() *env {
	logs := zap.NewNop().Sugar()
	repo := fake.New()
	return &env{
		repo:      repo,
		auth:      services.NewAuthService(logs, repo),
		stories:   services.NewStoryService(logs, repo),
		bookmarks: services.NewBookmarkService(logs, repo),
	}
}
