package repository

import (
	"context"

	"recommread/internal/models"
	"recommread/internal/utils"
)

// Repository is the persistence contract for users, stories and bookmarks.
// Lookups by key return ErrNotFound on a miss.
type Repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	CreateStory(ctx context.Context, story *models.Story) error
	GetStory(ctx context.Context, id uint) (*models.StoryView, error)
	// GetStoryForUpdate locks the row until the surrounding transaction ends.
	GetStoryForUpdate(ctx context.Context, id uint) (*models.Story, error)
	UpdateStory(ctx context.Context, id uint, update models.StoryUpdate) error
	DeleteStory(ctx context.Context, id uint) error
	ListStories(ctx context.Context, page utils.Pagination) ([]models.StoryView, int64, error)

	CreateBookmark(ctx context.Context, bookmark *models.Bookmark) error
	GetBookmark(ctx context.Context, userID, storyID uint) (*models.BookmarkView, error)
	DeleteBookmark(ctx context.Context, userID, storyID uint) error
	ListBookmarks(ctx context.Context, userID uint, page utils.Pagination) ([]models.BookmarkedStory, int64, error)

	// Transaction runs fn against a transactional Repository. It commits when
	// fn returns nil and rolls back on an error or panic.
	Transaction(ctx context.Context, fn func(tx Repository) error) error
}
