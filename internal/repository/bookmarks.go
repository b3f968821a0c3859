package repository

import (
	"context"
	"fmt"

	"recommread/internal/models"
	"recommread/internal/utils"
)

const bookmarkedStoryColumns = "stories.id, stories.title, stories.content, stories.author_id, " +
	"users.username AS author_username, stories.created_at, " +
	"bookmarks.id AS bookmark_id, bookmarks.created_at AS bookmarked_at"

func (r *GormRepository) CreateBookmark(ctx context.Context, bookmark *models.Bookmark) error {
	if bookmark.UserID == 0 || bookmark.StoryID == 0 {
		return fmt.Errorf("%w: bookmark requires user_id and story_id", ErrInvalidEntity)
	}

	if err := r.db.WithContext(ctx).Create(bookmark).Error; err != nil {
		return fmt.Errorf("create bookmark: %w", mapError(err))
	}
	return nil
}

func (r *GormRepository) GetBookmark(ctx context.Context, userID, storyID uint) (*models.BookmarkView, error) {
	var view models.BookmarkView
	err := r.db.WithContext(ctx).
		Table("bookmarks").
		Select("bookmarks.id, bookmarks.user_id, bookmarks.story_id, stories.title AS story_title, bookmarks.created_at").
		Joins("JOIN stories ON stories.id = bookmarks.story_id").
		Where("bookmarks.user_id = ? AND bookmarks.story_id = ?", userID, storyID).
		Take(&view).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &view, nil
}

func (r *GormRepository) DeleteBookmark(ctx context.Context, userID, storyID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND story_id = ?", userID, storyID).
		Delete(&models.Bookmark{})
	if res.Error != nil {
		return fmt.Errorf("delete bookmark: %w", mapError(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) ListBookmarks(ctx context.Context, userID uint, page utils.Pagination) ([]models.BookmarkedStory, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Bookmark{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("count bookmarks: %w", err)
	}

	items := make([]models.BookmarkedStory, 0, page.PerPage)
	err = r.db.WithContext(ctx).
		Table("bookmarks").
		Select(bookmarkedStoryColumns).
		Joins("JOIN stories ON stories.id = bookmarks.story_id").
		Joins("JOIN users ON users.id = stories.author_id").
		Where("bookmarks.user_id = ?", userID).
		Order("bookmarks.created_at DESC, bookmarks.id DESC").
		Scopes(Paginate(page)).
		Scan(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list bookmarks: %w", err)
	}
	return items, total, nil
}
