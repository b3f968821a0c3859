package repository

import (
	"context"
	"fmt"

	"recommread/internal/models"
	"recommread/internal/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const storyViewColumns = "stories.id, stories.title, stories.content, stories.author_id, " +
	"users.username AS author_username, stories.created_at"

func (r *GormRepository) storyViews(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("stories").
		Select(storyViewColumns).
		Joins("JOIN users ON users.id = stories.author_id")
}

func (r *GormRepository) CreateStory(ctx context.Context, story *models.Story) error {
	if err := requireFields("story",
		"title", story.Title,
		"content", story.Content,
	); err != nil {
		return err
	}
	if story.AuthorID == 0 {
		return fmt.Errorf("%w: story requires author_id", ErrInvalidEntity)
	}

	if err := r.db.WithContext(ctx).Create(story).Error; err != nil {
		return fmt.Errorf("create story: %w", mapError(err))
	}
	return nil
}

func (r *GormRepository) GetStory(ctx context.Context, id uint) (*models.StoryView, error) {
	var view models.StoryView
	if err := r.storyViews(ctx).Where("stories.id = ?", id).Take(&view).Error; err != nil {
		return nil, mapError(err)
	}
	return &view, nil
}

func (r *GormRepository) GetStoryForUpdate(ctx context.Context, id uint) (*models.Story, error) {
	var story models.Story
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&story, id).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &story, nil
}

// UpdateStory writes only the non-empty fields of update.
func (r *GormRepository) UpdateStory(ctx context.Context, id uint, update models.StoryUpdate) error {
	changes := map[string]any{}
	if update.Title != "" {
		changes["title"] = update.Title
	}
	if update.Content != "" {
		changes["content"] = update.Content
	}
	if len(changes) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).Model(&models.Story{}).Where("id = ?", id).Updates(changes)
	if res.Error != nil {
		return fmt.Errorf("update story %d: %w", id, mapError(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteStory removes the story. Its bookmarks are removed by the
// ON DELETE CASCADE foreign key.
func (r *GormRepository) DeleteStory(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Story{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete story %d: %w", id, mapError(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) ListStories(ctx context.Context, page utils.Pagination) ([]models.StoryView, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Story{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count stories: %w", err)
	}

	stories := make([]models.StoryView, 0, page.PerPage)
	err := r.storyViews(ctx).
		Order("stories.created_at DESC, stories.id DESC").
		Scopes(Paginate(page)).
		Scan(&stories).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list stories: %w", err)
	}
	return stories, total, nil
}
