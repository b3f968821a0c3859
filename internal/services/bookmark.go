package services

import (
	"context"
	"errors"

	"recommread/internal/models"
	"recommread/internal/repository"
	"recommread/internal/utils"

	"go.uber.org/zap"
)

type BookmarkService struct {
	logs *zap.SugaredLogger
	repo repository.Repository
}

func NewBookmarkService(logger *zap.SugaredLogger, repo repository.Repository) *BookmarkService {
	return &BookmarkService{
		logs: logger,
		repo: repo,
	}
}

// Add bookmarks a story for identity. It is idempotent: when the bookmark
// already exists, including when a concurrent request inserted it first, the
// existing one is returned with created == false.
func (s *BookmarkService) Add(ctx context.Context, identity Identity, storyID uint) (bookmark *models.BookmarkView, created bool, err error) {
	if !identity.Authenticated() {
		return nil, false, ErrNotAuthenticated
	}

	err = s.repo.Transaction(ctx, func(tx repository.Repository) error {
		if _, err := tx.GetStory(ctx, storyID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrStoryNotFound
			}
			return err
		}

		existing, err := tx.GetBookmark(ctx, identity.UserID, storyID)
		if err == nil {
			bookmark = existing
			return nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		row := &models.Bookmark{UserID: identity.UserID, StoryID: storyID}
		if err := tx.CreateBookmark(ctx, row); err != nil {
			return err
		}
		bookmark, err = tx.GetBookmark(ctx, identity.UserID, storyID)
		if err != nil {
			return err
		}
		created = true
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, repository.ErrDuplicate):
		// lost the race on the unique key; the winner's row is ours too
		existing, getErr := s.repo.GetBookmark(ctx, identity.UserID, storyID)
		if getErr != nil {
			return nil, false, persistence(s.logs, "bookmark story", getErr)
		}
		s.logs.Infow("bookmark insert raced, returning existing", "user_id", identity.UserID, "story_id", storyID)
		return existing, false, nil
	case errors.Is(err, repository.ErrInvalidReference):
		if _, getErr := s.repo.GetStory(ctx, storyID); errors.Is(getErr, repository.ErrNotFound) {
			return nil, false, ErrStoryNotFound
		}
		return nil, false, ErrNotAuthenticated
	default:
		var typed *Error
		if errors.As(err, &typed) {
			return nil, false, typed
		}
		return nil, false, persistence(s.logs, "bookmark story", err)
	}

	if created {
		s.logs.Infow("story bookmarked", "user_id", identity.UserID, "story_id", storyID, "bookmark_id", bookmark.ID)
	}
	return bookmark, created, nil
}

// Remove deletes identity's bookmark on storyID.
func (s *BookmarkService) Remove(ctx context.Context, identity Identity, storyID uint) error {
	if !identity.Authenticated() {
		return ErrNotAuthenticated
	}

	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		return tx.DeleteBookmark(ctx, identity.UserID, storyID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBookmarkNotFound
		}
		return persistence(s.logs, "remove bookmark", err)
	}

	s.logs.Infow("bookmark removed", "user_id", identity.UserID, "story_id", storyID)
	return nil
}

// List returns identity's bookmarked stories, most recently bookmarked first.
func (s *BookmarkService) List(ctx context.Context, identity Identity, page utils.Pagination) (utils.Page[models.BookmarkedStory], error) {
	if !identity.Authenticated() {
		return utils.Page[models.BookmarkedStory]{}, ErrNotAuthenticated
	}

	page = page.Normalize()
	items, total, err := s.repo.ListBookmarks(ctx, identity.UserID, page)
	if err != nil {
		return utils.Page[models.BookmarkedStory]{}, persistence(s.logs, "retrieve bookmarks", err)
	}
	return utils.NewPage(items, total, page), nil
}
