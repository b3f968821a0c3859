package services

import (
	"context"
	"errors"

	"recommread/internal/models"
	"recommread/internal/repository"
	"recommread/internal/utils"

	"go.uber.org/zap"
)

// StoryService publishes and edits stories. Mutations are gated by CanMutate.
type StoryService struct {
	logs *zap.SugaredLogger
	repo repository.Repository
}

func NewStoryService(logger *zap.SugaredLogger, repo repository.Repository) *StoryService {
	return &StoryService{
		logs: logger,
		repo: repo,
	}
}

// List returns one page of stories, newest first.
func (s *StoryService) List(ctx context.Context, page utils.Pagination) (utils.Page[models.StoryView], error) {
	page = page.Normalize()
	stories, total, err := s.repo.ListStories(ctx, page)
	if err != nil {
		return utils.Page[models.StoryView]{}, persistence(s.logs, "retrieve stories", err)
	}
	return utils.NewPage(stories, total, page), nil
}

func (s *StoryService) Get(ctx context.Context, id uint) (*models.StoryView, error) {
	story, err := s.repo.GetStory(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStoryNotFound
		}
		return nil, persistence(s.logs, "retrieve story", err)
	}
	return story, nil
}

// Create publishes a story owned by identity.
func (s *StoryService) Create(ctx context.Context, identity Identity, in StoryInput) (*models.StoryView, error) {
	if !identity.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	if err := in.Validate(); err != nil {
		return nil, invalid("Title and content are required", err)
	}

	var view *models.StoryView
	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		if _, err := tx.GetUserByID(ctx, identity.UserID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotAuthenticated
			}
			return err
		}

		story := &models.Story{
			Title:    in.Title,
			Content:  in.Content,
			AuthorID: identity.UserID,
		}
		if err := tx.CreateStory(ctx, story); err != nil {
			return err
		}

		var err error
		view, err = tx.GetStory(ctx, story.ID)
		return err
	})
	if err != nil {
		return nil, s.mutationError("create story", err)
	}

	s.logs.Infow("story created", "story_id", view.ID, "author_id", view.AuthorID)
	return view, nil
}

// Update applies the non-empty fields of patch. Only the author may update.
func (s *StoryService) Update(ctx context.Context, identity Identity, id uint, patch StoryPatch) (*models.StoryView, error) {
	if !identity.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	if err := patch.Validate(); err != nil {
		return nil, invalid("", err)
	}

	var view *models.StoryView
	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		story, err := tx.GetStoryForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !CanMutate(identity.UserID, story) {
			return ErrForbidden.With("Not authorized to update this story", nil)
		}

		update := models.StoryUpdate{Title: patch.Title, Content: patch.Content}
		if err := tx.UpdateStory(ctx, id, update); err != nil {
			return err
		}

		view, err = tx.GetStory(ctx, id)
		return err
	})
	if err != nil {
		return nil, s.mutationError("update story", err)
	}

	s.logs.Infow("story updated", "story_id", id, "user_id", identity.UserID)
	return view, nil
}

// Delete removes a story and, through the cascade, its bookmarks.
func (s *StoryService) Delete(ctx context.Context, identity Identity, id uint) error {
	if !identity.Authenticated() {
		return ErrNotAuthenticated
	}

	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		story, err := tx.GetStoryForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !CanMutate(identity.UserID, story) {
			return ErrForbidden.With("Not authorized to delete this story", nil)
		}
		return tx.DeleteStory(ctx, id)
	})
	if err != nil {
		return s.mutationError("delete story", err)
	}

	s.logs.Infow("story deleted", "story_id", id, "user_id", identity.UserID)
	return nil
}

func (s *StoryService) mutationError(op string, err error) error {
	var typed *Error
	switch {
	case errors.As(err, &typed):
		return typed
	case errors.Is(err, repository.ErrNotFound):
		return ErrStoryNotFound
	case errors.Is(err, repository.ErrInvalidEntity):
		return ErrMissingField.With("Title and content are required", err)
	case errors.Is(err, repository.ErrInvalidReference):
		// the author row vanished between the session check and the insert
		return ErrNotAuthenticated
	}
	return persistence(s.logs, op, err)
}
