package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"recommread/internal/models"
	"recommread/internal/services"
	"recommread/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *env) story(t *testing.T, who services.Identity, title string) *models.StoryView {
	t.Helper()
	s, err := e.stories.Create(context.Background(), who, services.StoryInput{Title: title, Content: "content of " + title})
	require.NoError(t, err)
	return s
}

func TestCreateStory(t *testing.T) {
	e := newEnv()
	alice := e.signup(t, "alice")

	s := e.story(t, alice, "Dune")
	assert.NotZero(t, s.ID)
	assert.Equal(t, "Dune", s.Title)
	assert.Equal(t, alice.UserID, s.AuthorID)
	assert.Equal(t, "alice", s.AuthorUsername)
	assert.False(t, s.CreatedAt.IsZero())

	got, err := e.stories.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestCreateStoryRejects(t *testing.T) {
	e := newEnv()
	alice := e.signup(t, "alice")
	ctx := context.Background()

	_, err := e.stories.Create(ctx, services.Identity{}, services.StoryInput{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, services.ErrNotAuthenticated)

	_, err = e.stories.Create(ctx, alice, services.StoryInput{Title: "", Content: "c"})
	require.ErrorIs(t, err, services.ErrMissingField)
	var se *services.Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "Title and content are required", se.Message)

	_, err = e.stories.Create(ctx, alice, services.StoryInput{Title: "t", Content: "  \n "})
	assert.ErrorIs(t, err, services.ErrMissingField)

	_, err = e.stories.Create(ctx, alice, services.StoryInput{Title: strings.Repeat("x", 101), Content: "c"})
	assert.ErrorIs(t, err, services.ErrInvalidField)

	_, stories, _ := e.repo.Counts()
	assert.Zero(t, stories)
}

func TestCreateStoryDanglingIdentity(t *testing.T) {
	e := newEnv()
	alice := e.signup(t, "alice")
	e.repo.DeleteUser(alice.UserID)

	_, err := e.stories.Create(context.Background(), alice, services.StoryInput{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, services.ErrNotAuthenticated)
}

func TestCreateStoryRollsBack(t *testing.T) {
	e := newEnv()
	alice := e.signup(t, "alice")
	e.repo.Intercept = func(method string) error {
		if method == "GetStory" {
			return errors.New("read failed")
		}
		return nil
	}

	_, err := e.stories.Create(context.Background(), alice, services.StoryInput{Title: "t", Content: "c"})
	assert.Equal(t, services.KindPersistence, services.KindOf(err))

	_, stories, _ := e.repo.Counts()
	assert.Zero(t, stories, "insert must be rolled back")
}

func TestGetStoryNotFound(t *testing.T) {
	e := newEnv()
	_, err := e.stories.Get(context.Background(), 42)
	assert.ErrorIs(t, err, services.ErrStoryNotFound)
}

func TestUpdateStory(t *testing.T) {
	e := newEnv()
	alice := e.signup(t, "alice")
	bob := e.signup(t, "bob")
	s := e.story(t, alice, "Draft")
	ctx := context.Background()

	updated, err := e.stories.Update(ctx, alice, s.ID, services.StoryPatch{Title: "Final"})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, s.Content, updated.Content, "omitted field keeps its value")
	assert.Equal(t, s.CreatedAt, updated.CreatedAt)

	rewritten, err := e.stories.Update(ctx, alice, s.ID, services.StoryPatch{Content: "New body"})
	require.NoError(t, err)
	assert.Equal(t, "Final", rewritten.Title, "omitted title keeps its value")
	assert.Equal(t, "New body", rewritten.Content)
	updated = rewritten

	same, err := e.stories.Update(ctx, alice, s.ID, services.StoryPatch{})
	require.NoError(t, err)
	assert.Equal(t, updated, same)

	_, err = e.stories.Update(ctx, bob, s.ID, services.StoryPatch{Title: "Hijacked"})
	require.ErrorIs(t, err, services.ErrForbidden)
	var se *services.Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "Not authorized to update this story", se.Message)

	got, err := e.stories.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", got.Title)

	_, err = e.stories.Update(ctx, alice, 999, services.StoryPatch{Title: "x"})
	assert.ErrorIs(t, err, services.ErrStoryNotFound)

	_, err = e.stories.Update(ctx, services.Identity{}, s.ID, services.StoryPatch{Title: "x"})
	assert.ErrorIs(t, err, services.ErrNotAuthenticated)
}

func TestDeleteStory(t *testing.T) {
	e := newEnv()
	alice := e.signup(t, "alice")
	bob := e.signup(t, "bob")
	s := e.story(t, alice, "Gone soon")
	ctx := context.Background()

	_, _, err := e.bookmarks.Add(ctx, bob, s.ID)
	require.NoError(t, err)

	err = e.stories.Delete(ctx, bob, s.ID)
	require.ErrorIs(t, err, services.ErrForbidden)
	var se *services.Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "Not authorized to delete this story", se.Message)

	require.NoError(t, e.stories.Delete(ctx, alice, s.ID))

	_, stories, bookmarks := e.repo.Counts()
	assert.Zero(t, stories)
	assert.Zero(t, bookmarks, "bookmarks go with the story")

	_, err = e.stories.Get(ctx, s.ID)
	assert.ErrorIs(t, err, services.ErrStoryNotFound)

	err = e.stories.Delete(ctx, alice, s.ID)
	assert.ErrorIs(t, err, services.ErrStoryNotFound)
}

func TestListStories(t *testing.T) {
	e := newEnv()
	alice := e.signup(t, "alice")
	first := e.story(t, alice, "one")
	second := e.story(t, alice, "two")
	third := e.story(t, alice, "three")
	ctx := context.Background()

	page, err := e.stories.List(ctx, utils.Pagination{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 2, page.Pages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, third.ID, page.Items[0].ID)
	assert.Equal(t, second.ID, page.Items[1].ID)

	page, err = e.stories.List(ctx, utils.Pagination{Page: 2, PerPage: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, first.ID, page.Items[0].ID)

	page, err = e.stories.List(ctx, utils.Pagination{Page: 9, PerPage: 2})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 9, page.Pagination.Page)

	page, err = e.stories.List(ctx, utils.Pagination{Page: 0, PerPage: 1000})
	require.NoError(t, err)
	assert.Equal(t, utils.Pagination{Page: 1, PerPage: utils.MaxPerPage}, page.Pagination)
	assert.Equal(t, 1, page.Pages)
}

func TestListStoriesEmpty(t *testing.T) {
	e := newEnv()
	page, err := e.stories.List(context.Background(), utils.Pagination{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Zero(t, page.Pages)
	assert.NotNil(t, page.Items)
}

func TestCanMutate(t *testing.T) {
	story := &models.Story{ID: 1, AuthorID: 7}
	assert.True(t, services.CanMutate(7, story))
	assert.False(t, services.CanMutate(8, story))
	assert.False(t, services.CanMutate(0, &models.Story{}))
	assert.False(t, services.CanMutate(7, nil))
}
