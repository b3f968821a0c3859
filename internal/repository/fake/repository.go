// Package fake provides an in-memory repository.Repository for tests. It
// enforces the same unique keys, foreign keys and cascades as the SQL schema.
package fake

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"recommread/internal/models"
	"recommread/internal/repository"
	"recommread/internal/utils"
)

type state struct {
	users     map[uint]models.User
	stories   map[uint]models.Story
	bookmarks map[uint]models.Bookmark
	nextID    uint
	tick      int
}

func (s state) clone() state {
	c := state{
		users:     make(map[uint]models.User, len(s.users)),
		stories:   make(map[uint]models.Story, len(s.stories)),
		bookmarks: make(map[uint]models.Bookmark, len(s.bookmarks)),
		nextID:    s.nextID,
		tick:      s.tick,
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.stories {
		c.stories[k] = v
	}
	for k, v := range s.bookmarks {
		c.bookmarks[k] = v
	}
	return c
}

// Repository is safe for concurrent use. Transactions are serialized.
type Repository struct {
	mu   sync.Mutex
	txMu sync.Mutex
	st   state
	base time.Time

	// Intercept, when set, runs before every method with the method name.
	// A non-nil return is handed back to the caller instead of running it.
	Intercept func(method string) error
}

var _ repository.Repository = (*Repository)(nil)

func New() *Repository {
	return &Repository{
		st: state{
			users:     map[uint]models.User{},
			stories:   map[uint]models.Story{},
			bookmarks: map[uint]models.Bookmark{},
		},
		base: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *Repository) intercept(method string) error {
	if f.Intercept == nil {
		return nil
	}
	return f.Intercept(method)
}

// now returns a strictly increasing timestamp so ordering is deterministic.
func (f *Repository) now() time.Time {
	f.st.tick++
	return f.base.Add(time.Duration(f.st.tick) * time.Second)
}

func (f *Repository) id() uint {
	f.st.nextID++
	return f.st.nextID
}

func (f *Repository) Transaction(ctx context.Context, fn func(tx repository.Repository) error) (err error) {
	f.txMu.Lock()
	defer f.txMu.Unlock()

	f.mu.Lock()
	snapshot := f.st.clone()
	f.mu.Unlock()

	rollback := func() {
		f.mu.Lock()
		f.st = snapshot
		f.mu.Unlock()
	}

	defer func() {
		if p := recover(); p != nil {
			rollback()
			panic(p)
		}
	}()

	if err = fn(f); err != nil {
		rollback()
	}
	return err
}

// Counts returns the number of users, stories and bookmarks.
func (f *Repository) Counts() (users, stories, bookmarks int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.st.users), len(f.st.stories), len(f.st.bookmarks)
}

// StoredUser returns the raw row, password hash included.
func (f *Repository) StoredUser(id uint) (models.User, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.st.users[id]
	return u, ok
}

// DeleteUser removes a user and cascades to their stories and bookmarks.
func (f *Repository) DeleteUser(id uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.st.users, id)
	for sid, s := range f.st.stories {
		if s.AuthorID == id {
			f.deleteStoryLocked(sid)
		}
	}
	for bid, b := range f.st.bookmarks {
		if b.UserID == id {
			delete(f.st.bookmarks, bid)
		}
	}
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func (f *Repository) CreateUser(ctx context.Context, user *models.User) error {
	if err := f.intercept("CreateUser"); err != nil {
		return err
	}
	if blank(user.Username) || blank(user.Email) || blank(user.Password) {
		return fmt.Errorf("%w: user requires username, email, password", repository.ErrInvalidEntity)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.st.users {
		if u.Username == user.Username {
			return &repository.DuplicateError{Constraint: repository.UsersUsernameKey}
		}
		if u.Email == user.Email {
			return &repository.DuplicateError{Constraint: repository.UsersEmailKey}
		}
	}
	user.ID = f.id()
	user.CreatedAt = f.now()
	f.st.users[user.ID] = *user
	return nil
}

func (f *Repository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	if err := f.intercept("GetUserByID"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.st.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (f *Repository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if err := f.intercept("GetUserByUsername"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.st.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *Repository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	if err := f.intercept("UsernameTaken"); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.st.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *Repository) EmailTaken(ctx context.Context, email string) (bool, error) {
	if err := f.intercept("EmailTaken"); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.st.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	if err := f.intercept("ListUsers"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]models.User, 0, len(f.st.users))
	for _, u := range f.st.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (f *Repository) CreateStory(ctx context.Context, story *models.Story) error {
	if err := f.intercept("CreateStory"); err != nil {
		return err
	}
	if blank(story.Title) || blank(story.Content) || story.AuthorID == 0 {
		return fmt.Errorf("%w: story requires title, content, author_id", repository.ErrInvalidEntity)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.st.users[story.AuthorID]; !ok {
		return fmt.Errorf("%w (%s)", repository.ErrInvalidReference, repository.StoriesAuthorFKey)
	}
	story.ID = f.id()
	story.CreatedAt = f.now()
	f.st.stories[story.ID] = *story
	return nil
}

func (f *Repository) storyViewLocked(s models.Story) models.StoryView {
	return models.StoryView{
		ID:             s.ID,
		Title:          s.Title,
		Content:        s.Content,
		AuthorID:       s.AuthorID,
		AuthorUsername: f.st.users[s.AuthorID].Username,
		CreatedAt:      s.CreatedAt,
	}
}

func (f *Repository) GetStory(ctx context.Context, id uint) (*models.StoryView, error) {
	if err := f.intercept("GetStory"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.st.stories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	v := f.storyViewLocked(s)
	return &v, nil
}

func (f *Repository) GetStoryForUpdate(ctx context.Context, id uint) (*models.Story, error) {
	if err := f.intercept("GetStoryForUpdate"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.st.stories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (f *Repository) UpdateStory(ctx context.Context, id uint, update models.StoryUpdate) error {
	if err := f.intercept("UpdateStory"); err != nil {
		return err
	}
	if update.Empty() {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.st.stories[id]
	if !ok {
		return repository.ErrNotFound
	}
	if update.Title != "" {
		s.Title = update.Title
	}
	if update.Content != "" {
		s.Content = update.Content
	}
	f.st.stories[id] = s
	return nil
}

func (f *Repository) deleteStoryLocked(id uint) {
	delete(f.st.stories, id)
	for bid, b := range f.st.bookmarks {
		if b.StoryID == id {
			delete(f.st.bookmarks, bid)
		}
	}
}

func (f *Repository) DeleteStory(ctx context.Context, id uint) error {
	if err := f.intercept("DeleteStory"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.st.stories[id]; !ok {
		return repository.ErrNotFound
	}
	f.deleteStoryLocked(id)
	return nil
}

func (f *Repository) ListStories(ctx context.Context, page utils.Pagination) ([]models.StoryView, int64, error) {
	if err := f.intercept("ListStories"); err != nil {
		return nil, 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]models.StoryView, 0, len(f.st.stories))
	for _, s := range f.st.stories {
		all = append(all, f.storyViewLocked(s))
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	return window(all, page), int64(len(all)), nil
}

func (f *Repository) CreateBookmark(ctx context.Context, bookmark *models.Bookmark) error {
	if err := f.intercept("CreateBookmark"); err != nil {
		return err
	}
	if bookmark.UserID == 0 || bookmark.StoryID == 0 {
		return fmt.Errorf("%w: bookmark requires user_id and story_id", repository.ErrInvalidEntity)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.st.users[bookmark.UserID]; !ok {
		return fmt.Errorf("%w (%s)", repository.ErrInvalidReference, repository.BookmarksUserFKey)
	}
	if _, ok := f.st.stories[bookmark.StoryID]; !ok {
		return fmt.Errorf("%w (%s)", repository.ErrInvalidReference, repository.BookmarksStoryFKey)
	}
	for _, b := range f.st.bookmarks {
		if b.UserID == bookmark.UserID && b.StoryID == bookmark.StoryID {
			return &repository.DuplicateError{Constraint: repository.BookmarksUniqueKey}
		}
	}
	bookmark.ID = f.id()
	bookmark.CreatedAt = f.now()
	f.st.bookmarks[bookmark.ID] = *bookmark
	return nil
}

func (f *Repository) GetBookmark(ctx context.Context, userID, storyID uint) (*models.BookmarkView, error) {
	if err := f.intercept("GetBookmark"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.st.bookmarks {
		if b.UserID == userID && b.StoryID == storyID {
			return &models.BookmarkView{
				ID:         b.ID,
				UserID:     b.UserID,
				StoryID:    b.StoryID,
				StoryTitle: f.st.stories[b.StoryID].Title,
				CreatedAt:  b.CreatedAt,
			}, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *Repository) DeleteBookmark(ctx context.Context, userID, storyID uint) error {
	if err := f.intercept("DeleteBookmark"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, b := range f.st.bookmarks {
		if b.UserID == userID && b.StoryID == storyID {
			delete(f.st.bookmarks, id)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *Repository) ListBookmarks(ctx context.Context, userID uint, page utils.Pagination) ([]models.BookmarkedStory, int64, error) {
	if err := f.intercept("ListBookmarks"); err != nil {
		return nil, 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []models.BookmarkedStory
	for _, b := range f.st.bookmarks {
		if b.UserID != userID {
			continue
		}
		s := f.storyViewLocked(f.st.stories[b.StoryID])
		all = append(all, models.BookmarkedStory{
			ID:             s.ID,
			Title:          s.Title,
			Content:        s.Content,
			AuthorID:       s.AuthorID,
			AuthorUsername: s.AuthorUsername,
			CreatedAt:      s.CreatedAt,
			BookmarkID:     b.ID,
			BookmarkedAt:   b.CreatedAt,
		})
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].BookmarkedAt.Equal(all[j].BookmarkedAt) {
			return all[i].BookmarkedAt.After(all[j].BookmarkedAt)
		}
		return all[i].BookmarkID > all[j].BookmarkID
	})
	return window(all, page), int64(len(all)), nil
}

func window[T any](all []T, page utils.Pagination) []T {
	start := page.Offset()
	if start >= len(all) {
		return []T{}
	}
	end := start + page.PerPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}
