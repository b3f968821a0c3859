package models

import (
	"time"
)

// Bookmark 收藏模型 - 用户收藏文章
type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:bookmarks_user_id_story_id_key" json:"user_id"`
	StoryID   uint      `gorm:"not null;index;uniqueIndex:bookmarks_user_id_story_id_key" json:"story_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BookmarkView 收藏详情，带文章标题
type BookmarkView struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"user_id"`
	StoryID    uint      `json:"story_id"`
	StoryTitle string    `json:"story_title"`
	CreatedAt  time.Time `json:"created_at"`
}

// BookmarkedStory is one row of a user's bookmark list: the story read model
// annotated with the bookmark that saved it.
type BookmarkedStory struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	AuthorID       uint      `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	CreatedAt      time.Time `json:"created_at"`
	BookmarkID     uint      `json:"bookmark_id"`
	BookmarkedAt   time.Time `json:"bookmarked_at"`
}
