package models

import (
	"time"
)

// Story 用户发布的短文。外键与级联删除由迁移定义
type Story struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:100;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	CreatedAt time.Time `gorm:"index;<-:create" json:"created_at"`
}

// StoryView is the read model returned to clients. AuthorUsername is filled
// by a join at query time.
type StoryView struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	AuthorID       uint      `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	CreatedAt      time.Time `json:"created_at"`
}

// StoryUpdate carries a partial update; empty fields are left unchanged.
type StoryUpdate struct {
	Title   string
	Content string
}

func (u StoryUpdate) Empty() bool {
	return u.Title == "" && u.Content == ""
}
