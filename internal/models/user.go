package models

import (
	"time"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:64;uniqueIndex:users_username_key;not null" json:"username"`
	Email     string    `gorm:"size:120;uniqueIndex:users_email_key;not null" json:"email"`
	Password  string    `gorm:"size:256;not null" json:"-"` // bcrypt hash
	CreatedAt time.Time `json:"-"`
	// Stories and bookmarks go away with the user (ON DELETE CASCADE)
}
