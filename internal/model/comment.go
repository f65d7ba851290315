package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment belongs to a post via PostID. Author fields are snapshots.
type Comment struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	PostID       string    `gorm:"type:uuid;index;not null" json:"postId"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	AuthorID     string    `gorm:"type:uuid;index" json:"authorId"`
	AuthorName   string    `gorm:"size:100" json:"authorName"`
	AuthorAvatar string    `gorm:"type:text" json:"authorAvatar"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return
}
