package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationComment = "comment"
	NotificationReply   = "reply"
	NotificationUpvote  = "upvote"
)

// Notification is addressed to UserID and records who acted (ActorID) on
// which post. IsRead only ever transitions from false to true; notifications
// are never deleted.
type Notification struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string    `gorm:"type:uuid;index;not null" json:"userId"`
	Type        string    `gorm:"size:20;not null" json:"type"`
	PostID      string    `gorm:"type:uuid;not null" json:"postId"`
	PostTitle   string    `gorm:"size:255" json:"postTitle"`
	ActorID     string    `gorm:"type:uuid" json:"actorId"`
	ActorName   string    `gorm:"size:100" json:"actorName"`
	ActorAvatar string    `gorm:"type:text" json:"actorAvatar"`
	Content     string    `gorm:"type:text" json:"content,omitempty"`
	IsRead      bool      `gorm:"default:false;index" json:"isRead"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return
}
