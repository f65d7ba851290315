package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserProfile is the forum account record. PasswordHash is only set when the
// local credential store is in use and is never serialized.
type UserProfile struct {
	UID          string    `gorm:"type:uuid;primaryKey" json:"uid"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"size:50;not null" json:"username"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	Fullname     string    `gorm:"size:100" json:"fullname"`
	Major        string    `gorm:"size:100" json:"major"`
	University   string    `gorm:"size:100" json:"university"`
	Year         string    `gorm:"size:20" json:"year"`
	Phone        string    `gorm:"size:30" json:"phone"`
	Bio          string    `gorm:"type:text" json:"bio"`
	Avatar       string    `gorm:"type:text" json:"avatar"`
	Followers    int       `gorm:"default:0" json:"followers"`
	Following    int       `gorm:"default:0" json:"following"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (u *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if u.UID == "" {
		u.UID = uuid.NewString()
	}
	return nil
}

// DefaultAvatarURL returns the generated avatar used when a user registers
// without uploading one.
func DefaultAvatarURL(seed string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + seed
}
