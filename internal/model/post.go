package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostType string

const (
	PostTypeAsk        PostType = "ask"
	PostTypeDiscussion PostType = "discussion"
	PostTypeProject    PostType = "project"
)

func (t PostType) Valid() bool {
	switch t {
	case PostTypeAsk, PostTypeDiscussion, PostTypeProject:
		return true
	}
	return false
}

// Reaction is the vote a user casts on a post.
type Reaction string

const (
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

// UserIDSet is a reaction membership set, stored as a JSON array column
// under the hosted backend.
type UserIDSet []string

func (s UserIDSet) Contains(uid string) bool {
	for _, id := range s {
		if id == uid {
			return true
		}
	}
	return false
}

// Remove returns the set without uid.
func (s UserIDSet) Remove(uid string) UserIDSet {
	out := make(UserIDSet, 0, len(s))
	for _, id := range s {
		if id != uid {
			out = append(out, id)
		}
	}
	return out
}

// Post is a forum entry. AuthorName is a snapshot taken at write time and is
// not kept in sync with later profile edits. Likes and Dislikes are always
// the cardinalities of their membership sets; a user id appears in at most
// one of the two sets.
type Post struct {
	ID              string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	Content         string    `gorm:"type:text" json:"content"`
	Topic           string    `gorm:"size:100;index" json:"topic"`
	Type            PostType  `gorm:"size:20;index" json:"type"`
	AuthorID        string    `gorm:"type:uuid;index" json:"authorId"`
	AuthorName      string    `gorm:"size:100" json:"authorName"`
	Likes           int       `gorm:"default:0" json:"likes"`
	Dislikes        int       `gorm:"default:0" json:"dislikes"`
	Replies         int       `gorm:"default:0" json:"replies"`
	Views           int       `gorm:"default:0" json:"views"`
	LikesUserIDs    UserIDSet `gorm:"serializer:json" json:"likesUserIds"`
	DislikesUserIDs UserIDSet `gorm:"serializer:json" json:"dislikesUserIds"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return
}

// ApplyReaction applies the like/dislike toggle in place: requesting the
// reaction the user already holds removes it (toggle-off), otherwise the
// user joins the requested set and leaves the opposite one. Likes and
// Dislikes are recomputed from the set cardinalities.
func (p *Post) ApplyReaction(userID string, reaction Reaction) {
	likes, dislikes := p.LikesUserIDs, p.DislikesUserIDs

	switch reaction {
	case ReactionLike:
		if likes.Contains(userID) {
			likes = likes.Remove(userID)
		} else {
			likes = append(likes, userID)
			dislikes = dislikes.Remove(userID)
		}
	case ReactionDislike:
		if dislikes.Contains(userID) {
			dislikes = dislikes.Remove(userID)
		} else {
			dislikes = append(dislikes, userID)
			likes = likes.Remove(userID)
		}
	}

	p.LikesUserIDs = likes
	p.DislikesUserIDs = dislikes
	p.Likes = len(likes)
	p.Dislikes = len(dislikes)
}
