// Package repository defines the storage contract shared by both physical
// backends: the hosted Postgres/Redis implementation (gormrepo) and the
// file-backed local fallback (localrepo). The backend is picked once at
// startup and never changes at runtime.
//
// Absence is not an error: GetByID returns (nil, nil) for a missing record
// and callers handle it as a normal branch.
package repository

import (
	"context"

	"kampusconnect.id/forum/internal/model"
)

// Filter is an optional equality filter on a single field. Each repository
// documents the field names it supports.
type Filter struct {
	Field string
	Value string
}

// Unsubscribe tears down a subscription. Implementations make it safe to
// call any number of times.
type Unsubscribe func()

// UserPatch is a partial profile update; nil fields are left untouched.
type UserPatch struct {
	Username   *string
	Fullname   *string
	Major      *string
	University *string
	Year       *string
	Phone      *string
	Bio        *string
	Avatar     *string
}

// PostPatch is a partial post update; nil fields are left untouched.
type PostPatch struct {
	Title   *string
	Content *string
	Topic   *string
	Type    *model.PostType
}

type CommentPatch struct {
	Content *string
}

type UserRepository interface {
	Create(ctx context.Context, user *model.UserProfile) (*model.UserProfile, error)
	GetByID(ctx context.Context, uid string) (*model.UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*model.UserProfile, error)
	List(ctx context.Context, filter *Filter) ([]*model.UserProfile, error)
	Update(ctx context.Context, uid string, patch UserPatch) (*model.UserProfile, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) (*model.Post, error)
	GetByID(ctx context.Context, id string) (*model.Post, error)
	// List supports filter fields "type", "topic" and "authorId"; results are
	// ordered by creation time descending.
	List(ctx context.Context, filter *Filter) ([]*model.Post, error)
	Update(ctx context.Context, id string, patch PostPatch) (*model.Post, error)
	// Delete removes the post and cascade-deletes its comments. The cascade
	// is best-effort sequential under the hosted backend; a crash mid-way
	// can leave orphans.
	Delete(ctx context.Context, id string) error
	// ToggleReaction applies the like/dislike toggle and persists both
	// membership sets and their cardinalities as one update. A user id never
	// ends up in both sets.
	ToggleReaction(ctx context.Context, postID, userID string, reaction model.Reaction) (*model.Post, error)
	IncrementViews(ctx context.Context, id string) error
	AdjustReplies(ctx context.Context, id string, delta int) error
	Subscribe(filter *Filter, fn func(posts []*model.Post)) Unsubscribe
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) (*model.Comment, error)
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]*model.Comment, error)
	Update(ctx context.Context, id string, patch CommentPatch) (*model.Comment, error)
	Delete(ctx context.Context, id string) error
	Subscribe(postID string, fn func(comments []*model.Comment)) Unsubscribe
}

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) (*model.Notification, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error
	CountUnread(ctx context.Context, userID string) (int64, error)
	Subscribe(userID string, fn func(notifications []*model.Notification)) Unsubscribe
}

// SessionStore keeps the currently authenticated identity. Current is the
// only synchronous accessor in the storage contract; everything else takes a
// context. The local fallback persists the session next to its data so it
// survives restarts, the hosted backend keeps it in process memory because
// identity travels in the JWT.
type SessionStore interface {
	Save(user *model.UserProfile) error
	Current() *model.UserProfile
	Clear() error
}

// Backend bundles the typed repositories a physical store provides.
type Backend interface {
	Users() UserRepository
	Posts() PostRepository
	Comments() CommentRepository
	Notifications() NotificationRepository
	Sessions() SessionStore
	Close() error
}
