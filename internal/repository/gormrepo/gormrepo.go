// Package gormrepo is the hosted backend: records live in Postgres via GORM,
// and every write publishes a change event to Redis so subscriptions can
// re-deliver the current matching set. Redis is optional; without it the
// backend still works but subscriptions degrade to a single snapshot.
package gormrepo

import (
	"sync"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"kampusconnect.id/forum/internal/model"
	"kampusconnect.id/forum/internal/repository"
)

type Backend struct {
	db    *gorm.DB
	redis *redis.Client

	sessionMu sync.Mutex
	session   *model.UserProfile
}

var _ repository.Backend = (*Backend)(nil)

// New migrates the four collections and returns the backend. redisClient may
// be nil.
func New(db *gorm.DB, redisClient *redis.Client) (*Backend, error) {
	if err := db.AutoMigrate(
		&model.UserProfile{},
		&model.Post{},
		&model.Comment{},
		&model.Notification{},
	); err != nil {
		return nil, err
	}

	return &Backend{db: db, redis: redisClient}, nil
}

func (b *Backend) Users() repository.UserRepository                 { return &userRepo{b: b} }
func (b *Backend) Posts() repository.PostRepository                 { return &postRepo{b: b} }
func (b *Backend) Comments() repository.CommentRepository           { return &commentRepo{b: b} }
func (b *Backend) Notifications() repository.NotificationRepository { return &notificationRepo{b: b} }
func (b *Backend) Sessions() repository.SessionStore                { return &sessionStore{b: b} }

func (b *Backend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
