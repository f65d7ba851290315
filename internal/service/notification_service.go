package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	"kampusconnect.id/forum/internal/model"
	"kampusconnect.id/forum/internal/repository"
)

type NotificationService interface {
	Create(ctx context.Context, notification *model.Notification) error
	ListForUser(ctx context.Context, userID string) ([]*model.Notification, error)
	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context, userID string) error
	UnreadCount(ctx context.Context, userID string) (int64, error)
	Subscribe(userID string, fn func(notifications []*model.Notification)) repository.Unsubscribe
}

type notificationService struct {
	repo        repository.NotificationRepository
	redisClient *redis.Client
}

func NewNotificationService(repo repository.NotificationRepository, redisClient *redis.Client) NotificationService {
	return &notificationService{
		repo:        repo,
		redisClient: redisClient,
	}
}

func (s *notificationService) Create(ctx context.Context, notification *model.Notification) error {
	created, err := s.repo.Create(ctx, notification)
	if err != nil {
		return err
	}

	// Push the fresh notification to any live websocket session.
	if s.redisClient != nil {
		channel := fmt.Sprintf("user_notifications:%s", created.UserID)

		payload, err := json.Marshal(created)
		if err == nil {
			if err := s.redisClient.Publish(ctx, channel, payload).Err(); err != nil {
				log.Printf("Failed to publish notification to %s: %v", channel, err)
			}
		}
	}

	return nil
}

func (s *notificationService) ListForUser(ctx context.Context, userID string) ([]*model.Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *notificationService) MarkAsRead(ctx context.Context, id string) error {
	return s.repo.MarkRead(ctx, id)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *notificationService) Subscribe(userID string, fn func(notifications []*model.Notification)) repository.Unsubscribe {
	return s.repo.Subscribe(userID, fn)
}
