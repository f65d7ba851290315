package gormrepo

import (
	"context"
	"log"

	"kampusconnect.id/forum/internal/model"
	"kampusconnect.id/forum/internal/repository"
	"kampusconnect.id/forum/pkg/apperror"
)

type notificationRepo struct {
	b *Backend
}

var _ repository.NotificationRepository = (*notificationRepo)(nil)

func (r *notificationRepo) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	stored := *n
	stored.IsRead = false
	if err := r.b.db.WithContext(ctx).Create(&stored).Error; err != nil {
		return nil, err
	}
	r.b.publishChange(ctx, collectionNotifications)
	return &stored, nil
}

func (r *notificationRepo) ListByUser(ctx context.Context, userID string) ([]*model.Notification, error) {
	var notifications []*model.Notification
	err := r.b.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, id string) error {
	res := r.b.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ?", id).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	r.b.publishChange(ctx, collectionNotifications)
	return nil
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	res := r.b.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		r.b.publishChange(ctx, collectionNotifications)
	}
	return nil
}

func (r *notificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.b.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepo) Subscribe(userID string, fn func(notifications []*model.Notification)) repository.Unsubscribe {
	return r.b.subscribeChanges(collectionNotifications, func() {
		notifications, err := r.ListByUser(context.Background(), userID)
		if err != nil {
			log.Printf("notification subscription refresh failed: %v", err)
			return
		}
		fn(notifications)
	})
}
