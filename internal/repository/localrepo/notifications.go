package localrepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"kampusconnect.id/forum/internal/model"
	"kampusconnect.id/forum/internal/repository"
	"kampusconnect.id/forum/pkg/apperror"
)

type notificationRepo struct {
	s *Store
}

var _ repository.NotificationRepository = (*notificationRepo)(nil)

func (r *notificationRepo) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var notifications []*model.Notification
	if err := r.s.readList(keyNotifications, &notifications); err != nil {
		return nil, err
	}

	stored := *n
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	stored.IsRead = false
	stored.CreatedAt = time.Now().UTC()

	notifications = append([]*model.Notification{&stored}, notifications...)
	if err := r.s.writeList(keyNotifications, notifications); err != nil {
		return nil, err
	}

	out := stored
	return &out, nil
}

func (r *notificationRepo) ListByUser(ctx context.Context, userID string) ([]*model.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var notifications []*model.Notification
	if err := r.s.readList(keyNotifications, &notifications); err != nil {
		return nil, err
	}

	out := make([]*model.Notification, 0)
	for _, n := range notifications {
		if n.UserID == userID {
			c := *n
			out = append(out, &c)
		}
	}
	sortByCreatedAtDesc(out, func(n *model.Notification) time.Time { return n.CreatedAt })
	return out, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var notifications []*model.Notification
	if err := r.s.readList(keyNotifications, &notifications); err != nil {
		return err
	}
	for _, n := range notifications {
		if n.ID == id {
			n.IsRead = true
			return r.s.writeList(keyNotifications, notifications)
		}
	}
	return apperror.ErrNotFound
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var notifications []*model.Notification
	if err := r.s.readList(keyNotifications, &notifications); err != nil {
		return err
	}
	changed := false
	for _, n := range notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return r.s.writeList(keyNotifications, notifications)
}

func (r *notificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var notifications []*model.Notification
	if err := r.s.readList(keyNotifications, &notifications); err != nil {
		return 0, err
	}
	var count int64
	for _, n := range notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *notificationRepo) Subscribe(userID string, fn func(notifications []*model.Notification)) repository.Unsubscribe {
	notifications, err := r.ListByUser(context.Background(), userID)
	if err == nil {
		fn(notifications)
	}
	return noopUnsubscribe()
}
