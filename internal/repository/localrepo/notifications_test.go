package localrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"kampusconnect.id/forum/internal/model"
)

func seedNotification(t *testing.T, s *Store, userID string) *model.Notification {
	t.Helper()
	n, err := s.Notifications().Create(context.Background(), &model.Notification{
		UserID:    userID,
		Type:      model.NotificationComment,
		PostID:    "p1",
		PostTitle: "a post",
		ActorID:   "actor",
		ActorName: "Actor",
	})
	require.NoError(t, err)
	return n
}

func TestNotificationsStartUnread(t *testing.T) {
	s, _ := newTestStore(t)

	n, err := s.Notifications().Create(context.Background(), &model.Notification{
		UserID: "u1",
		Type:   model.NotificationComment,
		PostID: "p1",
		IsRead: true, // ignored on create
	})
	require.NoError(t, err)
	assert.False(t, n.IsRead)
}

func TestMarkReadIsOneWay(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	n := seedNotification(t, s, "u1")

	require.NoError(t, s.Notifications().MarkRead(ctx, n.ID))

	list, err := s.Notifications().ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsRead)

	// Marking again is a no-op, not an error.
	require.NoError(t, s.Notifications().MarkRead(ctx, n.ID))
}

func TestMarkAllReadOnlyTouchesOwner(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	seedNotification(t, s, "u1")
	seedNotification(t, s, "u1")
	seedNotification(t, s, "u2")

	require.NoError(t, s.Notifications().MarkAllRead(ctx, "u1"))

	countU1, err := s.Notifications().CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, countU1)

	countU2, err := s.Notifications().CountUnread(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), countU2)
}

func TestListByUserIsScopedAndNewestFirst(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	a := seedNotification(t, s, "u1")
	b := seedNotification(t, s, "u1")
	seedNotification(t, s, "u2")

	list, err := s.Notifications().ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, a.ID, list[1].ID)
}
