package localrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"kampusconnect.id/forum/internal/model"
	"kampusconnect.id/forum/internal/repository"
	"kampusconnect.id/forum/pkg/apperror"
)

func seedPost(t *testing.T, s *Store, title, topic string, postType model.PostType, authorID string) *model.Post {
	t.Helper()
	p, err := s.Posts().Create(context.Background(), &model.Post{
		Title:    title,
		Content:  "content of " + title,
		Topic:    topic,
		Type:     postType,
		AuthorID: authorID,
	})
	require.NoError(t, err)
	return p
}

func TestCreateZeroesCountersAndSets(t *testing.T) {
	s, _ := newTestStore(t)

	p, err := s.Posts().Create(context.Background(), &model.Post{
		Title:        "tampered",
		Type:         model.PostTypeAsk,
		Likes:        99,
		Views:        5,
		Replies:      3,
		LikesUserIDs: model.UserIDSet{"ghost"},
	})
	require.NoError(t, err)

	assert.Zero(t, p.Likes)
	assert.Zero(t, p.Dislikes)
	assert.Zero(t, p.Replies)
	assert.Zero(t, p.Views)
	assert.Empty(t, p.LikesUserIDs)
	assert.Empty(t, p.DislikesUserIDs)
	assert.NotEmpty(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestListNewestFirstAndFiltered(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	first := seedPost(t, s, "first", "General", model.PostTypeDiscussion, "u1")
	time.Sleep(2 * time.Millisecond)
	second := seedPost(t, s, "second", "Programming", model.PostTypeAsk, "u2")
	time.Sleep(2 * time.Millisecond)
	third := seedPost(t, s, "third", "Programming", model.PostTypeProject, "u1")

	all, err := s.Posts().List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, third.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)
	assert.Equal(t, first.ID, all[2].ID)

	byType, err := s.Posts().List(ctx, &repository.Filter{Field: "type", Value: "ask"})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, second.ID, byType[0].ID)

	byTopic, err := s.Posts().List(ctx, &repository.Filter{Field: "topic", Value: "Programming"})
	require.NoError(t, err)
	assert.Len(t, byTopic, 2)

	byAuthor, err := s.Posts().List(ctx, &repository.Filter{Field: "authorId", Value: "u1"})
	require.NoError(t, err)
	assert.Len(t, byAuthor, 2)
}

func TestDeleteCascadesComments(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	p := seedPost(t, s, "with comments", "General", model.PostTypeDiscussion, "u1")
	other := seedPost(t, s, "untouched", "General", model.PostTypeDiscussion, "u1")

	_, err := s.Comments().Create(ctx, &model.Comment{PostID: p.ID, Content: "a", AuthorID: "u2"})
	require.NoError(t, err)
	_, err = s.Comments().Create(ctx, &model.Comment{PostID: p.ID, Content: "b", AuthorID: "u3"})
	require.NoError(t, err)
	keep, err := s.Comments().Create(ctx, &model.Comment{PostID: other.ID, Content: "keep", AuthorID: "u2"})
	require.NoError(t, err)

	require.NoError(t, s.Posts().Delete(ctx, p.ID))

	gone, err := s.Comments().ListByPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, gone)

	kept, err := s.Comments().ListByPost(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, keep.ID, kept[0].ID)
}

func TestToggleReactionPersistsInvariant(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	p := seedPost(t, s, "votable", "General", model.PostTypeDiscussion, "author")

	liked, err := s.Posts().ToggleReaction(ctx, p.ID, "alice", model.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)
	assert.True(t, liked.LikesUserIDs.Contains("alice"))

	switched, err := s.Posts().ToggleReaction(ctx, p.ID, "alice", model.ReactionDislike)
	require.NoError(t, err)
	assert.Equal(t, 0, switched.Likes)
	assert.Equal(t, 1, switched.Dislikes)
	assert.False(t, switched.LikesUserIDs.Contains("alice"))
	assert.True(t, switched.DislikesUserIDs.Contains("alice"))

	cleared, err := s.Posts().ToggleReaction(ctx, p.ID, "alice", model.ReactionDislike)
	require.NoError(t, err)
	assert.Equal(t, 0, cleared.Likes)
	assert.Equal(t, 0, cleared.Dislikes)
	assert.Empty(t, cleared.LikesUserIDs)
	assert.Empty(t, cleared.DislikesUserIDs)

	_, err = s.Posts().ToggleReaction(ctx, "missing", "alice", model.ReactionLike)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestIncrementViewsAndAdjustReplies(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	p := seedPost(t, s, "counters", "General", model.PostTypeAsk, "u1")

	require.NoError(t, s.Posts().IncrementViews(ctx, p.ID))
	require.NoError(t, s.Posts().IncrementViews(ctx, p.ID))
	require.NoError(t, s.Posts().AdjustReplies(ctx, p.ID, 1))

	got, err := s.Posts().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Views)
	assert.Equal(t, 1, got.Replies)

	// The reply counter clamps at zero.
	require.NoError(t, s.Posts().AdjustReplies(ctx, p.ID, -5))
	got, err = s.Posts().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Replies)
}

func TestSubscribeDeliversSnapshotOnce(t *testing.T) {
	s, _ := newTestStore(t)

	seedPost(t, s, "snapshot", "General", model.PostTypeDiscussion, "u1")

	calls := 0
	var seen []*model.Post
	unsub := s.Posts().Subscribe(nil, func(posts []*model.Post) {
		calls++
		seen = posts
	})

	assert.Equal(t, 1, calls)
	require.Len(t, seen, 1)
	assert.Equal(t, "snapshot", seen[0].Title)

	// Unsubscribe is safe to call repeatedly.
	unsub()
	unsub()
}

func TestReturnedPostsAreCopies(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	p := seedPost(t, s, "isolated", "General", model.PostTypeDiscussion, "u1")

	got, err := s.Posts().GetByID(ctx, p.ID)
	require.NoError(t, err)
	got.Title = "mutated"
	got.LikesUserIDs = append(got.LikesUserIDs, "sneaky")

	again, err := s.Posts().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "isolated", again.Title)
	assert.Empty(t, again.LikesUserIDs)
}
