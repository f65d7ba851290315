package service

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

func newCommentFixture(t *testing.T) (repository.Backend, CommentService, PostService) {
	t.Helper()
	backend := newTestBackend(t)
	notifications := NewNotificationService(backend.Notifications(), nil)
	posts := NewPostService(backend.Posts(), NewSearchService(nil), nil, 0)
	comments := NewCommentService(backend.Comments(), backend.Posts(), notifications, nil, 0)
	return backend, comments, posts
}

func author(uid, name string) *model.UserProfile {
	return &model.UserProfile{UID: uid, Username: name, Fullname: name}
}

func createPostAs(t *testing.T, posts PostService, u *model.UserProfile) *model.Post {
	t.Helper()
	p, err := posts.Create(context.Background(), u, CreatePostInput{
		Title:   "a question",
		Content: "body",
		Topic:   "General",
		Type:    "ask",
	})
	require.NoError(t, err)
	return p
}

func TestCommentNotifiesPostAuthorOnce(t *testing.T) {
	backend, comments, posts := newCommentFixture(t)
	ctx := context.Background()

	alice := author("alice", "Alice")
	bob := author("bob", "Bob")
	post := createPostAs(t, posts, alice)

	_, err := comments.Create(ctx, bob, post.ID, CreateCommentInput{Content: "interesting"})
	require.NoError(t, err)

	got, err := backend.Notifications().ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.NotificationComment, got[0].Type)
	assert.Equal(t, "bob", got[0].ActorID)
	assert.Equal(t, post.ID, got[0].PostID)
	assert.Equal(t, "a question", got[0].PostTitle)
	assert.False(t, got[0].IsRead)
}

func TestOwnCommentCreatesNoNotification(t *testing.T) {
	backend, comments, posts := newCommentFixture(t)
	ctx := context.Background()

	alice := author("alice", "Alice")
	post := createPostAs(t, posts, alice)

	_, err := comments.Create(ctx, alice, post.ID, CreateCommentInput{Content: "replying to myself"})
	require.NoError(t, err)

	got, err := backend.Notifications().ListByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFanOutReachesEarlierCommentersOnce(t *testing.T) {
	backend, comments, posts := newCommentFixture(t)
	ctx := context.Background()

	alice := author("alice", "Alice")
	bob := author("bob", "Bob")
	carol := author("carol", "Carol")
	post := createPostAs(t, posts, alice)

	// Bob comments twice, then Carol comments.
	_, err := comments.Create(ctx, bob, post.ID, CreateCommentInput{Content: "first"})
	require.NoError(t, err)
	_, err = comments.Create(ctx, bob, post.ID, CreateCommentInput{Content: "second"})
	require.NoError(t, err)
	_, err = comments.Create(ctx, carol, post.ID, CreateCommentInput{Content: "third"})
	require.NoError(t, err)

	// Carol's comment notified the author and reached Bob exactly once
	// despite his two earlier comments.
	bobNotifs, err := backend.Notifications().ListByUser(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bobNotifs, 1)
	assert.Equal(t, model.NotificationReply, bobNotifs[0].Type)
	assert.Equal(t, "carol", bobNotifs[0].ActorID)

	// Alice got one notification per foreign comment.
	aliceNotifs, err := backend.Notifications().ListByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, aliceNotifs, 3)

	// Carol commented last and gets nothing.
	carolNotifs, err := backend.Notifications().ListByUser(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, carolNotifs)
}

func TestCommentAdjustsReplyCounter(t *testing.T) {
	backend, comments, posts := newCommentFixture(t)
	ctx := context.Background()

	alice := author("alice", "Alice")
	bob := author("bob", "Bob")
	post := createPostAs(t, posts, alice)

	c, err := comments.Create(ctx, bob, post.ID, CreateCommentInput{Content: "hello"})
	require.NoError(t, err)

	got, err := backend.Posts().GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Replies)

	require.NoError(t, comments.Delete(ctx, "bob", c.ID))

	got, err = backend.Posts().GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Replies)
}

func TestCommentOwnerChecks(t *testing.T) {
	_, comments, posts := newCommentFixture(t)
	ctx := context.Background()

	alice := author("alice", "Alice")
	bob := author("bob", "Bob")
	post := createPostAs(t, posts, alice)

	c, err := comments.Create(ctx, bob, post.ID, CreateCommentInput{Content: "mine"})
	require.NoError(t, err)

	_, err = comments.Update(ctx, "alice", c.ID, UpdateCommentInput{Content: "hijacked"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	err = comments.Delete(ctx, "alice", c.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	updated, err := comments.Update(ctx, "bob", c.ID, UpdateCommentInput{Content: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
}

func TestCommentOnMissingPost(t *testing.T) {
	_, comments, _ := newCommentFixture(t)

	_, err := comments.Create(context.Background(), author("bob", "Bob"), "missing", CreateCommentInput{Content: "hi"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCommentContentIsSanitized(t *testing.T) {
	_, comments, posts := newCommentFixture(t)
	ctx := context.Background()

	alice := author("alice", "Alice")
	post := createPostAs(t, posts, alice)

	c, err := comments.Create(ctx, alice, post.ID, CreateCommentInput{
		Content: `hello <script>alert("x")</script>world`,
	})
	require.NoError(t, err)
	assert.NotContains(t, c.Content, "<script>")
	assert.Contains(t, c.Content, "hello")

	_, err = comments.Create(ctx, alice, post.ID, CreateCommentInput{Content: "<script>only</script>"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestCommentsListNewestFirst(t *testing.T) {
	_, comments, posts := newCommentFixture(t)
	ctx := context.Background()

	alice := author("alice", "Alice")
	post := createPostAs(t, posts, alice)

	_, err := comments.Create(ctx, alice, post.ID, CreateCommentInput{Content: "older"})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = comments.Create(ctx, alice, post.ID, CreateCommentInput{Content: "newer"})
	require.NoError(t, err)

	list, err := comments.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].Content)
	assert.Equal(t, "older", list[1].Content)
}
