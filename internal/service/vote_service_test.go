package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"kampusconnect.id/forum/internal/model"
	"kampusconnect.id/forum/pkg/apperror"
)

func TestVoteToggleLifecycle(t *testing.T) {
	backend := newTestBackend(t)
	posts := NewPostService(backend.Posts(), NewSearchService(nil), nil, 0)
	votes := NewVoteService(backend.Posts())
	ctx := context.Background()

	post := createPostAs(t, posts, author("alice", "Alice"))

	liked, err := votes.Toggle(ctx, "bob", post.ID, model.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)

	// Same vote again toggles off.
	cleared, err := votes.Toggle(ctx, "bob", post.ID, model.ReactionLike)
	require.NoError(t, err)
	assert.Zero(t, cleared.Likes)
	assert.Empty(t, cleared.LikesUserIDs)

	// Switching sides moves the user between sets.
	_, err = votes.Toggle(ctx, "bob", post.ID, model.ReactionLike)
	require.NoError(t, err)
	switched, err := votes.Toggle(ctx, "bob", post.ID, model.ReactionDislike)
	require.NoError(t, err)
	assert.Zero(t, switched.Likes)
	assert.Equal(t, 1, switched.Dislikes)
}

func TestVoteRejectsUnknownReaction(t *testing.T) {
	backend := newTestBackend(t)
	votes := NewVoteService(backend.Posts())

	_, err := votes.Toggle(context.Background(), "bob", "any", model.Reaction("love"))
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestVoteOnMissingPost(t *testing.T) {
	backend := newTestBackend(t)
	votes := NewVoteService(backend.Posts())

	_, err := votes.Toggle(context.Background(), "bob", "missing", model.ReactionLike)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestConcurrentTogglesKeepInvariant(t *testing.T) {
	backend := newTestBackend(t)
	posts := NewPostService(backend.Posts(), NewSearchService(nil), nil, 0)
	votes := NewVoteService(backend.Posts())
	ctx := context.Background()

	post := createPostAs(t, posts, author("alice", "Alice"))

	// Many users vote concurrently while one user flip-flops. Whatever the
	// interleaving, no id may land in both sets and the counts must equal
	// the set sizes.
	var wg sync.WaitGroup
	users := []string{"u1", "u2", "u3", "u4", "u5"}
	for _, uid := range users {
		wg.Add(1)
		go func(uid string) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				reaction := model.ReactionLike
				if i%2 == 1 {
					reaction = model.ReactionDislike
				}
				_, err := votes.Toggle(ctx, uid, post.ID, reaction)
				assert.NoError(t, err)
			}
		}(uid)
	}
	wg.Wait()

	final, err := backend.Posts().GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, len(final.LikesUserIDs), final.Likes)
	assert.Equal(t, len(final.DislikesUserIDs), final.Dislikes)
	for _, uid := range users {
		inBoth := final.LikesUserIDs.Contains(uid) && final.DislikesUserIDs.Contains(uid)
		assert.False(t, inBoth, "user %s is in both sets", uid)
	}
}

func TestSameUserTogglesAreSerialized(t *testing.T) {
	backend := newTestBackend(t)
	posts := NewPostService(backend.Posts(), NewSearchService(nil), nil, 0)
	votes := NewVoteService(backend.Posts())
	ctx := context.Background()

	post := createPostAs(t, posts, author("alice", "Alice"))

	// An even number of identical toggles from one user must cancel out.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := votes.Toggle(ctx, "bob", post.ID, model.ReactionLike)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	final, err := backend.Posts().GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, final.Likes)
	assert.Empty(t, final.LikesUserIDs)
}
