package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyReactionTogglesOnAndOff(t *testing.T) {
	p := &Post{}

	p.ApplyReaction("alice", ReactionLike)
	assert.Equal(t, 1, p.Likes)
	assert.True(t, p.LikesUserIDs.Contains("alice"))

	// Same reaction again removes it.
	p.ApplyReaction("alice", ReactionLike)
	assert.Equal(t, 0, p.Likes)
	assert.False(t, p.LikesUserIDs.Contains("alice"))
}

func TestApplyReactionMovesBetweenSets(t *testing.T) {
	p := &Post{}

	p.ApplyReaction("alice", ReactionLike)
	p.ApplyReaction("alice", ReactionDislike)

	assert.False(t, p.LikesUserIDs.Contains("alice"))
	assert.True(t, p.DislikesUserIDs.Contains("alice"))
	assert.Equal(t, 0, p.Likes)
	assert.Equal(t, 1, p.Dislikes)
}

func TestApplyReactionCountsAreSetCardinalities(t *testing.T) {
	p := &Post{}

	p.ApplyReaction("alice", ReactionLike)
	p.ApplyReaction("bob", ReactionLike)
	p.ApplyReaction("carol", ReactionDislike)

	assert.Equal(t, len(p.LikesUserIDs), p.Likes)
	assert.Equal(t, len(p.DislikesUserIDs), p.Dislikes)
	assert.Equal(t, 2, p.Likes)
	assert.Equal(t, 1, p.Dislikes)
}

func TestApplyReactionNeverInBothSets(t *testing.T) {
	p := &Post{}

	sequence := []Reaction{
		ReactionLike, ReactionDislike, ReactionDislike,
		ReactionLike, ReactionLike, ReactionDislike,
	}
	for _, reaction := range sequence {
		p.ApplyReaction("alice", reaction)
		inBoth := p.LikesUserIDs.Contains("alice") && p.DislikesUserIDs.Contains("alice")
		assert.False(t, inBoth)
	}
}

func TestPostTypeValid(t *testing.T) {
	assert.True(t, PostTypeAsk.Valid())
	assert.True(t, PostTypeDiscussion.Valid())
	assert.True(t, PostTypeProject.Valid())
	assert.False(t, PostType("poll").Valid())
	assert.False(t, PostType("").Valid())
}
