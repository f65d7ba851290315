package localrepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"kampusconnect.id/forum/internal/model"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.json")
	s, err := Open(path)
	require.NoError(t, err)
	return s, path
}

func TestOpenMissingFileStartsEmpty(t *testing.T) {
	s, _ := newTestStore(t)

	posts, err := s.Posts().List(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestOpenMalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")
}

func TestDataSurvivesReopen(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()

	created, err := s.Posts().Create(ctx, &model.Post{
		Title:    "Selamat datang",
		Content:  "hello",
		Topic:    "General",
		Type:     model.PostTypeDiscussion,
		AuthorID: "u1",
	})
	require.NoError(t, err)

	reopened, err := Open(path)
	require.NoError(t, err)

	got, err := reopened.Posts().GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Selamat datang", got.Title)
	assert.Equal(t, model.PostTypeDiscussion, got.Type)
}

func TestCredentialsSurviveReopen(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()

	_, err := s.Users().Create(ctx, &model.UserProfile{
		Email:        "alice@kampus.id",
		Username:     "alice",
		PasswordHash: "$2a$10$fakehash",
	})
	require.NoError(t, err)

	reopened, err := Open(path)
	require.NoError(t, err)

	got, err := reopened.Users().GetByEmail(ctx, "alice@kampus.id")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "$2a$10$fakehash", got.PasswordHash)
}

func TestSessionPersistsAcrossReopen(t *testing.T) {
	s, path := newTestStore(t)

	user := &model.UserProfile{UID: "u1", Email: "alice@kampus.id", Username: "alice", PasswordHash: "secret"}
	require.NoError(t, s.Sessions().Save(user))

	reopened, err := Open(path)
	require.NoError(t, err)

	current := reopened.Sessions().Current()
	require.NotNil(t, current)
	assert.Equal(t, "u1", current.UID)
	// The persisted session never carries the hash.
	assert.Empty(t, current.PasswordHash)
}

func TestSessionClear(t *testing.T) {
	s, path := newTestStore(t)

	require.NoError(t, s.Sessions().Save(&model.UserProfile{UID: "u1"}))
	require.NoError(t, s.Sessions().Clear())
	assert.Nil(t, s.Sessions().Current())

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Nil(t, reopened.Sessions().Current())
}

func TestGetMissingRecordsReturnNilNil(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	post, err := s.Posts().GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, post)

	user, err := s.Users().GetByEmail(ctx, "nobody@kampus.id")
	require.NoError(t, err)
	assert.Nil(t, user)

	comment, err := s.Comments().GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, comment)
}
