package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/storefront/internal/model"
)

func TestSession_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, found, err := s.LoadSession(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	user := model.User{ID: 7, Name: "Asha", Email: "asha@example.com"}
	require.NoError(t, s.SaveSession(ctx, "tok-1", user))

	sess, found, err := s.LoadSession(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "tok-1", sess.Token)
	assert.Equal(t, user, sess.User)
	assert.False(t, sess.UpdatedAt.IsZero())
}

func TestSession_SaveReplaces(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSession(ctx, "tok-1", model.User{ID: 1, Name: "A", Email: "a@x.io"}))
	require.NoError(t, s.SaveSession(ctx, "tok-2", model.User{ID: 2, Name: "B", Email: "b@x.io"}))

	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token)

	var rows int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM session").Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestSession_UpdateUserKeepsToken(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSession(ctx, "tok-1", model.User{ID: 1, Name: "Old", Email: "a@x.io"}))
	require.NoError(t, s.UpdateUser(ctx, model.User{ID: 1, Name: "New", Email: "a@x.io"}))

	sess, found, err := s.LoadSession(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "tok-1", sess.Token)
	assert.Equal(t, "New", sess.User.Name)
}

func TestSession_Clear(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSession(ctx, "tok-1", model.User{ID: 1}))
	require.NoError(t, s.ClearSession(ctx))

	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	// Clearing twice is harmless.
	require.NoError(t, s.ClearSession(ctx))
}

func TestSession_SharedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.db")
	ctx := context.Background()

	writer, err := Open(path)
	require.NoError(t, err)
	defer writer.Close()
	reader, err := Open(path)
	require.NoError(t, err)
	defer reader.Close()

	require.NoError(t, writer.SaveSession(ctx, "tok-shared", model.User{ID: 1}))
	token, err := reader.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-shared", token)

	require.NoError(t, reader.ClearSession(ctx))
	token, err = writer.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token, "logout through one handle is visible to the other")
}
