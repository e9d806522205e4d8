package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeRepository_AddRemove(t *testing.T) {
	db := newTestDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	msg := createMessage(t, db, bob.ID, "like me", time.Now())

	added, err := repo.Add(ctx, alice.ID, msg.ID)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.Add(ctx, alice.ID, msg.ID)
	require.NoError(t, err)
	assert.False(t, added, "second like is absorbed by the primary key")

	liked, err := repo.Exists(ctx, alice.ID, msg.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	removed, err := repo.Remove(ctx, alice.ID, msg.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Remove(ctx, alice.ID, msg.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestLikeRepository_LikedMessageIDs(t *testing.T) {
	db := newTestDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	first := createMessage(t, db, bob.ID, "one", time.Now())
	second := createMessage(t, db, bob.ID, "two", time.Now())

	_, err := repo.Add(ctx, alice.ID, second.ID)
	require.NoError(t, err)

	ids, err := repo.LikedMessageIDs(ctx, alice.ID, []uint{first.ID, second.ID})
	require.NoError(t, err)
	assert.Equal(t, []uint{second.ID}, ids)

	ids, err = repo.LikedMessageIDs(ctx, alice.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestLikeRepository_AddRequiresExistingRows(t *testing.T) {
	db := newTestDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	msg := createMessage(t, db, alice.ID, "still here", time.Now())

	added, err := repo.Add(ctx, alice.ID, 8888)
	require.Error(t, err)
	assert.False(t, added)

	_, err = repo.Add(ctx, 8888, msg.ID)
	require.Error(t, err)

	liked, err := repo.Exists(ctx, alice.ID, 8888)
	require.NoError(t, err)
	assert.False(t, liked)
}
