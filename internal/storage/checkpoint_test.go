package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/klaro/internal/common"
)

func TestCheckpoint_Lifecycle(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	clock := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	require.NoError(t, store.Save(ctx, []byte("before")))

	info, err := store.CreateCheckpoint(ctx, "before-import", "pre import")
	require.NoError(t, err)
	assert.Equal(t, "before-import", info.ID)
	assert.Equal(t, int64(len("before")), info.Size)

	require.NoError(t, store.Save(ctx, []byte("after")))
	_, err = store.CreateCheckpoint(ctx, "after-import", "")
	require.NoError(t, err)

	list, err := store.ListCheckpoints(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "after-import", list[0].ID)
	assert.Equal(t, "before-import", list[1].ID)
	assert.Equal(t, "pre import", list[1].Description)
	assert.True(t, list[0].CreatedAt.After(list[1].CreatedAt))

	require.NoError(t, store.RestoreCheckpoint(ctx, "before-import"))
	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "before", string(got))

	require.NoError(t, store.DeleteCheckpoint(ctx, "before-import"))
	list, err = store.ListCheckpoints(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "after-import", list[0].ID)
}

func TestCheckpoint_GeneratedTag(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	store.now = func() time.Time { return time.Date(2024, 3, 15, 9, 30, 5, 0, time.UTC) }

	require.NoError(t, store.Save(ctx, []byte("x")))
	info, err := store.CreateCheckpoint(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, "checkpoint-2024-03-15-093005", info.ID)
}

func TestCheckpoint_Errors(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.CreateCheckpoint(ctx, "empty", "")
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, store.Save(ctx, []byte("x")))
	_, err = store.CreateCheckpoint(ctx, "dup", "")
	require.NoError(t, err)
	_, err = store.CreateCheckpoint(ctx, "dup", "")
	assert.ErrorIs(t, err, ErrCheckpointExists)

	tests := []struct {
		name string
		tag  string
	}{
		{name: "path separator", tag: "../escape"},
		{name: "space", tag: "two words"},
		{name: "quote", tag: "it's"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.CreateCheckpoint(ctx, tt.tag, "")
			assert.ErrorIs(t, err, ErrInvalidTag)
		})
	}

	assert.ErrorIs(t, store.RestoreCheckpoint(ctx, "missing"), ErrCheckpointNotFound)
	assert.ErrorIs(t, store.DeleteCheckpoint(ctx, "missing"), ErrCheckpointNotFound)
	assert.ErrorIs(t, store.RestoreCheckpoint(ctx, " "), ErrEmptyString)
}
