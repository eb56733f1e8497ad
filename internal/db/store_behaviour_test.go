package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/listing-copywriter/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the same CRUD checks against any Store implementation.
// The store must be empty on entry.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, store.EnsureSchema(ctx))
	require.NoError(t, store.EnsureSchema(ctx), "EnsureSchema must be idempotent")

	base := time.Date(2025, 11, 5, 14, 0, 0, 0, time.UTC)
	var saved []*Description
	for i, tone := range []types.Tone{types.ToneFormal, types.ToneCasual, types.ToneFormal} {
		d := NewDescription(sampleProperty(), tone, "Description number "+string(rune('A'+i)), sampleScores())
		d.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		d.UpdatedAt = d.CreatedAt
		require.NoError(t, store.SaveDescription(ctx, d))
		saved = append(saved, d)
	}

	t.Run("get", func(t *testing.T) {
		got, err := store.GetDescription(ctx, saved[1].ID)
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.Equal(t, saved[1].ID, got.ID)
		assert.Equal(t, "casual", got.Tone)
		assert.Equal(t, "Description number B", got.GeneratedDescription)
		assert.Equal(t, sampleProperty(), got.Property())
		assert.Equal(t, sampleScores(), got.Scores())
		assert.True(t, saved[1].CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("get missing returns nil", func(t *testing.T) {
		got, err := store.GetDescription(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("list newest first", func(t *testing.T) {
		list, err := store.ListRecentDescriptions(ctx, 0)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, saved[2].ID, list[0].ID)
		assert.Equal(t, saved[1].ID, list[1].ID)
		assert.Equal(t, saved[0].ID, list[2].ID)
	})

	t.Run("list respects limit", func(t *testing.T) {
		list, err := store.ListRecentDescriptions(ctx, 2)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, saved[2].ID, list[0].ID)
	})

	t.Run("delete", func(t *testing.T) {
		deleted, err := store.DeleteDescription(ctx, saved[0].ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = store.DeleteDescription(ctx, saved[0].ID)
		require.NoError(t, err)
		assert.False(t, deleted)

		got, err := store.GetDescription(ctx, saved[0].ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("clear", func(t *testing.T) {
		n, err := store.ClearDescriptions(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		list, err := store.ListRecentDescriptions(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
