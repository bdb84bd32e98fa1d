package we

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("reads through to committed state", func(t *testing.T) {
		base := NewMemoryStore()
		require.NoError(t, base.Set(ctx, "counter", []byte("1")))

		tx := NewTransaction(base)
		value, err := tx.Get(ctx, "counter")
		require.NoError(t, err)
		assert.Equal(t, "1", string(value))
		assert.False(t, tx.Dirty())
	})

	t.Run("reads its own writes without touching the base", func(t *testing.T) {
		base := NewMemoryStore()
		require.NoError(t, base.Set(ctx, "counter", []byte("1")))

		tx := NewTransaction(base)
		require.NoError(t, tx.Set(ctx, "counter", []byte("2")))

		value, err := tx.Get(ctx, "counter")
		require.NoError(t, err)
		assert.Equal(t, "2", string(value))

		committed, err := base.Get(ctx, "counter")
		require.NoError(t, err)
		assert.Equal(t, "1", string(committed))
	})

	t.Run("keeps first write order with last value", func(t *testing.T) {
		tx := NewTransaction(NewMemoryStore())
		require.NoError(t, tx.Set(ctx, "b", []byte("1")))
		require.NoError(t, tx.Set(ctx, "a", []byte("2")))
		require.NoError(t, tx.Set(ctx, "b", []byte("3")))

		assert.Equal(t, []SlotWrite{
			{Key: "b", Value: []byte("3")},
			{Key: "a", Value: []byte("2")},
		}, tx.Writes())
	})

	t.Run("discards writes", func(t *testing.T) {
		tx := NewTransaction(NewMemoryStore())
		require.NoError(t, tx.Set(ctx, "counter", []byte("1")))
		tx.Discard()

		assert.False(t, tx.Dirty())
		assert.Empty(t, tx.Writes())
		_, err := tx.Get(ctx, "counter")
		assert.True(t, IsNotFound(err))
	})

	t.Run("copies written values", func(t *testing.T) {
		tx := NewTransaction(NewMemoryStore())
		value := []byte("1")
		require.NoError(t, tx.Set(ctx, "counter", value))
		value[0] = '9'

		stored, err := tx.Get(ctx, "counter")
		require.NoError(t, err)
		assert.Equal(t, "1", string(stored))
	})
}
