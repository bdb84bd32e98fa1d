package jetstream_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weegigs/wee-counter-go/stores/jetstream"
	"github.com/weegigs/wee-counter-go/we"
)

func TestEventStore(t *testing.T) {
	if testing.Short() {
		t.Skip("nats container required")
	}

	ctx := context.Background()
	store, cleanup, err := jetstream.NewTestStore(ctx)
	require.NoError(t, err)
	defer cleanup()

	t.Run("jetstream event store validation", func(t *testing.T) {
		suite := we.NewEventStoreValidationSuite(ctx, store)
		suite.Run(t)
	})

	t.Run("subjects are isolated per aggregate", func(t *testing.T) {
		alpha := we.AggregateId{Type: "counter", Key: "alpha"}
		beta := we.AggregateId{Type: "counter", Key: "beta"}

		require.NoError(t, store.Publish(ctx, alpha, we.Options(), we.Instantiated{Contract: "counter"}))
		require.NoError(t, store.Publish(ctx, beta, we.Options(), we.Instantiated{Contract: "counter"}))

		loaded, err := store.Load(ctx, alpha)
		require.NoError(t, err)
		assert.Len(t, loaded.Events, 1)

		err = store.Publish(ctx, alpha, we.Options(we.WithExpectedRevision(we.InitialRevision)), we.Instantiated{})
		assert.ErrorIs(t, err, we.RevisionConflict)
	})
}
