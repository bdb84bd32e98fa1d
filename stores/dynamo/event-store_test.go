package dynamo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weegigs/wee-counter-go/we"
)

func TestDynamoDBStore(t *testing.T) {
	if testing.Short() {
		t.Skip("dynamodb-local container required")
	}

	ctx := context.Background()
	store, tearDown, err := DynamoTestStore(ctx)
	if err != nil {
		t.Fatalf("failed to create test store. %+v", err)
	}

	defer tearDown()

	t.Run("dynamodb event store validation", func(t *testing.T) {
		suite := we.NewEventStoreValidationSuite(ctx, store)
		suite.Run(t)
	})

	t.Run("removes details for entities", func(t *testing.T) {
		aggregateId := we.AggregateId{Type: "go-test", Key: "remove"}

		err := store.Publish(ctx, aggregateId, we.Options(), we.SlotsWritten{})
		if !assert.Nil(t, err) {
			return
		}

		count, err := store.Remove(ctx, aggregateId)
		if !assert.Nil(t, err) {
			return
		}

		// one change set plus the latest revision marker
		assert.Equal(t, 2, count)

		loaded, err := store.Load(ctx, aggregateId)
		assert.Nil(t, err)
		assert.Equal(t, we.InitialRevision, loaded.Revision)
	})
}
