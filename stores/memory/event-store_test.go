package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/weegigs/wee-counter-go/we"
)

func TestEventStore(t *testing.T) {
	ctx := context.Background()
	store := NewEventStore()

	t.Run("memory event store validation", func(t *testing.T) {
		suite := we.NewEventStoreValidationSuite(ctx, store)
		suite.Run(t)
	})

	t.Run("removes details for entities", func(t *testing.T) {
		aggregateId := we.AggregateId{Type: "test", Key: "remove"}

		err := store.Publish(ctx, aggregateId, we.Options(), we.SlotsWritten{}, we.SlotsWritten{})
		if !assert.Nil(t, err) {
			return
		}

		count, err := store.Remove(ctx, aggregateId)
		if !assert.Nil(t, err) {
			return
		}
		assert.Equal(t, 2, count)

		loaded, err := store.Load(ctx, aggregateId)
		assert.Nil(t, err)
		assert.Equal(t, we.InitialRevision, loaded.Revision)
	})

	t.Run("loaded events are isolated from later publishes", func(t *testing.T) {
		aggregateId := we.AggregateId{Type: "test", Key: "isolated"}

		assert.Nil(t, store.Publish(ctx, aggregateId, we.Options(), we.SlotsWritten{}))
		loaded, err := store.Load(ctx, aggregateId)
		if !assert.Nil(t, err) {
			return
		}

		assert.Nil(t, store.Publish(ctx, aggregateId, we.Options(), we.SlotsWritten{}))
		assert.Len(t, loaded.Events, 1)
	})

	t.Run("stamps events with the store clock", func(t *testing.T) {
		at := time.Date(2022, 3, 4, 5, 6, 7, 0, time.UTC)
		stamped := NewEventStore(WithClock(fixedClock(at)))
		aggregateId := we.AggregateId{Type: "test", Key: "clock"}

		assert.Nil(t, stamped.Publish(ctx, aggregateId, we.Options(), we.SlotsWritten{}))
		loaded, err := stamped.Load(ctx, aggregateId)
		if !assert.Nil(t, err) {
			return
		}

		assert.Equal(t, we.TimestampFromTime(at), loaded.Events[0].Timestamp)
		assert.Equal(t, we.TimestampFromTime(at), loaded.Revision.Timestamp())
	})
}

type fixedClock time.Time

func (c fixedClock) Now() time.Time {
	return time.Time(c)
}
