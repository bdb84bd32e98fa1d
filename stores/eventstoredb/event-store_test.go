package eventstoredb

import (
	"context"
	"testing"

	"github.com/EventStore/EventStore-Client-Go/esdb"
	"github.com/stretchr/testify/assert"

	"github.com/weegigs/wee-counter-go/we"
)

func createEvents(count int) []we.DomainEvent {
	events := make([]we.DomainEvent, count)
	for i := range events {
		events[i] = we.SlotsWritten{Writes: []we.SlotWrite{{Key: "counter", Value: []byte{byte('0' + i)}}}}
	}
	return events
}

func TestEventStore(t *testing.T) {
	if testing.Short() {
		t.Skip("eventstoredb container required")
	}

	ctx := context.Background()
	store, cleanup, err := NewESDBTestStore(ctx, PageSize(5))
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()

	t.Run("esdb event store validation", func(t *testing.T) {
		suite := we.NewEventStoreValidationSuite(ctx, store)
		suite.Run(t)
	})

	t.Run("should batch publish", func(t *testing.T) {
		var testId = we.AggregateId{Type: "test", Key: "should-batch-publish"}

		err := store.Publish(ctx, testId, we.PublishOptions{}, createEvents(10)...)
		if !assert.Nil(t, err) {
			return
		}

		aggregate, err := store.Load(ctx, testId)
		if !assert.Nil(t, err) {
			return
		}

		assert.Equal(t, 10, len(aggregate.Events))
		assert.Equal(t, we.Revision("0000000000000000000000000a"), aggregate.Revision)
	})
}

func TestExpectedRevision(t *testing.T) {
	t.Run("maps the initial revision to no stream", func(t *testing.T) {
		revision, err := expectedRevision(we.InitialRevision)
		assert.Nil(t, err)
		assert.Equal(t, esdb.NoStream{}, revision)
	})

	t.Run("offsets encoded revisions by one", func(t *testing.T) {
		revision, err := expectedRevision(encodeRevision(9))
		assert.Nil(t, err)
		assert.Equal(t, esdb.Revision(9), revision)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := expectedRevision("zz")
		assert.NotNil(t, err)
	})
}
