package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/wire"

	"github.com/weegigs/wee-counter-go/we"
)

var Live = wire.NewSet(
	ProvideEventStore,
	wire.Bind(new(we.EventStore), new(*EventStore)),
)

type EventStoreOption func(*EventStore)

func WithClock(clock we.Clock) EventStoreOption {
	return func(store *EventStore) {
		store.clock = clock
	}
}

// EventStore keeps change sets in process. It is used by tests and by the server when no
// durable backend is configured.
type EventStore struct {
	lk       sync.RWMutex
	streams  map[we.EncodedAggregateId][]we.RecordedEvent
	revision *we.RevisionGenerator
	clock    we.Clock
}

func ProvideEventStore() *EventStore {
	return NewEventStore()
}

func NewEventStore(options ...EventStoreOption) *EventStore {
	store := &EventStore{
		streams:  make(map[we.EncodedAggregateId][]we.RecordedEvent),
		revision: we.NewRevisionGenerator(),
	}

	for _, option := range options {
		option(store)
	}

	if store.clock == nil {
		store.clock = we.SystemClock{}
	}

	return store
}

func (es *EventStore) Load(ctx context.Context, id we.AggregateId) (we.Aggregate, error) {
	if err := ctx.Err(); err != nil {
		return we.Aggregate{}, err
	}

	es.lk.RLock()
	defer es.lk.RUnlock()

	stream := es.streams[id.Encode()]
	events := make([]we.RecordedEvent, len(stream))
	copy(events, stream)

	return we.Aggregate{
		Id:       id,
		Events:   events,
		Revision: we.RevisionOf(events),
	}, nil
}

func (es *EventStore) Publish(ctx context.Context, aggregateId we.AggregateId, options we.PublishOptions, events ...we.DomainEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(events) == 0 {
		return errors.New("attempted to publish empty list of events")
	}

	now := es.clock.Now()
	timestamp := we.TimestampFromTime(now)

	recorded := make([]we.RecordedEvent, len(events))
	for index, event := range events {
		data, err := we.MarshalToData(event)
		if err != nil {
			return err
		}

		revision := es.revision.NewRevision(now)
		recorded[index] = we.RecordedEvent{
			AggregateId: aggregateId,
			EventID:     we.EventID(revision),
			EventType:   we.EventTypeOf(event),
			Revision:    revision,
			Timestamp:   timestamp,
			Data:        data,
			Metadata:    options.RecordedEventMetadata,
		}
	}

	es.lk.Lock()
	defer es.lk.Unlock()

	key := aggregateId.Encode()
	current := we.RevisionOf(es.streams[key])
	if options.ExpectedRevision != "" && options.ExpectedRevision != current {
		return we.RevisionConflict
	}

	es.streams[key] = append(es.streams[key], recorded...)

	return nil
}

// Remove drops every event recorded for id, returning how many were removed.
func (es *EventStore) Remove(_ context.Context, id we.AggregateId) (int, error) {
	es.lk.Lock()
	defer es.lk.Unlock()

	key := id.Encode()
	count := len(es.streams[key])
	delete(es.streams, key)

	return count, nil
}
