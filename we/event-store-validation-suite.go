package we

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jaswdr/faker"
	"github.com/stretchr/testify/assert"
)

// NewEventStoreValidationSuite builds the behavioural checks every EventStore backing a
// ContractService has to pass.
func NewEventStoreValidationSuite(ctx context.Context, store EventStore) *EventStoreValidationSuite {
	faker := faker.New()
	return &EventStoreValidationSuite{
		store: store,
		ctx:   ctx,
		faker: faker,
	}
}

type EventStoreValidationSuite struct {
	store EventStore
	ctx   context.Context
	faker faker.Faker
}

func (s *EventStoreValidationSuite) Run(t *testing.T) {
	t.Run("loads an initial revision", s.LoadInitial)
	t.Run("loads a revision with events", s.LoadsRevisionWithEvents)
	t.Run("publishes single event", s.PublishesSingleEvent)
	t.Run("publishes multiple events in a single transaction", s.PublishesMultipleEvents)
	t.Run("accepts the current revision as expected revision", s.AcceptsCurrentRevision)
	t.Run("returns a revision conflict with an initial revision", s.RevisionConflictOnInitialRevision)
	t.Run("returns a revision conflict on subsequent revision", s.RevisionConflictOnSubsequentRevision)
	t.Run("supports causation id", s.Causation)
	t.Run("renders instance state", s.RendersInstance)
}

func (s *EventStoreValidationSuite) MakeTestAggregateId() AggregateId {
	return AggregateId{
		Type: "go-test",
		Key:  s.faker.UUID().V4(),
	}
}

func (s *EventStoreValidationSuite) MakeTestEvent() SlotsWritten {
	return SlotsWritten{
		Writes: []SlotWrite{
			{Key: s.faker.Lorem().Word(), Value: []byte(s.faker.Lorem().Sentence(10))},
		},
	}
}

func (s *EventStoreValidationSuite) MakeTestEvents(count int) []DomainEvent {
	events := make([]DomainEvent, count)
	for i := 0; i < count; i++ {
		events[i] = s.MakeTestEvent()
	}

	return events
}

func (s *EventStoreValidationSuite) LoadInitial(t *testing.T) {
	aggregateId := s.MakeTestAggregateId()
	aggregate, err := s.store.Load(
		s.ctx, aggregateId,
	)

	if !assert.Nil(t, err) {
		return
	}

	assert.Empty(t, aggregate.Events)
	assert.Equal(t, InitialRevision, aggregate.Revision)
	assert.EqualValues(t, aggregateId, aggregate.Id)
}

func (s *EventStoreValidationSuite) PublishesSingleEvent(t *testing.T) {
	event := s.MakeTestEvent()

	aggregateId := s.MakeTestAggregateId()
	err := s.store.Publish(s.ctx, aggregateId, Options(), event)

	assert.Nil(t, err)
}

func (s *EventStoreValidationSuite) PublishesMultipleEvents(t *testing.T) {
	events := s.MakeTestEvents(17)

	aggregateId := s.MakeTestAggregateId()
	err := s.store.Publish(s.ctx, aggregateId, Options(), events...)
	if !assert.Nil(t, err) {
		return
	}

	aggregate, err := s.store.Load(s.ctx, aggregateId)
	if !assert.Nil(t, err) {
		return
	}

	if !assert.Len(t, aggregate.Events, 17) {
		return
	}

	for i, event := range aggregate.Events {
		var written SlotsWritten
		if !assert.Nil(t, UnmarshalFromData(event.Data, &written)) {
			return
		}
		assert.Equal(t, events[i], written)
		assert.Equal(t, SlotsWrittenEvent, event.EventType)
	}
}

func (s *EventStoreValidationSuite) LoadsRevisionWithEvents(t *testing.T) {
	aggregateId := s.MakeTestAggregateId()
	event := s.MakeTestEvent()

	err := s.store.Publish(s.ctx, aggregateId, Options(), event)
	if !assert.Nil(t, err) {
		return
	}

	aggregate, err := s.store.Load(
		s.ctx, aggregateId,
	)
	if !assert.Nil(t, err) {
		return
	}

	assert.NotEmpty(t, aggregate.Events)
	assert.NotEqual(t, InitialRevision, aggregate.Revision)
	assert.EqualValues(t, aggregateId, aggregate.Id)
}

func (s *EventStoreValidationSuite) Last(id AggregateId) (*RecordedEvent, error) {
	loaded, err := s.store.Load(s.ctx, id)
	if err != nil {
		return nil, err
	}

	length := len(loaded.Events)
	if length == 0 {
		return nil, errors.New("aggregate has no events")
	}

	return &loaded.Events[length-1], nil
}

func (s *EventStoreValidationSuite) AcceptsCurrentRevision(t *testing.T) {
	aggregateId := s.MakeTestAggregateId()

	err := s.store.Publish(s.ctx, aggregateId, Options(WithExpectedRevision(InitialRevision)), s.MakeTestEvent())
	if !assert.Nil(t, err) {
		return
	}

	current, err := s.store.Load(s.ctx, aggregateId)
	if !assert.Nil(t, err) {
		return
	}

	err = s.store.Publish(s.ctx, aggregateId, Options(WithExpectedRevision(current.Revision)), s.MakeTestEvent())
	assert.Nil(t, err)
}

func (s *EventStoreValidationSuite) RevisionConflictOnInitialRevision(t *testing.T) {
	event := s.MakeTestEvent()

	aggregateId := s.MakeTestAggregateId()
	err := s.store.Publish(s.ctx, aggregateId, Options(), event)
	if !assert.Nil(t, err) {
		return
	}

	err = s.store.Publish(s.ctx, aggregateId, Options(WithExpectedRevision(InitialRevision)), event)
	assert.NotNil(t, err)
	assert.Equal(t, RevisionConflict, err)
}

func (s *EventStoreValidationSuite) RevisionConflictOnSubsequentRevision(t *testing.T) {
	aggregateId := s.MakeTestAggregateId()
	event := s.MakeTestEvent()

	err := s.store.Publish(s.ctx, aggregateId, Options(), event)
	if !assert.Nil(t, err) {
		return
	}

	first, err := s.store.Load(s.ctx, aggregateId)
	if !assert.Nil(t, err) {
		return
	}

	err = s.store.Publish(s.ctx, aggregateId, Options(), event)
	if !assert.Nil(t, err) {
		return
	}

	err = s.store.Publish(s.ctx, aggregateId, Options(WithExpectedRevision(first.Revision)), event)
	assert.NotNil(t, err)
	assert.Equal(t, RevisionConflict, err)
}

func (s *EventStoreValidationSuite) Causation(t *testing.T) {
	event := s.MakeTestEvent()

	aggregateId := s.MakeTestAggregateId()
	err := s.store.Publish(s.ctx, aggregateId, Options(), event)
	if !assert.Nil(t, err) {
		return
	}

	first, err := s.Last(aggregateId)
	if !assert.Nil(t, err) {
		return
	}

	correlationId := CorrelationID(strings.Join([]string{"event/", first.EventID.String()}, ""))

	err = s.store.Publish(
		s.ctx,
		aggregateId,
		Options(WithCausationId(correlationId, first.EventID)),
		event,
	)
	if !assert.Nil(t, err) {
		return
	}

	second, err := s.Last(aggregateId)
	if !assert.Nil(t, err) {
		return
	}

	assert.Equal(t, correlationId, second.Metadata.CorrelationId)
	assert.Equal(t, first.EventID, second.Metadata.CausationId)
}

func (s *EventStoreValidationSuite) RendersInstance(t *testing.T) {
	aggregateId := s.MakeTestAggregateId()

	err := s.store.Publish(
		s.ctx,
		aggregateId,
		Options(WithExpectedRevision(InitialRevision)),
		Instantiated{Contract: "go-test", Sender: "creator"},
		SlotsWritten{Writes: []SlotWrite{{Key: "counter", Value: []byte("1")}}},
	)
	if !assert.Nil(t, err) {
		return
	}

	err = s.store.Publish(
		s.ctx,
		aggregateId,
		Options(),
		Executed{Sender: "sender", Attributes: []Attribute{{Key: "action", Value: "poke"}}},
		SlotsWritten{Writes: []SlotWrite{{Key: "counter", Value: []byte("2")}}},
	)
	if !assert.Nil(t, err) {
		return
	}

	entity, err := NewInstanceLoader(s.store).Load(s.ctx, aggregateId)
	if !assert.Nil(t, err) {
		return
	}

	assert.True(t, entity.Initialized())
	assert.True(t, entity.State.Instantiated)
	assert.Equal(t, "creator", entity.State.Creator)
	assert.Equal(t, uint64(1), entity.State.Executions)
	assert.Equal(t, []byte("2"), entity.State.Slots["counter"])
}
