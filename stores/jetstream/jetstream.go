package jetstream

import (
	"context"
	"errors"

	"github.com/google/wire"
	"github.com/nats-io/nats.go"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/weegigs/wee-counter-go/internal"
	"github.com/weegigs/wee-counter-go/we"
)

var Live = wire.NewSet(
	Connect,
	ProvideEventStore,
	wire.Bind(new(we.EventStore), new(*EventStore)),
)

type EventStoreOption func(*EventStore)

func WithClock(clock we.Clock) EventStoreOption {
	return func(store *EventStore) {
		store.clock = clock
	}
}

type StreamName string

type ServerURL string

// Each aggregate is one subject; the stream captures them all.
const subjectPrefix = "change-set."

func subject(id we.AggregateId) string {
	return subjectPrefix + id.Encode().String()
}

// Connect opens a NATS connection. The returned cleanup drains it.
func Connect(url ServerURL) (*nats.Conn, func(), error) {
	connection, err := nats.Connect(string(url))
	if err != nil {
		return nil, nil, pkgerrors.Wrapf(err, "failed to connect to %s", url)
	}

	return connection, func() {
		if err := connection.Drain(); err != nil {
			log.Err(err).Msg("nats connection failed to drain cleanly")
		}
	}, nil
}

func ProvideEventStore(name StreamName, connection *nats.Conn) (*EventStore, error) {
	return NewEventStore(name, connection)
}

// NewEventStore binds to the named stream, creating it when it does not exist yet.
func NewEventStore(name StreamName, connection *nats.Conn, options ...EventStoreOption) (*EventStore, error) {
	js, err := connection.JetStream()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "jetstream unavailable")
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:        string(name),
		Description: "contract change sets",
		Subjects:    []string{subjectPrefix + ">"},
	})
	if err != nil && !errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
		return nil, pkgerrors.Wrapf(err, "failed to create stream %s", name)
	}

	store := &EventStore{
		name: string(name),
		js:   js,
	}

	for _, option := range options {
		option(store)
	}

	if store.clock == nil {
		store.clock = we.SystemClock{}
	}

	if store.id == nil {
		store.id = NewRevisionIdGenerator(store.clock)
	}

	return store, nil
}

type EventStore struct {
	name  string
	js    nats.JetStreamContext
	clock we.Clock
	id    IDGenerator
}

func (es *EventStore) Publish(ctx context.Context, aggregateId we.AggregateId, options we.PublishOptions, events ...we.DomainEvent) error {
	if len(events) == 0 {
		return errors.New("attempted to publish empty list of events")
	}

	cs := ChangeSet{
		Aggregate: aggregateId,
		Metadata:  options.RecordedEventMetadata,
		Events:    make([]ChangeRecord, len(events)),
	}

	for i, event := range events {
		data, err := we.MarshalToData(event)
		if err != nil {
			return err
		}

		cs.Events[i] = ChangeRecord{
			EventID:   es.id.Create(),
			EventType: we.EventTypeOf(event),
			Data:      data,
		}
	}

	body, err := encodeChangeSet(cs)
	if err != nil {
		return err
	}

	opts, err := expectations(ctx, options.ExpectedRevision)
	if err != nil {
		return err
	}

	if _, err := es.js.Publish(subject(aggregateId), body, opts...); err != nil {
		var api *nats.APIError
		if errors.As(err, &api) && api.ErrorCode == nats.JSErrCodeStreamWrongLastSequence {
			return we.RevisionConflict
		}

		return pkgerrors.Wrap(err, "failed to publish change set")
	}

	return nil
}

// expectations turns an expected revision into a last-sequence-per-subject check. An empty
// expectation publishes unconditionally.
func expectations(ctx context.Context, expected we.Revision) ([]nats.PubOpt, error) {
	opts := []nats.PubOpt{nats.Context(ctx)}

	switch expected {
	case "":
		return opts, nil
	case we.InitialRevision:
		return append(opts, nats.ExpectLastSequencePerSubject(0)), nil
	}

	position, err := internal.PositionOf(expected)
	if err != nil {
		return nil, err
	}

	return append(opts, nats.ExpectLastSequencePerSubject(position.Sequence)), nil
}

func (es *EventStore) Load(ctx context.Context, id we.AggregateId) (we.Aggregate, error) {
	events, err := es.read(ctx, subject(id))
	if err != nil {
		return we.Aggregate{}, err
	}

	return we.Aggregate{
		Id:       id,
		Events:   events,
		Revision: we.RevisionOf(events),
	}, nil
}

// read replays every change set on the subject up to the last sequence present when the read
// started.
func (es *EventStore) read(ctx context.Context, subject string) ([]we.RecordedEvent, error) {
	last, err := es.js.GetLastMsg(es.name, subject, nats.Context(ctx))
	if errors.Is(err, nats.ErrMsgNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to find last change set")
	}

	subscription, err := es.js.SubscribeSync(subject, nats.DeliverAll(), nats.OrderedConsumer())
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to subscribe")
	}
	defer func() {
		if err := subscription.Unsubscribe(); err != nil {
			log.Err(err).Msg("ephemeral stream subscription failed to unsubscribe cleanly")
		}
	}()

	var events []we.RecordedEvent
	for {
		msg, err := subscription.NextMsgWithContext(ctx)
		if err != nil {
			return nil, err
		}

		metadata, err := msg.Metadata()
		if err != nil {
			return nil, err
		}

		cs, err := decodeChangeSet(msg.Data)
		if err != nil {
			return nil, err
		}

		recorded, err := cs.Recorded(metadata)
		if err != nil {
			return nil, err
		}
		events = append(events, recorded...)

		if metadata.Sequence.Stream >= last.Sequence {
			return events, nil
		}
	}
}
