package eventstoredb

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/EventStore/EventStore-Client-Go/esdb"
	"github.com/goccy/go-json"
	"github.com/google/wire"
	"github.com/pkg/errors"

	"github.com/weegigs/wee-counter-go/we"
)

var Live = wire.NewSet(
	Client,
	ProvideEventStore,
	wire.Bind(new(we.EventStore), new(*ESDBEventStore)),
)

type ConnectionString string

// Client opens an EventStoreDB client. The cleanup closes it.
func Client(connection ConnectionString) (*esdb.Client, func(), error) {
	settings, err := esdb.ParseConnectionString(string(connection))
	if err != nil {
		return nil, nil, errors.Wrap(err, "invalid eventstoredb connection string")
	}

	client, err := esdb.NewClient(settings)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create eventstoredb client")
	}

	return client, func() { _ = client.Close() }, nil
}

type EventStoreOption func(*ESDBEventStore)

const defaultPageSize = 97

func PageSize(size int) EventStoreOption {
	return func(es *ESDBEventStore) {
		if size <= 0 {
			size = defaultPageSize
		}

		es.pageSize = size
	}
}

func ProvideEventStore(client *esdb.Client) *ESDBEventStore {
	return NewEventStore(client)
}

func NewEventStore(client *esdb.Client, options ...EventStoreOption) *ESDBEventStore {
	store := &ESDBEventStore{
		db:       client,
		pageSize: defaultPageSize,
	}

	for _, option := range options {
		option(store)
	}

	return store
}

type ESDBEventStore struct {
	db       *esdb.Client
	pageSize int
}

// Stream revisions start at zero, so recorded revisions are offset by one to keep zero for
// InitialRevision.
func encodeRevision(eventNumber uint64) we.Revision {
	return we.Revision(fmt.Sprintf("%026x", eventNumber+1))
}

func expectedRevision(revision we.Revision) (esdb.ExpectedRevision, error) {
	switch revision {
	case "":
		return esdb.Any{}, nil
	case we.InitialRevision:
		return esdb.NoStream{}, nil
	}

	r, err := strconv.ParseUint(revision.String(), 16, 64)
	if err != nil || r == 0 {
		return nil, errors.Errorf("invalid expected revision %s", revision)
	}

	return esdb.Revision(r - 1), nil
}

func (es *ESDBEventStore) Publish(ctx context.Context, aggregateId we.AggregateId, options we.PublishOptions, events ...we.DomainEvent) error {
	if len(events) == 0 {
		return errors.New("attempted to publish empty list of events")
	}

	streamId := aggregateId.Encode().String()
	metadata := map[string]string{}
	if options.RecordedEventMetadata.CorrelationId != "" {
		metadata["$correlationId"] = options.RecordedEventMetadata.CorrelationId.String()
	}
	if options.RecordedEventMetadata.CausationId != "" {
		metadata["$causationId"] = options.RecordedEventMetadata.CausationId.String()
	}

	var err error
	var md []byte
	if len(metadata) > 0 {
		md, err = json.Marshal(metadata)
		if err != nil {
			return errors.Wrap(err, "failed to marshal metadata")
		}
	}

	esevents := make([]esdb.EventData, len(events))
	for i, event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			return errors.Wrap(err, "failed to marshal event")
		}

		esevents[i] = esdb.EventData{
			ContentType: esdb.JsonContentType,
			EventType:   we.EventTypeOf(event).String(),
			Data:        data,
			Metadata:    md,
		}
	}

	revision, err := expectedRevision(options.ExpectedRevision)
	if err != nil {
		return err
	}

	_, err = es.db.AppendToStream(ctx, streamId, esdb.AppendToStreamOptions{ExpectedRevision: revision}, esevents...)
	if err != nil {
		if errors.Is(err, esdb.ErrWrongExpectedStreamRevision) {
			return we.RevisionConflict
		}

		return errors.Wrap(err, "failed to append to stream")
	}

	return nil
}

func (es *ESDBEventStore) Load(ctx context.Context, id we.AggregateId) (we.Aggregate, error) {
	var events []we.RecordedEvent

	var position esdb.StreamPosition = esdb.Start{}
	for {
		page, last, err := es.read(ctx, id, position)
		if err != nil {
			return we.Aggregate{}, err
		}
		events = append(events, page...)
		if len(page) < es.pageSize {
			break
		}

		position = last
	}

	return we.Aggregate{
		Id:       id,
		Events:   events,
		Revision: we.RevisionOf(events),
	}, nil
}

func (es *ESDBEventStore) read(ctx context.Context, aggregate we.AggregateId, from esdb.StreamPosition) ([]we.RecordedEvent, esdb.StreamPosition, error) {
	if revision, ok := from.(esdb.StreamRevision); ok {
		from = esdb.StreamRevision{
			Value: revision.Value + 1,
		}
	}

	streamId := aggregate.Encode().String()
	stream, err := es.db.ReadStream(
		ctx, streamId, esdb.ReadStreamOptions{
			From: from,
		}, uint64(es.pageSize),
	)
	if err != nil {
		if errors.Is(err, esdb.ErrStreamNotFound) || errors.Is(err, io.EOF) {
			return nil, esdb.End{}, nil
		}

		return nil, esdb.End{}, errors.Wrap(err, "failed to read stream")
	}
	defer stream.Close()

	var events []we.RecordedEvent
	var last esdb.StreamPosition

	for {
		event, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}

		if errors.Is(err, esdb.ErrStreamNotFound) {
			return nil, esdb.End{}, nil
		}

		if err != nil {
			return nil, esdb.End{}, errors.Wrap(err, "failed to read event")
		}

		e := event.OriginalEvent()

		var userMetadata map[string]string
		if len(e.UserMetadata) > 0 {
			if err := json.Unmarshal(e.UserMetadata, &userMetadata); err != nil {
				return nil, esdb.End{}, errors.Wrap(err, "failed to unmarshal metadata")
			}
		}

		recorded := we.RecordedEvent{
			AggregateId: aggregate,
			EventID:     we.EventID(e.EventID.String()),
			Revision:    encodeRevision(e.EventNumber),
			Timestamp:   we.TimestampFromTime(e.CreatedDate),
			EventType:   we.EventType(e.EventType),
			Data: we.Data{
				Encoding: e.ContentType,
				Data:     e.Data,
			},
			Metadata: we.RecordedEventMetadata{
				CorrelationId: we.CorrelationID(userMetadata["$correlationId"]),
				CausationId:   we.EventID(userMetadata["$causationId"]),
			},
		}

		events = append(events, recorded)

		last = esdb.Revision(e.EventNumber)
	}

	return events, last, nil
}
