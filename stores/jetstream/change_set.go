package jetstream

import (
	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"

	"github.com/weegigs/wee-counter-go/internal"
	"github.com/weegigs/wee-counter-go/we"
)

// ChangeSet is the body of one stream message: every event published by a single invocation.
// The message sequence and timestamp are assigned by the server and become the revisions.
type ChangeSet struct {
	Aggregate we.AggregateId           `json:"aggregate"`
	Metadata  we.RecordedEventMetadata `json:"metadata"`
	Events    []ChangeRecord           `json:"events"`
}

type ChangeRecord struct {
	EventID   we.EventID   `json:"id"`
	EventType we.EventType `json:"type"`
	Data      we.Data      `json:"data"`
}

func encodeChangeSet(cs ChangeSet) ([]byte, error) {
	data, err := json.Marshal(cs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode change set")
	}

	return data, nil
}

func decodeChangeSet(data []byte) (ChangeSet, error) {
	var cs ChangeSet
	if err := json.Unmarshal(data, &cs); err != nil {
		return ChangeSet{}, errors.Wrap(err, "failed to decode change set")
	}

	return cs, nil
}

// Recorded expands the change set into recorded events using the stream position of the
// message that carried it.
func (cs ChangeSet) Recorded(metadata *nats.MsgMetadata) ([]we.RecordedEvent, error) {
	timestamp := we.TimestampFromTime(metadata.Timestamp)

	recorded := make([]we.RecordedEvent, len(cs.Events))
	for i, event := range cs.Events {
		position := internal.Position{Sequence: metadata.Sequence.Stream, Index: uint16(i)}
		revision, err := position.Revision(metadata.Timestamp)
		if err != nil {
			return nil, err
		}

		recorded[i] = we.RecordedEvent{
			AggregateId: cs.Aggregate,
			EventID:     event.EventID,
			Revision:    revision,
			Timestamp:   timestamp,
			EventType:   event.EventType,
			Data:        event.Data,
			Metadata:    cs.Metadata,
		}
	}

	return recorded, nil
}
