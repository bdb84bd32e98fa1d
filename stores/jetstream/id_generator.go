package jetstream

import (
	"github.com/weegigs/wee-counter-go/we"
)

// IDGenerator assigns event ids before a change set is published. Sequence numbers are only
// known after publishing, so ids cannot be derived from them.
type IDGenerator interface {
	Create() we.EventID
}

func WithIdGenerator(generator IDGenerator) EventStoreOption {
	return func(store *EventStore) {
		store.id = generator
	}
}

// RevisionIdGenerator issues monotonic ULID event ids from the store clock.
type RevisionIdGenerator struct {
	clock     we.Clock
	revisions *we.RevisionGenerator
}

func NewRevisionIdGenerator(clock we.Clock) *RevisionIdGenerator {
	return &RevisionIdGenerator{
		clock:     clock,
		revisions: we.NewRevisionGenerator(),
	}
}

func (g *RevisionIdGenerator) Create() we.EventID {
	return we.EventID(g.revisions.NewRevision(g.clock.Now()))
}
