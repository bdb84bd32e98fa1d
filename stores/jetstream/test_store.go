package jetstream

import (
	"context"

	"github.com/testcontainers/testcontainers-go"

	"github.com/weegigs/wee-counter-go/internal"
)

// NewTestStore starts a JetStream enabled NATS server in a container.
func NewTestStore(ctx context.Context, options ...EventStoreOption) (*EventStore, func(), error) {
	endpoint, teardown, err := internal.StartContainer(ctx, testcontainers.ContainerRequest{
		Image: "nats:alpine",
		Cmd:   []string{"--jetstream"},
	}, "4222/tcp")
	if err != nil {
		return nil, nil, err
	}

	connection, disconnect, err := Connect(ServerURL("nats://" + endpoint))
	if err != nil {
		teardown()
		return nil, nil, err
	}

	store, err := NewEventStore("test", connection, options...)
	if err != nil {
		disconnect()
		teardown()
		return nil, nil, err
	}

	return store, func() {
		disconnect()
		teardown()
	}, nil
}
