package eventstoredb

import (
	"context"

	"github.com/testcontainers/testcontainers-go"

	"github.com/weegigs/wee-counter-go/internal"
)

// NewESDBTestStore starts a single insecure EventStoreDB node in a container.
func NewESDBTestStore(ctx context.Context, options ...EventStoreOption) (*ESDBEventStore, func(), error) {
	endpoint, teardown, err := internal.StartContainer(ctx, testcontainers.ContainerRequest{
		Image: "eventstore/eventstore:latest",
		Env: map[string]string{
			"EVENTSTORE_CLUSTER_SIZE":               "1",
			"EVENTSTORE_RUN_PROJECTIONS":            "None",
			"EVENTSTORE_INSECURE":                   "true",
			"EVENTSTORE_HTTP_PORT":                  "2113",
			"EVENTSTORE_START_STANDARD_PROJECTIONS": "false",
		},
	}, "2113/tcp")
	if err != nil {
		return nil, nil, err
	}

	client, disconnect, err := Client(ConnectionString("esdb://admin:changeit@" + endpoint + "?tls=false"))
	if err != nil {
		teardown()
		return nil, nil, err
	}

	return NewEventStore(client, options...), func() {
		disconnect()
		teardown()
	}, nil
}
