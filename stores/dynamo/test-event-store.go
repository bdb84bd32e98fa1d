package dynamo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/testcontainers/testcontainers-go"

	"github.com/weegigs/wee-counter-go/internal"
)

// DynamoTestStore starts dynamodb-local in a container and returns a store on a fresh table.
func DynamoTestStore(ctx context.Context) (*DynamoEventStore, func(), error) {
	endpoint, teardown, err := internal.StartContainer(ctx, testcontainers.ContainerRequest{
		Image: "amazon/dynamodb-local",
	}, "8000/tcp")
	if err != nil {
		return nil, nil, err
	}

	cfg, err := endpointConfig(ctx, "http://"+endpoint)
	if err != nil {
		teardown()
		return nil, nil, err
	}

	client := dynamodb.NewFromConfig(cfg)
	if err := createTable(ctx, client, "test-events"); err != nil {
		teardown()
		return nil, nil, err
	}

	return NewEventStore(client, "test-events"), teardown, nil
}
