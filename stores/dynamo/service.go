package dynamo

import (
	"context"
	"errors"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/wire"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"

	"github.com/weegigs/wee-counter-go/support"
	"github.com/weegigs/wee-counter-go/we"
)

var Live = wire.NewSet(
	support.AWSConfig,
	Client,
	NewEventStore,
	wire.Bind(new(we.EventStore), new(*DynamoEventStore)),
)

var Local = wire.NewSet(
	LocalDynamoStore,
	wire.Bind(new(we.EventStore), new(*DynamoEventStore)),
)

var Test = wire.NewSet(
	TestStore,
	wire.Bind(new(we.EventStore), new(*DynamoEventStore)),
)

const tableNameVariable = "DYNAMODB_EVENTS_TABLE_NAME"

// LiveEventsTableName reads the table name from DYNAMODB_EVENTS_TABLE_NAME.
func LiveEventsTableName() (EventsTableName, error) {
	table := os.Getenv(tableNameVariable)
	if len(table) == 0 {
		return "", errors.New(tableNameVariable + " is not set")
	}

	return EventsTableName(table), nil
}

func LocalEventsTableName() EventsTableName {
	return EventsTableName("wee-events")
}

func TestStore(ctx context.Context) (*DynamoEventStore, func(), error) {
	return DynamoTestStore(ctx)
}

func Client(cfg aws.Config) *dynamodb.Client {
	otelaws.AppendMiddlewares(&cfg.APIOptions)
	return dynamodb.NewFromConfig(cfg)
}
