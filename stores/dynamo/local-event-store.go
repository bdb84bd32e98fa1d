package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"
)

// LocalDynamoStore connects to dynamodb-local on localhost:8000, creating the events table
// when it is missing.
func LocalDynamoStore(ctx context.Context) (*DynamoEventStore, error) {
	tableName := LocalEventsTableName()

	cfg, err := endpointConfig(ctx, localEndpoint)
	if err != nil {
		return nil, err
	}

	client := dynamodb.NewFromConfig(cfg)

	exists, err := tableExists(ctx, client, tableName.String())
	if err != nil {
		return nil, err
	}

	if !exists {
		if err := createTable(ctx, client, tableName.String()); err != nil {
			return nil, err
		}
	}

	return NewEventStore(client, tableName), nil
}

const localEndpoint = "http://localhost:8000"

// endpointConfig points the DynamoDB client at a dynamodb-local instance. Credentials are
// required by the SDK but ignored by the server.
func endpointConfig(ctx context.Context, endpoint string) (aws.Config, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			if service != dynamodb.ServiceID {
				return aws.Endpoint{}, fmt.Errorf("no local endpoint for %s", service)
			}
			return aws.Endpoint{PartitionID: "aws", URL: endpoint, SigningRegion: region}, nil
		},
	)

	return config.LoadDefaultConfig(ctx,
		config.WithRegion("us-east-1"),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("local", "local", "")),
	)
}

func tableExists(ctx context.Context, client *dynamodb.Client, name string) (bool, error) {
	required := &dynamodb.DescribeTableInput{TableName: aws.String(name)}
	description, err := client.DescribeTable(ctx, required)
	if err != nil {
		var errorType *types.ResourceNotFoundException
		if errors.As(err, &errorType) {
			return false, nil
		}
		return false, err
	}

	if description.Table.TableStatus != types.TableStatusActive {
		return false, errors.New("events table exists but is not active")
	}

	return true, nil
}

func createTable(ctx context.Context, client *dynamodb.Client, table string) error {
	log.Info().Str("table", table).Msg("creating events table")

	_, err := client.CreateTable(ctx, tableDefinition(table))
	if err != nil {
		return err
	}

	return waitForTable(ctx, client, table)
}

func tableDefinition(table string) *dynamodb.CreateTableInput {
	return &dynamodb.CreateTableInput{
		TableName: aws.String(table),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("pk"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("sk"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("pk"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("sk"), KeyType: types.KeyTypeRange},
		},
		BillingMode: types.BillingModePayPerRequest,
	}
}

func waitForTable(ctx context.Context, client *dynamodb.Client, name string) error {
	required := &dynamodb.DescribeTableInput{TableName: aws.String(name)}
	return dynamodb.NewTableExistsWaiter(client).Wait(ctx, required, 2*time.Minute)
}
