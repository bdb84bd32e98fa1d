package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Serves counter queries behind API Gateway. The events table comes from
// DYNAMODB_EVENTS_TABLE_NAME.
func main() {
	if level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && level != zerolog.NoLevel {
		zerolog.SetGlobalLevel(level)
	}

	handler, cleanup, err := live(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure query handler")
	}
	defer cleanup()

	lambda.Start(handler)
}
