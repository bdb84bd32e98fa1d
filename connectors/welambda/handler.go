package welambda

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/weegigs/wee-counter-go/connectors/wehttp"
	"github.com/weegigs/wee-counter-go/we"
)

type GatewayHandler = func(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

// NewQueryHandler answers API Gateway requests for /{type}/{key} by running the request body as
// a query against the instance.
func NewQueryHandler(contracts wehttp.Contracts) GatewayHandler {
	return func(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		t := event.PathParameters["type"]
		key := event.PathParameters["key"]

		if t == "" || key == "" {
			return failure(we.DecodeFailure("path", nil)), nil
		}

		contract, ok := contracts[t]
		if !ok {
			return failure(we.NotFound(t)), nil
		}

		body := []byte(event.Body)
		if event.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(event.Body)
			if err != nil {
				return failure(we.DecodeFailure("request body", err)), nil
			}
			body = decoded
		}

		result, err := contract.Query(ctx, we.AggregateId{Type: t, Key: key}, body)
		if err != nil {
			log.Ctx(ctx).Info().Err(err).Str("type", t).Str("key", key).Msg("query failed")
			return failure(err), nil
		}

		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusOK,
			Headers:    jsonHeaders,
			Body:       string(result),
		}, nil
	}
}

func failure(err error) events.APIGatewayV2HTTPResponse {
	kind := we.ErrorKind(err)
	body, _ := json.Marshal(wehttp.ErrorBody{Kind: kind, Error: err.Error()})

	return events.APIGatewayV2HTTPResponse{
		StatusCode: wehttp.StatusOf(kind),
		Headers:    jsonHeaders,
		Body:       string(body),
	}
}
