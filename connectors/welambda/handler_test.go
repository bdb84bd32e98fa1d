package welambda

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weegigs/wee-counter-go/connectors/wehttp"
	"github.com/weegigs/wee-counter-go/counter"
	"github.com/weegigs/wee-counter-go/stores/memory"
	"github.com/weegigs/wee-counter-go/we"
)

func request(key string, body string) events.APIGatewayV2HTTPRequest {
	return events.APIGatewayV2HTTPRequest{
		PathParameters: map[string]string{"type": counter.Name, "key": key},
		Body:           body,
	}
}

func TestQueryHandler(t *testing.T) {
	ctx := context.Background()
	service := we.NewContractService(counter.Contract(), memory.NewEventStore())
	handler := NewQueryHandler(wehttp.Contracts{counter.Name: service})

	_, err := counter.NewClient(service).Instantiate(ctx, "alpha", "creator", 11)
	require.NoError(t, err)

	t.Run("queries the instance", func(t *testing.T) {
		response, err := handler(ctx, request("alpha", `{"value":{}}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, response.StatusCode)
		assert.JSONEq(t, `{"value":11}`, response.Body)
	})

	t.Run("accepts base64 bodies", func(t *testing.T) {
		event := request("alpha", base64.StdEncoding.EncodeToString([]byte(`{"value":{}}`)))
		event.IsBase64Encoded = true

		response, err := handler(ctx, event)
		require.NoError(t, err)
		assert.JSONEq(t, `{"value":11}`, response.Body)
	})

	t.Run("maps errors to statuses", func(t *testing.T) {
		response, err := handler(ctx, request("beta", `{"value":{}}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, response.StatusCode)

		response, err = handler(ctx, request("alpha", `{"owner":{}}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, response.StatusCode)
		assert.Contains(t, response.Body, `"kind":"decode_error"`)
	})

	t.Run("requires path parameters", func(t *testing.T) {
		response, err := handler(ctx, events.APIGatewayV2HTTPRequest{})
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, response.StatusCode)
	})
}
