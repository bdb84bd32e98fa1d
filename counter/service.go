package counter

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/google/wire"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/weegigs/wee-counter-go/we"
)

var Service = wire.NewSet(
	Contract,
	ProvideService,
)

func ProvideService(contract we.Contract, store we.EventStore, metrics *we.Metrics, logger *zerolog.Logger) we.ContractService {
	return we.NewContractService(contract, store, we.WithMetrics(metrics), we.WithLogger(logger))
}

// Client calls counter instances with typed messages.
type Client struct {
	service we.ContractService
}

func NewClient(service we.ContractService) *Client {
	return &Client{service: service}
}

func (c *Client) Instantiate(ctx context.Context, address string, sender string, value uint64) (we.Response, error) {
	msg, err := json.Marshal(InstantiateMsg{CounterValue: value})
	if err != nil {
		return we.Response{}, errors.Wrap(err, "failed to encode instantiate message")
	}

	return c.service.Instantiate(ctx, InstanceId(address), we.MessageInfo{Sender: sender}, msg)
}

func (c *Client) Increment(ctx context.Context, address string, sender string) (we.Response, error) {
	return c.execute(ctx, address, sender, ExecuteMsg{Increment: &Increment{}})
}

func (c *Client) Reset(ctx context.Context, address string, sender string, value uint64) (we.Response, error) {
	return c.execute(ctx, address, sender, ExecuteMsg{Reset: &Reset{CounterValue: value}})
}

func (c *Client) Value(ctx context.Context, address string) (uint64, error) {
	msg, err := json.Marshal(QueryMsg{Value: &ValueQuery{}})
	if err != nil {
		return 0, errors.Wrap(err, "failed to encode query message")
	}

	result, err := c.service.Query(ctx, InstanceId(address), msg)
	if err != nil {
		return 0, err
	}

	var response ValueResponse
	if err := json.Unmarshal(result, &response); err != nil {
		return 0, errors.Wrap(err, "failed to decode value response")
	}

	return response.Value, nil
}

func (c *Client) execute(ctx context.Context, address string, sender string, message ExecuteMsg) (we.Response, error) {
	msg, err := json.Marshal(message)
	if err != nil {
		return we.Response{}, errors.Wrap(err, "failed to encode execute message")
	}

	return c.service.Execute(ctx, InstanceId(address), we.MessageInfo{Sender: sender}, msg)
}
