package we

import (
	"context"
)

// Contract is the host-facing side of a state machine: three entry points taking raw
// messages.
type Contract interface {
	Name() string
	Instantiate(ctx context.Context, store Store, info MessageInfo, msg []byte) (Response, error)
	Execute(ctx context.Context, store Store, info MessageInfo, msg []byte) (Response, error)
	Query(ctx context.Context, store ReadStore, msg []byte) ([]byte, error)
}

type InstantiateFunction[M any] func(ctx context.Context, store Store, info MessageInfo, msg M) (Response, error)

type ExecuteFunction[M any] func(ctx context.Context, store Store, info MessageInfo, msg M) (Response, error)

type QueryFunction[M any] func(ctx context.Context, store ReadStore, msg M) ([]byte, error)

// ContractWrapper adapts typed entry points to Contract. Messages are decoded before the
// typed function is called, so handlers only ever see well formed messages.
type ContractWrapper[I any, E any, Q any] struct {
	name        string
	instantiate InstantiateFunction[I]
	execute     ExecuteFunction[E]
	query       QueryFunction[Q]
}

func NewContract[I any, E any, Q any](
	name string,
	instantiate InstantiateFunction[I],
	execute ExecuteFunction[E],
	query QueryFunction[Q],
) *ContractWrapper[I, E, Q] {
	return &ContractWrapper[I, E, Q]{
		name:        name,
		instantiate: instantiate,
		execute:     execute,
		query:       query,
	}
}

func (c *ContractWrapper[I, E, Q]) Name() string {
	return c.name
}

func (c *ContractWrapper[I, E, Q]) Instantiate(ctx context.Context, store Store, info MessageInfo, msg []byte) (Response, error) {
	var message I
	if err := DecodeMessage(ctx, msg, &message); err != nil {
		return Response{}, err
	}

	return c.instantiate(ctx, store, info, message)
}

func (c *ContractWrapper[I, E, Q]) Execute(ctx context.Context, store Store, info MessageInfo, msg []byte) (Response, error) {
	var message E
	if err := DecodeMessage(ctx, msg, &message); err != nil {
		return Response{}, err
	}

	return c.execute(ctx, store, info, message)
}

func (c *ContractWrapper[I, E, Q]) Query(ctx context.Context, store ReadStore, msg []byte) ([]byte, error) {
	var message Q
	if err := DecodeMessage(ctx, msg, &message); err != nil {
		return nil, err
	}

	return c.query(ctx, store, message)
}
