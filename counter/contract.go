package counter

import (
	"context"

	"github.com/weegigs/wee-counter-go/we"
)

const Name = "counter"

func Instantiate(ctx context.Context, store we.Store, _ we.MessageInfo, msg InstantiateMsg) (we.Response, error) {
	if err := Counter.Save(ctx, store, msg.CounterValue); err != nil {
		return we.Response{}, err
	}

	return we.NewResponse(), nil
}

func Execute(ctx context.Context, store we.Store, info we.MessageInfo, msg ExecuteMsg) (we.Response, error) {
	switch {
	case msg.Increment != nil:
		return increment(ctx, store, info)
	case msg.Reset != nil:
		return reset(ctx, store, info, msg.Reset.CounterValue)
	default:
		return we.Response{}, we.DecodeFailure(we.NameOf(msg), errNoVariant)
	}
}

func Query(ctx context.Context, store we.ReadStore, msg QueryMsg) ([]byte, error) {
	switch {
	case msg.Value != nil:
		return value(ctx, store)
	default:
		return nil, we.DecodeFailure(we.NameOf(msg), errNoVariant)
	}
}

// Contract returns the counter with raw message entry points.
func Contract() we.Contract {
	return we.NewContract[InstantiateMsg, ExecuteMsg, QueryMsg](Name, Instantiate, Execute, Query)
}

// InstanceId addresses the counter instance at address.
func InstanceId(address string) we.AggregateId {
	return we.AggregateId{Type: Name, Key: address}
}
