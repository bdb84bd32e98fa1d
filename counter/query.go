package counter

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/weegigs/wee-counter-go/we"
)

func value(ctx context.Context, store we.ReadStore) ([]byte, error) {
	current, err := Counter.Load(ctx, store)
	if err != nil {
		return nil, err
	}

	result, err := json.Marshal(ValueResponse{Value: current})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode value response")
	}

	return result, nil
}
