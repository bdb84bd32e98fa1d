package counter

import (
	"context"
	"math"
	"strconv"

	"github.com/weegigs/wee-counter-go/we"
)

// increment adds one to the counter. At the maximum value the stored counter is re-read and
// written back unchanged rather than wrapping.
func increment(ctx context.Context, store we.Store, info we.MessageInfo) (we.Response, error) {
	value, err := Counter.Load(ctx, store)
	if err != nil {
		return we.Response{}, err
	}

	if value == math.MaxUint64 {
		value, err = Counter.Load(ctx, store)
		if err != nil {
			return we.Response{}, err
		}
	} else {
		value++
	}

	if err := Counter.Save(ctx, store, value); err != nil {
		return we.Response{}, err
	}

	return we.NewResponse().
		AddAttribute("action", "poke").
		AddAttribute("sender", info.Sender).
		AddAttribute("counter", strconv.FormatUint(value, 10)), nil
}

// reset overwrites the counter. Any sender may reset it.
func reset(ctx context.Context, store we.Store, info we.MessageInfo, value uint64) (we.Response, error) {
	if err := Counter.Save(ctx, store, value); err != nil {
		return we.Response{}, err
	}

	return we.NewResponse().
		AddAttribute("action", "reset").
		AddAttribute("sender", info.Sender).
		AddAttribute("counter", strconv.FormatUint(value, 10)), nil
}
