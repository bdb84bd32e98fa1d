package we

import "github.com/pkg/errors"

type Reducer[T any] interface {
	Reduce(state *T, evt *RecordedEvent) error
}

// ReducerFunction decodes the recorded payload as E before applying it to the state.
type ReducerFunction[T any, E any] func(state *T, evt *E) error

func (f ReducerFunction[T, E]) Reduce(state *T, evt *RecordedEvent) error {
	var event E
	if err := UnmarshalFromData(evt.Data, &event); err != nil {
		return errors.Wrapf(err, "failed to decode %s event %s", evt.EventType, evt.EventID)
	}

	return f(state, &event)
}
