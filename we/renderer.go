package we

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Reducers[T any] map[EventType]Reducer[T]

// Renderer folds an aggregate's events into an entity. Events without a reducer are skipped.
type Renderer[T any] struct {
	Reducers Reducers[T]
}

func (r *Renderer[T]) Render(ctx context.Context, aggregate Aggregate) (Entity[T], error) {
	var state T

	_, span := otel.Tracer(tracerName).Start(ctx, fmt.Sprintf("render %s", NameOf(state)))
	defer span.End()
	span.SetAttributes(
		attribute.String("aggregate", aggregate.Id.String()),
		attribute.Int("events", len(aggregate.Events)),
	)

	for i := range aggregate.Events {
		event := &aggregate.Events[i]
		reducer, ok := r.Reducers[event.EventType]
		if !ok {
			continue
		}

		if err := reducer.Reduce(&state, event); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return Entity[T]{}, errors.Wrapf(err, "failed to render %s", aggregate.Id)
		}
	}

	return Entity[T]{
		Aggregate: aggregate.Id,
		Revision:  aggregate.Revision,
		Type:      EntityTypeOf(state),
		State:     &state,
	}, nil
}
