package we

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// EntityLoader reads an aggregate from an event store and renders it.
type EntityLoader[T any] struct {
	Loader   EventLoader
	Renderer *Renderer[T]
}

func NewInstanceLoader(store EventStore) *EntityLoader[Instance] {
	return &EntityLoader[Instance]{
		Loader:   store.Load,
		Renderer: &Renderer[Instance]{Reducers: InstanceReducers()},
	}
}

func (s *EntityLoader[T]) Load(ctx context.Context, id AggregateId) (Entity[T], error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "load entity")
	defer span.End()
	span.SetAttributes(attribute.String("aggregate", id.String()))

	aggregate, err := s.Loader(ctx, id)
	if err != nil {
		return Entity[T]{}, errors.Wrapf(err, "failed to load %s", id)
	}

	return s.Renderer.Render(ctx, aggregate)
}
