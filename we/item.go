package we

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Item is a typed, JSON encoded value stored under a single fixed key.
type Item[T any] struct {
	key string
}

func NewItem[T any](key string) Item[T] {
	return Item[T]{key: key}
}

func (i Item[T]) Key() string {
	return i.key
}

func (i Item[T]) Load(ctx context.Context, store ReadStore) (T, error) {
	var value T

	raw, err := store.Get(ctx, i.key)
	if err != nil {
		return value, err
	}

	if err := json.Unmarshal(raw, &value); err != nil {
		return value, StoreFailure("decode", errors.Wrapf(err, "failed to decode %s", i.key))
	}

	return value, nil
}

// May loads the item, reporting ok=false instead of a NotFoundError when it was never saved.
func (i Item[T]) May(ctx context.Context, store ReadStore) (value T, ok bool, err error) {
	value, err = i.Load(ctx, store)
	if err != nil {
		if IsNotFound(err) {
			return value, false, nil
		}
		return value, false, err
	}

	return value, true, nil
}

func (i Item[T]) Save(ctx context.Context, store Store, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return StoreFailure("encode", errors.Wrapf(err, "failed to encode %s", i.key))
	}

	return store.Set(ctx, i.key, raw)
}
