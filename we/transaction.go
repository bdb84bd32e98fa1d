package we

import (
	"context"
)

type SlotWrite struct {
	Key   string `json:"key"`
	Value []byte `json:"value"`
}

// Transaction buffers the writes of a single invocation on top of committed state. Reads see
// the invocation's own writes. Nothing reaches the event store until the host commits
// Writes() as one change set.
type Transaction struct {
	base   ReadStore
	writes map[string][]byte
	order  []string
}

func NewTransaction(base ReadStore) *Transaction {
	return &Transaction{
		base:   base,
		writes: make(map[string][]byte),
	}
}

func (t *Transaction) Get(ctx context.Context, key string) ([]byte, error) {
	if value, ok := t.writes[key]; ok {
		return clone(value), nil
	}

	return t.base.Get(ctx, key)
}

func (t *Transaction) Set(_ context.Context, key string, value []byte) error {
	if _, ok := t.writes[key]; !ok {
		t.order = append(t.order, key)
	}

	t.writes[key] = clone(value)
	return nil
}

// Writes returns the buffered writes in first-write order, last value wins.
func (t *Transaction) Writes() []SlotWrite {
	writes := make([]SlotWrite, len(t.order))
	for i, key := range t.order {
		writes[i] = SlotWrite{Key: key, Value: clone(t.writes[key])}
	}

	return writes
}

func (t *Transaction) Dirty() bool {
	return len(t.order) > 0
}

// Discard drops every buffered write.
func (t *Transaction) Discard() {
	t.writes = make(map[string][]byte)
	t.order = nil
}
