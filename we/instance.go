package we

import (
	"context"
	"sort"
)

const (
	InstantiatedEvent = EventType("we:instantiated")
	ExecutedEvent     = EventType("we:executed")
	SlotsWrittenEvent = EventType("we:slots-written")
)

type Instantiated struct {
	Contract string `json:"contract"`
	Sender   string `json:"sender"`
}

func (Instantiated) EventType() EventType {
	return InstantiatedEvent
}

type Executed struct {
	Sender     string      `json:"sender"`
	Attributes []Attribute `json:"attributes"`
}

func (Executed) EventType() EventType {
	return ExecutedEvent
}

type SlotsWritten struct {
	Writes []SlotWrite `json:"writes"`
}

func (SlotsWritten) EventType() EventType {
	return SlotsWrittenEvent
}

// Instance is the committed state of a contract instance, rendered from its events.
type Instance struct {
	Contract     string            `json:"contract,omitempty"`
	Creator      string            `json:"creator,omitempty"`
	Instantiated bool              `json:"instantiated"`
	Executions   uint64            `json:"executions"`
	Slots        map[string][]byte `json:"slots,omitempty"`
}

func (i *Instance) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := i.Slots[key]
	if !ok {
		return nil, NotFound(key)
	}

	return clone(value), nil
}

func (i *Instance) Keys() []string {
	keys := make([]string, 0, len(i.Slots))
	for key := range i.Slots {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}

func InstanceReducers() Reducers[Instance] {
	var instantiated ReducerFunction[Instance, Instantiated] = func(state *Instance, evt *Instantiated) error {
		state.Instantiated = true
		state.Contract = evt.Contract
		state.Creator = evt.Sender
		return nil
	}

	var executed ReducerFunction[Instance, Executed] = func(state *Instance, evt *Executed) error {
		state.Executions++
		return nil
	}

	var written ReducerFunction[Instance, SlotsWritten] = func(state *Instance, evt *SlotsWritten) error {
		if state.Slots == nil {
			state.Slots = make(map[string][]byte, len(evt.Writes))
		}

		for _, write := range evt.Writes {
			state.Slots[write.Key] = write.Value
		}
		return nil
	}

	return Reducers[Instance]{
		InstantiatedEvent: instantiated,
		ExecutedEvent:     executed,
		SlotsWrittenEvent: written,
	}
}
