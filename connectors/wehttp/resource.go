package wehttp

import (
	"github.com/goccy/go-json"

	"github.com/weegigs/wee-counter-go/we"
)

// InstanceResource is the HTTP view of a rendered instance. Slot values are JSON documents
// and are embedded as is.
type InstanceResource struct {
	Id         we.EncodedAggregateId      `json:"$id"`
	Type       we.EntityType              `json:"$type"`
	Revision   we.Revision                `json:"$revision"`
	Contract   string                     `json:"contract"`
	Creator    string                     `json:"creator"`
	Executions uint64                     `json:"executions"`
	Slots      map[string]json.RawMessage `json:"slots"`
}

func NewInstanceResource(entity we.Entity[we.Instance]) InstanceResource {
	resource := InstanceResource{
		Id:       entity.Aggregate.Encode(),
		Type:     entity.Type,
		Revision: entity.Revision,
		Slots:    map[string]json.RawMessage{},
	}

	if entity.State == nil {
		return resource
	}

	resource.Contract = entity.State.Contract
	resource.Creator = entity.State.Creator
	resource.Executions = entity.State.Executions

	for _, key := range entity.State.Keys() {
		value := entity.State.Slots[key]
		if json.Valid(value) {
			resource.Slots[key] = value
			continue
		}

		encoded, err := json.Marshal(value)
		if err != nil {
			continue
		}
		resource.Slots[key] = encoded
	}

	return resource
}
