package we

type Aggregate struct {
	Id       AggregateId     `json:"id"`
	Events   []RecordedEvent `json:"events,omitempty"`
	Revision Revision        `json:"revision"`
}

func RevisionOf(events []RecordedEvent) Revision {
	count := len(events)
	if count == 0 {
		return InitialRevision
	}

	return events[count-1].Revision
}
