package we

// Attribute is a key/value pair surfaced by execute calls for external observability.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Response is the result of a state transition. Attributes keep insertion order and are
// separate from Data.
type Response struct {
	Attributes []Attribute `json:"attributes"`
	Data       []byte      `json:"data,omitempty"`
}

func NewResponse() Response {
	return Response{Attributes: []Attribute{}}
}

func (r Response) AddAttribute(key string, value string) Response {
	attributes := make([]Attribute, len(r.Attributes), len(r.Attributes)+1)
	copy(attributes, r.Attributes)
	r.Attributes = append(attributes, Attribute{Key: key, Value: value})

	return r
}

func (r Response) WithData(data []byte) Response {
	r.Data = data
	return r
}

// Attribute returns the value of the first attribute named key.
func (r Response) Attribute(key string) (string, bool) {
	for _, attribute := range r.Attributes {
		if attribute.Key == key {
			return attribute.Value, true
		}
	}

	return "", false
}
