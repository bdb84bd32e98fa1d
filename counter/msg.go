package counter

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/weegigs/wee-counter-go/we"
)

var (
	errNoVariant    = errors.New("expected exactly one variant")
	errMissingValue = errors.New("missing field counter_value")
	errNotEmpty     = errors.New("variant takes no fields")
)

// empty accepts only a JSON object without fields.
func empty(data []byte) error {
	fields, err := we.Object(data)
	if err != nil {
		return err
	}

	if len(fields) > 0 {
		return errNotEmpty
	}

	return nil
}

// counterValue reads the single counter_value field as an unsigned 64 bit integer literal.
func counterValue(data []byte) (uint64, error) {
	fields, err := we.Object(data)
	if err != nil {
		return 0, err
	}

	if err := we.KnownFields(fields, "counter_value"); err != nil {
		return 0, err
	}

	raw, ok := fields["counter_value"]
	if !ok {
		return 0, errMissingValue
	}

	value, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("counter_value %s is not an unsigned 64 bit integer", raw)
	}

	return value, nil
}

// variant splits a tagged union into its single tag and body.
func variant(data []byte, tags ...string) (string, []byte, error) {
	fields, err := we.Object(data)
	if err != nil {
		return "", nil, err
	}

	if len(fields) != 1 {
		return "", nil, errNoVariant
	}

	for tag, body := range fields {
		if !slices.Contains(tags, tag) {
			return "", nil, fmt.Errorf("unknown variant %q", tag)
		}
		return tag, body, nil
	}

	return "", nil, errNoVariant
}

// InstantiateMsg sets the initial counter value.
type InstantiateMsg struct {
	CounterValue uint64 `json:"counter_value"`
}

func (m *InstantiateMsg) UnmarshalJSON(data []byte) error {
	value, err := counterValue(data)
	if err != nil {
		return err
	}

	m.CounterValue = value
	return nil
}

// ExecuteMsg is a tagged union, exactly one of its fields is set.
type ExecuteMsg struct {
	Increment *Increment `json:"increment,omitempty"`
	Reset     *Reset     `json:"reset,omitempty"`
}

func (m *ExecuteMsg) UnmarshalJSON(data []byte) error {
	tag, body, err := variant(data, "increment", "reset")
	if err != nil {
		return err
	}

	switch tag {
	case "increment":
		var increment Increment
		if err := increment.UnmarshalJSON(body); err != nil {
			return err
		}
		*m = ExecuteMsg{Increment: &increment}
	case "reset":
		var reset Reset
		if err := reset.UnmarshalJSON(body); err != nil {
			return err
		}
		*m = ExecuteMsg{Reset: &reset}
	}

	return nil
}

func (m ExecuteMsg) MarshalJSON() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	if m.Increment != nil {
		return []byte(`{"increment":{}}`), nil
	}

	return []byte(`{"reset":{"counter_value":` + strconv.FormatUint(m.Reset.CounterValue, 10) + `}}`), nil
}

type Increment struct{}

func (m *Increment) UnmarshalJSON(data []byte) error {
	return empty(data)
}

type Reset struct {
	CounterValue uint64 `json:"counter_value"`
}

func (m *Reset) UnmarshalJSON(data []byte) error {
	value, err := counterValue(data)
	if err != nil {
		return err
	}

	m.CounterValue = value
	return nil
}

func (m ExecuteMsg) Validate() error {
	variants := 0
	if m.Increment != nil {
		variants++
	}
	if m.Reset != nil {
		variants++
	}

	if variants != 1 {
		return errNoVariant
	}

	return nil
}

func (m ExecuteMsg) Variant() string {
	switch {
	case m.Increment != nil:
		return "increment"
	case m.Reset != nil:
		return "reset"
	default:
		return ""
	}
}

// QueryMsg is a tagged union with a single variant.
type QueryMsg struct {
	Value *ValueQuery `json:"value,omitempty"`
}

func (m *QueryMsg) UnmarshalJSON(data []byte) error {
	_, body, err := variant(data, "value")
	if err != nil {
		return err
	}

	var query ValueQuery
	if err := query.UnmarshalJSON(body); err != nil {
		return err
	}

	*m = QueryMsg{Value: &query}
	return nil
}

func (m QueryMsg) MarshalJSON() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	return []byte(`{"value":{}}`), nil
}

type ValueQuery struct{}

func (m *ValueQuery) UnmarshalJSON(data []byte) error {
	return empty(data)
}

func (m QueryMsg) Validate() error {
	if m.Value == nil {
		return errNoVariant
	}

	return nil
}

func (m QueryMsg) Variant() string {
	if m.Value != nil {
		return "value"
	}

	return ""
}

type ValueResponse struct {
	Value uint64 `json:"value"`
}
