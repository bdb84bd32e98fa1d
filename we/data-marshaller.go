package we

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const JSONEncoding = "application/json"

type InvalidEncodingError struct {
	Expected string
	Actual   string
}

func (e *InvalidEncodingError) Error() string {
	return fmt.Sprintf("expected encoding %s, got %s", e.Expected, e.Actual)
}

func InvalidEncoding(expected string, actual string) error {
	return &InvalidEncodingError{
		Expected: expected,
		Actual:   actual,
	}
}

func MarshalToData(event DomainEvent) (Data, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return Data{}, errors.Wrapf(err, "failed to encode %s", EventTypeOf(event))
	}

	return Data{
		Encoding: JSONEncoding,
		Data:     data,
	}, nil
}

func UnmarshalFromData(data Data, value any) error {
	if data.Encoding != JSONEncoding {
		return InvalidEncoding(JSONEncoding, data.Encoding)
	}
	return json.Unmarshal(data.Data, value)
}
