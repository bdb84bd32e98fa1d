package we

import (
	"bytes"
	"context"
	stdjson "encoding/json"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// MessageInfo describes who sent a message.
type MessageInfo struct {
	Sender string `json:"sender"`
}

// Validator is implemented by messages with constraints beyond their shape, such as tagged
// unions that must carry exactly one variant.
type Validator interface {
	Validate() error
}

// DecodeMessage strictly decodes a JSON message into v. Unknown or duplicate fields, keys
// that differ from their tags in case, trailing data and failed validation all produce a
// *DecodeError.
func DecodeMessage(ctx context.Context, data []byte, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := Strict(data, v); err != nil {
		return DecodeFailure(NameOf(v), err)
	}

	if validator, ok := v.(Validator); ok {
		if err := validator.Validate(); err != nil {
			return DecodeFailure(NameOf(v), err)
		}
	}

	return nil
}

// Strict decodes the JSON object in data into v. Types implementing json.Unmarshaler decode
// themselves, usually starting from Object. Structs only accept their exact field tags.
func Strict(data []byte, v any) error {
	fields, err := Object(data)
	if err != nil {
		return err
	}

	if unmarshaler, ok := v.(json.Unmarshaler); ok {
		return unmarshaler.UnmarshalJSON(data)
	}

	if tags, ok := tagsOf(v); ok {
		if err := KnownFields(fields, tags...); err != nil {
			return err
		}
	}

	return json.Unmarshal(data, v)
}

// Object splits a single JSON object into its raw fields. Keys are unique and nothing but
// whitespace may follow the object.
func Object(data []byte) (map[string]json.RawMessage, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty message")
	}

	decoder := stdjson.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	open, err := decoder.Token()
	if err != nil {
		return nil, errors.Wrap(err, "malformed message")
	}
	if open != stdjson.Delim('{') {
		return nil, errors.New("expected a JSON object")
	}

	fields := map[string]json.RawMessage{}
	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return nil, errors.Wrap(err, "malformed message")
		}

		key := token.(string)
		if _, exists := fields[key]; exists {
			return nil, fmt.Errorf("duplicate field %q", key)
		}

		var raw stdjson.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			return nil, errors.Wrapf(err, "malformed field %q", key)
		}
		fields[key] = json.RawMessage(raw)
	}

	if _, err := decoder.Token(); err != nil {
		return nil, errors.Wrap(err, "malformed message")
	}

	if _, err := decoder.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after message")
	}

	return fields, nil
}

// KnownFields fails on the first key that is not one of known.
func KnownFields(fields map[string]json.RawMessage, known ...string) error {
	for key := range fields {
		if !slices.Contains(known, key) {
			return fmt.Errorf("unknown field %q", key)
		}
	}

	return nil
}

// tagsOf lists the JSON keys a struct decodes. It reports false for maps and other values
// that accept any key.
func tagsOf(v any) ([]string, bool) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, false
	}

	tags := []string{}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		switch name {
		case "-":
			continue
		case "":
			name = field.Name
		}
		tags = append(tags, name)
	}

	return tags, true
}

// Variant is implemented by tagged union messages.
type Variant interface {
	Variant() string
}

// VariantOf returns the wire tag of a tagged union message, or its type name.
func VariantOf(msg any) string {
	if v, ok := msg.(Variant); ok {
		return v.Variant()
	}

	return NameOf(msg)
}
