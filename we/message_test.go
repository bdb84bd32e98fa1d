package we

import (
	"context"
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct {
	Left  *string `json:"left,omitempty"`
	Right *string `json:"right,omitempty"`
}

func (p pair) Validate() error {
	if (p.Left == nil) == (p.Right == nil) {
		return errors.New("expected exactly one side")
	}
	return nil
}

func (p pair) Variant() string {
	if p.Left != nil {
		return "left"
	}
	return "right"
}

func TestDecodeMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes a single variant", func(t *testing.T) {
		var msg pair
		require.NoError(t, DecodeMessage(ctx, []byte(`{"left":"l"}`), &msg))
		assert.Equal(t, "l", *msg.Left)
		assert.Equal(t, "left", VariantOf(msg))
	})

	cases := map[string]string{
		"empty":         ``,
		"whitespace":    `  `,
		"no variant":    `{}`,
		"two variants":  `{"left":"l","right":"r"}`,
		"unknown field": `{"up":"u"}`,
		"trailing data": `{"left":"l"} {"right":"r"}`,
		"malformed":     `{"left":`,
		"wrong case":    `{"Left":"l"}`,
		"duplicate":     `{"left":"l","left":"m"}`,
		"not an object": `["left"]`,
		"null":          `null`,
	}

	for name, data := range cases {
		t.Run("rejects "+name, func(t *testing.T) {
			var msg pair
			err := DecodeMessage(ctx, []byte(data), &msg)

			var decode *DecodeError
			require.ErrorAs(t, err, &decode)
			assert.Equal(t, "we:pair", decode.Message)
		})
	}

	t.Run("names untagged messages by type", func(t *testing.T) {
		assert.Equal(t, "we:message-info", VariantOf(MessageInfo{}))
	})
}

func TestObject(t *testing.T) {
	t.Run("splits fields keeping raw values", func(t *testing.T) {
		fields, err := Object([]byte(` {"a": 1, "b": {"c": [true]}} `))
		require.NoError(t, err)
		assert.Equal(t, "1", string(fields["a"]))
		assert.Equal(t, `{"c": [true]}`, string(fields["b"]))
	})

	t.Run("keeps number literals intact", func(t *testing.T) {
		fields, err := Object([]byte(`{"n":18446744073709551616}`))
		require.NoError(t, err)
		assert.Equal(t, "18446744073709551616", string(fields["n"]))
	})

	t.Run("rejects duplicate keys", func(t *testing.T) {
		_, err := Object([]byte(`{"a":1,"a":2}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})

	t.Run("rejects trailing data", func(t *testing.T) {
		_, err := Object([]byte(`{} x`))
		assert.Error(t, err)
	})
}

func TestKnownFields(t *testing.T) {
	fields := map[string]json.RawMessage{"sender": json.RawMessage(`"a"`)}

	assert.NoError(t, KnownFields(fields, "sender", "msg"))
	assert.Error(t, KnownFields(fields, "Sender"))
}

func TestStrictStructs(t *testing.T) {
	var info MessageInfo
	require.NoError(t, Strict([]byte(`{"sender":"alice"}`), &info))
	assert.Equal(t, "alice", info.Sender)

	assert.Error(t, Strict([]byte(`{"SENDER":"alice"}`), &info))

	var loose map[string]string
	require.NoError(t, Strict([]byte(`{"Any":"key"}`), &loose))
	assert.Equal(t, "key", loose["Any"])
}
