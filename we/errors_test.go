package we

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorKind(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind ErrorKindName
	}{
		{"not found", NotFound("counter"), KindNotFound},
		{"wrapped not found", errors.Wrap(NotFound("counter"), "load"), KindNotFound},
		{"store", StoreFailure("commit", fmt.Errorf("boom")), KindStoreError},
		{"decode", DecodeFailure("counter:execute-msg", nil), KindDecodeError},
		{"already instantiated", &AlreadyInstantiatedError{Id: AggregateId{Type: "counter", Key: "a"}}, KindAlreadyInstantiated},
		{"revision conflict", RevisionConflict, KindRevisionConflict},
		{"other", fmt.Errorf("boom"), KindInternal},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.kind, ErrorKind(c.err))
		})
	}

	t.Run("store failures keep their cause", func(t *testing.T) {
		err := StoreFailure("decode", NotFound("counter"))
		assert.True(t, IsNotFound(err))
		assert.Equal(t, "store decode failed: counter not found", err.Error())
	})
}
