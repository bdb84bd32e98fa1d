package we

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRevisions(t *testing.T) {
	t.Run("initial revision is the epoch", func(t *testing.T) {
		assert.Equal(t, TimestampFromTime(time.Unix(0, 0)), InitialRevision.Timestamp())
	})

	t.Run("revisions carry their timestamp", func(t *testing.T) {
		now := time.Now()
		revision := NewRevisionGenerator().NewRevision(now)

		assert.Equal(t, now.UTC().Format(RFC3339Milli), string(revision.Timestamp()))
	})

	t.Run("revisions in the same millisecond stay ordered", func(t *testing.T) {
		now := time.Now()
		generator := NewRevisionGenerator()

		previous := generator.NewRevision(now)
		for i := 0; i < 100; i++ {
			next := generator.NewRevision(now)
			assert.Less(t, previous.String(), next.String())
			previous = next
		}
	})

	t.Run("revisions sort after the initial revision", func(t *testing.T) {
		revision := NewRevisionGenerator().NewRevision(time.Now())
		assert.Less(t, InitialRevision.String(), revision.String())
		assert.True(t, revision.After(InitialRevision))
		assert.False(t, InitialRevision.After(revision))
	})
}
