package we

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Revision identifies the last change set applied to an aggregate. Revisions are ULIDs, so
// later revisions sort after earlier ones.
type Revision string

const InitialRevision = Revision("00000000000000000000000000")

func (revision Revision) String() string {
	return string(revision)
}

// After reports whether revision was issued later than other.
func (revision Revision) After(other Revision) bool {
	return revision > other
}

func (revision Revision) Timestamp() Timestamp {
	id, err := ulid.ParseStrict(string(revision))
	if err != nil {
		return TimestampFromTime(time.Unix(0, 0))
	}

	return TimestampFromTime(ulid.Time(id.Time()))
}

// RevisionGenerator issues revisions that stay ordered within a millisecond.
type RevisionGenerator struct {
	entropy *ulid.LockedMonotonicReader
}

func NewRevisionGenerator() *RevisionGenerator {
	return &RevisionGenerator{
		entropy: &ulid.LockedMonotonicReader{MonotonicReader: ulid.Monotonic(rand.Reader, 0)},
	}
}

func (g *RevisionGenerator) NewRevision(t time.Time) Revision {
	return Revision(ulid.MustNew(ulid.Timestamp(t), g.entropy).String())
}
