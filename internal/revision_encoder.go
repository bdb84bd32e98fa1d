package internal

import (
	"encoding/binary"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"

	"github.com/weegigs/wee-counter-go/we"
)

// Position locates an event in a sequenced stream: the sequence of the message carrying its
// change set and its index inside that change set.
type Position struct {
	Sequence uint64
	Index    uint16
}

// Revision packs p into the entropy of a ULID stamped with t. Revisions sort by time, then
// sequence, then index, and the position can be recovered with PositionOf.
func (p Position) Revision(t time.Time) (we.Revision, error) {
	var id ulid.ULID
	if err := id.SetTime(ulid.Timestamp(t)); err != nil {
		return "", errors.Wrap(err, "revision time out of range")
	}

	var entropy [10]byte
	binary.BigEndian.PutUint64(entropy[:8], p.Sequence)
	binary.BigEndian.PutUint16(entropy[8:], p.Index)

	if err := id.SetEntropy(entropy[:]); err != nil {
		return "", err
	}

	return we.Revision(id.String()), nil
}

func PositionOf(revision we.Revision) (Position, error) {
	id, err := ulid.ParseStrict(revision.String())
	if err != nil {
		return Position{}, errors.Wrapf(err, "invalid revision %s", revision)
	}

	entropy := id.Entropy()
	return Position{
		Sequence: binary.BigEndian.Uint64(entropy[:8]),
		Index:    binary.BigEndian.Uint16(entropy[8:]),
	}, nil
}
