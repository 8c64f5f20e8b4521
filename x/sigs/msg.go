package sigs

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

func init() {
	custody.RegisterMsg(&BumpSequenceMsg{}, "sigs/bump_sequence")
}

const (
	pathBumpSequenceMsg = "sigs/bump_sequence"

	maxSequenceIncrement = 1000
	minSequenceIncrement = 1
)

// BumpSequenceMsg increments the sequence of the main signer. It allows
// invalidating transactions that were signed but not yet submitted.
type BumpSequenceMsg struct {
	Increment uint32
}

var _ custody.Msg = (*BumpSequenceMsg)(nil)

func (BumpSequenceMsg) Path() string {
	return pathBumpSequenceMsg
}

func (m *BumpSequenceMsg) Validate() error {
	if m.Increment < minSequenceIncrement {
		return errors.Wrapf(errors.ErrMsg, "increment must be at least %d", minSequenceIncrement)
	}
	if m.Increment > maxSequenceIncrement {
		return errors.Wrapf(errors.ErrMsg, "increment must not be greater than %d", maxSequenceIncrement)
	}
	return nil
}

func (m *BumpSequenceMsg) Marshal() ([]byte, error) {
	return custody.Codec.MarshalBinaryBare(m)
}

func (m *BumpSequenceMsg) Unmarshal(raw []byte) error {
	return custody.Codec.UnmarshalBinaryBare(raw, m)
}
