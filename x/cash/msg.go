package cash

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

func init() {
	custody.RegisterMsg(&SendMsg{}, "cash/send")
}

const maxMemoSize = 128

// SendMsg moves funds from the source to the destination account.
type SendMsg struct {
	Source      custody.Address
	Destination custody.Address
	Amount      uint64
	Memo        string
}

var _ custody.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message.
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible.
func (m *SendMsg) Validate() error {
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero amount")
	}
	if err := m.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if len(m.Memo) > maxMemoSize {
		return errors.Wrap(errors.ErrInput, "memo too long")
	}
	return nil
}

func (m *SendMsg) Marshal() ([]byte, error) {
	return custody.Codec.MarshalBinaryBare(m)
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	return custody.Codec.UnmarshalBinaryBare(raw, m)
}
