package multisig

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

func init() {
	custody.RegisterMsg(&CreateMsg{}, pathCreate)
	custody.RegisterMsg(&FundMsg{}, pathFund)
	custody.RegisterMsg(&ProposeMsg{}, pathPropose)
	custody.RegisterMsg(&VoteMsg{}, pathVote)
	custody.RegisterMsg(&SubmitMsg{}, pathSubmit)
	custody.RegisterMsg(&CancelMsg{}, pathCancel)
	custody.RegisterMsg(&DeleteMsg{}, pathDelete)
}

const (
	pathCreate  = "multisig/create"
	pathFund    = "multisig/fund"
	pathPropose = "multisig/propose"
	pathVote    = "multisig/vote"
	pathSubmit  = "multisig/submit"
	pathCancel  = "multisig/cancel"
	pathDelete  = "multisig/delete"
)

// CreateMsg creates a multisig account. The signer must be one of the
// members and pays the creation deposit.
type CreateMsg struct {
	Members []custody.Address
	// Threshold of approvals (and rejections). Zero selects the configured
	// default.
	Threshold uint32
}

var _ custody.Msg = (*CreateMsg)(nil)

func (CreateMsg) Path() string {
	return pathCreate
}

// Validate checks the member addresses. Members is a set: repeated entries
// collapse and an empty set is left to the handler, which requires the
// creator to be a member.
func (m *CreateMsg) Validate() error {
	for i, a := range m.Members {
		if err := a.Validate(); err != nil {
			return errors.Wrapf(err, "member %d", i)
		}
	}
	return nil
}

func (m *CreateMsg) Marshal() ([]byte, error) {
	return custody.Codec.MarshalBinaryBare(m)
}

func (m *CreateMsg) Unmarshal(raw []byte) error {
	return custody.Codec.UnmarshalBinaryBare(raw, m)
}

// FundMsg moves funds of the signer to a multisig account. Anyone can fund.
type FundMsg struct {
	Multisig custody.Address
	Amount   uint64
}

var _ custody.Msg = (*FundMsg)(nil)

func (FundMsg) Path() string {
	return pathFund
}

// Validate rejects a zero amount before anything else.
func (m *FundMsg) Validate() error {
	if m.Amount == 0 {
		return errors.Wrap(ErrZeroAmount, "fund")
	}
	if err := m.Multisig.Validate(); err != nil {
		return errors.Wrap(err, "multisig")
	}
	return nil
}

func (m *FundMsg) Marshal() ([]byte, error) {
	return custody.Codec.MarshalBinaryBare(m)
}

func (m *FundMsg) Unmarshal(raw []byte) error {
	return custody.Codec.UnmarshalBinaryBare(raw, m)
}

// ProposeMsg proposes a call to be executed on behalf of a multisig.
type ProposeMsg struct {
	Multisig custody.Address
	// Call is a message encoded with custody.MarshalMsg.
	Call []byte
}

var _ custody.Msg = (*ProposeMsg)(nil)

func (ProposeMsg) Path() string {
	return pathPropose
}

func (m *ProposeMsg) Validate() error {
	if err := m.Multisig.Validate(); err != nil {
		return errors.Wrap(err, "multisig")
	}
	if len(m.Call) == 0 {
		return errors.Wrap(errors.ErrEmpty, "call")
	}
	call, err := custody.UnmarshalMsg(m.Call)
	if err != nil {
		return errors.Wrap(err, "call")
	}
	if err := call.Validate(); err != nil {
		return errors.Wrap(err, "call")
	}
	return nil
}

func (m *ProposeMsg) Marshal() ([]byte, error) {
	return custody.Codec.MarshalBinaryBare(m)
}

func (m *ProposeMsg) Unmarshal(raw []byte) error {
	return custody.Codec.UnmarshalBinaryBare(raw, m)
}

// VoteMsg casts a vote of the signer on a pending transaction.
type VoteMsg struct {
	Multisig      custody.Address
	TransactionID []byte
	Vote          Vote
}

var _ custody.Msg = (*VoteMsg)(nil)

func (VoteMsg) Path() string {
	return pathVote
}

func (m *VoteMsg) Validate() error {
	if err := m.Multisig.Validate(); err != nil {
		return errors.Wrap(err, "multisig")
	}
	if err := validateID(m.TransactionID); err != nil {
		return err
	}
	return m.Vote.Validate()
}

func (m *VoteMsg) Marshal() ([]byte, error) {
	return custody.Codec.MarshalBinaryBare(m)
}

func (m *VoteMsg) Unmarshal(raw []byte) error {
	return custody.Codec.UnmarshalBinaryBare(raw, m)
}

// SubmitMsg tallies a transaction and executes it if approved. The call and
// its hash must match the proposal.
type SubmitMsg struct {
	Multisig      custody.Address
	TransactionID []byte
	Call          []byte
	CallHash      []byte
}

var _ custody.Msg = (*SubmitMsg)(nil)

func (SubmitMsg) Path() string {
	return pathSubmit
}

func (m *SubmitMsg) Validate() error {
	if err := m.Multisig.Validate(); err != nil {
		return errors.Wrap(err, "multisig")
	}
	if err := validateID(m.TransactionID); err != nil {
		return err
	}
	if len(m.Call) == 0 {
		return errors.Wrap(errors.ErrEmpty, "call")
	}
	if len(m.CallHash) != IDLength {
		return errors.Wrapf(errors.ErrInput, "call hash length %d", len(m.CallHash))
	}
	return nil
}

func (m *SubmitMsg) Marshal() ([]byte, error) {
	return custody.Codec.MarshalBinaryBare(m)
}

func (m *SubmitMsg) Unmarshal(raw []byte) error {
	return custody.Codec.UnmarshalBinaryBare(raw, m)
}

// CancelMsg announces the cancellation of a transaction. It does not change
// the state.
type CancelMsg struct {
	Multisig      custody.Address
	TransactionID []byte
}

var _ custody.Msg = (*CancelMsg)(nil)

func (CancelMsg) Path() string {
	return pathCancel
}

func (m *CancelMsg) Validate() error {
	if err := m.Multisig.Validate(); err != nil {
		return errors.Wrap(err, "multisig")
	}
	return validateID(m.TransactionID)
}

func (m *CancelMsg) Marshal() ([]byte, error) {
	return custody.Codec.MarshalBinaryBare(m)
}

func (m *CancelMsg) Unmarshal(raw []byte) error {
	return custody.Codec.UnmarshalBinaryBare(raw, m)
}

// DeleteMsg removes a multisig and returns its funds to the creator.
type DeleteMsg struct {
	Multisig custody.Address
}

var _ custody.Msg = (*DeleteMsg)(nil)

func (DeleteMsg) Path() string {
	return pathDelete
}

func (m *DeleteMsg) Validate() error {
	return errors.Wrap(m.Multisig.Validate(), "multisig")
}

func (m *DeleteMsg) Marshal() ([]byte, error) {
	return custody.Codec.MarshalBinaryBare(m)
}

func (m *DeleteMsg) Unmarshal(raw []byte) error {
	return custody.Codec.UnmarshalBinaryBare(raw, m)
}

func validateID(id []byte) error {
	if len(id) != IDLength {
		return errors.Wrapf(errors.ErrInput, "transaction id length %d", len(id))
	}
	return nil
}
