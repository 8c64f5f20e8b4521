package multisig

import (
	"bytes"
	"sort"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// Vote is a member decision on a transaction.
type Vote int32

const (
	VoteApprove Vote = 1
	VoteReject  Vote = 2
)

func (v Vote) String() string {
	switch v {
	case VoteApprove:
		return "Approve"
	case VoteReject:
		return "Reject"
	default:
		return "Invalid"
	}
}

// Validate returns an error if this is not a known vote.
func (v Vote) Validate() error {
	if v != VoteApprove && v != VoteReject {
		return errors.Wrapf(errors.ErrInput, "vote %d", v)
	}
	return nil
}

// Status of a transaction. Only pending transactions are stored, the other
// values are reported by events.
type Status int32

const (
	StatusPending  Status = 1
	StatusComplete Status = 2
	StatusCanceled Status = 3
	StatusRejected Status = 4
	StatusExpired  Status = 5
	statusSentinel        = 6
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusComplete:
		return "Complete"
	case StatusCanceled:
		return "Canceled"
	case StatusRejected:
		return "Rejected"
	case StatusExpired:
		return "Expired"
	default:
		return "Invalid"
	}
}

// Multisig is a shared custody account.
type Multisig struct {
	// Address is the account holding the funds.
	Address custody.Address
	Creator custody.Address
	// Members is sorted and without duplicates.
	Members   []custody.Address
	Threshold uint32
	CreatedAt int64
	// Nonce is the registry nonce the address was derived from.
	Nonce uint64
}

var _ orm.Model = (*Multisig)(nil)

func (m *Multisig) Marshal() ([]byte, error) {
	return custody.MarshalModel(m)
}

func (m *Multisig) Unmarshal(raw []byte) error {
	return custody.UnmarshalModel(raw, m)
}

func (m *Multisig) Validate() error {
	if err := m.Address.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	if !m.Address.Equals(AccountAddress(m.Nonce)) {
		return errors.Wrap(errors.ErrModel, "address not derived from nonce")
	}
	if err := validateMembers(m.Members); err != nil {
		return err
	}
	if !m.HasMember(m.Creator) {
		return errors.Wrap(errors.ErrModel, "creator is not a member")
	}
	if m.Threshold == 0 || int(m.Threshold) > len(m.Members) {
		return errors.Wrapf(errors.ErrModel, "threshold %d for %d members", m.Threshold, len(m.Members))
	}
	if m.CreatedAt < 0 {
		return errors.Wrap(errors.ErrModel, "negative creation height")
	}
	return nil
}

// HasMember returns true if given address belongs to the members.
func (m *Multisig) HasMember(addr custody.Address) bool {
	i := sort.Search(len(m.Members), func(i int) bool {
		return bytes.Compare(m.Members[i], addr) >= 0
	})
	return i < len(m.Members) && m.Members[i].Equals(addr)
}

// validateMembers requires a non empty, sorted set of valid addresses.
func validateMembers(members []custody.Address) error {
	if len(members) == 0 {
		return errors.Wrap(errors.ErrEmpty, "members")
	}
	for i, a := range members {
		if err := a.Validate(); err != nil {
			return errors.Wrapf(err, "member %d", i)
		}
		if i > 0 && bytes.Compare(members[i-1], a) >= 0 {
			return errors.Wrapf(errors.ErrModel, "member %d not sorted or duplicated", i)
		}
	}
	return nil
}

// normalizeMembers returns a sorted copy of members with repeated entries
// dropped.
func normalizeMembers(members []custody.Address) []custody.Address {
	sorted := make([]custody.Address, 0, len(members))
	for _, m := range members {
		if !containsAddress(sorted, m) {
			sorted = append(sorted, m)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i], sorted[j]) < 0
	})
	return sorted
}

func containsAddress(addrs []custody.Address, addr custody.Address) bool {
	for _, a := range addrs {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}

// VoteRecord is the vote of a single member.
type VoteRecord struct {
	Voter custody.Address
	Vote  Vote
}

// Transaction is a call proposed on behalf of a multisig account.
type Transaction struct {
	ID       []byte
	Multisig custody.Address
	// Proposer is the condition of the proposing member. The call is
	// dispatched with its authority.
	Proposer custody.Condition
	Call     []byte
	CallHash []byte
	Status   Status
	// Votes is sorted by voter, at most one vote per voter.
	Votes     []VoteRecord
	CreatedAt int64
	ExpiresAt int64
}

var _ orm.Model = (*Transaction)(nil)

func (t *Transaction) Marshal() ([]byte, error) {
	return custody.MarshalModel(t)
}

func (t *Transaction) Unmarshal(raw []byte) error {
	return custody.UnmarshalModel(raw, t)
}

func (t *Transaction) Validate() error {
	if len(t.ID) != IDLength {
		return errors.Wrap(errors.ErrModel, "id")
	}
	if err := t.Multisig.Validate(); err != nil {
		return errors.Wrap(err, "multisig")
	}
	if err := t.Proposer.Validate(); err != nil {
		return errors.Wrap(err, "proposer")
	}
	if len(t.Call) == 0 {
		return errors.Wrap(errors.ErrEmpty, "call")
	}
	if !bytes.Equal(CallHash(t.Call), t.CallHash) {
		return errors.Wrap(errors.ErrModel, "call hash")
	}
	if t.Status < StatusPending || t.Status >= statusSentinel {
		return errors.Wrapf(errors.ErrModel, "status %d", t.Status)
	}
	for i, v := range t.Votes {
		if err := v.Voter.Validate(); err != nil {
			return errors.Wrapf(err, "voter %d", i)
		}
		if err := v.Vote.Validate(); err != nil {
			return errors.Wrapf(err, "vote %d", i)
		}
		if i > 0 && bytes.Compare(t.Votes[i-1].Voter, v.Voter) >= 0 {
			return errors.Wrapf(errors.ErrModel, "vote %d not sorted or duplicated", i)
		}
	}
	if t.ExpiresAt < t.CreatedAt {
		return errors.Wrap(errors.ErrModel, "expires before creation")
	}
	return nil
}

// HasVoted returns true if given address has a recorded vote.
func (t *Transaction) HasVoted(voter custody.Address) bool {
	i := t.voteIndex(voter)
	return i < len(t.Votes) && t.Votes[i].Voter.Equals(voter)
}

// AddVote records a vote keeping the list sorted. It fails with
// ErrAlreadyVoted if the voter already voted and with ErrVoteLimitReached if
// the list already holds limit votes.
func (t *Transaction) AddVote(voter custody.Address, vote Vote, limit uint32) error {
	if t.HasVoted(voter) {
		return errors.Wrapf(ErrAlreadyVoted, "voter %s", voter)
	}
	if uint32(len(t.Votes)) >= limit {
		return errors.Wrapf(ErrVoteLimitReached, "limit %d", limit)
	}
	i := t.voteIndex(voter)
	t.Votes = append(t.Votes, VoteRecord{})
	copy(t.Votes[i+1:], t.Votes[i:])
	t.Votes[i] = VoteRecord{Voter: voter, Vote: vote}
	return nil
}

func (t *Transaction) voteIndex(voter custody.Address) int {
	return sort.Search(len(t.Votes), func(i int) bool {
		return bytes.Compare(t.Votes[i].Voter, voter) >= 0
	})
}

// IsOpen returns true if the transaction is pending and not expired at given
// height.
func (t *Transaction) IsOpen(height int64) bool {
	return t.Status == StatusPending && height < t.ExpiresAt
}

// ExpiryRef points from the expiry index to a transaction.
type ExpiryRef struct {
	Multisig custody.Address
	ID       []byte
}

var _ orm.Model = (*ExpiryRef)(nil)

func (r *ExpiryRef) Marshal() ([]byte, error) {
	return custody.MarshalModel(r)
}

func (r *ExpiryRef) Unmarshal(raw []byte) error {
	return custody.UnmarshalModel(raw, r)
}

func (r *ExpiryRef) Validate() error {
	if err := r.Multisig.Validate(); err != nil {
		return errors.Wrap(err, "multisig")
	}
	if len(r.ID) != IDLength {
		return errors.Wrap(errors.ErrModel, "id")
	}
	return nil
}
