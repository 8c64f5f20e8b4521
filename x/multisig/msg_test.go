package multisig

import (
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMsgValidate(t *testing.T) {
	ms := AccountAddress(1)
	member := custodytest.NewCondition().Address()
	id := CallHash([]byte("id"))

	call, err := custody.MarshalMsg(&DeleteMsg{Multisig: ms})
	require.NoError(t, err)
	invalidCall, err := custody.MarshalMsg(&cash.SendMsg{Source: ms, Destination: member})
	require.NoError(t, err)

	cases := map[string]struct {
		msg     custody.Msg
		wantErr *errors.Error
	}{
		"create": {
			msg: &CreateMsg{Members: []custody.Address{member}, Threshold: 1},
		},
		"create without threshold": {
			msg: &CreateMsg{Members: []custody.Address{member}},
		},
		"create without members is left to the handler": {
			msg: &CreateMsg{Threshold: 1},
		},
		"create with invalid member": {
			msg:     &CreateMsg{Members: []custody.Address{member, custody.Address("short")}},
			wantErr: errors.ErrInput,
		},
		"fund": {
			msg: &FundMsg{Multisig: ms, Amount: 5},
		},
		"fund zero amount comes first": {
			msg:     &FundMsg{},
			wantErr: ErrZeroAmount,
		},
		"fund missing multisig": {
			msg:     &FundMsg{Amount: 5},
			wantErr: errors.ErrEmpty,
		},
		"propose": {
			msg: &ProposeMsg{Multisig: ms, Call: call},
		},
		"propose without call": {
			msg:     &ProposeMsg{Multisig: ms},
			wantErr: errors.ErrEmpty,
		},
		"propose undecodable call": {
			msg:     &ProposeMsg{Multisig: ms, Call: []byte("not a message")},
			wantErr: errors.ErrMsg,
		},
		"propose invalid call": {
			msg:     &ProposeMsg{Multisig: ms, Call: invalidCall},
			wantErr: errors.ErrAmount,
		},
		"vote": {
			msg: &VoteMsg{Multisig: ms, TransactionID: id, Vote: VoteReject},
		},
		"vote without decision": {
			msg:     &VoteMsg{Multisig: ms, TransactionID: id},
			wantErr: errors.ErrInput,
		},
		"vote short id": {
			msg:     &VoteMsg{Multisig: ms, TransactionID: id[:8], Vote: VoteApprove},
			wantErr: errors.ErrInput,
		},
		"submit": {
			msg: &SubmitMsg{Multisig: ms, TransactionID: id, Call: call, CallHash: CallHash(call)},
		},
		"submit short call hash": {
			msg:     &SubmitMsg{Multisig: ms, TransactionID: id, Call: call, CallHash: []byte{1}},
			wantErr: errors.ErrInput,
		},
		"submit without call": {
			msg:     &SubmitMsg{Multisig: ms, TransactionID: id, CallHash: CallHash(call)},
			wantErr: errors.ErrEmpty,
		},
		"cancel": {
			msg: &CancelMsg{Multisig: ms, TransactionID: id},
		},
		"cancel without id": {
			msg:     &CancelMsg{Multisig: ms},
			wantErr: errors.ErrInput,
		},
		"delete": {
			msg: &DeleteMsg{Multisig: ms},
		},
		"delete without multisig": {
			msg:     &DeleteMsg{},
			wantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, tc.wantErr.Is(err), "got %+v", err)
		})
	}
}

func TestMsgCallRoundTrip(t *testing.T) {
	msg := &SubmitMsg{
		Multisig:      AccountAddress(3),
		TransactionID: CallHash([]byte("id")),
		Call:          []byte("call"),
		CallHash:      CallHash([]byte("call")),
	}
	raw, err := custody.MarshalMsg(msg)
	require.NoError(t, err)
	got, err := custody.UnmarshalMsg(raw)
	require.NoError(t, err)
	assert.Equal(t, msg, got)
	assert.Equal(t, pathSubmit, got.Path())
}
