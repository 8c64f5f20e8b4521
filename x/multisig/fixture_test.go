package multisig

import (
	"context"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/store"
	"github.com/iov-one/custody/x/cash"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"
)

// fixture wires the multisig and cash handlers the way the application does.
type fixture struct {
	t       testing.TB
	db      custody.CacheableKVStore
	auth    *custodytest.CtxAuth
	control cash.Controller
	handler custody.Handler
	height  int64
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	auth := &custodytest.CtxAuth{Key: "signers"}
	control := cash.NewController(cash.NewBucket())
	msAuth := NewAuthenticate(auth)

	r := app.NewRouter()
	cash.RegisterRoutes(r, msAuth, control)
	RegisterRoutes(r, msAuth, control, app.NewRouterExecutor(r))

	return &fixture{
		t:       t,
		db:      store.MemStore(),
		auth:    auth,
		control: control,
		handler: r,
		height:  10,
	}
}

func (f *fixture) context(signer custody.Condition) custody.Context {
	ctx := custody.WithHeight(context.Background(), f.height)
	return f.auth.SetConditions(ctx, signer)
}

// deliver runs msg signed by signer. Changes of a failed delivery are
// discarded.
func (f *fixture) deliver(signer custody.Condition, msg custody.Msg) (*custody.DeliverResult, error) {
	cache := f.db.CacheWrap()
	res, err := f.handler.Deliver(f.context(signer), cache, &custodytest.Tx{Msg: msg})
	if err != nil {
		cache.Discard()
		return nil, err
	}
	require.NoError(f.t, cache.Write())
	return res, nil
}

func (f *fixture) check(signer custody.Condition, msg custody.Msg) error {
	_, err := f.handler.Check(f.context(signer), f.db, &custodytest.Tx{Msg: msg})
	return err
}

func (f *fixture) issue(addr custody.Address, amount uint64) {
	require.NoError(f.t, f.control.Issue(f.db, addr, amount))
}

func (f *fixture) balance(addr custody.Address) uint64 {
	b, err := f.control.Balance(f.db, addr)
	require.NoError(f.t, err)
	return b
}

func (f *fixture) held(addr custody.Address) uint64 {
	w, err := cash.NewBucket().Get(f.db, addr)
	require.NoError(f.t, err)
	if w == nil {
		return 0
	}
	return w.Held(DepositReason)
}

// create registers a multisig of given members created by the first one.
func (f *fixture) create(threshold uint32, members ...custody.Condition) *Multisig {
	f.t.Helper()
	addrs := make([]custody.Address, len(members))
	for i, m := range members {
		addrs[i] = m.Address()
	}
	res, err := f.deliver(members[0], &CreateMsg{Members: addrs, Threshold: threshold})
	require.NoError(f.t, err)
	ms, err := NewMultisigBucket().Get(f.db, res.Data)
	require.NoError(f.t, err)
	return ms
}

func (f *fixture) propose(proposer custody.Condition, ms custody.Address, call custody.Msg) []byte {
	f.t.Helper()
	raw, err := custody.MarshalMsg(call)
	require.NoError(f.t, err)
	res, err := f.deliver(proposer, &ProposeMsg{Multisig: ms, Call: raw})
	require.NoError(f.t, err)
	return res.Data
}

func (f *fixture) transaction(ms custody.Address, id []byte) (*Transaction, error) {
	return NewTransactionBucket().Get(f.db, ms, id)
}

// submitMsg builds a submission of a stored transaction.
func (f *fixture) submitMsg(ms custody.Address, id []byte) *SubmitMsg {
	f.t.Helper()
	tx, err := f.transaction(ms, id)
	require.NoError(f.t, err)
	return &SubmitMsg{Multisig: ms, TransactionID: id, Call: tx.Call, CallHash: tx.CallHash}
}

// tagValue returns the value of the first tag with given key.
func tagValue(tags []common.KVPair, key string) string {
	for _, t := range tags {
		if string(t.Key) == key {
			return string(t.Value)
		}
	}
	return ""
}

func countTags(tags []common.KVPair, key, value string) int {
	var n int
	for _, t := range tags {
		if string(t.Key) == key && string(t.Value) == value {
			n++
		}
	}
	return n
}
