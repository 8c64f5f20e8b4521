package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type router map[string]custody.Handler

func (r router) Handle(m custody.Msg, h custody.Handler) { r[m.Path()] = h }

func TestBumpSequence(t *testing.T) {
	priv := crypto.GenPrivKeyEd25519()
	pub := *priv.PublicKey()
	auth := &custodytest.Auth{Signer: pub.Condition()}

	r := router{}
	RegisterRoutes(r, auth)
	h := r[pathBumpSequenceMsg]
	require.NotNil(t, h)

	db := store.MemStore()
	ctx := context.Background()
	tx := &custodytest.Tx{Msg: &BumpSequenceMsg{Increment: 5}}

	// unknown signer has no sequence to bump
	_, err := h.Deliver(ctx, db, tx)
	assert.True(t, errors.ErrNotFound.Is(err))

	require.NoError(t, NewBucket().Save(db, &UserData{Pubkey: pub, Sequence: 3}))
	_, err = h.Check(ctx, db, tx)
	require.NoError(t, err)
	_, err = h.Deliver(ctx, db, tx)
	require.NoError(t, err)

	nonce, err := NextNonce(db, pub.Address())
	require.NoError(t, err)
	assert.EqualValues(t, 7, nonce)

	_, err = h.Deliver(ctx, db, &custodytest.Tx{Msg: &BumpSequenceMsg{Increment: 0}})
	assert.True(t, errors.ErrMsg.Is(err))
	_, err = h.Deliver(context.Background(), db, &custodytest.Tx{Msg: &BumpSequenceMsg{Increment: 1001}})
	assert.True(t, errors.ErrMsg.Is(err))
}
