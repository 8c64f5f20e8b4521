package multisig

import (
	"bytes"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/tendermint/tendermint/libs/common"
)

// ExpiryTicker removes pending transactions that can no longer be voted on or
// submitted. It is run at the beginning of every block.
type ExpiryTicker struct {
	txs TransactionBucket
}

var _ custody.Ticker = ExpiryTicker{}

// NewExpiryTicker returns a ticker sweeping the transaction ledger.
func NewExpiryTicker() ExpiryTicker {
	return ExpiryTicker{txs: NewTransactionBucket()}
}

// Tick removes every transaction expiring at or before the current height,
// including transactions of deleted accounts. A failing entry is logged and
// skipped, its removal is retried in the next block.
func (t ExpiryTicker) Tick(ctx custody.Context, db custody.CacheableKVStore) custody.TickResult {
	logger := custody.GetLogger(ctx).With("module", "multisig")
	height, ok := custody.GetHeight(ctx)
	if !ok {
		logger.Error("expiry sweep", "err", "block height not set")
		return custody.TickResult{}
	}
	refs, keys, err := t.txs.ExpiredBy(db, height)
	if err != nil {
		logger.Error("expiry sweep", "err", err)
		return custody.TickResult{}
	}

	var res custody.TickResult
	for i, ref := range refs {
		cache := db.CacheWrap()
		tags, err := t.expire(ctx, cache, ref, keys[i])
		if err != nil {
			cache.Discard()
			logger.Error("expire transaction", "id", ref.ID, "err", err)
			continue
		}
		if err := cache.Write(); err != nil {
			logger.Error("expire transaction", "id", ref.ID, "err", err)
			continue
		}
		res.Tags = append(res.Tags, tags...)
	}
	return res
}

func (t ExpiryTicker) expire(ctx custody.Context, db custody.KVStore, ref ExpiryRef, key []byte) ([]common.KVPair, error) {
	tx, err := t.txs.Get(db, ref.Multisig, ref.ID)
	switch {
	case ErrTransactionDoesNotExist.Is(err):
		return nil, t.txs.dropExpiry(db, key)
	case err != nil:
		return nil, err
	}
	// The index entry is stale if the transaction was stored again with
	// another expiration.
	if !bytes.Equal(expiryKey(tx.ExpiresAt, tx.Multisig, tx.ID), key) {
		return nil, t.txs.dropExpiry(db, key)
	}
	if err := t.txs.Remove(db, tx); err != nil {
		return nil, errors.Wrap(err, "remove")
	}
	return newEvent(EventTransactionExpired).
		id("transaction", tx.ID).
		addr("multisig", tx.Multisig).
		id("call_hash", tx.CallHash).
		emit(ctx), nil
}
