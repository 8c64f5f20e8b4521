package app

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
)

// RouterExecutor decodes calls carried by multisig transactions and
// delivers them through a handler, usually the application Router.
// The authority of the call is whatever the context grants.
type RouterExecutor struct {
	handler custody.Handler
}

// NewRouterExecutor returns an executor delivering calls to h.
func NewRouterExecutor(h custody.Handler) RouterExecutor {
	return RouterExecutor{handler: h}
}

// Execute delivers the call in its own cache wrap. The changes are written
// to db only if the call succeeds.
func (e RouterExecutor) Execute(ctx custody.Context, db custody.KVStore, call []byte) (*custody.DeliverResult, error) {
	msg, err := custody.UnmarshalMsg(call)
	if err != nil {
		return nil, errors.Wrap(err, "decode call")
	}
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid call")
	}

	var cache custody.KVCacheWrap
	if c, ok := db.(custody.CacheableKVStore); ok {
		cache = c.CacheWrap()
	} else {
		cache = store.NewBTreeCacheWrap(db, db.NewBatch(), nil)
	}

	ctx = custody.WithLogInfo(ctx, "call", msg.Path())
	res, err := e.handler.Deliver(ctx, cache, callTx{msg: msg})
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return res, nil
}

// callTx carries a decoded call. It never leaves the process.
type callTx struct {
	msg custody.Msg
}

var _ custody.Tx = callTx{}

func (c callTx) GetMsg() (custody.Msg, error) {
	return c.msg, nil
}

func (c callTx) Marshal() ([]byte, error) {
	return custody.MarshalMsg(c.msg)
}

func (callTx) Unmarshal([]byte) error {
	return errors.Wrap(errors.ErrHuman, "call transaction cannot be decoded")
}
