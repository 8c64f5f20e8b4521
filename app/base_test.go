package app

import (
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// decodePath decodes a transaction routed to the path given as bytes.
func decodePath(raw []byte) (custody.Tx, error) {
	switch string(raw) {
	case "":
		return nil, errors.Wrap(errors.ErrInput, "empty")
	case "panic":
		panic("cannot decode")
	}
	return &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: string(raw)}}, nil
}

type heightTicker struct {
	ticks []int64
}

func (h *heightTicker) Tick(ctx custody.Context, db custody.CacheableKVStore) custody.TickResult {
	height, _ := custody.GetHeight(ctx)
	h.ticks = append(h.ticks, height)
	return custody.TickResult{
		Tags: []common.KVPair{{Key: []byte("tick"), Value: []byte("yes")}},
	}
}

func TestBaseApp(t *testing.T) {
	s := newTestStoreApp(t)
	good := &custodytest.Handler{
		CheckResult:   custody.CheckResult{Log: "checked"},
		DeliverResult: custody.DeliverResult{Log: "delivered", Tags: []common.KVPair{{Key: []byte("a"), Value: []byte("b")}}},
	}
	r := NewRouter()
	r.Handle(&custodytest.Msg{RoutePath: "test/good"}, good)
	r.Handle(&custodytest.Msg{RoutePath: "test/bad"}, &custodytest.Handler{
		CheckErr:   errors.ErrUnauthorized,
		DeliverErr: errors.ErrUnauthorized,
	})
	ticker := &heightTicker{}
	b := NewBaseApp(s, decodePath, r, ticker, false)

	begin := b.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 7}})
	assert.Equal(t, []int64{7}, ticker.ticks)
	assert.Len(t, begin.Tags, 1)

	check := b.CheckTx([]byte("test/good"))
	assert.Equal(t, uint32(0), check.Code)
	assert.Equal(t, "checked", check.Log)

	deliver := b.DeliverTx([]byte("test/good"))
	assert.Equal(t, uint32(0), deliver.Code)
	assert.Equal(t, "delivered", deliver.Log)
	assert.Len(t, deliver.Tags, 1)

	code, _ := errors.ABCIInfo(errors.ErrUnauthorized, false)
	assert.Equal(t, code, b.DeliverTx([]byte("test/bad")).Code)
	assert.Equal(t, code, b.CheckTx([]byte("test/bad")).Code)

	code, _ = errors.ABCIInfo(ErrNoSuchPath, false)
	assert.Equal(t, code, b.DeliverTx([]byte("test/missing")).Code)

	code, _ = errors.ABCIInfo(errors.ErrInput, false)
	assert.Equal(t, code, b.DeliverTx(nil).Code)

	code, _ = errors.ABCIInfo(errors.ErrPanic, false)
	assert.Equal(t, code, b.CheckTx([]byte("panic")).Code)
}

func TestBaseAppWithoutTicker(t *testing.T) {
	s := newTestStoreApp(t)
	b := NewBaseApp(s, decodePath, NewRouter(), nil, false)
	res := b.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1}})
	assert.Empty(t, res.Tags)
}
