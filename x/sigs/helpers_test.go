package sigs

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
)

// StdTx is a signed transaction used by the tests of this package.
type StdTx struct {
	custodytest.Tx
	Signatures []StdSignature
}

var _ SignedTx = (*StdTx)(nil)
var _ custody.Tx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	msg := &custodytest.Msg{RoutePath: "test/payload", Serialized: payload}
	return &StdTx{Tx: custodytest.Tx{Msg: msg}}
}

func (tx *StdTx) GetSignatures() []StdSignature {
	return tx.Signatures
}

func (tx *StdTx) GetSignBytes() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}
