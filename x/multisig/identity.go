package multisig

import (
	"encoding/binary"

	"github.com/iov-one/custody"
	"golang.org/x/crypto/blake2b"
)

const (
	conditionExt  = "multisig"
	conditionType = "account"

	transactionTag = "multisig/transaction"

	// IDLength is the length of transaction ids and call hashes.
	IDLength = blake2b.Size256
)

// AccountCondition returns the condition of the account derived from given
// nonce. Dispatched calls are authorized with it.
func AccountCondition(nonce uint64) custody.Condition {
	return custody.NewCondition(conditionExt, conditionType, encodeUint64(nonce))
}

// AccountAddress returns the address of the account derived from given
// nonce.
func AccountAddress(nonce uint64) custody.Address {
	return AccountCondition(nonce).Address()
}

// TransactionID derives the id of a transaction proposed by proposer at
// given height with given call hash.
func TransactionID(proposer custody.Address, height int64, callHash []byte) []byte {
	buf := make([]byte, 0, len(transactionTag)+len(proposer)+8+len(callHash))
	buf = append(buf, transactionTag...)
	buf = append(buf, proposer...)
	buf = append(buf, encodeUint64(uint64(height))...)
	buf = append(buf, callHash...)
	id := blake2b.Sum256(buf)
	return id[:]
}

// CallHash returns the digest of an encoded call.
func CallHash(call []byte) []byte {
	h := blake2b.Sum256(call)
	return h[:]
}

func encodeUint64(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
