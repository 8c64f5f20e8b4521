package multisig

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

const (
	multisigBucketName    = "msig"
	transactionBucketName = "mtx"
	expiryBucketName      = "mtxexp"
)

// MultisigBucket stores multisig accounts by address. It owns the nonce that
// account addresses are derived from.
type MultisigBucket struct {
	orm.ModelBucket
	nonce orm.Sequence
}

// NewMultisigBucket returns the multisig registry.
func NewMultisigBucket() MultisigBucket {
	return MultisigBucket{
		ModelBucket: orm.NewModelBucket(multisigBucketName, &Multisig{}),
		nonce:       orm.NewSequence(multisigBucketName, "nonce"),
	}
}

// NextNonce increments and returns the account nonce.
func (b MultisigBucket) NextNonce(db custody.KVStore) (uint64, error) {
	return b.nonce.NextInt(db)
}

// Get loads the multisig stored under given address. ErrMultisigDoesNotExist
// is returned if there is none.
func (b MultisigBucket) Get(db custody.ReadOnlyKVStore, addr custody.Address) (*Multisig, error) {
	var m Multisig
	if err := b.One(db, addr, &m); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, errors.Wrapf(ErrMultisigDoesNotExist, "address %s", addr)
		}
		return nil, err
	}
	return &m, nil
}

// Save stores the multisig under its address.
func (b MultisigBucket) Save(db custody.KVStore, m *Multisig) error {
	return b.Put(db, m.Address, m)
}

// Remove deletes the multisig stored under given address.
func (b MultisigBucket) Remove(db custody.KVStore, addr custody.Address) error {
	if err := b.Delete(db, addr); err != nil {
		if errors.ErrNotFound.Is(err) {
			return errors.Wrapf(ErrMultisigDoesNotExist, "address %s", addr)
		}
		return err
	}
	return nil
}

// TransactionBucket stores transactions under the multisig address followed
// by the transaction id, and keeps an index by expiration height.
type TransactionBucket struct {
	orm.ModelBucket
	expiry orm.ModelBucket
}

// NewTransactionBucket returns the transaction ledger.
func NewTransactionBucket() TransactionBucket {
	return TransactionBucket{
		ModelBucket: orm.NewModelBucket(transactionBucketName, &Transaction{}),
		expiry:      orm.NewModelBucket(expiryBucketName, &ExpiryRef{}),
	}
}

func transactionKey(multisig custody.Address, id []byte) []byte {
	key := make([]byte, 0, len(multisig)+len(id))
	return append(append(key, multisig...), id...)
}

func expiryKey(expiresAt int64, multisig custody.Address, id []byte) []byte {
	return append(encodeUint64(uint64(expiresAt)), transactionKey(multisig, id)...)
}

// Get loads a transaction of given multisig. ErrTransactionDoesNotExist is
// returned if there is none.
func (b TransactionBucket) Get(db custody.ReadOnlyKVStore, multisig custody.Address, id []byte) (*Transaction, error) {
	var t Transaction
	if err := b.One(db, transactionKey(multisig, id), &t); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, errors.Wrapf(ErrTransactionDoesNotExist, "id %X", id)
		}
		return nil, err
	}
	return &t, nil
}

// Save stores the transaction and indexes it by its expiration height.
func (b TransactionBucket) Save(db custody.KVStore, t *Transaction) error {
	if err := b.Put(db, transactionKey(t.Multisig, t.ID), t); err != nil {
		return err
	}
	ref := ExpiryRef{Multisig: t.Multisig, ID: t.ID}
	if err := b.expiry.Put(db, expiryKey(t.ExpiresAt, t.Multisig, t.ID), &ref); err != nil {
		return errors.Wrap(err, "expiry index")
	}
	return nil
}

// Remove deletes the transaction together with its index entry.
func (b TransactionBucket) Remove(db custody.KVStore, t *Transaction) error {
	if err := b.Delete(db, transactionKey(t.Multisig, t.ID)); err != nil {
		if errors.ErrNotFound.Is(err) {
			return errors.Wrapf(ErrTransactionDoesNotExist, "id %X", t.ID)
		}
		return err
	}
	err := b.expiry.Delete(db, expiryKey(t.ExpiresAt, t.Multisig, t.ID))
	if err != nil && !errors.ErrNotFound.Is(err) {
		return errors.Wrap(err, "expiry index")
	}
	return nil
}

// ByMultisig returns all transactions of given multisig.
func (b TransactionBucket) ByMultisig(db custody.ReadOnlyKVStore, multisig custody.Address) ([]Transaction, error) {
	var txs []Transaction
	if _, err := b.ByPrefix(db, multisig, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// ExpiredBy returns references of all transactions that expire at or
// before given height, together with their index keys.
func (b TransactionBucket) ExpiredBy(db custody.ReadOnlyKVStore, height int64) ([]ExpiryRef, [][]byte, error) {
	var refs []ExpiryRef
	keys, err := b.expiry.Range(db, nil, encodeUint64(uint64(height)+1), &refs)
	if err != nil {
		return nil, nil, err
	}
	return refs, keys, nil
}

// RegisterQuery registers the multisig and transaction buckets under
// "/multisigs" and "/transactions".
func RegisterQuery(qr custody.QueryRouter) {
	NewMultisigBucket().Register("multisigs", qr)
	NewTransactionBucket().Register("transactions", qr)
}

func (b TransactionBucket) dropExpiry(db custody.KVStore, key []byte) error {
	err := b.expiry.Delete(db, key)
	if err != nil && !errors.ErrNotFound.Is(err) {
		return err
	}
	return nil
}
