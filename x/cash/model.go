package cash

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// BucketName is where wallets are stored.
const BucketName = "wallet"

const maxHolds = 16

// Hold is an amount locked in a wallet under a named reason.
type Hold struct {
	Reason string
	Amount uint64
}

// Wallet is the state of a single account.
type Wallet struct {
	// Balance is the free, spendable balance.
	Balance uint64
	Holds   []Hold
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Marshal() ([]byte, error) {
	return custody.MarshalModel(w)
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return custody.UnmarshalModel(raw, w)
}

func (w *Wallet) Validate() error {
	if len(w.Holds) > maxHolds {
		return errors.Wrapf(errors.ErrState, "too many holds: %d", len(w.Holds))
	}
	seen := make(map[string]struct{}, len(w.Holds))
	for _, h := range w.Holds {
		if h.Reason == "" {
			return errors.Wrap(errors.ErrEmpty, "hold reason")
		}
		if h.Amount == 0 {
			return errors.Wrapf(errors.ErrAmount, "empty hold %q", h.Reason)
		}
		if _, ok := seen[h.Reason]; ok {
			return errors.Wrapf(errors.ErrDuplicate, "hold %q", h.Reason)
		}
		seen[h.Reason] = struct{}{}
	}
	return nil
}

// Held returns the amount held under given reason.
func (w *Wallet) Held(reason string) uint64 {
	for _, h := range w.Holds {
		if h.Reason == reason {
			return h.Amount
		}
	}
	return 0
}

// TotalHeld returns the sum of all holds.
func (w *Wallet) TotalHeld() uint64 {
	var total uint64
	for _, h := range w.Holds {
		total += h.Amount
	}
	return total
}

func (w *Wallet) isEmpty() bool {
	return w.Balance == 0 && len(w.Holds) == 0
}

// Bucket stores wallets by owner address.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket returns the wallet bucket.
func NewBucket() Bucket {
	return Bucket{ModelBucket: orm.NewModelBucket(BucketName, &Wallet{})}
}

// Get returns the wallet of given address, or nil if it does not exist.
func (b Bucket) Get(db custody.ReadOnlyKVStore, addr custody.Address) (*Wallet, error) {
	var w Wallet
	switch err := b.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

// Save stores the wallet. An empty wallet is removed from the store.
func (b Bucket) Save(db custody.KVStore, addr custody.Address, w *Wallet) error {
	if w.isEmpty() {
		if err := b.Delete(db, addr); err != nil && !errors.ErrNotFound.Is(err) {
			return err
		}
		return nil
	}
	return b.Put(db, addr, w)
}

// RegisterQuery registers the wallet bucket under "/wallets".
func RegisterQuery(qr custody.QueryRouter) {
	NewBucket().Register("wallets", qr)
}
