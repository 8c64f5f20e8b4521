package cash

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Preservation declares whether an operation may reap an account.
type Preservation int

const (
	// Expendable allows the account balance to drop below the existential
	// deposit and the account to be removed.
	Expendable Preservation = iota
	// Preserve keeps at least the existential deposit in the account.
	Preserve
)

// Fortitude declares how hard an operation may reduce a balance.
type Fortitude int

const (
	// Polite keeps the existential deposit of an account that has holds,
	// as held funds require the account to exist.
	Polite Fortitude = iota
	// Force ignores the requirement of accounts with holds.
	Force
)

// Precision declares how a release of funds is performed.
type Precision int

const (
	// Exact fails if the requested funds cannot be released in full.
	Exact Precision = iota
	// BestEffort releases whatever is available.
	BestEffort
)

// Controller moves funds between wallets. It is the only component that
// should modify wallets.
type Controller struct {
	bucket Bucket
}

// NewController returns a controller operating on the wallet bucket.
func NewController(bucket Bucket) Controller {
	return Controller{bucket: bucket}
}

// Balance returns the free balance of given address. An address without a
// wallet has zero balance.
func (c Controller) Balance(db custody.ReadOnlyKVStore, addr custody.Address) (uint64, error) {
	w, err := c.bucket.Get(db, addr)
	if err != nil || w == nil {
		return 0, err
	}
	return w.Balance, nil
}

// ReducibleBalance returns the part of the free balance that can be moved out
// of given account without breaking the preservation and fortitude
// requirements.
func (c Controller) ReducibleBalance(db custody.ReadOnlyKVStore, addr custody.Address, keep Preservation, force Fortitude) (uint64, error) {
	w, err := c.bucket.Get(db, addr)
	if err != nil || w == nil {
		return 0, err
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return 0, err
	}
	return reducible(w, conf.ExistentialDeposit, keep, force), nil
}

func reducible(w *Wallet, ed uint64, keep Preservation, force Fortitude) uint64 {
	mustKeep := keep == Preserve || (force == Polite && len(w.Holds) > 0)
	if !mustKeep {
		return w.Balance
	}
	if w.Balance <= ed {
		return 0
	}
	return w.Balance - ed
}

// Transfer moves amount of free balance from src to dst. Transferring zero
// is a no-op. The source account is removed when it ends up empty.
func (c Controller) Transfer(db custody.KVStore, src, dst custody.Address, amount uint64, keep Preservation) error {
	if amount == 0 {
		return nil
	}
	if src.Equals(dst) {
		return errors.Wrap(errors.ErrInput, "source and destination are the same")
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return err
	}

	sender, err := c.bucket.Get(db, src)
	if err != nil {
		return err
	}
	if sender == nil {
		return errors.Wrapf(errors.ErrInsufficient, "no wallet %s", src)
	}
	if avail := reducible(sender, conf.ExistentialDeposit, keep, Polite); avail < amount {
		return errors.Wrapf(errors.ErrInsufficient, "want %d, available %d", amount, avail)
	}

	recipient, err := c.bucket.Get(db, dst)
	if err != nil {
		return err
	}
	if recipient == nil {
		if amount < conf.ExistentialDeposit {
			return errors.Wrapf(errors.ErrInsufficient, "%d below existential deposit", amount)
		}
		recipient = &Wallet{}
	}
	if recipient.Balance+amount < recipient.Balance {
		return errors.Wrap(errors.ErrOverflow, "recipient balance")
	}

	sender.Balance -= amount
	// Dust left below the existential deposit is burned with the account.
	if len(sender.Holds) == 0 && sender.Balance < conf.ExistentialDeposit {
		sender.Balance = 0
	}
	recipient.Balance += amount

	if err := c.bucket.Save(db, src, sender); err != nil {
		return errors.Wrap(err, "save sender")
	}
	if err := c.bucket.Save(db, dst, recipient); err != nil {
		return errors.Wrap(err, "save recipient")
	}
	return nil
}

// Hold moves amount from the free balance to the hold of given reason.
func (c Controller) Hold(db custody.KVStore, reason string, addr custody.Address, amount uint64) error {
	if reason == "" {
		return errors.Wrap(errors.ErrEmpty, "reason")
	}
	if amount == 0 {
		return nil
	}
	w, err := c.bucket.Get(db, addr)
	if err != nil {
		return err
	}
	if w == nil || w.Balance < amount {
		return errors.Wrapf(errors.ErrInsufficient, "cannot hold %d", amount)
	}
	w.Balance -= amount

	found := false
	for i := range w.Holds {
		if w.Holds[i].Reason == reason {
			if w.Holds[i].Amount+amount < amount {
				return errors.Wrap(errors.ErrOverflow, "hold")
			}
			w.Holds[i].Amount += amount
			found = true
			break
		}
	}
	if !found {
		if len(w.Holds) >= maxHolds {
			return errors.Wrap(errors.ErrState, "too many holds")
		}
		w.Holds = append(w.Holds, Hold{Reason: reason, Amount: amount})
	}
	return c.bucket.Save(db, addr, w)
}

// ReleaseAll returns all funds held under given reason to the free balance
// and returns the released amount. With Exact precision a missing hold is
// an error, with BestEffort nothing is released.
func (c Controller) ReleaseAll(db custody.KVStore, reason string, addr custody.Address, precision Precision) (uint64, error) {
	w, err := c.bucket.Get(db, addr)
	if err != nil {
		return 0, err
	}
	idx := -1
	if w != nil {
		for i, h := range w.Holds {
			if h.Reason == reason {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		if precision == Exact {
			return 0, errors.Wrapf(errors.ErrNotFound, "no %q hold", reason)
		}
		return 0, nil
	}

	amount := w.Holds[idx].Amount
	if w.Balance+amount < w.Balance {
		return 0, errors.Wrap(errors.ErrOverflow, "balance")
	}
	w.Balance += amount
	w.Holds = append(w.Holds[:idx], w.Holds[idx+1:]...)
	if err := c.bucket.Save(db, addr, w); err != nil {
		return 0, err
	}
	return amount, nil
}

// Issue creates new funds in the free balance of given address.
func (c Controller) Issue(db custody.KVStore, addr custody.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero issue")
	}
	w, err := c.bucket.Get(db, addr)
	if err != nil {
		return err
	}
	if w == nil {
		w = &Wallet{}
	}
	if w.Balance+amount < w.Balance {
		return errors.Wrap(errors.ErrOverflow, "balance")
	}
	w.Balance += amount
	return c.bucket.Save(db, addr, w)
}
