package utils

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Savepoint isolates all writes done below it in a cache. The cache is
// written to the parent store only if the call succeeded, otherwise it is
// discarded and the store is left untouched.
//
// Savepoint is inactive until enabled with OnCheck and/or OnDeliver.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ custody.Decorator = Savepoint{}

// NewSavepoint returns an inactive Savepoint decorator.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a copy that isolates CheckTx calls.
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a copy that isolates DeliverTx calls.
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

func (s Savepoint) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	var res *custody.CheckResult
	err := s.isolate(s.onCheck, db, func(db custody.KVStore) error {
		var err error
		res, err = next.Check(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	var res *custody.DeliverResult
	err := s.isolate(s.onDeliver, db, func(db custody.KVStore) error {
		var err error
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// isolate runs fn against a cache of db when enabled and the store supports
// caching. Otherwise fn runs directly against db.
func (Savepoint) isolate(enabled bool, db custody.KVStore, fn func(custody.KVStore) error) error {
	cstore, ok := db.(custody.CacheableKVStore)
	if !enabled || !ok {
		return fn(db)
	}
	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}
	return nil
}
