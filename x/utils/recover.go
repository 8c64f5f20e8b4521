package utils

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Recovery is a decorator that converts a panic anywhere below it into an
// ErrPanic error, so a faulty handler cannot take the node down.
type Recovery struct{}

var _ custody.Decorator = Recovery{}

// NewRecovery returns a Recovery decorator.
func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Checker) (_ *custody.CheckResult, err error) {
	defer logPanic(ctx, &err)
	defer errors.Recover(&err)
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Deliverer) (_ *custody.DeliverResult, err error) {
	defer logPanic(ctx, &err)
	defer errors.Recover(&err)
	return next.Deliver(ctx, db, tx)
}

// logPanic runs after errors.Recover and reports a recovered panic.
func logPanic(ctx custody.Context, err *error) {
	if *err != nil && errors.ErrPanic.Is(*err) {
		custody.GetLogger(ctx).Error("recovered from panic", "err", *err)
	}
}
