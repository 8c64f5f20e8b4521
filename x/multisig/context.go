package multisig

import (
	"context"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/x"
)

type contextKey int // local to the multisig module

const (
	contextKeyDispatch contextKey = iota
)

// withDispatch sets the authority a dispatched call is executed with.
func withDispatch(ctx custody.Context, conds ...custody.Condition) custody.Context {
	return context.WithValue(ctx, contextKeyDispatch, conds)
}

// Authenticate grants the authority of a dispatched call: the proposer of the
// transaction followed by the multisig account. Outside of a dispatched call
// it defers to the wrapped authenticator. Inside a dispatched call the
// wrapped authenticator is hidden, so the signers of the submitting
// transaction do not leak into the call.
type Authenticate struct {
	fallback x.Authenticator
}

var _ x.Authenticator = Authenticate{}

// NewAuthenticate wraps an authenticator of signed transactions.
func NewAuthenticate(fallback x.Authenticator) Authenticate {
	return Authenticate{fallback: fallback}
}

// GetConditions returns the dispatch authority if set, otherwise the
// conditions of the wrapped authenticator.
func (a Authenticate) GetConditions(ctx custody.Context) []custody.Condition {
	if conds, ok := ctx.Value(contextKeyDispatch).([]custody.Condition); ok {
		return conds
	}
	if a.fallback == nil {
		return nil
	}
	return a.fallback.GetConditions(ctx)
}

// HasAddress returns true iff this address is in GetConditions.
func (a Authenticate) HasAddress(ctx custody.Context, addr custody.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
