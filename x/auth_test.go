package x_test

import (
	"context"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/x"
	"github.com/stretchr/testify/assert"
)

func TestMainSigner(t *testing.T) {
	a := custodytest.NewCondition()
	b := custodytest.NewCondition()

	ctxAuth := &custodytest.CtxAuth{Key: "authenticated"}
	ctx := ctxAuth.SetConditions(context.Background(), a, b)

	cases := map[string]struct {
		auth x.Authenticator
		want custody.Condition
	}{
		"first of many signers": {
			auth: ctxAuth,
			want: a,
		},
		"single signer": {
			auth: &custodytest.Auth{Signer: b},
			want: b,
		},
		"no signer": {
			auth: &custodytest.Auth{},
			want: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, x.MainSigner(ctx, tc.auth))
		})
	}
}
