package utils

import (
	"context"
	"fmt"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavepoint(t *testing.T) {
	// Always written before calling the decorator.
	ok, ov := []byte("demo"), []byte("data")
	// Written by the handler.
	nk, nv := []byte{1, 2, 3}, []byte{4, 5, 6}
	errBoom := fmt.Errorf("something went wrong")

	cases := map[string]struct {
		save    custody.Decorator
		handler custody.Handler
		check   bool
		wantErr bool
		written [][]byte
		missing [][]byte
	}{
		"inactive savepoint keeps writes of a failed call": {
			save:    NewSavepoint(),
			handler: writeHandler{key: nk, value: nv, err: errBoom},
			check:   true,
			wantErr: true,
			written: [][]byte{ok, nk},
		},
		"check savepoint reverts failed check": {
			save:    NewSavepoint().OnCheck(),
			handler: writeHandler{key: nk, value: nv, err: errBoom},
			check:   true,
			wantErr: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"deliver savepoint reverts failed deliver": {
			save:    NewSavepoint().OnDeliver(),
			handler: writeHandler{key: nk, value: nv, err: errBoom},
			wantErr: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"both flags can be combined": {
			save:    NewSavepoint().OnDeliver().OnCheck(),
			handler: writeHandler{key: nk, value: nv, err: errBoom},
			wantErr: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"check savepoint does not affect deliver": {
			save:    NewSavepoint().OnCheck(),
			handler: writeHandler{key: nk, value: nv, err: errBoom},
			wantErr: true,
			written: [][]byte{ok, nk},
		},
		"successful call is written": {
			save:    NewSavepoint().OnCheck().OnDeliver(),
			handler: writeHandler{key: nk, value: nv},
			written: [][]byte{ok, nk},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := context.Background()
			kv := store.MemStore()
			require.NoError(t, kv.Set(ok, ov))

			var err error
			if tc.check {
				_, err = tc.save.Check(ctx, kv, nil, tc.handler)
			} else {
				_, err = tc.save.Deliver(ctx, kv, nil, tc.handler)
			}
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			for _, k := range tc.written {
				has, err := kv.Has(k)
				require.NoError(t, err)
				assert.True(t, has, "%x", k)
			}
			for _, k := range tc.missing {
				has, err := kv.Has(k)
				require.NoError(t, err)
				assert.False(t, has, "%x", k)
			}
		})
	}
}

// writeHandler writes the key, value pair and returns the error (may be nil).
type writeHandler struct {
	key   []byte
	value []byte
	err   error
}

var _ custody.Handler = writeHandler{}

func (h writeHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, h.err
}

func (h writeHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, h.err
}
