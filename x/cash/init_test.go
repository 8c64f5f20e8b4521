package cash

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenesis(t *testing.T) {
	addr := custodytest.NewCondition().Address()
	genesis := `{
		"conf": {"cash": {"existential_deposit": 3}},
		"cash": [{"address": "` + addr.String() + `", "balance": 120}]
	}`
	var opts custody.Options
	require.NoError(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	require.NoError(t, Initializer{}.FromGenesis(opts, db))

	bal, err := NewController(NewBucket()).Balance(db, addr)
	require.NoError(t, err)
	assert.EqualValues(t, 120, bal)

	conf, err := LoadConfiguration(db)
	require.NoError(t, err)
	assert.EqualValues(t, 3, conf.ExistentialDeposit)
}

func TestGenesisDefaults(t *testing.T) {
	db := store.MemStore()
	require.NoError(t, Initializer{}.FromGenesis(custody.Options{}, db))

	conf, err := LoadConfiguration(db)
	require.NoError(t, err)
	assert.EqualValues(t, DefaultExistentialDeposit, conf.ExistentialDeposit)
}

func TestGenesisInvalidAccount(t *testing.T) {
	opts := custody.Options{"cash": []byte(`[{"address": "", "balance": 1}]`)}
	err := Initializer{}.FromGenesis(opts, store.MemStore())
	assert.True(t, errors.ErrEmpty.Is(err), "got %+v", err)
}
