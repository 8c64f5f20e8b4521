package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
)

func makeCommitStore(t testing.TB) (CommitStore, func()) {
	t.Helper()
	tmpDir, err := ioutil.TempDir("", "iavl-adapter-")
	require.NoError(t, err)
	commit, err := NewCommitStore(tmpDir, "base", 0)
	require.NoError(t, err)
	return commit, func() { os.RemoveAll(tmpDir) }
}

func assertGetHas(t testing.TB, kv store.ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.NoError(t, err)
	assert.Equal(t, has, exists)
}

func TestCommitStoreCacheWrap(t *testing.T) {
	commit, cleanup := makeCommitStore(t)
	defer cleanup()

	k, v := []byte("french"), []byte("fry")
	cache := commit.CacheWrap()
	require.NoError(t, cache.Set(k, v))
	assertGetHas(t, cache, k, v, true)

	// not visible before the cache is written
	got, err := commit.Get(k)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, cache.Write())
	got, err = commit.Get(k)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	id, err := commit.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)
	assert.NotEmpty(t, id.Hash)

	latest, err := commit.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, id, latest)
}

func TestCommitStoreVersions(t *testing.T) {
	commit, cleanup := makeCommitStore(t)
	defer cleanup()

	cache := commit.CacheWrap()
	require.NoError(t, cache.Set([]byte("a"), []byte("1")))
	require.NoError(t, cache.Set([]byte("b"), []byte("2")))
	require.NoError(t, cache.Write())
	first, err := commit.Commit()
	require.NoError(t, err)

	cache = commit.CacheWrap()
	require.NoError(t, cache.Delete([]byte("a")))
	require.NoError(t, cache.Write())
	second, err := commit.Commit()
	require.NoError(t, err)

	assert.Equal(t, first.Version+1, second.Version)
	assert.NotEqual(t, first.Hash, second.Hash)
	assertGetHas(t, commit.Adapter(), []byte("a"), nil, false)
	assertGetHas(t, commit.Adapter(), []byte("b"), []byte("2"), true)
}

func TestAdapterIterator(t *testing.T) {
	commit, err := NewCommitStore("", "", 0)
	require.NoError(t, err)
	kv := commit.Adapter()
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, kv.Set([]byte(k), []byte(k)))
	}

	it, err := kv.ReverseIterator(nil, nil)
	require.NoError(t, err)
	defer it.Release()

	var keys []string
	for {
		key, _, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			break
		}
		require.NoError(t, err)
		keys = append(keys, string(key))
	}
	assert.Equal(t, []string{"c", "b", "a"}, keys)
}
