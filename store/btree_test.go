package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/custody/errors"
)

// TestBTreeCacheGetSet does basic sanity checks on our cache
func TestBTreeCacheGetSet(t *testing.T) {
	// devnull is a black hole... just to keep our types proper
	devnull := BTreeCacheable{EmptyKVStore{}}

	// base is the root of our data, we can layer on top and
	// all queries should work
	base := devnull.CacheWrap()

	k, v := []byte("french"), []byte("fry")
	assertValue(t, base, k, nil)
	require.NoError(t, base.Set(k, v))
	assertValue(t, base, k, v)

	// now layer another btree on top and make sure that we get
	// base data
	cache := base.CacheWrap()
	assertValue(t, cache, k, v)

	// writing more data is only visible in the cache
	k2, v2 := []byte("LA"), []byte("Dodgers")
	require.NoError(t, cache.Set(k2, v2))
	assertValue(t, cache, k2, v2)
	assertValue(t, base, k2, nil)

	// we can write the cache to the base layer...
	require.NoError(t, cache.Write())
	assertValue(t, base, k, v)
	assertValue(t, base, k2, v2)

	// we can discard one
	k3, v3 := []byte("Bayern"), []byte("Munich")
	c2 := base.CacheWrap()
	require.NoError(t, c2.Set(k3, v3))
	c2.Discard()
	assertValue(t, base, k3, nil)

	// and commit another
	c3 := base.CacheWrap()
	require.NoError(t, c3.Delete(k))
	assertValue(t, c3, k, nil)
	assertValue(t, base, k, v)
	require.NoError(t, c3.Write())

	assertValue(t, base, k, nil)
	assertValue(t, base, k2, v2)
	assertValue(t, base, k3, nil)

	// and to test devnull....
	require.NoError(t, base.Write())
	assertValue(t, devnull, k2, nil)
}

func assertValue(t testing.TB, db ReadOnlyKVStore, key, want []byte) {
	t.Helper()

	got, err := db.Get(key)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	has, err := db.Has(key)
	require.NoError(t, err)
	assert.Equal(t, want != nil, has)
}

func TestBTreeCacheIterator(t *testing.T) {
	base := MemStore()
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, base.Set([]byte(k), []byte("base-"+k)))
	}

	cache := base.CacheWrap()
	require.NoError(t, cache.Delete([]byte("b")))
	require.NoError(t, cache.Set([]byte("c"), []byte("cache-c")))
	require.NoError(t, cache.Set([]byte("ca"), []byte("cache-ca")))
	require.NoError(t, cache.Delete([]byte("e")))
	require.NoError(t, cache.Set([]byte("f"), []byte("cache-f")))

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []Model
	}{
		"full ascending": {
			want: []Model{
				{Key: []byte("a"), Value: []byte("base-a")},
				{Key: []byte("c"), Value: []byte("cache-c")},
				{Key: []byte("ca"), Value: []byte("cache-ca")},
				{Key: []byte("d"), Value: []byte("base-d")},
				{Key: []byte("f"), Value: []byte("cache-f")},
			},
		},
		"bounded ascending": {
			start: []byte("b"),
			end:   []byte("d"),
			want: []Model{
				{Key: []byte("c"), Value: []byte("cache-c")},
				{Key: []byte("ca"), Value: []byte("cache-ca")},
			},
		},
		"full descending": {
			reverse: true,
			want: []Model{
				{Key: []byte("f"), Value: []byte("cache-f")},
				{Key: []byte("d"), Value: []byte("base-d")},
				{Key: []byte("ca"), Value: []byte("cache-ca")},
				{Key: []byte("c"), Value: []byte("cache-c")},
				{Key: []byte("a"), Value: []byte("base-a")},
			},
		},
		"open end descending": {
			start:   []byte("d"),
			reverse: true,
			want: []Model{
				{Key: []byte("f"), Value: []byte("cache-f")},
				{Key: []byte("d"), Value: []byte("base-d")},
			},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var (
				it  Iterator
				err error
			)
			if tc.reverse {
				it, err = cache.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = cache.Iterator(tc.start, tc.end)
			}
			require.NoError(t, err)
			defer it.Release()
			assert.Equal(t, tc.want, consume(t, it))
		})
	}
}

func consume(t testing.TB, it Iterator) []Model {
	t.Helper()
	var res []Model
	for {
		k, v, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res
		}
		require.NoError(t, err)
		res = append(res, Model{Key: k, Value: v})
	}
}

func TestNonAtomicBatch(t *testing.T) {
	db := MemStore()
	b := db.NewBatch()
	require.NoError(t, b.Set([]byte("one"), []byte("1")))
	require.NoError(t, b.Set([]byte("two"), []byte("2")))
	require.NoError(t, b.Delete([]byte("one")))

	assertValue(t, db, []byte("two"), nil)
	require.NoError(t, b.Write())
	assertValue(t, db, []byte("one"), nil)
	assertValue(t, db, []byte("two"), []byte("2"))
}
