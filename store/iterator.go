package store

import (
	"bytes"

	"github.com/iov-one/custody/errors"
)

// cacheIterator combines the cached operations of a BTreeCacheWrap with
// the iterator of its parent. A cached value shadows the parent value of the
// same key and a cached delete hides it.
type cacheIterator struct {
	parent    Iterator
	ascending bool

	// next parent entry, if peeked
	pkey, pval []byte
	peeked     bool
	parentDone bool

	items []keyer
}

var _ Iterator = (*cacheIterator)(nil)

func newCacheIterator(parent Iterator, items []keyer, ascending bool) *cacheIterator {
	return &cacheIterator{
		parent:    parent,
		ascending: ascending,
		items:     items,
	}
}

// Next returns the next key-value pair in the iteration order, or
// ErrIteratorDone.
func (c *cacheIterator) Next() ([]byte, []byte, error) {
	for {
		if err := c.peekParent(); err != nil {
			return nil, nil, err
		}

		if len(c.items) == 0 {
			if !c.peeked {
				return nil, nil, errors.ErrIteratorDone
			}
			return c.popParent()
		}

		local := c.items[0]
		if c.peeked {
			cmp := bytes.Compare(local.Key(), c.pkey)
			if !c.ascending {
				cmp = -cmp
			}
			if cmp > 0 {
				return c.popParent()
			}
			if cmp == 0 {
				// cache shadows the parent
				c.peeked = false
			}
		}

		c.items = c.items[1:]
		if set, ok := local.(setItem); ok {
			return set.key, set.value, nil
		}
		// deleted item, move on
	}
}

// Release releases the parent iterator.
func (c *cacheIterator) Release() {
	c.parent.Release()
	c.items = nil
}

func (c *cacheIterator) peekParent() error {
	if c.peeked || c.parentDone {
		return nil
	}
	key, value, err := c.parent.Next()
	if errors.ErrIteratorDone.Is(err) {
		c.parentDone = true
		return nil
	}
	if err != nil {
		return err
	}
	c.pkey, c.pval, c.peeked = key, value, true
	return nil
}

func (c *cacheIterator) popParent() ([]byte, []byte, error) {
	c.peeked = false
	return c.pkey, c.pval, nil
}

// SliceIterator wraps an Iterator over a slice of models.
type SliceIterator struct {
	data []Model
	idx  int
}

var _ Iterator = (*SliceIterator)(nil)

// Model groups together key and value.
type Model struct {
	Key   []byte
	Value []byte
}

// NewSliceIterator creates a new Iterator over this slice.
func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{
		data: data,
	}
}

// Next returns the next model, or ErrIteratorDone.
func (s *SliceIterator) Next() ([]byte, []byte, error) {
	if s.idx >= len(s.data) {
		return nil, nil, errors.ErrIteratorDone
	}
	m := s.data[s.idx]
	s.idx++
	return m.Key, m.Value, nil
}

// Release releases the Iterator.
func (s *SliceIterator) Release() {
	s.data = nil
}
