package orm

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// ConsumeIterator will read all remaining data into an array and release
// the iterator.
func ConsumeIterator(it custody.Iterator) ([]custody.Model, error) {
	defer it.Release()

	var res []custody.Model
	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, custody.Pair(key, value))
	}
}

// PrefixEnd returns the first key that does not start with given prefix,
// or nil if there is none.
func PrefixEnd(prefix []byte) []byte {
	end := append([]byte{}, prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
