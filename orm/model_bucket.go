package orm

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	custody.Persistent
	Validate() error
}

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// ModelBucket stores models of a single type under a common prefix.
type ModelBucket struct {
	name   string
	prefix []byte
	model  reflect.Type
}

// NewModelBucket returns a bucket that stores models of the same type as the
// given example. Bucket name must be unique within the application.
func NewModelBucket(name string, example Model) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	if reflect.TypeOf(example).Kind() != reflect.Ptr {
		panic(fmt.Sprintf("Bucket %s model must be a pointer, got %T", name, example))
	}
	return ModelBucket{
		name:   name,
		prefix: []byte(name + ":"),
		model:  reflect.TypeOf(example),
	}
}

// Name returns the name of the bucket.
func (b ModelBucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix.
func (b ModelBucket) DBKey(key []byte) []byte {
	return append(append([]byte{}, b.prefix...), key...)
}

// One query the database for a single model instance. Result is loaded into
// given destination model. ErrNotFound is returned if the entity does not
// exist and ErrType if destination is not of the bucket model type.
func (b ModelBucket) One(db custody.ReadOnlyKVStore, key []byte, dest Model) error {
	if t := reflect.TypeOf(dest); t != b.model {
		return errors.Wrapf(errors.ErrType, "%s bucket cannot load %s", b.model, t)
	}
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot load from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "cannot unmarshal %T", dest)
	}
	return nil
}

// Has returns true if an entity with given key exists.
func (b ModelBucket) Has(db custody.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// Put validates and saves given model in the database.
func (b ModelBucket) Put(db custody.KVStore, key []byte, m Model) error {
	if t := reflect.TypeOf(m); t != b.model {
		return errors.Wrapf(errors.ErrType, "%s bucket cannot store %s", b.model, t)
	}
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(err, "cannot marshal %T", m)
	}
	// a zero value model may serialize to nothing, still it must exist
	if raw == nil {
		raw = []byte{}
	}
	if err := db.Set(b.DBKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

// Delete removes an entity with given primary key from the database.
// It returns ErrNotFound if an entity with given key does not exist.
func (b ModelBucket) Delete(db custody.KVStore, key []byte) error {
	dbkey := b.DBKey(key)
	ok, err := db.Has(dbkey)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s key %X", b.name, key)
	}
	return db.Delete(dbkey)
}

// Range loads all models with keys in [start, end) into destination, which
// must be a pointer to a slice of models or model pointers. A nil start or
// end is not bounded within the bucket. Keys of loaded models are returned
// in the same order.
func (b ModelBucket) Range(db custody.ReadOnlyKVStore, start, end []byte, destination interface{}) ([][]byte, error) {
	dest := reflect.ValueOf(destination)
	if dest.Kind() != reflect.Ptr || dest.Elem().Kind() != reflect.Slice {
		return nil, errors.Wrapf(errors.ErrType, "destination must be a pointer to a slice, got %T", destination)
	}
	slice := dest.Elem()
	elem := slice.Type().Elem()
	if elem != b.model && reflect.PtrTo(elem) != b.model {
		return nil, errors.Wrapf(errors.ErrType, "%s bucket cannot load %s", b.model, elem)
	}

	to := PrefixEnd(b.prefix)
	if end != nil {
		to = b.DBKey(end)
	}
	it, err := db.Iterator(b.DBKey(start), to)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var keys [][]byte
	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			break
		}
		if err != nil {
			return nil, err
		}
		m := reflect.New(b.model.Elem())
		if err := m.Interface().(Model).Unmarshal(value); err != nil {
			return nil, errors.Wrapf(err, "cannot unmarshal %X", key)
		}
		if elem == b.model {
			slice = reflect.Append(slice, m)
		} else {
			slice = reflect.Append(slice, m.Elem())
		}
		keys = append(keys, key[len(b.prefix):])
	}
	dest.Elem().Set(slice)
	return keys, nil
}

// ByPrefix loads all models with a key starting with given prefix. See
// Range for the destination requirements.
func (b ModelBucket) ByPrefix(db custody.ReadOnlyKVStore, prefix []byte, destination interface{}) ([][]byte, error) {
	var end []byte
	if len(prefix) > 0 {
		end = PrefixEnd(prefix)
	}
	return b.Range(db, prefix, end, destination)
}

// Register registers this bucket as a query handler under "/<name>" path.
func (b ModelBucket) Register(name string, r custody.QueryRouter) {
	r.Register("/"+name, b)
}

// Query handles queries from the QueryRouter. Data is either an exact key or
// a key prefix. Returned models carry the full database key.
func (b ModelBucket) Query(db custody.ReadOnlyKVStore, mod string, data []byte) ([]custody.Model, error) {
	switch mod {
	case custody.KeyQueryMod:
		key := b.DBKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []custody.Model{custody.Pair(key, value)}, nil
	case custody.PrefixQueryMod:
		prefix := b.DBKey(data)
		it, err := db.Iterator(prefix, PrefixEnd(prefix))
		if err != nil {
			return nil, err
		}
		return ConsumeIterator(it)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}
