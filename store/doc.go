/*
Package store provides the in-memory layers of the state: a btree based
cache wrap that can be stacked on top of any KVStore, the merge iterator
combining a cache with its parent, and simple helpers used as base layers
in tests.

Persistent storage lives in the iavl subpackage.
*/
package store
