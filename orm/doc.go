/*
Package orm maps models onto the key value store.

A ModelBucket stores a single model type under a unique key prefix and can
be registered as a query handler. A Sequence is a persisted counter that
generates ordered keys.

Keys passed to and returned from a bucket never contain the bucket prefix.
*/
package orm
