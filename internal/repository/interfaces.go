package repository

import "context"

// KVStore is the string-keyed persistence port routine state is flushed to
// after every mutation. Each Set is a full overwrite of its key.
type KVStore interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
	// Batch runs fn against a store whose writes either all land or, if fn
	// returns an error, none do.
	Batch(ctx context.Context, fn func(ctx context.Context, tx KVStore) error) error
}
