package core

import "context"

// ErrKVClosed is returned by a KVStore used after Close. It is a shutdown error.
var ErrKVClosed = NewShutdownError("kv store closed")

// KVStore is the persistence surface behind the session store.
// Get returns ErrKeyNotFound when the key is absent. Delete of an absent key is not an error.
// Create stores value only if key is absent, atomically, and returns ErrKeyExists otherwise.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Create(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
