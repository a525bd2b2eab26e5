// Package kv defines the key-value persistence abstraction backing the
// scratchpad store. Each key maps to one JSON record. Implementations
// handle the actual storage while consumers depend only on this
// interface, enabling testing with an in-memory substitute.
package kv

import "errors"

// ErrNotFound indicates the requested record does not exist.
// Check with errors.Is.
var ErrNotFound = errors.New("record not found")

// Store persists one opaque record per key.
//
// Writes are whole-record overwrites; there is no partial update. Get
// returns ErrNotFound for missing keys, every other error is a storage
// failure the caller should surface.
type Store interface {
	// Get returns the record stored under key.
	Get(key string) ([]byte, error)

	// Put stores data under key, replacing any existing record.
	Put(key string, data []byte) error

	// Delete removes the record under key. Returns ErrNotFound if the
	// key does not exist.
	Delete(key string) error

	// List returns all keys with a record, in no particular order.
	List() ([]string, error)
}
