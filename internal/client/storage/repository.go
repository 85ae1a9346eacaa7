// Package storage is the client's key-value persistence port. Services depend
// on Repository only, so the SQLite store can be swapped for MemoryRepository
// in tests.
package storage

import "context"

// Repository is a flat key-value store.
//
// Get returns (nil, nil) for an absent key. SetMany writes all pairs or none.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
}
