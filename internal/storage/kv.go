// Package storage provides the persistence port for application state: a
// small key-value contract with memory, file, SQLite and Redis backends, and
// a typed StateStore that applies the versioned-schema policy on top of it.
package storage

// KV is the low-level persistence port. Implementations must treat a missing
// key as (nil, false, nil), not as an error.
type KV interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}
