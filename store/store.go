// Package store defines the key-value surface the persistent mirror
// flushes into and hydrates from.
//
// The interface is deliberately narrow: string keys, opaque byte values,
// optional expiry. Backends range from a process-local map to redis; the
// mirror never assumes anything beyond these four calls.
package store

import (
	"context"
	"time"
)

// KV is an ambient key-value store.
//
// Get returns (nil, nil) for an absent key; absence is not an error.
// A ttl of 0 means the value does not expire. Backends that cannot
// express expiry return an error from Set for ttl > 0.
type KV interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
