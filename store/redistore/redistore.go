// Package redistore is the redis KV backend, for state that must outlive
// the process or be shared across instances.
package redistore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/on-the-ground/react_ive_go/store"
)

// Store implements store.KV on a redis client. All keys are namespaced
// under prefix so unrelated slots can share one logical database.
type Store struct {
	client *redis.Client
	prefix string
}

var _ store.KV = (*Store)(nil)

// New wraps client. An empty prefix stores keys verbatim.
func New(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, value, ttl).Err()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+key).Result()
	return n > 0, err
}
