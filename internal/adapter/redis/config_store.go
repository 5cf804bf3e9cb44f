package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/pscheid92/subredirect/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

// ConfigStore is the Redis-backed domain.ConfigStore. Keys live under a namespace
// prefix ("<namespace>:<key>") and never expire.
type ConfigStore struct {
	rdb       goredis.Cmdable
	namespace string
}

var _ domain.ConfigStore = (*ConfigStore)(nil)

func NewConfigStore(rdb goredis.Cmdable, namespace string) *ConfigStore {
	return &ConfigStore{rdb: rdb, namespace: namespace}
}

func (s *ConfigStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.rdb.Get(ctx, s.key(key)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis GET %s: %w", s.key(key), err)
	}
	return value, true, nil
}

func (s *ConfigStore) Set(ctx context.Context, key, value string) error {
	if err := s.rdb.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", s.key(key), err)
	}
	return nil
}

func (s *ConfigStore) key(key string) string {
	if s.namespace == "" {
		return key
	}
	return s.namespace + ":" + key
}
