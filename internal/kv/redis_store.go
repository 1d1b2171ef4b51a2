package kv

import (
	"context"

	"github.com/redis/rueidis"
)

// RedisStore backs the local key-value contract with redis, for setups
// that want the local-mode blobs off the device filesystem.
type RedisStore struct {
	client rueidis.Client
}

func NewRedisStore(client rueidis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	cmd := s.client.B().Get().Key(key).Build()
	result := s.client.Do(ctx, cmd)

	v, err := result.ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return "", false, nil
		}
		return "", false, err
	}

	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	cmd := s.client.B().Set().Key(key).Value(value).Build()
	return s.client.Do(ctx, cmd).Error()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	cmd := s.client.B().Del().Key(key).Build()
	return s.client.Do(ctx, cmd).Error()
}
