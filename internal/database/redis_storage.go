package database

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisStorage adapts a go-redis client to fiber.Storage so the session
// middleware can keep sessions out-of-process. Keys are namespaced to avoid
// colliding with anything else on a shared instance.
type redisStorage struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisSessionStorage wraps rdb as session storage.
func NewRedisSessionStorage(rdb *redis.Client) *redisStorage {
	return &redisStorage{rdb: rdb, prefix: "session:"}
}

func (s *redisStorage) Get(key string) ([]byte, error) {
	val, err := s.rdb.Get(context.Background(), s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		// fiber.Storage contract: a miss is (nil, nil), not an error.
		return nil, nil
	}
	return val, err
}

func (s *redisStorage) Set(key string, val []byte, exp time.Duration) error {
	return s.rdb.Set(context.Background(), s.prefix+key, val, exp).Err()
}

func (s *redisStorage) Delete(key string) error {
	return s.rdb.Del(context.Background(), s.prefix+key).Err()
}

func (s *redisStorage) Reset() error {
	iter := s.rdb.Scan(context.Background(), 0, s.prefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(context.Background()) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(context.Background(), keys...).Err()
}

func (s *redisStorage) Close() error {
	return s.rdb.Close()
}
