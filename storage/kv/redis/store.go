package rediskv

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/skillxp/core"
)

// Store keeps values in Redis under prefix. Keys never expire.
type Store struct {
	client redis.UniversalClient
	prefix string
}

var _ core.KVStore = (*Store)(nil)

func New(client redis.UniversalClient, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

// Open connects to the Redis server described by conf and pings it.
func Open(ctx context.Context, conf core.KVConfig) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.RedisAddr,
		Password: conf.RedisPassword,
		DB:       conf.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return New(client, conf.Prefix), nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, core.ErrKeyNotFound
		}
		return nil, wrap(err, "redis get")
	}
	return val, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return wrap(s.client.Set(ctx, s.prefix+key, value, 0).Err(), "redis set")
}

func (s *Store) Create(ctx context.Context, key string, value []byte) error {
	created, err := s.client.SetNX(ctx, s.prefix+key, value, 0).Result()
	if err != nil {
		return wrap(err, "redis setnx")
	}
	if !created {
		return core.ErrKeyExists
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return wrap(s.client.Del(ctx, s.prefix+key).Err(), "redis del")
}

func (s *Store) Close() error { return s.client.Close() }

func wrap(err error, msg string) error {
	if errors.Is(err, redis.ErrClosed) {
		return core.ErrKVClosed
	}
	return errors.Wrap(err, msg)
}
