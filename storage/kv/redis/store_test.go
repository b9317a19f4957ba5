package rediskv

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/skillxp/storage/kv/kvtest"
)

// setupTestRedis skips the test when no Redis server is reachable.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("redis not available at %s: %v", addr, err)
	}
	return client
}

func TestStore(t *testing.T) {
	client := setupTestRedis(t)
	prefix := "skillxp-test:" + uuid.NewString() + ":"
	store := New(client, prefix)

	t.Cleanup(func() {
		ctx := context.Background()
		keys, _ := client.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		_ = store.Close()
	})

	kvtest.Run(t, store)
}

func TestStore_closed(t *testing.T) {
	client := setupTestRedis(t)
	prefix := "skillxp-test:" + uuid.NewString() + ":"
	t.Cleanup(func() {
		c := redis.NewClient(&redis.Options{Addr: client.Options().Addr})
		defer c.Close()
		c.Del(context.Background(), prefix+"before-close")
	})
	kvtest.RunClosed(t, New(client, prefix))
}
