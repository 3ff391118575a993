package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisCacheFromClient(client), mr
}

func TestRedisCache_GetMissing(t *testing.T) {
	c, _ := setupTestCache(t)

	_, found, err := c.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Error("Expected miss for absent key")
	}
}

func TestRedisCache_SetGet(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "leaderboard:xp::50", `[{"rank":1}]`, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, found, err := c.Get(ctx, "leaderboard:xp::50")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("Expected hit after Set")
	}
	if value != `[{"rank":1}]` {
		t.Errorf("Expected stored value, got %q", value)
	}
}

func TestRedisCache_TTLExpiry(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	_, found, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Error("Expected key to expire after TTL")
	}
}

func TestRedisCache_Del(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "a", "1", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Del(ctx, "a", "missing"); err != nil {
		t.Fatalf("Del failed: %v", err)
	}

	_, found, err := c.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Error("Expected key to be deleted")
	}
}
