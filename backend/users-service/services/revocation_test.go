package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func setupTestRedis(t *testing.T) (*RedisRevocationStore, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	store, err := NewRedisRevocationStore("redis://" + s.Addr())
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, s
}

func TestRedisRevocationStore(t *testing.T) {
	store, s := setupTestRedis(t)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("IsRevoked failed: %v", err)
	}
	if revoked {
		t.Fatal("fresh token reported as revoked")
	}

	if err := store.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if revoked, _ := store.IsRevoked(ctx, "jti-1"); !revoked {
		t.Error("revoked token not reported")
	}
	if !s.Exists("revoked:jti-1") {
		t.Error("expected key revoked:jti-1 in redis")
	}

	s.FastForward(2 * time.Hour)
	if revoked, _ := store.IsRevoked(ctx, "jti-1"); revoked {
		t.Error("revocation outlived token expiry")
	}
}

func TestRedisRevocationStoreSkipsExpiredTokens(t *testing.T) {
	store, s := setupTestRedis(t)

	if err := store.Revoke(context.Background(), "old", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if s.Exists("revoked:old") {
		t.Error("expired token should not be stored")
	}
}

func TestNewRedisRevocationStoreBadURL(t *testing.T) {
	if _, err := NewRedisRevocationStore("not a url"); err == nil {
		t.Error("expected error for malformed url")
	}
}

func TestMemoryRevocationStore(t *testing.T) {
	store := NewMemoryRevocationStore()
	ctx := context.Background()

	store.Revoke(ctx, "live", time.Now().Add(time.Hour))
	store.Revoke(ctx, "dead", time.Now().Add(-time.Hour))

	if revoked, _ := store.IsRevoked(ctx, "live"); !revoked {
		t.Error("live token not revoked")
	}
	if revoked, _ := store.IsRevoked(ctx, "dead"); revoked {
		t.Error("expired entry still reported")
	}
}
