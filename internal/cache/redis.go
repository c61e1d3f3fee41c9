package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keys
const (
	CashbookBalanceKeyFmt = "cashbook:balance:%d"
	DaybookSummaryKeyFmt  = "daybook:summary:%d"
)

var client *redis.Client

// Init connects to Redis. On failure the client stays nil and every cache
// operation degrades to a no-op, so the service runs without Redis.
func Init() error {
	host := os.Getenv("REDIS_SERVICE_HOST")
	if host == "" {
		host = "redis"
	}
	port := os.Getenv("REDIS_SERVICE_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client, nil when degraded.
func GetClient() *redis.Client {
	return client
}

// hashCredentials creates a hash of email+password for the auth cache key.
func hashCredentials(email, password string) string {
	h := sha256.New()
	h.Write([]byte(email + ":" + password))
	return "auth:" + hex.EncodeToString(h.Sum(nil))[:32]
}

// GetCachedAuth checks if credentials are cached and valid.
func GetCachedAuth(ctx context.Context, email, password string) (int64, bool) {
	if client == nil {
		return 0, false
	}
	userID, err := client.Get(ctx, hashCredentials(email, password)).Int64()
	if err != nil {
		return 0, false
	}
	return userID, true
}

// CacheAuth caches valid credentials for 15 minutes.
func CacheAuth(ctx context.Context, email, password string, userID int64) {
	if client == nil {
		return
	}
	client.Set(ctx, hashCredentials(email, password), userID, 15*time.Minute)
}

// InvalidateAuth removes cached auth on password change or deactivation.
func InvalidateAuth(ctx context.Context, email, password string) {
	if client == nil {
		return
	}
	client.Del(ctx, hashCredentials(email, password))
}

// GetCached returns cached data for a key.
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL.
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// InvalidatePattern removes all keys matching a glob pattern.
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	keys, err := client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateKeys removes specific cache keys.
func InvalidateKeys(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidateAdmissionCaches clears admission listings and the financial
// rollups that depend on them.
func InvalidateAdmissionCaches(ctx context.Context) {
	InvalidatePattern(ctx, "admissions:*")
}

// InvalidatePaymentCaches clears everything a recorded payment can move:
// the admission's figures, the branch cashbook balance and the daybook
// rollup.
func InvalidatePaymentCaches(ctx context.Context, branchID int) {
	InvalidatePattern(ctx, "admissions:*")
	InvalidatePattern(ctx, "payments:*")
	InvalidateKeys(ctx,
		fmt.Sprintf(CashbookBalanceKeyFmt, branchID),
		fmt.Sprintf(DaybookSummaryKeyFmt, branchID))
}

// InvalidateCashbookCaches clears the branch's cash ledger caches.
func InvalidateCashbookCaches(ctx context.Context, branchID int) {
	InvalidatePattern(ctx, "cashbook:*")
	InvalidateKeys(ctx, fmt.Sprintf(CashbookBalanceKeyFmt, branchID))
}

// InvalidateMasterDataCaches clears branch/college/course/agent listings.
func InvalidateMasterDataCaches(ctx context.Context) {
	InvalidatePattern(ctx, "masterdata:*")
}

// InvalidateUserCaches clears user listings.
func InvalidateUserCaches(ctx context.Context) {
	InvalidatePattern(ctx, "users:*")
}

// IsHealthy returns true if the Redis connection is working.
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}
