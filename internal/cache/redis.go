package cache

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keys
const (
	MartListKey    = "marts:list"
	ProductListKey = "products:list"
	MartSummaryFmt = "mart:%d:summary"
)

var client *redis.Client

// Init initializes the Redis connection. The cache is best-effort: when Redis
// is unreachable every helper degrades to a miss and the API keeps working.
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

// GetCachedMartList returns the cached mart list payload if available
func GetCachedMartList(ctx context.Context) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, MartListKey).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// CacheMartList caches the mart list payload for 2 minutes
func CacheMartList(ctx context.Context, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, MartListKey, data, 2*time.Minute)
}

// GetCachedMartSummary returns a cached summary payload for one mart
func GetCachedMartSummary(ctx context.Context, martID int) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, fmt.Sprintf(MartSummaryFmt, martID)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// CacheMartSummary caches a mart summary payload for 2 minutes
func CacheMartSummary(ctx context.Context, martID int, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, fmt.Sprintf(MartSummaryFmt, martID), data, 2*time.Minute)
}

// InvalidateMartCaches drops the list cache and one mart's summary after a
// mutation. Must be called on every create/update/delete and every recorded
// transaction, or reads serve stale stock.
func InvalidateMartCaches(ctx context.Context, martID int) {
	if client == nil {
		return
	}
	client.Del(ctx, MartListKey, fmt.Sprintf(MartSummaryFmt, martID))
}

// GetCachedProducts returns the cached catalog payload if available
func GetCachedProducts(ctx context.Context) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, ProductListKey).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// CacheProducts caches the catalog payload for 30 minutes; the catalog only
// changes via migration
func CacheProducts(ctx context.Context, data []byte) {
	if client == nil {
		return
	}
	client.Set(ctx, ProductListKey, data, 30*time.Minute)
}
