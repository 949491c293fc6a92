package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const reportCachePrefix = "claims_backoffice:reports:"

// ReportCache stores computed report summaries
type ReportCache interface {
	Get(ctx context.Context, key string) (*ReportSummary, bool, error)
	Set(ctx context.Context, key string, summary *ReportSummary) error
	Invalidate(ctx context.Context) error
}

// Reports is the global report cache, a no-op until InitializeReportCache runs
var Reports ReportCache = NoopReportCache{}

// InitializeReportCache connects to Redis when redisURL is set. Connection
// failures fall back to computing reports on every request.
func InitializeReportCache(redisURL string, ttl time.Duration) {
	if redisURL == "" {
		Reports = NoopReportCache{}
		log.Println("[INFO] Report cache disabled (REDIS_URL not set)")
		return
	}

	cache, err := NewRedisReportCache(redisURL, ttl)
	if err != nil {
		log.Printf("[WARNING] Report cache unavailable: %v. Reports will be computed on every request.", err)
		Reports = NoopReportCache{}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cache.client.Ping(ctx).Err(); err != nil {
		log.Printf("[WARNING] Failed to connect to Redis: %v. Reports will be computed on every request.", err)
		cache.Close()
		Reports = NoopReportCache{}
		return
	}

	Reports = cache
	log.Printf("[INFO] Report cache enabled (ttl %s)", ttl)
}

// reportCacheKey scopes a summary to the observer's timezone and calendar day,
// lifecycle states and month buckets depend on both
func reportCacheKey(now time.Time, loc *time.Location) string {
	return fmt.Sprintf("%ssummary:%s:%s", reportCachePrefix, loc.String(), now.In(loc).Format("2006-01-02"))
}

// invalidateReports drops cached summaries after a write
func invalidateReports(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := Reports.Invalidate(ctx); err != nil {
		log.Printf("[WARNING] Report cache invalidation failed: %v", err)
	}
}

// NoopReportCache never stores anything
type NoopReportCache struct{}

func (NoopReportCache) Get(ctx context.Context, key string) (*ReportSummary, bool, error) {
	return nil, false, nil
}

func (NoopReportCache) Set(ctx context.Context, key string, summary *ReportSummary) error {
	return nil
}

func (NoopReportCache) Invalidate(ctx context.Context) error { return nil }

// RedisReportCache keeps JSON encoded summaries in Redis
type RedisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisReportCache parses a redis:// URL into a client
func NewRedisReportCache(redisURL string, ttl time.Duration) (*RedisReportCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisReportCache{client: redis.NewClient(opts), ttl: ttl}, nil
}

func (r *RedisReportCache) Get(ctx context.Context, key string) (*ReportSummary, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get report from redis: %w", err)
	}

	var summary ReportSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &summary, true, nil
}

func (r *RedisReportCache) Set(ctx context.Context, key string, summary *ReportSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return r.client.Set(ctx, key, data, r.ttl).Err()
}

// Invalidate deletes every cached summary
func (r *RedisReportCache) Invalidate(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, reportCachePrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

// Close releases the Redis connection pool
func (r *RedisReportCache) Close() error {
	return r.client.Close()
}
