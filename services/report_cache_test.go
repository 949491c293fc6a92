package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportCacheKey(t *testing.T) {
	saoPaulo, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	now := time.Date(2024, 6, 1, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, "claims_backoffice:reports:summary:UTC:2024-06-01", reportCacheKey(now, time.UTC))
	assert.Equal(t, "claims_backoffice:reports:summary:America/Sao_Paulo:2024-05-31", reportCacheKey(now, saoPaulo))
}

func TestNoopReportCache(t *testing.T) {
	ctx := context.Background()
	cache := NoopReportCache{}

	require.NoError(t, cache.Set(ctx, "k", &ReportSummary{}))
	got, ok, err := cache.Get(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.NoError(t, cache.Invalidate(ctx))
}

func TestNewRedisReportCache(t *testing.T) {
	_, err := NewRedisReportCache("not-a-url", time.Minute)
	assert.Error(t, err)

	cache, err := NewRedisReportCache("redis://localhost:6379/2", 0)
	require.NoError(t, err)
	defer cache.Close()
	assert.Equal(t, time.Minute, cache.ttl)
	assert.Equal(t, 2, cache.client.Options().DB)
}

func TestInitializeReportCacheFallsBack(t *testing.T) {
	previous := Reports
	t.Cleanup(func() { Reports = previous })

	InitializeReportCache("", time.Minute)
	assert.IsType(t, NoopReportCache{}, Reports)

	// Nothing listens on port 1
	InitializeReportCache("redis://127.0.0.1:1/0", time.Minute)
	assert.IsType(t, NoopReportCache{}, Reports)
}
