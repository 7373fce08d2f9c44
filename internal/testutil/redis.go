package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// Database 15 keeps test keys away from a developer's default database.
const defaultRedisTestURL = "redis://localhost:6379/15"

// GetRedisTestURL returns the Redis test URL, checking TEST_REDIS_URL first.
func GetRedisTestURL() string {
	if url := os.Getenv("TEST_REDIS_URL"); url != "" {
		return url
	}
	return defaultRedisTestURL
}

// SetupRedis connects to the Redis test database and flushes it. The test is skipped
// when Redis is not reachable. The client is closed when the test ends.
func SetupRedis(t *testing.T) *redis.Client {
	t.Helper()

	opts, err := redis.ParseURL(GetRedisTestURL())
	require.NoError(t, err, "failed to parse redis test url")

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available: %v", err)
	}

	require.NoError(t, client.FlushDB(ctx).Err(), "failed to flush redis test database")
	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})

	return client
}
