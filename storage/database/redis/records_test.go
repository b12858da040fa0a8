package redisrepos

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trezcool/scuola/core"
	testutil "github.com/trezcool/scuola/tests"
)

// Runs against a real Redis server: TEST_REDIS_ADDR=127.0.0.1:6379 (db 15 is flushed).
func TestRecordRepository(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()

	rdb, err := Open(ctx, &core.Config{Redis: core.RedisConfig{Addr: addr, DB: 15}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.FlushDB(ctx).Err())

	testutil.TestRepository(t, NewRecordRepository(rdb))
}
