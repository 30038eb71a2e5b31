package redisclient

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb, err := NewRedisClient(context.Background(), mr.Addr(), "", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestNewRedisClient_PingFails(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.Background(), addr, "", "")
	assert.Error(t, err)
}

func TestWithLock_ReleasesAfterRun(t *testing.T) {
	mr, rdb := newTestRedis(t)
	locker := NewRedisLocker(rdb, time.Minute)

	ran := false
	err := locker.WithLock(context.Background(), "alerts", func(ctx context.Context) error {
		ran = true
		assert.True(t, mr.Exists(lockKey("alerts")))
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.False(t, mr.Exists(lockKey("alerts")))
}

func TestWithLock_HeldElsewhere(t *testing.T) {
	mr, rdb := newTestRedis(t)
	require.NoError(t, mr.Set(lockKey("alerts"), "other-replica"))

	locker := NewRedisLocker(rdb, time.Minute)
	err := locker.WithLock(context.Background(), "alerts", func(ctx context.Context) error {
		t.Fatal("fn must not run without the lock")
		return nil
	})
	assert.ErrorIs(t, err, ErrLockNotAcquired)

	v, err := mr.Get(lockKey("alerts"))
	require.NoError(t, err)
	assert.Equal(t, "other-replica", v)
}
