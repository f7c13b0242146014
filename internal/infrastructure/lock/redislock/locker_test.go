package redislock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milkledger/internal/core/apperror"
	"milkledger/internal/core/lock"
)

func newLocker(t *testing.T, ttl time.Duration) (*Locker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	l := New(rdb, ttl)
	l.retry = 10 * time.Millisecond
	return l, mr
}

func TestAcquireAndRelease(t *testing.T) {
	l, mr := newLocker(t, 5*time.Second)
	ctx := context.Background()
	tank, store := lock.StockKey("MILK-COW", "TANK-1"), lock.StockKey("MILK-COW", "STORES")

	release, err := l.Acquire(ctx, []string{tank, store, tank})
	require.NoError(t, err)
	assert.True(t, mr.Exists(tank))
	assert.True(t, mr.Exists(store))
	assert.Equal(t, 5*time.Second, mr.TTL(tank))

	release()
	assert.False(t, mr.Exists(tank))
	assert.False(t, mr.Exists(store))
}

func TestHeldKeyReportsLocked(t *testing.T) {
	l, mr := newLocker(t, time.Minute)
	first, second := lock.StockKey("MILK-COW", "A"), lock.StockKey("MILK-COW", "B")

	release, err := l.Acquire(context.Background(), []string{second})
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx, []string{first, second})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, apperror.CodeLocked, appErr.Code)
	assert.Equal(t, second, appErr.Details["key"])
	assert.False(t, mr.Exists(first), "keys taken before the failure are released")
}

func TestReleasedKeyCanBeRetaken(t *testing.T) {
	l, _ := newLocker(t, time.Minute)
	key := lock.StockKey("MILK-BUF", "TANK-1")

	release, err := l.Acquire(context.Background(), []string{key})
	require.NoError(t, err)

	go func() {
		time.Sleep(30 * time.Millisecond)
		release()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	again, err := l.Acquire(ctx, []string{key})
	require.NoError(t, err)
	again()
}

func TestNonPositiveTTLUsesDefault(t *testing.T) {
	l, _ := newLocker(t, 0)
	assert.Equal(t, DefaultTTL, l.ttl)
}
