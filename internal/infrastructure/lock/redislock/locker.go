// Package redislock provides a Locker backed by Redis so that several server
// instances posting against one database serialize on the same keys.
package redislock

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"milkledger/internal/core/apperror"
	"milkledger/internal/core/lock"
	"milkledger/pkg/logger"
)

// DefaultTTL bounds how long a crashed holder can block others.
const DefaultTTL = 30 * time.Second

// Locker implements lock.Locker on top of bsm/redislock.
type Locker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  time.Duration
}

// New creates a Locker using an existing Redis client.
func New(rdb redis.UniversalClient, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Locker{
		client: redislock.New(rdb),
		ttl:    ttl,
		retry:  50 * time.Millisecond,
	}
}

// Acquire implements lock.Locker. It keeps retrying until ctx is done.
func (l *Locker) Acquire(ctx context.Context, keys []string) (func(), error) {
	keys = lock.Normalize(keys)
	held := make([]*redislock.Lock, 0, len(keys))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			// Background: release must happen even if the request was cancelled.
			if err := held[i].Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				logger.Warn(ctx, "failed to release redis lock", "key", held[i].Key(), "error", err)
			}
		}
	}

	opts := &redislock.Options{RetryStrategy: redislock.LinearBackoff(l.retry)}
	for _, k := range keys {
		lk, err := l.client.Obtain(ctx, k, l.ttl, opts)
		// A deadline hit mid-command means the key was still held when time ran out.
		if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
			release()
			return nil, apperror.NewLocked(k)
		}
		if err != nil {
			release()
			return nil, apperror.NewInternal(err).WithDetail("key", k)
		}
		held = append(held, lk)
	}
	return release, nil
}

var _ lock.Locker = (*Locker)(nil)
