// Package lock serializes postings that touch the same item and warehouse.
// Balance-after and carry-forward reads are only correct when no other
// posting for the same key commits in between.
package lock

import (
	"context"
	"sort"
	"sync"
)

// Locker acquires a set of keys as one unit.
type Locker interface {
	// Acquire blocks until every key is held or ctx is done.
	// Keys are taken in sorted order to avoid deadlocks between postings.
	Acquire(ctx context.Context, keys []string) (release func(), err error)
}

// StockKey is the lock key of one (item, warehouse) pair.
func StockKey(itemCode, warehouse string) string {
	return "mqle:" + itemCode + ":" + warehouse
}

// Normalize sorts keys and removes duplicates.
func Normalize(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok || k == "" {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// KeyedMutex is an in-process Locker for single-instance deployments and tests.
type KeyedMutex struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

// NewKeyedMutex creates an empty KeyedMutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{slots: make(map[string]*slot)}
}

// Acquire implements Locker.
func (m *KeyedMutex) Acquire(ctx context.Context, keys []string) (func(), error) {
	keys = Normalize(keys)
	held := make([]string, 0, len(keys))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			m.unlock(held[i])
		}
	}
	for _, k := range keys {
		if err := m.lock(ctx, k); err != nil {
			release()
			return nil, err
		}
		held = append(held, k)
	}
	return release, nil
}

func (m *KeyedMutex) lock(ctx context.Context, key string) error {
	m.mu.Lock()
	s, ok := m.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		m.slots[key] = s
	}
	s.refs++
	m.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		m.mu.Lock()
		m.drop(key, s)
		m.mu.Unlock()
		return ctx.Err()
	}
}

func (m *KeyedMutex) unlock(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.slots[key]
	<-s.ch
	m.drop(key, s)
}

func (m *KeyedMutex) drop(key string, s *slot) {
	s.refs--
	if s.refs == 0 {
		delete(m.slots, key)
	}
}

var _ Locker = (*KeyedMutex)(nil)
