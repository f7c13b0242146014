package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSortsAndDedups(t *testing.T) {
	got := Normalize([]string{"b", "a", "", "b", "c"})
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	m := NewKeyedMutex()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := m.Acquire(ctx, []string{StockKey("Milk", "Stores")})
			require.NoError(t, err)
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Empty(t, m.slots)
}

func TestKeyedMutexHonoursContext(t *testing.T) {
	m := NewKeyedMutex()
	release, err := m.Acquire(context.Background(), []string{"k"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = m.Acquire(ctx, []string{"a", "k"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	release()
	release2, err := m.Acquire(context.Background(), []string{"a", "k"})
	require.NoError(t, err)
	release2()
	assert.Empty(t, m.slots)
}
