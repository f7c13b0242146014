package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milkledger/internal/core/apperror"
	"milkledger/internal/core/numerator"
	"milkledger/internal/domain/catalogs/item"
)

var period = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func TestFailedTransactionRestoresState(t *testing.T) {
	s := New()
	items := s.ItemRepo()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.RunInTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, items.Create(ctx, item.NewItem("MILK-COW", "Cow milk", "KG")))
		_, err := s.GetNextNumber(ctx, numerator.DefaultConfig("PR"), period)
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = items.GetByCode(ctx, "MILK-COW")
	assert.True(t, apperror.IsNotFound(err))

	name, err := s.GetNextNumber(ctx, numerator.DefaultConfig("PR"), period)
	require.NoError(t, err)
	assert.Equal(t, "PR-2026-00001", name)
}

func TestPingDuringTransactions(t *testing.T) {
	s := New()
	ctx := context.Background()
	items := s.ItemRepo()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.RunInTransaction(ctx, func(ctx context.Context) error {
				_ = items.Create(ctx, item.NewItem(fmt.Sprintf("ITEM-%d", i), "", "KG"))
				return errors.New("rollback")
			})
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Ping(ctx))
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, s.Stats()["items"])
}

func TestNestedTransactionJoinsOuter(t *testing.T) {
	s := New()
	items := s.ItemRepo()
	ctx := context.Background()

	err := s.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.RunInTransaction(ctx, func(ctx context.Context) error {
			return items.Create(ctx, item.NewItem("MILK-COW", "Cow milk", "KG"))
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Stats()["items"])
}

func TestCatalogUpdateChecksVersion(t *testing.T) {
	s := New()
	items := s.ItemRepo()
	ctx := context.Background()

	it := item.NewItem("MILK-COW", "Cow milk", "KG")
	require.NoError(t, items.Create(ctx, it))

	fresh, err := items.GetByCode(ctx, "MILK-COW")
	require.NoError(t, err)
	stale, err := items.GetByCode(ctx, "MILK-COW")
	require.NoError(t, err)

	fresh.Name = "Raw cow milk"
	require.NoError(t, items.Update(ctx, fresh))
	assert.Equal(t, 2, fresh.Version)

	stale.Name = "Lost update"
	err = items.Update(ctx, stale)
	assert.True(t, apperror.IsConcurrentModification(err))

	got, err := items.GetByCode(ctx, "MILK-COW")
	require.NoError(t, err)
	assert.Equal(t, "Raw cow milk", got.Name)
}

func TestReadsReturnCopies(t *testing.T) {
	s := New()
	items := s.ItemRepo()
	ctx := context.Background()

	it := item.NewItem("MILK-COW", "Cow milk", "KG")
	it.AddConversion("Litre", decimal.RequireFromString("1.0339"))
	require.NoError(t, items.Create(ctx, it))

	got, err := items.GetByCode(ctx, "MILK-COW")
	require.NoError(t, err)
	got.Conversions[0].UOM = "Can"

	again, err := items.GetByCode(ctx, "MILK-COW")
	require.NoError(t, err)
	assert.Equal(t, "Litre", again.Conversions[0].UOM)
}
