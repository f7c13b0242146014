package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milkledger/internal/app"
	"milkledger/internal/config"
)

func TestOpenMemoryBackend(t *testing.T) {
	ctx := context.Background()
	b, err := app.Open(ctx, config.Config{MassUOM: "KG", VolumeUOM: "Litre"})
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, "memory", b.StoreName)
	assert.NoError(t, b.Store.Ping(ctx))
	require.NotNil(t, b.Container)
	assert.NotNil(t, b.PurchaseReceipts)
	assert.NotNil(t, b.Reports)
}
