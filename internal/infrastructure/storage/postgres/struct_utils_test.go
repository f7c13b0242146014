package postgres

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milkledger/internal/core/entity"
	"milkledger/internal/domain/documents/purchase_receipt"
)

func TestExtractDBColumnsFlattensEmbedded(t *testing.T) {
	cols := ExtractDBColumns[purchase_receipt.PurchaseReceipt]()
	for _, want := range []string{"id", "version", "created_at", "name", "posting_date", "docstatus", "supplier", "total_amount"} {
		assert.Contains(t, cols, want)
	}
	assert.NotContains(t, cols, "items")

	lineCols := ExtractDBColumns[purchase_receipt.Line]()
	assert.Contains(t, lineCols, "milk_final_rate")
	assert.Contains(t, lineCols, "quality_inspection")
	assert.NotContains(t, lineCols, "bundle")
}

func TestStructToMapAndRow(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)
	pr := purchase_receipt.NewPurchaseReceipt("SUP-1")
	pr.Document = entity.NewDocument(now, "u1")
	pr.Name = "PR-2026-00001"
	pr.Status = entity.StatusSubmitted
	pr.NetWeight = decimal.NewFromInt(1000)

	m := StructToMap(pr)
	assert.Equal(t, "PR-2026-00001", m["name"])
	assert.Equal(t, entity.StatusSubmitted, m["docstatus"])
	assert.Equal(t, 1, m["version"])
	assert.Equal(t, "SUP-1", m["supplier"])

	cols, vals := Row(pr, []string{"id", "name", "supplier", "unknown"}, "id")
	require.Len(t, vals, 2)
	assert.Equal(t, []string{"name", "supplier"}, cols)
	assert.Equal(t, "SUP-1", vals[1])
}
