package stock_entry

import (
	"milkledger/internal/domain/documents"
)

// Repository stores stock entries with their items.
type Repository = documents.Repository[*StockEntry]
