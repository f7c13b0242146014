package app

import (
	"milkledger/internal/infrastructure/storage/memory"
)

// MemoryRepositories exposes an in-memory store as a backend.
func MemoryRepositories(store *memory.Store) Repositories {
	return Repositories{
		TxManager:          store,
		Numerator:          store,
		Items:              store.ItemRepo(),
		ItemGroups:         store.ItemGroupRepo(),
		Suppliers:          store.SupplierRepo(),
		MilkTypes:          store.MilkTypeRepo(),
		Warehouses:         store.WarehouseRepo(),
		PurchaseReceipts:   store.PurchaseReceiptRepo(),
		QualityInspections: store.QualityInspectionRepo(),
		StockEntries:       store.StockEntryRepo(),
		Stock:              store.StockRepo(),
		Ledger:             store.LedgerRepo(),
		Reports:            store.ReportRepo(),
		Audit:              store.AuditLog(),
	}
}
