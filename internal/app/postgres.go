package app

import (
	"fmt"

	"milkledger/internal/infrastructure/storage/postgres"
	"milkledger/internal/infrastructure/storage/postgres/catalog_repo"
	"milkledger/internal/infrastructure/storage/postgres/document_repo"
	"milkledger/internal/infrastructure/storage/postgres/register_repo"
	"milkledger/internal/infrastructure/storage/postgres/report_repo"
)

// PostgresRepositories exposes a PostgreSQL database as a backend.
func PostgresRepositories(txm *postgres.TxManager) (Repositories, error) {
	audit, err := postgres.NewAuditLog(txm)
	if err != nil {
		return Repositories{}, fmt.Errorf("create audit log: %w", err)
	}

	return Repositories{
		TxManager:          txm,
		Numerator:          postgres.NewNumerator(txm),
		Items:              catalog_repo.NewItemRepo(txm),
		ItemGroups:         catalog_repo.NewItemGroupRepo(txm),
		Suppliers:          catalog_repo.NewSupplierRepo(txm),
		MilkTypes:          catalog_repo.NewMilkTypeRepo(txm),
		Warehouses:         catalog_repo.NewWarehouseRepo(txm),
		PurchaseReceipts:   document_repo.NewPurchaseReceiptRepo(txm),
		QualityInspections: document_repo.NewQualityInspectionRepo(txm),
		StockEntries:       document_repo.NewStockEntryRepo(txm),
		Stock:              register_repo.NewStockRepo(txm),
		Ledger:             register_repo.NewLedgerRepo(txm),
		Reports:            report_repo.NewReportRepo(txm),
		Audit:              audit,
	}, nil
}
