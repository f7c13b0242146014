package catalog_repo

import (
	"milkledger/internal/core/entity"
	"milkledger/internal/domain/catalogs/warehouse"
	"milkledger/internal/infrastructure/storage/postgres"
)

const warehouseTable = "cat_warehouses"

// WarehouseRepo implements warehouse.Repository.
type WarehouseRepo struct {
	*BaseCatalogRepo[*warehouse.Warehouse]
}

// NewWarehouseRepo creates a new warehouse repository.
func NewWarehouseRepo(txManager *postgres.TxManager) *WarehouseRepo {
	return &WarehouseRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*warehouse.Warehouse](
			txManager,
			warehouseTable, "warehouse",
			postgres.ExtractDBColumns[warehouse.Warehouse](),
			func() *warehouse.Warehouse { return &warehouse.Warehouse{} },
			func(w *warehouse.Warehouse) *entity.Catalog { return &w.Catalog },
		),
	}
}

var _ warehouse.Repository = (*WarehouseRepo)(nil)
