package catalog_repo

import (
	"milkledger/internal/core/entity"
	"milkledger/internal/domain/catalogs/milktype"
	"milkledger/internal/infrastructure/storage/postgres"
)

const milkTypeTable = "cat_milk_types"

// MilkTypeRepo implements milktype.Repository.
type MilkTypeRepo struct {
	*BaseCatalogRepo[*milktype.MilkType]
}

// NewMilkTypeRepo creates a new milk type repository.
func NewMilkTypeRepo(txManager *postgres.TxManager) *MilkTypeRepo {
	return &MilkTypeRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*milktype.MilkType](
			txManager,
			milkTypeTable, "milk type",
			postgres.ExtractDBColumns[milktype.MilkType](),
			func() *milktype.MilkType { return &milktype.MilkType{} },
			func(m *milktype.MilkType) *entity.Catalog { return &m.Catalog },
		),
	}
}

var _ milktype.Repository = (*MilkTypeRepo)(nil)
