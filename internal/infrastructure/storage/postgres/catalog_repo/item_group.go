package catalog_repo

import (
	"milkledger/internal/core/entity"
	"milkledger/internal/domain/catalogs/itemgroup"
	"milkledger/internal/infrastructure/storage/postgres"
)

const itemGroupTable = "cat_item_groups"

// ItemGroupRepo implements itemgroup.Repository.
type ItemGroupRepo struct {
	*BaseCatalogRepo[*itemgroup.ItemGroup]
}

// NewItemGroupRepo creates a new item group repository.
func NewItemGroupRepo(txManager *postgres.TxManager) *ItemGroupRepo {
	return &ItemGroupRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*itemgroup.ItemGroup](
			txManager,
			itemGroupTable, "item group",
			postgres.ExtractDBColumns[itemgroup.ItemGroup](),
			func() *itemgroup.ItemGroup { return &itemgroup.ItemGroup{} },
			func(g *itemgroup.ItemGroup) *entity.Catalog { return &g.Catalog },
		),
	}
}

var _ itemgroup.Repository = (*ItemGroupRepo)(nil)
