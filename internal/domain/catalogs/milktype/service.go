package milktype

import (
	"milkledger/internal/core/tx"
	"milkledger/internal/domain"
)

// Service provides business logic for the Milk Type catalog.
type Service struct {
	*domain.CatalogService[*MilkType]
}

// NewService creates a new MilkType service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService[*MilkType](repo, txManager, "milk type"),
	}
}
