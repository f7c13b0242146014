package supplier

import (
	"milkledger/internal/core/tx"
	"milkledger/internal/domain"
)

// Service provides business logic for the Supplier catalog.
type Service struct {
	*domain.CatalogService[*Supplier]
}

// NewService creates a new Supplier service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService[*Supplier](repo, txManager, "supplier"),
	}
}
