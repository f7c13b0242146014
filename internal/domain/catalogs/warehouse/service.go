package warehouse

import (
	"context"

	"milkledger/internal/core/tx"
	"milkledger/internal/domain"
)

// Service provides business logic for the Warehouse catalog.
type Service struct {
	*domain.CatalogService[*Warehouse]
}

// NewService creates a new Warehouse service. A warehouse saved without a
// type is a store.
func NewService(repo Repository, txManager tx.Manager) *Service {
	svc := &Service{
		CatalogService: domain.NewCatalogService[*Warehouse](repo, txManager, "warehouse"),
	}
	svc.Hooks().On(domain.OnValidate, func(_ context.Context, wh *Warehouse) error {
		if wh.Type == "" {
			wh.Type = TypeStore
		}
		return nil
	})
	return svc
}
