package itemgroup

import (
	"context"

	"milkledger/internal/core/apperror"
	"milkledger/internal/core/tx"
	"milkledger/internal/domain"
)

// Service provides business logic for the Item Group catalog.
type Service struct {
	*domain.CatalogService[*ItemGroup]
	repo Repository
}

// NewService creates a new Item Group service. A parent must exist before
// its children are saved.
func NewService(repo Repository, txManager tx.Manager) *Service {
	svc := &Service{
		CatalogService: domain.NewCatalogService[*ItemGroup](repo, txManager, "item group"),
		repo:           repo,
	}
	svc.Hooks().On(domain.OnValidate, svc.checkParent)
	return svc
}

func (s *Service) checkParent(ctx context.Context, g *ItemGroup) error {
	if g.ParentGroup == "" {
		return nil
	}
	ok, err := s.repo.ExistsByCode(ctx, g.ParentGroup)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewNotFound("item group", g.ParentGroup).
			WithDetail("field", "parentItemGroup")
	}
	return nil
}
