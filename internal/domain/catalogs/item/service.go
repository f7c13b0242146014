package item

import (
	"context"
	"fmt"

	"milkledger/internal/core/apperror"
	"milkledger/internal/core/tx"
	"milkledger/internal/domain"
	"milkledger/internal/domain/catalogs/itemgroup"
)

// GroupReader looks up item groups.
type GroupReader interface {
	GetByCode(ctx context.Context, code string) (*itemgroup.ItemGroup, error)
}

// Service provides business logic for the Item catalog.
type Service struct {
	*domain.CatalogService[*Item]
	repo            Repository
	groups          GroupReader
	defaultStockUOM string
}

// NewService creates a new Item service. Items saved without a stock unit
// get defaultStockUOM.
func NewService(repo Repository, txManager tx.Manager, defaultStockUOM string) *Service {
	svc := &Service{
		CatalogService:  domain.NewCatalogService[*Item](repo, txManager, "item"),
		repo:            repo,
		defaultStockUOM: defaultStockUOM,
	}
	svc.Hooks().On(domain.OnValidate, svc.applyDefaults)
	return svc
}

// WithGroups enables generated codes for items created without one.
func (s *Service) WithGroups(groups GroupReader) *Service {
	s.groups = groups
	return s
}

func (s *Service) applyDefaults(ctx context.Context, it *Item) error {
	if it.StockUOM == "" {
		it.StockUOM = s.defaultStockUOM
	}
	return nil
}

// Create saves a new item. An item without a code gets the next code of
// its group's series.
func (s *Service) Create(ctx context.Context, it *Item) error {
	if it.Code == "" && s.groups != nil {
		code, err := s.NextCode(ctx, it.ItemGroup)
		if err != nil {
			return err
		}
		it.Code = code
	}
	return s.CatalogService.Create(ctx, it)
}

// NextCode returns the next PARENT-GROUP-NNNN code for items of groupCode.
// The group and its parent must exist and both names must abbreviate.
func (s *Service) NextCode(ctx context.Context, groupCode string) (string, error) {
	if groupCode == "" {
		return "", apperror.NewValidation("item group is required to generate an item code").
			WithDetail("field", "itemGroup")
	}
	if s.groups == nil {
		return "", apperror.NewConfiguration("item groups are not configured")
	}

	group, err := s.groups.GetByCode(ctx, groupCode)
	if err != nil {
		return "", err
	}
	if group.ParentGroup == "" {
		return "", apperror.NewValidation(fmt.Sprintf("parent item group not set for %s", group.Name)).
			WithDetail("field", "itemGroup").
			WithDetail("value", groupCode)
	}
	parent, err := s.groups.GetByCode(ctx, group.ParentGroup)
	if err != nil {
		return "", err
	}
	if MakeAbbr(parent.Name) == "" || MakeAbbr(group.Name) == "" {
		return "", apperror.NewValidation("unable to abbreviate item group").
			WithDetail("field", "itemGroup").
			WithDetail("value", groupCode)
	}

	prefix := SeriesPrefix(parent.Name, group.Name)
	codes, err := s.repo.CodesWithPrefix(ctx, prefix+"-")
	if err != nil {
		return "", fmt.Errorf("item series %s: %w", prefix, err)
	}
	return NextInSeries(prefix, codes), nil
}
