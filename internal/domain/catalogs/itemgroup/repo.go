package itemgroup

import (
	"milkledger/internal/domain"
)

// Repository defines the interface for Item Group persistence.
type Repository interface {
	domain.CatalogRepository[*ItemGroup]
}
