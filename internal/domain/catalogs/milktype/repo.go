package milktype

import (
	"milkledger/internal/domain"
)

// Repository defines the interface for MilkType persistence.
type Repository interface {
	domain.CatalogRepository[*MilkType]
}
