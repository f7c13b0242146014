package item

import (
	"context"

	"milkledger/internal/domain"
)

// Repository defines the interface for Item persistence.
type Repository interface {
	domain.CatalogRepository[*Item]

	// CodesWithPrefix returns the codes of all items starting with prefix.
	CodesWithPrefix(ctx context.Context, prefix string) ([]string, error)
}
