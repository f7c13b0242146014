// Package domain provides core business logic interfaces and types shared by
// catalogs, documents and registers.
package domain

import (
	"context"

	"milkledger/internal/core/entity"
)

// ListFilter contains common filtering options for list operations.
type ListFilter struct {
	// Search matches code or name
	Search string

	// IncludeDisabled includes disabled master records
	IncludeDisabled bool

	// Pagination
	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{Limit: 50}
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// CatalogRepository defines CRUD operations for master data keyed by code.
type CatalogRepository[T entity.Validatable] interface {
	Create(ctx context.Context, entity T) error

	// GetByCode retrieves entity by its business key
	GetByCode(ctx context.Context, code string) (T, error)

	// Update modifies existing entity (with optimistic locking)
	Update(ctx context.Context, entity T) error

	// Delete physically removes the entity
	Delete(ctx context.Context, code string) error

	List(ctx context.Context, filter ListFilter) (ListResult[T], error)

	ExistsByCode(ctx context.Context, code string) (bool, error)
}
