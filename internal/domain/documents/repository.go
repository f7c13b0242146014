// Package documents provides the lifecycle shared by every source document:
// draft editing, numbering, submission and cancellation through the posting engine.
package documents

import (
	"context"
	"time"

	"milkledger/internal/core/entity"
	"milkledger/internal/domain"
)

// Repository persists one document kind together with its lines.
type Repository[T any] interface {
	Create(ctx context.Context, doc T) error

	// Update saves header and lines with optimistic locking on version.
	Update(ctx context.Context, doc T) error

	GetByName(ctx context.Context, name string) (T, error)

	// Delete physically removes a draft.
	Delete(ctx context.Context, name string) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[T], error)
}

// ListFilter for filtering documents.
type ListFilter struct {
	domain.ListFilter

	Status   *entity.DocStatus
	DateFrom *time.Time
	DateTo   *time.Time
}
