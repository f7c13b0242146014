package domain

import (
	"context"
	"fmt"

	"milkledger/internal/core/apperror"
	"milkledger/internal/core/entity"
	"milkledger/internal/core/tx"
	"milkledger/pkg/logger"
)

// CatalogEntity is master data addressable by a business code.
type CatalogEntity interface {
	entity.Validatable
	GetCode() string
}

// CatalogService provides business logic for master data.
type CatalogService[T CatalogEntity] struct {
	repo      CatalogRepository[T]
	txManager tx.Manager
	hooks     *HookRegistry[T]

	// entityName for error messages
	entityName string
}

// NewCatalogService creates a new catalog service.
func NewCatalogService[T CatalogEntity](repo CatalogRepository[T], txManager tx.Manager, entityName string) *CatalogService[T] {
	return &CatalogService[T]{
		repo:       repo,
		txManager:  txManager,
		hooks:      NewHookRegistry[T](),
		entityName: entityName,
	}
}

// Hooks returns the hook registry. OnValidate hooks run on create and update.
func (s *CatalogService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

func (s *CatalogService[T]) validate(ctx context.Context, e T) error {
	if err := e.Validate(ctx); err != nil {
		if apperror.IsAppError(err) {
			return err
		}
		return apperror.NewValidation(err.Error())
	}
	return s.hooks.Run(ctx, OnValidate, e)
}

func (s *CatalogService[T]) normalizeGetErr(err error, code string) error {
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName, code)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", s.entityName).WithDetail("code", code)
}

// Create creates a new catalog entity.
func (s *CatalogService[T]) Create(ctx context.Context, e T) error {
	if err := s.validate(ctx, e); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.repo.ExistsByCode(ctx, e.GetCode())
		if err != nil {
			return err
		}
		if exists {
			return apperror.NewDuplicate(s.entityName, "code", e.GetCode())
		}
		if err := s.repo.Create(ctx, e); err != nil {
			return fmt.Errorf("create %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Debug(ctx, "catalog entry created", "entity", s.entityName, "code", e.GetCode())
	return nil
}

// GetByCode retrieves entity by code.
func (s *CatalogService[T]) GetByCode(ctx context.Context, code string) (T, error) {
	e, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return e, s.normalizeGetErr(err, code)
	}
	return e, nil
}

// Update updates an existing entity.
func (s *CatalogService[T]) Update(ctx context.Context, e T) error {
	if err := s.validate(ctx, e); err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, e); err != nil {
			return fmt.Errorf("update %s: %w", s.entityName, err)
		}
		return nil
	})
}

// Delete removes an entity by code.
func (s *CatalogService[T]) Delete(ctx context.Context, code string) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, code); err != nil {
			return s.normalizeGetErr(err, code)
		}
		return nil
	})
}

// List retrieves entities with filtering.
func (s *CatalogService[T]) List(ctx context.Context, filter ListFilter) (ListResult[T], error) {
	return s.repo.List(ctx, filter)
}
