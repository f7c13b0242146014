package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"milkledger/internal/core/apperror"
	"milkledger/internal/core/entity"
	"milkledger/internal/core/id"
	"milkledger/pkg/logger"
)

// Service provides business operations for the stock register.
// Transactions are managed by the caller (posting engine).
type Service struct {
	repo Repository
}

// NewService creates a new stock register service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RecordMovements records stock movements of a document being submitted.
func (s *Service) RecordMovements(ctx context.Context, movements []entity.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	for i, m := range movements {
		if !m.Quantity.IsPositive() {
			return apperror.NewValidation(fmt.Sprintf("movement %d: quantity must be positive", i+1))
		}
		if id.IsNil(m.RecorderID) {
			return apperror.NewValidation(fmt.Sprintf("movement %d: recorder is required", i+1))
		}
	}

	if err := s.repo.CreateMovements(ctx, movements); err != nil {
		return fmt.Errorf("create movements: %w", err)
	}

	logger.Debug(ctx, "recorded stock movements",
		"count", len(movements),
		"recorder_id", movements[0].RecorderID,
	)
	return nil
}

// ReverseMovements removes movements for a document being cancelled.
func (s *Service) ReverseMovements(ctx context.Context, recorderID id.ID) error {
	if err := s.repo.DeleteMovementsByRecorder(ctx, recorderID); err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}
	logger.Debug(ctx, "reversed stock movements", "recorder_id", recorderID)
	return nil
}

// BalanceAfter returns the quantity of itemCode in warehouse as of at,
// including every movement recorded at or before that instant.
func (s *Service) BalanceAfter(ctx context.Context, itemCode, warehouse string, at time.Time) (decimal.Decimal, error) {
	q, err := s.repo.GetBalanceAt(ctx, itemCode, warehouse, at)
	if err != nil {
		return decimal.Zero, fmt.Errorf("balance of %s in %s: %w", itemCode, warehouse, err)
	}
	return q.Decimal(), nil
}

// GetBalances returns current balances.
func (s *Service) GetBalances(ctx context.Context, filter BalanceFilter) ([]Balance, error) {
	return s.repo.GetBalances(ctx, filter)
}
