package milkquality

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"milkledger/internal/core/apperror"
	"milkledger/internal/core/entity"
	"milkledger/internal/core/id"
	"milkledger/internal/core/numerator"
	"milkledger/internal/core/types"
	"milkledger/internal/domain/composition"
	"milkledger/internal/domain/uom"
	"milkledger/pkg/logger"
)

// NamePrefix is the numbering prefix of ledger entries.
const NamePrefix = "MQLE"

// BalanceOracle reports the stock balance after all movements up to an instant.
type BalanceOracle interface {
	BalanceAfter(ctx context.Context, itemCode, warehouse string, at time.Time) (decimal.Decimal, error)
}

// Line is one qualifying document line to be written to the ledger.
type Line struct {
	LineNo   int
	DetailNo string

	ItemCode string
	ItemName string

	TargetWarehouse string
	SourceWarehouse string

	BatchNo  string
	Bundle   []BundleEntry
	SerialNo string

	// Qty is the movement magnitude in the item's stock unit.
	Qty decimal.Decimal

	Direction Direction
	Policy    composition.Policy

	// Inspection and Readings feed PolicyDirectReading.
	Inspection string
	Readings   []composition.Reading
}

// Warehouse returns the target warehouse, else the source one.
func (l Line) Warehouse() string {
	if l.TargetWarehouse != "" {
		return l.TargetWarehouse
	}
	return l.SourceWarehouse
}

// Batch returns the line batch, else the first batch in its bundle.
func (l Line) Batch() string {
	if l.BatchNo != "" {
		return l.BatchNo
	}
	return FirstBatch(l.Bundle)
}

// Service writes and cancels ledger entries.
type Service struct {
	repo      Repository
	converter *uom.Converter
	resolver  *composition.Resolver
	balances  BalanceOracle
	names     numerator.Generator
}

// NewService creates the ledger service.
func NewService(
	repo Repository,
	converter *uom.Converter,
	resolver *composition.Resolver,
	balances BalanceOracle,
	names numerator.Generator,
) *Service {
	return &Service{
		repo:      repo,
		converter: converter,
		resolver:  resolver,
		balances:  balances,
		names:     names,
	}
}

// Post writes one Submitted entry per line. It must run inside the
// transaction that records the voucher's stock movements, after them.
// A voucher that already has entries is left untouched.
func (s *Service) Post(ctx context.Context, v Voucher, lines []Line, actor string, now time.Time) ([]LedgerEntry, error) {
	if len(lines) == 0 {
		return nil, nil
	}

	existing, err := s.repo.ListByVoucher(ctx, v.Type, v.No)
	if err != nil {
		return nil, fmt.Errorf("list entries of %s %s: %w", v.Type, v.No, err)
	}
	if len(existing) > 0 {
		logger.Debug(ctx, "voucher already has ledger entries", "voucher_type", v.Type, "voucher_no", v.No)
		return existing, nil
	}

	if v.PostingDate.IsZero() {
		v.PostingDate = now
	}
	if v.PostingTime == "" {
		v.PostingTime = types.ClockOf(now)
	}
	postingAt, err := types.CombineDateTime(v.PostingDate, v.PostingTime)
	if err != nil {
		return nil, apperror.NewValidation(err.Error()).WithDetail("field", "postingTime")
	}

	entries := make([]LedgerEntry, 0, len(lines))
	for _, line := range lines {
		e, err := s.buildEntry(ctx, v, postingAt, line, actor, now)
		if err != nil {
			return nil, err
		}
		// Written one by one so a later line of the same voucher sees this one.
		if err := s.repo.Create(ctx, e); err != nil {
			return nil, fmt.Errorf("create ledger entry for row %d: %w", line.LineNo, err)
		}
		entries = append(entries, *e)
	}

	logger.Info(ctx, "milk quality entries posted",
		"voucher_type", v.Type,
		"voucher_no", v.No,
		"count", len(entries),
	)
	return entries, nil
}

func (s *Service) buildEntry(ctx context.Context, v Voucher, postingAt time.Time, line Line, actor string, now time.Time) (*LedgerEntry, error) {
	if line.ItemCode == "" {
		return nil, apperror.NewInvalidLine(line.LineNo, "item")
	}
	warehouse := line.Warehouse()
	if warehouse == "" {
		return nil, apperror.NewInvalidLine(line.LineNo, "warehouse")
	}

	factor, err := s.converter.Resolve(ctx, line.ItemCode)
	if err != nil {
		return nil, fmt.Errorf("resolve units of %s: %w", line.ItemCode, err)
	}

	balance, err := s.balances.BalanceAfter(ctx, line.ItemCode, warehouse, postingAt)
	if err != nil {
		return nil, err
	}

	qty := line.Qty.Abs()
	basis := qty
	if line.Direction == DirectionSnapshot {
		qty = decimal.Zero
		basis = balance
	}

	values, err := s.resolver.Resolve(ctx, composition.Request{
		Policy:     line.Policy,
		ItemCode:   line.ItemCode,
		Warehouse:  warehouse,
		Qty:        basis,
		Inspection: line.Inspection,
		Readings:   line.Readings,
	})
	if err != nil {
		return nil, err
	}
	if values.FatPercent.IsNegative() {
		return nil, apperror.NewInvalidLine(line.LineNo, "fat").WithDetail("value", values.FatPercent.String())
	}
	if values.SNFPercent.IsNegative() {
		return nil, apperror.NewInvalidLine(line.LineNo, "snf").WithDetail("value", values.SNFPercent.String())
	}

	name, err := s.names.GetNextNumber(ctx, numerator.DefaultConfig(NamePrefix), v.PostingDate)
	if err != nil {
		return nil, fmt.Errorf("generate entry name: %w", err)
	}

	itemName := line.ItemName
	if itemName == "" {
		itemName = factor.ItemName
	}

	return &LedgerEntry{
		ID:              id.New(),
		Name:            name,
		Status:          entity.StatusSubmitted,
		ItemCode:        line.ItemCode,
		ItemName:        itemName,
		Warehouse:       warehouse,
		BatchNo:         line.Batch(),
		SerialNo:        line.SerialNo,
		VoucherType:     v.Type,
		VoucherNo:       v.No,
		VoucherDetailNo: line.DetailNo,
		PostingDate:     types.DateOnly(v.PostingDate),
		PostingTime:     v.PostingTime,
		Direction:       line.Direction,
		StockUOM:        factor.StockUOM,
		UOM:             factor.VolumeUOM,
		FatPercent:      values.FatPercent,
		SNFPercent:      values.SNFPercent,
		Fat:             values.FatMass,
		SNF:             values.SNFMass,
		QtyInKg:         qty,
		QtyInLitre:      factor.MassToVolume(qty),
		QtyAfterInKg:    balance,
		QtyAfterInLitre: factor.MassToVolume(balance),
		CreatedAt:       now,
		CreatedBy:       actor,
	}, nil
}

// CancelByVoucher cancels every Submitted entry of the voucher. Entries that
// are already cancelled are left alone, so repeating the call is a no-op.
func (s *Service) CancelByVoucher(ctx context.Context, voucherType, voucherNo, actor string, now time.Time) (int, error) {
	entries, err := s.repo.ListByVoucher(ctx, voucherType, voucherNo)
	if err != nil {
		return 0, fmt.Errorf("list entries of %s %s: %w", voucherType, voucherNo, err)
	}

	ids := make([]id.ID, 0, len(entries))
	for _, e := range entries {
		if e.Status == entity.StatusSubmitted && !e.IsCancelled {
			ids = append(ids, e.ID)
		}
	}
	if len(ids) == 0 {
		logger.Debug(ctx, "no submitted ledger entries to cancel", "voucher_type", voucherType, "voucher_no", voucherNo)
		return 0, nil
	}

	n, err := s.repo.MarkCancelled(ctx, ids, now, actor)
	if err != nil {
		return 0, fmt.Errorf("cancel entries of %s %s: %w", voucherType, voucherNo, err)
	}

	logger.Info(ctx, "milk quality entries cancelled",
		"voucher_type", voucherType,
		"voucher_no", voucherNo,
		"count", n,
	)
	return n, nil
}

// ListByVoucher returns the entries a voucher produced.
func (s *Service) ListByVoucher(ctx context.Context, voucherType, voucherNo string) ([]LedgerEntry, error) {
	return s.repo.ListByVoucher(ctx, voucherType, voucherNo)
}

// List returns entries matching filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]LedgerEntry, error) {
	return s.repo.List(ctx, filter)
}

// LastKnown returns the latest submitted entry for the item and warehouse, or nil.
func (s *Service) LastKnown(ctx context.Context, itemCode, warehouse string) (*LedgerEntry, error) {
	return s.repo.LastSubmitted(ctx, itemCode, warehouse)
}

// LastKnownSource adapts a Repository to composition.LastKnownSource.
func LastKnownSource(repo Repository) composition.LastKnownSource {
	return lastKnown{repo: repo}
}

type lastKnown struct {
	repo Repository
}

func (l lastKnown) LastKnownPercent(ctx context.Context, itemCode, warehouse string) (decimal.Decimal, decimal.Decimal, bool, error) {
	e, err := l.repo.LastSubmitted(ctx, itemCode, warehouse)
	if err != nil || e == nil {
		return decimal.Zero, decimal.Zero, false, err
	}
	return e.FatPercent, e.SNFPercent, true, nil
}
