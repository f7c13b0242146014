package purchase_receipt

import (
	"context"
	"fmt"
	"strings"

	"milkledger/internal/core/apperror"
	"milkledger/internal/core/numerator"
	"milkledger/internal/core/tx"
	"milkledger/internal/domain"
	"milkledger/internal/domain/catalogs/supplier"
	"milkledger/internal/domain/composition"
	"milkledger/internal/domain/documents"
	"milkledger/internal/domain/posting"
	"milkledger/internal/domain/pricing"
	"milkledger/pkg/logger"
)

// NamePrefix is the numbering prefix of purchase receipts.
const NamePrefix = "PR"

// SupplierReader resolves suppliers by code.
type SupplierReader interface {
	GetByCode(ctx context.Context, code string) (*supplier.Supplier, error)
}

// Service provides business operations for purchase receipts. Every save
// refreshes item data, composition and milk pricing on the draft.
type Service struct {
	*documents.Service[*PurchaseReceipt]

	items      documents.ItemReader
	suppliers  SupplierReader
	resolver   *composition.Resolver
	calculator *pricing.Calculator
}

// NewService creates a new purchase receipt service.
func NewService(
	repo Repository,
	postingEngine *posting.Engine,
	numerator numerator.Generator,
	txManager tx.Manager,
	items documents.ItemReader,
	suppliers SupplierReader,
	resolver *composition.Resolver,
	calculator *pricing.Calculator,
) *Service {
	svc := &Service{
		Service: documents.NewService(documents.Config[*PurchaseReceipt]{
			Repo:          repo,
			PostingEngine: postingEngine,
			Numerator:     numerator,
			TxManager:     txManager,
			Prefix:        NamePrefix,
			EntityName:    "purchase receipt",
		}),
		items:      items,
		suppliers:  suppliers,
		resolver:   resolver,
		calculator: calculator,
	}

	hooks := svc.Hooks()
	hooks.On(domain.OnValidate, svc.fillItemDetails)
	hooks.On(domain.OnValidate, svc.checkSupplierMilkTypes)
	hooks.On(domain.OnValidate, svc.refreshComposition)
	hooks.On(domain.OnValidate, svc.applyMilkPricing)
	hooks.On(domain.OnValidate, func(_ context.Context, doc *PurchaseReceipt) error {
		doc.RecalculateTotals()
		return nil
	})
	return svc
}

// fillItemDetails copies item master data onto the lines and derives stock quantities.
func (s *Service) fillItemDetails(ctx context.Context, doc *PurchaseReceipt) error {
	doc.Renumber()
	for i := range doc.Items {
		line := &doc.Items[i]

		it, err := documents.LookupItem(ctx, s.items, line.ItemCode, line.LineNo)
		if err != nil {
			return err
		}

		if line.ItemName == "" {
			line.ItemName = it.Name
		}
		line.StockUOM = it.StockUOM
		line.IsMilkType = line.IsMilkType || it.IsMilkType
		line.UOM, line.ConversionFactor = documents.ResolveConversion(it, line.UOM, line.ConversionFactor)
		line.StockQty = documents.StockQty(line.Qty, line.ConversionFactor)
	}
	return nil
}

// checkSupplierMilkTypes restricts milk lines to the supplier's profiled
// milk types. A supplier without profiles is unrestricted.
func (s *Service) checkSupplierMilkTypes(ctx context.Context, doc *PurchaseReceipt) error {
	sup, err := s.suppliers.GetByCode(ctx, doc.Supplier)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewValidation(fmt.Sprintf("supplier %s not found", doc.Supplier)).
				WithDetail("field", "supplier")
		}
		return err
	}
	if len(sup.MilkProfiles) == 0 {
		return nil
	}

	for _, line := range doc.Items {
		if !line.IsMilkType {
			continue
		}
		if line.MilkType == "" {
			return apperror.NewMissingInput("milk_type").WithDetail("lineNo", line.LineNo)
		}
		if !sup.AllowsMilkType(line.MilkType) {
			allowed := sup.MilkTypes()
			return apperror.NewValidation(fmt.Sprintf(
				"milk type %s is not allowed for supplier %s; allowed: %s",
				line.MilkType, sup.Code, strings.Join(allowed, ", "),
			)).WithDetail("lineNo", line.LineNo).WithDetail("allowed", allowed)
		}
	}
	return nil
}

// refreshComposition rereads every attached inspection. Lines without one are cleared.
func (s *Service) refreshComposition(ctx context.Context, doc *PurchaseReceipt) error {
	for i := range doc.Items {
		line := &doc.Items[i]
		values, err := s.resolver.FromInspection(ctx, line.QualityInspection, line.StockQty)
		if err != nil {
			return err
		}
		line.SetComposition(values)
	}
	return nil
}

// applyMilkPricing prices every milk line that has a milk type and both readings.
func (s *Service) applyMilkPricing(ctx context.Context, doc *PurchaseReceipt) error {
	for i := range doc.Items {
		line := &doc.Items[i]
		if !line.IsMilkType || line.MilkType == "" || line.Fat.IsZero() || line.SNF.IsZero() {
			continue
		}

		weight := doc.NetWeight
		if !weight.IsPositive() {
			weight = line.Qty
		}

		breakdown, err := s.calculator.Compute(ctx, pricing.Input{
			Supplier: doc.Supplier,
			MilkType: line.MilkType,
			Fat:      line.Fat,
			SNF:      line.SNF,
			WeightKg: weight,
		})
		if err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				return appErr.WithDetail("lineNo", line.LineNo)
			}
			return err
		}

		line.LinePrice, line.Rate, line.Amount = breakdown.ForLine(line.Qty)
		logger.Debug(ctx, "milk line priced",
			"line_no", line.LineNo,
			"rate", line.Rate.String(),
			"amount", line.Amount.String(),
		)
	}
	return nil
}
