package stock_entry

import (
	"context"

	"milkledger/internal/core/numerator"
	"milkledger/internal/core/tx"
	"milkledger/internal/domain"
	"milkledger/internal/domain/composition"
	"milkledger/internal/domain/documents"
	"milkledger/internal/domain/posting"
)

// NamePrefix is the numbering prefix of stock entries.
const NamePrefix = "SE"

// Service provides business operations for stock entries.
type Service struct {
	*documents.Service[*StockEntry]

	items    documents.ItemReader
	resolver *composition.Resolver
}

// NewService creates a new stock entry service.
func NewService(
	repo Repository,
	postingEngine *posting.Engine,
	numerator numerator.Generator,
	txManager tx.Manager,
	items documents.ItemReader,
	resolver *composition.Resolver,
) *Service {
	svc := &Service{
		Service: documents.NewService(documents.Config[*StockEntry]{
			Repo:          repo,
			PostingEngine: postingEngine,
			Numerator:     numerator,
			TxManager:     txManager,
			Prefix:        NamePrefix,
			EntityName:    "stock entry",
		}),
		items:    items,
		resolver: resolver,
	}

	svc.Hooks().On(domain.OnValidate, svc.fillItemDetails)
	svc.Hooks().On(domain.OnValidate, svc.stampComposition)
	return svc
}

func (s *Service) fillItemDetails(ctx context.Context, doc *StockEntry) error {
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

// stampComposition shows on the draft what posting will record: finished
// milk from its inspection, consumed or issued milk from the last known state.
func (s *Service) stampComposition(ctx context.Context, doc *StockEntry) error {
	for i := range doc.Items {
		line := &doc.Items[i]

		var (
			values composition.Values
			err    error
		)
		switch {
		case !line.IsMilkType:
			values = composition.Values{}
		case doc.Purpose == PurposeManufacture && line.IsFinishedItem:
			values, err = s.resolver.FromInspection(ctx, line.QualityInspection, line.StockQty)
		case doc.Purpose == PurposeManufacture || doc.Purpose == PurposeMaterialIssue:
			values, err = s.resolver.LastKnown(ctx, line.ItemCode, line.SourceWarehouse, line.StockQty)
		default:
			continue
		}
		if err != nil {
			return err
		}
		line.SetComposition(values)
	}
	return nil
}

// Totals blends the raw milk lines and the finished milk lines of an entry.
func (s *Service) Totals(ctx context.Context, name string) (raw, finished composition.Blend, err error) {
	doc, err := s.Get(ctx, name)
	if err != nil {
		return raw, finished, err
	}
	return composition.BlendComponents(doc.BlendComponents(false)),
		composition.BlendComponents(doc.BlendComponents(true)), nil
}
