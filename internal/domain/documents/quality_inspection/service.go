package quality_inspection

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"milkledger/internal/core/apperror"
	"milkledger/internal/core/numerator"
	"milkledger/internal/core/tx"
	"milkledger/internal/domain"
	"milkledger/internal/domain/documents"
	"milkledger/internal/domain/documents/purchase_receipt"
	"milkledger/internal/domain/documents/stock_entry"
	"milkledger/internal/domain/posting"
	"milkledger/internal/domain/registers/milkquality"
	"milkledger/pkg/logger"
)

// NamePrefix is the numbering prefix of quality inspections.
const NamePrefix = "QI"

// ReceiptStore loads and saves purchase receipts.
type ReceiptStore interface {
	Get(ctx context.Context, name string) (*purchase_receipt.PurchaseReceipt, error)
	Update(ctx context.Context, doc *purchase_receipt.PurchaseReceipt) error
}

// StockEntryStore loads and saves stock entries.
type StockEntryStore interface {
	Get(ctx context.Context, name string) (*stock_entry.StockEntry, error)
	Update(ctx context.Context, doc *stock_entry.StockEntry) error
}

// Service provides business operations for quality inspections.
type Service struct {
	*documents.Service[*QualityInspection]

	items     documents.ItemReader
	readings  *ReadingSource
	txManager tx.Manager

	receipts ReceiptStore
	entries  StockEntryStore
}

// NewService creates a new quality inspection service.
func NewService(
	repo Repository,
	postingEngine *posting.Engine,
	numerator numerator.Generator,
	txManager tx.Manager,
	items documents.ItemReader,
) *Service {
	svc := &Service{
		Service: documents.NewService(documents.Config[*QualityInspection]{
			Repo:          repo,
			PostingEngine: postingEngine,
			Numerator:     numerator,
			TxManager:     txManager,
			Prefix:        NamePrefix,
			EntityName:    "quality inspection",
		}),
		items:     items,
		readings:  NewReadingSource(repo),
		txManager: txManager,
	}

	svc.Hooks().On(domain.OnValidate, svc.fillItemDetails)
	svc.Hooks().On(domain.OnValidate, func(_ context.Context, q *QualityInspection) error {
		q.NormalizeReadings()
		q.DeriveMBRTTotal()
		return nil
	})
	return svc
}

// WithReferences enables MakeInspections for receipts and stock entries.
func (s *Service) WithReferences(receipts ReceiptStore, entries StockEntryStore) *Service {
	s.receipts = receipts
	s.entries = entries
	return s
}

// Readings returns the reader the composition resolver uses.
func (s *Service) Readings() *ReadingSource {
	return s.readings
}

func (s *Service) fillItemDetails(ctx context.Context, q *QualityInspection) error {
	it, err := documents.LookupItem(ctx, s.items, q.ItemCode, 0)
	if err != nil {
		return err
	}
	if q.ItemName == "" {
		q.ItemName = it.Name
	}
	if q.InspectionType == TypeInternal && q.Warehouse == "" {
		return apperror.NewValidation("warehouse is required for an internal inspection").
			WithDetail("field", "warehouse")
	}
	return nil
}

// Request asks for one inspection on a line of a reference document.
type Request struct {
	LineID         string          `json:"lineId"`
	SampleSize     decimal.Decimal `json:"sampleSize"`
	InspectionType InspectionType  `json:"inspectionType,omitempty"`
	InspectedBy    string          `json:"inspectedBy,omitempty"`
	Readings       []Reading       `json:"readings,omitempty"`
}

// MakeInspections creates one draft inspection per request against a line
// of a draft purchase receipt or stock entry and links it to that line.
// Stock entry inspections are always In Process and sample the target warehouse.
func (s *Service) MakeInspections(ctx context.Context, referenceType, referenceName string, reqs []Request) ([]*QualityInspection, error) {
	if len(reqs) == 0 {
		return nil, apperror.NewValidation("no lines selected for inspection")
	}

	var created []*QualityInspection
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		switch referenceType {
		case milkquality.VoucherPurchaseReceipt:
			created, err = s.inspectReceipt(ctx, referenceName, reqs)
		case milkquality.VoucherStockEntry:
			created, err = s.inspectStockEntry(ctx, referenceName, reqs)
		default:
			err = apperror.NewValidation(fmt.Sprintf("inspections cannot reference %s", referenceType)).
				WithDetail("field", "referenceType")
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "quality inspections created",
		"reference_type", referenceType,
		"reference_name", referenceName,
		"count", len(created),
	)
	return created, nil
}

func (s *Service) inspectReceipt(ctx context.Context, name string, reqs []Request) ([]*QualityInspection, error) {
	if s.receipts == nil {
		return nil, apperror.NewConfiguration("purchase receipts are not wired for inspections")
	}
	doc, err := s.receipts.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := doc.CanModify(); err != nil {
		return nil, err
	}

	out := make([]*QualityInspection, 0, len(reqs))
	for _, req := range reqs {
		line := findReceiptLine(doc, req.LineID)
		if line == nil {
			return nil, apperror.NewNotFound("purchase receipt line", req.LineID)
		}
		if req.SampleSize.GreaterThan(line.Qty) {
			return nil, apperror.NewValidation("sample size cannot exceed the line quantity").
				WithDetail("lineNo", line.LineNo).
				WithDetail("qty", line.Qty.String())
		}

		inspectionType := req.InspectionType
		if inspectionType == "" {
			inspectionType = TypeIncoming
		}
		qi := s.newFromRequest(req, inspectionType, milkquality.VoucherPurchaseReceipt, name)
		qi.ReferenceLine = line.LineID.String()
		qi.ItemCode, qi.ItemName = line.ItemCode, line.ItemName
		qi.Warehouse = line.Warehouse
		qi.BatchNo, qi.SerialNo = line.BatchNo, line.SerialNo

		if err := s.Create(ctx, qi); err != nil {
			return nil, err
		}
		line.QualityInspection = qi.Name
		out = append(out, qi)
	}

	if err := s.receipts.Update(ctx, doc); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) inspectStockEntry(ctx context.Context, name string, reqs []Request) ([]*QualityInspection, error) {
	if s.entries == nil {
		return nil, apperror.NewConfiguration("stock entries are not wired for inspections")
	}
	doc, err := s.entries.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := doc.CanModify(); err != nil {
		return nil, err
	}

	out := make([]*QualityInspection, 0, len(reqs))
	for _, req := range reqs {
		line, ok := doc.FindLine(req.LineID)
		if !ok {
			return nil, apperror.NewNotFound("stock entry line", req.LineID)
		}

		qi := s.newFromRequest(req, TypeInProcess, milkquality.VoucherStockEntry, name)
		qi.ReferenceLine = line.LineID.String()
		qi.ItemCode, qi.ItemName = line.ItemCode, line.ItemName
		qi.Warehouse = line.TargetWarehouse
		qi.BatchNo, qi.SerialNo = line.BatchNo, line.SerialNo

		if err := s.Create(ctx, qi); err != nil {
			return nil, err
		}
		line.QualityInspection = qi.Name
		out = append(out, qi)
	}

	if err := s.entries.Update(ctx, doc); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) newFromRequest(req Request, t InspectionType, refType, refName string) *QualityInspection {
	qi := NewQualityInspection(t, "")
	qi.ReferenceType = refType
	qi.ReferenceName = refName
	qi.SampleSize = req.SampleSize
	qi.InspectedBy = req.InspectedBy
	qi.Readings = append(qi.Readings, req.Readings...)
	return qi
}

func findReceiptLine(doc *purchase_receipt.PurchaseReceipt, lineID string) *purchase_receipt.Line {
	for i := range doc.Items {
		if doc.Items[i].LineID.String() == lineID {
			return &doc.Items[i]
		}
	}
	return nil
}

