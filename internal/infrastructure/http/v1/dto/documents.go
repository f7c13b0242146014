package dto

import (
	"github.com/shopspring/decimal"

	"milkledger/internal/core/id"
	"milkledger/internal/domain/documents/purchase_receipt"
	"milkledger/internal/domain/documents/quality_inspection"
	"milkledger/internal/domain/documents/stock_entry"
	"milkledger/internal/domain/registers/milkquality"
)

// --- Purchase Receipt ---

// PurchaseReceiptLineRequest is one received item.
type PurchaseReceiptLineRequest struct {
	LineID            string                    `json:"lineId"`
	ItemCode          string                    `json:"itemCode"`
	Warehouse         string                    `json:"warehouse"`
	Qty               decimal.Decimal           `json:"qty"`
	UOM               string                    `json:"uom"`
	ConversionFactor  decimal.Decimal           `json:"conversionFactor"`
	MilkType          string                    `json:"milkType"`
	QualityInspection string                    `json:"qualityInspection"`
	BatchNo           string                    `json:"batchNo"`
	SerialNo          string                    `json:"serialNo"`
	Bundle            []milkquality.BundleEntry `json:"bundle"`
	Rate              decimal.Decimal           `json:"rate"`
}

// PurchaseReceiptRequest is the request body for creating or updating a receipt.
type PurchaseReceiptRequest struct {
	DocumentRequest
	Supplier  string                       `json:"supplier"`
	NetWeight decimal.Decimal              `json:"netWeight"`
	TankerNo  string                       `json:"tankerNo"`
	Items     []PurchaseReceiptLineRequest `json:"items"`
	Version   int                          `json:"version"`

	// Submit posts the receipt right after it is saved.
	Submit bool `json:"submit"`
}

// ToEntity converts DTO to domain entity.
func (r PurchaseReceiptRequest) ToEntity() *purchase_receipt.PurchaseReceipt {
	doc := purchase_receipt.NewPurchaseReceipt(r.Supplier)
	r.ApplyTo(doc)
	return doc
}

// ApplyTo replaces header and lines of doc with the request.
func (r PurchaseReceiptRequest) ApplyTo(doc *purchase_receipt.PurchaseReceipt) {
	r.DocumentRequest.ApplyTo(&doc.Document)
	doc.Supplier = r.Supplier
	doc.NetWeight = r.NetWeight
	doc.TankerNo = r.TankerNo
	if r.Version > 0 {
		doc.Version = r.Version
	}

	doc.Items = make([]purchase_receipt.Line, 0, len(r.Items))
	for _, l := range r.Items {
		line := doc.AddLine(l.ItemCode, l.Warehouse, l.Qty)
		line.LineID = parseLineID(l.LineID)
		line.UOM = l.UOM
		line.ConversionFactor = l.ConversionFactor
		line.MilkType = l.MilkType
		line.QualityInspection = l.QualityInspection
		line.BatchNo = l.BatchNo
		line.SerialNo = l.SerialNo
		line.Bundle = l.Bundle
		line.Rate = l.Rate
		line.Amount = l.Qty.Mul(l.Rate).Round(2)
	}
}

// PurchaseReceiptResponse is the response body for a receipt.
type PurchaseReceiptResponse struct {
	DocumentResponse
	Supplier    string                  `json:"supplier"`
	NetWeight   decimal.Decimal         `json:"netWeight"`
	TankerNo    string                  `json:"tankerNo,omitempty"`
	TotalQty    decimal.Decimal         `json:"totalQty"`
	TotalAmount decimal.Decimal         `json:"totalAmount"`
	Items       []purchase_receipt.Line `json:"items"`
}

// FromPurchaseReceipt creates response DTO from domain entity.
func FromPurchaseReceipt(doc *purchase_receipt.PurchaseReceipt) PurchaseReceiptResponse {
	return PurchaseReceiptResponse{
		DocumentResponse: FromDocument(doc.Document),
		Supplier:         doc.Supplier,
		NetWeight:        doc.NetWeight,
		TankerNo:         doc.TankerNo,
		TotalQty:         doc.TotalQty,
		TotalAmount:      doc.TotalAmount,
		Items:            doc.Items,
	}
}

// --- Quality Inspection ---

// QualityInspectionRequest is the request body for creating or updating an inspection.
type QualityInspectionRequest struct {
	DocumentRequest
	InspectionType quality_inspection.InspectionType `json:"inspectionType"`
	ReferenceType  string                            `json:"referenceType"`
	ReferenceName  string                            `json:"referenceName"`
	ReferenceLine  string                            `json:"referenceLine"`
	ItemCode       string                            `json:"itemCode"`
	Warehouse      string                            `json:"warehouse"`
	BatchNo        string                            `json:"batchNo"`
	SerialNo       string                            `json:"serialNo"`
	SampleSize     decimal.Decimal                   `json:"sampleSize"`
	InspectedBy    string                            `json:"inspectedBy"`
	InTime         string                            `json:"inTime"`
	OutTime        string                            `json:"outTime"`
	MBRTStart      string                            `json:"mbrtStartTime"`
	MBRTEnd        string                            `json:"mbrtEndTime"`
	Readings       []quality_inspection.Reading      `json:"readings"`
	Version        int                               `json:"version"`

	Submit bool `json:"submit"`
}

// ToEntity converts DTO to domain entity.
func (r QualityInspectionRequest) ToEntity() *quality_inspection.QualityInspection {
	q := quality_inspection.NewQualityInspection(r.InspectionType, r.ItemCode)
	r.ApplyTo(q)
	return q
}

// ApplyTo replaces header and readings of q with the request.
func (r QualityInspectionRequest) ApplyTo(q *quality_inspection.QualityInspection) {
	r.DocumentRequest.ApplyTo(&q.Document)
	q.InspectionType = r.InspectionType
	q.ReferenceType = r.ReferenceType
	q.ReferenceName = r.ReferenceName
	q.ReferenceLine = r.ReferenceLine
	q.ItemCode = r.ItemCode
	q.Warehouse = r.Warehouse
	q.BatchNo = r.BatchNo
	q.SerialNo = r.SerialNo
	q.SampleSize = r.SampleSize
	q.InspectedBy = r.InspectedBy
	q.InTime = r.InTime
	q.OutTime = r.OutTime
	q.MBRTStart = r.MBRTStart
	q.MBRTEnd = r.MBRTEnd
	q.Readings = r.Readings
	if q.Readings == nil {
		q.Readings = []quality_inspection.Reading{}
	}
	if r.Version > 0 {
		q.Version = r.Version
	}
}

// QualityInspectionResponse is the response body for an inspection.
type QualityInspectionResponse struct {
	DocumentResponse
	InspectionType quality_inspection.InspectionType `json:"inspectionType"`
	ReferenceType  string                            `json:"referenceType,omitempty"`
	ReferenceName  string                            `json:"referenceName,omitempty"`
	ReferenceLine  string                            `json:"referenceLine,omitempty"`
	ItemCode       string                            `json:"itemCode"`
	ItemName       string                            `json:"itemName,omitempty"`
	Warehouse      string                            `json:"warehouse,omitempty"`
	BatchNo        string                            `json:"batchNo,omitempty"`
	SerialNo       string                            `json:"serialNo,omitempty"`
	SampleSize     decimal.Decimal                   `json:"sampleSize"`
	InspectedBy    string                            `json:"inspectedBy,omitempty"`
	InTime         string                            `json:"inTime,omitempty"`
	OutTime        string                            `json:"outTime,omitempty"`
	MBRTStart      string                            `json:"mbrtStartTime,omitempty"`
	MBRTEnd        string                            `json:"mbrtEndTime,omitempty"`
	MBRTTotal      string                            `json:"mbrtTotalTime,omitempty"`
	Readings       []quality_inspection.Reading      `json:"readings"`
}

// FromQualityInspection creates response DTO from domain entity.
func FromQualityInspection(q *quality_inspection.QualityInspection) QualityInspectionResponse {
	return QualityInspectionResponse{
		DocumentResponse: FromDocument(q.Document),
		InspectionType:   q.InspectionType,
		ReferenceType:    q.ReferenceType,
		ReferenceName:    q.ReferenceName,
		ReferenceLine:    q.ReferenceLine,
		ItemCode:         q.ItemCode,
		ItemName:         q.ItemName,
		Warehouse:        q.Warehouse,
		BatchNo:          q.BatchNo,
		SerialNo:         q.SerialNo,
		SampleSize:       q.SampleSize,
		InspectedBy:      q.InspectedBy,
		InTime:           q.InTime,
		OutTime:          q.OutTime,
		MBRTStart:        q.MBRTStart,
		MBRTEnd:          q.MBRTEnd,
		MBRTTotal:        q.MBRTTotal,
		Readings:         q.Readings,
	}
}

// MakeInspectionsRequest asks for one draft inspection per referenced line.
type MakeInspectionsRequest struct {
	ReferenceType string                       `json:"referenceType"`
	ReferenceName string                       `json:"referenceName"`
	Lines         []quality_inspection.Request `json:"lines"`
}

// --- Stock Entry ---

// StockEntryLineRequest is one item moved.
type StockEntryLineRequest struct {
	LineID            string                    `json:"lineId"`
	ItemCode          string                    `json:"itemCode"`
	SourceWarehouse   string                    `json:"sourceWarehouse"`
	TargetWarehouse   string                    `json:"targetWarehouse"`
	Qty               decimal.Decimal           `json:"qty"`
	UOM               string                    `json:"uom"`
	ConversionFactor  decimal.Decimal           `json:"conversionFactor"`
	IsFinishedItem    bool                      `json:"isFinishedItem"`
	QualityInspection string                    `json:"qualityInspection"`
	BatchNo           string                    `json:"batchNo"`
	SerialNo          string                    `json:"serialNo"`
	Bundle            []milkquality.BundleEntry `json:"bundle"`

	// Composition of received or transferred milk, when known.
	Fat   decimal.Decimal `json:"fat"`
	SNF   decimal.Decimal `json:"snf"`
	FatKg decimal.Decimal `json:"fatKg"`
	SNFKg decimal.Decimal `json:"snfKg"`
}

// StockEntryRequest is the request body for creating or updating a stock entry.
type StockEntryRequest struct {
	DocumentRequest
	Purpose   stock_entry.Purpose     `json:"purpose"`
	WorkOrder string                  `json:"workOrder"`
	BOM       string                  `json:"bomNo"`
	Items     []StockEntryLineRequest `json:"items"`
	Version   int                     `json:"version"`

	Submit bool `json:"submit"`
}

// ToEntity converts DTO to domain entity.
func (r StockEntryRequest) ToEntity() *stock_entry.StockEntry {
	doc := stock_entry.NewStockEntry(r.Purpose)
	r.ApplyTo(doc)
	return doc
}

// ApplyTo replaces header and lines of doc with the request.
func (r StockEntryRequest) ApplyTo(doc *stock_entry.StockEntry) {
	r.DocumentRequest.ApplyTo(&doc.Document)
	doc.Purpose = r.Purpose
	doc.WorkOrder = r.WorkOrder
	doc.BOM = r.BOM
	if r.Version > 0 {
		doc.Version = r.Version
	}

	doc.Items = make([]stock_entry.Line, 0, len(r.Items))
	for _, l := range r.Items {
		line := doc.AddLine(l.ItemCode, l.SourceWarehouse, l.TargetWarehouse, l.Qty)
		line.LineID = parseLineID(l.LineID)
		line.UOM = l.UOM
		line.ConversionFactor = l.ConversionFactor
		line.IsFinishedItem = l.IsFinishedItem
		line.QualityInspection = l.QualityInspection
		line.BatchNo = l.BatchNo
		line.SerialNo = l.SerialNo
		line.Bundle = l.Bundle
		line.Fat = l.Fat
		line.SNF = l.SNF
		line.FatKg = l.FatKg
		line.SNFKg = l.SNFKg
	}
}

// StockEntryResponse is the response body for a stock entry.
type StockEntryResponse struct {
	DocumentResponse
	Purpose   stock_entry.Purpose `json:"purpose"`
	WorkOrder string              `json:"workOrder,omitempty"`
	BOM       string              `json:"bomNo,omitempty"`
	Items     []stock_entry.Line  `json:"items"`
}

// FromStockEntry creates response DTO from domain entity.
func FromStockEntry(doc *stock_entry.StockEntry) StockEntryResponse {
	return StockEntryResponse{
		DocumentResponse: FromDocument(doc.Document),
		Purpose:          doc.Purpose,
		WorkOrder:        doc.WorkOrder,
		BOM:              doc.BOM,
		Items:            doc.Items,
	}
}

// parseLineID keeps a client-supplied line id so inspections stay attached
// across edits; anything unparsable gets a fresh id on renumbering.
func parseLineID(s string) id.ID {
	if s == "" {
		return id.Nil()
	}
	parsed, err := id.Parse(s)
	if err != nil {
		return id.Nil()
	}
	return parsed
}
