// Package app wires repositories into the domain services shared by the
// HTTP server and the admin CLI.
package app

import (
	"milkledger/internal/core/lock"
	"milkledger/internal/core/numerator"
	"milkledger/internal/core/tx"
	"milkledger/internal/core/types"
	"milkledger/internal/domain/catalogs/item"
	"milkledger/internal/domain/catalogs/itemgroup"
	"milkledger/internal/domain/catalogs/milktype"
	"milkledger/internal/domain/catalogs/supplier"
	"milkledger/internal/domain/catalogs/warehouse"
	"milkledger/internal/domain/composition"
	"milkledger/internal/domain/documents"
	"milkledger/internal/domain/documents/purchase_receipt"
	"milkledger/internal/domain/documents/quality_inspection"
	"milkledger/internal/domain/documents/stock_entry"
	"milkledger/internal/domain/posting"
	"milkledger/internal/domain/pricing"
	"milkledger/internal/domain/registers/milkquality"
	"milkledger/internal/domain/registers/stock"
	"milkledger/internal/domain/reports"
	"milkledger/internal/domain/uom"
)

// Repositories is one storage backend.
type Repositories struct {
	TxManager tx.Manager
	Numerator numerator.Generator

	Items      item.Repository
	ItemGroups itemgroup.Repository
	Suppliers  supplier.Repository
	MilkTypes  milktype.Repository
	Warehouses warehouse.Repository

	PurchaseReceipts   purchase_receipt.Repository
	QualityInspections quality_inspection.Repository
	StockEntries       stock_entry.Repository

	Stock   stock.Repository
	Ledger  milkquality.Repository
	Reports reports.Repository

	// Audit is optional.
	Audit documents.AuditLog
}

// Options tune the wiring.
type Options struct {
	// MassUOM and VolumeUOM are the units the ledger records in.
	MassUOM   string
	VolumeUOM string

	// Locker serializes postings per item and warehouse; nil means in-process.
	Locker lock.Locker

	// Clock stamps transitions; nil means the system clock.
	Clock types.Clock
}

// Container holds every domain service.
type Container struct {
	Items      *item.Service
	ItemGroups *itemgroup.Service
	Suppliers  *supplier.Service
	MilkTypes  *milktype.Service
	Warehouses *warehouse.Service

	Converter *uom.Converter
	Resolver  *composition.Resolver
	Pricing   *pricing.Calculator

	Stock   *stock.Service
	Ledger  *milkquality.Service
	Posting *posting.Engine

	PurchaseReceipts   *purchase_receipt.Service
	QualityInspections *quality_inspection.Service
	StockEntries       *stock_entry.Service

	Reports *reports.Service
}

// New builds the services over repos.
func New(repos Repositories, opts Options) *Container {
	if opts.MassUOM == "" {
		opts.MassUOM = "KG"
	}
	if opts.VolumeUOM == "" {
		opts.VolumeUOM = "Litre"
	}
	if opts.Locker == nil {
		opts.Locker = lock.NewKeyedMutex()
	}
	if opts.Clock == nil {
		opts.Clock = types.SystemClock{}
	}

	c := &Container{
		ItemGroups: itemgroup.NewService(repos.ItemGroups, repos.TxManager),
		Suppliers:  supplier.NewService(repos.Suppliers, repos.TxManager),
		MilkTypes:  milktype.NewService(repos.MilkTypes, repos.TxManager),
		Warehouses: warehouse.NewService(repos.Warehouses, repos.TxManager),
	}

	c.Items = item.NewService(repos.Items, repos.TxManager, opts.MassUOM).WithGroups(c.ItemGroups)

	c.Converter = uom.NewConverter(c.Items, opts.MassUOM, opts.VolumeUOM)
	c.Resolver = composition.NewResolver(
		quality_inspection.NewReadingSource(repos.QualityInspections),
		milkquality.LastKnownSource(repos.Ledger),
	)
	c.Pricing = pricing.NewCalculator(c.Suppliers, c.MilkTypes)

	c.Stock = stock.NewService(repos.Stock)
	c.Ledger = milkquality.NewService(repos.Ledger, c.Converter, c.Resolver, c.Stock, repos.Numerator)
	c.Posting = posting.NewEngine(repos.TxManager, c.Stock, c.Ledger, opts.Locker, opts.Clock)

	c.PurchaseReceipts = purchase_receipt.NewService(
		repos.PurchaseReceipts, c.Posting, repos.Numerator, repos.TxManager,
		c.Items, c.Suppliers, c.Resolver, c.Pricing,
	)
	c.StockEntries = stock_entry.NewService(
		repos.StockEntries, c.Posting, repos.Numerator, repos.TxManager,
		c.Items, c.Resolver,
	)
	c.QualityInspections = quality_inspection.NewService(
		repos.QualityInspections, c.Posting, repos.Numerator, repos.TxManager, c.Items,
	).WithReferences(c.PurchaseReceipts, c.StockEntries)

	if repos.Audit != nil {
		c.PurchaseReceipts.SetAudit(repos.Audit)
		c.StockEntries.SetAudit(repos.Audit)
		c.QualityInspections.SetAudit(repos.Audit)
	}

	c.Reports = reports.NewService(repos.Reports, opts.Clock)
	return c
}
