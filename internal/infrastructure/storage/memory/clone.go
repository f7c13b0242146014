package memory

import (
	"slices"

	"milkledger/internal/domain/catalogs/item"
	"milkledger/internal/domain/catalogs/itemgroup"
	"milkledger/internal/domain/catalogs/milktype"
	"milkledger/internal/domain/catalogs/supplier"
	"milkledger/internal/domain/catalogs/warehouse"
	"milkledger/internal/domain/documents/purchase_receipt"
	"milkledger/internal/domain/documents/quality_inspection"
	"milkledger/internal/domain/documents/stock_entry"
)

// Stored values are copied on the way in and out so callers never share
// memory with the store.

func cloneItem(v *item.Item) *item.Item {
	cp := *v
	cp.Conversions = slices.Clone(v.Conversions)
	return &cp
}

func cloneItemGroup(v *itemgroup.ItemGroup) *itemgroup.ItemGroup {
	cp := *v
	return &cp
}

func cloneSupplier(v *supplier.Supplier) *supplier.Supplier {
	cp := *v
	cp.MilkProfiles = slices.Clone(v.MilkProfiles)
	return &cp
}

func cloneMilkType(v *milktype.MilkType) *milktype.MilkType {
	cp := *v
	return &cp
}

func cloneWarehouse(v *warehouse.Warehouse) *warehouse.Warehouse {
	cp := *v
	return &cp
}

func cloneReceipt(v *purchase_receipt.PurchaseReceipt) *purchase_receipt.PurchaseReceipt {
	cp := *v
	cp.Items = slices.Clone(v.Items)
	for i := range cp.Items {
		cp.Items[i].Bundle = slices.Clone(cp.Items[i].Bundle)
	}
	return &cp
}

func cloneInspection(v *quality_inspection.QualityInspection) *quality_inspection.QualityInspection {
	cp := *v
	cp.Readings = slices.Clone(v.Readings)
	return &cp
}

func cloneStockEntry(v *stock_entry.StockEntry) *stock_entry.StockEntry {
	cp := *v
	cp.Items = slices.Clone(v.Items)
	for i := range cp.Items {
		cp.Items[i].Bundle = slices.Clone(cp.Items[i].Bundle)
	}
	return &cp
}
