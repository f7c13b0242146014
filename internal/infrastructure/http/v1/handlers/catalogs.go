package handlers

import (
	"milkledger/internal/domain/catalogs/item"
	"milkledger/internal/domain/catalogs/itemgroup"
	"milkledger/internal/domain/catalogs/milktype"
	"milkledger/internal/domain/catalogs/supplier"
	"milkledger/internal/domain/catalogs/warehouse"
	"milkledger/internal/infrastructure/http/v1/dto"
)

type (
	ItemHandler      = CatalogHandler[*item.Item, dto.ItemRequest, dto.ItemRequest]
	ItemGroupHandler = CatalogHandler[*itemgroup.ItemGroup, dto.ItemGroupRequest, dto.ItemGroupRequest]
	SupplierHandler  = CatalogHandler[*supplier.Supplier, dto.SupplierRequest, dto.SupplierRequest]
	MilkTypeHandler  = CatalogHandler[*milktype.MilkType, dto.MilkTypeRequest, dto.MilkTypeRequest]
	WarehouseHandler = CatalogHandler[*warehouse.Warehouse, dto.WarehouseRequest, dto.WarehouseRequest]
)

// NewItemHandler creates the item catalog handler.
func NewItemHandler(base *BaseHandler, service *item.Service) *ItemHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*item.Item, dto.ItemRequest, dto.ItemRequest]{
		Service:      service,
		EntityName:   "item",
		MapCreateDTO: dto.ItemRequest.ToEntity,
		MapUpdateDTO: func(req dto.ItemRequest, existing *item.Item) *item.Item {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(e *item.Item) any { return dto.FromItem(e) },
	})
}

// NewItemGroupHandler creates the item group catalog handler.
func NewItemGroupHandler(base *BaseHandler, service *itemgroup.Service) *ItemGroupHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*itemgroup.ItemGroup, dto.ItemGroupRequest, dto.ItemGroupRequest]{
		Service:      service.CatalogService,
		EntityName:   "item group",
		MapCreateDTO: dto.ItemGroupRequest.ToEntity,
		MapUpdateDTO: func(req dto.ItemGroupRequest, existing *itemgroup.ItemGroup) *itemgroup.ItemGroup {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(e *itemgroup.ItemGroup) any { return dto.FromItemGroup(e) },
	})
}

// NewSupplierHandler creates the supplier catalog handler.
func NewSupplierHandler(base *BaseHandler, service *supplier.Service) *SupplierHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*supplier.Supplier, dto.SupplierRequest, dto.SupplierRequest]{
		Service:      service.CatalogService,
		EntityName:   "supplier",
		MapCreateDTO: dto.SupplierRequest.ToEntity,
		MapUpdateDTO: func(req dto.SupplierRequest, existing *supplier.Supplier) *supplier.Supplier {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(e *supplier.Supplier) any { return dto.FromSupplier(e) },
	})
}

// NewMilkTypeHandler creates the milk type catalog handler.
func NewMilkTypeHandler(base *BaseHandler, service *milktype.Service) *MilkTypeHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*milktype.MilkType, dto.MilkTypeRequest, dto.MilkTypeRequest]{
		Service:      service.CatalogService,
		EntityName:   "milk type",
		MapCreateDTO: dto.MilkTypeRequest.ToEntity,
		MapUpdateDTO: func(req dto.MilkTypeRequest, existing *milktype.MilkType) *milktype.MilkType {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(e *milktype.MilkType) any { return dto.FromMilkType(e) },
	})
}

// NewWarehouseHandler creates the warehouse catalog handler.
func NewWarehouseHandler(base *BaseHandler, service *warehouse.Service) *WarehouseHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*warehouse.Warehouse, dto.WarehouseRequest, dto.WarehouseRequest]{
		Service:      service.CatalogService,
		EntityName:   "warehouse",
		MapCreateDTO: dto.WarehouseRequest.ToEntity,
		MapUpdateDTO: func(req dto.WarehouseRequest, existing *warehouse.Warehouse) *warehouse.Warehouse {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(e *warehouse.Warehouse) any { return dto.FromWarehouse(e) },
	})
}
