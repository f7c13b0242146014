package dto

import (
	"github.com/shopspring/decimal"

	"milkledger/internal/domain/catalogs/item"
	"milkledger/internal/domain/catalogs/itemgroup"
	"milkledger/internal/domain/catalogs/milktype"
	"milkledger/internal/domain/catalogs/supplier"
	"milkledger/internal/domain/catalogs/warehouse"
)

// --- Item ---

// ItemRequest is the request body for creating or updating an item.
type ItemRequest struct {
	CatalogRequest
	StockUOM    string               `json:"stockUom"`
	IsMilkType  bool                 `json:"isMilkType"`
	ItemGroup   string               `json:"itemGroup"`
	Conversions []item.UOMConversion `json:"uoms"`
	Version     int                  `json:"version"`
}

// ToEntity converts DTO to domain entity.
func (r ItemRequest) ToEntity() *item.Item {
	it := item.NewItem(r.Code, r.Name, r.StockUOM)
	r.ApplyTo(it)
	return it
}

// ApplyTo applies the request to an existing item.
func (r ItemRequest) ApplyTo(it *item.Item) {
	r.CatalogRequest.ApplyTo(&it.Catalog)
	it.StockUOM = r.StockUOM
	it.IsMilkType = r.IsMilkType
	it.ItemGroup = r.ItemGroup
	it.Conversions = r.Conversions
	if r.Version > 0 {
		it.Version = r.Version
	}
}

// ItemResponse is the response body for an item.
type ItemResponse struct {
	CatalogResponse
	StockUOM    string               `json:"stockUom"`
	IsMilkType  bool                 `json:"isMilkType"`
	ItemGroup   string               `json:"itemGroup,omitempty"`
	Conversions []item.UOMConversion `json:"uoms"`
}

// FromItem creates response DTO from domain entity.
func FromItem(it *item.Item) ItemResponse {
	conv := it.Conversions
	if conv == nil {
		conv = []item.UOMConversion{}
	}
	return ItemResponse{
		CatalogResponse: FromCatalog(it.Catalog),
		StockUOM:        it.StockUOM,
		IsMilkType:      it.IsMilkType,
		ItemGroup:       it.ItemGroup,
		Conversions:     conv,
	}
}

// --- Item Group ---

// ItemGroupRequest is the request body for creating or updating an item group.
type ItemGroupRequest struct {
	CatalogRequest
	ParentGroup string `json:"parentItemGroup"`
	Version     int    `json:"version"`
}

// ToEntity converts DTO to domain entity.
func (r ItemGroupRequest) ToEntity() *itemgroup.ItemGroup {
	g := itemgroup.NewItemGroup(r.Code, r.Name, r.ParentGroup)
	r.ApplyTo(g)
	return g
}

// ApplyTo applies the request to an existing item group.
func (r ItemGroupRequest) ApplyTo(g *itemgroup.ItemGroup) {
	r.CatalogRequest.ApplyTo(&g.Catalog)
	g.ParentGroup = r.ParentGroup
	if r.Version > 0 {
		g.Version = r.Version
	}
}

// ItemGroupResponse is the response body for an item group.
type ItemGroupResponse struct {
	CatalogResponse
	ParentGroup string `json:"parentItemGroup,omitempty"`
}

// FromItemGroup creates response DTO from domain entity.
func FromItemGroup(g *itemgroup.ItemGroup) ItemGroupResponse {
	return ItemGroupResponse{
		CatalogResponse: FromCatalog(g.Catalog),
		ParentGroup:     g.ParentGroup,
	}
}

// --- Supplier ---

// SupplierRequest is the request body for creating or updating a supplier.
type SupplierRequest struct {
	CatalogRequest
	MilkProfiles []supplier.MilkProfile `json:"milkProfiles"`
	Version      int                    `json:"version"`
}

// ToEntity converts DTO to domain entity.
func (r SupplierRequest) ToEntity() *supplier.Supplier {
	s := supplier.NewSupplier(r.Code, r.Name)
	r.ApplyTo(s)
	return s
}

// ApplyTo applies the request to an existing supplier.
func (r SupplierRequest) ApplyTo(s *supplier.Supplier) {
	r.CatalogRequest.ApplyTo(&s.Catalog)
	s.MilkProfiles = r.MilkProfiles
	if r.Version > 0 {
		s.Version = r.Version
	}
}

// SupplierResponse is the response body for a supplier.
type SupplierResponse struct {
	CatalogResponse
	MilkProfiles []supplier.MilkProfile `json:"milkProfiles"`
}

// FromSupplier creates response DTO from domain entity.
func FromSupplier(s *supplier.Supplier) SupplierResponse {
	profiles := s.MilkProfiles
	if profiles == nil {
		profiles = []supplier.MilkProfile{}
	}
	return SupplierResponse{
		CatalogResponse: FromCatalog(s.Catalog),
		MilkProfiles:    profiles,
	}
}

// --- Milk Type ---

// MilkTypeRequest is the request body for creating or updating a milk type.
type MilkTypeRequest struct {
	CatalogRequest
	RateModel milktype.RateModel `json:"rateModel"`

	FatAdditionRate  decimal.Decimal `json:"fatAdditionRate"`
	FatDeductionRate decimal.Decimal `json:"fatDeductionRate"`
	SNFAdditionRate  decimal.Decimal `json:"snfAdditionRate"`
	SNFDeductionRate decimal.Decimal `json:"snfDeductionRate"`

	EnableFatAddition  bool `json:"enableFatAddition"`
	EnableFatDeduction bool `json:"enableFatDeduction"`
	EnableSNFAddition  bool `json:"enableSnfAddition"`
	EnableSNFDeduction bool `json:"enableSnfDeduction"`

	Version int `json:"version"`
}

// ToEntity converts DTO to domain entity.
func (r MilkTypeRequest) ToEntity() *milktype.MilkType {
	mt := milktype.NewMilkType(r.Code, r.RateModel)
	r.ApplyTo(mt)
	return mt
}

// ApplyTo applies the request to an existing milk type.
func (r MilkTypeRequest) ApplyTo(mt *milktype.MilkType) {
	r.CatalogRequest.ApplyTo(&mt.Catalog)
	mt.RateModel = r.RateModel
	mt.FatAdditionRate = r.FatAdditionRate
	mt.FatDeductionRate = r.FatDeductionRate
	mt.SNFAdditionRate = r.SNFAdditionRate
	mt.SNFDeductionRate = r.SNFDeductionRate
	mt.EnableFatAddition = r.EnableFatAddition
	mt.EnableFatDeduction = r.EnableFatDeduction
	mt.EnableSNFAddition = r.EnableSNFAddition
	mt.EnableSNFDeduction = r.EnableSNFDeduction
	if r.Version > 0 {
		mt.Version = r.Version
	}
}

// MilkTypeResponse is the response body for a milk type.
type MilkTypeResponse struct {
	CatalogResponse
	RateModel milktype.RateModel `json:"rateModel"`

	FatAdditionRate  decimal.Decimal `json:"fatAdditionRate"`
	FatDeductionRate decimal.Decimal `json:"fatDeductionRate"`
	SNFAdditionRate  decimal.Decimal `json:"snfAdditionRate"`
	SNFDeductionRate decimal.Decimal `json:"snfDeductionRate"`

	EnableFatAddition  bool `json:"enableFatAddition"`
	EnableFatDeduction bool `json:"enableFatDeduction"`
	EnableSNFAddition  bool `json:"enableSnfAddition"`
	EnableSNFDeduction bool `json:"enableSnfDeduction"`
}

// FromMilkType creates response DTO from domain entity.
func FromMilkType(mt *milktype.MilkType) MilkTypeResponse {
	return MilkTypeResponse{
		CatalogResponse:    FromCatalog(mt.Catalog),
		RateModel:          mt.RateModel,
		FatAdditionRate:    mt.FatAdditionRate,
		FatDeductionRate:   mt.FatDeductionRate,
		SNFAdditionRate:    mt.SNFAdditionRate,
		SNFDeductionRate:   mt.SNFDeductionRate,
		EnableFatAddition:  mt.EnableFatAddition,
		EnableFatDeduction: mt.EnableFatDeduction,
		EnableSNFAddition:  mt.EnableSNFAddition,
		EnableSNFDeduction: mt.EnableSNFDeduction,
	}
}

// --- Warehouse ---

// WarehouseRequest is the request body for creating or updating a warehouse.
type WarehouseRequest struct {
	CatalogRequest
	Type     warehouse.WarehouseType `json:"type"`
	Capacity float64                 `json:"capacity"`
	Address  string                  `json:"address"`
	Version  int                     `json:"version"`
}

// ToEntity converts DTO to domain entity.
func (r WarehouseRequest) ToEntity() *warehouse.Warehouse {
	wh := warehouse.NewWarehouse(r.Code, r.Name, r.Type)
	r.ApplyTo(wh)
	return wh
}

// ApplyTo applies the request to an existing warehouse.
func (r WarehouseRequest) ApplyTo(wh *warehouse.Warehouse) {
	r.CatalogRequest.ApplyTo(&wh.Catalog)
	if r.Type != "" {
		wh.Type = r.Type
	}
	wh.Capacity = r.Capacity
	wh.Address = r.Address
	if r.Version > 0 {
		wh.Version = r.Version
	}
}

// WarehouseResponse is the response body for a warehouse.
type WarehouseResponse struct {
	CatalogResponse
	Type     warehouse.WarehouseType `json:"type"`
	Capacity float64                 `json:"capacity,omitempty"`
	Address  string                  `json:"address,omitempty"`
}

// FromWarehouse creates response DTO from domain entity.
func FromWarehouse(wh *warehouse.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		CatalogResponse: FromCatalog(wh.Catalog),
		Type:            wh.Type,
		Capacity:        wh.Capacity,
		Address:         wh.Address,
	}
}
