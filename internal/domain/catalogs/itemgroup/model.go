// Package itemgroup provides the Item Group catalog, a tree of product
// groups whose codes prefix generated item codes.
package itemgroup

import (
	"context"

	"milkledger/internal/core/apperror"
	"milkledger/internal/core/entity"
)

// ItemGroup is one node of the product tree.
type ItemGroup struct {
	entity.Catalog

	// ParentGroup is the code of the enclosing group; empty for a root.
	ParentGroup string `db:"parent_item_group" json:"parentItemGroup,omitempty"`
}

// NewItemGroup creates a group under parent.
func NewItemGroup(code, name, parent string) *ItemGroup {
	return &ItemGroup{
		Catalog:     entity.NewCatalog(code, name),
		ParentGroup: parent,
	}
}

// Validate implements entity.Validatable.
func (g *ItemGroup) Validate(ctx context.Context) error {
	if err := g.Catalog.Validate(ctx); err != nil {
		return err
	}
	if g.ParentGroup == g.Code {
		return apperror.NewValidation("item group cannot be its own parent").
			WithDetail("field", "parentItemGroup")
	}
	return nil
}
