package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milkledger/internal/core/apperror"
	"milkledger/internal/domain/catalogs/item"
	"milkledger/internal/domain/catalogs/itemgroup"
)

func TestItemCodeSeriesFromGroup(t *testing.T) {
	e := setup(t)

	require.NoError(t, e.c.ItemGroups.Create(e.ctx, itemgroup.NewItemGroup("RAW-MAT", "Raw Material", "")))
	require.NoError(t, e.c.ItemGroups.Create(e.ctx, itemgroup.NewItemGroup("RAW-MILK", "Raw Milk", "RAW-MAT")))

	first := item.NewItem("", "Buffalo milk", "")
	first.ItemGroup = "RAW-MILK"
	require.NoError(t, e.c.Items.Create(e.ctx, first))
	assert.Equal(t, "RM-RM-0001", first.Code)
	assert.Equal(t, "KG", first.StockUOM)

	// A manually coded item in the series moves the counter.
	manual := item.NewItem("RM-RM-0007", "Cow milk A2", "KG")
	manual.ItemGroup = "RAW-MILK"
	require.NoError(t, e.c.Items.Create(e.ctx, manual))

	next := item.NewItem("", "Mixed milk", "")
	next.ItemGroup = "RAW-MILK"
	require.NoError(t, e.c.Items.Create(e.ctx, next))
	assert.Equal(t, "RM-RM-0008", next.Code)

	got, err := e.c.Items.GetByCode(e.ctx, "RM-RM-0008")
	require.NoError(t, err)
	assert.Equal(t, "RAW-MILK", got.ItemGroup)
}

func TestItemCodeSeriesNeedsGroupWithParent(t *testing.T) {
	e := setup(t)
	require.NoError(t, e.c.ItemGroups.Create(e.ctx, itemgroup.NewItemGroup("ROOT", "All Item Groups", "")))

	err := e.c.Items.Create(e.ctx, item.NewItem("", "Ghee", "KG"))
	assert.True(t, apperror.IsValidation(err), "no group: %v", err)

	orphan := item.NewItem("", "Ghee", "KG")
	orphan.ItemGroup = "ROOT"
	err = e.c.Items.Create(e.ctx, orphan)
	assert.True(t, apperror.IsValidation(err), "root group: %v", err)

	missing := item.NewItem("", "Ghee", "KG")
	missing.ItemGroup = "NOPE"
	err = e.c.Items.Create(e.ctx, missing)
	assert.True(t, apperror.IsNotFound(err), "unknown group: %v", err)
}

func TestItemGroupParentMustExist(t *testing.T) {
	e := setup(t)

	err := e.c.ItemGroups.Create(e.ctx, itemgroup.NewItemGroup("CHILD", "Child", "MISSING"))
	assert.True(t, apperror.IsNotFound(err))

	err = e.c.ItemGroups.Create(e.ctx, itemgroup.NewItemGroup("SELF", "Self", "SELF"))
	assert.True(t, apperror.IsValidation(err))
}
