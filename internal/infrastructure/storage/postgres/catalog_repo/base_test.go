package catalog_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milkledger/internal/domain"
)

func TestItemColumnsSkipChildTable(t *testing.T) {
	repo := NewItemRepo(nil)

	assert.Equal(t,
		[]string{"id", "version", "code", "name", "disabled", "stock_uom", "is_milk_type", "item_group"},
		repo.selectCols)
}

func TestListFilterSQL(t *testing.T) {
	repo := NewWarehouseRepo(nil)

	sql, args, err := repo.filtered(domain.ListFilter{}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM cat_warehouses WHERE disabled = $1")
	assert.Equal(t, []any{false}, args)

	sql, args, err = repo.filtered(domain.ListFilter{Search: "tank", IncludeDisabled: true}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE (name ILIKE $1 OR code ILIKE $2)")
	assert.Equal(t, []any{"%tank%", "%tank%"}, args)
}

func TestDeleteSQL(t *testing.T) {
	repo := NewMilkTypeRepo(nil)

	sql, args, err := repo.Builder().
		Delete(repo.tableName).
		Where("code = ?", "COW").
		ToSql()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM cat_milk_types WHERE code = $1", sql)
	assert.Equal(t, []any{"COW"}, args)
}

func TestItemCodesWithPrefixSQL(t *testing.T) {
	repo := NewItemRepo(nil)

	sql, args, err := repo.codesQuery("RM-M-").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT code FROM cat_items WHERE code LIKE $1 ORDER BY code", sql)
	assert.Equal(t, []any{"RM-M-%"}, args)
}

func TestItemGroupColumns(t *testing.T) {
	repo := NewItemGroupRepo(nil)
	assert.Contains(t, repo.selectCols, "parent_item_group")
}
