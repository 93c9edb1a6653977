package catalog

import (
	"testing"

	"github.com/squareup/strata/common"
	"github.com/squareup/strata/errors"
	"github.com/stretchr/testify/require"
)

func visitsTable(database string, name string) *Table {
	return &Table{
		Database: database,
		Name:     name,
		Columns: []common.NameAndType{
			{Name: "id", Type: common.UInt64Type},
			{Name: "url", Type: common.StringType},
		},
	}
}

func TestHasColumn(t *testing.T) {
	c := NewMemCatalog()
	require.NoError(t, c.AddTable(visitsTable("default", "visits")))

	has, err := c.HasColumn("default", "visits", "url")
	require.NoError(t, err)
	require.True(t, has)

	has, err = c.HasColumn("default", "visits", "referer")
	require.NoError(t, err)
	require.False(t, has)
}

func TestHasColumnUnknownTable(t *testing.T) {
	c := NewMemCatalog()
	require.NoError(t, c.AddTable(visitsTable("default", "visits")))

	_, err := c.HasColumn("default", "hits", "url")
	require.True(t, errors.HasCode(err, errors.UnknownTable))
	require.Equal(t, "STR0006 - Table default.hits doesn't exist", err.Error())

	_, err = c.HasColumn("other", "visits", "url")
	require.True(t, errors.HasCode(err, errors.UnknownDatabase))
}

func TestAddTableRejectsDuplicates(t *testing.T) {
	c := NewMemCatalog()
	require.NoError(t, c.AddTable(visitsTable("default", "visits")))
	err := c.AddTable(visitsTable("default", "visits"))
	require.True(t, errors.HasCode(err, errors.TableAlreadyExists))

	err = c.AddTable(&Table{Database: "default", Name: "bad", Columns: []common.NameAndType{
		{Name: "a", Type: common.UInt8Type},
		{Name: "a", Type: common.UInt8Type},
	}})
	require.True(t, errors.HasCode(err, errors.DuplicateColumn))
}

func TestTablesOrderedPerDatabase(t *testing.T) {
	c := NewMemCatalog()
	require.NoError(t, c.AddTable(visitsTable("b", "zeta")))
	require.NoError(t, c.AddTable(visitsTable("a", "one")))
	require.NoError(t, c.AddTable(visitsTable("b", "alpha")))
	require.NoError(t, c.AddTable(visitsTable("c", "other")))

	tables, err := c.Tables("b")
	require.NoError(t, err)
	require.Equal(t, 2, len(tables))
	require.Equal(t, "alpha", tables[0].Name)
	require.Equal(t, "zeta", tables[1].Name)

	c.AddDatabase("empty")
	tables, err = c.Tables("empty")
	require.NoError(t, err)
	require.Empty(t, tables)

	_, err = c.Tables("missing")
	require.True(t, errors.HasCode(err, errors.UnknownDatabase))
}

func TestDropTable(t *testing.T) {
	c := NewMemCatalog()
	require.NoError(t, c.AddTable(visitsTable("default", "visits")))
	require.NoError(t, c.DropTable("default", "visits"))
	_, err := c.GetTable("default", "visits")
	require.True(t, errors.HasCode(err, errors.UnknownTable))
	require.True(t, errors.HasCode(c.DropTable("default", "visits"), errors.UnknownTable))
}
