// Package catalog keeps the databases, tables and columns that functions such as hasColumnInTable look up.
package catalog

import (
	"sync"

	"github.com/google/btree"
	log "github.com/sirupsen/logrus"
	"github.com/squareup/strata/common"
	"github.com/squareup/strata/errors"
)

type Table struct {
	Database string
	Name     string
	Columns  []common.NameAndType
}

func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// tableItem orders tables by database then name.
type tableItem struct {
	database string
	name     string
	table    *Table
}

func (t *tableItem) Less(than btree.Item) bool {
	other := than.(*tableItem)
	if t.database != other.database {
		return t.database < other.database
	}
	return t.name < other.name
}

// MemCatalog is an in memory catalog safe for concurrent use.
type MemCatalog struct {
	lock      sync.RWMutex
	tables    *btree.BTree
	databases map[string]int
}

func NewMemCatalog() *MemCatalog {
	return &MemCatalog{
		tables:    btree.New(3),
		databases: make(map[string]int),
	}
}

// AddDatabase registers an empty database. Adding an existing database is a no-op.
func (c *MemCatalog) AddDatabase(database string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if _, ok := c.databases[database]; !ok {
		c.databases[database] = 0
	}
}

// AddTable registers a table, creating its database if needed.
func (c *MemCatalog) AddTable(table *Table) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	seen := make(map[string]struct{}, len(table.Columns))
	for _, col := range table.Columns {
		if _, ok := seen[col.Name]; ok {
			return errors.NewDuplicateColumnError(col.Name)
		}
		seen[col.Name] = struct{}{}
	}
	item := &tableItem{database: table.Database, name: table.Name, table: table}
	if c.tables.Has(item) {
		return errors.NewTableAlreadyExistsError(table.Database, table.Name)
	}
	c.tables.ReplaceOrInsert(item)
	c.databases[table.Database]++
	log.Debugf("added table %s.%s with %d columns", table.Database, table.Name, len(table.Columns))
	return nil
}

func (c *MemCatalog) DropTable(database string, table string) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.tables.Delete(&tableItem{database: database, name: table}) == nil {
		return errors.NewUnknownTableError(database, table)
	}
	c.databases[database]--
	return nil
}

func (c *MemCatalog) GetTable(database string, table string) (*Table, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.getTable(database, table)
}

func (c *MemCatalog) getTable(database string, table string) (*Table, error) {
	if _, ok := c.databases[database]; !ok {
		return nil, errors.NewUnknownDatabaseError(database)
	}
	item := c.tables.Get(&tableItem{database: database, name: table})
	if item == nil {
		return nil, errors.NewUnknownTableError(database, table)
	}
	return item.(*tableItem).table, nil
}

func (c *MemCatalog) HasColumn(database string, table string, column string) (bool, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	t, err := c.getTable(database, table)
	if err != nil {
		return false, err
	}
	return t.HasColumn(column), nil
}

// Tables returns the tables of database ordered by name.
func (c *MemCatalog) Tables(database string) ([]*Table, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	if _, ok := c.databases[database]; !ok {
		return nil, errors.NewUnknownDatabaseError(database)
	}
	var tables []*Table
	c.tables.AscendGreaterOrEqual(&tableItem{database: database}, func(i btree.Item) bool {
		item := i.(*tableItem)
		if item.database != database {
			return false
		}
		tables = append(tables, item.table)
		return true
	})
	return tables, nil
}
