package common

import (
	"fmt"
	"strings"

	"github.com/squareup/strata/errors"
)

// ColumnWithTypeAndName is one field of a Block. Column is nil for a result slot that a function has not
// filled yet.
type ColumnWithTypeAndName struct {
	Column Column
	Type   DataType
	Name   string
}

func (c *ColumnWithTypeAndName) String() string {
	colName := "nullptr"
	if c.Column != nil {
		colName = fmt.Sprintf("%s(size = %d)", c.Column.Name(), c.Column.Size())
	}
	return fmt.Sprintf("%s %s %s", c.Name, c.Type.Name(), colName)
}

type NameAndType struct {
	Name string
	Type DataType
}

// Block is an ordered set of named columns that all have the same number of rows. Names are unique, except
// that any number of unnamed scratch columns may be inserted and addressed by position only.
type Block struct {
	columns []ColumnWithTypeAndName
	index   map[string]int
}

func NewBlock(columns []ColumnWithTypeAndName) (*Block, error) {
	b := &Block{index: make(map[string]int, len(columns))}
	for _, c := range columns {
		if _, err := b.Insert(c); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Insert appends a column and returns its position.
func (b *Block) Insert(c ColumnWithTypeAndName) (int, error) {
	if b.index == nil {
		b.index = make(map[string]int)
	}
	if c.Name != "" {
		if _, ok := b.index[c.Name]; ok {
			return 0, errors.NewDuplicateColumnError(c.Name)
		}
		b.index[c.Name] = len(b.columns)
	}
	b.columns = append(b.columns, c)
	return len(b.columns) - 1, nil
}

// GetByPosition returns the field at pos. The returned pointer stays valid until the next Insert.
func (b *Block) GetByPosition(pos int) *ColumnWithTypeAndName {
	return &b.columns[pos]
}

func (b *Block) GetByName(name string) (*ColumnWithTypeAndName, error) {
	pos, ok := b.index[name]
	if !ok {
		return nil, errors.NewNotFoundColumnInBlockError(name, b.Names())
	}
	return &b.columns[pos], nil
}

func (b *Block) PositionByName(name string) (int, bool) {
	pos, ok := b.index[name]
	return pos, ok
}

func (b *Block) Has(name string) bool {
	_, ok := b.index[name]
	return ok
}

func (b *Block) Columns() int {
	return len(b.columns)
}

// Rows is the size of the first filled column, or 0 if there is none.
func (b *Block) Rows() int {
	for _, c := range b.columns {
		if c.Column != nil {
			return c.Column.Size()
		}
	}
	return 0
}

// CheckNumberOfRows verifies every filled column has the same size.
func (b *Block) CheckNumberOfRows() error {
	expected := -1
	for _, c := range b.columns {
		if c.Column == nil {
			continue
		}
		size := c.Column.Size()
		if expected == -1 {
			expected = size
		} else if size != expected {
			return errors.NewSizesOfColumnsDontMatchError(c.Name, size, expected)
		}
	}
	return nil
}

func (b *Block) Names() []string {
	names := make([]string, len(b.columns))
	for i, c := range b.columns {
		names[i] = c.Name
	}
	return names
}

func (b *Block) NamesAndTypes() []NameAndType {
	res := make([]NameAndType, len(b.columns))
	for i, c := range b.columns {
		res[i] = NameAndType{Name: c.Name, Type: c.Type}
	}
	return res
}

// CloneEmpty returns a block with the same structure and zero rows.
func (b *Block) CloneEmpty() *Block {
	return b.mapColumns(func(c Column) Column { return c.Cut(0, 0) })
}

// Cut returns rows [start, start+length) of every column.
func (b *Block) Cut(start int, length int) *Block {
	return b.mapColumns(func(c Column) Column { return c.Cut(start, length) })
}

// Materialize replaces every constant column with its full form.
func (b *Block) Materialize() *Block {
	return b.mapColumns(func(c Column) Column { return c.ConvertToFull() })
}

func (b *Block) mapColumns(f func(Column) Column) *Block {
	res := &Block{columns: make([]ColumnWithTypeAndName, len(b.columns)), index: make(map[string]int, len(b.index))}
	for i, c := range b.columns {
		if c.Column != nil {
			c.Column = f(c.Column)
		}
		res.columns[i] = c
	}
	for name, pos := range b.index {
		res.index[name] = pos
	}
	return res
}

func (b *Block) ByteSize() int {
	size := 0
	for _, c := range b.columns {
		if c.Column != nil {
			size += c.Column.ByteSize()
		}
	}
	return size
}

// DumpStructure describes every field, for trace logging.
func (b *Block) DumpStructure() string {
	parts := make([]string, len(b.columns))
	for i := range b.columns {
		parts[i] = b.columns[i].String()
	}
	return strings.Join(parts, ", ")
}
