package common

import (
	"fmt"
	"strings"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// ColumnKind tags the physical representation of a Column. The set is closed: code that consumes columns
// switches on the concrete type and must reject anything it does not know.
type ColumnKind int

const (
	ColumnKindVector ColumnKind = iota
	ColumnKindString
	ColumnKindFixedString
	ColumnKindConst
	ColumnKindArray
	ColumnKindTuple
	ColumnKindConstArray
	ColumnKindConstTuple
	ColumnKindAggregateState
)

var columnKindNames = map[ColumnKind]string{
	ColumnKindVector:         "vector",
	ColumnKindString:         "string",
	ColumnKindFixedString:    "fixed_string",
	ColumnKindConst:          "const",
	ColumnKindArray:          "array",
	ColumnKindTuple:          "tuple",
	ColumnKindConstArray:     "const_array",
	ColumnKindConstTuple:     "const_tuple",
	ColumnKindAggregateState: "aggregate_state",
}

func (k ColumnKind) String() string {
	return columnKindNames[k]
}

// IsConst is true for every representation that stores a single value for all rows.
func (k ColumnKind) IsConst() bool {
	return k == ColumnKindConst || k == ColumnKindConstArray || k == ColumnKindConstTuple
}

// Column holds the values of one field for all rows of a Block.
type Column interface {
	// Name identifies the representation in error messages, e.g. ColumnUInt8 or ColumnConst(ColumnString).
	Name() string
	Kind() ColumnKind
	Size() int
	// ByteSize is the approximate number of bytes held by the column.
	ByteSize() int
	Cut(start int, length int) Column
	// Take returns a new column made of the rows at indices, in that order.
	Take(indices []int) Column
	// ConvertToFull materializes constant columns. Other columns are returned unchanged.
	ConvertToFull() Column
}

type Number interface {
	constraints.Integer | constraints.Float
}

func numberTypeName[T Number]() string {
	var z T
	switch any(z).(type) {
	case uint8:
		return "UInt8"
	case uint16:
		return "UInt16"
	case uint32:
		return "UInt32"
	case uint64:
		return "UInt64"
	case int8:
		return "Int8"
	case int16:
		return "Int16"
	case int32:
		return "Int32"
	case int64:
		return "Int64"
	case float32:
		return "Float32"
	case float64:
		return "Float64"
	default:
		return fmt.Sprintf("%T", z)
	}
}

// VectorColumn is a dense column of fixed width numbers. Date, DateTime and Enum values are stored in
// VectorColumns of their underlying integer.
type VectorColumn[T Number] struct {
	data []T
}

func NewVectorColumn[T Number](data []T) *VectorColumn[T] {
	return &VectorColumn[T]{data: data}
}

func (c *VectorColumn[T]) Name() string     { return "Column" + numberTypeName[T]() }
func (c *VectorColumn[T]) Kind() ColumnKind { return ColumnKindVector }
func (c *VectorColumn[T]) Size() int        { return len(c.data) }
func (c *VectorColumn[T]) Data() []T        { return c.data }

func (c *VectorColumn[T]) ByteSize() int {
	var z T
	return len(c.data) * int(unsafe.Sizeof(z))
}

func (c *VectorColumn[T]) Cut(start int, length int) Column {
	data := make([]T, length)
	copy(data, c.data[start:start+length])
	return &VectorColumn[T]{data: data}
}

func (c *VectorColumn[T]) Take(indices []int) Column {
	data := make([]T, len(indices))
	for i, idx := range indices {
		data[i] = c.data[idx]
	}
	return &VectorColumn[T]{data: data}
}

func (c *VectorColumn[T]) ConvertToFull() Column { return c }

// StringColumn stores all values back to back in one byte slice. Each value is followed by a zero byte and
// offsets[i] is the end of row i including that terminator.
type StringColumn struct {
	chars   []byte
	offsets []uint64
}

func NewStringColumn(values []string) *StringColumn {
	c := &StringColumn{offsets: make([]uint64, 0, len(values))}
	for _, v := range values {
		c.AppendString(v)
	}
	return c
}

func (c *StringColumn) AppendBytes(b []byte) {
	c.chars = append(c.chars, b...)
	c.chars = append(c.chars, 0)
	c.offsets = append(c.offsets, uint64(len(c.chars)))
}

func (c *StringColumn) AppendString(s string) {
	c.chars = append(c.chars, s...)
	c.chars = append(c.chars, 0)
	c.offsets = append(c.offsets, uint64(len(c.chars)))
}

func (c *StringColumn) Name() string      { return "ColumnString" }
func (c *StringColumn) Kind() ColumnKind  { return ColumnKindString }
func (c *StringColumn) Size() int         { return len(c.offsets) }
func (c *StringColumn) ByteSize() int     { return len(c.chars) + 8*len(c.offsets) }
func (c *StringColumn) Chars() []byte     { return c.chars }
func (c *StringColumn) Offsets() []uint64 { return c.offsets }

func (c *StringColumn) offsetAt(i int) uint64 {
	if i == 0 {
		return 0
	}
	return c.offsets[i-1]
}

// At returns the bytes of row i without the terminating zero byte.
func (c *StringColumn) At(i int) []byte {
	return c.chars[c.offsetAt(i) : c.offsets[i]-1]
}

func (c *StringColumn) Cut(start int, length int) Column {
	res := &StringColumn{offsets: make([]uint64, 0, length)}
	for i := start; i < start+length; i++ {
		res.AppendBytes(c.At(i))
	}
	return res
}

func (c *StringColumn) Take(indices []int) Column {
	res := &StringColumn{offsets: make([]uint64, 0, len(indices))}
	for _, idx := range indices {
		res.AppendBytes(c.At(idx))
	}
	return res
}

func (c *StringColumn) ConvertToFull() Column { return c }

// FixedStringColumn stores values of exactly n bytes, shorter values are padded with zero bytes.
type FixedStringColumn struct {
	chars []byte
	n     int
}

func NewFixedStringColumn(n int) *FixedStringColumn {
	return &FixedStringColumn{n: n}
}

// Append adds b, which must not be longer than n.
func (c *FixedStringColumn) Append(b []byte) {
	c.chars = append(c.chars, b...)
	for i := len(b); i < c.n; i++ {
		c.chars = append(c.chars, 0)
	}
}

func (c *FixedStringColumn) Name() string     { return "ColumnFixedString" }
func (c *FixedStringColumn) Kind() ColumnKind { return ColumnKindFixedString }
func (c *FixedStringColumn) ByteSize() int    { return len(c.chars) }
func (c *FixedStringColumn) Chars() []byte    { return c.chars }
func (c *FixedStringColumn) N() int           { return c.n }

func (c *FixedStringColumn) Size() int {
	if c.n == 0 {
		return 0
	}
	return len(c.chars) / c.n
}

func (c *FixedStringColumn) At(i int) []byte {
	return c.chars[i*c.n : (i+1)*c.n]
}

func (c *FixedStringColumn) Cut(start int, length int) Column {
	chars := make([]byte, length*c.n)
	copy(chars, c.chars[start*c.n:(start+length)*c.n])
	return &FixedStringColumn{chars: chars, n: c.n}
}

func (c *FixedStringColumn) Take(indices []int) Column {
	res := &FixedStringColumn{chars: make([]byte, 0, len(indices)*c.n), n: c.n}
	for _, idx := range indices {
		res.chars = append(res.chars, c.At(idx)...)
	}
	return res
}

func (c *FixedStringColumn) ConvertToFull() Column { return c }

// ArrayColumn holds the elements of all rows concatenated in one nested column. offsets[i] is the exclusive
// end of row i in the nested column, row i starts where row i-1 ends.
type ArrayColumn struct {
	data    Column
	offsets []uint64
}

func NewArrayColumn(data Column, offsets []uint64) *ArrayColumn {
	return &ArrayColumn{data: data, offsets: offsets}
}

func (c *ArrayColumn) Name() string      { return "ColumnArray(" + c.data.Name() + ")" }
func (c *ArrayColumn) Kind() ColumnKind  { return ColumnKindArray }
func (c *ArrayColumn) Size() int         { return len(c.offsets) }
func (c *ArrayColumn) ByteSize() int     { return c.data.ByteSize() + 8*len(c.offsets) }
func (c *ArrayColumn) Data() Column      { return c.data }
func (c *ArrayColumn) Offsets() []uint64 { return c.offsets }

// OffsetAt is the start of row i in the nested column.
func (c *ArrayColumn) OffsetAt(i int) uint64 {
	if i == 0 {
		return 0
	}
	return c.offsets[i-1]
}

func (c *ArrayColumn) SizeAt(i int) int {
	return int(c.offsets[i] - c.OffsetAt(i))
}

func (c *ArrayColumn) Cut(start int, length int) Column {
	if length == 0 {
		return &ArrayColumn{data: c.data.Cut(0, 0), offsets: []uint64{}}
	}
	nestedStart := c.OffsetAt(start)
	nestedEnd := c.offsets[start+length-1]
	offsets := make([]uint64, length)
	for i := range offsets {
		offsets[i] = c.offsets[start+i] - nestedStart
	}
	return &ArrayColumn{data: c.data.Cut(int(nestedStart), int(nestedEnd-nestedStart)), offsets: offsets}
}

func (c *ArrayColumn) Take(indices []int) Column {
	offsets := make([]uint64, len(indices))
	var nested []int
	for i, idx := range indices {
		for j := c.OffsetAt(idx); j < c.offsets[idx]; j++ {
			nested = append(nested, int(j))
		}
		offsets[i] = uint64(len(nested))
	}
	return &ArrayColumn{data: c.data.Take(nested), offsets: offsets}
}

func (c *ArrayColumn) ConvertToFull() Column { return c }

// TupleColumn holds one child column per tuple element. All children have the same size.
type TupleColumn struct {
	columns []Column
}

func NewTupleColumn(columns []Column) *TupleColumn {
	return &TupleColumn{columns: columns}
}

func (c *TupleColumn) Name() string {
	names := make([]string, len(c.columns))
	for i, col := range c.columns {
		names[i] = col.Name()
	}
	return "ColumnTuple(" + strings.Join(names, ", ") + ")"
}

func (c *TupleColumn) Kind() ColumnKind      { return ColumnKindTuple }
func (c *TupleColumn) Columns() []Column     { return c.columns }
func (c *TupleColumn) ColumnAt(i int) Column { return c.columns[i] }
func (c *TupleColumn) ConvertToFull() Column { return c }

func (c *TupleColumn) withColumns(cols []Column) *TupleColumn {
	return &TupleColumn{columns: cols}
}

func (c *TupleColumn) Size() int {
	if len(c.columns) == 0 {
		return 0
	}
	return c.columns[0].Size()
}

func (c *TupleColumn) ByteSize() int {
	size := 0
	for _, col := range c.columns {
		size += col.ByteSize()
	}
	return size
}

func (c *TupleColumn) Cut(start int, length int) Column {
	cols := make([]Column, len(c.columns))
	for i, col := range c.columns {
		cols[i] = col.Cut(start, length)
	}
	return c.withColumns(cols)
}

func (c *TupleColumn) Take(indices []int) Column {
	cols := make([]Column, len(c.columns))
	for i, col := range c.columns {
		cols[i] = col.Take(indices)
	}
	return c.withColumns(cols)
}

// ConstColumn is a single value repeated size times. The value is held as a one row column of any other
// representation, which makes a ConstColumn over an ArrayColumn or TupleColumn a constant array or tuple.
type ConstColumn struct {
	data Column
	size int
}

func NewConstColumn(data Column, size int) *ConstColumn {
	if c, ok := data.(*ConstColumn); ok {
		data = c.data
	}
	if data.Size() != 1 {
		data = data.Cut(0, 1)
	}
	return &ConstColumn{data: data, size: size}
}

func NewConstNumber[T Number](size int, v T) *ConstColumn {
	return &ConstColumn{data: &VectorColumn[T]{data: []T{v}}, size: size}
}

func NewConstUInt64(size int, v uint64) *ConstColumn {
	return NewConstNumber[uint64](size, v)
}

func NewConstUInt8(size int, v uint8) *ConstColumn {
	return NewConstNumber[uint8](size, v)
}

func NewConstString(size int, s string) *ConstColumn {
	return &ConstColumn{data: NewStringColumn([]string{s}), size: size}
}

func (c *ConstColumn) Name() string  { return "ColumnConst(" + c.data.Name() + ")" }
func (c *ConstColumn) Size() int     { return c.size }
func (c *ConstColumn) ByteSize() int { return c.data.ByteSize() }

// Data is the one row column holding the value.
func (c *ConstColumn) Data() Column { return c.data }

func (c *ConstColumn) Kind() ColumnKind {
	switch c.data.Kind() {
	case ColumnKindArray:
		return ColumnKindConstArray
	case ColumnKindTuple:
		return ColumnKindConstTuple
	default:
		return ColumnKindConst
	}
}

func (c *ConstColumn) Cut(start int, length int) Column {
	return &ConstColumn{data: c.data, size: length}
}

func (c *ConstColumn) Take(indices []int) Column {
	return &ConstColumn{data: c.data, size: len(indices)}
}

func (c *ConstColumn) ConvertToFull() Column {
	return c.data.Take(make([]int, c.size))
}

// ConstValue returns the value of a constant column of numbers of type T.
func ConstValue[T Number](c *ConstColumn) (T, bool) {
	v, ok := c.data.(*VectorColumn[T])
	if !ok {
		var z T
		return z, false
	}
	return v.data[0], true
}

// ConstString returns the value of a constant String column.
func ConstString(col Column) (string, bool) {
	c, ok := col.(*ConstColumn)
	if !ok {
		return "", false
	}
	s, ok := c.data.(*StringColumn)
	if !ok {
		return "", false
	}
	return string(s.At(0)), true
}

// AggregateStateColumn holds serialized aggregate function states, one opaque byte string per row.
type AggregateStateColumn struct {
	function string
	states   [][]byte
}

func NewAggregateStateColumn(function string, states [][]byte) *AggregateStateColumn {
	return &AggregateStateColumn{function: function, states: states}
}

func (c *AggregateStateColumn) Name() string          { return "ColumnAggregateFunction" }
func (c *AggregateStateColumn) Kind() ColumnKind      { return ColumnKindAggregateState }
func (c *AggregateStateColumn) Size() int             { return len(c.states) }
func (c *AggregateStateColumn) Function() string      { return c.function }
func (c *AggregateStateColumn) At(i int) []byte       { return c.states[i] }
func (c *AggregateStateColumn) ConvertToFull() Column { return c }

func (c *AggregateStateColumn) ByteSize() int {
	size := 0
	for _, s := range c.states {
		size += len(s)
	}
	return size
}

func (c *AggregateStateColumn) Cut(start int, length int) Column {
	states := make([][]byte, length)
	copy(states, c.states[start:start+length])
	return &AggregateStateColumn{function: c.function, states: states}
}

func (c *AggregateStateColumn) Take(indices []int) Column {
	states := make([][]byte, len(indices))
	for i, idx := range indices {
		states[i] = c.states[idx]
	}
	return &AggregateStateColumn{function: c.function, states: states}
}
