package common

import (
	"io"

	"github.com/squareup/strata/errors"
)

type TypeKind int

const (
	TypeUnknown TypeKind = iota
	TypeUInt8
	TypeUInt16
	TypeUInt32
	TypeUInt64
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeFloat32
	TypeFloat64
	TypeString
	TypeFixedString
	TypeDate
	TypeDateTime
	TypeEnum8
	TypeEnum16
	TypeArray
	TypeTuple
	TypeAggregateFunction
)

func (k TypeKind) IsInteger() bool {
	return k >= TypeUInt8 && k <= TypeInt64
}

func (k TypeKind) IsSignedInteger() bool {
	return k >= TypeInt8 && k <= TypeInt64
}

func (k TypeKind) IsFloat() bool {
	return k == TypeFloat32 || k == TypeFloat64
}

// WriteBuffer is what values are serialized into. Both *bufio.Writer and *bytes.Buffer satisfy it.
type WriteBuffer interface {
	io.Writer
	io.ByteWriter
	io.StringWriter
}

// FormatSettings carries the per output stream options that affect how single values are written.
type FormatSettings struct {
	// QuoteInt64 writes UInt64 and Int64 values as JSON strings, for consumers that cannot represent the full
	// 64 bit range as numbers.
	QuoteInt64 bool
}

// DataType describes the logical type of the values of a column and knows how to write one of them.
// A DataType is immutable and is shared by every column of that type.
//
// The serialization methods read row `row` of the column through the accessor of whichever concrete column
// they are given. Constant columns are read at their single stored value.
type DataType interface {
	Name() string
	Kind() TypeKind
	IsNumeric() bool

	SerializeText(col Column, row int, w WriteBuffer) error
	// SerializeTextEscaped writes the value with tab separated escaping.
	SerializeTextEscaped(col Column, row int, w WriteBuffer) error
	// SerializeTextQuoted writes the value as it appears nested inside an array or tuple.
	SerializeTextQuoted(col Column, row int, w WriteBuffer) error
	SerializeTextJSON(col Column, row int, w WriteBuffer, settings FormatSettings) error

	CreateColumnBuilder() ColumnBuilder
}

// ColumnBuilder accumulates Go values into a new dense column of one DataType.
type ColumnBuilder interface {
	// Append adds one value. Accepted Go types depend on the DataType: numbers accept any Go number,
	// json.Number or a numeric string; String and Enum accept string; Array and Tuple accept []interface{}.
	Append(v interface{}) error
	AppendDefault()
	Len() int
	Build() Column
}

func TypesEqual(t1 DataType, t2 DataType) bool {
	return t1.Name() == t2.Name()
}

// resolveRow unwraps constant columns so the caller can read the stored value.
func resolveRow(col Column, row int) (Column, int) {
	for {
		c, ok := col.(*ConstColumn)
		if !ok {
			return col, row
		}
		col, row = c.Data(), 0
	}
}

func incompatibleColumn(col Column, typ DataType) error {
	return errors.Errorf("column %s is not compatible with data type %s", col.Name(), typ.Name())
}
