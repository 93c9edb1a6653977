package common

import (
	"fmt"
	"math"
	"strconv"
	"unsafe"

	json "github.com/goccy/go-json"
	"github.com/squareup/strata/errors"
)

// NumberType is the DataType of the fixed width integers and floats.
type NumberType[T Number] struct {
	kind TypeKind
	name string
}

var (
	UInt8Type   = &NumberType[uint8]{kind: TypeUInt8, name: "UInt8"}
	UInt16Type  = &NumberType[uint16]{kind: TypeUInt16, name: "UInt16"}
	UInt32Type  = &NumberType[uint32]{kind: TypeUInt32, name: "UInt32"}
	UInt64Type  = &NumberType[uint64]{kind: TypeUInt64, name: "UInt64"}
	Int8Type    = &NumberType[int8]{kind: TypeInt8, name: "Int8"}
	Int16Type   = &NumberType[int16]{kind: TypeInt16, name: "Int16"}
	Int32Type   = &NumberType[int32]{kind: TypeInt32, name: "Int32"}
	Int64Type   = &NumberType[int64]{kind: TypeInt64, name: "Int64"}
	Float32Type = &NumberType[float32]{kind: TypeFloat32, name: "Float32"}
	Float64Type = &NumberType[float64]{kind: TypeFloat64, name: "Float64"}

	// NumberTypesByName allows lookup of the non-parameterised numeric types.
	NumberTypesByName = map[string]DataType{
		"UInt8":   UInt8Type,
		"UInt16":  UInt16Type,
		"UInt32":  UInt32Type,
		"UInt64":  UInt64Type,
		"Int8":    Int8Type,
		"Int16":   Int16Type,
		"Int32":   Int32Type,
		"Int64":   Int64Type,
		"Float32": Float32Type,
		"Float64": Float64Type,
	}
)

func (t *NumberType[T]) Name() string    { return t.name }
func (t *NumberType[T]) Kind() TypeKind  { return t.kind }
func (t *NumberType[T]) IsNumeric() bool { return true }

func (t *NumberType[T]) valueAt(col Column, row int) (T, error) {
	col, row = resolveRow(col, row)
	c, ok := col.(*VectorColumn[T])
	if !ok {
		var z T
		return z, incompatibleColumn(col, t)
	}
	return c.data[row], nil
}

// AppendNumber appends the text form of v, which has DataType kind, to dst.
func AppendNumber[T Number](dst []byte, v T, kind TypeKind) ([]byte, error) {
	switch kind {
	case TypeFloat32:
		return ShortestDoubleConverter().AppendShortest(dst, float64(v), 32)
	case TypeFloat64:
		return ShortestDoubleConverter().AppendShortest(dst, float64(v), 64)
	case TypeInt8, TypeInt16, TypeInt32, TypeInt64, TypeEnum8, TypeEnum16:
		return strconv.AppendInt(dst, int64(v), 10), nil
	default:
		return strconv.AppendUint(dst, uint64(v), 10), nil
	}
}

func (t *NumberType[T]) SerializeText(col Column, row int, w WriteBuffer) error {
	v, err := t.valueAt(col, row)
	if err != nil {
		return err
	}
	var buf [maxShortestFloatLength]byte
	out, err := AppendNumber(buf[:0], v, t.kind)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return errors.WithStack(err)
}

func (t *NumberType[T]) SerializeTextEscaped(col Column, row int, w WriteBuffer) error {
	return t.SerializeText(col, row, w)
}

func (t *NumberType[T]) SerializeTextQuoted(col Column, row int, w WriteBuffer) error {
	return t.SerializeText(col, row, w)
}

func (t *NumberType[T]) SerializeTextJSON(col Column, row int, w WriteBuffer, settings FormatSettings) error {
	v, err := t.valueAt(col, row)
	if err != nil {
		return err
	}
	if t.kind.IsFloat() && (math.IsNaN(float64(v)) || math.IsInf(float64(v), 0)) {
		_, err = w.WriteString("null")
		return errors.WithStack(err)
	}
	quote := settings.QuoteInt64 && (t.kind == TypeUInt64 || t.kind == TypeInt64)
	var buf [maxShortestFloatLength + 2]byte
	out := buf[:0]
	if quote {
		out = append(out, '"')
	}
	out, err = AppendNumber(out, v, t.kind)
	if err != nil {
		return err
	}
	if quote {
		out = append(out, '"')
	}
	_, err = w.Write(out)
	return errors.WithStack(err)
}

func (t *NumberType[T]) CreateColumnBuilder() ColumnBuilder {
	return &numberBuilder[T]{kind: t.kind, name: t.name}
}

type numberBuilder[T Number] struct {
	kind TypeKind
	name string
	data []T
}

func (b *numberBuilder[T]) Append(v interface{}) error {
	n, err := ParseNumber[T](v, b.kind)
	if err != nil {
		return errors.NewCannotParseInputError(fmt.Sprintf("%v as %s: %v", v, b.name, err))
	}
	b.data = append(b.data, n)
	return nil
}

func (b *numberBuilder[T]) AppendDefault() { b.data = append(b.data, 0) }
func (b *numberBuilder[T]) Len() int       { return len(b.data) }
func (b *numberBuilder[T]) Build() Column  { return NewVectorColumn(b.data) }

// ParseNumber converts a decoded JSON value or Go number into T, rejecting values that overflow the kind.
func ParseNumber[T Number](v interface{}, kind TypeKind) (T, error) {
	var s string
	switch val := v.(type) {
	case T:
		return val, nil
	case json.Number:
		s = val.String()
	case string:
		s = val
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		s = strconv.Itoa(val)
	case int64:
		s = strconv.FormatInt(val, 10)
	case uint64:
		s = strconv.FormatUint(val, 10)
	case bool:
		if val {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, errors.Errorf("unexpected value of type %T", v)
	}
	var z T
	bitSize := 8 * int(unsafe.Sizeof(z))
	switch {
	case kind.IsFloat():
		f, err := strconv.ParseFloat(s, bitSize)
		return T(f), errors.WithStack(err)
	case kind.IsSignedInteger() || kind == TypeEnum8 || kind == TypeEnum16:
		i, err := strconv.ParseInt(s, 10, bitSize)
		return T(i), errors.WithStack(err)
	default:
		u, err := strconv.ParseUint(s, 10, bitSize)
		return T(u), errors.WithStack(err)
	}
}
