package common

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/squareup/strata/errors"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
	secondsPerDay  = 24 * 60 * 60
)

// DateTextWidth and DateTimeTextWidth are the lengths of every rendered Date and DateTime.
const (
	DateTextWidth     = len("0000-00-00")
	DateTimeTextWidth = len("0000-00-00 00:00:00")
)

// dateType stores days since the unix epoch in a VectorColumn[uint16], dateTimeType stores seconds since the
// epoch in a VectorColumn[uint32]. Both are rendered in UTC.
type dateType struct{}

type dateTimeType struct{}

var (
	DateType     DataType = &dateType{}
	DateTimeType DataType = &dateTimeType{}
)

func (t *dateType) Name() string    { return "Date" }
func (t *dateType) Kind() TypeKind  { return TypeDate }
func (t *dateType) IsNumeric() bool { return false }

func (t *dateType) format(col Column, row int) (string, error) {
	col, row = resolveRow(col, row)
	c, ok := col.(*VectorColumn[uint16])
	if !ok {
		return "", incompatibleColumn(col, t)
	}
	return time.Unix(int64(c.data[row])*secondsPerDay, 0).UTC().Format(dateLayout), nil
}

func (t *dateType) SerializeText(col Column, row int, w WriteBuffer) error {
	return writeFormatted(t.format, col, row, w, 0)
}

func (t *dateType) SerializeTextEscaped(col Column, row int, w WriteBuffer) error {
	return writeFormatted(t.format, col, row, w, 0)
}

func (t *dateType) SerializeTextQuoted(col Column, row int, w WriteBuffer) error {
	return writeFormatted(t.format, col, row, w, '\'')
}

func (t *dateType) SerializeTextJSON(col Column, row int, w WriteBuffer, _ FormatSettings) error {
	return writeFormatted(t.format, col, row, w, '"')
}

func (t *dateType) CreateColumnBuilder() ColumnBuilder {
	return &temporalBuilder[uint16]{
		name: "Date",
		parse: func(s string) (uint16, error) {
			tm, err := time.ParseInLocation(dateLayout, s, time.UTC)
			if err != nil {
				return 0, err
			}
			return uint16(tm.Unix() / secondsPerDay), nil
		},
	}
}

func (t *dateTimeType) Name() string    { return "DateTime" }
func (t *dateTimeType) Kind() TypeKind  { return TypeDateTime }
func (t *dateTimeType) IsNumeric() bool { return false }

func (t *dateTimeType) format(col Column, row int) (string, error) {
	col, row = resolveRow(col, row)
	c, ok := col.(*VectorColumn[uint32])
	if !ok {
		return "", incompatibleColumn(col, t)
	}
	return time.Unix(int64(c.data[row]), 0).UTC().Format(dateTimeLayout), nil
}

func (t *dateTimeType) SerializeText(col Column, row int, w WriteBuffer) error {
	return writeFormatted(t.format, col, row, w, 0)
}

func (t *dateTimeType) SerializeTextEscaped(col Column, row int, w WriteBuffer) error {
	return writeFormatted(t.format, col, row, w, 0)
}

func (t *dateTimeType) SerializeTextQuoted(col Column, row int, w WriteBuffer) error {
	return writeFormatted(t.format, col, row, w, '\'')
}

func (t *dateTimeType) SerializeTextJSON(col Column, row int, w WriteBuffer, _ FormatSettings) error {
	return writeFormatted(t.format, col, row, w, '"')
}

func (t *dateTimeType) CreateColumnBuilder() ColumnBuilder {
	return &temporalBuilder[uint32]{
		name: "DateTime",
		parse: func(s string) (uint32, error) {
			tm, err := time.ParseInLocation(dateTimeLayout, s, time.UTC)
			if err != nil {
				return 0, err
			}
			return uint32(tm.Unix()), nil
		},
	}
}

func writeFormatted(format func(Column, int) (string, error), col Column, row int, w WriteBuffer, quote byte) error {
	s, err := format(col, row)
	if err != nil {
		return err
	}
	if quote != 0 {
		_ = w.WriteByte(quote)
	}
	_, err = w.WriteString(s)
	if quote != 0 {
		_ = w.WriteByte(quote)
	}
	return errors.WithStack(err)
}

// temporalBuilder accepts either the text form or the raw number of days or seconds.
type temporalBuilder[T uint16 | uint32] struct {
	name  string
	parse func(string) (T, error)
	data  []T
}

func (b *temporalBuilder[T]) Append(v interface{}) error {
	var (
		val T
		err error
	)
	switch raw := v.(type) {
	case string:
		val, err = b.parse(raw)
	case json.Number, float64, int, int64, uint64:
		val, err = ParseNumber[T](raw, TypeUInt32)
	default:
		err = errors.Errorf("unexpected value of type %T", v)
	}
	if err != nil {
		return errors.NewCannotParseInputError(fmt.Sprintf("%v as %s: %v", v, b.name, err))
	}
	b.data = append(b.data, val)
	return nil
}

func (b *temporalBuilder[T]) AppendDefault() { b.data = append(b.data, 0) }
func (b *temporalBuilder[T]) Len() int       { return len(b.data) }
func (b *temporalBuilder[T]) Build() Column  { return NewVectorColumn(b.data) }
