package common

import (
	"fmt"

	"github.com/squareup/strata/errors"
)

type stringType struct{}

// StringType is the DataType of arbitrary byte strings.
var StringType DataType = &stringType{}

func (t *stringType) Name() string    { return "String" }
func (t *stringType) Kind() TypeKind  { return TypeString }
func (t *stringType) IsNumeric() bool { return false }

func (t *stringType) valueAt(col Column, row int) ([]byte, error) {
	col, row = resolveRow(col, row)
	c, ok := col.(*StringColumn)
	if !ok {
		return nil, incompatibleColumn(col, t)
	}
	return c.At(row), nil
}

func (t *stringType) SerializeText(col Column, row int, w WriteBuffer) error {
	v, err := t.valueAt(col, row)
	if err != nil {
		return err
	}
	_, err = w.Write(v)
	return errors.WithStack(err)
}

func (t *stringType) SerializeTextEscaped(col Column, row int, w WriteBuffer) error {
	v, err := t.valueAt(col, row)
	if err != nil {
		return err
	}
	WriteEscapedString(v, w)
	return nil
}

func (t *stringType) SerializeTextQuoted(col Column, row int, w WriteBuffer) error {
	v, err := t.valueAt(col, row)
	if err != nil {
		return err
	}
	WriteQuotedString(v, w)
	return nil
}

func (t *stringType) SerializeTextJSON(col Column, row int, w WriteBuffer, _ FormatSettings) error {
	v, err := t.valueAt(col, row)
	if err != nil {
		return err
	}
	WriteJSONString(v, w)
	return nil
}

func (t *stringType) CreateColumnBuilder() ColumnBuilder {
	return &stringBuilder{col: NewStringColumn(nil)}
}

type stringBuilder struct {
	col *StringColumn
}

func (b *stringBuilder) Append(v interface{}) error {
	switch val := v.(type) {
	case string:
		b.col.AppendString(val)
	case []byte:
		b.col.AppendBytes(val)
	default:
		return errors.NewCannotParseInputError(fmt.Sprintf("%v as String: expected a string", v))
	}
	return nil
}

func (b *stringBuilder) AppendDefault() { b.col.AppendString("") }
func (b *stringBuilder) Len() int       { return b.col.Size() }
func (b *stringBuilder) Build() Column  { return b.col }

// FixedStringType is the DataType of byte strings of exactly N bytes.
type FixedStringType struct {
	n int
}

func NewFixedStringType(n int) (*FixedStringType, error) {
	if n <= 0 {
		return nil, errors.NewInvalidTypeDefinitionError("FixedString size must be positive")
	}
	return &FixedStringType{n: n}, nil
}

func (t *FixedStringType) Name() string    { return fmt.Sprintf("FixedString(%d)", t.n) }
func (t *FixedStringType) Kind() TypeKind  { return TypeFixedString }
func (t *FixedStringType) IsNumeric() bool { return false }
func (t *FixedStringType) N() int          { return t.n }

func (t *FixedStringType) valueAt(col Column, row int) ([]byte, error) {
	col, row = resolveRow(col, row)
	c, ok := col.(*FixedStringColumn)
	if !ok || c.N() != t.n {
		return nil, incompatibleColumn(col, t)
	}
	return c.At(row), nil
}

func (t *FixedStringType) SerializeText(col Column, row int, w WriteBuffer) error {
	v, err := t.valueAt(col, row)
	if err != nil {
		return err
	}
	_, err = w.Write(v)
	return errors.WithStack(err)
}

func (t *FixedStringType) SerializeTextEscaped(col Column, row int, w WriteBuffer) error {
	v, err := t.valueAt(col, row)
	if err != nil {
		return err
	}
	WriteEscapedString(v, w)
	return nil
}

func (t *FixedStringType) SerializeTextQuoted(col Column, row int, w WriteBuffer) error {
	v, err := t.valueAt(col, row)
	if err != nil {
		return err
	}
	WriteQuotedString(v, w)
	return nil
}

func (t *FixedStringType) SerializeTextJSON(col Column, row int, w WriteBuffer, _ FormatSettings) error {
	v, err := t.valueAt(col, row)
	if err != nil {
		return err
	}
	WriteJSONString(v, w)
	return nil
}

func (t *FixedStringType) CreateColumnBuilder() ColumnBuilder {
	return &fixedStringBuilder{col: NewFixedStringColumn(t.n)}
}

type fixedStringBuilder struct {
	col *FixedStringColumn
}

func (b *fixedStringBuilder) Append(v interface{}) error {
	var data []byte
	switch val := v.(type) {
	case string:
		data = []byte(val)
	case []byte:
		data = val
	default:
		return errors.NewCannotParseInputError(fmt.Sprintf("%v as FixedString(%d): expected a string", v, b.col.N()))
	}
	if len(data) > b.col.N() {
		return errors.NewCannotParseInputError(fmt.Sprintf("too large value for FixedString(%d)", b.col.N()))
	}
	b.col.Append(data)
	return nil
}

func (b *fixedStringBuilder) AppendDefault() { b.col.Append(nil) }
func (b *fixedStringBuilder) Len() int       { return b.col.Size() }
func (b *fixedStringBuilder) Build() Column  { return b.col }
