package common

import (
	"fmt"
	"sort"
	"strings"

	"github.com/squareup/strata/errors"
)

// EnumValue is one named member of an enum.
type EnumValue[T int8 | int16] struct {
	Name  string
	Value T
}

// EnumType maps a small set of names onto int8 (Enum8) or int16 (Enum16) values. Columns of an EnumType are
// VectorColumns of the underlying integer.
type EnumType[T int8 | int16] struct {
	kind    TypeKind
	values  []EnumValue[T]
	byValue map[T]string
	byName  map[string]T
}

func NewEnum8Type(values []EnumValue[int8]) (*EnumType[int8], error) {
	return newEnumType(TypeEnum8, values)
}

func NewEnum16Type(values []EnumValue[int16]) (*EnumType[int16], error) {
	return newEnumType(TypeEnum16, values)
}

func newEnumType[T int8 | int16](kind TypeKind, values []EnumValue[T]) (*EnumType[T], error) {
	if len(values) == 0 {
		return nil, errors.NewInvalidTypeDefinitionError("enum must have at least one value")
	}
	t := &EnumType[T]{
		kind:    kind,
		values:  make([]EnumValue[T], len(values)),
		byValue: make(map[T]string, len(values)),
		byName:  make(map[string]T, len(values)),
	}
	copy(t.values, values)
	sort.SliceStable(t.values, func(i, j int) bool { return t.values[i].Value < t.values[j].Value })
	for _, v := range t.values {
		if _, ok := t.byValue[v.Value]; ok {
			return nil, errors.NewInvalidTypeDefinitionError(fmt.Sprintf("duplicate enum value %d", v.Value))
		}
		if _, ok := t.byName[v.Name]; ok {
			return nil, errors.NewInvalidTypeDefinitionError(fmt.Sprintf("duplicate enum name '%s'", v.Name))
		}
		t.byValue[v.Value] = v.Name
		t.byName[v.Name] = v.Value
	}
	return t, nil
}

func (t *EnumType[T]) Name() string {
	var sb strings.Builder
	if t.kind == TypeEnum8 {
		sb.WriteString("Enum8(")
	} else {
		sb.WriteString("Enum16(")
	}
	for i, v := range t.values {
		if i > 0 {
			sb.WriteString(", ")
		}
		WriteQuotedString([]byte(v.Name), &sb)
		fmt.Fprintf(&sb, " = %d", v.Value)
	}
	sb.WriteByte(')')
	return sb.String()
}

func (t *EnumType[T]) Kind() TypeKind         { return t.kind }
func (t *EnumType[T]) IsNumeric() bool        { return false }
func (t *EnumType[T]) Values() []EnumValue[T] { return t.values }

func (t *EnumType[T]) GetNameForValue(v T) (string, error) {
	name, ok := t.byValue[v]
	if !ok {
		return "", errors.NewArgumentOutOfBoundError(fmt.Sprintf("unknown element %d for type %s", v, t.Name()))
	}
	return name, nil
}

func (t *EnumType[T]) GetValue(name string) (T, error) {
	v, ok := t.byName[name]
	if !ok {
		return 0, errors.NewCannotParseInputError(fmt.Sprintf("unknown element '%s' for type %s", name, t.Name()))
	}
	return v, nil
}

func (t *EnumType[T]) nameAt(col Column, row int) ([]byte, error) {
	col, row = resolveRow(col, row)
	c, ok := col.(*VectorColumn[T])
	if !ok {
		return nil, incompatibleColumn(col, t)
	}
	name, err := t.GetNameForValue(c.data[row])
	if err != nil {
		return nil, err
	}
	return []byte(name), nil
}

func (t *EnumType[T]) SerializeText(col Column, row int, w WriteBuffer) error {
	name, err := t.nameAt(col, row)
	if err != nil {
		return err
	}
	_, err = w.Write(name)
	return errors.WithStack(err)
}

func (t *EnumType[T]) SerializeTextEscaped(col Column, row int, w WriteBuffer) error {
	name, err := t.nameAt(col, row)
	if err != nil {
		return err
	}
	WriteEscapedString(name, w)
	return nil
}

func (t *EnumType[T]) SerializeTextQuoted(col Column, row int, w WriteBuffer) error {
	name, err := t.nameAt(col, row)
	if err != nil {
		return err
	}
	WriteQuotedString(name, w)
	return nil
}

func (t *EnumType[T]) SerializeTextJSON(col Column, row int, w WriteBuffer, _ FormatSettings) error {
	name, err := t.nameAt(col, row)
	if err != nil {
		return err
	}
	WriteJSONString(name, w)
	return nil
}

func (t *EnumType[T]) CreateColumnBuilder() ColumnBuilder {
	return &enumBuilder[T]{typ: t}
}

// enumBuilder accepts member names or their numeric values.
type enumBuilder[T int8 | int16] struct {
	typ  *EnumType[T]
	data []T
}

func (b *enumBuilder[T]) Append(v interface{}) error {
	var (
		val T
		err error
	)
	if s, ok := v.(string); ok {
		val, err = b.typ.GetValue(s)
		if err != nil {
			return err
		}
	} else {
		val, err = ParseNumber[T](v, b.typ.kind)
		if err != nil {
			return errors.NewCannotParseInputError(fmt.Sprintf("%v as %s: %v", v, b.typ.Name(), err))
		}
		if _, err := b.typ.GetNameForValue(val); err != nil {
			return err
		}
	}
	b.data = append(b.data, val)
	return nil
}

// AppendDefault appends the smallest member.
func (b *enumBuilder[T]) AppendDefault() { b.data = append(b.data, b.typ.values[0].Value) }
func (b *enumBuilder[T]) Len() int       { return len(b.data) }
func (b *enumBuilder[T]) Build() Column  { return NewVectorColumn(b.data) }
