package common

import (
	"fmt"
	"strings"

	"github.com/squareup/strata/errors"
)

// ArrayType is the DataType of variable length arrays of a nested DataType.
type ArrayType struct {
	nested DataType
}

func NewArrayType(nested DataType) *ArrayType {
	return &ArrayType{nested: nested}
}

func (t *ArrayType) Name() string     { return "Array(" + t.nested.Name() + ")" }
func (t *ArrayType) Kind() TypeKind   { return TypeArray }
func (t *ArrayType) IsNumeric() bool  { return false }
func (t *ArrayType) Nested() DataType { return t.nested }

func (t *ArrayType) arrayAt(col Column, row int) (*ArrayColumn, int, error) {
	col, row = resolveRow(col, row)
	c, ok := col.(*ArrayColumn)
	if !ok {
		return nil, 0, incompatibleColumn(col, t)
	}
	return c, row, nil
}

func (t *ArrayType) serialize(col Column, row int, w WriteBuffer, elem func(Column, int) error) error {
	c, row, err := t.arrayAt(col, row)
	if err != nil {
		return err
	}
	_ = w.WriteByte('[')
	start := c.OffsetAt(row)
	for i := start; i < c.offsets[row]; i++ {
		if i > start {
			_ = w.WriteByte(',')
		}
		if err := elem(c.data, int(i)); err != nil {
			return err
		}
	}
	return errors.WithStack(w.WriteByte(']'))
}

func (t *ArrayType) SerializeText(col Column, row int, w WriteBuffer) error {
	return t.serialize(col, row, w, func(nested Column, i int) error {
		return t.nested.SerializeTextQuoted(nested, i, w)
	})
}

func (t *ArrayType) SerializeTextEscaped(col Column, row int, w WriteBuffer) error {
	return t.SerializeText(col, row, w)
}

func (t *ArrayType) SerializeTextQuoted(col Column, row int, w WriteBuffer) error {
	return t.SerializeText(col, row, w)
}

func (t *ArrayType) SerializeTextJSON(col Column, row int, w WriteBuffer, settings FormatSettings) error {
	return t.serialize(col, row, w, func(nested Column, i int) error {
		return t.nested.SerializeTextJSON(nested, i, w, settings)
	})
}

func (t *ArrayType) CreateColumnBuilder() ColumnBuilder {
	return &arrayBuilder{typ: t, nested: t.nested.CreateColumnBuilder()}
}

type arrayBuilder struct {
	typ     *ArrayType
	nested  ColumnBuilder
	offsets []uint64
}

func (b *arrayBuilder) Append(v interface{}) error {
	elems, ok := v.([]interface{})
	if !ok {
		return errors.NewCannotParseInputError(fmt.Sprintf("%v as %s: expected an array", v, b.typ.Name()))
	}
	for _, e := range elems {
		if err := b.nested.Append(e); err != nil {
			return err
		}
	}
	b.offsets = append(b.offsets, uint64(b.nested.Len()))
	return nil
}

func (b *arrayBuilder) AppendDefault() {
	b.offsets = append(b.offsets, uint64(b.nested.Len()))
}

func (b *arrayBuilder) Len() int { return len(b.offsets) }

func (b *arrayBuilder) Build() Column {
	offsets := b.offsets
	if offsets == nil {
		offsets = []uint64{}
	}
	return NewArrayColumn(b.nested.Build(), offsets)
}

// TupleType is the DataType of fixed size heterogeneous tuples. Element names are optional, when present there
// is one per element.
type TupleType struct {
	elems []DataType
	names []string
}

func NewTupleType(elems []DataType, names []string) (*TupleType, error) {
	if len(elems) == 0 {
		return nil, errors.NewInvalidTypeDefinitionError("tuple must have at least one element")
	}
	if names != nil {
		if len(names) != len(elems) {
			return nil, errors.NewInvalidTypeDefinitionError("tuple element names do not match elements")
		}
		seen := make(map[string]struct{}, len(names))
		for _, name := range names {
			if _, ok := seen[name]; ok {
				return nil, errors.NewDuplicateColumnError(name)
			}
			seen[name] = struct{}{}
		}
	}
	return &TupleType{elems: elems, names: names}, nil
}

func (t *TupleType) Name() string {
	parts := make([]string, len(t.elems))
	for i, e := range t.elems {
		if t.names != nil {
			parts[i] = t.names[i] + " " + e.Name()
		} else {
			parts[i] = e.Name()
		}
	}
	return "Tuple(" + strings.Join(parts, ", ") + ")"
}

func (t *TupleType) Kind() TypeKind       { return TypeTuple }
func (t *TupleType) IsNumeric() bool      { return false }
func (t *TupleType) Elements() []DataType { return t.elems }
func (t *TupleType) ElementNames() []string {
	return t.names
}

func (t *TupleType) serialize(col Column, row int, w WriteBuffer, left, right byte,
	elem func(DataType, Column, int) error) error {
	col, row = resolveRow(col, row)
	c, ok := col.(*TupleColumn)
	if !ok || len(c.columns) != len(t.elems) {
		return incompatibleColumn(col, t)
	}
	_ = w.WriteByte(left)
	for i, e := range t.elems {
		if i > 0 {
			_ = w.WriteByte(',')
		}
		if err := elem(e, c.columns[i], row); err != nil {
			return err
		}
	}
	return errors.WithStack(w.WriteByte(right))
}

func (t *TupleType) SerializeText(col Column, row int, w WriteBuffer) error {
	return t.serialize(col, row, w, '(', ')', func(e DataType, c Column, r int) error {
		return e.SerializeTextQuoted(c, r, w)
	})
}

func (t *TupleType) SerializeTextEscaped(col Column, row int, w WriteBuffer) error {
	return t.SerializeText(col, row, w)
}

func (t *TupleType) SerializeTextQuoted(col Column, row int, w WriteBuffer) error {
	return t.SerializeText(col, row, w)
}

func (t *TupleType) SerializeTextJSON(col Column, row int, w WriteBuffer, settings FormatSettings) error {
	return t.serialize(col, row, w, '[', ']', func(e DataType, c Column, r int) error {
		return e.SerializeTextJSON(c, r, w, settings)
	})
}

func (t *TupleType) CreateColumnBuilder() ColumnBuilder {
	builders := make([]ColumnBuilder, len(t.elems))
	for i, e := range t.elems {
		builders[i] = e.CreateColumnBuilder()
	}
	return &tupleBuilder{typ: t, elems: builders}
}

type tupleBuilder struct {
	typ   *TupleType
	elems []ColumnBuilder
}

func (b *tupleBuilder) Append(v interface{}) error {
	vals, ok := v.([]interface{})
	if !ok || len(vals) != len(b.elems) {
		return errors.NewCannotParseInputError(fmt.Sprintf("%v as %s: expected %d elements", v, b.typ.Name(), len(b.elems)))
	}
	// Validate every element before appending so a failure leaves all element builders the same length.
	for i, val := range vals {
		check := b.typ.elems[i].CreateColumnBuilder()
		if err := check.Append(val); err != nil {
			return err
		}
	}
	for i, val := range vals {
		if err := b.elems[i].Append(val); err != nil {
			return err
		}
	}
	return nil
}

func (b *tupleBuilder) AppendDefault() {
	for _, e := range b.elems {
		e.AppendDefault()
	}
}

func (b *tupleBuilder) Len() int { return b.elems[0].Len() }

func (b *tupleBuilder) Build() Column {
	cols := make([]Column, len(b.elems))
	for i, e := range b.elems {
		cols[i] = e.Build()
	}
	return NewTupleColumn(cols)
}

// AggregateFunctionType is the DataType of serialized partial aggregation states.
type AggregateFunctionType struct {
	function  string
	arguments []DataType
}

func NewAggregateFunctionType(function string, arguments []DataType) *AggregateFunctionType {
	return &AggregateFunctionType{function: function, arguments: arguments}
}

func (t *AggregateFunctionType) Name() string {
	parts := make([]string, 0, len(t.arguments)+1)
	parts = append(parts, t.function)
	for _, a := range t.arguments {
		parts = append(parts, a.Name())
	}
	return "AggregateFunction(" + strings.Join(parts, ", ") + ")"
}

func (t *AggregateFunctionType) Kind() TypeKind   { return TypeAggregateFunction }
func (t *AggregateFunctionType) IsNumeric() bool  { return false }
func (t *AggregateFunctionType) Function() string { return t.function }
func (t *AggregateFunctionType) Arguments() []DataType {
	return t.arguments
}

func (t *AggregateFunctionType) stateAt(col Column, row int) ([]byte, error) {
	col, row = resolveRow(col, row)
	c, ok := col.(*AggregateStateColumn)
	if !ok {
		return nil, incompatibleColumn(col, t)
	}
	return c.At(row), nil
}

func (t *AggregateFunctionType) SerializeText(col Column, row int, w WriteBuffer) error {
	return t.SerializeTextEscaped(col, row, w)
}

func (t *AggregateFunctionType) SerializeTextEscaped(col Column, row int, w WriteBuffer) error {
	state, err := t.stateAt(col, row)
	if err != nil {
		return err
	}
	WriteEscapedString(state, w)
	return nil
}

func (t *AggregateFunctionType) SerializeTextQuoted(col Column, row int, w WriteBuffer) error {
	state, err := t.stateAt(col, row)
	if err != nil {
		return err
	}
	WriteQuotedString(state, w)
	return nil
}

func (t *AggregateFunctionType) SerializeTextJSON(col Column, row int, w WriteBuffer, _ FormatSettings) error {
	state, err := t.stateAt(col, row)
	if err != nil {
		return err
	}
	WriteJSONString(state, w)
	return nil
}

func (t *AggregateFunctionType) CreateColumnBuilder() ColumnBuilder {
	return &aggregateStateBuilder{function: t.function}
}

type aggregateStateBuilder struct {
	function string
	states   [][]byte
}

func (b *aggregateStateBuilder) Append(v interface{}) error {
	switch val := v.(type) {
	case string:
		b.states = append(b.states, []byte(val))
	case []byte:
		b.states = append(b.states, val)
	default:
		return errors.NewCannotParseInputError(fmt.Sprintf("%v as aggregate state: expected a string", v))
	}
	return nil
}

func (b *aggregateStateBuilder) AppendDefault() { b.states = append(b.states, []byte{}) }
func (b *aggregateStateBuilder) Len() int       { return len(b.states) }
func (b *aggregateStateBuilder) Build() Column {
	return NewAggregateStateColumn(b.function, b.states)
}
