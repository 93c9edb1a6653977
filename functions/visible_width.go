package functions

import (
	"bytes"
	"fmt"

	"github.com/squareup/strata/common"
	"github.com/squareup/strata/errors"
)

const (
	visibleWidthName = "visibleWidth"

	// aggregateStateWidth is only used to size the display of opaque aggregate states, it is not their real width.
	aggregateStateWidth = 10
)

// visibleWidth returns the number of bytes a value takes when written as text in a Pretty format.
type visibleWidth struct {
	plus     Function
	handlers []widthHandler
}

// NewVisibleWidth returns visibleWidth for callers that size output without a Factory.
func NewVisibleWidth() Function {
	return newVisibleWidth(nil)
}

func newVisibleWidth(*Context) Function {
	return &visibleWidth{
		plus: &plus{},
		handlers: []widthHandler{
			temporalWidth,
			enumWidth,
			constNumberWidth,
			vectorNumberWidth,
			stringWidth,
			arrayWidth,
			tupleWidth,
			constCompositeWidth,
			aggregateStateWidthHandler,
		},
	}
}

// widthHandler computes the width column for one family of types or column representations. It returns
// ok = false when the argument is not its concern. Handlers are tried in order and the first that accepts the
// argument produces the result.
type widthHandler func(f *visibleWidth, typ common.DataType, col common.Column) (res common.Column, ok bool, err error)

func (f *visibleWidth) Name() string {
	return visibleWidthName
}

func (f *visibleWidth) ReturnType(arguments []common.ColumnWithTypeAndName) (common.DataType, error) {
	if len(arguments) != 1 {
		return nil, errors.NewNumberOfArgumentsDoesntMatchError(f.Name(), len(arguments), 1)
	}
	return common.UInt64Type, nil
}

func (f *visibleWidth) Execute(block *common.Block, arguments []int, result int) error {
	arg := block.GetByPosition(arguments[0])
	typ, col := arg.Type, arg.Column
	for _, handler := range f.handlers {
		res, ok, err := handler(f, typ, col)
		if err != nil {
			return err
		}
		if ok {
			block.GetByPosition(result).Column = res
			return nil
		}
	}
	return errors.NewIllegalColumnError(col.Name(), f.Name())
}

func constWidth(size int, width uint64) common.Column {
	countConst(visibleWidthName)
	return common.NewConstUInt64(size, width)
}

func vectorWidth(widths []uint64) common.Column {
	countVector(visibleWidthName, len(widths))
	return common.NewVectorColumn(widths)
}

func temporalWidth(_ *visibleWidth, typ common.DataType, col common.Column) (common.Column, bool, error) {
	switch typ.Kind() {
	case common.TypeDate:
		return constWidth(col.Size(), uint64(common.DateTextWidth)), true, nil
	case common.TypeDateTime:
		return constWidth(col.Size(), uint64(common.DateTimeTextWidth)), true, nil
	}
	return nil, false, nil
}

func enumWidth(_ *visibleWidth, typ common.DataType, col common.Column) (common.Column, bool, error) {
	switch t := typ.(type) {
	case *common.EnumType[int8]:
		return enumWidthOf(t, col)
	case *common.EnumType[int16]:
		return enumWidthOf(t, col)
	}
	return nil, false, nil
}

func enumWidthOf[T int8 | int16](typ *common.EnumType[T], col common.Column) (common.Column, bool, error) {
	switch c := col.(type) {
	case *common.VectorColumn[T]:
		data := c.Data()
		widths := make([]uint64, len(data))
		for i, v := range data {
			name, err := typ.GetNameForValue(v)
			if err != nil {
				return nil, false, err
			}
			widths[i] = uint64(len(name))
		}
		return vectorWidth(widths), true, nil
	case *common.ConstColumn:
		v, ok := common.ConstValue[T](c)
		if !ok {
			return nil, false, nil
		}
		name, err := typ.GetNameForValue(v)
		if err != nil {
			return nil, false, err
		}
		return constWidth(c.Size(), uint64(len(name))), true, nil
	}
	return nil, false, nil
}

func constNumberWidth(_ *visibleWidth, _ common.DataType, col common.Column) (common.Column, bool, error) {
	c, ok := col.(*common.ConstColumn)
	if !ok {
		return nil, false, nil
	}
	widths, ok, err := numberWidths(c.Data())
	if !ok || err != nil {
		return nil, ok, err
	}
	return constWidth(c.Size(), widths[0]), true, nil
}

func vectorNumberWidth(_ *visibleWidth, _ common.DataType, col common.Column) (common.Column, bool, error) {
	widths, ok, err := numberWidths(col)
	if !ok || err != nil {
		return nil, ok, err
	}
	return vectorWidth(widths), true, nil
}

func stringWidth(_ *visibleWidth, _ common.DataType, col common.Column) (common.Column, bool, error) {
	switch c := col.(type) {
	case *common.StringColumn:
		widths := make([]uint64, c.Size())
		for i := range widths {
			widths[i] = uint64(len(c.At(i)))
		}
		return vectorWidth(widths), true, nil
	case *common.FixedStringColumn:
		widths := make([]uint64, c.Size())
		for i := range widths {
			widths[i] = uint64(c.N())
		}
		return vectorWidth(widths), true, nil
	case *common.ConstColumn:
		switch data := c.Data().(type) {
		case *common.StringColumn:
			return constWidth(c.Size(), uint64(len(data.At(0)))), true, nil
		case *common.FixedStringColumn:
			return constWidth(c.Size(), uint64(data.N())), true, nil
		}
	}
	return nil, false, nil
}

// arrayWidth computes the widths of all elements with a recursive call on a block holding only the flattened
// elements, then adds them up per row: '[' plus one ',' or ']' per element, or "[]" for an empty array.
func arrayWidth(f *visibleWidth, typ common.DataType, col common.Column) (common.Column, bool, error) {
	c, ok := col.(*common.ArrayColumn)
	if !ok {
		return nil, false, nil
	}
	arrType, ok := typ.(*common.ArrayType)
	if !ok {
		return nil, false, errors.NewIllegalTypeOfArgumentError(
			fmt.Sprintf("column %s has type %s, expected an array type", col.Name(), typ.Name()))
	}

	nested, err := common.NewBlock([]common.ColumnWithTypeAndName{
		{Column: c.Data(), Type: arrType.Nested()},
		{Type: common.UInt64Type},
	})
	if err != nil {
		return nil, false, err
	}
	if err := f.Execute(nested, []int{0}, 1); err != nil {
		return nil, false, err
	}

	var quotes uint64
	if isQuotedInComposite(arrType.Nested()) {
		quotes = 2
	}
	rows := c.Size()
	offsets := c.Offsets()
	widths := make([]uint64, rows)

	switch nestedRes := nested.GetByPosition(1).Column.(type) {
	case *common.VectorColumn[uint64]:
		elemWidths := nestedRes.Data()
		j := uint64(0)
		for i := 0; i < rows; i++ {
			if j == offsets[i] {
				widths[i] = 2
			} else {
				widths[i] = 1
			}
			for ; j < offsets[i]; j++ {
				widths[i] += 1 + quotes + elemWidths[j]
			}
		}
	case *common.ConstColumn:
		elemWidth, ok := common.ConstValue[uint64](nestedRes)
		if !ok {
			return nil, false, errors.NewIllegalColumnError(nestedRes.Name(), visibleWidthName)
		}
		nestedLength := elemWidth + quotes + 1
		for i := 0; i < rows; i++ {
			widths[i] = 1 + maxUint64(1, uint64(c.SizeAt(i))*nestedLength)
		}
	default:
		return nil, false, errors.NewIllegalColumnError(nestedRes.Name(), visibleWidthName)
	}
	return vectorWidth(widths), true, nil
}

func maxUint64(a uint64, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

// tupleWidth computes the width of every element with a recursive call and folds them with plus, in order, in
// a scratch block laid out as x1, x2, ..., width1, width2, width1 + width2, width3, width1 + width2 + width3, ...
// Parentheses, commas and quotes are added to the final sum.
func tupleWidth(f *visibleWidth, typ common.DataType, col common.Column) (common.Column, bool, error) {
	c, ok := col.(*common.TupleColumn)
	if !ok {
		return nil, false, nil
	}
	tupleType, ok := typ.(*common.TupleType)
	if !ok || len(tupleType.Elements()) != len(c.Columns()) || len(c.Columns()) == 0 {
		return nil, false, errors.NewIllegalTypeOfArgumentError(
			fmt.Sprintf("column %s has type %s, expected a matching tuple type", col.Name(), typ.Name()))
	}

	elems := tupleType.Elements()
	nested := &common.Block{}
	for i, elemCol := range c.Columns() {
		if _, err := nested.Insert(common.ColumnWithTypeAndName{Column: elemCol, Type: elems[i]}); err != nil {
			return nil, false, err
		}
	}
	for i := range elems {
		widthPos, err := nested.Insert(common.ColumnWithTypeAndName{Type: common.UInt64Type})
		if err != nil {
			return nil, false, err
		}
		if err := f.Execute(nested, []int{i}, widthPos); err != nil {
			return nil, false, err
		}
		if i != 0 {
			sumPos, err := nested.Insert(common.ColumnWithTypeAndName{Type: common.UInt64Type})
			if err != nil {
				return nil, false, err
			}
			if err := f.plus.Execute(nested, []int{sumPos - 2, sumPos - 1}, sumPos); err != nil {
				return nil, false, err
			}
		}
	}

	extra := uint64(2 + len(elems) - 1)
	for _, e := range elems {
		if isQuotedInComposite(e) {
			extra += 2
		}
	}

	switch sum := nested.GetByPosition(nested.Columns() - 1).Column.(type) {
	case *common.ConstColumn:
		w, ok := common.ConstValue[uint64](sum)
		if !ok {
			return nil, false, errors.NewIllegalColumnError(sum.Name(), visibleWidthName)
		}
		return constWidth(sum.Size(), w+extra), true, nil
	case *common.VectorColumn[uint64]:
		sums := sum.Data()
		widths := make([]uint64, len(sums))
		for i, w := range sums {
			widths[i] = w + extra
		}
		return vectorWidth(widths), true, nil
	default:
		return nil, false, errors.NewIllegalColumnError(sum.Name(), visibleWidthName)
	}
}

// constCompositeWidth writes the single value of a constant array or tuple and measures it.
func constCompositeWidth(_ *visibleWidth, typ common.DataType, col common.Column) (common.Column, bool, error) {
	kind := col.Kind()
	if kind != common.ColumnKindConstArray && kind != common.ColumnKindConstTuple {
		return nil, false, nil
	}
	var buf bytes.Buffer
	if err := typ.SerializeTextEscaped(col.Cut(0, 1).ConvertToFull(), 0, &buf); err != nil {
		return nil, false, err
	}
	return constWidth(col.Size(), uint64(buf.Len())), true, nil
}

func aggregateStateWidthHandler(_ *visibleWidth, _ common.DataType, col common.Column) (common.Column, bool, error) {
	if _, ok := col.(*common.AggregateStateColumn); !ok {
		return nil, false, nil
	}
	return constWidth(col.Size(), aggregateStateWidth), true, nil
}
