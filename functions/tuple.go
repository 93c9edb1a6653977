package functions

import (
	"fmt"

	"github.com/squareup/strata/common"
	"github.com/squareup/strata/errors"
)

// tuple(x, y, ...) combines its arguments into one Tuple column. A tuple of constants is a constant tuple.
type tuple struct{}

func (f *tuple) Name() string {
	return "tuple"
}

func (f *tuple) ReturnType(arguments []common.ColumnWithTypeAndName) (common.DataType, error) {
	if len(arguments) == 0 {
		return nil, errors.NewStrataErrorf(errors.NumberOfArgumentsDoesntMatch,
			"Function %s requires at least one argument.", f.Name())
	}
	elems := make([]common.DataType, len(arguments))
	for i, arg := range arguments {
		elems[i] = arg.Type
	}
	typ, err := common.NewTupleType(elems, nil)
	if err != nil {
		return nil, err
	}
	return typ, nil
}

func (f *tuple) Execute(block *common.Block, arguments []int, result int) error {
	cols := make([]common.Column, len(arguments))
	allConst := true
	for i, pos := range arguments {
		cols[i] = block.GetByPosition(pos).Column
		if !cols[i].Kind().IsConst() {
			allConst = false
		}
	}
	if allConst {
		rows := rowsOf(block, arguments)
		values := make([]common.Column, len(cols))
		for i, col := range cols {
			values[i] = col.(*common.ConstColumn).Data()
		}
		countConst(f.Name())
		block.GetByPosition(result).Column = common.NewConstColumn(common.NewTupleColumn(values), rows)
		return nil
	}
	for i, col := range cols {
		cols[i] = col.ConvertToFull()
	}
	countVector(f.Name(), rowsOf(block, arguments))
	block.GetByPosition(result).Column = common.NewTupleColumn(cols)
	return nil
}

// tupleElement(t, n) returns element n, counted from 1, of tuple t. n must be a constant.
type tupleElement struct{}

func (f *tupleElement) Name() string {
	return "tupleElement"
}

func (f *tupleElement) ReturnType(arguments []common.ColumnWithTypeAndName) (common.DataType, error) {
	if len(arguments) != 2 {
		return nil, errors.NewNumberOfArgumentsDoesntMatchError(f.Name(), len(arguments), 2)
	}
	typ, ok := arguments[0].Type.(*common.TupleType)
	if !ok {
		return nil, errors.NewIllegalTypeOfArgumentError(
			fmt.Sprintf("First argument for function %s must be tuple.", f.Name()))
	}
	index, err := f.index(arguments[1].Column, len(typ.Elements()))
	if err != nil {
		return nil, err
	}
	return typ.Elements()[index], nil
}

func (f *tupleElement) index(col common.Column, size int) (int, error) {
	c, ok := col.(*common.ConstColumn)
	if !ok {
		return 0, errors.NewIllegalTypeOfArgumentError(
			fmt.Sprintf("Second argument for function %s must be constant unsigned integer.", f.Name()))
	}
	n, ok := constInteger(c)
	if !ok {
		return 0, errors.NewIllegalTypeOfArgumentError(
			fmt.Sprintf("Second argument for function %s must be constant unsigned integer.", f.Name()))
	}
	if n < 1 || n > int64(size) {
		return 0, errors.NewArgumentOutOfBoundError(
			fmt.Sprintf("Index for tuple element is out of range: %d", n))
	}
	return int(n - 1), nil
}

func (f *tupleElement) Execute(block *common.Block, arguments []int, result int) error {
	col := block.GetByPosition(arguments[0]).Column
	switch c := col.(type) {
	case *common.TupleColumn:
		index, err := f.index(block.GetByPosition(arguments[1]).Column, len(c.Columns()))
		if err != nil {
			return err
		}
		block.GetByPosition(result).Column = c.ColumnAt(index)
		return nil
	case *common.ConstColumn:
		data, ok := c.Data().(*common.TupleColumn)
		if !ok {
			break
		}
		index, err := f.index(block.GetByPosition(arguments[1]).Column, len(data.Columns()))
		if err != nil {
			return err
		}
		block.GetByPosition(result).Column = common.NewConstColumn(data.ColumnAt(index), c.Size())
		return nil
	}
	return errors.NewIllegalColumnError(col.Name(), f.Name())
}

// constInteger reads a constant of any integer type. Unsigned values above the int64 range are not accepted.
func constInteger(c *common.ConstColumn) (int64, bool) {
	switch c.Data().(type) {
	case *common.VectorColumn[uint8]:
		v, _ := common.ConstValue[uint8](c)
		return int64(v), true
	case *common.VectorColumn[uint16]:
		v, _ := common.ConstValue[uint16](c)
		return int64(v), true
	case *common.VectorColumn[uint32]:
		v, _ := common.ConstValue[uint32](c)
		return int64(v), true
	case *common.VectorColumn[uint64]:
		v, _ := common.ConstValue[uint64](c)
		return int64(v), v <= 1<<63-1
	case *common.VectorColumn[int8]:
		v, _ := common.ConstValue[int8](c)
		return int64(v), true
	case *common.VectorColumn[int16]:
		v, _ := common.ConstValue[int16](c)
		return int64(v), true
	case *common.VectorColumn[int32]:
		v, _ := common.ConstValue[int32](c)
		return int64(v), true
	case *common.VectorColumn[int64]:
		return common.ConstValue[int64](c)
	}
	return 0, false
}
