package functions

import (
	"fmt"

	"github.com/squareup/strata/common"
	"github.com/squareup/strata/errors"
)

const plusName = "plus"

// plus adds two numbers of the same type. Integer overflow wraps around. The sum of two constants is a
// constant.
type plus struct{}

func newPlus(*Context) Function {
	return &plus{}
}

func RegisterArithmetic(f *Factory) error {
	return registerAll(f, map[string]Creator{
		plusName: newPlus,
	})
}

func (p *plus) Name() string {
	return plusName
}

func (p *plus) ReturnType(arguments []common.ColumnWithTypeAndName) (common.DataType, error) {
	if len(arguments) != 2 {
		return nil, errors.NewNumberOfArgumentsDoesntMatchError(p.Name(), len(arguments), 2)
	}
	left, right := arguments[0].Type, arguments[1].Type
	if !left.IsNumeric() || !right.IsNumeric() || !common.TypesEqual(left, right) {
		return nil, errors.NewIllegalTypeOfArgumentError(
			fmt.Sprintf("Illegal types %s and %s of arguments of function %s", left.Name(), right.Name(), p.Name()))
	}
	return left, nil
}

// plusKernels are tried in order until one accepts both columns.
var plusKernels = []func(a common.Column, b common.Column) (common.Column, bool){
	plusOf[uint8], plusOf[uint16], plusOf[uint32], plusOf[uint64],
	plusOf[int8], plusOf[int16], plusOf[int32], plusOf[int64],
	plusOf[float32], plusOf[float64],
}

func (p *plus) Execute(block *common.Block, arguments []int, result int) error {
	a := block.GetByPosition(arguments[0]).Column
	b := block.GetByPosition(arguments[1]).Column
	if a.Size() != b.Size() {
		return errors.NewSizesOfColumnsDontMatchError(block.GetByPosition(arguments[1]).Name, b.Size(), a.Size())
	}
	for _, kernel := range plusKernels {
		if res, ok := kernel(a, b); ok {
			block.GetByPosition(result).Column = res
			return nil
		}
	}
	return errors.NewIllegalColumnError(a.Name()+" and "+b.Name(), p.Name())
}

// numberArgument returns the values of a vector or constant column of T. A constant yields one value.
func numberArgument[T common.Number](col common.Column) (values []T, isConst bool, ok bool) {
	switch c := col.(type) {
	case *common.VectorColumn[T]:
		return c.Data(), false, true
	case *common.ConstColumn:
		v, ok := common.ConstValue[T](c)
		if !ok {
			return nil, false, false
		}
		return []T{v}, true, true
	}
	return nil, false, false
}

func plusOf[T common.Number](a common.Column, b common.Column) (common.Column, bool) {
	left, leftConst, ok := numberArgument[T](a)
	if !ok {
		return nil, false
	}
	right, rightConst, ok := numberArgument[T](b)
	if !ok {
		return nil, false
	}
	if leftConst && rightConst {
		countConst(plusName)
		return common.NewConstNumber(a.Size(), left[0]+right[0]), true
	}
	rows := a.Size()
	res := make([]T, rows)
	switch {
	case leftConst:
		for i := range res {
			res[i] = left[0] + right[i]
		}
	case rightConst:
		for i := range res {
			res[i] = left[i] + right[0]
		}
	default:
		for i := range res {
			res[i] = left[i] + right[i]
		}
	}
	countVector(plusName, rows)
	return common.NewVectorColumn(res), true
}
