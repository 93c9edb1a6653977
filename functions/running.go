package functions

import (
	"fmt"

	"github.com/squareup/strata/common"
	"github.com/squareup/strata/errors"
	"go.uber.org/atomic"
)

// Functions whose result depends on the blocks an instance has already seen. Each call to Factory.Get returns a
// fresh instance, so the state belongs to one query.

// blockNumber returns the sequence number of the block, starting at 0.
type blockNumber struct {
	next atomic.Uint64
}

func (f *blockNumber) Name() string {
	return "blockNumber"
}

func (f *blockNumber) ReturnType(arguments []common.ColumnWithTypeAndName) (common.DataType, error) {
	if len(arguments) != 0 {
		return nil, errors.NewNumberOfArgumentsDoesntMatchError(f.Name(), len(arguments), 0)
	}
	return common.UInt64Type, nil
}

func (f *blockNumber) Execute(block *common.Block, _ []int, result int) error {
	n := f.next.Inc() - 1
	countConst(f.Name())
	block.GetByPosition(result).Column = common.NewConstUInt64(block.Rows(), n)
	return nil
}

// rowNumberInAllBlocks numbers rows from 0 across every block the instance executes on.
type rowNumberInAllBlocks struct {
	rows atomic.Uint64
}

func (f *rowNumberInAllBlocks) Name() string {
	return "rowNumberInAllBlocks"
}

func (f *rowNumberInAllBlocks) ReturnType(arguments []common.ColumnWithTypeAndName) (common.DataType, error) {
	if len(arguments) != 0 {
		return nil, errors.NewNumberOfArgumentsDoesntMatchError(f.Name(), len(arguments), 0)
	}
	return common.UInt64Type, nil
}

func (f *rowNumberInAllBlocks) Execute(block *common.Block, _ []int, result int) error {
	rows := block.Rows()
	start := f.rows.Add(uint64(rows)) - uint64(rows)
	res := make([]uint64, rows)
	for i := range res {
		res[i] = start + uint64(i)
	}
	countVector(f.Name(), rows)
	block.GetByPosition(result).Column = common.NewVectorColumn(res)
	return nil
}

// runningDifference returns the difference between each value and the previous one of the same block, 0 for the
// first row. Integers give Int64, floats give Float64.
type runningDifference struct{}

func (f *runningDifference) Name() string {
	return "runningDifference"
}

func (f *runningDifference) ReturnType(arguments []common.ColumnWithTypeAndName) (common.DataType, error) {
	if len(arguments) != 1 {
		return nil, errors.NewNumberOfArgumentsDoesntMatchError(f.Name(), len(arguments), 1)
	}
	typ := arguments[0].Type
	if !typ.IsNumeric() {
		return nil, errors.NewIllegalTypeOfArgumentError(
			fmt.Sprintf("Illegal type %s of argument of function %s", typ.Name(), f.Name()))
	}
	if common.TypesEqual(typ, common.Float32Type) || common.TypesEqual(typ, common.Float64Type) {
		return common.Float64Type, nil
	}
	return common.Int64Type, nil
}

var differenceKernels = []func(col common.Column) (common.Column, bool){
	differenceOf[uint8, int64], differenceOf[uint16, int64], differenceOf[uint32, int64], differenceOf[uint64, int64],
	differenceOf[int8, int64], differenceOf[int16, int64], differenceOf[int32, int64], differenceOf[int64, int64],
	differenceOf[float32, float64], differenceOf[float64, float64],
}

func (f *runningDifference) Execute(block *common.Block, arguments []int, result int) error {
	col := block.GetByPosition(arguments[0]).Column
	for _, kernel := range differenceKernels {
		if res, ok := kernel(col); ok {
			if _, isConst := res.(*common.ConstColumn); isConst {
				countConst(f.Name())
			} else {
				countVector(f.Name(), res.Size())
			}
			block.GetByPosition(result).Column = res
			return nil
		}
	}
	return errors.NewIllegalColumnError(col.Name(), f.Name())
}

// differenceOf computes in R, so unsigned values that decrease give negative differences.
func differenceOf[T common.Number, R int64 | float64](col common.Column) (common.Column, bool) {
	values, isConst, ok := numberArgument[T](col)
	if !ok {
		return nil, false
	}
	if isConst {
		return common.NewConstNumber(col.Size(), R(0)), true
	}
	res := make([]R, len(values))
	for i := 1; i < len(values); i++ {
		res[i] = R(values[i]) - R(values[i-1])
	}
	return common.NewVectorColumn(res), true
}
