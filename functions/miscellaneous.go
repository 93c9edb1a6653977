package functions

import (
	"fmt"
	"math"
	"time"

	"github.com/squareup/strata/common"
	"github.com/squareup/strata/errors"
)

func RegisterMiscellaneous(f *Factory) error {
	return registerAll(f, map[string]Creator{
		visibleWidthName:     newVisibleWidth,
		hasColumnInTableName: newHasColumnInTable,
		"currentDatabase": func(ctx *Context) Function {
			return &constFunction{name: "currentDatabase", typ: common.StringType,
				value: func(*common.Block, []common.ColumnWithTypeAndName) common.Column {
					return common.NewStringColumn([]string{ctx.CurrentDatabase})
				}}
		},
		"hostName": func(ctx *Context) Function {
			return &constFunction{name: "hostName", typ: common.StringType,
				value: func(*common.Block, []common.ColumnWithTypeAndName) common.Column {
					return common.NewStringColumn([]string{ctx.HostName})
				}}
		},
		"version": func(ctx *Context) Function {
			return &constFunction{name: "version", typ: common.StringType,
				value: func(*common.Block, []common.ColumnWithTypeAndName) common.Column {
					return common.NewStringColumn([]string{ctx.Version})
				}}
		},
		"uptime": func(ctx *Context) Function {
			return &constFunction{name: "uptime", typ: common.UInt32Type,
				value: func(*common.Block, []common.ColumnWithTypeAndName) common.Column {
					return common.NewVectorColumn([]uint32{uint32(time.Since(ctx.StartTime) / time.Second)})
				}}
		},
		"blockSize": func(*Context) Function {
			return &constFunction{name: "blockSize", typ: common.UInt64Type,
				value: func(block *common.Block, _ []common.ColumnWithTypeAndName) common.Column {
					return common.NewVectorColumn([]uint64{uint64(block.Rows())})
				}}
		},
		"toTypeName": func(*Context) Function {
			return &constFunction{name: "toTypeName", typ: common.StringType, args: 1,
				value: func(_ *common.Block, args []common.ColumnWithTypeAndName) common.Column {
					return common.NewStringColumn([]string{args[0].Type.Name()})
				}}
		},
		"toColumnTypeName": func(*Context) Function {
			return &constFunction{name: "toColumnTypeName", typ: common.StringType, args: 1,
				value: func(_ *common.Block, args []common.ColumnWithTypeAndName) common.Column {
					return common.NewStringColumn([]string{args[0].Column.Name()})
				}}
		},
		"ignore": func(*Context) Function {
			return &constFunction{name: "ignore", typ: common.UInt8Type, args: -1,
				value: func(*common.Block, []common.ColumnWithTypeAndName) common.Column {
					return common.NewVectorColumn([]uint8{0})
				}}
		},
		"materialize": func(*Context) Function {
			return &sameTypeFunction{name: "materialize", apply: func(col common.Column) common.Column {
				return col.ConvertToFull()
			}}
		},
		"identity": func(*Context) Function {
			return &sameTypeFunction{name: "identity", apply: func(col common.Column) common.Column {
				return col
			}}
		},
		"isFinite": func(*Context) Function {
			return &numericPredicate{name: "isFinite", pred: func(x float64) bool {
				return !math.IsInf(x, 0) && !math.IsNaN(x)
			}}
		},
		"isInfinite": func(*Context) Function {
			return &numericPredicate{name: "isInfinite", pred: func(x float64) bool { return math.IsInf(x, 0) }}
		},
		"isNaN": func(*Context) Function {
			return &numericPredicate{name: "isNaN", pred: math.IsNaN}
		},
		"rowNumberInBlock":     func(*Context) Function { return &rowNumberInBlock{} },
		"tuple":                func(*Context) Function { return &tuple{} },
		"tupleElement":         func(*Context) Function { return &tupleElement{} },
		"blockNumber":          func(*Context) Function { return &blockNumber{} },
		"rowNumberInAllBlocks": func(*Context) Function { return &rowNumberInAllBlocks{} },
		"runningDifference":    func(*Context) Function { return &runningDifference{} },
	})
}

// rowsOf is the number of rows a result must have: the size of the first argument, or of the block for
// functions without arguments.
func rowsOf(block *common.Block, arguments []int) int {
	if len(arguments) > 0 {
		return block.GetByPosition(arguments[0]).Column.Size()
	}
	return block.Rows()
}

func argumentsAt(block *common.Block, positions []int) []common.ColumnWithTypeAndName {
	args := make([]common.ColumnWithTypeAndName, len(positions))
	for i, pos := range positions {
		args[i] = *block.GetByPosition(pos)
	}
	return args
}

// constFunction returns the same value for every row. value returns that value as a one row column.
type constFunction struct {
	name string
	typ  common.DataType
	// args is the required number of arguments, -1 for any.
	args  int
	value func(block *common.Block, args []common.ColumnWithTypeAndName) common.Column
}

func (f *constFunction) Name() string {
	return f.name
}

func (f *constFunction) ReturnType(arguments []common.ColumnWithTypeAndName) (common.DataType, error) {
	if f.args >= 0 && len(arguments) != f.args {
		return nil, errors.NewNumberOfArgumentsDoesntMatchError(f.name, len(arguments), f.args)
	}
	return f.typ, nil
}

func (f *constFunction) Execute(block *common.Block, positions []int, result int) error {
	countConst(f.name)
	value := f.value(block, argumentsAt(block, positions))
	block.GetByPosition(result).Column = common.NewConstColumn(value, rowsOf(block, positions))
	return nil
}

// sameTypeFunction maps one argument to a column of the same type.
type sameTypeFunction struct {
	name  string
	apply func(common.Column) common.Column
}

func (f *sameTypeFunction) Name() string {
	return f.name
}

func (f *sameTypeFunction) ReturnType(arguments []common.ColumnWithTypeAndName) (common.DataType, error) {
	if len(arguments) != 1 {
		return nil, errors.NewNumberOfArgumentsDoesntMatchError(f.name, len(arguments), 1)
	}
	return arguments[0].Type, nil
}

func (f *sameTypeFunction) Execute(block *common.Block, arguments []int, result int) error {
	col := block.GetByPosition(arguments[0]).Column
	block.GetByPosition(result).Column = f.apply(col)
	return nil
}

// numericPredicate tests every number of its argument and returns 1 or 0 as UInt8.
type numericPredicate struct {
	name string
	pred func(float64) bool
}

func (f *numericPredicate) Name() string {
	return f.name
}

func (f *numericPredicate) ReturnType(arguments []common.ColumnWithTypeAndName) (common.DataType, error) {
	if len(arguments) != 1 {
		return nil, errors.NewNumberOfArgumentsDoesntMatchError(f.name, len(arguments), 1)
	}
	if !arguments[0].Type.IsNumeric() {
		return nil, errors.NewIllegalTypeOfArgumentError(
			fmt.Sprintf("Illegal type %s of argument of function %s", arguments[0].Type.Name(), f.name))
	}
	return common.UInt8Type, nil
}

var predicateKernels = []func(name string, pred func(float64) bool, col common.Column) (common.Column, bool){
	predicateOf[uint8], predicateOf[uint16], predicateOf[uint32], predicateOf[uint64],
	predicateOf[int8], predicateOf[int16], predicateOf[int32], predicateOf[int64],
	predicateOf[float32], predicateOf[float64],
}

func (f *numericPredicate) Execute(block *common.Block, arguments []int, result int) error {
	col := block.GetByPosition(arguments[0]).Column
	for _, kernel := range predicateKernels {
		if res, ok := kernel(f.name, f.pred, col); ok {
			block.GetByPosition(result).Column = res
			return nil
		}
	}
	return errors.NewIllegalColumnError(col.Name(), f.name)
}

func predicateOf[T common.Number](name string, pred func(float64) bool, col common.Column) (common.Column, bool) {
	values, isConst, ok := numberArgument[T](col)
	if !ok {
		return nil, false
	}
	res := make([]uint8, len(values))
	for i, v := range values {
		if pred(float64(v)) {
			res[i] = 1
		}
	}
	if isConst {
		countConst(name)
		return common.NewConstUInt8(col.Size(), res[0]), true
	}
	countVector(name, len(res))
	return common.NewVectorColumn(res), true
}

// rowNumberInBlock numbers the rows of the block from 0.
type rowNumberInBlock struct{}

func (f *rowNumberInBlock) Name() string {
	return "rowNumberInBlock"
}

func (f *rowNumberInBlock) ReturnType(arguments []common.ColumnWithTypeAndName) (common.DataType, error) {
	if len(arguments) != 0 {
		return nil, errors.NewNumberOfArgumentsDoesntMatchError(f.Name(), len(arguments), 0)
	}
	return common.UInt64Type, nil
}

func (f *rowNumberInBlock) Execute(block *common.Block, _ []int, result int) error {
	rows := block.Rows()
	res := make([]uint64, rows)
	for i := range res {
		res[i] = uint64(i)
	}
	countVector(f.Name(), rows)
	block.GetByPosition(result).Column = common.NewVectorColumn(res)
	return nil
}
