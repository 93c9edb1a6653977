package functions

import (
	"fmt"

	"github.com/squareup/strata/common"
	"github.com/squareup/strata/errors"
)

const hasColumnInTableName = "hasColumnInTable"

var argumentPositions = []string{"First", "Second", "Third"}

// hasColumnInTable(database, table, column) looks the column up in the catalog. All arguments must be constant
// strings so the lookup happens once per block.
type hasColumnInTable struct {
	catalog Catalog
}

func newHasColumnInTable(ctx *Context) Function {
	return &hasColumnInTable{catalog: ctx.Catalog}
}

func (f *hasColumnInTable) Name() string {
	return hasColumnInTableName
}

func (f *hasColumnInTable) ReturnType(arguments []common.ColumnWithTypeAndName) (common.DataType, error) {
	if len(arguments) != len(argumentPositions) {
		return nil, errors.NewStrataErrorf(errors.NumberOfArgumentsDoesntMatch,
			"Function %s requires exactly three arguments.", f.Name())
	}
	for i, arg := range arguments {
		if _, ok := common.ConstString(arg.Column); !ok {
			return nil, errors.NewIllegalTypeOfArgumentError(
				fmt.Sprintf("%s argument for function %s must be const String.", argumentPositions[i], f.Name()))
		}
	}
	return common.UInt8Type, nil
}

func (f *hasColumnInTable) Execute(block *common.Block, arguments []int, result int) error {
	if len(arguments) != len(argumentPositions) {
		return errors.NewNumberOfArgumentsDoesntMatchError(f.Name(), len(arguments), len(argumentPositions))
	}
	var names [3]string
	for i, pos := range arguments {
		s, ok := common.ConstString(block.GetByPosition(pos).Column)
		if !ok {
			return errors.NewIllegalColumnError(block.GetByPosition(pos).Column.Name(), f.Name())
		}
		names[i] = s
	}
	if f.catalog == nil {
		return errors.NewUnknownDatabaseError(names[0])
	}
	has, err := f.catalog.HasColumn(names[0], names[1], names[2])
	if err != nil {
		return err
	}
	var v uint8
	if has {
		v = 1
	}
	countConst(f.Name())
	block.GetByPosition(result).Column = common.NewConstUInt8(block.Rows(), v)
	return nil
}
