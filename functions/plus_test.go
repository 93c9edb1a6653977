package functions

import (
	"math"
	"testing"

	"github.com/squareup/strata/common"
	"github.com/squareup/strata/common/commontest"
	"github.com/squareup/strata/errors"
	"github.com/stretchr/testify/require"
)

func executePlus(t *testing.T, typ common.DataType, a common.Column, b common.Column) common.Column {
	t.Helper()
	block := commontest.NewBlock(t, commontest.Field("a", typ, a), commontest.Field("b", typ, b))
	pos, err := ExecuteOnBlock(&plus{}, block, []int{0, 1})
	require.NoError(t, err)
	require.Equal(t, typ, block.GetByPosition(pos).Type)
	return block.GetByPosition(pos).Column
}

func TestPlusVectors(t *testing.T) {
	res := executePlus(t, common.UInt8Type, common.NewVectorColumn([]uint8{1, 255}), common.NewVectorColumn([]uint8{2, 1}))
	require.Equal(t, []uint8{3, 0}, commontest.Numbers[uint8](t, res))

	res = executePlus(t, common.Float64Type, common.NewVectorColumn([]float64{0.5, math.Inf(1)}), common.NewConstNumber(2, 1.0))
	require.Equal(t, []float64{1.5, math.Inf(1)}, commontest.Numbers[float64](t, res))

	res = executePlus(t, common.Int64Type, common.NewConstNumber[int64](2, -1), common.NewVectorColumn([]int64{1, 2}))
	require.Equal(t, []int64{0, 1}, commontest.Numbers[int64](t, res))
}

func TestPlusConstantsStayConstant(t *testing.T) {
	res := executePlus(t, common.UInt64Type, common.NewConstUInt64(1000, 2), common.NewConstUInt64(1000, 3))
	c, ok := res.(*common.ConstColumn)
	require.True(t, ok)
	require.Equal(t, 1000, c.Size())
	v, _ := common.ConstValue[uint64](c)
	require.Equal(t, uint64(5), v)
}

func TestPlusTypeErrors(t *testing.T) {
	p := &plus{}
	_, err := p.ReturnType([]common.ColumnWithTypeAndName{{Type: common.UInt8Type}})
	require.True(t, errors.HasCode(err, errors.NumberOfArgumentsDoesntMatch))

	_, err = p.ReturnType([]common.ColumnWithTypeAndName{{Type: common.UInt8Type}, {Type: common.UInt16Type}})
	require.True(t, errors.HasCode(err, errors.IllegalTypeOfArgument))
	require.Equal(t, "STR0002 - Illegal types UInt8 and UInt16 of arguments of function plus", err.Error())

	_, err = p.ReturnType([]common.ColumnWithTypeAndName{{Type: common.StringType}, {Type: common.StringType}})
	require.True(t, errors.HasCode(err, errors.IllegalTypeOfArgument))
}

func TestPlusSizeMismatch(t *testing.T) {
	var block common.Block
	_, err := block.Insert(commontest.Field("a", common.UInt8Type, common.NewVectorColumn([]uint8{1, 2})))
	require.NoError(t, err)
	_, err = block.Insert(commontest.Field("b", common.UInt8Type, common.NewVectorColumn([]uint8{1})))
	require.NoError(t, err)
	_, err = ExecuteOnBlock(&plus{}, &block, []int{0, 1})
	require.True(t, errors.HasCode(err, errors.SizesOfColumnsDontMatch))
}
