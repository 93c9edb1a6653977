package functions

import (
	"math"
	"testing"

	"github.com/squareup/strata/common"
	"github.com/squareup/strata/common/commontest"
	"github.com/squareup/strata/errors"
	"github.com/stretchr/testify/require"
)

// executeTwice runs one instance of the named function on two blocks and returns both results.
func executeTwice(t *testing.T, name string, first *common.Block, second *common.Block, arguments ...int) (common.Column, common.Column) {
	t.Helper()
	f, err := testFactory(t).Get(name)
	require.NoError(t, err)
	var res []common.Column
	for _, b := range []*common.Block{first, second} {
		pos, err := ExecuteOnBlock(f, b, arguments)
		require.NoError(t, err)
		res = append(res, b.GetByPosition(pos).Column)
	}
	return res[0], res[1]
}

func twoRows(t *testing.T) *common.Block {
	return commontest.NewBlock(t, commontest.Field("n", common.UInt8Type, common.NewVectorColumn([]uint8{5, 3})))
}

func TestBlockNumber(t *testing.T) {
	first, second := executeTwice(t, "blockNumber", threeRows(t), twoRows(t))
	require.Equal(t, []uint64{0, 0, 0}, commontest.Numbers[uint64](t, first))
	require.Equal(t, []uint64{1, 1}, commontest.Numbers[uint64](t, second))

	col, typ := call(t, "blockNumber", twoRows(t))
	require.Equal(t, common.UInt64Type, typ)
	require.Equal(t, []uint64{0, 0}, commontest.Numbers[uint64](t, col))
}

func TestRowNumberInAllBlocks(t *testing.T) {
	first, second := executeTwice(t, "rowNumberInAllBlocks", threeRows(t), twoRows(t))
	require.Equal(t, []uint64{0, 1, 2}, commontest.Numbers[uint64](t, first))
	require.Equal(t, []uint64{3, 4}, commontest.Numbers[uint64](t, second))

	f, err := testFactory(t).Get("rowNumberInAllBlocks")
	require.NoError(t, err)
	_, err = f.ReturnType([]common.ColumnWithTypeAndName{{Type: common.UInt8Type}})
	require.True(t, errors.HasCode(err, errors.NumberOfArgumentsDoesntMatch))
}

func TestRunningDifference(t *testing.T) {
	col, typ := call(t, "runningDifference", threeRows(t), 0)
	require.Equal(t, common.Int64Type, typ)
	require.Equal(t, []int64{0, 1, 1}, commontest.Numbers[int64](t, col))

	first, second := executeTwice(t, "runningDifference", twoRows(t), twoRows(t), 0)
	require.Equal(t, []int64{0, -2}, commontest.Numbers[int64](t, first))
	require.Equal(t, []int64{0, -2}, commontest.Numbers[int64](t, second))

	floats := commontest.NewBlock(t, commontest.Field("f", common.Float32Type, common.NewVectorColumn([]float32{1.5, 1, 4})))
	col, typ = call(t, "runningDifference", floats, 0)
	require.Equal(t, common.Float64Type, typ)
	require.Equal(t, []float64{0, -0.5, 3}, commontest.Numbers[float64](t, col))

	col, _ = call(t, "runningDifference", threeRows(t), 1)
	diffs := commontest.Numbers[float64](t, col)
	require.Equal(t, 0.0, diffs[0])
	require.True(t, math.IsInf(diffs[1], -1))
	require.True(t, math.IsNaN(diffs[2]))

	consts := commontest.NewBlock(t, commontest.Field("c", common.UInt64Type, common.NewConstUInt64(3, 9)))
	col, _ = call(t, "runningDifference", consts, 0)
	_, isConst := col.(*common.ConstColumn)
	require.True(t, isConst)
	require.Equal(t, []int64{0, 0, 0}, commontest.Numbers[int64](t, col))

	f, err := testFactory(t).Get("runningDifference")
	require.NoError(t, err)
	_, err = f.ReturnType([]common.ColumnWithTypeAndName{{Type: common.StringType}})
	require.True(t, errors.HasCode(err, errors.IllegalTypeOfArgument))
}
