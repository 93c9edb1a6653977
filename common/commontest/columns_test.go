package commontest

import (
	"math"
	"testing"

	"github.com/squareup/strata/common"
	"github.com/stretchr/testify/require"
)

func TestStringColumnLayout(t *testing.T) {
	c := common.NewStringColumn([]string{"ab", "", "c"})
	require.Equal(t, 3, c.Size())
	require.Equal(t, []byte("ab\x00\x00c\x00"), c.Chars())
	require.Equal(t, []uint64{3, 4, 6}, c.Offsets())
	require.Equal(t, []string{"ab", "", "c"}, Strings(t, c))
	require.Equal(t, []string{"", "c"}, Strings(t, c.Cut(1, 2)))
	require.Equal(t, []string{"c", "ab", "c"}, Strings(t, c.Take([]int{2, 0, 2})))
}

func TestFixedStringColumn(t *testing.T) {
	c := common.NewFixedStringColumn(3)
	c.Append([]byte("ab"))
	c.Append([]byte("xyz"))
	require.Equal(t, 2, c.Size())
	require.Equal(t, []byte("ab\x00"), c.At(0))
	require.Equal(t, []string{"xyz"}, Strings(t, c.Cut(1, 1)))
}

func TestArrayColumn(t *testing.T) {
	c := common.NewArrayColumn(common.NewVectorColumn([]uint8{1, 2, 3, 4}), []uint64{1, 1, 4})
	require.Equal(t, 3, c.Size())
	require.Equal(t, uint64(1), c.OffsetAt(2))
	require.Equal(t, []int{1, 0, 3}, []int{c.SizeAt(0), c.SizeAt(1), c.SizeAt(2)})

	cut := c.Cut(1, 2).(*common.ArrayColumn)
	require.Equal(t, []uint64{0, 3}, cut.Offsets())
	require.Equal(t, []uint8{2, 3, 4}, Numbers[uint8](t, cut.Data()))

	taken := c.Take([]int{2, 0}).(*common.ArrayColumn)
	require.Equal(t, []uint64{3, 4}, taken.Offsets())
	require.Equal(t, []uint8{2, 3, 4, 1}, Numbers[uint8](t, taken.Data()))

	empty := c.Cut(0, 0)
	require.Equal(t, 0, empty.Size())
}

func TestTupleColumn(t *testing.T) {
	c := common.NewTupleColumn([]common.Column{
		common.NewVectorColumn([]int32{1, 2}),
		common.NewStringColumn([]string{"a", "b"}),
	})
	require.Equal(t, 2, c.Size())
	require.Equal(t, "ColumnTuple(ColumnInt32, ColumnString)", c.Name())
	cut := c.Cut(1, 1).(*common.TupleColumn)
	require.Equal(t, []int32{2}, Numbers[int32](t, cut.ColumnAt(0)))
	require.Equal(t, []string{"b"}, Strings(t, cut.ColumnAt(1)))
}

func TestConstColumn(t *testing.T) {
	c := common.NewConstString(4, "x")
	require.Equal(t, 4, c.Size())
	require.Equal(t, common.ColumnKindConst, c.Kind())
	require.Equal(t, "ColumnConst(ColumnString)", c.Name())
	require.Equal(t, 1, c.Data().Size())

	s, ok := common.ConstString(c)
	require.True(t, ok)
	require.Equal(t, "x", s)
	_, ok = common.ConstString(common.NewStringColumn([]string{"x"}))
	require.False(t, ok)

	require.Equal(t, []string{"x", "x", "x", "x"}, Strings(t, c.ConvertToFull()))
	require.Equal(t, 2, c.Cut(1, 2).Size())

	n := common.NewConstUInt64(3, 7)
	v, ok := common.ConstValue[uint64](n)
	require.True(t, ok)
	require.Equal(t, uint64(7), v)
	_, ok = common.ConstValue[uint8](n)
	require.False(t, ok)
	require.Equal(t, []uint64{7, 7, 7}, Numbers[uint64](t, n))
}

func TestConstOfCompositeKinds(t *testing.T) {
	arr := common.NewArrayColumn(common.NewVectorColumn([]uint8{1, 2}), []uint64{2})
	require.Equal(t, common.ColumnKindConstArray, common.NewConstColumn(arr, 5).Kind())

	tuple := common.NewTupleColumn([]common.Column{common.NewVectorColumn([]uint8{1})})
	require.Equal(t, common.ColumnKindConstTuple, common.NewConstColumn(tuple, 5).Kind())
	require.True(t, common.ColumnKindConstTuple.IsConst())
	require.False(t, common.ColumnKindTuple.IsConst())

	nested := common.NewConstColumn(common.NewConstUInt8(2, 1), 9)
	_, ok := nested.Data().(*common.VectorColumn[uint8])
	require.True(t, ok)
	require.Equal(t, 9, nested.Size())
}

func TestAggregateStateColumn(t *testing.T) {
	c := common.NewAggregateStateColumn("sum", [][]byte{{1}, {2, 3}})
	require.Equal(t, common.ColumnKindAggregateState, c.Kind())
	require.Equal(t, 3, c.ByteSize())
	require.Equal(t, []byte{2, 3}, c.Take([]int{1}).(*common.AggregateStateColumn).At(0))
}

func TestConcatColumns(t *testing.T) {
	res, err := common.ConcatColumns(common.NewVectorColumn([]int16{1, 2}), common.NewConstNumber[int16](2, 9))
	require.NoError(t, err)
	require.Equal(t, []int16{1, 2, 9, 9}, Numbers[int16](t, res))

	res, err = common.ConcatColumns(common.NewStringColumn([]string{"a"}), common.NewStringColumn([]string{"b", "c"}))
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, Strings(t, res))

	res, err = common.ConcatColumns(
		common.NewArrayColumn(common.NewVectorColumn([]uint8{1, 2}), []uint64{2}),
		common.NewArrayColumn(common.NewVectorColumn([]uint8{3}), []uint64{0, 1}),
	)
	require.NoError(t, err)
	arr := res.(*common.ArrayColumn)
	require.Equal(t, []uint64{2, 2, 3}, arr.Offsets())
	require.Equal(t, []uint8{1, 2, 3}, Numbers[uint8](t, arr.Data()))

	_, err = common.ConcatColumns(common.NewVectorColumn([]uint8{1}), common.NewVectorColumn([]int8{1}))
	require.Error(t, err)
	_, err = common.ConcatColumns()
	require.Error(t, err)
}

func TestExtremesAndSums(t *testing.T) {
	minRow, maxRow, ok := common.ExtremeRows(common.NewVectorColumn([]float64{3, math.NaN(), -1, 8}))
	require.True(t, ok)
	require.Equal(t, 2, minRow)
	require.Equal(t, 3, maxRow)

	minRow, maxRow, ok = common.ExtremeRows(common.NewStringColumn([]string{"b", "a", "c"}))
	require.True(t, ok)
	require.Equal(t, []int{1, 2}, []int{minRow, maxRow})

	_, _, ok = common.ExtremeRows(common.NewVectorColumn([]uint8{}))
	require.False(t, ok)

	sum, ok := common.SumColumn(common.NewVectorColumn([]uint8{200, 100}))
	require.True(t, ok)
	require.Equal(t, []uint8{44}, Numbers[uint8](t, sum))

	sum, ok = common.SumColumn(common.NewConstNumber[int64](4, -3))
	require.True(t, ok)
	require.Equal(t, []int64{-12}, Numbers[int64](t, sum))

	_, ok = common.SumColumn(common.NewStringColumn([]string{"a"}))
	require.False(t, ok)
}
