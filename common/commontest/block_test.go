package commontest

import (
	"testing"

	"github.com/squareup/strata/common"
	"github.com/squareup/strata/errors"
	"github.com/stretchr/testify/require"
)

func testBlock(t *testing.T) *common.Block {
	t.Helper()
	return NewBlock(t,
		Field("id", common.UInt32Type, common.NewVectorColumn([]uint32{1, 2, 3})),
		Field("name", common.StringType, common.NewStringColumn([]string{"a", "b", "c"})),
		Field("k", common.UInt8Type, common.NewConstUInt8(3, 4)),
	)
}

func TestBlockLookup(t *testing.T) {
	b := testBlock(t)
	require.Equal(t, 3, b.Columns())
	require.Equal(t, 3, b.Rows())
	require.Equal(t, []string{"id", "name", "k"}, b.Names())
	require.True(t, b.Has("name"))
	require.False(t, b.Has("missing"))

	pos, ok := b.PositionByName("k")
	require.True(t, ok)
	require.Equal(t, 2, pos)

	f, err := b.GetByName("name")
	require.NoError(t, err)
	require.Equal(t, common.StringType, f.Type)

	_, err = b.GetByName("missing")
	require.True(t, errors.HasCode(err, errors.NotFoundColumnInBlock))
	require.Contains(t, err.Error(), "missing")
}

func TestBlockDuplicateName(t *testing.T) {
	_, err := common.NewBlock([]common.ColumnWithTypeAndName{
		Field("a", common.UInt8Type, common.NewVectorColumn([]uint8{1})),
		Field("a", common.UInt8Type, common.NewVectorColumn([]uint8{1})),
	})
	require.True(t, errors.HasCode(err, errors.DuplicateColumn))
}

func TestBlockUnnamedScratchColumns(t *testing.T) {
	var b common.Block
	pos, err := b.Insert(Field("", common.UInt8Type, common.NewVectorColumn([]uint8{1, 2})))
	require.NoError(t, err)
	require.Equal(t, 0, pos)
	pos, err = b.Insert(common.ColumnWithTypeAndName{Type: common.UInt64Type})
	require.NoError(t, err)
	require.Equal(t, 1, pos)
	require.Equal(t, 2, b.Rows())
	require.NoError(t, b.CheckNumberOfRows())
}

func TestBlockCheckNumberOfRows(t *testing.T) {
	b := testBlock(t)
	_, err := b.Insert(Field("short", common.UInt8Type, common.NewVectorColumn([]uint8{1})))
	require.NoError(t, err)
	err = b.CheckNumberOfRows()
	require.True(t, errors.HasCode(err, errors.SizesOfColumnsDontMatch))
}

func TestBlockCutAndMaterialize(t *testing.T) {
	b := testBlock(t)
	cut := b.Cut(1, 2)
	require.Equal(t, 2, cut.Rows())
	require.Equal(t, []uint32{2, 3}, Numbers[uint32](t, cut.GetByPosition(0).Column))
	require.Equal(t, []string{"b", "c"}, Strings(t, cut.GetByPosition(1).Column))
	require.True(t, cut.Has("name"))

	empty := b.CloneEmpty()
	require.Equal(t, 0, empty.Rows())
	require.Equal(t, b.NamesAndTypes(), empty.NamesAndTypes())

	full := b.Materialize()
	_, ok := full.GetByPosition(2).Column.(*common.VectorColumn[uint8])
	require.True(t, ok)
	_, ok = b.GetByPosition(2).Column.(*common.ConstColumn)
	require.True(t, ok)
}

func TestBlockByteSizeAndStructure(t *testing.T) {
	b := testBlock(t)
	require.Equal(t, 12+(6+3*8)+1, b.ByteSize())
	require.Equal(t, "id UInt32 ColumnUInt32(size = 3), name String ColumnString(size = 3), "+
		"k UInt8 ColumnConst(ColumnUInt8)(size = 3)", b.DumpStructure())
}

func TestProgress(t *testing.T) {
	var p common.Progress
	p.Increment(10, 100)
	p.AddTotalRows(50)
	p.IncrementPiecewiseAtomically(common.ProgressValues{Rows: 1, Bytes: 2, TotalRows: 3})
	require.Equal(t, common.ProgressValues{Rows: 11, Bytes: 102, TotalRows: 53}, p.Values())
	require.Equal(t, common.ProgressValues{Rows: 11, Bytes: 102, TotalRows: 53}, p.Fetch())
	require.Equal(t, common.ProgressValues{}, p.Values())
}

func TestProgressConcurrentIncrements(t *testing.T) {
	var p common.Progress
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			for j := 0; j < 1000; j++ {
				p.Increment(1, 2)
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	require.Equal(t, uint64(8000), p.Rows())
	require.Equal(t, uint64(16000), p.Bytes())
}
