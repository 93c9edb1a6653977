package datastreams

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/squareup/strata/common"
	"github.com/squareup/strata/common/parser"
	"github.com/squareup/strata/errors"
	"github.com/stretchr/testify/require"
)

func numbersBlock(t *testing.T, values ...uint8) *common.Block {
	t.Helper()
	return block(t, common.ColumnWithTypeAndName{Name: "a", Type: common.UInt8Type, Column: common.NewVectorColumn(values)})
}

func readAll(t *testing.T, in BlockInputStream) []*common.Block {
	t.Helper()
	var blocks []*common.Block
	for {
		b, err := in.Read(context.Background())
		require.NoError(t, err)
		if b == nil {
			return blocks
		}
		blocks = append(blocks, b)
	}
}

func TestTabSeparated(t *testing.T) {
	b := block(t,
		common.ColumnWithTypeAndName{Name: "a", Type: common.UInt8Type, Column: common.NewVectorColumn([]uint8{1, 2})},
		common.ColumnWithTypeAndName{Name: "s", Type: common.StringType, Column: common.NewStringColumn([]string{"x\ty", "it's"})},
	)
	var buf bytes.Buffer
	out, err := NewBlockOutputStream(FormatTabSeparatedWithNamesAndTypes, &buf, b.NamesAndTypes(), Settings{})
	require.NoError(t, err)
	require.NoError(t, CopyData(context.Background(), NewBlocksInputStream(b), out))
	require.Equal(t, "a\ts\nUInt8\tString\n1\tx\\ty\n2\tit\\'s\n", buf.String())
}

func TestTabSeparatedTotalsAndExtremes(t *testing.T) {
	in := NewTotalsAndExtremesInputStream(NewBlocksInputStream(numbersBlock(t, 5, 1), numbersBlock(t, 3)), true, true)
	var buf bytes.Buffer
	out, err := NewBlockOutputStream(FormatTabSeparated, &buf, numbersBlock(t).NamesAndTypes(), Settings{})
	require.NoError(t, err)
	require.NoError(t, CopyData(context.Background(), in, out))
	require.Equal(t, "5\n1\n3\n\n9\n\n1\n5\n", buf.String())
}

func TestPrettyCompact(t *testing.T) {
	b := block(t,
		common.ColumnWithTypeAndName{Name: "a", Type: common.UInt8Type, Column: common.NewVectorColumn([]uint8{1, 10})},
		common.ColumnWithTypeAndName{Name: "s", Type: common.StringType, Column: common.NewStringColumn([]string{"x", "hello"})},
	)
	var buf bytes.Buffer
	out, err := NewBlockOutputStream(FormatPrettyCompact, &buf, b.NamesAndTypes(), Settings{PrettyColor: true})
	require.NoError(t, err)
	require.NoError(t, CopyData(context.Background(), NewBlocksInputStream(b), out))
	expected := strings.Join([]string{
		"┌──a─┬─s─────┐",
		"│  1 │ x     │",
		"│ 10 │ hello │",
		"└────┴───────┘",
		"",
	}, "\n")
	requireSameText(t, expected, buf.String())
}

func TestPrettyCompactMaxRowsAndTotals(t *testing.T) {
	in := NewTotalsAndExtremesInputStream(NewBlocksInputStream(numbersBlock(t, 7, 8), numbersBlock(t, 9)), true, false)
	var buf bytes.Buffer
	out, err := NewBlockOutputStream(FormatPrettyCompact, &buf, nil, Settings{PrettyMaxRows: 1})
	require.NoError(t, err)
	require.NoError(t, CopyData(context.Background(), in, out))
	expected := strings.Join([]string{
		"┌─a─┐",
		"│ 7 │",
		"└───┘",
		"  Showed first 1.",
		"",
		"Totals:",
		"┌──a─┐",
		"│ 24 │",
		"└────┘",
		"",
	}, "\n")
	requireSameText(t, expected, buf.String())
}

func TestPrettyCompactConstAndArray(t *testing.T) {
	header, err := parser.ParseStructure("arr Array(String), c String")
	require.NoError(t, err)
	b := block(t,
		common.ColumnWithTypeAndName{Name: "arr", Type: header[0].Type,
			Column: common.NewArrayColumn(common.NewStringColumn([]string{"ab"}), []uint64{0, 1})},
		common.ColumnWithTypeAndName{Name: "c", Type: header[1].Type, Column: common.NewConstString(2, "const")},
	)
	var buf bytes.Buffer
	out, err := NewBlockOutputStream(FormatPrettyCompact, &buf, header, Settings{})
	require.NoError(t, err)
	require.NoError(t, CopyData(context.Background(), NewBlocksInputStream(b), out))
	expected := strings.Join([]string{
		"┌─arr────┬─c─────┐",
		"│ []     │ const │",
		"│ ['ab'] │ const │",
		"└────────┴───────┘",
		"",
	}, "\n")
	requireSameText(t, expected, buf.String())
}

func TestUnknownFormat(t *testing.T) {
	_, err := NewBlockOutputStream("XML", &bytes.Buffer{}, nil, Settings{})
	require.True(t, errors.HasCode(err, errors.UnknownFormat))
	require.False(t, IsFormat("XML"))
	require.True(t, IsFormat(FormatJSON))
	require.Equal(t, []string{FormatJSON, FormatPrettyCompact, FormatTabSeparated, FormatTabSeparatedWithNamesAndTypes}, Formats())
}

func TestJSONEachRowInput(t *testing.T) {
	header, err := parser.ParseStructure("a UInt8, s String, arr Array(UInt16)")
	require.NoError(t, err)
	input := `{"a": 1, "s": "one", "arr": [1, 2]}
{"s": "two"}
{"a": 3, "arr": []}
`
	in := NewJSONEachRowInputStream(strings.NewReader(input), header, 2)
	blocks := readAll(t, in)
	require.Len(t, blocks, 2)
	require.Equal(t, 2, blocks[0].Rows())
	require.Equal(t, 1, blocks[1].Rows())

	a := blocks[0].GetByPosition(0).Column.(*common.VectorColumn[uint8])
	require.Equal(t, []uint8{1, 0}, a.Data())
	s := blocks[0].GetByPosition(1).Column.(*common.StringColumn)
	require.Equal(t, "two", string(s.At(1)))
	arr := blocks[0].GetByPosition(2).Column.(*common.ArrayColumn)
	require.Equal(t, []uint64{2, 2}, arr.Offsets())

	progress := in.Info().Progress
	require.Equal(t, uint64(3), progress.Rows())
	require.Equal(t, uint64(len(input)), progress.Bytes())
}

func TestJSONEachRowInputErrors(t *testing.T) {
	header, err := parser.ParseStructure("a UInt8")
	require.NoError(t, err)

	for _, input := range []string{`{"b": 1}`, `{"a": 300}`, `{"a": "x"}`, `{"a": }`} {
		in := NewJSONEachRowInputStream(strings.NewReader(input), header, 0)
		_, err := in.Read(context.Background())
		require.Error(t, err, input)
		require.True(t, errors.HasCode(err, errors.CannotParseInput), input)
	}
}

func TestTotalsAndExtremes(t *testing.T) {
	mk := func(a []int32, s []string) *common.Block {
		return block(t,
			common.ColumnWithTypeAndName{Name: "a", Type: common.Int32Type, Column: common.NewVectorColumn(a)},
			common.ColumnWithTypeAndName{Name: "s", Type: common.StringType, Column: common.NewStringColumn(s)},
		)
	}
	in := NewTotalsAndExtremesInputStream(NewBlocksInputStream(mk([]int32{4, -2}, []string{"m", "b"}), mk([]int32{10}, []string{"z"})), true, true)
	require.Len(t, readAll(t, in), 2)

	info := in.Info()
	require.Equal(t, []int32{12}, info.Totals.GetByPosition(0).Column.(*common.VectorColumn[int32]).Data())
	require.Equal(t, "", string(info.Totals.GetByPosition(1).Column.(*common.StringColumn).At(0)))

	require.Equal(t, []int32{-2, 10}, info.Extremes.GetByPosition(0).Column.(*common.VectorColumn[int32]).Data())
	s := info.Extremes.GetByPosition(1).Column.(*common.StringColumn)
	require.Equal(t, "b", string(s.At(0)))
	require.Equal(t, "z", string(s.At(1)))
}

func TestTotalsOfConstColumn(t *testing.T) {
	b := block(t, common.ColumnWithTypeAndName{Name: "c", Type: common.UInt64Type, Column: common.NewConstUInt64(3, 5)})
	in := NewTotalsAndExtremesInputStream(NewBlocksInputStream(b), true, true)
	readAll(t, in)
	info := in.Info()
	require.Equal(t, []uint64{15}, info.Totals.GetByPosition(0).Column.(*common.VectorColumn[uint64]).Data())
	require.Equal(t, []uint64{5, 5}, info.Extremes.GetByPosition(0).Column.(*common.VectorColumn[uint64]).Data())
}

func TestLimit(t *testing.T) {
	in := NewLimitInputStream(NewBlocksInputStream(numbersBlock(t, 1, 2), numbersBlock(t, 3, 4), numbersBlock(t, 5, 6)), 3)
	blocks := readAll(t, in)
	require.Len(t, blocks, 2)
	require.Equal(t, 2, blocks[0].Rows())
	require.Equal(t, []uint8{3}, blocks[1].GetByPosition(0).Column.(*common.VectorColumn[uint8]).Data())

	info := in.Info()
	require.True(t, info.AppliedLimit)
	require.Equal(t, uint64(6), info.RowsBeforeLimit)
}

func TestLimitReportedInJSON(t *testing.T) {
	in := NewLimitInputStream(NewBlocksInputStream(numbersBlock(t, 1, 2, 3)), 1)
	var buf bytes.Buffer
	out, err := NewBlockOutputStream(FormatJSON, &buf, numbersBlock(t).NamesAndTypes(), Settings{})
	require.NoError(t, err)
	require.NoError(t, CopyData(context.Background(), in, out))
	require.True(t, strings.HasSuffix(buf.String(), "\t\"rows\": 1,\n\n\t\"rows_before_limit_at_least\": 3\n}\n"))
}

func TestCopyDataStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	out, err := NewBlockOutputStream(FormatTabSeparated, &buf, numbersBlock(t).NamesAndTypes(), Settings{})
	require.NoError(t, err)
	err = CopyData(ctx, NewBlocksInputStream(numbersBlock(t, 1)), out)
	require.ErrorIs(t, err, context.Canceled)
}
