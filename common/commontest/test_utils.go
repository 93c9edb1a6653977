package commontest

import (
	"bytes"
	"testing"

	"github.com/squareup/strata/common"
	"github.com/stretchr/testify/require"
)

// Test utils shared by the tests of other packages. They live in a non test file so that those packages can
// import them.

func Field(name string, typ common.DataType, col common.Column) common.ColumnWithTypeAndName {
	return common.ColumnWithTypeAndName{Name: name, Type: typ, Column: col}
}

func NewBlock(t *testing.T, fields ...common.ColumnWithTypeAndName) *common.Block {
	t.Helper()
	block, err := common.NewBlock(fields)
	require.NoError(t, err)
	return block
}

// Strings returns the value of every row of a String or FixedString column.
func Strings(t *testing.T, col common.Column) []string {
	t.Helper()
	var res []string
	switch c := col.(type) {
	case *common.StringColumn:
		for i := 0; i < c.Size(); i++ {
			res = append(res, string(c.At(i)))
		}
	case *common.FixedStringColumn:
		for i := 0; i < c.Size(); i++ {
			res = append(res, string(c.At(i)))
		}
	default:
		require.Failf(t, "not a string column", "got %s", col.Name())
	}
	return res
}

// Numbers returns the values of a vector column of T, expanding constants.
func Numbers[T common.Number](t *testing.T, col common.Column) []T {
	t.Helper()
	v, ok := col.ConvertToFull().(*common.VectorColumn[T])
	require.True(t, ok, "unexpected column %s", col.Name())
	return v.Data()
}

// Serialize writes every row of col with write and returns the results.
func Serialize(t *testing.T, col common.Column, write func(common.Column, int, common.WriteBuffer) error) []string {
	t.Helper()
	res := make([]string, col.Size())
	for i := range res {
		var buf bytes.Buffer
		require.NoError(t, write(col, i, &buf))
		res[i] = buf.String()
	}
	return res
}
