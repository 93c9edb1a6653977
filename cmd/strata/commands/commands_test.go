package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/squareup/strata/common"
	"github.com/squareup/strata/conf"
	"github.com/squareup/strata/datastreams"
	"github.com/squareup/strata/errors"
	"github.com/stretchr/testify/require"
)

func testEnv(t *testing.T, input string) (*Env, *bytes.Buffer) {
	t.Helper()
	cfg := conf.NewDefaultConfig()
	cfg.OutputFormat = datastreams.FormatTabSeparated
	cfg.MaxBlockSize = 2
	cfg.Tables = []conf.TableConfig{{Name: "hits", Structure: "URL String, EventDate Date, hits UInt32"}}
	require.NoError(t, cfg.Validate())
	var out bytes.Buffer
	env, err := NewEnv(cfg, strings.NewReader(input), &out)
	require.NoError(t, err)
	return env, &out
}

func TestFormat(t *testing.T) {
	env, out := testEnv(t, `{"a": 1, "s": "x"}
{"a": 2, "s": "y\tz"}
{"s": "w"}`)
	cmd := &FormatCommand{Structure: "a UInt8, s String"}
	require.NoError(t, cmd.Run(env))
	require.Equal(t, "1\tx\n2\ty\\tz\n0\tw\n", out.String())
}

func TestFormatTotalsLimitAndExtremes(t *testing.T) {
	env, out := testEnv(t, `{"a": 5} {"a": 1} {"a": 3}`)
	cmd := &FormatCommand{Structure: "a UInt32", Totals: true, Extremes: true, Limit: 2}
	require.NoError(t, cmd.Run(env))
	require.Equal(t, "5\n1\n\n9\n\n1\n5\n", out.String())
}

func TestFormatOutputFormatOverride(t *testing.T) {
	env, out := testEnv(t, `{"a": 5}`)
	cmd := &FormatCommand{Structure: "a UInt32", OutputFormat: datastreams.FormatTabSeparatedWithNamesAndTypes}
	require.NoError(t, cmd.Run(env))
	require.Equal(t, "a\nUInt32\n5\n", out.String())

	cmd.OutputFormat = "XML"
	err := cmd.Run(env)
	require.True(t, errors.HasCode(err, errors.UnknownFormat))
}

func TestFormatInvalidInput(t *testing.T) {
	env, _ := testEnv(t, `{"a": -1}`)
	err := (&FormatCommand{Structure: "a UInt8"}).Run(env)
	require.True(t, errors.HasCode(err, errors.CannotParseInput))

	err = (&FormatCommand{Structure: "a Nope"}).Run(env)
	require.True(t, errors.HasCode(err, errors.UnknownType))
}

func TestWidth(t *testing.T) {
	env, out := testEnv(t, `{"s": "hello", "n": -100, "a": [1, 22]}
{"s": "", "n": 7, "a": []}
{"s": "é", "n": 10, "a": [333]}`)
	cmd := &WidthCommand{Structure: "s String, n Int16, a Array(UInt16)", OutputFormat: datastreams.FormatTabSeparatedWithNamesAndTypes}
	require.NoError(t, cmd.Run(env))
	require.Equal(t, strings.Join([]string{
		"visibleWidth(s)\tvisibleWidth(n)\tvisibleWidth(a)",
		"UInt64\tUInt64\tUInt64",
		"5\t4\t6",
		"0\t1\t2",
		"2\t2\t5",
		"",
	}, "\n"), out.String())
}

func TestCall(t *testing.T) {
	tests := []struct {
		function  string
		arguments []string
		rows      int
		expected  string
	}{
		{"plus", []string{"1", "2"}, 1, "3\n"},
		{"plus", []string{"1", "1"}, 1, "2\n"},
		{"plus", []string{"1.5", "2"}, 1, ""},
		{"currentDatabase", nil, 1, "default\n"},
		{"blockSize", nil, 3, "3\n3\n3\n"},
		{"hasColumnInTable", []string{"'default'", "'hits'", "'URL'"}, 1, "1\n"},
		{"hasColumnInTable", []string{"'default'", "'hits'", "'Referer'"}, 2, "0\n0\n"},
		{"hasColumnInTable", []string{"'default'", "'hits'", "'hits'"}, 1, "1\n"},
		{"visibleWidth", []string{"'hello'"}, 1, "5\n"},
		{"toTypeName", []string{"70000"}, 1, "UInt32\n"},
	}
	for _, tt := range tests {
		t.Run(tt.function+"("+strings.Join(tt.arguments, ", ")+")", func(t *testing.T) {
			env, out := testEnv(t, "")
			err := (&CallCommand{Function: tt.function, Arguments: tt.arguments, Rows: tt.rows}).Run(env)
			if tt.expected == "" {
				require.True(t, errors.HasCode(err, errors.IllegalTypeOfArgument))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, out.String())
		})
	}
}

func TestCallJSONNamesResult(t *testing.T) {
	env, out := testEnv(t, "")
	cmd := &CallCommand{Function: "plus", Arguments: []string{"1", "2"}, OutputFormat: datastreams.FormatJSON}
	require.NoError(t, cmd.Run(env))
	require.Contains(t, out.String(), "\"name\": \"plus(1, 2)\",\n\t\t\t\"type\": \"UInt8\"")
	require.Contains(t, out.String(), "\"plus(1, 2)\": 3")

	out.Reset()
	cmd.Arguments = []string{"7", "7"}
	require.NoError(t, cmd.Run(env))
	require.Contains(t, out.String(), "\"plus(7, 7)\": 14")
}

func TestCallErrors(t *testing.T) {
	env, _ := testEnv(t, "")
	err := (&CallCommand{Function: "nope"}).Run(env)
	require.True(t, errors.HasCode(err, errors.UnknownFunction))

	err = (&CallCommand{Function: "hasColumnInTable", Arguments: []string{"'other'", "'hits'", "'URL'"}, Rows: 1}).Run(env)
	require.True(t, errors.HasCode(err, errors.UnknownDatabase))
}

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		literal string
		typ     common.DataType
		text    string
	}{
		{"1", common.UInt8Type, "1"},
		{"300", common.UInt16Type, "300"},
		{"70000", common.UInt32Type, "70000"},
		{"18446744073709551615", common.UInt64Type, "18446744073709551615"},
		{"-1", common.Int8Type, "-1"},
		{"-200", common.Int16Type, "-200"},
		{"-40000", common.Int32Type, "-40000"},
		{"-3000000000", common.Int64Type, "-3000000000"},
		{"1.5", common.Float64Type, "1.5"},
		{"'x y'", common.StringType, "x y"},
		{"abc", common.StringType, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			res := parseLiteral(tt.literal, 2)
			require.Equal(t, tt.literal, res.Name)
			require.Equal(t, tt.typ.Name(), res.Type.Name())
			require.Equal(t, 2, res.Column.Size())
			require.True(t, res.Column.Kind().IsConst())
			var buf bytes.Buffer
			require.NoError(t, res.Type.SerializeText(res.Column.ConvertToFull(), 1, &buf))
			require.Equal(t, tt.text, buf.String())
		})
	}
}

func TestFunctions(t *testing.T) {
	env, out := testEnv(t, "")
	require.NoError(t, (&FunctionsCommand{}).Run(env))
	names := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Equal(t, env.Factory.Names(), names)
	require.Contains(t, names, "visibleWidth")
}

func TestParseType(t *testing.T) {
	env, out := testEnv(t, "")
	require.NoError(t, (&ParseTypeCommand{Name: "Array(Tuple(UInt8,  String))"}).Run(env))
	require.True(t, strings.HasPrefix(out.String(), "&parser.TypeExpr{"))
	require.True(t, strings.HasSuffix(out.String(), "\nArray(Tuple(UInt8, String))\n"))

	err := (&ParseTypeCommand{Name: "Array("}).Run(env)
	require.True(t, errors.HasCode(err, errors.InvalidTypeDefinition))
}
