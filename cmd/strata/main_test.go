package main

import (
	"bytes"
	"io/fs"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/squareup/strata/errors"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, config string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "strata.conf")
	require.NoError(t, ioutil.WriteFile(name, []byte(config), fs.ModePerm))
	return name
}

func TestRunFormatWithConfig(t *testing.T) {
	config := writeConfig(t, `{
  // rows are written tab separated
  "output_format": "TabSeparated"
}`)
	var out bytes.Buffer
	err := run([]string{"--conf", config, "format", "--structure", "a UInt8, b String"},
		strings.NewReader(`{"a": 1, "b": "x"} {"a": 2, "b": "y"}`), &out)
	require.NoError(t, err)
	require.Equal(t, "1\tx\n2\ty\n", out.String())
}

func TestRunCallWithCatalog(t *testing.T) {
	config := writeConfig(t, `{
  "output_format": "TabSeparated",
  "tables": [{"database": "shop", "name": "orders", "structure": "id UInt64, total Float64"}]
}`)
	var out bytes.Buffer
	err := run([]string{"--conf", config, "call", "hasColumnInTable", "'shop'", "'orders'", "'total'"}, strings.NewReader(""), &out)
	require.NoError(t, err)
	require.Equal(t, "1\n", out.String())
}

func TestRunDefaultsToJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"call", "plus", "1", "2"}, strings.NewReader(""), &out))
	require.True(t, strings.HasPrefix(out.String(), "{\n\t\"meta\":\n"))
	require.Contains(t, out.String(), "\"rows\": 1\n}\n")
}

func TestRunFunctions(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"functions"}, strings.NewReader(""), &out))
	require.Contains(t, strings.Split(out.String(), "\n"), "hasColumnInTable")
}

func TestRunInvalidConfig(t *testing.T) {
	config := writeConfig(t, `{"output_format": "XML"}`)
	err := run([]string{"--conf", config, "functions"}, strings.NewReader(""), &bytes.Buffer{})
	require.True(t, errors.HasCode(err, errors.InvalidConfiguration))
}

func TestRunInvalidLogConfig(t *testing.T) {
	err := run([]string{"--log-format", "xml", "functions"}, strings.NewReader(""), &bytes.Buffer{})
	require.Error(t, err)
}

func TestRunUnknownCommand(t *testing.T) {
	err := run([]string{"explode"}, strings.NewReader(""), &bytes.Buffer{})
	require.Error(t, err)
}
