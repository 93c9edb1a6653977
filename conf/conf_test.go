package conf

import (
	"io/fs"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/squareup/strata/datastreams"
	"github.com/squareup/strata/errors"
	"github.com/stretchr/testify/require"
)

const configWithComments = `
{
  // written by people
  "output_format": "PrettyCompact",
  "write_statistics": true,
  "output_format_json_quote_64bit_integers": true,
  /* smaller blocks
     for tests */
  "max_block_size": 100,
  "current_database": "analytics",
  "pretty_max_rows": 20,
  "enable_metrics": true,
  "metrics_listen_address": "localhost:9102",
  "tables": [
    {"database": "default", "name": "hits", "structure": "URL String, EventDate Date"},
    {"name": "visits", "structure": "Duration UInt32"}
  ]
}
`

func TestParseConfigWithComments(t *testing.T) {
	cfg, err := Parse([]byte(configWithComments))
	require.NoError(t, err)
	require.Equal(t, datastreams.FormatPrettyCompact, cfg.OutputFormat)
	require.True(t, cfg.WriteStatistics)
	require.True(t, cfg.QuoteInt64)
	require.Equal(t, 100, cfg.MaxBlockSize)
	require.Equal(t, "analytics", cfg.CurrentDatabase)
	require.Equal(t, 20, cfg.PrettyMaxRows)
	require.False(t, cfg.PrettyColor)
	require.True(t, cfg.EnableMetrics)
	require.Equal(t, "localhost:9102", cfg.MetricsListenAddress)
	require.Len(t, cfg.Tables, 2)

	settings := cfg.StreamSettings()
	require.True(t, settings.QuoteInt64)
	require.True(t, settings.WriteStatistics)
	require.Equal(t, 20, settings.PrettyMaxRows)
}

func TestDefaultsFillMissingFields(t *testing.T) {
	cfg, err := Parse([]byte(`{}`))
	require.NoError(t, err)
	require.Equal(t, NewDefaultConfig(), cfg)
	require.NoError(t, NewDefaultConfig().Validate())
}

func TestLoad(t *testing.T) {
	name := filepath.Join(t.TempDir(), "strata.conf")
	require.NoError(t, ioutil.WriteFile(name, []byte(configWithComments), fs.ModePerm))
	cfg, err := Load(name)
	require.NoError(t, err)
	require.Equal(t, "analytics", cfg.CurrentDatabase)

	_, err = Load(filepath.Join(t.TempDir(), "missing.conf"))
	require.Error(t, err)
}

func TestNewCatalog(t *testing.T) {
	cfg, err := Parse([]byte(configWithComments))
	require.NoError(t, err)
	cat, err := cfg.NewCatalog()
	require.NoError(t, err)

	has, err := cat.HasColumn("default", "hits", "EventDate")
	require.NoError(t, err)
	require.True(t, has)
	has, err = cat.HasColumn("analytics", "visits", "Duration")
	require.NoError(t, err)
	require.True(t, has)

	tables, err := cat.Tables("analytics")
	require.NoError(t, err)
	require.Len(t, tables, 1)
}

func TestNewCatalogRejectsDuplicateTables(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Tables = []TableConfig{{Name: "t", Structure: "a UInt8"}, {Database: "default", Name: "t", Structure: "b UInt8"}}
	require.NoError(t, cfg.Validate())
	_, err := cfg.NewCatalog()
	require.True(t, errors.HasCode(err, errors.TableAlreadyExists))
}

func TestValidate(t *testing.T) {
	type configPair struct {
		errMsg string
		conf   func(cfg *Config)
	}
	pairs := []configPair{
		{"STR0016 - Invalid configuration: OutputFormat must be one of [JSON PrettyCompact TabSeparated TabSeparatedWithNamesAndTypes]",
			func(cfg *Config) { cfg.OutputFormat = "XML" }},
		{"STR0016 - Invalid configuration: MaxBlockSize must be >= 1", func(cfg *Config) { cfg.MaxBlockSize = 0 }},
		{"STR0016 - Invalid configuration: CurrentDatabase must be specified", func(cfg *Config) { cfg.CurrentDatabase = "" }},
		{"STR0016 - Invalid configuration: PrettyMaxRows must be >= 1", func(cfg *Config) { cfg.PrettyMaxRows = -1 }},
		{"STR0016 - Invalid configuration: MetricsListenAddress must be specified", func(cfg *Config) {
			cfg.EnableMetrics = true
			cfg.MetricsListenAddress = ""
		}},
		{"STR0016 - Invalid configuration: Tables[0] must have a Name", func(cfg *Config) {
			cfg.Tables = []TableConfig{{Structure: "a UInt8"}}
		}},
	}
	for _, p := range pairs {
		t.Run(p.errMsg, func(t *testing.T) {
			cfg := NewDefaultConfig()
			p.conf(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.True(t, errors.HasCode(err, errors.InvalidConfiguration))
			require.Equal(t, p.errMsg, err.Error())
		})
	}
}

func TestValidateStructure(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Tables = []TableConfig{{Name: "t", Structure: "a Nope"}}
	require.True(t, errors.HasCode(cfg.Validate(), errors.InvalidConfiguration))

	_, err := Parse([]byte(`{"max_block_size": "many"}`))
	require.True(t, errors.HasCode(err, errors.InvalidConfiguration))
}
