// Package conf holds the configuration of the strata command, loaded from a JSON file that may contain comments.
package conf

import (
	"fmt"
	"io/ioutil"

	json "github.com/goccy/go-json"
	"github.com/squareup/strata/catalog"
	"github.com/squareup/strata/common"
	"github.com/squareup/strata/common/parser"
	"github.com/squareup/strata/datastreams"
	"github.com/squareup/strata/errors"
	"muzzammil.xyz/jsonc"
)

const (
	DefaultOutputFormat         = datastreams.FormatJSON
	DefaultMaxBlockSize         = datastreams.DefaultMaxBlockSize
	DefaultCurrentDatabase      = "default"
	DefaultPrettyMaxRows        = 10000
	DefaultMetricsListenAddress = "localhost:2112"
)

type Config struct {
	OutputFormat    string `json:"output_format,omitempty"`
	WriteStatistics bool   `json:"write_statistics,omitempty"`
	// QuoteInt64 writes 64 bit integers as JSON strings.
	QuoteInt64           bool          `json:"output_format_json_quote_64bit_integers,omitempty"`
	MaxBlockSize         int           `json:"max_block_size,omitempty"`
	CurrentDatabase      string        `json:"current_database,omitempty"`
	PrettyMaxRows        int           `json:"pretty_max_rows,omitempty"`
	PrettyColor          bool          `json:"pretty_color,omitempty"`
	EnableMetrics        bool          `json:"enable_metrics,omitempty"`
	MetricsListenAddress string        `json:"metrics_listen_address,omitempty"`
	Tables               []TableConfig `json:"tables,omitempty"`
}

// TableConfig describes a table known to the catalog. Structure lists the columns as "name Type, ...".
type TableConfig struct {
	Database  string `json:"database,omitempty"`
	Name      string `json:"name"`
	Structure string `json:"structure"`
}

func NewDefaultConfig() *Config {
	return &Config{
		OutputFormat:         DefaultOutputFormat,
		MaxBlockSize:         DefaultMaxBlockSize,
		CurrentDatabase:      DefaultCurrentDatabase,
		PrettyMaxRows:        DefaultPrettyMaxRows,
		MetricsListenAddress: DefaultMetricsListenAddress,
	}
}

// Load reads the file at path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return Parse(b)
}

// Parse decodes a configuration document, which may contain comments, over the defaults.
func Parse(b []byte) (*Config, error) {
	cfg := NewDefaultConfig()
	if err := json.Unmarshal(jsonc.ToJSON(b), cfg); err != nil {
		return nil, errors.NewInvalidConfigurationError(err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if !datastreams.IsFormat(c.OutputFormat) {
		return errors.NewInvalidConfigurationError(fmt.Sprintf("OutputFormat must be one of %v", datastreams.Formats()))
	}
	if c.MaxBlockSize < 1 {
		return errors.NewInvalidConfigurationError("MaxBlockSize must be >= 1")
	}
	if c.CurrentDatabase == "" {
		return errors.NewInvalidConfigurationError("CurrentDatabase must be specified")
	}
	if c.PrettyMaxRows < 1 {
		return errors.NewInvalidConfigurationError("PrettyMaxRows must be >= 1")
	}
	if c.EnableMetrics && c.MetricsListenAddress == "" {
		return errors.NewInvalidConfigurationError("MetricsListenAddress must be specified")
	}
	for i, t := range c.Tables {
		if t.Name == "" {
			return errors.NewInvalidConfigurationError(fmt.Sprintf("Tables[%d] must have a Name", i))
		}
		if _, err := parser.ParseStructure(t.Structure); err != nil {
			return errors.NewInvalidConfigurationError(fmt.Sprintf("Tables[%d] has an invalid Structure: %v", i, err))
		}
	}
	return nil
}

func (c *Config) FormatSettings() common.FormatSettings {
	return common.FormatSettings{QuoteInt64: c.QuoteInt64}
}

func (c *Config) StreamSettings() datastreams.Settings {
	return datastreams.Settings{
		FormatSettings:  c.FormatSettings(),
		WriteStatistics: c.WriteStatistics,
		PrettyMaxRows:   c.PrettyMaxRows,
		PrettyColor:     c.PrettyColor,
	}
}

// NewCatalog creates a catalog holding the configured tables. Tables without a Database go to CurrentDatabase,
// which always exists.
func (c *Config) NewCatalog() (*catalog.MemCatalog, error) {
	cat := catalog.NewMemCatalog()
	cat.AddDatabase(c.CurrentDatabase)
	for _, t := range c.Tables {
		columns, err := parser.ParseStructure(t.Structure)
		if err != nil {
			return nil, err
		}
		database := t.Database
		if database == "" {
			database = c.CurrentDatabase
		}
		if err := cat.AddTable(&catalog.Table{Database: database, Name: t.Name, Columns: columns}); err != nil {
			return nil, err
		}
	}
	return cat, nil
}
