// Package commands implements the subcommands of the strata CLI.
package commands

import (
	"io"
	"os"

	"github.com/squareup/strata/common"
	"github.com/squareup/strata/conf"
	"github.com/squareup/strata/errors"
	"github.com/squareup/strata/functions"
)

// Env is bound into every command when it runs.
type Env struct {
	Config  *conf.Config
	Factory *functions.Factory
	In      io.Reader
	Out     io.Writer
}

func NewEnv(cfg *conf.Config, in io.Reader, out io.Writer) (*Env, error) {
	cat, err := cfg.NewCatalog()
	if err != nil {
		return nil, err
	}
	factory, err := functions.NewDefaultFactory(functions.NewContext(cat, cfg.CurrentDatabase))
	if err != nil {
		return nil, err
	}
	return &Env{Config: cfg, Factory: factory, In: in, Out: out}, nil
}

// openInput returns the reader for a file name, "-" is the input of the process.
func (e *Env) openInput(name string) (io.Reader, func(), error) {
	if name == "" || name == "-" {
		return e.In, func() {}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	return f, func() { common.InvokeCloser(f) }, nil
}

func (e *Env) outputFormat(override string) string {
	if override != "" {
		return override
	}
	return e.Config.OutputFormat
}

// countingWriter counts the bytes that reach the output of the command.
type countingWriter struct {
	w     io.Writer
	count uint64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.count += uint64(n)
	return n, err
}
