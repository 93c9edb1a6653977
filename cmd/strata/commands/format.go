package commands

import (
	"context"

	"github.com/squareup/strata/common/parser"
	"github.com/squareup/strata/datastreams"
)

type FormatCommand struct {
	Structure    string `help:"Columns of the input, for example 'a UInt8, b Array(String)'" required:""`
	Input        string `help:"File to read JSONEachRow rows from, '-' for stdin" default:"-"`
	OutputFormat string `help:"Output format, overrides the configured one"`
	Totals       bool   `help:"Write a totals row computed over all input rows"`
	Extremes     bool   `help:"Write the minimum and maximum of every column of the result"`
	Limit        uint64 `help:"Maximum number of rows to write, 0 for all"`
}

func (c *FormatCommand) Run(env *Env) error {
	header, err := parser.ParseStructure(c.Structure)
	if err != nil {
		return err
	}
	r, closeInput, err := env.openInput(c.Input)
	if err != nil {
		return err
	}
	defer closeInput()

	var in datastreams.BlockInputStream = datastreams.NewJSONEachRowInputStream(r, header, env.Config.MaxBlockSize)
	if c.Totals {
		in = datastreams.NewTotalsAndExtremesInputStream(in, true, false)
	}
	if c.Limit > 0 {
		in = datastreams.NewLimitInputStream(in, c.Limit)
	}
	if c.Extremes {
		in = datastreams.NewTotalsAndExtremesInputStream(in, false, true)
	}
	return writeStream(context.Background(), env, in, header, env.outputFormat(c.OutputFormat))
}
