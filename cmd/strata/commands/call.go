package commands

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/squareup/strata/common"
	"github.com/squareup/strata/datastreams"
	"github.com/squareup/strata/functions"
)

type CallCommand struct {
	Function     string   `arg:"" help:"Name of the function to call"`
	Arguments    []string `arg:"" optional:"" help:"Literal arguments: numbers, or strings in single quotes"`
	Rows         int      `help:"Number of rows of the argument block" default:"1"`
	OutputFormat string   `help:"Output format, overrides the configured one"`
}

func (c *CallCommand) Run(env *Env) error {
	fn, err := env.Factory.Get(c.Function)
	if err != nil {
		return err
	}
	rows := c.Rows
	if rows < 1 {
		rows = 1
	}
	block := &common.Block{}
	positions := make([]int, len(c.Arguments))
	for i, lit := range c.Arguments {
		// literals may repeat, so arguments are named by position
		arg := parseLiteral(lit, rows)
		arg.Name = "_" + strconv.Itoa(i)
		pos, err := block.Insert(arg)
		if err != nil {
			return err
		}
		positions[i] = pos
	}
	if len(c.Arguments) == 0 {
		// functions without arguments take their number of rows from the block
		if _, err := block.Insert(common.ColumnWithTypeAndName{
			Name: "dummy", Type: common.UInt8Type, Column: common.NewConstUInt8(rows, 0),
		}); err != nil {
			return err
		}
	}
	pos, err := functions.ExecuteOnBlock(fn, block, positions)
	if err != nil {
		return err
	}
	res := *block.GetByPosition(pos)
	res.Name = fn.Name() + "(" + strings.Join(c.Arguments, ", ") + ")"
	out, err := common.NewBlock([]common.ColumnWithTypeAndName{res})
	if err != nil {
		return err
	}
	header := []common.NameAndType{{Name: res.Name, Type: res.Type}}
	return writeStream(context.Background(), env, datastreams.NewBlocksInputStream(out), header, env.outputFormat(c.OutputFormat))
}

// parseLiteral turns a command line literal into a constant column. Integers get the smallest type that holds
// them, other numbers are Float64 and anything else is a String, with surrounding single quotes removed.
func parseLiteral(lit string, rows int) common.ColumnWithTypeAndName {
	res := common.ColumnWithTypeAndName{Name: lit}
	if u, err := strconv.ParseUint(lit, 10, 64); err == nil {
		switch {
		case u <= math.MaxUint8:
			res.Type, res.Column = common.UInt8Type, common.NewConstNumber(rows, uint8(u))
		case u <= math.MaxUint16:
			res.Type, res.Column = common.UInt16Type, common.NewConstNumber(rows, uint16(u))
		case u <= math.MaxUint32:
			res.Type, res.Column = common.UInt32Type, common.NewConstNumber(rows, uint32(u))
		default:
			res.Type, res.Column = common.UInt64Type, common.NewConstNumber(rows, u)
		}
		return res
	}
	if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
		switch {
		case i >= math.MinInt8:
			res.Type, res.Column = common.Int8Type, common.NewConstNumber(rows, int8(i))
		case i >= math.MinInt16:
			res.Type, res.Column = common.Int16Type, common.NewConstNumber(rows, int16(i))
		case i >= math.MinInt32:
			res.Type, res.Column = common.Int32Type, common.NewConstNumber(rows, int32(i))
		default:
			res.Type, res.Column = common.Int64Type, common.NewConstNumber(rows, i)
		}
		return res
	}
	if f, err := strconv.ParseFloat(lit, 64); err == nil {
		res.Type, res.Column = common.Float64Type, common.NewConstNumber(rows, f)
		return res
	}
	s := lit
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		s = s[1 : len(s)-1]
	}
	res.Type, res.Column = common.StringType, common.NewConstString(rows, s)
	return res
}
