package commands

import (
	"context"

	"github.com/squareup/strata/common"
	"github.com/squareup/strata/common/parser"
	"github.com/squareup/strata/datastreams"
	"github.com/squareup/strata/functions"
)

type WidthCommand struct {
	Structure    string `help:"Columns of the input, for example 'a UInt8, b Array(String)'" required:""`
	Input        string `help:"File to read JSONEachRow rows from, '-' for stdin" default:"-"`
	OutputFormat string `help:"Output format, overrides the configured one"`
}

func (c *WidthCommand) Run(env *Env) error {
	header, err := parser.ParseStructure(c.Structure)
	if err != nil {
		return err
	}
	fn, err := env.Factory.Get("visibleWidth")
	if err != nil {
		return err
	}
	r, closeInput, err := env.openInput(c.Input)
	if err != nil {
		return err
	}
	defer closeInput()

	widths := newWidthInputStream(datastreams.NewJSONEachRowInputStream(r, header, env.Config.MaxBlockSize), fn, header)
	return writeStream(context.Background(), env, widths, widths.header, env.outputFormat(c.OutputFormat))
}

// widthInputStream replaces every block by the visible widths of its columns.
type widthInputStream struct {
	in      datastreams.BlockInputStream
	fn      functions.Function
	columns int
	header  []common.NameAndType
}

func newWidthInputStream(in datastreams.BlockInputStream, fn functions.Function, input []common.NameAndType) *widthInputStream {
	header := make([]common.NameAndType, len(input))
	for i, h := range input {
		header[i] = common.NameAndType{Name: fn.Name() + "(" + h.Name + ")", Type: common.UInt64Type}
	}
	return &widthInputStream{in: in, fn: fn, columns: len(input), header: header}
}

func (s *widthInputStream) Read(ctx context.Context) (*common.Block, error) {
	block, err := s.in.Read(ctx)
	if err != nil || block == nil {
		return nil, err
	}
	res := &common.Block{}
	for i := 0; i < s.columns; i++ {
		pos, err := functions.ExecuteOnBlock(s.fn, block, []int{i})
		if err != nil {
			return nil, err
		}
		width := block.GetByPosition(pos)
		if _, err := res.Insert(common.ColumnWithTypeAndName{
			Name:   s.header[i].Name,
			Type:   width.Type,
			Column: width.Column.ConvertToFull(),
		}); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (s *widthInputStream) Info() datastreams.StreamInfo {
	return s.in.Info()
}
