package datastreams

import (
	"context"

	"github.com/squareup/strata/common"
)

// TotalsAndExtremesInputStream passes blocks through unchanged and, once the input is exhausted, reports a totals
// row and the extremes of every column in its StreamInfo. Totals are sums for numeric columns and defaults for
// the others. Extremes are computed for numbers and strings, other columns report their first value.
type TotalsAndExtremesInputStream struct {
	in       BlockInputStream
	totals   bool
	extremes bool

	header     []common.ColumnWithTypeAndName
	sums       [][]common.Column
	candidates [][]common.Column

	done          bool
	totalsBlock   *common.Block
	extremesBlock *common.Block
}

func NewTotalsAndExtremesInputStream(in BlockInputStream, totals bool, extremes bool) *TotalsAndExtremesInputStream {
	return &TotalsAndExtremesInputStream{in: in, totals: totals, extremes: extremes}
}

func (s *TotalsAndExtremesInputStream) Read(ctx context.Context) (*common.Block, error) {
	if s.done {
		return nil, nil
	}
	block, err := s.in.Read(ctx)
	if err != nil {
		return nil, err
	}
	if block == nil {
		s.done = true
		return nil, s.finish()
	}
	if s.header == nil {
		s.header = make([]common.ColumnWithTypeAndName, block.Columns())
		s.sums = make([][]common.Column, block.Columns())
		s.candidates = make([][]common.Column, block.Columns())
	}
	for i := 0; i < block.Columns(); i++ {
		col := block.GetByPosition(i)
		s.header[i] = common.ColumnWithTypeAndName{Type: col.Type, Name: col.Name}
		if s.totals && col.Type.IsNumeric() {
			if sum, ok := common.SumColumn(col.Column); ok {
				s.sums[i] = append(s.sums[i], sum)
			}
		}
		if s.extremes {
			full := col.Column.ConvertToFull()
			if minRow, maxRow, ok := common.ExtremeRows(full); ok {
				s.candidates[i] = append(s.candidates[i], full.Take([]int{minRow, maxRow}))
			}
		}
	}
	return block, nil
}

func (s *TotalsAndExtremesInputStream) finish() error {
	if s.header == nil {
		return nil
	}
	if s.totals {
		columns := make([]common.ColumnWithTypeAndName, len(s.header))
		for i, h := range s.header {
			col, err := s.total(i)
			if err != nil {
				return err
			}
			columns[i] = common.ColumnWithTypeAndName{Column: col, Type: h.Type, Name: h.Name}
		}
		block, err := common.NewBlock(columns)
		if err != nil {
			return err
		}
		s.totalsBlock = block
	}
	if s.extremes {
		columns := make([]common.ColumnWithTypeAndName, len(s.header))
		for i, h := range s.header {
			col, err := s.extreme(i)
			if err != nil {
				return err
			}
			columns[i] = common.ColumnWithTypeAndName{Column: col, Type: h.Type, Name: h.Name}
		}
		block, err := common.NewBlock(columns)
		if err != nil {
			return err
		}
		s.extremesBlock = block
	}
	return nil
}

func (s *TotalsAndExtremesInputStream) total(i int) (common.Column, error) {
	if len(s.sums[i]) > 0 {
		partial, err := common.ConcatColumns(s.sums[i]...)
		if err != nil {
			return nil, err
		}
		if sum, ok := common.SumColumn(partial); ok {
			return sum, nil
		}
	}
	builder := s.header[i].Type.CreateColumnBuilder()
	builder.AppendDefault()
	return builder.Build(), nil
}

func (s *TotalsAndExtremesInputStream) extreme(i int) (common.Column, error) {
	if len(s.candidates[i]) == 0 {
		builder := s.header[i].Type.CreateColumnBuilder()
		builder.AppendDefault()
		builder.AppendDefault()
		return builder.Build(), nil
	}
	col, err := common.ConcatColumns(s.candidates[i]...)
	if err != nil {
		return nil, err
	}
	minRow, maxRow, _ := common.ExtremeRows(col)
	return col.Take([]int{minRow, maxRow}), nil
}

func (s *TotalsAndExtremesInputStream) Info() StreamInfo {
	info := s.in.Info()
	if s.totalsBlock != nil {
		info.Totals = s.totalsBlock
	}
	if s.extremesBlock != nil {
		info.Extremes = s.extremesBlock
	}
	return info
}
