package datastreams

import (
	"context"

	"github.com/squareup/strata/common"
)

// LimitInputStream returns the first limit rows of its input. The rest of the input is still read, so that the
// number of rows before the limit and the summaries of wrapped streams cover everything.
type LimitInputStream struct {
	in       BlockInputStream
	limit    uint64
	returned uint64
	read     uint64
}

func NewLimitInputStream(in BlockInputStream, limit uint64) *LimitInputStream {
	return &LimitInputStream{in: in, limit: limit}
}

func (s *LimitInputStream) Read(ctx context.Context) (*common.Block, error) {
	for {
		block, err := s.in.Read(ctx)
		if err != nil || block == nil {
			return nil, err
		}
		rows := uint64(block.Rows())
		s.read += rows
		if s.returned >= s.limit {
			continue
		}
		if s.returned+rows > s.limit {
			block = block.Cut(0, int(s.limit-s.returned))
			rows = s.limit - s.returned
		}
		s.returned += rows
		return block, nil
	}
}

func (s *LimitInputStream) Info() StreamInfo {
	info := s.in.Info()
	info.AppliedLimit = true
	info.RowsBeforeLimit = s.read
	return info
}
