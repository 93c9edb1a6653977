package datastreams

import (
	"context"

	"github.com/squareup/strata/common"
)

// BlocksInputStream returns blocks that are already in memory. The total number of rows is known up front and
// reported with the progress of the first block.
type BlocksInputStream struct {
	blocks   []*common.Block
	next     int
	progress common.Progress
}

func NewBlocksInputStream(blocks ...*common.Block) *BlocksInputStream {
	s := &BlocksInputStream{blocks: blocks}
	var total uint64
	for _, b := range blocks {
		total += uint64(b.Rows())
	}
	s.progress.AddTotalRows(total)
	return s
}

func (s *BlocksInputStream) Read(context.Context) (*common.Block, error) {
	if s.next >= len(s.blocks) {
		return nil, nil
	}
	block := s.blocks[s.next]
	s.next++
	s.progress.Increment(uint64(block.Rows()), uint64(block.ByteSize()))
	return block, nil
}

func (s *BlocksInputStream) Info() StreamInfo {
	return StreamInfo{Progress: &s.progress}
}
