// Package datastreams moves Blocks between inputs and output formats.
package datastreams

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/squareup/strata/common"
	"github.com/squareup/strata/errors"
)

// StreamInfo is what a BlockInputStream learned while reading, merged across the streams it wraps.
type StreamInfo struct {
	Totals          *common.Block
	Extremes        *common.Block
	AppliedLimit    bool
	RowsBeforeLimit uint64
	Progress        *common.Progress
}

type BlockInputStream interface {
	// Read returns the next block, or nil once the stream is exhausted.
	Read(ctx context.Context) (*common.Block, error)
	Info() StreamInfo
}

type BlockOutputStream interface {
	WritePrefix() error
	Write(block *common.Block) error
	WriteSuffix() error
	Flush() error

	SetTotals(totals *common.Block)
	// SetExtremes takes a block of two rows, the minimum then the maximum of every column.
	SetExtremes(extremes *common.Block)
	SetRowsBeforeLimit(rows uint64)
	OnProgress(v common.ProgressValues)
}

// RowOutputStream writes a result one field at a time. Callers drive it through WritePrefix, then for every row
// WriteRowStartDelimiter, WriteField calls separated by WriteFieldDelimiter and WriteRowEndDelimiter, with
// WriteRowBetweenDelimiter between rows, and finally WriteSuffix.
type RowOutputStream interface {
	WritePrefix() error
	WriteRowStartDelimiter() error
	WriteField(col common.Column, typ common.DataType, row int) error
	WriteFieldDelimiter() error
	WriteRowEndDelimiter() error
	WriteRowBetweenDelimiter() error
	WriteSuffix() error
	Flush() error

	SetTotals(totals *common.Block)
	SetExtremes(extremes *common.Block)
	SetRowsBeforeLimit(rows uint64)
	OnProgress(v common.ProgressValues)
}

// WriteRow writes row of block with the delimiters of s.
func WriteRow(s RowOutputStream, block *common.Block, row int) error {
	if err := s.WriteRowStartDelimiter(); err != nil {
		return err
	}
	for i := 0; i < block.Columns(); i++ {
		if i != 0 {
			if err := s.WriteFieldDelimiter(); err != nil {
				return err
			}
		}
		col := block.GetByPosition(i)
		if err := s.WriteField(col.Column, col.Type, row); err != nil {
			return err
		}
	}
	return s.WriteRowEndDelimiter()
}

// BlockOutputStreamFromRowOutputStream writes blocks row by row.
type BlockOutputStreamFromRowOutputStream struct {
	RowOutputStream
	firstRow bool
}

func NewBlockOutputStreamFromRowOutputStream(row RowOutputStream) *BlockOutputStreamFromRowOutputStream {
	return &BlockOutputStreamFromRowOutputStream{RowOutputStream: row, firstRow: true}
}

func (b *BlockOutputStreamFromRowOutputStream) Write(block *common.Block) error {
	rows := block.Rows()
	for i := 0; i < rows; i++ {
		if !b.firstRow {
			if err := b.WriteRowBetweenDelimiter(); err != nil {
				return err
			}
		}
		b.firstRow = false
		if err := WriteRow(b.RowOutputStream, block, i); err != nil {
			return err
		}
	}
	return nil
}

// CopyData writes the prefix, every block of in, the totals, extremes and limit information learned by in, and
// the suffix. It stops between blocks when ctx is done.
func CopyData(ctx context.Context, in BlockInputStream, out BlockOutputStream) error {
	if err := out.WritePrefix(); err != nil {
		return err
	}
	blocks := 0
	for {
		if err := ctx.Err(); err != nil {
			return errors.WithStack(err)
		}
		block, err := in.Read(ctx)
		if err != nil {
			return err
		}
		if block == nil {
			break
		}
		if log.IsLevelEnabled(log.TraceLevel) {
			log.Tracef("block %d: %s", blocks, block.DumpStructure())
		}
		if err := out.Write(block); err != nil {
			return err
		}
		blocks++
		if p := in.Info().Progress; p != nil {
			out.OnProgress(p.Fetch())
		}
	}
	info := in.Info()
	if info.Totals != nil {
		out.SetTotals(info.Totals)
	}
	if info.Extremes != nil {
		out.SetExtremes(info.Extremes)
	}
	if info.AppliedLimit {
		out.SetRowsBeforeLimit(info.RowsBeforeLimit)
	}
	if err := out.WriteSuffix(); err != nil {
		return err
	}
	log.Debugf("copied %d blocks", blocks)
	return out.Flush()
}
