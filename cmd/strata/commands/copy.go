package commands

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/squareup/strata/common"
	"github.com/squareup/strata/datastreams"
)

// rowCountingInputStream counts the rows that pass through it.
type rowCountingInputStream struct {
	datastreams.BlockInputStream
	rows uint64
}

func (s *rowCountingInputStream) Read(ctx context.Context) (*common.Block, error) {
	block, err := s.BlockInputStream.Read(ctx)
	if block != nil {
		s.rows += uint64(block.Rows())
	}
	return block, err
}

// writeStream copies in to the output of env in the given format and logs a summary of what was written.
func writeStream(ctx context.Context, env *Env, in datastreams.BlockInputStream, header []common.NameAndType, format string) error {
	start := time.Now()
	counter := &countingWriter{w: env.Out}
	out, err := datastreams.NewBlockOutputStream(format, counter, header, env.Config.StreamSettings())
	if err != nil {
		return err
	}
	rows := &rowCountingInputStream{BlockInputStream: in}
	if err := datastreams.CopyData(ctx, rows, out); err != nil {
		return err
	}
	log.Infof("wrote %s rows as %s, %s in %s", humanize.Comma(int64(rows.rows)), format,
		humanize.Bytes(counter.count), time.Since(start).Round(time.Millisecond))
	return nil
}
