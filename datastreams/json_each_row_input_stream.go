package datastreams

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
	"github.com/squareup/strata/common"
	"github.com/squareup/strata/errors"
)

const DefaultMaxBlockSize = 65536

// JSONEachRowInputStream reads a sequence of JSON objects, usually one per line, into blocks of at most
// maxBlockSize rows. Fields missing from an object take the default value of their type.
type JSONEachRowInputStream struct {
	dec          *json.Decoder
	reader       *countingReader
	header       []common.NameAndType
	index        map[string]int
	maxBlockSize int
	progress     common.Progress
	row          uint64
	done         bool
}

type countingReader struct {
	r     io.Reader
	bytes uint64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.bytes += uint64(n)
	return n, err
}

func NewJSONEachRowInputStream(r io.Reader, header []common.NameAndType, maxBlockSize int) *JSONEachRowInputStream {
	if maxBlockSize <= 0 {
		maxBlockSize = DefaultMaxBlockSize
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[h.Name] = i
	}
	reader := &countingReader{r: r}
	dec := json.NewDecoder(reader)
	dec.UseNumber()
	return &JSONEachRowInputStream{
		dec:          dec,
		reader:       reader,
		header:       header,
		index:        index,
		maxBlockSize: maxBlockSize,
	}
}

func (s *JSONEachRowInputStream) Read(ctx context.Context) (*common.Block, error) {
	if s.done {
		return nil, nil
	}
	builders := make([]common.ColumnBuilder, len(s.header))
	for i, h := range s.header {
		builders[i] = h.Type.CreateColumnBuilder()
	}
	seen := make([]bool, len(s.header))
	rows := 0
	bytesBefore := s.reader.bytes
	for rows < s.maxBlockSize {
		if err := ctx.Err(); err != nil {
			return nil, errors.WithStack(err)
		}
		var object map[string]interface{}
		if err := s.dec.Decode(&object); err != nil {
			if err == io.EOF {
				s.done = true
				break
			}
			return nil, errors.NewCannotParseInputError(fmt.Sprintf("row %d: %v", s.row+1, err))
		}
		s.row++
		for i := range seen {
			seen[i] = false
		}
		for name, value := range object {
			i, ok := s.index[name]
			if !ok {
				return nil, errors.NewCannotParseInputError(fmt.Sprintf("row %d: unknown field %q", s.row, name))
			}
			if err := builders[i].Append(value); err != nil {
				return nil, errors.NewCannotParseInputError(fmt.Sprintf("row %d, field %q: %v", s.row, name, err))
			}
			seen[i] = true
		}
		for i, ok := range seen {
			if !ok {
				builders[i].AppendDefault()
			}
		}
		rows++
	}
	if rows == 0 {
		return nil, nil
	}
	columns := make([]common.ColumnWithTypeAndName, len(s.header))
	for i, h := range s.header {
		columns[i] = common.ColumnWithTypeAndName{Column: builders[i].Build(), Type: h.Type, Name: h.Name}
	}
	block, err := common.NewBlock(columns)
	if err != nil {
		return nil, err
	}
	s.progress.Increment(uint64(rows), s.reader.bytes-bytesBefore)
	log.Debugf("read block of %d rows", rows)
	return block, nil
}

func (s *JSONEachRowInputStream) Info() StreamInfo {
	return StreamInfo{Progress: &s.progress}
}
