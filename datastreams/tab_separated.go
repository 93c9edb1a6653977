package datastreams

import (
	"io"

	"github.com/squareup/strata/common"
	"github.com/squareup/strata/errors"
)

const (
	FormatTabSeparated                 = "TabSeparated"
	FormatTabSeparatedWithNamesAndTypes = "TabSeparatedWithNamesAndTypes"
)

// TabSeparatedRowOutputStream writes one line per row with escaped values separated by tabs. Totals and
// extremes follow the data, each after an empty line.
type TabSeparatedRowOutputStream struct {
	out       *outputBuffer
	header    []common.NameAndType
	withNames bool
	withTypes bool
	rowCount  uint64
	totals    *common.Block
	extremes  *common.Block
}

func NewTabSeparatedRowOutputStream(w io.Writer, header []common.NameAndType, withNames bool, withTypes bool) *TabSeparatedRowOutputStream {
	format := FormatTabSeparated
	if withNames || withTypes {
		format = FormatTabSeparatedWithNamesAndTypes
	}
	return &TabSeparatedRowOutputStream{
		out:       newOutputBuffer(w, format, false),
		header:    header,
		withNames: withNames,
		withTypes: withTypes,
	}
}

func (t *TabSeparatedRowOutputStream) writeHeaderLine(value func(common.NameAndType) string) {
	for i, h := range t.header {
		if i != 0 {
			t.out.WriteByte('\t')
		}
		common.WriteEscapedString([]byte(value(h)), t.out)
	}
	t.out.WriteByte('\n')
}

func (t *TabSeparatedRowOutputStream) WritePrefix() error {
	if t.withNames {
		t.writeHeaderLine(func(h common.NameAndType) string { return h.Name })
	}
	if t.withTypes {
		t.writeHeaderLine(func(h common.NameAndType) string { return h.Type.Name() })
	}
	return nil
}

func (t *TabSeparatedRowOutputStream) WriteField(col common.Column, typ common.DataType, row int) error {
	return typ.SerializeTextEscaped(col, row, t.out)
}

func (t *TabSeparatedRowOutputStream) WriteFieldDelimiter() error {
	return errors.WithStack(t.out.WriteByte('\t'))
}

func (t *TabSeparatedRowOutputStream) WriteRowStartDelimiter() error {
	return nil
}

func (t *TabSeparatedRowOutputStream) WriteRowEndDelimiter() error {
	t.rowCount++
	return errors.WithStack(t.out.WriteByte('\n'))
}

func (t *TabSeparatedRowOutputStream) WriteRowBetweenDelimiter() error {
	return nil
}

func (t *TabSeparatedRowOutputStream) writeBlockRows(block *common.Block) error {
	t.out.WriteByte('\n')
	for row := 0; row < block.Rows(); row++ {
		if err := WriteRow(t, block, row); err != nil {
			return err
		}
	}
	return nil
}

func (t *TabSeparatedRowOutputStream) WriteSuffix() error {
	// Summary rows are not part of the row count.
	rows := t.rowCount
	if t.totals != nil {
		if err := t.writeBlockRows(t.totals); err != nil {
			return err
		}
	}
	if t.extremes != nil {
		if err := t.writeBlockRows(t.extremes); err != nil {
			return err
		}
	}
	t.rowCount = rows
	return t.out.Finish(rows)
}

func (t *TabSeparatedRowOutputStream) Flush() error {
	return t.out.Flush()
}

func (t *TabSeparatedRowOutputStream) SetTotals(totals *common.Block) {
	t.totals = totals
}

func (t *TabSeparatedRowOutputStream) SetExtremes(extremes *common.Block) {
	t.extremes = extremes
}

func (t *TabSeparatedRowOutputStream) SetRowsBeforeLimit(uint64) {}

func (t *TabSeparatedRowOutputStream) OnProgress(common.ProgressValues) {}
