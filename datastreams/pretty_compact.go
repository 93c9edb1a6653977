package datastreams

import (
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/squareup/strata/common"
	"github.com/squareup/strata/errors"
	"github.com/squareup/strata/functions"
)

const FormatPrettyCompact = "PrettyCompact"

type PrettySettings struct {
	// MaxRows is the number of rows shown, further rows are counted but not written. Zero shows everything.
	MaxRows int
	// Color bolds the header when the destination is a terminal.
	Color bool
}

// PrettyCompactBlockOutputStream draws every block as a table with box drawing characters. Column widths come
// from the visibleWidth function so that every value of a block fits its column.
type PrettyCompactBlockOutputStream struct {
	out       *outputBuffer
	settings  PrettySettings
	width     functions.Function
	header    *color.Color
	totalRows int
	totals    *common.Block
	extremes  *common.Block
}

func NewPrettyCompactBlockOutputStream(w io.Writer, settings PrettySettings) *PrettyCompactBlockOutputStream {
	header := color.New(color.Bold)
	if settings.Color && isTerminal(w) {
		header.EnableColor()
	} else {
		header.DisableColor()
	}
	return &PrettyCompactBlockOutputStream{
		out:      newOutputBuffer(w, FormatPrettyCompact, false),
		settings: settings,
		width:    functions.NewVisibleWidth(),
		header:   header,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *PrettyCompactBlockOutputStream) WritePrefix() error {
	return nil
}

func (p *PrettyCompactBlockOutputStream) Write(block *common.Block) error {
	rows := block.Rows()
	shown := rows
	if p.settings.MaxRows > 0 {
		left := p.settings.MaxRows - p.totalRows
		if left < 0 {
			left = 0
		}
		if shown > left {
			shown = left
		}
	}
	p.totalRows += rows
	if shown == 0 {
		return nil
	}
	return p.writeTable(block, shown)
}

// columnWidths returns the visible width of every value of every column, and the width of each column: the
// widest of its values and its name.
func (p *PrettyCompactBlockOutputStream) columnWidths(block *common.Block, rows int) ([][]uint64, []int, error) {
	values := make([][]uint64, block.Columns())
	widths := make([]int, block.Columns())
	for i := 0; i < block.Columns(); i++ {
		col := block.GetByPosition(i)
		scratch, err := common.NewBlock([]common.ColumnWithTypeAndName{{Column: col.Column, Type: col.Type}})
		if err != nil {
			return nil, nil, err
		}
		pos, err := functions.ExecuteOnBlock(p.width, scratch, []int{0})
		if err != nil {
			return nil, nil, err
		}
		values[i], err = uint64Values(scratch.GetByPosition(pos).Column, rows)
		if err != nil {
			return nil, nil, err
		}
		widths[i] = utf8.RuneCountInString(col.Name)
		for _, w := range values[i] {
			if int(w) > widths[i] {
				widths[i] = int(w)
			}
		}
	}
	return values, widths, nil
}

func uint64Values(col common.Column, rows int) ([]uint64, error) {
	switch c := col.(type) {
	case *common.VectorColumn[uint64]:
		return c.Data()[:rows], nil
	case *common.ConstColumn:
		v, ok := common.ConstValue[uint64](c)
		if !ok {
			break
		}
		res := make([]uint64, rows)
		for i := range res {
			res[i] = v
		}
		return res, nil
	}
	return nil, errors.Errorf("unexpected width column %s", col.Name())
}

func (p *PrettyCompactBlockOutputStream) writeTable(block *common.Block, rows int) error {
	values, widths, err := p.columnWidths(block, rows)
	if err != nil {
		return err
	}
	columns := block.Columns()

	for i := 0; i < columns; i++ {
		col := block.GetByPosition(i)
		if i == 0 {
			p.out.WriteString("┌─")
		} else {
			p.out.WriteString("─┬─")
		}
		dashes := strings.Repeat("─", widths[i]-utf8.RuneCountInString(col.Name))
		if col.Type.IsNumeric() {
			p.out.WriteString(dashes)
			p.out.WriteString(p.header.Sprint(col.Name))
		} else {
			p.out.WriteString(p.header.Sprint(col.Name))
			p.out.WriteString(dashes)
		}
	}
	p.out.WriteString("─┐\n")

	var value bytes.Buffer
	for row := 0; row < rows; row++ {
		p.out.WriteString("│ ")
		for i := 0; i < columns; i++ {
			if i != 0 {
				p.out.WriteString(" │ ")
			}
			col := block.GetByPosition(i)
			value.Reset()
			if err := col.Type.SerializeTextEscaped(col.Column, row, &value); err != nil {
				return err
			}
			padding := strings.Repeat(" ", widths[i]-int(values[i][row]))
			if col.Type.IsNumeric() {
				p.out.WriteString(padding)
				p.out.Write(value.Bytes())
			} else {
				p.out.Write(value.Bytes())
				p.out.WriteString(padding)
			}
		}
		p.out.WriteString(" │\n")
	}

	for i := 0; i < columns; i++ {
		if i == 0 {
			p.out.WriteString("└─")
		} else {
			p.out.WriteString("─┴─")
		}
		p.out.WriteString(strings.Repeat("─", widths[i]))
	}
	_, err = p.out.WriteString("─┘\n")
	return errors.WithStack(err)
}

func (p *PrettyCompactBlockOutputStream) WriteSuffix() error {
	if p.settings.MaxRows > 0 && p.totalRows > p.settings.MaxRows {
		p.out.WriteString("  Showed first " + strconv.Itoa(p.settings.MaxRows) + ".\n")
	}
	if p.totals != nil {
		p.out.WriteString("\nTotals:\n")
		if err := p.writeTable(p.totals, p.totals.Rows()); err != nil {
			return err
		}
	}
	if p.extremes != nil {
		p.out.WriteString("\nExtremes:\n")
		if err := p.writeTable(p.extremes, p.extremes.Rows()); err != nil {
			return err
		}
	}
	return p.out.Finish(uint64(p.totalRows))
}

func (p *PrettyCompactBlockOutputStream) Flush() error {
	return p.out.Flush()
}

func (p *PrettyCompactBlockOutputStream) SetTotals(totals *common.Block) {
	p.totals = totals
}

func (p *PrettyCompactBlockOutputStream) SetExtremes(extremes *common.Block) {
	p.extremes = extremes
}

func (p *PrettyCompactBlockOutputStream) SetRowsBeforeLimit(uint64) {}

func (p *PrettyCompactBlockOutputStream) OnProgress(common.ProgressValues) {}
