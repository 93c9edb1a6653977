package datastreams

import (
	"bytes"
	"io"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/squareup/strata/common"
	"github.com/squareup/strata/errors"
)

const FormatJSON = "JSON"

type JSONSettings struct {
	common.FormatSettings
	WriteStatistics bool
}

type jsonField struct {
	// name is the field name already written as a JSON string.
	name []byte
	typ  common.DataType
}

// JSONRowOutputStream writes a result as one JSON document with meta, data, optional totals and extremes, the row
// count and optional statistics.
type JSONRowOutputStream struct {
	out      *outputBuffer
	fields   []jsonField
	settings JSONSettings

	fieldNumber int
	rowCount    uint64

	totals          *common.Block
	extremes        *common.Block
	appliedLimit    bool
	rowsBeforeLimit uint64

	progress common.Progress
	start    time.Time
}

// NewJSONRowOutputStream returns a stream writing to w the columns described by header. Ill formed UTF-8 is
// repaired unless every column is numeric.
func NewJSONRowOutputStream(w io.Writer, header []common.NameAndType, settings JSONSettings) *JSONRowOutputStream {
	fields := make([]jsonField, len(header))
	validate := false
	for i, h := range header {
		var name bytes.Buffer
		common.WriteJSONStringFromString(h.Name, &name)
		fields[i] = jsonField{name: name.Bytes(), typ: h.Type}
		if !h.Type.IsNumeric() {
			validate = true
		}
	}
	log.Debugf("created JSON output stream with %d fields, utf-8 validation %t", len(fields), validate)
	return &JSONRowOutputStream{
		out:      newOutputBuffer(w, FormatJSON, validate),
		fields:   fields,
		settings: settings,
		start:    time.Now(),
	}
}

func (j *JSONRowOutputStream) WritePrefix() error {
	j.out.WriteString("{\n\t\"meta\":\n\t[\n")
	for i, f := range j.fields {
		j.out.WriteString("\t\t{\n\t\t\t\"name\": ")
		j.out.Write(f.name)
		j.out.WriteString(",\n\t\t\t\"type\": ")
		common.WriteJSONStringFromString(f.typ.Name(), j.out)
		j.out.WriteString("\n\t\t}")
		if i != len(j.fields)-1 {
			j.out.WriteByte(',')
		}
		j.out.WriteByte('\n')
	}
	_, err := j.out.WriteString("\t],\n\n\t\"data\":\n\t[\n")
	return errors.WithStack(err)
}

func (j *JSONRowOutputStream) WriteField(col common.Column, typ common.DataType, row int) error {
	if j.fieldNumber >= len(j.fields) {
		return errors.Errorf("row has more than %d fields", len(j.fields))
	}
	j.out.WriteString("\t\t\t")
	j.out.Write(j.fields[j.fieldNumber].name)
	j.out.WriteString(": ")
	if err := typ.SerializeTextJSON(col, row, j.out, j.settings.FormatSettings); err != nil {
		return err
	}
	j.fieldNumber++
	return nil
}

func (j *JSONRowOutputStream) WriteFieldDelimiter() error {
	_, err := j.out.WriteString(",\n")
	return errors.WithStack(err)
}

func (j *JSONRowOutputStream) WriteRowStartDelimiter() error {
	if j.rowCount > 0 {
		j.out.WriteString(",\n")
	}
	_, err := j.out.WriteString("\t\t{\n")
	return errors.WithStack(err)
}

func (j *JSONRowOutputStream) WriteRowEndDelimiter() error {
	_, err := j.out.WriteString("\n\t\t}")
	j.fieldNumber = 0
	j.rowCount++
	return errors.WithStack(err)
}

// WriteRowBetweenDelimiter writes nothing, rows are separated when the next one starts.
func (j *JSONRowOutputStream) WriteRowBetweenDelimiter() error {
	return nil
}

func (j *JSONRowOutputStream) WriteSuffix() error {
	j.out.WriteString("\n\t]")
	if err := j.writeTotals(); err != nil {
		return err
	}
	if err := j.writeExtremes(); err != nil {
		return err
	}

	j.out.WriteString(",\n\n\t\"rows\": ")
	j.out.WriteString(strconv.FormatUint(j.rowCount, 10))
	if j.appliedLimit {
		j.out.WriteString(",\n\n\t\"rows_before_limit_at_least\": ")
		j.out.WriteString(strconv.FormatUint(j.rowsBeforeLimit, 10))
	}
	if j.settings.WriteStatistics {
		if err := j.writeStatistics(); err != nil {
			return err
		}
	}
	if _, err := j.out.WriteString("\n}\n"); err != nil {
		return errors.WithStack(err)
	}
	if total := j.progress.TotalRows(); total > 0 {
		log.Debugf("JSON output read %d of %d rows", j.progress.Rows(), total)
	}
	return j.out.Finish(j.rowCount)
}

// writeValues writes one row of block as "name": value pairs, one per line with the given indent.
func (j *JSONRowOutputStream) writeValues(block *common.Block, row int, indent string) error {
	if block.Columns() != len(j.fields) {
		return errors.Errorf("block has %d columns, the result has %d", block.Columns(), len(j.fields))
	}
	for i := 0; i < block.Columns(); i++ {
		if i != 0 {
			j.out.WriteString(",\n")
		}
		col := block.GetByPosition(i)
		j.out.WriteString(indent)
		j.out.Write(j.fields[i].name)
		j.out.WriteString(": ")
		if err := col.Type.SerializeTextJSON(col.Column, row, j.out, j.settings.FormatSettings); err != nil {
			return err
		}
	}
	return nil
}

func (j *JSONRowOutputStream) writeTotals() error {
	if j.totals == nil {
		return nil
	}
	j.out.WriteString(",\n\n\t\"totals\":\n\t{\n")
	if err := j.writeValues(j.totals, 0, "\t\t"); err != nil {
		return err
	}
	j.out.WriteString("\n\t}")
	return nil
}

func (j *JSONRowOutputStream) writeExtremes() error {
	if j.extremes == nil {
		return nil
	}
	if j.extremes.Rows() != 2 {
		return errors.Errorf("extremes must have 2 rows, got %d", j.extremes.Rows())
	}
	j.out.WriteString(",\n\n\t\"extremes\":\n\t{\n")
	for row, title := range []string{"min", "max"} {
		if row != 0 {
			j.out.WriteString(",\n")
		}
		j.out.WriteString("\t\t\"" + title + "\":\n\t\t{\n")
		if err := j.writeValues(j.extremes, row, "\t\t\t"); err != nil {
			return err
		}
		j.out.WriteString("\n\t\t}")
	}
	j.out.WriteString("\n\t}")
	return nil
}

func (j *JSONRowOutputStream) writeStatistics() error {
	elapsed, err := common.ShortestDoubleConverter().AppendShortest(nil, time.Since(j.start).Seconds(), 64)
	if err != nil {
		return err
	}
	j.out.WriteString(",\n\n\t\"statistics\":\n\t{\n\t\t\"elapsed\": ")
	j.out.Write(elapsed)
	j.out.WriteString(",\n\t\t\"rows_read\": ")
	j.out.WriteString(strconv.FormatUint(j.progress.Rows(), 10))
	j.out.WriteString(",\n\t\t\"bytes_read\": ")
	j.out.WriteString(strconv.FormatUint(j.progress.Bytes(), 10))
	j.out.WriteString("\n\t}")
	return nil
}

func (j *JSONRowOutputStream) Flush() error {
	return j.out.Flush()
}

func (j *JSONRowOutputStream) SetTotals(totals *common.Block) {
	j.totals = totals
}

func (j *JSONRowOutputStream) SetExtremes(extremes *common.Block) {
	j.extremes = extremes
}

func (j *JSONRowOutputStream) SetRowsBeforeLimit(rows uint64) {
	j.appliedLimit = true
	j.rowsBeforeLimit = rows
}

// OnProgress may be called from any goroutine.
func (j *JSONRowOutputStream) OnProgress(v common.ProgressValues) {
	j.progress.IncrementPiecewiseAtomically(v)
}
