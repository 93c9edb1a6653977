package datastreams

import (
	"bufio"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/squareup/strata/errors"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// outputBuffer is the buffered sink of a text output format. When validation is on, ill formed UTF-8 is replaced
// with U+FFFD before reaching the destination.
type outputBuffer struct {
	*bufio.Writer
	format    string
	counter   *countingWriter
	validator io.WriteCloser
}

type countingWriter struct {
	w     io.Writer
	bytes uint64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.bytes += uint64(n)
	return n, err
}

func newOutputBuffer(dst io.Writer, format string, validateUTF8 bool) *outputBuffer {
	counter := &countingWriter{w: dst}
	ob := &outputBuffer{format: format, counter: counter}
	var w io.Writer = counter
	if validateUTF8 {
		ob.validator = transform.NewWriter(counter, runes.ReplaceIllFormed())
		w = ob.validator
	}
	ob.Writer = bufio.NewWriter(w)
	return ob
}

func (o *outputBuffer) Flush() error {
	return errors.WithStack(o.Writer.Flush())
}

// Finish flushes everything, including bytes the validator holds back, and records the bytes written. The buffer
// must not be written to afterwards.
func (o *outputBuffer) Finish(rows uint64) error {
	if err := o.Flush(); err != nil {
		return err
	}
	if o.validator != nil {
		if err := o.validator.Close(); err != nil {
			return errors.WithStack(err)
		}
	}
	written := o.BytesWritten()
	outputRowsCounter.WithLabelValues(o.format).Add(float64(rows))
	outputBytesCounter.WithLabelValues(o.format).Add(float64(written))
	log.Debugf("finished %s output: %d rows, %d bytes", o.format, rows, written)
	return nil
}

// BytesWritten is the number of bytes that reached the destination so far.
func (o *outputBuffer) BytesWritten() uint64 {
	return o.counter.bytes
}
