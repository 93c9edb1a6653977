package datastreams

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	outputRowsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "strata_output_rows_total",
		Help: "counter of rows written by output formats, segmented by format",
	}, []string{"format"})
	outputBytesCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "strata_output_bytes_total",
		Help: "counter of bytes written by output formats, segmented by format",
	}, []string{"format"})
)
