package functions

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	pathVector = "vector"
	pathConst  = "const"
)

// functionRowsCounter counts values computed per row on the vector path, and single computations replicated
// to every row on the const path.
var functionRowsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "strata_function_rows_total",
	Help: "counter of values computed by functions, segmented by function and by vector or const path",
}, []string{"function", "path"})

func countVector(function string, rows int) {
	functionRowsCounter.WithLabelValues(function, pathVector).Add(float64(rows))
}

func countConst(function string) {
	functionRowsCounter.WithLabelValues(function, pathConst).Inc()
}
