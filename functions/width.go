package functions

import (
	"math"

	"github.com/squareup/strata/common"
	"golang.org/x/exp/constraints"
)

var powersOfTen = func() [20]uint64 {
	var p [20]uint64
	p[0] = 1
	for i := 1; i < len(p); i++ {
		p[i] = p[i-1] * 10
	}
	return p
}()

// decimalDigits is 1 + floor(log10(u)) for u > 0. The float estimate is corrected against exact powers of ten,
// since log10 of a float64 is not exact at 10^k and large uint64 values round when converted.
func decimalDigits(u uint64) uint64 {
	if u == 0 {
		return 1
	}
	d := 1 + uint64(math.Log10(float64(u)))
	if d < uint64(len(powersOfTen)) && u >= powersOfTen[d] {
		d++
	} else if d > 1 && u < powersOfTen[d-1] {
		d--
	}
	return d
}

// integerWidth is the length of the decimal text of a. The minimum signed value cannot be negated, its width is
// one more than the width of the maximum value.
func integerWidth[T constraints.Integer](a T) uint64 {
	if a >= 0 {
		return decimalDigits(uint64(a))
	}
	if n := -a; n > 0 {
		return 1 + decimalDigits(uint64(n))
	}
	return 1 + decimalDigits(uint64(-(a + 1)))
}

// floatWidth is the length of the shortest text that reads back as exactly x.
func floatWidth(x float64, bitSize int) (uint64, error) {
	var buf [40]byte
	out, err := common.ShortestDoubleConverter().AppendShortest(buf[:0], x, bitSize)
	if err != nil {
		return 0, err
	}
	return uint64(len(out)), nil
}

func integerWidths[T constraints.Integer](data []T) []uint64 {
	res := make([]uint64, len(data))
	for i, v := range data {
		res[i] = integerWidth(v)
	}
	return res
}

func floatWidths[T float32 | float64](data []T, bitSize int) ([]uint64, error) {
	res := make([]uint64, len(data))
	for i, v := range data {
		w, err := floatWidth(float64(v), bitSize)
		if err != nil {
			return nil, err
		}
		res[i] = w
	}
	return res, nil
}

// numberWidths computes per row widths for any column of numbers. ok is false for other columns.
func numberWidths(col common.Column) (res []uint64, ok bool, err error) {
	switch c := col.(type) {
	case *common.VectorColumn[uint8]:
		return integerWidths(c.Data()), true, nil
	case *common.VectorColumn[uint16]:
		return integerWidths(c.Data()), true, nil
	case *common.VectorColumn[uint32]:
		return integerWidths(c.Data()), true, nil
	case *common.VectorColumn[uint64]:
		return integerWidths(c.Data()), true, nil
	case *common.VectorColumn[int8]:
		return integerWidths(c.Data()), true, nil
	case *common.VectorColumn[int16]:
		return integerWidths(c.Data()), true, nil
	case *common.VectorColumn[int32]:
		return integerWidths(c.Data()), true, nil
	case *common.VectorColumn[int64]:
		return integerWidths(c.Data()), true, nil
	case *common.VectorColumn[float32]:
		res, err = floatWidths(c.Data(), 32)
		return res, true, err
	case *common.VectorColumn[float64]:
		res, err = floatWidths(c.Data(), 64)
		return res, true, err
	}
	return nil, false, nil
}

// isQuotedInComposite is true for the types whose values are quoted inside arrays and tuples.
func isQuotedInComposite(typ common.DataType) bool {
	switch typ.Kind() {
	case common.TypeDate, common.TypeDateTime, common.TypeString, common.TypeFixedString,
		common.TypeEnum8, common.TypeEnum16:
		return true
	}
	return false
}
