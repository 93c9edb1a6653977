package common

import (
	"bytes"
	"math"
)

// ExtremeRows returns the rows holding the minimum and maximum value of col. Numbers compare by value with NaN
// ignored, strings compare bytewise. Other representations report row 0 for both. ok is false for an empty
// column.
func ExtremeRows(col Column) (minRow int, maxRow int, ok bool) {
	if col.Size() == 0 {
		return 0, 0, false
	}
	switch c := col.(type) {
	case *ConstColumn:
		return 0, 0, true
	case *VectorColumn[uint8]:
		minRow, maxRow = vectorExtremes(c.data)
	case *VectorColumn[uint16]:
		minRow, maxRow = vectorExtremes(c.data)
	case *VectorColumn[uint32]:
		minRow, maxRow = vectorExtremes(c.data)
	case *VectorColumn[uint64]:
		minRow, maxRow = vectorExtremes(c.data)
	case *VectorColumn[int8]:
		minRow, maxRow = vectorExtremes(c.data)
	case *VectorColumn[int16]:
		minRow, maxRow = vectorExtremes(c.data)
	case *VectorColumn[int32]:
		minRow, maxRow = vectorExtremes(c.data)
	case *VectorColumn[int64]:
		minRow, maxRow = vectorExtremes(c.data)
	case *VectorColumn[float32]:
		minRow, maxRow = vectorExtremes(c.data)
	case *VectorColumn[float64]:
		minRow, maxRow = vectorExtremes(c.data)
	case *StringColumn:
		minRow, maxRow = byteExtremes(c.Size(), c.At)
	case *FixedStringColumn:
		minRow, maxRow = byteExtremes(c.Size(), c.At)
	}
	return minRow, maxRow, true
}

func vectorExtremes[T Number](data []T) (int, int) {
	minRow, maxRow := -1, -1
	for i, v := range data {
		if math.IsNaN(float64(v)) {
			continue
		}
		if minRow == -1 || v < data[minRow] {
			minRow = i
		}
		if maxRow == -1 || v > data[maxRow] {
			maxRow = i
		}
	}
	if minRow == -1 {
		return 0, 0
	}
	return minRow, maxRow
}

func byteExtremes(size int, at func(int) []byte) (int, int) {
	minRow, maxRow := 0, 0
	for i := 1; i < size; i++ {
		v := at(i)
		if bytes.Compare(v, at(minRow)) < 0 {
			minRow = i
		}
		if bytes.Compare(v, at(maxRow)) > 0 {
			maxRow = i
		}
	}
	return minRow, maxRow
}

// SumColumn adds up every value of a numeric column into a one row column of the same representation.
// ok is false when col is not a column of numbers.
func SumColumn(col Column) (Column, bool) {
	switch c := col.(type) {
	case *ConstColumn:
		return sumConst(c)
	case *VectorColumn[uint8]:
		return sumVector(c.data), true
	case *VectorColumn[uint16]:
		return sumVector(c.data), true
	case *VectorColumn[uint32]:
		return sumVector(c.data), true
	case *VectorColumn[uint64]:
		return sumVector(c.data), true
	case *VectorColumn[int8]:
		return sumVector(c.data), true
	case *VectorColumn[int16]:
		return sumVector(c.data), true
	case *VectorColumn[int32]:
		return sumVector(c.data), true
	case *VectorColumn[int64]:
		return sumVector(c.data), true
	case *VectorColumn[float32]:
		return sumVector(c.data), true
	case *VectorColumn[float64]:
		return sumVector(c.data), true
	}
	return nil, false
}

func sumVector[T Number](data []T) Column {
	var sum T
	for _, v := range data {
		sum += v
	}
	return NewVectorColumn([]T{sum})
}

func sumConst(c *ConstColumn) (Column, bool) {
	return SumColumn(c.ConvertToFull())
}
