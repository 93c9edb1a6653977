package common

import (
	"github.com/squareup/strata/errors"
)

// ConcatColumns appends the rows of cols one after another into a new column. All columns must have the same
// representation, constants are materialized first.
func ConcatColumns(cols ...Column) (Column, error) {
	if len(cols) == 0 {
		return nil, errors.Error("no columns to concatenate")
	}
	full := make([]Column, len(cols))
	for i, c := range cols {
		full[i] = c.ConvertToFull()
	}
	for _, concat := range concatKernels {
		if res, ok, err := concat(full); ok || err != nil {
			return res, err
		}
	}
	return nil, errors.Errorf("cannot concatenate columns of kind %s", full[0].Name())
}

type concatKernel func(cols []Column) (Column, bool, error)

var concatKernels []concatKernel

func init() {
	concatKernels = []concatKernel{
		concatVectors[uint8], concatVectors[uint16], concatVectors[uint32], concatVectors[uint64],
		concatVectors[int8], concatVectors[int16], concatVectors[int32], concatVectors[int64],
		concatVectors[float32], concatVectors[float64],
		concatStrings, concatFixedStrings, concatArrays, concatTuples, concatAggregateStates,
	}
}

func mismatched(cols []Column) error {
	return errors.Errorf("cannot concatenate columns of different kinds %s and others", cols[0].Name())
}

func concatVectors[T Number](cols []Column) (Column, bool, error) {
	if _, ok := cols[0].(*VectorColumn[T]); !ok {
		return nil, false, nil
	}
	var data []T
	for _, c := range cols {
		v, ok := c.(*VectorColumn[T])
		if !ok {
			return nil, true, mismatched(cols)
		}
		data = append(data, v.data...)
	}
	return NewVectorColumn(data), true, nil
}

func concatStrings(cols []Column) (Column, bool, error) {
	if _, ok := cols[0].(*StringColumn); !ok {
		return nil, false, nil
	}
	res := NewStringColumn(nil)
	for _, c := range cols {
		s, ok := c.(*StringColumn)
		if !ok {
			return nil, true, mismatched(cols)
		}
		for i := 0; i < s.Size(); i++ {
			res.AppendBytes(s.At(i))
		}
	}
	return res, true, nil
}

func concatFixedStrings(cols []Column) (Column, bool, error) {
	first, ok := cols[0].(*FixedStringColumn)
	if !ok {
		return nil, false, nil
	}
	res := NewFixedStringColumn(first.n)
	for _, c := range cols {
		s, ok := c.(*FixedStringColumn)
		if !ok || s.n != first.n {
			return nil, true, mismatched(cols)
		}
		res.chars = append(res.chars, s.chars...)
	}
	return res, true, nil
}

func concatArrays(cols []Column) (Column, bool, error) {
	if _, ok := cols[0].(*ArrayColumn); !ok {
		return nil, false, nil
	}
	nested := make([]Column, len(cols))
	var offsets []uint64
	var base uint64
	for i, c := range cols {
		a, ok := c.(*ArrayColumn)
		if !ok {
			return nil, true, mismatched(cols)
		}
		nested[i] = a.data
		for _, o := range a.offsets {
			offsets = append(offsets, base+o)
		}
		base += uint64(a.data.Size())
	}
	data, err := ConcatColumns(nested...)
	if err != nil {
		return nil, true, err
	}
	if offsets == nil {
		offsets = []uint64{}
	}
	return NewArrayColumn(data, offsets), true, nil
}

func concatTuples(cols []Column) (Column, bool, error) {
	first, ok := cols[0].(*TupleColumn)
	if !ok {
		return nil, false, nil
	}
	elems := make([]Column, len(first.columns))
	for e := range elems {
		parts := make([]Column, len(cols))
		for i, c := range cols {
			t, ok := c.(*TupleColumn)
			if !ok || len(t.columns) != len(first.columns) {
				return nil, true, mismatched(cols)
			}
			parts[i] = t.columns[e]
		}
		elem, err := ConcatColumns(parts...)
		if err != nil {
			return nil, true, err
		}
		elems[e] = elem
	}
	return NewTupleColumn(elems), true, nil
}

func concatAggregateStates(cols []Column) (Column, bool, error) {
	first, ok := cols[0].(*AggregateStateColumn)
	if !ok {
		return nil, false, nil
	}
	var states [][]byte
	for _, c := range cols {
		a, ok := c.(*AggregateStateColumn)
		if !ok {
			return nil, true, mismatched(cols)
		}
		states = append(states, a.states...)
	}
	return NewAggregateStateColumn(first.function, states), true, nil
}
