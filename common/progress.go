package common

import (
	"go.uber.org/atomic"
)

// Progress accumulates rows and bytes read by the stages feeding an output stream. Each counter is updated
// independently, readers see eventually consistent values with no ordering between counters.
type Progress struct {
	rows      atomic.Uint64
	bytes     atomic.Uint64
	totalRows atomic.Uint64
}

// ProgressValues is a plain snapshot of a Progress.
type ProgressValues struct {
	Rows      uint64
	Bytes     uint64
	TotalRows uint64
}

func (p *Progress) Increment(rows uint64, bytes uint64) {
	p.rows.Add(rows)
	p.bytes.Add(bytes)
}

func (p *Progress) AddTotalRows(rows uint64) {
	p.totalRows.Add(rows)
}

// IncrementPiecewiseAtomically adds each counter of v on its own, without making the three additions appear
// as one.
func (p *Progress) IncrementPiecewiseAtomically(v ProgressValues) {
	p.rows.Add(v.Rows)
	p.bytes.Add(v.Bytes)
	p.totalRows.Add(v.TotalRows)
}

func (p *Progress) Rows() uint64      { return p.rows.Load() }
func (p *Progress) Bytes() uint64     { return p.bytes.Load() }
func (p *Progress) TotalRows() uint64 { return p.totalRows.Load() }

func (p *Progress) Values() ProgressValues {
	return ProgressValues{Rows: p.rows.Load(), Bytes: p.bytes.Load(), TotalRows: p.totalRows.Load()}
}

// Fetch returns the current values and resets the counters, so the result can be merged into another Progress.
func (p *Progress) Fetch() ProgressValues {
	return ProgressValues{Rows: p.rows.Swap(0), Bytes: p.bytes.Swap(0), TotalRows: p.totalRows.Swap(0)}
}
