package column

import (
	"github.com/Cheburusska/datatable/pkg/errors"
	"github.com/Cheburusska/datatable/pkg/stype"
)

// RowIndexer translates logical rows of a view into rows of its source.
// At returns a negative value when the view row has no source row.
type RowIndexer interface {
	Len() int64
	At(i int64) int64
}

// Reader reads logical rows of a data column, optionally through a row
// mapping. It holds no state besides the two references and may be copied
// and used from several goroutines as long as the column is not released.
type Reader struct {
	col  *Column
	rows RowIndexer
}

// NewReader binds col to rows. rows may be nil, in which case logical rows
// are the column's physical rows.
func NewReader(col *Column, rows RowIndexer) (Reader, error) {
	if col == nil || col.region == nil {
		return Reader{}, errors.New(errors.ErrorTypeInvariant, "reader requires a data column")
	}
	return Reader{col: col, rows: rows}, nil
}

// Column returns the data column being read.
func (r Reader) Column() *Column { return r.col }

// SType returns the stype of the values.
func (r Reader) SType() stype.SType { return r.col.stype }

// Len returns the number of logical rows.
func (r Reader) Len() int64 {
	if r.rows != nil {
		return r.rows.Len()
	}
	return r.col.nrows
}

// Row translates logical row i into a physical row; ok is false when the
// mapping has no source row for i.
func (r Reader) Row(i int64) (row int64, ok bool) {
	if r.rows == nil {
		return i, true
	}
	row = r.rows.At(i)
	return row, row >= 0
}

// IsNA reports whether logical row i is NA.
func (r Reader) IsNA(i int64) bool {
	row, ok := r.Row(i)
	return !ok || r.col.IsNA(row)
}

func (r Reader) Int64(i int64) (int64, bool) {
	row, ok := r.Row(i)
	if !ok {
		return 0, false
	}
	return r.col.Int64(row)
}

func (r Reader) Float64(i int64) (float64, bool) {
	row, ok := r.Row(i)
	if !ok {
		return 0, false
	}
	return r.col.Float64(row)
}

func (r Reader) Bool(i int64) (bool, bool) {
	row, ok := r.Row(i)
	if !ok {
		return false, false
	}
	return r.col.Bool(row)
}

func (r Reader) String(i int64) (string, bool) {
	row, ok := r.Row(i)
	if !ok {
		return "", false
	}
	return r.col.String(row)
}

func (r Reader) StringBytes(i int64) ([]byte, bool) {
	row, ok := r.Row(i)
	if !ok {
		return nil, false
	}
	return r.col.StringBytes(row)
}

// Bits returns the raw element of logical row i of a fixed-width column, or
// the stype's NA pattern when the row has no source row.
func (r Reader) Bits(i int64) uint64 {
	row, ok := r.Row(i)
	if !ok {
		na, _ := r.col.stype.NABits()
		return na
	}
	return r.col.Bits(row)
}

// Value returns logical row i as a Go value, nil for NA.
func (r Reader) Value(i int64) interface{} {
	row, ok := r.Row(i)
	if !ok {
		return nil
	}
	return r.col.Value(row)
}

// Values returns all logical rows as Go values; NA rows are nil.
func (r Reader) Values() []interface{} {
	n := r.Len()
	out := make([]interface{}, n)
	for i := int64(0); i < n; i++ {
		out[i] = r.Value(i)
	}
	return out
}
