// Package datatable implements DataTable, a set of equally long typed
// columns that is either a base table owning its column buffers or a view
// reading another table's columns through a row mapping.
//
// A view is always one hop from its base table: applying a mapping to a
// view produces a new view of the same base with the two row mappings
// composed. Views never own the base table. The caller keeps the base alive
// until every view derived from it has been released.
//
// Tables carry no locks. Build them on one goroutine and treat them as
// immutable once published; readers may then run concurrently until the
// table is released.
package datatable

import (
	"github.com/Cheburusska/datatable/pkg/column"
	"github.com/Cheburusska/datatable/pkg/errors"
	"github.com/Cheburusska/datatable/pkg/rowmapping"
)

// DataTable is an ordered collection of columns with a common row count.
type DataTable struct {
	nrows int64
	ncols int

	// source and rowmapping are both set for a view and both nil for a base
	// table. source is not owned.
	source     *DataTable
	rowmapping *rowmapping.RowMapping

	columns []*column.Column
}

// Deallocator releases one column of a table being released. The default
// releases the column's own buffer; an embedding layer that tracks columns
// itself can intercept the call.
type Deallocator func(col *column.Column) error

// DefaultDeallocator releases the column's buffer.
func DefaultDeallocator(col *column.Column) error {
	return col.Release()
}

// New assembles a base table from owned data columns. Every column must
// have the same row count; a table without columns has zero rows. The table
// takes ownership of the columns but not of the slice.
func New(columns []*column.Column) (*DataTable, error) {
	dt := &DataTable{
		ncols:   len(columns),
		columns: make([]*column.Column, len(columns)),
	}
	for i, col := range columns {
		if col == nil {
			return nil, errors.New(errors.ErrorTypeInvariant, "nil column").
				WithDetail("column", i)
		}
		if col.IsView() {
			return nil, errors.New(errors.ErrorTypeInvariant, "base table cannot hold a view column").
				WithDetail("column", i)
		}
		if i == 0 {
			dt.nrows = col.NRows()
		} else if col.NRows() != dt.nrows {
			return nil, errors.New(errors.ErrorTypeInvariant, "column row count mismatch").
				WithDetail("column", i).
				WithDetail("nrows", col.NRows()).
				WithDetail("expected", dt.nrows)
		}
		dt.columns[i] = col
	}
	return dt, nil
}

// NRows returns the number of rows.
func (dt *DataTable) NRows() int64 { return dt.nrows }

// NCols returns the number of columns.
func (dt *DataTable) NCols() int { return dt.ncols }

// IsView reports whether dt reads its data from a source table.
func (dt *DataTable) IsView() bool { return dt.source != nil }

// Source returns the base table of a view, nil for a base table.
func (dt *DataTable) Source() *DataTable { return dt.source }

// RowMapping returns the row mapping of a view, nil for a base table.
func (dt *DataTable) RowMapping() *rowmapping.RowMapping { return dt.rowmapping }

// Column returns column j.
func (dt *DataTable) Column(j int) *column.Column { return dt.columns[j] }

// Columns returns a copy of the column list.
func (dt *DataTable) Columns() []*column.Column {
	out := make([]*column.Column, len(dt.columns))
	copy(out, dt.columns)
	return out
}

// Reader returns a reader of the logical rows of column j. For a view
// column it pairs the referenced base column with this table's row mapping.
func (dt *DataTable) Reader(j int) (column.Reader, error) {
	if j < 0 || j >= dt.ncols {
		return column.Reader{}, errors.New(errors.ErrorTypeInvariant, "column index out of range").
			WithDetail("column", j).
			WithDetail("ncols", dt.ncols)
	}
	col := dt.columns[j]
	if !col.IsView() {
		return column.NewReader(col, nil)
	}
	if dt.source == nil {
		return column.Reader{}, errors.New(errors.ErrorTypeInvariant, "view column in a table without source").
			WithDetail("column", j)
	}
	return column.NewReader(dt.source.columns[col.SrcIndex()], dt.rowmapping)
}

// Readers returns a reader for every column.
func (dt *DataTable) Readers() ([]column.Reader, error) {
	out := make([]column.Reader, dt.ncols)
	for j := range out {
		r, err := dt.Reader(j)
		if err != nil {
			return nil, err
		}
		out[j] = r
	}
	return out, nil
}

// Release releases every column through dealloc (DefaultDeallocator when
// nil), then drops the column list and the owned row mapping. The source
// table is never touched. All columns are offered to dealloc even when
// some fail; the first error is returned.
func (dt *DataTable) Release(dealloc Deallocator) error {
	if dealloc == nil {
		dealloc = DefaultDeallocator
	}

	var first error
	for i, col := range dt.columns {
		if col == nil {
			continue
		}
		if err := dealloc(col); err != nil && first == nil {
			kind := errors.TypeOf(err)
			if kind == "" {
				kind = errors.ErrorTypeIO
			}
			first = errors.Wrap(err, kind, "failed to release column").
				WithDetail("column", i)
		}
		dt.columns[i] = nil
	}
	dt.columns = nil
	dt.rowmapping = nil
	dt.source = nil
	dt.ncols = 0
	dt.nrows = 0
	return first
}
