package datatable

import "github.com/Cheburusska/datatable/pkg/column"

// Materialize copies the logical rows of dt into a new base table that owns
// its columns. Rows mapped to NA become NA values. Materializing a base
// table produces a deep copy.
func (dt *DataTable) Materialize() (*DataTable, error) {
	cols := make([]*column.Column, 0, dt.ncols)
	release := func() {
		for _, c := range cols {
			_ = c.Release()
		}
	}

	for j := 0; j < dt.ncols; j++ {
		r, err := dt.Reader(j)
		if err != nil {
			release()
			return nil, err
		}
		c, err := column.Materialize(r)
		if err != nil {
			release()
			return nil, err
		}
		cols = append(cols, c)
	}

	out, err := New(cols)
	if err != nil {
		release()
		return nil, err
	}
	out.nrows = dt.nrows
	return out, nil
}
