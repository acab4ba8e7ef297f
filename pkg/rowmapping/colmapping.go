package rowmapping

import "github.com/Cheburusska/datatable/pkg/errors"

// ColMapping selects source columns, in order, into a projected table.
type ColMapping struct {
	indices []int
}

// NewColMapping copies indices into a new ColMapping.
func NewColMapping(indices ...int) ColMapping {
	cp := make([]int, len(indices))
	copy(cp, indices)
	return ColMapping{indices: cp}
}

// AllColumns selects columns 0..n-1.
func AllColumns(n int) ColMapping {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return ColMapping{indices: idx}
}

// IsZero reports whether cm was never constructed; ApplyMapping then keeps
// every source column.
func (cm ColMapping) IsZero() bool { return cm.indices == nil }

// Len returns the number of selected columns.
func (cm ColMapping) Len() int { return len(cm.indices) }

// At returns the source column of projected column j.
func (cm ColMapping) At(j int) int { return cm.indices[j] }

// Indices returns a copy of the selected column indices.
func (cm ColMapping) Indices() []int {
	out := make([]int, len(cm.indices))
	copy(out, cm.indices)
	return out
}

// CheckRange returns an invariant error when cm selects a column outside a
// source of ncols columns.
func (cm ColMapping) CheckRange(ncols int) error {
	for j, c := range cm.indices {
		if c < 0 || c >= ncols {
			return errors.New(errors.ErrorTypeInvariant, "column index out of range").
				WithDetail("position", j).
				WithDetail("column", c).
				WithDetail("ncols", ncols)
		}
	}
	return nil
}
