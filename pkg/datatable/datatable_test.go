package datatable

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheburusska/datatable/pkg/column"
	"github.com/Cheburusska/datatable/pkg/errors"
	"github.com/Cheburusska/datatable/pkg/rowmapping"
	"github.com/Cheburusska/datatable/pkg/stype"
)

func newBase(t *testing.T) *DataTable {
	t.Helper()
	names, err := column.FromStrings(stype.Str32,
		[]string{"ant", "bee", "cat", "dog", "eel", "fox"},
		[]bool{false, false, true, false, false, false})
	require.NoError(t, err)

	dt, err := New([]*column.Column{
		column.FromInt32s([]int32{0, 10, 20, 30, 40, 50}),
		names,
		column.FromFloat64s([]float64{0.5, 1.5, 2.5, 3.5, 4.5, 5.5}),
	})
	require.NoError(t, err)
	return dt
}

func values(t *testing.T, dt *DataTable, j int) []interface{} {
	t.Helper()
	r, err := dt.Reader(j)
	require.NoError(t, err)
	return r.Values()
}

func assertInvariants(t *testing.T, dt *DataTable) {
	t.Helper()
	require.NoError(t, dt.Validate())
	assert.Equal(t, dt.Source() == nil, dt.RowMapping() == nil)
	if dt.Source() != nil {
		assert.Nil(t, dt.Source().Source())
	}
	for _, c := range dt.Columns() {
		assert.Equal(t, dt.NRows(), c.NRows())
	}
}

func TestNew(t *testing.T) {
	dt := newBase(t)
	assert.Equal(t, int64(6), dt.NRows())
	assert.Equal(t, 3, dt.NCols())
	assert.False(t, dt.IsView())
	assertInvariants(t, dt)

	empty, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.NRows())
	assert.Equal(t, 0, empty.NCols())
}

func TestNewRejects(t *testing.T) {
	tests := []struct {
		name string
		cols []*column.Column
	}{
		{"row count mismatch", []*column.Column{column.FromInt8s([]int8{1, 2}), column.FromInt8s([]int8{1})}},
		{"nil column", []*column.Column{nil}},
		{"view column", []*column.Column{column.NewView(0, stype.Int8, 2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cols)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeInvariant))
		})
	}
}

func TestApplyMappingOnBase(t *testing.T) {
	base := newBase(t)
	rm, err := rowmapping.NewArray([]int64{5, 2, rowmapping.NA, 0})
	require.NoError(t, err)

	view, err := base.ApplyMapping(rm, rowmapping.ColMapping{})
	require.NoError(t, err)
	assertInvariants(t, view)

	assert.True(t, view.IsView())
	assert.Same(t, base, view.Source())
	assert.Equal(t, int64(4), view.NRows())
	assert.Equal(t, 3, view.NCols())
	for j := 0; j < view.NCols(); j++ {
		c := view.Column(j)
		assert.True(t, c.IsView())
		assert.Equal(t, j, c.SrcIndex())
		assert.Equal(t, base.Column(j).SType(), c.SType())
	}

	assert.Equal(t, []interface{}{int32(50), int32(20), nil, int32(0)}, values(t, view, 0))
	assert.Equal(t, []interface{}{"fox", nil, nil, "ant"}, values(t, view, 1))
}

func TestApplyMappingOwnsRowMapping(t *testing.T) {
	base := newBase(t)
	rm, _ := rowmapping.NewSlice(1, 3, 1)
	view, err := base.ApplyMapping(rm, rowmapping.ColMapping{})
	require.NoError(t, err)
	assert.NotSame(t, rm, view.RowMapping())
	assert.True(t, view.RowMapping().IsSlice())
}

func TestApplyMappingCollapsesViews(t *testing.T) {
	base := newBase(t)
	first, _ := rowmapping.NewSlice(1, 5, 1)                // 1..5
	second, _ := rowmapping.NewArray([]int64{4, 0, 2, rowmapping.NA}) // 5, 1, 3, NA

	v1, err := base.ApplyMapping(first, rowmapping.ColMapping{})
	require.NoError(t, err)
	v2, err := v1.ApplyMapping(second, rowmapping.ColMapping{})
	require.NoError(t, err)
	assertInvariants(t, v2)
	assert.Same(t, base, v2.Source())

	composed, err := first.Compose(second)
	require.NoError(t, err)
	direct, err := base.ApplyMapping(composed, rowmapping.ColMapping{})
	require.NoError(t, err)

	for j := 0; j < base.NCols(); j++ {
		assert.Equal(t, values(t, direct, j), values(t, v2, j), "column %d", j)
	}
	assert.Equal(t, []interface{}{int32(50), int32(10), int32(30), nil}, values(t, v2, 0))
}

func TestApplyMappingProjection(t *testing.T) {
	base := newBase(t)
	all := rowmapping.Identity(base.NRows())

	v1, err := base.ApplyMapping(all, rowmapping.NewColMapping(2, 0))
	require.NoError(t, err)
	assert.Equal(t, 2, v1.NCols())
	assert.Equal(t, stype.Float64, v1.Column(0).SType())

	// Column 1 of v1 is column 0 of base.
	rm, _ := rowmapping.NewSlice(3, 2, 1)
	v2, err := v1.ApplyMapping(rm, rowmapping.NewColMapping(1))
	require.NoError(t, err)
	assertInvariants(t, v2)
	assert.Equal(t, 0, v2.Column(0).SrcIndex())
	assert.Equal(t, []interface{}{int32(30), int32(40)}, values(t, v2, 0))
}

func TestApplyMappingErrors(t *testing.T) {
	base := newBase(t)

	_, err := base.ApplyMapping(nil, rowmapping.ColMapping{})
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvariant))

	outside, _ := rowmapping.NewArray([]int64{0, 6})
	_, err = base.ApplyMapping(outside, rowmapping.ColMapping{})
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvariant))

	_, err = base.ApplyMapping(rowmapping.Identity(6), rowmapping.NewColMapping(3))
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvariant))

	view, _ := base.ApplyMapping(rowmapping.Identity(2), rowmapping.ColMapping{})
	_, err = view.ApplyMapping(rowmapping.Identity(3), rowmapping.ColMapping{})
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvariant))
}

func TestReleaseViewKeepsBase(t *testing.T) {
	base := newBase(t)
	view, err := base.ApplyMapping(rowmapping.Identity(6), rowmapping.ColMapping{})
	require.NoError(t, err)

	var seen []*column.Column
	err = view.Release(func(c *column.Column) error {
		seen = append(seen, c)
		return DefaultDeallocator(c)
	})
	require.NoError(t, err)
	assert.Len(t, seen, 3)
	for _, c := range seen {
		assert.True(t, c.IsView())
	}
	assert.Nil(t, view.Source())
	assert.Nil(t, view.RowMapping())
	assert.Equal(t, 0, view.NCols())

	assertInvariants(t, base)
	assert.Equal(t, int32(50), values(t, base, 0)[5])

	require.NoError(t, base.Release(nil))
	assert.Equal(t, 0, base.NCols())
}

func TestReleaseReportsFirstError(t *testing.T) {
	base := newBase(t)
	boom := stderrors.New("boom")
	calls := 0
	err := base.Release(func(c *column.Column) error {
		calls++
		if calls >= 2 {
			return boom
		}
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.True(t, errors.Is(err, boom))
	assert.True(t, errors.IsType(err, errors.ErrorTypeIO))
	assert.Contains(t, err.Error(), "column=1")
}

func TestValidateDetectsBrokenTables(t *testing.T) {
	base := newBase(t)
	view, err := base.ApplyMapping(rowmapping.Identity(6), rowmapping.ColMapping{})
	require.NoError(t, err)

	tests := []struct {
		name string
		dt   *DataTable
	}{
		{"source without rowmapping", &DataTable{source: base}},
		{"rowmapping without source", &DataTable{rowmapping: rowmapping.Identity(0)}},
		{"view of a view", &DataTable{nrows: 6, source: view, rowmapping: rowmapping.Identity(6)}},
		{"row count", &DataTable{nrows: 5, ncols: 1, columns: []*column.Column{column.FromInt8s(make([]int8, 6))}}},
		{"view column in base", &DataTable{nrows: 6, ncols: 1, columns: []*column.Column{column.NewView(0, stype.Int32, 6)}}},
		{"stype mismatch", &DataTable{
			nrows: 6, ncols: 1, source: base, rowmapping: rowmapping.Identity(6),
			columns: []*column.Column{column.NewView(0, stype.Int64, 6)},
		}},
		{"srcindex out of range", &DataTable{
			nrows: 6, ncols: 1, source: base, rowmapping: rowmapping.Identity(6),
			columns: []*column.Column{column.NewView(7, stype.Int32, 6)},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.dt.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeInvariant))
		})
	}
}

func TestMaterialize(t *testing.T) {
	base := newBase(t)
	rm, _ := rowmapping.NewArray([]int64{3, rowmapping.NA, 1})
	view, err := base.ApplyMapping(rm, rowmapping.NewColMapping(1, 2))
	require.NoError(t, err)

	m, err := view.Materialize()
	require.NoError(t, err)
	assertInvariants(t, m)
	assert.False(t, m.IsView())
	assert.Equal(t, []interface{}{"dog", nil, "bee"}, values(t, m, 0))
	assert.Equal(t, []interface{}{3.5, nil, 1.5}, values(t, m, 1))

	require.NoError(t, view.Release(nil))
	require.NoError(t, base.Release(nil))
	assert.Equal(t, []interface{}{"dog", nil, "bee"}, values(t, m, 0))
}
