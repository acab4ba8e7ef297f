package export

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheburusska/datatable/internal/testutil"
	"github.com/Cheburusska/datatable/pkg/column"
	"github.com/Cheburusska/datatable/pkg/compression"
	"github.com/Cheburusska/datatable/pkg/config"
	"github.com/Cheburusska/datatable/pkg/datatable"
	"github.com/Cheburusska/datatable/pkg/errors"
	"github.com/Cheburusska/datatable/pkg/rowmapping"
	"github.com/Cheburusska/datatable/pkg/stype"
)

func sample(t *testing.T) *datatable.DataTable {
	t.Helper()
	names, err := column.FromStrings(stype.Str32, []string{"a", "b", "c", "d", "e"}, []bool{false, true, false, false, false})
	require.NoError(t, err)
	tags, err := column.FromStrings(stype.Str64, []string{"x", "", "z", "", "v"}, nil)
	require.NoError(t, err)
	dt, err := datatable.New([]*column.Column{
		column.FromInt32s([]int32{1, stype.NAInt32, 3, 4, 5}),
		column.FromFloat64s([]float64{0.5, 1.5, math.NaN(), 3.5, 4.5}),
		column.FromBools([]bool{true, false, true, false, true}, []bool{false, false, false, true, false}),
		names,
		tags,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = dt.Release(nil) })
	return dt
}

func TestDataType(t *testing.T) {
	want := map[stype.SType]arrow.Type{
		stype.Bool:    arrow.BOOL,
		stype.Int8:    arrow.INT8,
		stype.Int16:   arrow.INT16,
		stype.Int32:   arrow.INT32,
		stype.Int64:   arrow.INT64,
		stype.Float32: arrow.FLOAT32,
		stype.Float64: arrow.FLOAT64,
		stype.Str32:   arrow.STRING,
		stype.Str64:   arrow.LARGE_STRING,
	}
	for st, id := range want {
		dtype, err := DataType(st)
		require.NoError(t, err, st.String())
		assert.Equal(t, id, dtype.ID(), st.String())
	}
	_, err := DataType(stype.Void)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvariant))
}

func TestToRecord(t *testing.T) {
	rec, err := ToRecord(sample(t))
	require.NoError(t, err)
	defer rec.Release()

	assert.Equal(t, int64(5), rec.NumRows())
	assert.Equal(t, "C0", rec.Schema().Field(0).Name)
	md := rec.Schema().Field(4).Metadata
	assert.Equal(t, "s_8", md.Values()[md.FindKey("stype")])

	ints := rec.Column(0).(*array.Int32)
	assert.Equal(t, int32(1), ints.Value(0))
	assert.True(t, ints.IsNull(1))

	floats := rec.Column(1).(*array.Float64)
	assert.Equal(t, 1.5, floats.Value(1))
	assert.True(t, floats.IsNull(2))

	bools := rec.Column(2).(*array.Boolean)
	assert.True(t, bools.Value(0))
	assert.True(t, bools.IsNull(3))

	strs := rec.Column(3).(*array.String)
	assert.Equal(t, "a", strs.Value(0))
	assert.True(t, strs.IsNull(1))

	large := rec.Column(4).(*array.LargeString)
	assert.Equal(t, "", large.Value(1))
	assert.False(t, large.IsNull(1))
}

func TestToRecordThroughView(t *testing.T) {
	dt := sample(t)
	rm, err := rowmapping.NewArray([]int64{4, rowmapping.NA, 0})
	require.NoError(t, err)
	view, err := dt.ApplyMapping(rm, rowmapping.NewColMapping(3, 0))
	require.NoError(t, err)
	defer view.Release(nil)

	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	conv, err := NewConverter(view, []string{"name", "id"}, mem, 2)
	require.NoError(t, err)
	rec, err := conv.Record(context.Background(), 0, view.NRows())
	require.NoError(t, err)
	defer rec.Release()

	assert.Equal(t, "name", rec.ColumnName(0))
	names := rec.Column(0).(*array.String)
	assert.Equal(t, "e", names.Value(0))
	assert.True(t, names.IsNull(1))
	assert.Equal(t, "a", names.Value(2))
	ids := rec.Column(1).(*array.Int32)
	assert.Equal(t, int32(5), ids.Value(0))
	assert.True(t, ids.IsNull(1))
	assert.Equal(t, int32(1), ids.Value(2))
}

func TestConverterErrors(t *testing.T) {
	dt := sample(t)
	_, err := NewConverter(dt, []string{"only"}, nil, 1)
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchema))

	conv, err := NewConverter(dt, nil, nil, 1)
	require.NoError(t, err)
	_, err = conv.Record(context.Background(), 3, 9)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvariant))
}

func TestWriteIPCRoundTrip(t *testing.T) {
	testutil.TestLogger(t)
	dt := sample(t)

	for _, algo := range compression.Algorithms {
		t.Run(string(algo), func(t *testing.T) {
			var buf bytes.Buffer
			sum, err := WriteIPC(context.Background(), &buf, dt, Options{
				Compression: compression.Config{Algorithm: algo, Level: compression.Default},
				BatchRows:   2,
				Workers:     2,
			})
			require.NoError(t, err)
			assert.Equal(t, int64(5), sum.Rows)
			assert.Equal(t, 3, sum.Batches)
			assert.Equal(t, int64(buf.Len()), sum.Bytes)

			schema, recs, err := ReadIPC(&buf, algo, nil)
			require.NoError(t, err)
			defer func() {
				for _, rec := range recs {
					rec.Release()
				}
			}()
			assert.Equal(t, dt.NCols(), len(schema.Fields()))
			require.Len(t, recs, 3)

			var got []interface{}
			for _, rec := range recs {
				strs := rec.Column(3).(*array.String)
				for i := 0; i < strs.Len(); i++ {
					if strs.IsNull(i) {
						got = append(got, nil)
					} else {
						got = append(got, strs.Value(i))
					}
				}
			}
			assert.Equal(t, []interface{}{"a", nil, "c", "d", "e"}, got)
		})
	}
}

func TestWriteFile(t *testing.T) {
	dt := sample(t)
	cfg := config.Default().Export
	cfg.Compression = "zstd"
	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "table.arrow.zst")
	sum, err := WriteFile(context.Background(), path, dt, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Batches)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, recs, err := ReadIPC(f, compression.Zstd, nil)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	defer recs[0].Release()
	assert.Equal(t, int64(5), recs[0].NumRows())
}

func TestWriteEmptyTable(t *testing.T) {
	dt, err := datatable.New(nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	sum, err := WriteIPC(context.Background(), &buf, dt, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Batches)

	schema, recs, err := ReadIPC(&buf, compression.None, nil)
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.Empty(t, schema.Fields())
}

func TestOptionsFromConfigRejectsUnknownCompression(t *testing.T) {
	cfg := config.Default().Export
	cfg.Compression = "brotli"
	_, err := OptionsFromConfig(cfg)
	assert.Error(t, err)
}
