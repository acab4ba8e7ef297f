// Package export converts DataTables into Apache Arrow record batches and
// writes them as Arrow IPC files, optionally wrapped in a compression
// stream. Views are exported through their row mapping; NA values become
// Arrow nulls.
package export

import (
	"context"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"golang.org/x/sync/errgroup"

	"github.com/Cheburusska/datatable/pkg/column"
	"github.com/Cheburusska/datatable/pkg/datatable"
	"github.com/Cheburusska/datatable/pkg/errors"
	"github.com/Cheburusska/datatable/pkg/stype"
)

// DataType returns the Arrow type a column of st is exported as.
func DataType(st stype.SType) (arrow.DataType, error) {
	switch st {
	case stype.Bool:
		return arrow.FixedWidthTypes.Boolean, nil
	case stype.Int8:
		return arrow.PrimitiveTypes.Int8, nil
	case stype.Int16:
		return arrow.PrimitiveTypes.Int16, nil
	case stype.Int32:
		return arrow.PrimitiveTypes.Int32, nil
	case stype.Int64:
		return arrow.PrimitiveTypes.Int64, nil
	case stype.Float32:
		return arrow.PrimitiveTypes.Float32, nil
	case stype.Float64:
		return arrow.PrimitiveTypes.Float64, nil
	case stype.Str32:
		return arrow.BinaryTypes.String, nil
	case stype.Str64:
		return arrow.BinaryTypes.LargeString, nil
	}
	return nil, errors.New(errors.ErrorTypeInvariant, "stype has no arrow type").
		WithDetail("stype", st.String())
}

// ColumnName returns the default field name of column j.
func ColumnName(j int) string {
	return "C" + strconv.Itoa(j)
}

// Schema builds the Arrow schema of dt. names overrides the default field
// names when it has one entry per column.
func Schema(dt *datatable.DataTable, names []string) (*arrow.Schema, error) {
	if names != nil && len(names) != dt.NCols() {
		return nil, errors.New(errors.ErrorTypeSchema, "one name per column required").
			WithDetail("names", len(names)).
			WithDetail("ncols", dt.NCols())
	}
	fields := make([]arrow.Field, dt.NCols())
	for j := range fields {
		col := dt.Column(j)
		dtype, err := DataType(col.SType())
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeInvariant, "cannot build schema").
				WithDetail("column", j)
		}
		name := ColumnName(j)
		if names != nil {
			name = names[j]
		}
		fields[j] = arrow.Field{
			Name:     name,
			Type:     dtype,
			Nullable: true,
			Metadata: arrow.NewMetadata([]string{"stype"}, []string{col.SType().Code()}),
		}
	}
	return arrow.NewSchema(fields, nil), nil
}

// Converter builds Arrow records from row ranges of one table.
type Converter struct {
	dt      *datatable.DataTable
	schema  *arrow.Schema
	readers []column.Reader
	mem     memory.Allocator
	workers int
}

// NewConverter prepares dt for conversion. mem defaults to the Go
// allocator; workers bounds how many columns are converted at once.
func NewConverter(dt *datatable.DataTable, names []string, mem memory.Allocator, workers int) (*Converter, error) {
	schema, err := Schema(dt, names)
	if err != nil {
		return nil, err
	}
	readers, err := dt.Readers()
	if err != nil {
		return nil, err
	}
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	if workers < 1 {
		workers = 1
	}
	return &Converter{dt: dt, schema: schema, readers: readers, mem: mem, workers: workers}, nil
}

// Schema returns the schema of every record built by c.
func (c *Converter) Schema() *arrow.Schema { return c.schema }

// Record converts logical rows [from, to) into a record. The caller
// releases it.
func (c *Converter) Record(ctx context.Context, from, to int64) (arrow.Record, error) {
	if from < 0 || to < from || to > c.dt.NRows() {
		return nil, errors.New(errors.ErrorTypeInvariant, "row range out of bounds").
			WithDetail("from", from).
			WithDetail("to", to).
			WithDetail("nrows", c.dt.NRows())
	}

	arrays := make([]arrow.Array, len(c.readers))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for j := range c.readers {
		j := j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			arr, err := buildArray(c.mem, c.readers[j], from, to)
			if err != nil {
				return errors.Wrap(err, errors.ErrorTypeInvariant, "cannot convert column").
					WithDetail("column", j)
			}
			arrays[j] = arr
			return nil
		})
	}
	err := g.Wait()
	defer func() {
		for _, arr := range arrays {
			if arr != nil {
				arr.Release()
			}
		}
	}()
	if err != nil {
		return nil, err
	}
	return array.NewRecord(c.schema, arrays, to-from), nil
}

// ToRecord converts every row of dt into a single record with default
// field names. The caller releases it.
func ToRecord(dt *datatable.DataTable) (arrow.Record, error) {
	c, err := NewConverter(dt, nil, nil, 1)
	if err != nil {
		return nil, err
	}
	return c.Record(context.Background(), 0, dt.NRows())
}

func buildArray(mem memory.Allocator, r column.Reader, from, to int64) (arrow.Array, error) {
	n := int(to - from)
	switch r.SType() {
	case stype.Bool:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		b.Reserve(n)
		for i := from; i < to; i++ {
			if v, ok := r.Bool(i); ok {
				b.UnsafeAppend(v)
			} else {
				b.UnsafeAppendBoolToBitmap(false)
			}
		}
		return b.NewArray(), nil
	case stype.Int8:
		b := array.NewInt8Builder(mem)
		defer b.Release()
		appendInts(b, r, from, to, func(v int64) int8 { return int8(v) })
		return b.NewArray(), nil
	case stype.Int16:
		b := array.NewInt16Builder(mem)
		defer b.Release()
		appendInts(b, r, from, to, func(v int64) int16 { return int16(v) })
		return b.NewArray(), nil
	case stype.Int32:
		b := array.NewInt32Builder(mem)
		defer b.Release()
		appendInts(b, r, from, to, func(v int64) int32 { return int32(v) })
		return b.NewArray(), nil
	case stype.Int64:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		appendInts(b, r, from, to, func(v int64) int64 { return v })
		return b.NewArray(), nil
	case stype.Float32:
		b := array.NewFloat32Builder(mem)
		defer b.Release()
		appendFloats(b, r, from, to, func(v float64) float32 { return float32(v) })
		return b.NewArray(), nil
	case stype.Float64:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		appendFloats(b, r, from, to, func(v float64) float64 { return v })
		return b.NewArray(), nil
	case stype.Str32:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		appendStrings(b, r, from, to)
		return b.NewArray(), nil
	case stype.Str64:
		b := array.NewLargeStringBuilder(mem)
		defer b.Release()
		appendStrings(b, r, from, to)
		return b.NewArray(), nil
	}
	return nil, errors.New(errors.ErrorTypeInvariant, "stype has no arrow type").
		WithDetail("stype", r.SType().String())
}

type builder[T any] interface {
	Append(T)
	AppendNull()
	Reserve(int)
}

func appendInts[T any](b builder[T], r column.Reader, from, to int64, conv func(int64) T) {
	b.Reserve(int(to - from))
	for i := from; i < to; i++ {
		if v, ok := r.Int64(i); ok {
			b.Append(conv(v))
		} else {
			b.AppendNull()
		}
	}
}

func appendFloats[T any](b builder[T], r column.Reader, from, to int64, conv func(float64) T) {
	b.Reserve(int(to - from))
	for i := from; i < to; i++ {
		if v, ok := r.Float64(i); ok {
			b.Append(conv(v))
		} else {
			b.AppendNull()
		}
	}
}

func appendStrings(b builder[string], r column.Reader, from, to int64) {
	b.Reserve(int(to - from))
	for i := from; i < to; i++ {
		// Append copies the bytes, so the unsafe view of the buffer is fine.
		if v, ok := r.String(i); ok {
			b.Append(v)
		} else {
			b.AppendNull()
		}
	}
}
