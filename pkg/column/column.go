// Package column implements the typed columns of a DataTable.
//
// A Column is either a data column, owning a heap buffer or a read-only
// memory-mapped file region, or a view column that holds no buffer and
// instead names a column of its table's source by index. View columns are
// read through a Reader that pairs the source column with the owning
// table's row mapping.
package column

import (
	"github.com/Cheburusska/datatable/pkg/errors"
	"github.com/Cheburusska/datatable/pkg/mmap"
	stringpool "github.com/Cheburusska/datatable/pkg/strings"
	"github.com/Cheburusska/datatable/pkg/stype"
)

// MType describes where a column's values live.
type MType string

const (
	MTypeData MType = "data"
	MTypeMmap MType = "mmap"
	MTypeView MType = "view"
)

// Column is a single typed sequence of nrows values.
type Column struct {
	stype stype.SType
	meta  stype.Meta
	nrows int64

	// data variant
	region *mmap.Region
	str    *strLayout

	// view variant; -1 for data columns
	srcIndex int
}

func newDataColumn(st stype.SType, nrows int64, region *mmap.Region, meta stype.Meta) (*Column, error) {
	if !st.Valid() {
		return nil, errors.New(errors.ErrorTypeFormat, "invalid stype").
			WithDetail("stype", st.Code())
	}
	if nrows < 0 {
		return nil, errors.New(errors.ErrorTypeInvariant, "negative row count").
			WithDetail("nrows", nrows)
	}

	c := &Column{stype: st, meta: meta, nrows: nrows, region: region, srcIndex: -1}
	buf := region.Bytes()

	if st.IsString() {
		vm, ok := meta.(*stype.VarcharMeta)
		if !ok || vm == nil {
			return nil, errors.New(errors.ErrorTypeFormat, "string column requires offoff meta").
				WithDetail("stype", st.Code())
		}
		l, err := newStrLayout(st, nrows, buf, vm)
		if err != nil {
			return nil, err
		}
		c.str = l
		return c, nil
	}

	if nrows > int64(len(buf))/int64(st.ElemSize()) {
		return nil, errors.New(errors.ErrorTypeIO, "buffer too small for column").
			WithDetail("stype", st.Code()).
			WithDetail("size", len(buf)).
			WithDetail("nrows", nrows)
	}
	return c, nil
}

// NewData creates an owned data column over buf. For string stypes meta must
// be a *stype.VarcharMeta describing the layout of buf.
func NewData(st stype.SType, nrows int64, buf []byte, meta stype.Meta) (*Column, error) {
	return newDataColumn(st, nrows, ownedRegion(buf), meta)
}

// NewView creates a view column deferring to column srcIndex of the owning
// table's source. It performs no I/O and copies nothing.
func NewView(srcIndex int, st stype.SType, nrows int64) *Column {
	return &Column{stype: st, nrows: nrows, srcIndex: srcIndex}
}

// SType returns the column's storage type.
func (c *Column) SType() stype.SType { return c.stype }

// Meta returns the metadata record, nil for stypes without one.
func (c *Column) Meta() stype.Meta { return c.meta }

// NRows returns the logical row count.
func (c *Column) NRows() int64 { return c.nrows }

// IsView reports whether the column defers to a source column.
func (c *Column) IsView() bool { return c.region == nil && c.srcIndex >= 0 }

// SrcIndex returns the source column index of a view column, or -1.
func (c *Column) SrcIndex() int {
	if c.region != nil {
		return -1
	}
	return c.srcIndex
}

// MType reports whether the column is a view, heap data or mapped data.
func (c *Column) MType() MType {
	switch {
	case c.region == nil:
		return MTypeView
	case c.region.Mapped():
		return MTypeMmap
	default:
		return MTypeData
	}
}

// Mapped reports whether the column buffer is a memory-mapped file region.
func (c *Column) Mapped() bool {
	return c.region != nil && c.region.Mapped()
}

// DataSize returns the size of the column's buffer in bytes; 0 for views.
func (c *Column) DataSize() int64 {
	if c.region == nil {
		return 0
	}
	return c.region.Len()
}

// Bytes returns the whole buffer of a data column, nil for views.
func (c *Column) Bytes() []byte {
	if c.region == nil {
		return nil
	}
	return c.region.Bytes()
}

// DataPointer returns a read-only view of the buffer starting at byteOffset.
// It returns nil for view columns and out-of-range offsets. The slice is
// valid until Release.
func (c *Column) DataPointer(byteOffset int64) []byte {
	if c.region == nil {
		return nil
	}
	b := c.region.Bytes()
	if byteOffset < 0 || byteOffset > int64(len(b)) {
		return nil
	}
	return b[byteOffset:]
}

// StrData returns the byte area of a string column.
func (c *Column) StrData() []byte {
	if c.str == nil {
		return nil
	}
	return c.str.data
}

// Offset returns the stored offsets entry i of a string column; i == -1
// addresses the predecessor slot.
func (c *Column) Offset(i int64) int64 {
	return c.str.stored(i)
}

// Release frees the column buffer, unmapping it if it is mapped. View
// columns own nothing and release nothing.
func (c *Column) Release() error {
	if c.region == nil {
		return nil
	}
	err := c.region.Close()
	c.region = nil
	c.str = nil
	c.srcIndex = -1
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to release column buffer")
	}
	return nil
}

// Element access on data columns. row is a physical row of this column.

// Bits returns the raw stored element of a fixed-width column widened to
// 64 bits.
func (c *Column) Bits(row int64) uint64 {
	return readBits(c.region.Bytes(), c.stype.ElemSize(), row)
}

// IsNA reports whether row holds the stype's NA marker.
func (c *Column) IsNA(row int64) bool {
	if c.str != nil {
		return stype.DecodeOffset(c.str.stored(row)).NA
	}
	return c.stype.IsNABits(c.Bits(row))
}

// Int64 returns an integer or boolean element; ok is false for NA.
func (c *Column) Int64(row int64) (v int64, ok bool) {
	bits := c.Bits(row)
	if c.stype.IsNABits(bits) {
		return 0, false
	}
	if c.stype.IsFloat() {
		return int64(bitsToFloat64(c.stype, bits)), true
	}
	return bitsToInt64(c.stype, bits), true
}

// Float64 returns a numeric element widened to float64; ok is false for NA.
func (c *Column) Float64(row int64) (v float64, ok bool) {
	bits := c.Bits(row)
	if c.stype.IsNABits(bits) {
		return 0, false
	}
	if c.stype.IsFloat() {
		return bitsToFloat64(c.stype, bits), true
	}
	return float64(bitsToInt64(c.stype, bits)), true
}

// Bool returns a boolean element; ok is false for NA.
func (c *Column) Bool(row int64) (v bool, ok bool) {
	bits := c.Bits(row)
	if c.stype.IsNABits(bits) {
		return false, false
	}
	return int8(bits) != 0, true
}

// StringBytes returns the bytes of a string row without copying; ok is false
// for NA.
func (c *Column) StringBytes(row int64) (b []byte, ok bool) {
	start, end, na := c.str.bounds(row)
	if na {
		return nil, false
	}
	return c.str.data[start:end], true
}

// String returns a string row. The result shares memory with the column
// buffer and is only valid until Release.
func (c *Column) String(row int64) (s string, ok bool) {
	b, ok := c.StringBytes(row)
	if !ok {
		return "", false
	}
	return stringpool.BytesToString(b), true
}

// Value returns row as a Go value of the stype's natural type, or nil for NA.
func (c *Column) Value(row int64) interface{} {
	switch c.stype {
	case stype.Str32, stype.Str64:
		if s, ok := c.String(row); ok {
			return stringpool.Clone(s)
		}
		return nil
	case stype.Bool:
		if v, ok := c.Bool(row); ok {
			return v
		}
		return nil
	case stype.Float32:
		if v, ok := c.Float64(row); ok {
			return float32(v)
		}
		return nil
	case stype.Float64:
		if v, ok := c.Float64(row); ok {
			return v
		}
		return nil
	}

	v, ok := c.Int64(row)
	if !ok {
		return nil
	}
	switch c.stype {
	case stype.Int8:
		return int8(v)
	case stype.Int16:
		return int16(v)
	case stype.Int32:
		return int32(v)
	}
	return v
}
