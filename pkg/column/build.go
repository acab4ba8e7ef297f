package column

import (
	"math"

	"github.com/Cheburusska/datatable/pkg/errors"
	"github.com/Cheburusska/datatable/pkg/stype"
)

// Constructors for owned columns holding computed data. NA elements are
// written with the stype's sentinel; callers of FromFloat* may pass
// stype.NAFloat64() or any NaN.

func fromFixed[T any](st stype.SType, vals []T, bits func(T) uint64) *Column {
	w := st.ElemSize()
	buf := make([]byte, len(vals)*w)
	for i, v := range vals {
		putBits(buf, w, int64(i), bits(v))
	}
	return &Column{stype: st, nrows: int64(len(vals)), region: ownedRegion(buf), srcIndex: -1}
}

// FromBools builds a Bool column; rows where na[i] is true are NA. na may be
// nil.
func FromBools(vals []bool, na []bool) *Column {
	buf := make([]byte, len(vals))
	for i, v := range vals {
		switch {
		case i < len(na) && na[i]:
			buf[i] = 0x80
		case v:
			buf[i] = 1
		}
	}
	return &Column{stype: stype.Bool, nrows: int64(len(vals)), region: ownedRegion(buf), srcIndex: -1}
}

func FromInt8s(vals []int8) *Column {
	return fromFixed(stype.Int8, vals, func(v int8) uint64 { return uint64(uint8(v)) })
}

func FromInt16s(vals []int16) *Column {
	return fromFixed(stype.Int16, vals, func(v int16) uint64 { return uint64(uint16(v)) })
}

func FromInt32s(vals []int32) *Column {
	return fromFixed(stype.Int32, vals, func(v int32) uint64 { return uint64(uint32(v)) })
}

func FromInt64s(vals []int64) *Column {
	return fromFixed(stype.Int64, vals, func(v int64) uint64 { return uint64(v) })
}

func FromFloat32s(vals []float32) *Column {
	return fromFixed(stype.Float32, vals, func(v float32) uint64 {
		if v != v {
			return uint64(stype.NAFloat32Bits)
		}
		return uint64(math.Float32bits(v))
	})
}

func FromFloat64s(vals []float64) *Column {
	return fromFixed(stype.Float64, vals, func(v float64) uint64 {
		if math.IsNaN(v) {
			return stype.NAFloat64Bits
		}
		return math.Float64bits(v)
	})
}

// FromStrings builds a string column of stype st (Str32 or Str64) in the
// native layout. Rows where na[i] is true are NA; na may be nil.
func FromStrings(st stype.SType, vals []string, na []bool) (*Column, error) {
	b := newStrBuilder(st, len(vals))
	for i, s := range vals {
		if i < len(na) && na[i] {
			b.appendNA()
			continue
		}
		b.append([]byte(s))
	}
	return b.build()
}

// strBuilder accumulates rows of a string column and lays them out as
// [bytes][padding][sentinel][offsets].
type strBuilder struct {
	st   stype.SType
	data []byte
	ends []int64
	nas  []bool
}

func newStrBuilder(st stype.SType, capacity int) *strBuilder {
	return &strBuilder{
		st:   st,
		ends: make([]int64, 0, capacity),
		nas:  make([]bool, 0, capacity),
	}
}

func (b *strBuilder) append(s []byte) {
	b.data = append(b.data, s...)
	b.ends = append(b.ends, int64(len(b.data)))
	b.nas = append(b.nas, false)
}

func (b *strBuilder) appendNA() {
	b.ends = append(b.ends, int64(len(b.data)))
	b.nas = append(b.nas, true)
}

func (b *strBuilder) build() (*Column, error) {
	if !b.st.IsString() {
		return nil, errors.New(errors.ErrorTypeInvariant, "not a string stype").
			WithDetail("stype", b.st.Code())
	}
	w := int64(b.st.OffsetSize())
	if w == 4 && int64(len(b.data)) >= math.MaxInt32 {
		return nil, errors.New(errors.ErrorTypeInvariant, "string data too large for str32").
			WithDetail("size", len(b.data))
	}

	dataLen := int64(len(b.data))
	padded := (dataLen + w - 1) / w * w
	offoff := padded + w
	nrows := int64(len(b.ends))

	buf := make([]byte, offoff+nrows*w)
	copy(buf, b.data)
	sentinel := stype.SentinelOffset
	putBits(buf[padded:], int(w), 0, uint64(sentinel))
	offs := buf[offoff:]
	for i, end := range b.ends {
		putBits(offs, int(w), int64(i), uint64(stype.EncodeOffset(end, b.nas[i])))
	}

	return NewData(b.st, nrows, buf, &stype.VarcharMeta{OffOff: offoff})
}

// Materialize copies the logical rows of r into a new owned data column of
// the same stype. Rows that map to no source row become NA.
func Materialize(r Reader) (*Column, error) {
	n := r.Len()
	st := r.SType()

	if st.IsString() {
		b := newStrBuilder(st, int(n))
		for i := int64(0); i < n; i++ {
			s, ok := r.StringBytes(i)
			if !ok {
				b.appendNA()
				continue
			}
			b.append(s)
		}
		return b.build()
	}

	w := st.ElemSize()
	na, _ := st.NABits()
	buf := make([]byte, n*int64(w))
	for i := int64(0); i < n; i++ {
		row, ok := r.Row(i)
		bits := na
		if ok {
			bits = r.col.Bits(row)
		}
		putBits(buf, w, i, bits)
	}
	return NewData(st, n, buf, nil)
}
