// Package rowmapping translates the rows and columns of a view table into
// rows and columns of its source table.
package rowmapping

import (
	"github.com/RoaringBitmap/roaring"

	"github.com/Cheburusska/datatable/pkg/errors"
)

// NA is the index stored for a view row that has no source row.
const NA int64 = -1

// Type identifies the representation of a RowMapping.
type Type uint8

const (
	// TypeSlice is an arithmetic progression start, start+step, ...
	TypeSlice Type = iota
	// TypeArray is an explicit list of indices.
	TypeArray
)

func (t Type) String() string {
	if t == TypeSlice {
		return "slice"
	}
	return "array"
}

// RowMapping is an ordered sequence of source row indices, each either a
// non-negative row or NA. Both representations answer At identically.
// A RowMapping is immutable once created and never shares its index
// storage with another mapping.
type RowMapping struct {
	typ    Type
	length int64

	// slice
	start, step int64

	// array
	indices []int64
}

// NewSlice returns the mapping start, start+step, ..., with count entries.
// step may be zero or negative, but every produced index must be
// non-negative.
func NewSlice(start, count, step int64) (*RowMapping, error) {
	if count < 0 {
		return nil, errors.New(errors.ErrorTypeInvariant, "negative row mapping length").
			WithDetail("count", count)
	}
	if count > 0 {
		if start < 0 || start+(count-1)*step < 0 {
			return nil, errors.New(errors.ErrorTypeInvariant, "slice row mapping produces negative index").
				WithDetail("start", start).
				WithDetail("count", count).
				WithDetail("step", step)
		}
	}
	return &RowMapping{typ: TypeSlice, length: count, start: start, step: step}, nil
}

// Identity maps n rows onto themselves.
func Identity(n int64) *RowMapping {
	rm, _ := NewSlice(0, n, 1)
	return rm
}

// NewArray returns a mapping over a copy of indices. Negative entries other
// than NA are rejected.
func NewArray(indices []int64) (*RowMapping, error) {
	cp := make([]int64, len(indices))
	for i, v := range indices {
		if v < NA {
			return nil, errors.New(errors.ErrorTypeInvariant, "invalid row index in mapping").
				WithDetail("position", i).
				WithDetail("value", v)
		}
		cp[i] = v
	}
	return &RowMapping{typ: TypeArray, length: int64(len(cp)), indices: cp}, nil
}

// FromBitmap returns an array mapping selecting the rows set in bm, in
// ascending order. The bitmap is not retained.
func FromBitmap(bm *roaring.Bitmap) *RowMapping {
	idx := make([]int64, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		idx = append(idx, int64(it.Next()))
	}
	return &RowMapping{typ: TypeArray, length: int64(len(idx)), indices: idx}
}

// MaxBitmapRows is the largest row count a roaring bitmap selection can
// address.
const MaxBitmapRows int64 = 1 << 32

// FromFilter returns the mapping of rows i in [0, n) for which keep(i) is
// true. n must not exceed MaxBitmapRows.
func FromFilter(n int64, keep func(row int64) bool) (*RowMapping, error) {
	if n < 0 || n > MaxBitmapRows {
		return nil, errors.New(errors.ErrorTypeInvariant, "filter row count out of bitmap range").
			WithDetail("nrows", n).
			WithDetail("limit", MaxBitmapRows)
	}
	bm := roaring.New()
	for i := int64(0); i < n; i++ {
		if keep(i) {
			bm.Add(uint32(i))
		}
	}
	return FromBitmap(bm), nil
}

// Type returns the representation in use.
func (rm *RowMapping) Type() Type { return rm.typ }

// IsSlice reports whether rm is an arithmetic progression.
func (rm *RowMapping) IsSlice() bool { return rm.typ == TypeSlice }

// Len returns the number of view rows.
func (rm *RowMapping) Len() int64 { return rm.length }

// At returns the source row of view row i, or NA.
func (rm *RowMapping) At(i int64) int64 {
	if rm.typ == TypeSlice {
		return rm.start + i*rm.step
	}
	return rm.indices[i]
}

// Slice returns the progression parameters of a slice mapping.
func (rm *RowMapping) Slice() (start, count, step int64, ok bool) {
	if rm.typ != TypeSlice {
		return 0, 0, 0, false
	}
	return rm.start, rm.length, rm.step, true
}

// Indices returns a copy of the mapping as an explicit index list.
func (rm *RowMapping) Indices() []int64 {
	out := make([]int64, rm.length)
	if rm.typ == TypeArray {
		copy(out, rm.indices)
		return out
	}
	for i := range out {
		out[i] = rm.start + int64(i)*rm.step
	}
	return out
}

// Bounds returns the smallest and largest non-NA source rows. ok is false
// when the mapping has no such rows.
func (rm *RowMapping) Bounds() (lo, hi int64, ok bool) {
	if rm.length == 0 {
		return 0, 0, false
	}
	if rm.typ == TypeSlice {
		lo, hi = rm.start, rm.start+(rm.length-1)*rm.step
		if lo > hi {
			lo, hi = hi, lo
		}
		return lo, hi, true
	}
	for _, v := range rm.indices {
		if v == NA {
			continue
		}
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, ok
}

// CheckRange returns an invariant error when rm references a row outside a
// source of nrows rows.
func (rm *RowMapping) CheckRange(nrows int64) error {
	_, hi, ok := rm.Bounds()
	if ok && hi >= nrows {
		return errors.New(errors.ErrorTypeInvariant, "row mapping index out of range").
			WithDetail("index", hi).
			WithDetail("nrows", nrows)
	}
	return nil
}

// Compose returns the mapping equivalent to applying rm first and then
// next: view row i of the result maps to rm.At(next.At(i)). NA entries of
// next stay NA. Two slices compose into a slice.
func (rm *RowMapping) Compose(next *RowMapping) (*RowMapping, error) {
	if err := next.CheckRange(rm.length); err != nil {
		return nil, err
	}

	if rm.typ == TypeSlice && next.typ == TypeSlice {
		if next.length == 0 {
			return NewSlice(0, 0, 1)
		}
		return NewSlice(rm.start+next.start*rm.step, next.length, rm.step*next.step)
	}

	out := make([]int64, next.length)
	for i := range out {
		j := next.At(int64(i))
		if j == NA {
			out[i] = NA
			continue
		}
		out[i] = rm.At(j)
	}
	return &RowMapping{typ: TypeArray, length: next.length, indices: out}, nil
}

// Bitmap returns the set of non-NA source rows referenced by rm.
func (rm *RowMapping) Bitmap() *roaring.Bitmap {
	bm := roaring.New()
	for i := int64(0); i < rm.length; i++ {
		if v := rm.At(i); v != NA {
			bm.Add(uint32(v))
		}
	}
	return bm
}
