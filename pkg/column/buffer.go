package column

import (
	"encoding/binary"
	"math"

	"github.com/Cheburusska/datatable/pkg/errors"
	"github.com/Cheburusska/datatable/pkg/mmap"
	"github.com/Cheburusska/datatable/pkg/stype"
)

// offsetsView is a typed view over an offsets array of int32 or int64
// little-endian entries.
type offsetsView struct {
	b     []byte
	width int
}

func (v offsetsView) len() int64 {
	if v.width == 0 {
		return 0
	}
	return int64(len(v.b) / v.width)
}

func (v offsetsView) raw(i int64) int64 {
	off := i * int64(v.width)
	if v.width == 4 {
		return int64(int32(binary.LittleEndian.Uint32(v.b[off:])))
	}
	return int64(binary.LittleEndian.Uint64(v.b[off:]))
}

// strLayout holds the sub-views of a string column's combined buffer,
// computed once when the column is created.
type strLayout struct {
	offsets offsetsView
	data    []byte
	// prev is the stored entry preceding offsets[0].
	prev int64
}

// stored returns offsets[i], with i == -1 addressing the predecessor slot.
func (l *strLayout) stored(i int64) int64 {
	if i < 0 {
		return l.prev
	}
	return l.offsets.raw(i)
}

// bounds returns the [start, end) byte range of row i and whether it is NA.
func (l *strLayout) bounds(i int64) (start, end int64, na bool) {
	cur := stype.DecodeOffset(l.stored(i))
	prev := stype.DecodeOffset(l.stored(i - 1))
	return prev.End, cur.End, cur.NA
}

// newStrLayout splits buf into an offsets array and a byte area.
//
// Native layout (offoff >= width):
//
//	[bytes][padding][predecessor slot][offsets x nrows]
//
// with offoff pointing at offsets[0]. When offoff == 0 the offsets come
// first and the byte area follows them; there is no predecessor slot and
// row 0 starts at byte 0.
func newStrLayout(st stype.SType, nrows int64, buf []byte, meta *stype.VarcharMeta) (*strLayout, error) {
	w := int64(st.OffsetSize())
	size := int64(len(buf))
	offoff := meta.OffOff
	if offoff < 0 || offoff > size {
		return nil, errors.New(errors.ErrorTypeFormat, "offoff beyond end of buffer").
			WithDetail("offoff", offoff).
			WithDetail("size", size)
	}
	if nrows > (size-offoff)/w {
		return nil, errors.New(errors.ErrorTypeIO, "buffer too small for offsets").
			WithDetail("size", size).
			WithDetail("offoff", offoff).
			WithDetail("nrows", nrows)
	}
	need := offoff + nrows*w

	l := &strLayout{offsets: offsetsView{b: buf[offoff:need], width: int(w)}}
	if offoff == 0 {
		l.data = buf[need:]
		l.prev = stype.SentinelOffset
	} else {
		if offoff < w {
			return nil, errors.New(errors.ErrorTypeFormat, "offoff leaves no room for predecessor slot").
				WithDetail("offoff", offoff)
		}
		l.data = buf[:offoff-w]
		l.prev = offsetsView{b: buf[offoff-w : offoff], width: int(w)}.raw(0)
	}

	if l.prev == 0 {
		return nil, errors.New(errors.ErrorTypeFormat, "invalid offset predecessor slot").
			WithDetail("offoff", offoff)
	}
	if first := stype.DecodeOffset(l.prev).End; first < 0 || first > int64(len(l.data)) {
		return nil, errors.New(errors.ErrorTypeFormat, "string start beyond data area").
			WithDetail("start", first)
	}
	if err := checkOffsets(l.stored, nrows, int64(len(l.data))); err != nil {
		return nil, err
	}
	return l, nil
}

// checkOffsets walks the stored offsets of nrows rows, stored(-1) being the
// predecessor slot: every entry is non-zero, ends are non-decreasing and
// within a byte area of size bytes, and NA rows are empty. Rows are sliced
// without further bounds checks once it passes.
func checkOffsets(stored func(i int64) int64, nrows, size int64) error {
	prev := stype.DecodeOffset(stored(-1)).End
	for i := int64(0); i < nrows; i++ {
		raw := stored(i)
		if raw == 0 {
			return errors.New(errors.ErrorTypeFormat, "zero offset entry").
				WithDetail("row", i)
		}
		e := stype.DecodeOffset(raw)
		if e.End < prev || e.End > size {
			return errors.New(errors.ErrorTypeFormat, "string offset out of order or bounds").
				WithDetail("row", i).
				WithDetail("start", prev).
				WithDetail("end", e.End).
				WithDetail("data_size", size)
		}
		if e.NA && e.End != prev {
			return errors.New(errors.ErrorTypeFormat, "NA string row has non-zero length").
				WithDetail("row", i)
		}
		prev = e.End
	}
	return nil
}

// Fixed-width element readers. All stored data is little-endian.

func readBits(b []byte, width int, row int64) uint64 {
	off := row * int64(width)
	switch width {
	case 1:
		return uint64(b[off])
	case 2:
		return uint64(binary.LittleEndian.Uint16(b[off:]))
	case 4:
		return uint64(binary.LittleEndian.Uint32(b[off:]))
	default:
		return binary.LittleEndian.Uint64(b[off:])
	}
}

func putBits(b []byte, width int, row int64, bits uint64) {
	off := row * int64(width)
	switch width {
	case 1:
		b[off] = byte(bits)
	case 2:
		binary.LittleEndian.PutUint16(b[off:], uint16(bits))
	case 4:
		binary.LittleEndian.PutUint32(b[off:], uint32(bits))
	default:
		binary.LittleEndian.PutUint64(b[off:], bits)
	}
}

// bitsToInt64 sign-extends a stored integer element.
func bitsToInt64(st stype.SType, bits uint64) int64 {
	switch st {
	case stype.Bool, stype.Int8:
		return int64(int8(bits))
	case stype.Int16:
		return int64(int16(bits))
	case stype.Int32:
		return int64(int32(bits))
	}
	return int64(bits)
}

func bitsToFloat64(st stype.SType, bits uint64) float64 {
	if st == stype.Float32 {
		return float64(math.Float32frombits(uint32(bits)))
	}
	return math.Float64frombits(bits)
}

// ownedRegion wraps heap bytes so that owned and mapped columns share one
// release path.
func ownedRegion(b []byte) *mmap.Region {
	return mmap.FromBytes(b)
}
