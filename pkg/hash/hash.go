// Package hash maps column rows to 64-bit hashes for consumers that bin or
// bucket rows, such as feature hashing in models.
//
// Integers and booleans hash to their value cast to uint64 and floats to the
// bit pattern of the value widened to float64, so equal numbers in
// columns of the same stype always collide. Strings are hashed with xxhash.
// A row that is NA, either stored or produced by an NA mapping entry,
// hashes to the stype's NA sentinel.
package hash

import (
	"context"
	"math"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Cheburusska/datatable/pkg/column"
	"github.com/Cheburusska/datatable/pkg/datatable"
	"github.com/Cheburusska/datatable/pkg/errors"
	"github.com/Cheburusska/datatable/pkg/stype"
)

// minParallelRows is the smallest share of rows worth a goroutine.
const minParallelRows = 4096

// Hasher hashes logical rows of one column.
type Hasher interface {
	Hash(row int64) uint64
	Len() int64
}

// New returns the hasher for r's stype.
func New(r column.Reader) (Hasher, error) {
	if r.Column() == nil {
		return nil, errors.New(errors.ErrorTypeInvariant, "hasher requires a column reader")
	}
	st := r.SType()
	switch {
	case st == stype.Bool || st.IsInteger():
		return intHasher{r: r, na: naInt(st)}, nil
	case st.IsFloat():
		return floatHasher{r: r, na: naFloat(st)}, nil
	case st == stype.Str32:
		return stringHasher{r: r, na: uint64(math.MaxInt32) + 1}, nil
	case st == stype.Str64:
		return stringHasher{r: r, na: uint64(math.MaxInt64) + 1}, nil
	}
	return nil, errors.New(errors.ErrorTypeInvariant, "cannot hash column").
		WithDetail("stype", st.String())
}

func naInt(st stype.SType) uint64 {
	v := int64(stype.NAInt8)
	switch st {
	case stype.Int16:
		v = int64(stype.NAInt16)
	case stype.Int32:
		v = int64(stype.NAInt32)
	case stype.Int64:
		v = stype.NAInt64
	}
	return uint64(v)
}

func naFloat(st stype.SType) uint64 {
	if st == stype.Float32 {
		return math.Float64bits(float64(stype.NAFloat32()))
	}
	return stype.NAFloat64Bits
}

type intHasher struct {
	r  column.Reader
	na uint64
}

func (h intHasher) Len() int64 { return h.r.Len() }

func (h intHasher) Hash(row int64) uint64 {
	v, ok := h.r.Int64(row)
	if !ok {
		return h.na
	}
	return uint64(v)
}

type floatHasher struct {
	r  column.Reader
	na uint64
}

func (h floatHasher) Len() int64 { return h.r.Len() }

func (h floatHasher) Hash(row int64) uint64 {
	v, ok := h.r.Float64(row)
	if !ok {
		return h.na
	}
	return math.Float64bits(v)
}

type stringHasher struct {
	r  column.Reader
	na uint64
}

func (h stringHasher) Len() int64 { return h.r.Len() }

func (h stringHasher) Hash(row int64) uint64 {
	b, ok := h.r.StringBytes(row)
	if !ok {
		return h.na
	}
	return xxhash.Sum64(b)
}

// Column hashes every logical row of r. Rows are split into contiguous
// ranges hashed concurrently by up to workers goroutines.
func Column(ctx context.Context, r column.Reader, workers int) ([]uint64, error) {
	h, err := New(r)
	if err != nil {
		return nil, err
	}
	out := make([]uint64, h.Len())
	if err := fill(ctx, h, out, workers); err != nil {
		return nil, err
	}
	return out, nil
}

func fill(ctx context.Context, h Hasher, out []uint64, workers int) error {
	n := int64(len(out))
	if workers < 1 {
		workers = 1
	}
	if limit := n / minParallelRows; int64(workers) > limit {
		workers = int(limit)
	}
	if workers <= 1 {
		for i := range out {
			out[i] = h.Hash(int64(i))
		}
		return nil
	}

	chunk := (n + int64(workers) - 1) / int64(workers)
	g, ctx := errgroup.WithContext(ctx)
	for from := int64(0); from < n; from += chunk {
		from, to := from, from+chunk
		if to > n {
			to = n
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := from; i < to; i++ {
				out[i] = h.Hash(i)
			}
			return nil
		})
	}
	return g.Wait()
}

// Rows combines the hashes of every column of dt into one hash per row.
// Columns are mixed in order, so permuting columns changes the result.
func Rows(ctx context.Context, dt *datatable.DataTable, workers int) ([]uint64, error) {
	readers, err := dt.Readers()
	if err != nil {
		return nil, err
	}
	out := make([]uint64, dt.NRows())
	col := make([]uint64, dt.NRows())
	for j, r := range readers {
		h, err := New(r)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeInvariant, "cannot hash table").
				WithDetail("column", j)
		}
		if err := fill(ctx, h, col, workers); err != nil {
			return nil, err
		}
		for i, v := range col {
			out[i] = mix(out[i], v)
		}
	}
	return out, nil
}

// mix folds v into seed the way boost::hash_combine does, widened to 64 bits.
func mix(seed, v uint64) uint64 {
	return seed ^ (v + 0x9e3779b97f4a7c15 + (seed << 6) + (seed >> 2))
}
