package column

import (
	"context"

	"golang.org/x/exp/constraints"
	"golang.org/x/sync/errgroup"

	stringpool "github.com/Cheburusska/datatable/pkg/strings"
	"github.com/Cheburusska/datatable/pkg/stype"
)

// Stats are rollup statistics over the logical rows of a Reader.
// Min and Max hold int64 for integer stypes, float64 for floats, bool for
// Bool and string for string stypes; both are nil when every row is NA.
type Stats struct {
	Count   int64
	NACount int64
	Min     interface{}
	Max     interface{}
}

type extremes[T constraints.Ordered] struct {
	min, max T
	seen     bool
}

func (e *extremes[T]) add(v T) {
	if !e.seen {
		e.min, e.max, e.seen = v, v, true
		return
	}
	if v < e.min {
		e.min = v
	}
	if v > e.max {
		e.max = v
	}
}

func (e *extremes[T]) merge(o extremes[T]) {
	if !o.seen {
		return
	}
	e.add(o.min)
	e.add(o.max)
}

type partial struct {
	count, na int64
	ints      extremes[int64]
	floats    extremes[float64]
	strs      extremes[string]
}

func (p *partial) merge(o *partial) {
	p.count += o.count
	p.na += o.na
	p.ints.merge(o.ints)
	p.floats.merge(o.floats)
	p.strs.merge(o.strs)
}

func scan(r Reader, from, to int64) *partial {
	p := &partial{}
	st := r.SType()
	for i := from; i < to; i++ {
		switch {
		case st.IsString():
			s, ok := r.String(i)
			if !ok {
				p.na++
				continue
			}
			p.strs.add(s)
		case st.IsFloat():
			v, ok := r.Float64(i)
			if !ok {
				p.na++
				continue
			}
			p.floats.add(v)
		default:
			v, ok := r.Int64(i)
			if !ok {
				p.na++
				continue
			}
			p.ints.add(v)
		}
		p.count++
	}
	return p
}

// ComputeStats scans r sequentially.
func ComputeStats(r Reader) Stats {
	return finish(r.SType(), scan(r, 0, r.Len()))
}

// ComputeStatsParallel splits the rows of r into one range per worker and
// scans them concurrently. The column must not be released until it returns.
func ComputeStatsParallel(ctx context.Context, r Reader, workers int) (Stats, error) {
	n := r.Len()
	if workers <= 1 || n < int64(workers)*1024 {
		return ComputeStats(r), nil
	}

	parts := make([]*partial, workers)
	chunk := (n + int64(workers) - 1) / int64(workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		from := int64(w) * chunk
		to := from + chunk
		if to > n {
			to = n
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			parts[w] = scan(r, from, to)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	total := &partial{}
	for _, p := range parts {
		total.merge(p)
	}
	return finish(r.SType(), total), nil
}

func finish(st stype.SType, p *partial) Stats {
	s := Stats{Count: p.count, NACount: p.na}
	switch {
	case st.IsString():
		if p.strs.seen {
			// Clone so the stats outlive a mapped buffer.
			s.Min, s.Max = stringpool.Clone(p.strs.min), stringpool.Clone(p.strs.max)
		}
	case st.IsFloat():
		if p.floats.seen {
			s.Min, s.Max = p.floats.min, p.floats.max
		}
	case st == stype.Bool:
		if p.ints.seen {
			s.Min, s.Max = p.ints.min != 0, p.ints.max != 0
		}
	default:
		if p.ints.seen {
			s.Min, s.Max = p.ints.min, p.ints.max
		}
	}
	return s
}
