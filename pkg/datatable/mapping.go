package datatable

import (
	"go.uber.org/zap"

	"github.com/Cheburusska/datatable/pkg/column"
	"github.com/Cheburusska/datatable/pkg/errors"
	"github.com/Cheburusska/datatable/pkg/logger"
	"github.com/Cheburusska/datatable/pkg/metrics"
	"github.com/Cheburusska/datatable/pkg/rowmapping"
)

// ApplyMapping returns a view of dt with rm.Len() rows and the columns
// selected by cm, or all columns when cm is the zero ColMapping.
//
// When dt is a base table the view's source is dt. When dt is itself a view
// the new view reads straight from dt's base: its row mapping is dt's
// mapping composed with rm and its columns reference the base columns that
// dt's columns reference. Indices of rm that fall outside dt and column
// indices outside dt are invariant errors. The view owns a row mapping of
// its own and shares nothing with rm.
func (dt *DataTable) ApplyMapping(rm *rowmapping.RowMapping, cm rowmapping.ColMapping) (*DataTable, error) {
	if rm == nil {
		return nil, errors.New(errors.ErrorTypeInvariant, "view requires a row mapping")
	}
	if cm.IsZero() {
		cm = rowmapping.AllColumns(dt.ncols)
	}
	if err := cm.CheckRange(dt.ncols); err != nil {
		return nil, err
	}

	base := dt
	var (
		mapping *rowmapping.RowMapping
		err     error
	)
	if dt.source != nil {
		base = dt.source
		mapping, err = dt.rowmapping.Compose(rm)
	} else {
		// Composing with the identity copies rm and range-checks it.
		mapping, err = rowmapping.Identity(dt.nrows).Compose(rm)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInvariant, "cannot apply row mapping").
			WithDetail("nrows", dt.nrows)
	}

	view := &DataTable{
		nrows:      mapping.Len(),
		ncols:      cm.Len(),
		source:     base,
		rowmapping: mapping,
		columns:    make([]*column.Column, cm.Len()),
	}
	for j := 0; j < cm.Len(); j++ {
		src := dt.columns[cm.At(j)]
		srcIndex := cm.At(j)
		if src.IsView() {
			srcIndex = src.SrcIndex()
		}
		view.columns[j] = column.NewView(srcIndex, src.SType(), mapping.Len())
	}

	metrics.ViewsCreated.WithLabelValues(mapping.Type().String()).Inc()
	logger.Debug("view created",
		zap.Int64("nrows", view.nrows),
		zap.Int("ncols", view.ncols),
		zap.Stringer("rowmapping", mapping.Type()),
		zap.Bool("composed", dt.source != nil),
	)
	return view, nil
}
