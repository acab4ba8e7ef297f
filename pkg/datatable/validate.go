package datatable

import (
	"github.com/Cheburusska/datatable/pkg/column"
	"github.com/Cheburusska/datatable/pkg/errors"
)

// Validate checks the structural invariants of dt:
//   - a view's source is a base table;
//   - source and row mapping are either both set or both unset;
//   - every column has the table's row count;
//   - a base table holds data columns, a view holds view columns whose
//     stype equals that of the referenced base column;
//   - the row mapping has nrows entries, all within the source.
func (dt *DataTable) Validate() error {
	if len(dt.columns) != dt.ncols {
		return errors.New(errors.ErrorTypeInvariant, "column count mismatch").
			WithDetail("ncols", dt.ncols).
			WithDetail("columns", len(dt.columns))
	}
	if (dt.source == nil) != (dt.rowmapping == nil) {
		return errors.New(errors.ErrorTypeInvariant, "source and row mapping must be set together").
			WithDetail("has_source", dt.source != nil).
			WithDetail("has_rowmapping", dt.rowmapping != nil)
	}
	if dt.source != nil && dt.source.source != nil {
		return errors.New(errors.ErrorTypeInvariant, "view of a view")
	}

	if dt.rowmapping != nil {
		if dt.rowmapping.Len() != dt.nrows {
			return errors.New(errors.ErrorTypeInvariant, "row mapping length mismatch").
				WithDetail("nrows", dt.nrows).
				WithDetail("rowmapping", dt.rowmapping.Len())
		}
		if err := dt.rowmapping.CheckRange(dt.source.nrows); err != nil {
			return err
		}
	}

	for j, col := range dt.columns {
		if err := dt.validateColumn(j, col); err != nil {
			return err
		}
	}
	return nil
}

func (dt *DataTable) validateColumn(j int, col *column.Column) error {
	if col == nil {
		return errors.New(errors.ErrorTypeInvariant, "nil column").
			WithDetail("column", j)
	}
	if col.NRows() != dt.nrows {
		return errors.New(errors.ErrorTypeInvariant, "column row count mismatch").
			WithDetail("column", j).
			WithDetail("nrows", col.NRows()).
			WithDetail("expected", dt.nrows)
	}

	if dt.source == nil {
		if col.IsView() {
			return errors.New(errors.ErrorTypeInvariant, "view column in a base table").
				WithDetail("column", j)
		}
		return nil
	}

	if !col.IsView() {
		return errors.New(errors.ErrorTypeInvariant, "data column in a view table").
			WithDetail("column", j)
	}
	src := col.SrcIndex()
	if src >= dt.source.ncols {
		return errors.New(errors.ErrorTypeInvariant, "view column source index out of range").
			WithDetail("column", j).
			WithDetail("srcindex", src)
	}
	if want := dt.source.columns[src].SType(); col.SType() != want {
		return errors.New(errors.ErrorTypeInvariant, "view column stype differs from source").
			WithDetail("column", j).
			WithDetail("stype", col.SType().Code()).
			WithDetail("source_stype", want.Code())
	}
	return nil
}
