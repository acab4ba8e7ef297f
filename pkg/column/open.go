package column

import (
	stderrors "errors"
	"io/fs"

	"github.com/Cheburusska/datatable/pkg/errors"
	"github.com/Cheburusska/datatable/pkg/mmap"
	"github.com/Cheburusska/datatable/pkg/stype"
)

// OpenMapped opens the column file at path, preferably by memory-mapping it,
// and returns a data column that owns the mapping.
//
// The meta string is parsed for st first (format error on failure), then the
// file is opened (io error if missing or unreadable) and its size is checked
// against nrows (io error if too small). String columns additionally get
// their offsets sub-view checked for consistency (format error).
func OpenMapped(st stype.SType, nrows int64, path, meta string, opts ...mmap.Option) (*Column, error) {
	if !st.Valid() {
		return nil, errors.New(errors.ErrorTypeFormat, "invalid stype").
			WithDetail("path", path)
	}

	m, err := stype.ParseMeta(st, meta)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFormat, "invalid column meta").
			WithDetail("path", path)
	}

	region, err := mmap.Open(path, opts...)
	if err != nil {
		msg := "cannot open column file"
		if stderrors.Is(err, fs.ErrNotExist) {
			msg = "column file not found"
		}
		return nil, errors.Wrap(err, errors.ErrorTypeIO, msg).
			WithDetail("path", path)
	}

	col, err := newDataColumn(st, nrows, region, m)
	if err != nil {
		_ = region.Close()
		return nil, errors.Wrap(err, errors.TypeOf(err), "cannot open column").
			WithDetail("path", path)
	}
	return col, nil
}
