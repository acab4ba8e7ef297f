// Package nff loads and saves tables in NFF, a directory holding one raw
// file per column plus a colspec table describing them.
//
// The colspec has exactly three str32 columns: file name, three-character
// stype code and meta string. Row i of the colspec describes column i of
// the table. Column files are memory-mapped when possible, so a loaded
// table must be released before its directory is removed on platforms that
// forbid deleting open files.
package nff

import (
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/Cheburusska/datatable/pkg/column"
	"github.com/Cheburusska/datatable/pkg/config"
	"github.com/Cheburusska/datatable/pkg/datatable"
	"github.com/Cheburusska/datatable/pkg/errors"
	"github.com/Cheburusska/datatable/pkg/logger"
	"github.com/Cheburusska/datatable/pkg/metrics"
	"github.com/Cheburusska/datatable/pkg/stype"
)

// ColspecNCols is the number of columns of a colspec table.
const ColspecNCols = 3

// Colspec column positions.
const (
	ColspecFile = iota
	ColspecSType
	ColspecMeta
)

// Loader opens NFF directories with a fixed configuration. A Loader holds
// no per-load state and may be used concurrently.
type Loader struct {
	cfg config.LoaderConfig
}

// NewLoader returns a loader for cfg. Invalid bounds fall back to the
// defaults.
func NewLoader(cfg config.LoaderConfig) *Loader {
	def := config.DefaultLoader()
	if cfg.MaxFilenameLen <= 0 {
		cfg.MaxFilenameLen = def.MaxFilenameLen
	}
	if cfg.MaxPathLen <= 0 {
		cfg.MaxPathLen = def.MaxPathLen
	}
	if cfg.MaxMetaLen <= 0 {
		cfg.MaxMetaLen = def.MaxMetaLen
	}
	return &Loader{cfg: cfg}
}

var defaultLoader = NewLoader(config.DefaultLoader())

// Load builds a table from colspec with the default loader configuration.
func Load(colspec *datatable.DataTable, nrows int64, dir string) (*datatable.DataTable, error) {
	return defaultLoader.Load(colspec, nrows, dir)
}

// Load opens one column per colspec row from dir, each with nrows rows,
// and assembles them into a new base table.
//
// The colspec shape is checked before any file is touched. Any failure
// releases the columns opened so far and returns a single error carrying
// the column index and the offending value; no partial table is returned.
func (l *Loader) Load(colspec *datatable.DataTable, nrows int64, dir string) (dt *datatable.DataTable, err error) {
	timer := metrics.NewTimer()
	log := logger.With(zap.String("dir", dir))
	defer func() {
		metrics.LoadDuration.Observe(timer.Stop().Seconds())
		if err != nil {
			metrics.LoadErrors.WithLabelValues(metrics.ErrorKind(err)).Inc()
			log.Debug("load failed", zap.Error(err))
		}
	}()

	if err := checkColspec(colspec); err != nil {
		return nil, err
	}
	readers, err := colspec.Readers()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeSchema, "cannot read colspec")
	}

	ncols := colspec.NRows()
	columns := make([]*column.Column, 0, ncols)
	release := func() {
		for _, c := range columns {
			_ = c.Release()
		}
	}

	var bytes int64
	for i := int64(0); i < ncols; i++ {
		col, err := l.loadColumn(readers, i, nrows, dir)
		if err != nil {
			release()
			return nil, err.WithDetail("column", i)
		}
		columns = append(columns, col)
		bytes += col.DataSize()

		metrics.ColumnsLoaded.WithLabelValues(col.SType().Code(), string(col.MType())).Inc()
		metrics.BytesMapped.Add(float64(col.DataSize()))
	}

	dt, err = datatable.New(columns)
	if err != nil {
		release()
		return nil, err
	}

	log.Info("table loaded",
		zap.Int64("nrows", nrows),
		zap.Int64("ncols", ncols),
		zap.Int64("bytes", bytes),
		zap.Duration("duration", timer.Stop()),
	)
	return dt, nil
}

func checkColspec(colspec *datatable.DataTable) error {
	if colspec == nil {
		return errors.New(errors.ErrorTypeSchema, "colspec is nil")
	}
	if colspec.NCols() != ColspecNCols {
		return errors.New(errors.ErrorTypeSchema, "colspec must have exactly 3 columns").
			WithDetail("ncols", colspec.NCols())
	}
	for j := 0; j < ColspecNCols; j++ {
		if st := colspec.Column(j).SType(); st != stype.Str32 {
			return errors.New(errors.ErrorTypeSchema, "colspec columns must be str32").
				WithDetail("colspec_column", j).
				WithDetail("stype", st.Code())
		}
	}
	return nil
}

func (l *Loader) loadColumn(readers []column.Reader, i, nrows int64, dir string) (*column.Column, *errors.Error) {
	name, err := field(readers[ColspecFile], i, "filename")
	if err != nil {
		return nil, err
	}
	if len(name) > l.cfg.MaxFilenameLen {
		return nil, tooLong("filename", len(name), l.cfg.MaxFilenameLen).
			WithDetail("value", name)
	}

	path := joinPath(dir, name)
	if len(path) > l.cfg.MaxPathLen {
		return nil, errors.New(errors.ErrorTypePath, "path too long").
			WithDetail("length", len(path)).
			WithDetail("limit", l.cfg.MaxPathLen).
			WithDetail("value", path)
	}

	code, err := field(readers[ColspecSType], i, "stype code")
	if err != nil {
		return nil, err
	}
	if len(code) != stype.CodeLen {
		return nil, errors.New(errors.ErrorTypeFormat, "stype code must be 3 bytes").
			WithDetail("value", code)
	}
	st, ok := stype.FromCode(code)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeFormat, "unrecognized stype code %q", code).
			WithDetail("value", code)
	}

	meta, err := field(readers[ColspecMeta], i, "meta")
	if err != nil {
		return nil, err
	}
	if len(meta) > l.cfg.MaxMetaLen {
		return nil, tooLong("meta", len(meta), l.cfg.MaxMetaLen)
	}

	col, openErr := column.OpenMapped(st, nrows, path, meta, l.cfg.MmapOptions()...)
	if openErr != nil {
		return nil, errors.Wrap(openErr, errors.TypeOf(openErr), "cannot load column").
			WithDetail("file", name)
	}
	if l.cfg.Verify {
		if verr := col.Verify(); verr != nil {
			_ = col.Release()
			return nil, errors.Wrap(verr, errors.ErrorTypeFormat, "column failed verification").
				WithDetail("file", name)
		}
	}

	logger.Debug("column loaded",
		zap.Int64("column", i),
		zap.String("path", path),
		zap.String("stype", st.Code()),
		zap.Int64("bytes", col.DataSize()),
		zap.Bool("mapped", col.Mapped()),
	)
	return col, nil
}

// field decodes row i of a colspec column into an owned string.
func field(r column.Reader, i int64, what string) (string, *errors.Error) {
	b, ok := r.StringBytes(i)
	if !ok {
		return "", errors.New(errors.ErrorTypeFormat, "missing "+what)
	}
	return string(b), nil
}

func tooLong(what string, length, limit int) *errors.Error {
	return errors.New(errors.ErrorTypeFormat, what+" too long").
		WithDetail("length", length).
		WithDetail("limit", limit)
}

// joinPath appends name to dir, inserting a separator when dir is non-empty
// and does not already end with one.
func joinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	if strings.HasSuffix(dir, "/") || os.IsPathSeparator(dir[len(dir)-1]) {
		return dir + name
	}
	return dir + string(os.PathSeparator) + name
}
