package nff

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Cheburusska/datatable/pkg/column"
	"github.com/Cheburusska/datatable/pkg/datatable"
	"github.com/Cheburusska/datatable/pkg/errors"
	"github.com/Cheburusska/datatable/pkg/logger"
	stringpool "github.com/Cheburusska/datatable/pkg/strings"
)

// Names of the colspec column files written by Save.
var colspecFiles = [ColspecNCols]string{"_colspec_file.bin", "_colspec_stype.bin", "_colspec_meta.bin"}

// ColumnFileName returns the file name Save uses for column j.
func ColumnFileName(j int) string {
	return stringpool.Sprintf("c%05d.bin", j)
}

// Save writes every column of dt into dir, which is created if needed,
// followed by the colspec columns and the manifest. View columns are
// materialized on the way out. Loading the directory reproduces the data
// bit for bit for fixed-width columns and value for value for strings.
func Save(dt *datatable.DataTable, dir string) (*Manifest, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec
		return nil, errors.Wrap(err, errors.ErrorTypeIO, "cannot create directory").
			WithDetail("path", dir)
	}

	entries := make([]Entry, dt.NCols())
	for j := range entries {
		e, err := saveColumn(dt, j, dir)
		if err != nil {
			return nil, err.WithDetail("column", j)
		}
		entries[j] = e
	}

	colspec, err := ColspecFromEntries(entries)
	if err != nil {
		return nil, err
	}
	defer colspec.Release(nil)

	m := &Manifest{
		Version: FormatVersion,
		NRows:   dt.NRows(),
		Colspec: ColspecFiles{NRows: int64(len(entries)), Files: colspecFiles[:], Metas: make([]string, ColspecNCols)},
		Columns: entries,
	}
	for j := 0; j < ColspecNCols; j++ {
		col := colspec.Column(j)
		if err := writeColumnFile(filepath.Join(dir, colspecFiles[j]), col); err != nil {
			return nil, err.WithDetail("colspec_column", j)
		}
		m.Colspec.Metas[j] = col.Meta().String()
	}
	if err := WriteManifest(dir, m); err != nil {
		return nil, err
	}

	logger.Info("table saved",
		zap.String("dir", dir),
		zap.Int64("nrows", dt.NRows()),
		zap.Int("ncols", dt.NCols()),
	)
	return m, nil
}

func saveColumn(dt *datatable.DataTable, j int, dir string) (Entry, *errors.Error) {
	col := dt.Column(j)
	if col.IsView() {
		r, err := dt.Reader(j)
		if err != nil {
			return Entry{}, errors.Wrap(err, errors.ErrorTypeInvariant, "cannot read view column")
		}
		m, err := column.Materialize(r)
		if err != nil {
			return Entry{}, errors.Wrap(err, errors.TypeOf(err), "cannot materialize view column")
		}
		defer m.Release()
		col = m
	}

	e := Entry{File: ColumnFileName(j), SType: col.SType().Code()}
	if meta := col.Meta(); meta != nil {
		e.Meta = meta.String()
	}
	if err := writeColumnFile(filepath.Join(dir, e.File), col); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func writeColumnFile(path string, col *column.Column) *errors.Error {
	if err := os.WriteFile(path, col.Bytes(), 0o644); err != nil { //nolint:gosec
		return errors.Wrap(err, errors.ErrorTypeIO, "cannot write column file").
			WithDetail("path", path)
	}
	return nil
}
