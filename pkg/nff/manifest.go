package nff

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Cheburusska/datatable/pkg/column"
	"github.com/Cheburusska/datatable/pkg/datatable"
	"github.com/Cheburusska/datatable/pkg/errors"
	"github.com/Cheburusska/datatable/pkg/json"
	"github.com/Cheburusska/datatable/pkg/stype"
)

// ManifestFile is the name of the manifest written into every saved
// directory.
const ManifestFile = "_nff.json"

// FormatVersion is the manifest version written by Save.
const FormatVersion = 1

// Manifest records what Open needs to load a saved directory: the row
// count and where the colspec columns live. Columns mirrors the colspec
// for tools that only want to inspect a directory.
type Manifest struct {
	Version int          `json:"version"`
	NRows   int64        `json:"nrows"`
	Colspec ColspecFiles `json:"colspec"`
	Columns []Entry      `json:"columns"`
}

// ColspecFiles locates the three str32 colspec column files.
type ColspecFiles struct {
	NRows int64    `json:"nrows"`
	Files []string `json:"files"`
	Metas []string `json:"metas"`
}

// ReadManifest reads and checks dir's manifest.
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path) //nolint:gosec // G304: directory chosen by caller
	if err != nil {
		msg := "cannot read manifest"
		if stderrors.Is(err, fs.ErrNotExist) {
			msg = "manifest not found"
		}
		return nil, errors.Wrap(err, errors.ErrorTypeIO, msg).WithDetail("path", path)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFormat, "cannot decode manifest").
			WithDetail("path", path)
	}
	if m.Version != FormatVersion {
		return nil, errors.New(errors.ErrorTypeFormat, "unsupported manifest version").
			WithDetail("value", m.Version)
	}
	if m.NRows < 0 || m.Colspec.NRows < 0 {
		return nil, errors.New(errors.ErrorTypeFormat, "negative row count in manifest").
			WithDetail("nrows", m.NRows).
			WithDetail("colspec_nrows", m.Colspec.NRows)
	}
	if len(m.Colspec.Files) != ColspecNCols || len(m.Colspec.Metas) != ColspecNCols {
		return nil, errors.New(errors.ErrorTypeSchema, "manifest colspec must list 3 columns").
			WithDetail("files", len(m.Colspec.Files)).
			WithDetail("metas", len(m.Colspec.Metas))
	}
	return &m, nil
}

// WriteManifest writes m into dir.
func WriteManifest(dir string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFormat, "cannot encode manifest")
	}
	path := filepath.Join(dir, ManifestFile)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil { //nolint:gosec
		return errors.Wrap(err, errors.ErrorTypeIO, "cannot write manifest").WithDetail("path", path)
	}
	return nil
}

// Open loads a directory written by Save with the default configuration.
func Open(dir string) (*datatable.DataTable, error) {
	return defaultLoader.Open(dir)
}

// OpenColspec loads the colspec of a saved directory through the ordinary
// column path. The caller releases it.
func (l *Loader) OpenColspec(dir string, m *Manifest) (*datatable.DataTable, error) {
	cols := make([]*column.Column, 0, ColspecNCols)
	for j := 0; j < ColspecNCols; j++ {
		path := joinPath(dir, m.Colspec.Files[j])
		c, err := column.OpenMapped(stype.Str32, m.Colspec.NRows, path, m.Colspec.Metas[j], l.cfg.MmapOptions()...)
		if err != nil {
			for _, done := range cols {
				_ = done.Release()
			}
			return nil, errors.Wrap(err, errors.TypeOf(err), "cannot open colspec").
				WithDetail("colspec_column", j)
		}
		cols = append(cols, c)
	}
	return datatable.New(cols)
}

// Open reads dir's manifest, loads its colspec and then the table. The
// colspec is released before returning.
func (l *Loader) Open(dir string) (*datatable.DataTable, error) {
	m, err := ReadManifest(dir)
	if err != nil {
		return nil, err
	}
	colspec, err := l.OpenColspec(dir, m)
	if err != nil {
		return nil, err
	}
	defer colspec.Release(nil)

	return l.Load(colspec, m.NRows, dir)
}
