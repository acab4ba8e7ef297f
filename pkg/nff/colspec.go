package nff

import (
	"github.com/Cheburusska/datatable/pkg/column"
	"github.com/Cheburusska/datatable/pkg/datatable"
	"github.com/Cheburusska/datatable/pkg/errors"
	"github.com/Cheburusska/datatable/pkg/stype"
)

// Entry is one decoded colspec row.
type Entry struct {
	File  string `json:"file"`
	SType string `json:"stype"`
	Meta  string `json:"meta,omitempty"`
}

// NewColspec builds an in-memory colspec table from three equally long
// lists. No value is validated here; Load reports bad entries.
func NewColspec(files, codes, metas []string) (*datatable.DataTable, error) {
	if len(codes) != len(files) || len(metas) != len(files) {
		return nil, errors.New(errors.ErrorTypeInvariant, "colspec lists differ in length").
			WithDetail("files", len(files)).
			WithDetail("codes", len(codes)).
			WithDetail("metas", len(metas))
	}

	cols := make([]*column.Column, 0, ColspecNCols)
	for _, vals := range [][]string{files, codes, metas} {
		c, err := column.FromStrings(stype.Str32, vals, nil)
		if err != nil {
			for _, done := range cols {
				_ = done.Release()
			}
			return nil, err
		}
		cols = append(cols, c)
	}
	return datatable.New(cols)
}

// ColspecFromEntries is NewColspec over a list of entries.
func ColspecFromEntries(entries []Entry) (*datatable.DataTable, error) {
	files := make([]string, len(entries))
	codes := make([]string, len(entries))
	metas := make([]string, len(entries))
	for i, e := range entries {
		files[i], codes[i], metas[i] = e.File, e.SType, e.Meta
	}
	return NewColspec(files, codes, metas)
}

// Entries decodes every row of a colspec table. NA cells decode as empty
// strings.
func Entries(colspec *datatable.DataTable) ([]Entry, error) {
	if err := checkColspec(colspec); err != nil {
		return nil, err
	}
	readers, err := colspec.Readers()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, colspec.NRows())
	for i := range out {
		row := int64(i)
		get := func(j int) string {
			b, _ := readers[j].StringBytes(row)
			return string(b)
		}
		out[i] = Entry{File: get(ColspecFile), SType: get(ColspecSType), Meta: get(ColspecMeta)}
	}
	return out, nil
}
