// Package datatable is an in-memory columnar table engine whose columns live
// either in owned heap buffers or in read-only memory maps of NFF files.
//
// A DataTable is a list of equally long columns. Each column is stored in one
// of nine storage types (stypes): bool, four integer widths, two float widths
// and two string layouts with 32- or 64-bit offsets. Missing values are
// encoded in-band with per-stype NA sentinels.
//
// # Views
//
// Row filtering and column projection never copy data. ApplyMapping returns
// a view table that holds a row mapping into a base table and one view column
// per projected base column. Views of views collapse to a single level, so
// every view refers directly to a base table and a read resolves through at
// most one mapping.
//
// # Quick Start
//
// Load a directory written by nff.Save and print the first rows of a column:
//
//	import (
//	    "github.com/Cheburusska/datatable/pkg/nff"
//	    "github.com/Cheburusska/datatable/pkg/rowmapping"
//	)
//
//	dt, err := nff.Open("/data/table")
//	if err != nil {
//	    return err
//	}
//	defer dt.Release(nil)
//
//	rm, _ := rowmapping.NewSlice(0, 10, 1)
//	head, _ := dt.ApplyMapping(rm, rowmapping.NewColMapping(0, 2))
//	defer head.Release(nil)
//
//	r, _ := head.Reader(0)
//	fmt.Println(r.Values())
//
// Lower-level callers build the colspec themselves:
//
//	colspec, _ := nff.NewColspec(
//	    []string{"a.bin"}, []string{"i_4"}, []string{""})
//	dt, err := nff.Load(colspec, 3, "/data")
//
// # Key Packages
//
//	pkg/stype        - Storage types, codes and NA sentinels
//	pkg/column       - Data and view columns, readers and stats
//	pkg/rowmapping   - Row and column mappings
//	pkg/datatable    - Tables, views, validation and release
//	pkg/nff          - NFF directory loader and writer
//	pkg/hash         - Per-stype row hashing
//	pkg/export       - Arrow record and IPC export
//	pkg/mmap         - Read-only file mappings
//	pkg/compression  - Stream compression for exports
//	pkg/config       - YAML configuration
//	pkg/errors       - Structured error handling
//	pkg/logger       - Structured logging
//	pkg/metrics      - Prometheus metrics
//
// # Errors
//
// Every failure carries a kind: schema, format, path, io, invariant or
// config. Use errors.IsType or errors.TypeOf from pkg/errors to branch on
// it. No operation retries internally.
//
// # Configuration
//
// The loader bounds (filename 100 bytes, path 900 bytes, meta 100 bytes),
// memory mapping, logging and export settings are read from YAML:
//
//	loader:
//	  max_filename_len: 100
//	  max_path_len: 900
//	  max_meta_len: 100
//	  use_mmap: true
//	logging:
//	  level: info
//	export:
//	  compression: zstd
//	  batch_rows: 65536
//
// Environment variables are supported with ${VAR_NAME} syntax.
//
// # Command Line
//
//	nff inspect /data/table --json
//	nff head /data/table -n 20
//	nff export /data/table --out table.arrow.zst --compression zstd
package datatable
