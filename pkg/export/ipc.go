package export

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"

	"github.com/Cheburusska/datatable/pkg/compression"
	"github.com/Cheburusska/datatable/pkg/config"
	"github.com/Cheburusska/datatable/pkg/datatable"
	"github.com/Cheburusska/datatable/pkg/errors"
	"github.com/Cheburusska/datatable/pkg/logger"
	"github.com/Cheburusska/datatable/pkg/metrics"
)

// DefaultBatchRows is the record batch size used when Options leave it
// unset.
const DefaultBatchRows = 64 * 1024

// Options controls an IPC export.
type Options struct {
	// Names overrides the default C0, C1, ... field names
	Names []string
	// Compression wraps the whole IPC file in a compression stream
	Compression compression.Config
	// BatchRows is the number of rows per record batch
	BatchRows int64
	// Workers bounds concurrent column conversion
	Workers int
	// Allocator defaults to the Go allocator
	Allocator memory.Allocator
}

// OptionsFromConfig converts the export section of a configuration.
func OptionsFromConfig(cfg config.ExportConfig) (Options, error) {
	cc, err := cfg.CompressionConfig()
	if err != nil {
		return Options{}, err
	}
	return Options{Compression: cc, BatchRows: cfg.BatchRows, Workers: cfg.Workers}, nil
}

// Summary describes a finished export.
type Summary struct {
	Rows    int64
	Batches int
	// Bytes is the size of the output after compression
	Bytes int64
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// WriteIPC writes dt to w as an Arrow IPC file in batches of
// opts.BatchRows rows. w is not closed.
func WriteIPC(ctx context.Context, w io.Writer, dt *datatable.DataTable, opts Options) (Summary, error) {
	timer := metrics.NewTimer()
	algo := opts.Compression.Algorithm
	if algo == "" {
		algo = compression.None
	}
	defer func() {
		metrics.ExportDuration.WithLabelValues(string(algo)).Observe(timer.Stop().Seconds())
	}()

	batch := opts.BatchRows
	if batch <= 0 {
		batch = DefaultBatchRows
	}
	conv, err := NewConverter(dt, opts.Names, opts.Allocator, opts.Workers)
	if err != nil {
		return Summary{}, err
	}

	counter := &countingWriter{w: w}
	zw, err := compression.NewWriter(counter, opts.Compression)
	if err != nil {
		return Summary{}, err
	}
	fw, err := ipc.NewFileWriter(zw, ipc.WithSchema(conv.Schema()), ipc.WithAllocator(conv.mem))
	if err != nil {
		_ = zw.Close()
		return Summary{}, errors.Wrap(err, errors.ErrorTypeIO, "failed to create arrow writer")
	}

	sum := Summary{}
	for from := int64(0); from < dt.NRows(); from += batch {
		to := from + batch
		if to > dt.NRows() {
			to = dt.NRows()
		}
		rec, err := conv.Record(ctx, from, to)
		if err != nil {
			_ = fw.Close()
			_ = zw.Close()
			return sum, err
		}
		err = fw.Write(rec)
		rec.Release()
		if err != nil {
			_ = fw.Close()
			_ = zw.Close()
			return sum, errors.Wrap(err, errors.ErrorTypeIO, "failed to write record batch").
				WithDetail("row", from)
		}
		sum.Rows += to - from
		sum.Batches++
	}

	if err := fw.Close(); err != nil {
		_ = zw.Close()
		return sum, errors.Wrap(err, errors.ErrorTypeIO, "failed to close arrow writer")
	}
	if err := zw.Close(); err != nil {
		return sum, errors.Wrap(err, errors.ErrorTypeIO, "failed to flush compressed output")
	}
	sum.Bytes = counter.n

	logger.Debug("table exported",
		zap.Int64("rows", sum.Rows),
		zap.Int("batches", sum.Batches),
		zap.Int64("bytes", sum.Bytes),
		zap.String("compression", string(algo)),
	)
	return sum, nil
}

// WriteFile exports dt into a new file at path.
func WriteFile(ctx context.Context, path string, dt *datatable.DataTable, opts Options) (Summary, error) {
	f, err := os.Create(path) //nolint:gosec // G304: output path chosen by caller
	if err != nil {
		return Summary{}, errors.Wrap(err, errors.ErrorTypeIO, "cannot create export file").
			WithDetail("path", path)
	}
	sum, err := WriteIPC(ctx, f, dt, opts)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = errors.Wrap(cerr, errors.ErrorTypeIO, "cannot close export file").WithDetail("path", path)
	}
	if err != nil {
		_ = os.Remove(path)
		return Summary{}, err
	}
	return sum, nil
}

// ReadIPC reads every record batch of an Arrow IPC file written by
// WriteIPC with algorithm a. The caller releases the records.
func ReadIPC(r io.Reader, a compression.Algorithm, mem memory.Allocator) (*arrow.Schema, []arrow.Record, error) {
	var buf bytes.Buffer
	if _, err := compression.DecompressStream(&buf, r, a); err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrorTypeIO, "cannot decompress arrow file").
			WithDetail("compression", string(a))
	}
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	fr, err := ipc.NewFileReader(bytes.NewReader(buf.Bytes()), ipc.WithAllocator(mem))
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrorTypeFormat, "cannot open arrow file")
	}
	defer fr.Close()

	recs := make([]arrow.Record, 0, fr.NumRecords())
	for i := 0; i < fr.NumRecords(); i++ {
		rec, err := fr.Record(i)
		if err != nil {
			for _, done := range recs {
				done.Release()
			}
			return nil, nil, errors.Wrap(err, errors.ErrorTypeFormat, "cannot read record batch").
				WithDetail("batch", i)
		}
		rec.Retain()
		recs = append(recs, rec)
	}
	return fr.Schema(), recs, nil
}
