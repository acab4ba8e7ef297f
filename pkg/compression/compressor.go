// Package compression wraps exported table files in a streaming compressor.
//
// # Algorithm Selection
//
//   - Snappy/S2: best for speed, moderate compression
//   - LZ4: extremely fast, decent compression
//   - Zstd: best compression ratio, good speed
//   - Gzip/Deflate: wide compatibility
//
// # Basic Usage
//
//	w, err := compression.NewWriter(f, compression.Config{
//	    Algorithm: compression.Zstd,
//	    Level:     compression.Default,
//	})
//	if err != nil {
//	    return err
//	}
//	// write the Arrow IPC stream to w
//	return w.Close()
//
// Closing the writer flushes the compressor but never closes the
// underlying writer.
package compression

import (
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/Cheburusska/datatable/pkg/errors"
)

// Algorithm represents a compression algorithm.
type Algorithm string

const (
	// None writes data through unchanged
	None Algorithm = "none"
	// Gzip represents gzip compression
	Gzip Algorithm = "gzip"
	// Snappy represents framed snappy compression
	Snappy Algorithm = "snappy"
	// LZ4 represents lz4 frame compression
	LZ4 Algorithm = "lz4"
	// Zstd represents zstandard compression
	Zstd Algorithm = "zstd"
	// S2 represents s2 compression (Snappy compatible)
	S2 Algorithm = "s2"
	// Deflate represents raw deflate compression
	Deflate Algorithm = "deflate"
)

// Algorithms lists every supported algorithm.
var Algorithms = []Algorithm{None, Gzip, Snappy, LZ4, Zstd, S2, Deflate}

var extensions = map[Algorithm]string{
	None:    "",
	Gzip:    ".gz",
	Snappy:  ".sz",
	LZ4:     ".lz4",
	Zstd:    ".zst",
	S2:      ".s2",
	Deflate: ".deflate",
}

// Extension returns the conventional file suffix of a, empty for None.
func (a Algorithm) Extension() string { return extensions[a] }

// ParseAlgorithm converts a config string into an Algorithm. The empty
// string means None.
func ParseAlgorithm(s string) (Algorithm, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return None, nil
	}
	for _, a := range Algorithms {
		if string(a) == s {
			return a, nil
		}
	}
	return None, errors.New(errors.ErrorTypeConfig, "unsupported compression algorithm").
		WithDetail("value", s)
}

// Level controls the trade-off between compression speed and ratio.
type Level int

const (
	// Fastest prioritizes speed over compression ratio.
	Fastest Level = 1
	// Default balances speed and compression.
	Default Level = 5
	// Better improves compression at cost of speed.
	Better Level = 7
	// Best maximizes compression ratio.
	Best Level = 9
)

// ParseLevel converts a config string (fastest/default/better/best) into a
// Level. The empty string means Default.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return Default, nil
	case "fastest":
		return Fastest, nil
	case "better":
		return Better, nil
	case "best":
		return Best, nil
	}
	return Default, errors.New(errors.ErrorTypeConfig, "unknown compression level").
		WithDetail("value", s)
}

// Config selects the compressor used by NewWriter.
type Config struct {
	Algorithm Algorithm
	Level     Level
	// Concurrency is honored by zstd, s2 and lz4; 0 keeps the library
	// default.
	Concurrency int
}

// DefaultConfig returns snappy at the default level.
func DefaultConfig() Config {
	return Config{Algorithm: Snappy, Level: Default}
}

// NewWriter returns a writer compressing into dst. Close must be called to
// flush the last block.
func NewWriter(dst io.Writer, cfg Config) (io.WriteCloser, error) {
	switch cfg.Algorithm {
	case None, "":
		return nopWriteCloser{dst}, nil
	case Gzip:
		return gzip.NewWriterLevel(dst, mapGzipLevel(cfg.Level))
	case Deflate:
		return flate.NewWriter(dst, mapGzipLevel(cfg.Level))
	case Snappy:
		return snappy.NewBufferedWriter(dst), nil
	case S2:
		opts := []s2.WriterOption{}
		switch cfg.Level {
		case Better:
			opts = append(opts, s2.WriterBetterCompression())
		case Best:
			opts = append(opts, s2.WriterBestCompression())
		}
		if cfg.Concurrency > 0 {
			opts = append(opts, s2.WriterConcurrency(cfg.Concurrency))
		}
		return s2.NewWriter(dst, opts...), nil
	case LZ4:
		w := lz4.NewWriter(dst)
		opts := []lz4.Option{lz4.CompressionLevelOption(mapLZ4Level(cfg.Level))}
		if cfg.Concurrency > 0 {
			opts = append(opts, lz4.ConcurrencyOption(cfg.Concurrency))
		}
		if err := w.Apply(opts...); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid lz4 options")
		}
		return w, nil
	case Zstd:
		opts := []zstd.EOption{zstd.WithEncoderLevel(mapZstdLevel(cfg.Level))}
		if cfg.Concurrency > 0 {
			opts = append(opts, zstd.WithEncoderConcurrency(cfg.Concurrency))
		}
		return zstd.NewWriter(dst, opts...)
	}
	return nil, errors.New(errors.ErrorTypeConfig, "unsupported compression algorithm").
		WithDetail("value", string(cfg.Algorithm))
}

// NewReader returns a reader decompressing src written with algorithm a.
func NewReader(src io.Reader, a Algorithm) (io.ReadCloser, error) {
	switch a {
	case None, "":
		return io.NopCloser(src), nil
	case Gzip:
		return gzip.NewReader(src)
	case Deflate:
		return flate.NewReader(src), nil
	case Snappy:
		return io.NopCloser(snappy.NewReader(src)), nil
	case S2:
		return io.NopCloser(s2.NewReader(src)), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(src)), nil
	case Zstd:
		dec, err := zstd.NewReader(src)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	}
	return nil, errors.New(errors.ErrorTypeConfig, "unsupported compression algorithm").
		WithDetail("value", string(a))
}

// CompressStream copies src into dst through a compressor and returns the
// number of uncompressed bytes copied.
func CompressStream(dst io.Writer, src io.Reader, cfg Config) (int64, error) {
	w, err := NewWriter(dst, cfg)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(w, src)
	if err != nil {
		_ = w.Close()
		return n, err
	}
	return n, w.Close()
}

// DecompressStream copies the decompressed contents of src into dst.
func DecompressStream(dst io.Writer, src io.Reader, a Algorithm) (int64, error) {
	r, err := NewReader(src, a)
	if err != nil {
		return 0, err
	}
	defer r.Close()
	return io.Copy(dst, r) //nolint:gosec // G110: input is a file this package wrote
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// Helper functions to map compression levels

func mapGzipLevel(level Level) int {
	switch level {
	case Fastest:
		return gzip.BestSpeed
	case Best:
		return gzip.BestCompression
	default:
		return gzip.DefaultCompression
	}
}

func mapLZ4Level(level Level) lz4.CompressionLevel {
	switch level {
	case Fastest:
		return lz4.Fast
	case Best:
		return lz4.Level9
	default:
		return lz4.Level5
	}
}

func mapZstdLevel(level Level) zstd.EncoderLevel {
	switch level {
	case Fastest:
		return zstd.SpeedFastest
	case Better:
		return zstd.SpeedBetterCompression
	case Best:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}
