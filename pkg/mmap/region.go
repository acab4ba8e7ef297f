// Package mmap provides read-only memory-mapped file regions for zero-copy
// column loading, with a plain read fallback where mapping is unavailable.
//
// A Region is immutable after Open. Any number of goroutines may read its
// bytes concurrently; Close must happen after all readers are done.
package mmap

import (
	"fmt"
	"io"
	"os"
)

// Advice tells the kernel how a mapped region will be accessed.
type Advice int

const (
	// AdviceNormal leaves the kernel default in place
	AdviceNormal Advice = iota
	// AdviceSequential is for full scans
	AdviceSequential
	// AdviceRandom is for point lookups through a row mapping
	AdviceRandom
	// AdviceWillNeed asks the kernel to prefetch the whole region
	AdviceWillNeed
)

// ParseAdvice converts a config string into an Advice.
func ParseAdvice(s string) (Advice, error) {
	switch s {
	case "", "normal":
		return AdviceNormal, nil
	case "sequential":
		return AdviceSequential, nil
	case "random":
		return AdviceRandom, nil
	case "willneed":
		return AdviceWillNeed, nil
	}
	return AdviceNormal, fmt.Errorf("unknown mmap advice %q", s)
}

type options struct {
	useMmap bool
	advice  Advice
}

// Option configures Open.
type Option func(*options)

// WithMmap enables or disables memory mapping. When disabled the file is
// read into a heap buffer.
func WithMmap(enabled bool) Option {
	return func(o *options) { o.useMmap = enabled }
}

// WithAdvice sets the madvise hint applied after mapping.
func WithAdvice(a Advice) Option {
	return func(o *options) { o.advice = a }
}

// Region is a read-only view of a whole file.
type Region struct {
	path   string
	data   []byte
	mapped bool
	closed bool
}

// Open maps the file at path read-only. If mapping is disabled, unsupported
// or fails, the file is read into memory instead. Errors from the filesystem
// are wrapped with %w so callers can test them with errors.Is.
func Open(path string, opts ...Option) (*Region, error) {
	o := options{useMmap: true}
	for _, opt := range opts {
		opt(&o)
	}

	file, err := os.Open(path) //nolint:gosec // G304: path is built and bounded by the loader
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("failed to open file: %s is a directory", path)
	}

	fileSize := stat.Size()
	if fileSize == 0 {
		// mmap rejects zero-length mappings.
		return &Region{path: path, data: []byte{}}, nil
	}
	if int64(int(fileSize)) != fileSize {
		return nil, fmt.Errorf("file too large to map: %d bytes", fileSize)
	}

	if o.useMmap && supported {
		data, err := mmap(int(file.Fd()), 0, int(fileSize), protRead, mapShared)
		if err == nil {
			applyAdvice(data, o.advice)
			return &Region{path: path, data: data, mapped: true}, nil
		}
	}

	data := make([]byte, fileSize)
	if _, err := io.ReadFull(file, data); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return &Region{path: path, data: data}, nil
}

// FromBytes wraps an in-memory buffer as an unmapped Region.
func FromBytes(b []byte) *Region {
	return &Region{data: b}
}

func applyAdvice(data []byte, a Advice) {
	if len(data) == 0 {
		return
	}
	// Advice is a hint; failures are not fatal.
	switch a {
	case AdviceSequential:
		_ = madvise(data, madvSequential)
	case AdviceRandom:
		_ = madvise(data, madvRandom)
	case AdviceWillNeed:
		_ = madvise(data, madvWillneed)
	}
}

// Bytes returns the whole region. The slice must not be written to and is
// invalid after Close.
func (r *Region) Bytes() []byte {
	return r.data
}

// Len returns the region size in bytes.
func (r *Region) Len() int64 {
	return int64(len(r.data))
}

// Mapped reports whether the region is backed by a file mapping.
func (r *Region) Mapped() bool {
	return r.mapped
}

// Path returns the file the region was opened from, or "" for FromBytes.
func (r *Region) Path() string {
	return r.path
}

// Close unmaps the region. It is safe to call more than once.
func (r *Region) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	var err error
	if r.mapped && len(r.data) > 0 {
		err = munmap(r.data)
	}
	r.data = nil
	return err
}
