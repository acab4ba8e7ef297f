// Package strings provides zero-copy string utilities with pooled builders
// used when decoding string columns and formatting error messages.
package strings

import (
	"fmt"
	"sync"
	"unsafe"
)

// BytesToString converts byte slice to string without allocation
// WARNING: The returned string shares memory with the byte slice.
// For memory-mapped column data the string is only valid until the
// column is released.
func BytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

// Clone creates a copy of a string (useful when you need to own the memory)
func Clone(s string) string {
	if len(s) == 0 {
		return ""
	}
	b := make([]byte, len(s))
	copy(b, s)
	return BytesToString(b)
}

// Builder provides efficient string building over a reusable buffer
type Builder struct {
	buf []byte
}

// NewBuilder creates a new string builder
func NewBuilder(capacity int) *Builder {
	return &Builder{
		buf: make([]byte, 0, capacity),
	}
}

// WriteString appends a string to the builder
func (b *Builder) WriteString(s string) {
	b.buf = append(b.buf, s...)
}

// WriteBytes appends bytes to the builder
func (b *Builder) WriteBytes(data []byte) {
	b.buf = append(b.buf, data...)
}

// WriteByte appends a single byte
func (b *Builder) WriteByte(c byte) error {
	b.buf = append(b.buf, c)
	return nil
}

// Write implements io.Writer interface
func (b *Builder) Write(p []byte) (n int, err error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// String returns the built string using zero-copy conversion
func (b *Builder) String() string {
	return BytesToString(b.buf)
}

// Len returns the length of the built string
func (b *Builder) Len() int {
	return len(b.buf)
}

// Reset resets the builder for reuse
func (b *Builder) Reset() {
	b.buf = b.buf[:0]
}

var builderPool = &sync.Pool{
	New: func() interface{} {
		return NewBuilder(1024)
	},
}

// GetBuilder retrieves a pooled builder
func GetBuilder() *Builder {
	builder := builderPool.Get().(*Builder)
	builder.Reset()
	return builder
}

// PutBuilder returns a builder to the pool
func PutBuilder(builder *Builder) {
	if builder == nil {
		return
	}
	// Do not keep oversized buffers around.
	if cap(builder.buf) > 64*1024 {
		return
	}
	builder.Reset()
	builderPool.Put(builder)
}

// Sprintf provides a pooled alternative to fmt.Sprintf
func Sprintf(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}

	builder := GetBuilder()
	defer PutBuilder(builder)

	fmt.Fprintf(builder, format, args...)

	return Clone(builder.String())
}
