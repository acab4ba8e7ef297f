package errors

import (
	stderrors "errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	err := New(ErrorTypeIO, "cannot open").WithDetail("path", "a.bin").WithDetail("column", 0)
	assert.Equal(t, "io: cannot open [column=0] [path=a.bin]", err.Error())

	wrapped := Wrap(io.ErrUnexpectedEOF, ErrorTypeFormat, "bad meta")
	assert.Equal(t, "format: bad meta: unexpected EOF", wrapped.Error())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeIO, "nothing"))
}

func TestWrapKeepsStack(t *testing.T) {
	inner := New(ErrorTypeIO, "inner")
	outer := Wrap(inner, ErrorTypeFormat, "outer")
	require.NotEmpty(t, inner.Stack)
	assert.Equal(t, inner.Stack, outer.Stack)
	assert.True(t, stderrors.Is(outer, inner))
}

func TestIsTypeUsesOutermost(t *testing.T) {
	inner := New(ErrorTypeIO, "short file")
	outer := Wrap(inner, ErrorTypeFormat, "cannot load column")

	assert.True(t, IsType(outer, ErrorTypeFormat))
	assert.False(t, IsType(outer, ErrorTypeIO))
	assert.Equal(t, ErrorTypeFormat, TypeOf(outer))
	assert.False(t, IsType(io.EOF, ErrorTypeIO))
	assert.Equal(t, ErrorType(""), TypeOf(nil))
}

func TestDetail(t *testing.T) {
	err := Newf(ErrorTypePath, "path of %d bytes", 901).WithDetail("limit", 900)
	v, ok := err.Detail("limit")
	assert.True(t, ok)
	assert.Equal(t, 900, v)
	_, ok = err.Detail("column")
	assert.False(t, ok)
	assert.Equal(t, "path of 901 bytes", err.Message)
}

func TestAs(t *testing.T) {
	var target *Error
	assert.True(t, As(New(ErrorTypeSchema, "x"), &target))
	assert.Equal(t, ErrorTypeSchema, target.Type)
}
