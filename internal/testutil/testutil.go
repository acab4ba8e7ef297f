// Package testutil provides testing utilities for the datatable packages
package testutil

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/Cheburusska/datatable/pkg/logger"
)

// TestLogger creates a test logger that writes to the test output and
// installs it as the global logger until the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	t.Helper()
	l := zaptest.NewLogger(t, zaptest.Level(zap.DebugLevel))
	prev := logger.Get()
	logger.Set(l)
	t.Cleanup(func() { logger.Set(prev) })
	return l
}

// WriteFile writes data to dir/name and returns the full path.
func WriteFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Int32s encodes vals as little-endian 4-byte integers.
func Int32s(vals ...int32) []byte {
	b := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(b[4*i:], uint32(v))
	}
	return b
}

// Int64s encodes vals as little-endian 8-byte integers.
func Int64s(vals ...int64) []byte {
	b := make([]byte, 8*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint64(b[8*i:], uint64(v))
	}
	return b
}

// Float64s encodes vals as little-endian IEEE doubles.
func Float64s(vals ...float64) []byte {
	b := make([]byte, 8*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint64(b[8*i:], math.Float64bits(v))
	}
	return b
}

// Str32 encodes vals in the native string layout with 4-byte offsets:
// string bytes, zero padding to 4 bytes, the -1 predecessor slot, then one
// offset per row. Rows listed in na are NA. It returns the buffer and the
// offoff meta string.
func Str32(vals []string, na ...int) ([]byte, string) {
	isNA := make(map[int]bool, len(na))
	for _, i := range na {
		isNA[i] = true
	}

	var data []byte
	ends := make([]int32, len(vals))
	for i, s := range vals {
		if !isNA[i] {
			data = append(data, s...)
		}
		ends[i] = int32(len(data)) + 1
		if isNA[i] {
			ends[i] = -ends[i]
		}
	}
	for len(data)%4 != 0 {
		data = append(data, 0)
	}
	offoff := len(data) + 4
	buf := append(data, Int32s(-1)...)
	buf = append(buf, Int32s(ends...)...)
	return buf, "offoff=" + strconv.Itoa(offoff)
}
