package metrics

import (
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/Cheburusska/datatable/pkg/errors"
)

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "path", ErrorKind(errors.New(errors.ErrorTypePath, "path too long")))
	assert.Equal(t, "format", ErrorKind(errors.Wrap(io.EOF, errors.ErrorTypeFormat, "bad meta")))
	assert.Equal(t, "unknown", ErrorKind(io.EOF))
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(LoadErrors.WithLabelValues("schema"))
	LoadErrors.WithLabelValues("schema").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(LoadErrors.WithLabelValues("schema")))

	before = testutil.ToFloat64(BytesMapped)
	BytesMapped.Add(12)
	assert.Equal(t, before+12, testutil.ToFloat64(BytesMapped))
}

func TestTimer(t *testing.T) {
	timer := NewTimer()
	time.Sleep(time.Millisecond)
	first := timer.Stop()
	assert.GreaterOrEqual(t, first, time.Millisecond)
	assert.GreaterOrEqual(t, timer.Stop(), first)
}
