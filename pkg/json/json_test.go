package json

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   int64   `json:"id"`
	Name *string `json:"name"`
}

func TestMarshalRoundTrip(t *testing.T) {
	name := "a<b>"
	data, err := Marshal(row{ID: 1, Name: &name})
	require.NoError(t, err)

	var got row
	require.NoError(t, Unmarshal(data, &got))
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, name, *got.Name)
}

func TestDecodeStrict(t *testing.T) {
	var r row
	err := Decode(strings.NewReader(`{"id": 1, "extra": true}`), &r, true)
	assert.Error(t, err)

	require.NoError(t, Decode(strings.NewReader(`{"id": 2, "extra": true}`), &r, false))
	assert.Equal(t, int64(2), r.ID)
}

func TestWriteIndented(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteIndented(&buf, map[string]string{"k": "<v>"}))
	assert.Equal(t, "{\n  \"k\": \"<v>\"\n}\n", buf.String())
}

func TestStreamingEncoderArray(t *testing.T) {
	var buf bytes.Buffer
	enc := NewStreamingEncoder(&buf, true)
	require.NoError(t, enc.Encode(row{ID: 1}))
	require.NoError(t, enc.Encode(row{ID: 2}))
	require.NoError(t, enc.Close())

	assert.Equal(t, `[{"id":1,"name":null},{"id":2,"name":null}]`+"\n", buf.String())

	var rows []row
	require.NoError(t, Unmarshal(buf.Bytes(), &rows))
	assert.Len(t, rows, 2)
}

func TestStreamingEncoderEmptyArray(t *testing.T) {
	var buf bytes.Buffer
	enc := NewStreamingEncoder(&buf, true)
	require.NoError(t, enc.Close())
	assert.Equal(t, "[]\n", buf.String())
}

func TestStreamingEncoderLines(t *testing.T) {
	var buf bytes.Buffer
	enc := NewStreamingEncoder(&buf, false)
	for i := int64(0); i < 3; i++ {
		require.NoError(t, enc.Encode(row{ID: i}))
	}
	require.NoError(t, enc.Close())
	assert.Len(t, strings.Split(strings.TrimSpace(buf.String()), "\n"), 3)
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestStreamingEncoderWriteError(t *testing.T) {
	enc := NewStreamingEncoder(failWriter{}, false)
	require.NoError(t, enc.Encode(row{ID: 1}))
	assert.EqualError(t, enc.Close(), "disk full")
}
