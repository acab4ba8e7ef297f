// Package json wraps goccy/go-json with pooled buffers. It encodes the NFF
// manifest and the command line output.
package json

import (
	"bytes"
	"io"
	"sync"

	gojson "github.com/goccy/go-json"
)

var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 4096))
	},
}

// GetBuffer gets a pooled bytes.Buffer
func GetBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns a buffer to the pool
func PutBuffer(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > 1024*1024 { // Don't pool very large buffers
		return
	}
	bufferPool.Put(buf)
}

// Marshal is a drop-in replacement for encoding/json.Marshal
func Marshal(v interface{}) ([]byte, error) {
	return gojson.Marshal(v)
}

// Unmarshal is a drop-in replacement for encoding/json.Unmarshal
func Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}

// MarshalIndent is a drop-in replacement for encoding/json.MarshalIndent
func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return gojson.MarshalIndent(v, prefix, indent)
}

// Decode reads one JSON value from r into v. Unknown fields are rejected
// when strict is set.
func Decode(r io.Reader, v interface{}, strict bool) error {
	dec := gojson.NewDecoder(r)
	if strict {
		dec.DisallowUnknownFields()
	}
	return dec.Decode(v)
}

// WriteIndented encodes v with two-space indentation and a trailing newline
// into w in a single write. HTML characters are not escaped.
func WriteIndented(w io.Writer, v interface{}) error {
	buf := GetBuffer()
	defer PutBuffer(buf)

	enc := gojson.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// StreamingEncoder writes a sequence of values either as one JSON array or
// as newline-delimited JSON.
type StreamingEncoder struct {
	writer      io.Writer
	buf         *bytes.Buffer
	encoder     *gojson.Encoder
	firstRecord bool
	isArray     bool
	err         error
}

// NewStreamingEncoder creates a new streaming encoder
func NewStreamingEncoder(w io.Writer, isArray bool) *StreamingEncoder {
	buf := GetBuffer()
	enc := gojson.NewEncoder(buf)
	enc.SetEscapeHTML(false)

	se := &StreamingEncoder{
		writer:      w,
		buf:         buf,
		encoder:     enc,
		firstRecord: true,
		isArray:     isArray,
	}
	if isArray {
		buf.WriteByte('[')
	}
	return se
}

// Encode encodes a single value. Output is flushed to the writer once the
// internal buffer passes 64KiB and on Close.
func (se *StreamingEncoder) Encode(v interface{}) error {
	if se.err != nil {
		return se.err
	}
	if se.isArray && !se.firstRecord {
		se.buf.WriteByte(',')
	}
	se.firstRecord = false

	if err := se.encoder.Encode(v); err != nil {
		se.err = err
		return err
	}
	if se.isArray {
		// Encode terminates each value with a newline; arrays keep it
		// only as the separator whitespace.
		se.buf.Truncate(se.buf.Len() - 1)
	}
	if se.buf.Len() >= 64*1024 {
		return se.flush()
	}
	return nil
}

func (se *StreamingEncoder) flush() error {
	if se.err != nil {
		return se.err
	}
	if _, err := se.writer.Write(se.buf.Bytes()); err != nil {
		se.err = err
		return err
	}
	se.buf.Reset()
	return nil
}

// Close finalizes the encoding and releases the buffer.
func (se *StreamingEncoder) Close() error {
	if se.buf == nil {
		return se.err
	}
	if se.isArray {
		se.buf.WriteString("]\n")
	}
	err := se.flush()
	PutBuffer(se.buf)
	se.buf = nil
	return err
}
